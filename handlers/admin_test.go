package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"pizza-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentBlockLifecycle(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.createUser(t, "Admin", "admin@example.com", "secret123", models.RoleAdmin)
	adminToken := ts.tokenFor(t, admin)

	w := ts.request(t, http.MethodPost, "/api/content", adminToken, map[string]any{
		"slug":    "about-us",
		"title":   "About Us",
		"content": "Family pizzeria since 1987.",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	data := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, "text", data["type"])
	assert.Equal(t, float64(admin.ID), data["lastUpdatedBy"])

	// slug is unique
	w = ts.request(t, http.MethodPost, "/api/content", adminToken, map[string]any{
		"slug":    "about-us",
		"title":   "Duplicate",
		"content": "x",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// public read by slug, no auth required
	w = ts.request(t, http.MethodGet, "/api/content/about-us", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.request(t, http.MethodPut, "/api/content/about-us", adminToken, map[string]any{
		"slug":    "about-us",
		"title":   "Our Story",
		"content": "Updated copy.",
		"type":    "markdown",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.request(t, http.MethodDelete, "/api/content/about-us", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = ts.request(t, http.MethodGet, "/api/content/about-us", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestContentRejectsUnknownType(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.createUser(t, "Admin", "admin@example.com", "secret123", models.RoleAdmin)

	w := ts.request(t, http.MethodPost, "/api/content", ts.tokenFor(t, admin), map[string]any{
		"slug":    "hero",
		"title":   "Hero",
		"content": "x",
		"type":    "pdf",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNewsletterSubscribeCycle(t *testing.T) {
	ts := newTestServer(t)

	w := ts.request(t, http.MethodPost, "/api/newsletter/subscribe", "", map[string]any{
		"email": "Fan@Example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// active duplicate is rejected, case-insensitively
	w = ts.request(t, http.MethodPost, "/api/newsletter/subscribe", "", map[string]any{
		"email": "fan@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.request(t, http.MethodPost, "/api/newsletter/unsubscribe", "", map[string]any{
		"email": "fan@example.com",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// resubscribing re-activates the same row
	w = ts.request(t, http.MethodPost, "/api/newsletter/subscribe", "", map[string]any{
		"email": "fan@example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var count int64
	ts.db.Model(&models.NewsletterSubscription{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestUserAdministration(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.createUser(t, "Admin", "admin@example.com", "secret123", models.RoleAdmin)
	customer := ts.createUser(t, "Mario", "mario@example.com", "secret123", models.RoleCustomer)
	adminToken := ts.tokenFor(t, admin)

	w := ts.request(t, http.MethodGet, "/api/users?role=customer", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	users := decodeBody(t, w)["data"].([]any)
	require.Len(t, users, 1)
	// the hash never leaves the server
	_, leaked := users[0].(map[string]any)["passwordHash"]
	assert.False(t, leaked)

	w = ts.request(t, http.MethodPut, fmt.Sprintf("/api/users/%d", customer.ID), adminToken, map[string]any{
		"role": "staff",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.request(t, http.MethodPut, fmt.Sprintf("/api/users/%d", customer.ID), adminToken, map[string]any{
		"role": "superuser",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// admins cannot delete themselves
	w = ts.request(t, http.MethodDelete, fmt.Sprintf("/api/users/%d", admin.ID), adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.request(t, http.MethodDelete, fmt.Sprintf("/api/users/%d", customer.ID), adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateOwnProfile(t *testing.T) {
	ts := newTestServer(t)
	customer := ts.createUser(t, "Mario", "mario@example.com", "secret123", models.RoleCustomer)
	token := ts.tokenFor(t, customer)

	w := ts.request(t, http.MethodPut, "/api/users/me", token, map[string]any{
		"name":    "Mario Rossi",
		"phone":   "555-0100",
		"address": "Via Roma 1",
		"role":    "admin",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var got models.User
	require.NoError(t, ts.db.First(&got, customer.ID).Error)
	assert.Equal(t, "Mario Rossi", got.Name)
	assert.Equal(t, "555-0100", got.Phone)
	assert.Equal(t, "Via Roma 1", got.Address)
	// role is not a profile field
	assert.Equal(t, models.RoleCustomer, got.Role)

	// omitted fields keep their values
	w = ts.request(t, http.MethodPut, "/api/users/me", token, map[string]any{
		"phone": "555-0199",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, ts.db.First(&got, customer.ID).Error)
	assert.Equal(t, "Mario Rossi", got.Name)
	assert.Equal(t, "555-0199", got.Phone)
	assert.Equal(t, "Via Roma 1", got.Address)

	w = ts.request(t, http.MethodPut, "/api/users/me", "", map[string]any{"name": "Nobody"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAnalyticsOverview(t *testing.T) {
	ts := newTestServer(t)
	customer := ts.createUser(t, "Mario", "mario@example.com", "secret123", models.RoleCustomer)
	staff := ts.createUser(t, "Staff", "staff@example.com", "secret123", models.RoleStaff)
	p := seedProduct(t, ts.db, "Margherita", 10.00, true)

	for i := 0; i < 2; i++ {
		w := ts.request(t, http.MethodPost, "/api/orders", ts.tokenFor(t, customer), orderPayload(p.ID, 1))
		require.Equal(t, http.StatusCreated, w.Code)
	}
	// cancelled orders drop out of revenue
	w := ts.request(t, http.MethodPut, "/api/orders/2/cancel", ts.tokenFor(t, customer), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.request(t, http.MethodGet, "/api/analytics/overview", ts.tokenFor(t, staff), nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, 2.0, data["totalOrders"])
	assert.Equal(t, 1.0, data["pendingOrders"])
	assert.Equal(t, 10.0, data["totalRevenue"])
	assert.Equal(t, 1.0, data["customers"])

	w = ts.request(t, http.MethodGet, "/api/analytics/products", ts.tokenFor(t, staff), nil)
	require.Equal(t, http.StatusOK, w.Code)
	rows := decodeBody(t, w)["data"].([]any)
	require.Len(t, rows, 1)
	top := rows[0].(map[string]any)
	assert.Equal(t, "Margherita", top["name"])
	assert.Equal(t, 1.0, top["totalQuantity"])

	w = ts.request(t, http.MethodGet, "/api/analytics/sales", ts.tokenFor(t, staff), nil)
	require.Equal(t, http.StatusOK, w.Code)
	points := decodeBody(t, w)["data"].([]any)
	require.Len(t, points, 1)
	assert.Equal(t, 10.0, points[0].(map[string]any)["revenue"])
}

func TestAnalyticsForbiddenForCustomers(t *testing.T) {
	ts := newTestServer(t)
	customer := ts.createUser(t, "Mario", "mario@example.com", "secret123", models.RoleCustomer)

	w := ts.request(t, http.MethodGet, "/api/analytics/overview", ts.tokenFor(t, customer), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
