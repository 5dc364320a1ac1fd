package handlers_test

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	"pizza-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderPayload(productID uint, qty int) map[string]any {
	return map[string]any{
		"items": []map[string]any{
			{"productId": productID, "quantity": qty},
		},
		"deliveryAddress": "Via Roma 1",
	}
}

func TestCreateOrderPricesFromCatalog(t *testing.T) {
	ts := newTestServer(t)
	customer := ts.createUser(t, "Mario", "mario@example.com", "secret123", models.RoleCustomer)
	margherita := seedProduct(t, ts.db, "Margherita", 10.00, true)

	// client-supplied prices are ignored entirely
	body := map[string]any{
		"items": []map[string]any{
			{"productId": margherita.ID, "quantity": 2, "price": 0.01},
		},
		"deliveryAddress": "Via Roma 1",
	}
	w := ts.request(t, http.MethodPost, "/api/orders", ts.tokenFor(t, customer), body)
	require.Equal(t, http.StatusCreated, w.Code)

	data := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, 20.0, data["subtotal"])
	assert.Equal(t, 20.0, data["totalAmount"])
	assert.Equal(t, "pending", data["status"])
	assert.NotEmpty(t, data["orderNumber"])

	items := data["items"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.Equal(t, 10.0, item["price"])
	assert.Equal(t, "Margherita", item["name"])
}

func TestCreateOrderAppliesPromotion(t *testing.T) {
	ts := newTestServer(t)
	customer := ts.createUser(t, "Mario", "mario@example.com", "secret123", models.RoleCustomer)
	p := seedProduct(t, ts.db, "Margherita", 10.00, true)
	require.NoError(t, ts.db.Create(&models.Promotion{
		Code:         "SAVE10",
		DiscountType: models.DiscountPercentage,
		Amount:       10,
		IsActive:     true,
	}).Error)

	body := orderPayload(p.ID, 2)
	body["promotionCode"] = "SAVE10"
	w := ts.request(t, http.MethodPost, "/api/orders", ts.tokenFor(t, customer), body)
	require.Equal(t, http.StatusCreated, w.Code)

	data := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, 20.0, data["subtotal"])
	assert.Equal(t, 2.0, data["discountAmount"])
	assert.Equal(t, 18.0, data["totalAmount"])
}

func TestCreateOrderIgnoresUnknownPromotion(t *testing.T) {
	ts := newTestServer(t)
	customer := ts.createUser(t, "Mario", "mario@example.com", "secret123", models.RoleCustomer)
	p := seedProduct(t, ts.db, "Margherita", 10.00, true)

	body := orderPayload(p.ID, 1)
	body["promotionCode"] = "NO-SUCH-CODE"
	w := ts.request(t, http.MethodPost, "/api/orders", ts.tokenFor(t, customer), body)
	require.Equal(t, http.StatusCreated, w.Code)

	data := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, 0.0, data["discountAmount"])
	assert.Equal(t, 10.0, data["totalAmount"])
}

func TestCreateOrderRollsBackOnMissingProduct(t *testing.T) {
	ts := newTestServer(t)
	customer := ts.createUser(t, "Mario", "mario@example.com", "secret123", models.RoleCustomer)
	p := seedProduct(t, ts.db, "Margherita", 10.00, true)

	body := map[string]any{
		"items": []map[string]any{
			{"productId": p.ID, "quantity": 1},
			{"productId": p.ID + 999, "quantity": 1},
		},
		"deliveryAddress": "Via Roma 1",
	}
	w := ts.request(t, http.MethodPost, "/api/orders", ts.tokenFor(t, customer), body)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var count int64
	ts.db.Model(&models.Order{}).Count(&count)
	assert.Zero(t, count)
	ts.db.Model(&models.OrderItem{}).Count(&count)
	assert.Zero(t, count)
}

func TestCreateOrderRejectsUnavailableProduct(t *testing.T) {
	ts := newTestServer(t)
	customer := ts.createUser(t, "Mario", "mario@example.com", "secret123", models.RoleCustomer)
	p := seedProduct(t, ts.db, "Seasonal Special", 12.00, false)

	w := ts.request(t, http.MethodPost, "/api/orders", ts.tokenFor(t, customer), orderPayload(p.ID, 1))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderSnapshotSurvivesCatalogChange(t *testing.T) {
	ts := newTestServer(t)
	customer := ts.createUser(t, "Mario", "mario@example.com", "secret123", models.RoleCustomer)
	token := ts.tokenFor(t, customer)
	p := seedProduct(t, ts.db, "Margherita", 10.00, true)

	w := ts.request(t, http.MethodPost, "/api/orders", token, orderPayload(p.ID, 1))
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := decodeBody(t, w)["data"].(map[string]any)["id"].(float64)

	require.NoError(t, ts.db.Model(p).Update("price", 99.00).Error)

	w = ts.request(t, http.MethodGet, "/api/orders/my-orders", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	orders := decodeBody(t, w)["data"].([]any)
	require.Len(t, orders, 1)
	order := orders[0].(map[string]any)
	assert.Equal(t, orderID, order["id"])
	assert.Equal(t, 10.0, order["totalAmount"])
	assert.Equal(t, 10.0, order["items"].([]any)[0].(map[string]any)["price"])
}

func TestGetOrderOwnership(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createUser(t, "Alice", "alice@example.com", "secret123", models.RoleCustomer)
	bob := ts.createUser(t, "Bob", "bob@example.com", "secret123", models.RoleCustomer)
	staff := ts.createUser(t, "Staff", "staff@example.com", "secret123", models.RoleStaff)
	p := seedProduct(t, ts.db, "Margherita", 10.00, true)

	w := ts.request(t, http.MethodPost, "/api/orders", ts.tokenFor(t, alice), orderPayload(p.ID, 1))
	require.Equal(t, http.StatusCreated, w.Code)

	w = ts.request(t, http.MethodGet, "/api/orders/1", ts.tokenFor(t, bob), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.request(t, http.MethodGet, "/api/orders/1", ts.tokenFor(t, alice), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = ts.request(t, http.MethodGet, "/api/orders/1", ts.tokenFor(t, staff), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStaffStatusTransitions(t *testing.T) {
	ts := newTestServer(t)
	customer := ts.createUser(t, "Mario", "mario@example.com", "secret123", models.RoleCustomer)
	staff := ts.createUser(t, "Staff", "staff@example.com", "secret123", models.RoleStaff)
	staffToken := ts.tokenFor(t, staff)
	p := seedProduct(t, ts.db, "Margherita", 10.00, true)

	w := ts.request(t, http.MethodPost, "/api/orders", ts.tokenFor(t, customer), orderPayload(p.ID, 1))
	require.Equal(t, http.StatusCreated, w.Code)

	for _, status := range []string{"confirmed", "preparing", "ready", "delivered"} {
		w = ts.request(t, http.MethodPut, "/api/orders/1/status", staffToken, map[string]any{"status": status})
		require.Equal(t, http.StatusOK, w.Code, "transition to %s", status)
	}

	// delivered is terminal
	w = ts.request(t, http.MethodPut, "/api/orders/1/status", staffToken, map[string]any{"status": "pending"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var history []models.OrderStatusHistory
	ts.db.Where("order_id = ?", 1).Order("id").Find(&history)
	require.Len(t, history, 5)
	assert.Equal(t, models.StatusPending, history[0].ToStatus)
	assert.Equal(t, models.StatusDelivered, history[4].ToStatus)
	assert.Equal(t, models.StatusReady, history[4].FromStatus)
}

func TestCustomerCancel(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createUser(t, "Alice", "alice@example.com", "secret123", models.RoleCustomer)
	bob := ts.createUser(t, "Bob", "bob@example.com", "secret123", models.RoleCustomer)
	staff := ts.createUser(t, "Staff", "staff@example.com", "secret123", models.RoleStaff)
	p := seedProduct(t, ts.db, "Margherita", 10.00, true)

	w := ts.request(t, http.MethodPost, "/api/orders", ts.tokenFor(t, alice), orderPayload(p.ID, 1))
	require.Equal(t, http.StatusCreated, w.Code)

	// only the owner may cancel
	w = ts.request(t, http.MethodPut, "/api/orders/1/cancel", ts.tokenFor(t, bob), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// once confirmed, the customer can no longer cancel
	w = ts.request(t, http.MethodPut, "/api/orders/1/status", ts.tokenFor(t, staff), map[string]any{"status": "confirmed"})
	require.Equal(t, http.StatusOK, w.Code)
	w = ts.request(t, http.MethodPut, "/api/orders/1/cancel", ts.tokenFor(t, alice), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// a fresh pending order cancels fine
	w = ts.request(t, http.MethodPost, "/api/orders", ts.tokenFor(t, alice), orderPayload(p.ID, 1))
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := int(decodeBody(t, w)["data"].(map[string]any)["id"].(float64))
	w = ts.request(t, http.MethodPut, "/api/orders/"+strconv.Itoa(orderID)+"/cancel", ts.tokenFor(t, alice), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cancelled", decodeBody(t, w)["data"].(map[string]any)["status"])
}

func TestListOrdersStaffOnly(t *testing.T) {
	ts := newTestServer(t)
	customer := ts.createUser(t, "Mario", "mario@example.com", "secret123", models.RoleCustomer)

	w := ts.request(t, http.MethodGet, "/api/orders", ts.tokenFor(t, customer), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestListOrdersStatusFilter(t *testing.T) {
	ts := newTestServer(t)
	customer := ts.createUser(t, "Mario", "mario@example.com", "secret123", models.RoleCustomer)
	staff := ts.createUser(t, "Staff", "staff@example.com", "secret123", models.RoleStaff)
	p := seedProduct(t, ts.db, "Margherita", 10.00, true)

	for i := 0; i < 2; i++ {
		w := ts.request(t, http.MethodPost, "/api/orders", ts.tokenFor(t, customer), orderPayload(p.ID, 1))
		require.Equal(t, http.StatusCreated, w.Code)
		// order numbers embed a millisecond timestamp
		time.Sleep(2 * time.Millisecond)
	}
	w := ts.request(t, http.MethodPut, "/api/orders/1/status", ts.tokenFor(t, staff), map[string]any{"status": "confirmed"})
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.request(t, http.MethodGet, "/api/orders?status=pending", ts.tokenFor(t, staff), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["data"].([]any), 1)
}
