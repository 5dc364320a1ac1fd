package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"pizza-api/config"
	"pizza-api/mailer"
	"pizza-api/middleware"
	"pizza-api/models"
	"pizza-api/realtime"
	"pizza-api/routes"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testServer struct {
	router *gin.Engine
	cfg    config.Config
	hub    *realtime.Hub
	db     *gorm.DB
}

// newTestServer wires the full route table against a fresh in-memory
// database so tests exercise routing, middleware and handlers together.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	config.DB = db

	cfg := config.Config{
		Port:          "0",
		TokenLifetime: time.Hour,
		ClientURL:     "http://localhost:3000",
		AppName:       "Komorebi Pizza",
		UploadDir:     t.TempDir(),
	}

	hub := realtime.NewHub()
	t.Cleanup(hub.Close)

	r := gin.New()
	routes.Setup(r, cfg, hub, mailer.New(cfg), nil)

	return &testServer{router: r, cfg: cfg, hub: hub, db: db}
}

func (ts *testServer) createUser(t *testing.T, name, email, password string, role models.UserRole) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := models.User{
		Name:         name,
		Email:        models.NormalizeEmail(email),
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, ts.db.Create(&user).Error)
	return &user
}

func (ts *testServer) tokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := middleware.GenerateToken(user, ts.cfg.TokenLifetime)
	require.NoError(t, err)
	return token
}

// request performs an HTTP call against the router. A nil body sends no
// payload; anything else is JSON-encoded.
func (ts *testServer) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, available bool) *models.Product {
	t.Helper()
	p := models.Product{
		Name:        name,
		Price:       price,
		Category:    "pizza",
		IsAvailable: available,
	}
	require.NoError(t, db.Create(&p).Error)
	return &p
}
