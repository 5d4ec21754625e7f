package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"api/config"
	"api/database"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	prevDB := database.DB
	database.DB = db
	prevSecret := config.JWTSecret
	config.JWTSecret = "test-secret"
	t.Cleanup(func() {
		database.DB = prevDB
		config.JWTSecret = prevSecret
		sqlDB.Close()
	})

	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"))
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterAndLogin(t *testing.T) {
	r := setupRouter(t)

	w := postJSON(t, r, "/api/v1/auth/register", RegisterRequest{
		Username: "judge01",
		Password: "long-enough-password",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var registered AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registered))
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "judge01", registered.Username)
	assert.False(t, registered.IsAdmin)

	// Duplicate username is rejected
	w = postJSON(t, r, "/api/v1/auth/register", RegisterRequest{
		Username: "judge01",
		Password: "long-enough-password",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Wrong password fails without leaking which part was wrong
	w = postJSON(t, r, "/api/v1/auth/login", LoginRequest{
		Username: "judge01",
		Password: "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), ErrInvalidCredentials)

	w = postJSON(t, r, "/api/v1/auth/login", LoginRequest{
		Username: "judge01",
		Password: "long-enough-password",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var logged AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &logged))
	require.NotEmpty(t, logged.Token)

	// The issued token authenticates the check endpoint
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/check", nil)
	req.Header.Set("Authorization", "Bearer "+logged.Token)
	check := httptest.NewRecorder()
	r.ServeHTTP(check, req)
	require.Equal(t, http.StatusOK, check.Code)
	assert.Contains(t, check.Body.String(), "judge01")
}

func TestCheckAuthRejectsMissingToken(t *testing.T) {
	r := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/check", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
