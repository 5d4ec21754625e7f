package evaluationmodels

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"api/config"
	"api/database"
	"api/middleware"
	"api/models"

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

func tokenFor(t *testing.T, username string, isAdmin bool) string {
	t.Helper()
	user := models.User{Username: username, Password: "hashed", IsAdmin: isAdmin}
	require.NoError(t, database.DB.Create(&user).Error)

	token, err := middleware.GenerateToken(user, time.Hour)
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validCreateRequest() CreateModelRequest {
	return CreateModelRequest{
		Name: "综合评分",
		Parameters: []ParameterRequest{
			{Name: "外观", Weight: 40},
			{Name: "风味", Weight: 60},
		},
	}
}

func TestCreateModelRequiresAdmin(t *testing.T) {
	r := setupRouter(t)
	token := tokenFor(t, "plain-user", false)

	w := doJSON(t, r, http.MethodPost, "/api/v1/evaluation-models/", token, validCreateRequest())
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), ErrOnlyAdminCreate)

	// Nothing was persisted
	var count int64
	database.DB.Model(&models.EvaluationModel{}).Count(&count)
	assert.Zero(t, count)
}

func TestCreateModelAllowsAdmin(t *testing.T) {
	r := setupRouter(t)
	token := tokenFor(t, "admin-user", true)

	w := doJSON(t, r, http.MethodPost, "/api/v1/evaluation-models/", token, validCreateRequest())
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.EvaluationModel
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "综合评分", created.Name)
	assert.Len(t, created.Parameters, 2)
}

func TestUpdateAndDeleteModelRequireAdmin(t *testing.T) {
	r := setupRouter(t)
	adminToken := tokenFor(t, "admin-user", true)
	plainToken := tokenFor(t, "plain-user", false)

	w := doJSON(t, r, http.MethodPost, "/api/v1/evaluation-models/", adminToken, validCreateRequest())
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.EvaluationModel
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, r, http.MethodPut, "/api/v1/evaluation-models/"+created.ID, plainToken, UpdateModelRequest{
		Name: "改名",
		Parameters: []ParameterRequest{
			{Name: "外观", Weight: 100},
		},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), ErrOnlyAdminUpdate)

	w = doJSON(t, r, http.MethodDelete, "/api/v1/evaluation-models/"+created.ID, plainToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), ErrOnlyAdminDelete)

	// The model survived both attempts and stays readable
	w = doJSON(t, r, http.MethodGet, "/api/v1/evaluation-models/"+created.ID, plainToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
