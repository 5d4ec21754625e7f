package competitions

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
	"api/services"

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

func postCompetition(t *testing.T, r *gin.Engine, token string, body CreateCompetitionRequest) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/competitions/", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateCompetitionRequiresAdmin(t *testing.T) {
	r := setupRouter(t)

	model, err := services.CreateModel("综合评分", []services.ParameterInput{
		{Name: "外观", Weight: 40},
		{Name: "风味", Weight: 60},
	})
	require.NoError(t, err)

	request := CreateCompetitionRequest{
		Name:     "感官品鉴大赛",
		ModelID:  model.ID,
		Deadline: time.Now().Add(24 * time.Hour),
	}

	w := postCompetition(t, r, tokenFor(t, "plain-user", false), request)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), ErrOnlyAdminCreate)

	var count int64
	database.DB.Model(&models.Competition{}).Count(&count)
	assert.Zero(t, count)

	w = postCompetition(t, r, tokenFor(t, "admin-user", true), request)
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Competition
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "感官品鉴大赛", created.Name)
	assert.Equal(t, models.CompetitionStatusActive, created.Status)
}
