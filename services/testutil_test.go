package services

import (
	"mime/multipart"
	"testing"
	"time"

	"api/database"
	"api/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// memoryFileStore records store and delete calls without touching the disk
type memoryFileStore struct {
	refs    map[string]bool
	deleted []string
}

func (s *memoryFileStore) Store(file *multipart.FileHeader) (string, error) {
	ref := uuid.NewString()
	s.refs[ref] = true
	return ref, nil
}

func (s *memoryFileStore) Delete(ref string) bool {
	s.deleted = append(s.deleted, ref)
	delete(s.refs, ref)
	return true
}

func (s *memoryFileStore) Exists(ref string) bool {
	return s.refs[ref]
}

// setupTestDB points the global connection at a fresh in-memory database and
// swaps the file store for an in-memory one
func setupTestDB(t *testing.T) *memoryFileStore {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// A pooled second connection would see an empty memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	prevDB := database.DB
	database.DB = db

	store := &memoryFileStore{refs: map[string]bool{}}
	prevFiles := Files
	Files = store

	t.Cleanup(func() {
		database.DB = prevDB
		Files = prevFiles
		sqlDB.Close()
	})
	return store
}

func createTestUser(t *testing.T, username string, isAdmin bool) *models.User {
	t.Helper()
	user := models.User{Username: username, Password: "hashed", IsAdmin: isAdmin}
	require.NoError(t, database.DB.Create(&user).Error)
	return &user
}

func createTestModel(t *testing.T, name string, parameters []ParameterInput) *models.EvaluationModel {
	t.Helper()
	model, err := CreateModel(name, parameters)
	require.NoError(t, err)
	return model
}

func createTestCompetition(t *testing.T, creatorID, modelID string, deadline time.Time) *models.Competition {
	t.Helper()
	competition, err := CreateCompetition("感官品鉴大赛", "年度评比", modelID, deadline, nil, creatorID)
	require.NoError(t, err)
	return competition
}

// createApprovedEntry submits an entry and moves it straight to APPROVED
func createApprovedEntry(t *testing.T, competitionID, name, contestantID string) *models.CompetitionEntry {
	t.Helper()
	entry, err := SubmitEntry(competitionID, name, "", nil, contestantID)
	require.NoError(t, err)
	require.NoError(t, UpdateEntryStatus(entry.ID, models.EntryStatusApproved))
	entry.Status = models.EntryStatusApproved
	return entry
}

// endCompetition flips the status without going through the sweeper
func endCompetition(t *testing.T, competitionID string) {
	t.Helper()
	err := database.DB.Model(&models.Competition{}).
		Where("id = ?", competitionID).
		Update("status", models.CompetitionStatusEnded).Error
	require.NoError(t, err)
}

// passDeadline rewrites the deadline into the past, keeping the status ACTIVE
func passDeadline(t *testing.T, competitionID string) {
	t.Helper()
	err := database.DB.Model(&models.Competition{}).
		Where("id = ?", competitionID).
		Update("deadline", time.Now().Add(-time.Hour)).Error
	require.NoError(t, err)
}

// scoresFor pairs the model's parameters, in display order, with the given scores
func scoresFor(t *testing.T, modelID string, scores ...float64) []ScoreInput {
	t.Helper()
	parameters, err := getModelParameters(modelID)
	require.NoError(t, err)
	require.Len(t, parameters, len(scores))

	inputs := make([]ScoreInput, 0, len(scores))
	for i, parameter := range parameters {
		inputs = append(inputs, ScoreInput{ParameterID: parameter.ID, Score: scores[i]})
	}
	return inputs
}

func futureDeadline() time.Time {
	return time.Now().Add(24 * time.Hour)
}

func twoParameters() []ParameterInput {
	return []ParameterInput{
		{Name: "外观", Weight: 40},
		{Name: "风味", Weight: 60},
	}
}
