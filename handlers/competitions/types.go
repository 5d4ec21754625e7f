package competitions

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Constants for error messages
const (
	ErrInvalidRequest         = "Invalid request data"
	ErrInvalidCompetitionID   = "Invalid competition ID"
	ErrMissingEntryFile       = "Entry file is required"
	ErrEntryFileCountMismatch = "Each entry needs exactly one file"
	ErrOnlyAdminCreate        = "只有管理员可以创建赛事"
)

// CreateCompetitionRequest model for creating a competition
type CreateCompetitionRequest struct {
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description"`
	ModelID     string    `json:"model_id" binding:"required"`
	Deadline    time.Time `json:"deadline" binding:"required"`
	JudgeIDs    []string  `json:"judge_ids"`
}

// UpdateCompetitionRequest model for updating a competition
type UpdateCompetitionRequest struct {
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description"`
	ModelID     string    `json:"model_id" binding:"required"`
	Deadline    time.Time `json:"deadline" binding:"required"`
}

// AddJudgesRequest model for assigning judges in bulk
type AddJudgesRequest struct {
	JudgeIDs []string `json:"judge_ids" binding:"required"`
}

// UpdateEntryStatusRequest model for entry moderation
type UpdateEntryStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// respondWithError sends a standardized error response
func respondWithError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
