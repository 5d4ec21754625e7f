package ratings

import (
	"api/services"

	"github.com/gin-gonic/gin"
)

// Constants for error messages
const (
	ErrInvalidRequest     = "Invalid request data"
	ErrNoPermissionView   = "没有权限查看评分数据"
	ErrNoPermissionExport = "只有赛事创建者可以导出评分数据"
	ErrFailedGenerateCSV  = "Failed to generate CSV export"
	ErrFailedGenerateXLSX = "Failed to generate XLSX export"
)

// SubmitRatingRequest model for submitting one judge's full score set
type SubmitRatingRequest struct {
	EntryID string                `json:"entry_id" binding:"required"`
	Scores  []services.ScoreInput `json:"scores" binding:"required"`
	Note    string                `json:"note"`
}

// RatingCompletionResponse model for the completion check
type RatingCompletionResponse struct {
	EntryID   string `json:"entry_id"`
	JudgeID   string `json:"judge_id"`
	Completed bool   `json:"completed"`
}

// respondWithError sends a standardized error response
func respondWithError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
