package ratings

import (
	"api/config"
	"api/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all routes related to ratings
// r: the RouterGroup to which the routes are added
func RegisterRoutes(r *gin.RouterGroup) {
	submissionLimiter := middleware.NewSubmissionLimiter(config.DefaultRateLimitConfig)

	competitions := r.Group("/competitions")
	competitions.Use(middleware.AuthMiddleware())
	{
		competitions.POST("/:id/ratings", middleware.SubmissionLimiterMiddleware(submissionLimiter), SubmitRating)
		competitions.GET("/:id/ratings", GetCompetitionRatings)
		competitions.GET("/:id/ratings/mine", GetMyRatings)
		competitions.GET("/:id/rating-data", GetCompetitionRatingData)
		competitions.GET("/:id/ratings/export", ExportCompetitionCSV)
		competitions.GET("/:id/ratings/export/xlsx", ExportCompetitionXLSX)
	}

	entries := r.Group("/entries")
	entries.Use(middleware.AuthMiddleware())
	{
		entries.GET("/:entry_id/ratings", GetEntryRatings)
		entries.GET("/:entry_id/ratings/completion", CheckRatingCompletion)
	}
}
