package competitions

import (
	"api/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all routes related to competitions
// r: the RouterGroup to which the routes are added
func RegisterRoutes(r *gin.RouterGroup) {
	// Public route: live updates do not require a token
	r.GET("/competitions/:id/ws", CompetitionWebSocket)

	competitions := r.Group("/competitions")
	competitions.Use(middleware.AuthMiddleware())
	{
		// Competition management routes
		competitions.GET("/", GetAllCompetitions)
		competitions.GET("/mine", GetMyCompetitions)
		competitions.GET("/judged", GetJudgedCompetitions)
		competitions.GET("/:id", GetCompetition)
		competitions.POST("/", CreateCompetition)
		competitions.PUT("/:id", UpdateCompetition)
		competitions.DELETE("/:id", DeleteCompetition)

		// Judge management routes
		competitions.POST("/:id/judges", AddJudges)
		competitions.DELETE("/:id/judges/:judge_id", RemoveJudge)

		// Entry routes
		competitions.GET("/:id/entries", GetCompetitionEntries)
		competitions.POST("/:id/entries", SubmitEntry)
		competitions.POST("/:id/entries/bulk", AddEntriesBulk)
	}

	entries := r.Group("/entries")
	entries.Use(middleware.AuthMiddleware())
	{
		entries.PUT("/:entry_id", UpdateEntry)
		entries.PUT("/:entry_id/status", UpdateEntryStatus)
		entries.DELETE("/:entry_id", DeleteEntry)
	}
}
