package evaluationmodels

import (
	"api/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all routes related to evaluation models
// r: the RouterGroup to which the routes are added
func RegisterRoutes(r *gin.RouterGroup) {
	evaluationModels := r.Group("/evaluation-models")
	evaluationModels.Use(middleware.AuthMiddleware())
	{
		evaluationModels.GET("/", GetAllModels)
		evaluationModels.GET("/:id", GetModel)
		evaluationModels.POST("/", CreateModel)
		evaluationModels.PUT("/:id", UpdateModel)
		evaluationModels.DELETE("/:id", DeleteModel)
	}
}
