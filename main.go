package main

import (
	"log"

	"api/config"
	"api/database"
	_ "api/docs"
	"api/middleware"
	"api/realtime"
	v1 "api/routes/v1"
	"api/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Competition Rating API
// @description API for judged competitions with weighted evaluation models
// @version 1.0
// @BasePath /api/v1
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
func main() {
	config.LoadConfig()

	database.InitDB()
	database.InitCache()

	// Broadcast rating and lifecycle updates to websocket clients
	realtime.StartBroadcaster()

	// Flip expired ACTIVE competitions to ENDED on a fixed interval
	stopSweeper := make(chan struct{})
	services.StartCompetitionSweeper(config.SweepInterval, stopSweeper)
	defer close(stopSweeper)

	// Feed the runtime and system gauges
	middleware.UpdateSystemMetrics()

	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	corsConfig.AllowCredentials = false
	r.Use(cors.New(corsConfig))

	v1.Register(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	log.Printf("Starting server on port %s", config.Port)
	if err := r.Run(":" + config.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
