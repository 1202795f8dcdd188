package main

import (
	"log"
	"time"

	"events-app/config"
	"events-app/database"
	routes "events-app/internal/app/http"
	"events-app/internal/app/http/middleware"
	"events-app/internal/domain/events"
	"events-app/internal/infra/core"
	"events-app/internal/infra/metrics"
	"events-app/internal/scheduler"
	"events-app/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// gin.SetMode(gin.ReleaseMode) uncomment only in production
	config.LoadEnv()
	database.InitDB()

	store := storage.New(database.DB)
	service := events.NewService(store, time.Now)
	coreClient := core.NewClient(config.CORE_URL, config.CORE_TOKEN_TTL)

	sched := scheduler.New(store, service, time.Now)
	metrics.RegisterArmedTimers(sched.Armed)
	if err := sched.Start(); err != nil {
		// catch-up failures self-heal on the next start; keep serving
		log.Printf("deadline scheduler start: %v", err)
	}
	defer sched.Stop()

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.CORS_ORIGIN},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.MetricsMiddleware())

	r.Static("/files", config.UPLOAD_DIR)

	routes.RegisterRoutes(r, coreClient, store, service, sched)

	r.Run(":" + config.PORT)
}
