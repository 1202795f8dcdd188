package routes

import (
	applicationsapi "events-app/internal/api/applications"
	authapi "events-app/internal/api/auth"
	eventsapi "events-app/internal/api/events"
	imagesapi "events-app/internal/api/images"
	lifecyclesapi "events-app/internal/api/lifecycles"
	"events-app/internal/app/http/middleware"
	"events-app/internal/domain/events"
	"events-app/internal/infra/core"
	"events-app/internal/infra/metrics"
	"events-app/internal/scheduler"
	"events-app/internal/storage"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.Engine,
	coreClient *core.Client,
	store *storage.Store,
	service *events.Service,
	sched *scheduler.DeadlineScheduler,
) {
	eventsHandler := eventsapi.NewHandler(store, service, sched)
	appsHandler := applicationsapi.NewHandler(store)
	imagesHandler := imagesapi.NewHandler(store)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	r.GET("/auth/login", authapi.Login)
	r.GET("/auth/callback", authapi.Callback)

	// Browsing is public; visibility rules decide what anonymous users see.
	public := r.Group("/")
	public.Use(middleware.OptionalAuthMiddleware(coreClient))
	public.GET("/events", eventsHandler.List)
	public.GET("/events/:id", eventsHandler.Get)
	public.GET("/lifecycles", lifecyclesapi.ListLifecycles)
	public.GET("/lifecycles/:eventType", lifecyclesapi.GetLifecycle)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(coreClient), middleware.SanitizeInputMiddleware())

	auth.POST("/events", eventsHandler.Create)
	auth.PUT("/events/:id", eventsHandler.Update)
	auth.DELETE("/events/:id", eventsHandler.Delete)
	auth.PUT("/events/:id/organizers", eventsHandler.UpdateOrganizers)
	auth.PUT("/events/:id/status", eventsHandler.Transition)
	auth.PUT("/events/:id/deadline", eventsHandler.SetDeadline)
	auth.POST("/events/:id/close-applications", eventsHandler.CloseApplications)
	auth.POST("/events/:id/image", imagesHandler.UploadHeadImage)

	auth.POST("/events/:id/applications", appsHandler.Apply)
	auth.GET("/events/:id/applications", appsHandler.List)
	auth.GET("/events/:id/applications/mine", appsHandler.Mine)
	auth.PUT("/events/:id/applications/:appID/status", appsHandler.SetStatus)
	auth.PUT("/events/:id/applications/:appID/confirmed", appsHandler.SetConfirmed)
	auth.PUT("/events/:id/applications/:appID/attended", appsHandler.SetAttended)

	// Lifecycle administration
	admin := r.Group("/lifecycles")
	admin.Use(middleware.AuthMiddleware(coreClient), middleware.SanitizeInputMiddleware(), middleware.RequireSuperadmin())
	admin.POST("", lifecyclesapi.CreateLifecycle)
	admin.PUT("/:id", lifecyclesapi.UpdateLifecycle)
	admin.DELETE("/:id", lifecyclesapi.DeleteLifecycle)
}
