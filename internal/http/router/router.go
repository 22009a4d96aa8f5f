package router

import (
	"github.com/gin-gonic/gin"

	"togaftutor.app/tutor/internal/http/handler"
	"togaftutor.app/tutor/internal/http/middleware"
	"togaftutor.app/tutor/internal/queue"
	"togaftutor.app/tutor/internal/search"
	"togaftutor.app/tutor/internal/service"
)

type RouterConfig struct {
	AdminAPIKey string
	CorpusRoot  string
}

type Dependencies struct {
	Services *service.Services
	Search   *search.Service
	Agent    handler.TutorAgent
	Producer queue.Producer
}

func SetupRoutes(router *gin.Engine, deps Dependencies, cfg RouterConfig) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		profileHandler := handler.NewProfileHandler(deps.Services.Profiles())
		UserRouter(v1.Group("/users"), profileHandler)

		sessionHandler := handler.NewSessionHandler(deps.Services.Sessions())
		SessionRouter(v1.Group("/sessions"), sessionHandler)
		v1.GET("/users/:userID/sessions/stats", sessionHandler.Statistics)

		chatHandler := handler.NewChatHandler(deps.Agent, deps.Services.Sessions())
		ChatRouter(v1.Group("/chat"), chatHandler)

		searchHandler := handler.NewSearchHandler(deps.Search)
		SearchRouter(v1.Group("/search"), searchHandler)

		progressHandler := handler.NewProgressHandler(deps.Services.Progress())
		ProgressRouter(v1.Group("/users/:userID/progress"), progressHandler)

		ingestHandler := handler.NewIngestHandler(deps.Producer, cfg.CorpusRoot)
		admin := v1.Group("/admin", middleware.RequireAdminKey(cfg.AdminAPIKey))
		IngestRouter(admin.Group("/ingest"), ingestHandler)
	}
}
