package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/oncobridge/omop-backend/internal/handlers"
	"github.com/oncobridge/omop-backend/internal/middleware"
)

type RouterConfig struct {
	ServiceName       string
	VocabularyHandler *handlers.VocabularyHandler
	EpisodeHandler    *handlers.EpisodeHandler
	IngestHandler     *handlers.IngestHandler
	RequestLogger     *middleware.RequestLogger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.ServiceName))
	if cfg.RequestLogger != nil {
		router.Use(cfg.RequestLogger.Handle())
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Requested-With"},
	}))

	router.GET("/healthz", handlers.HealthCheck)

	v1 := router.Group("/v1")
	{
		v1.GET("/vocabulary/contexts", cfg.VocabularyHandler.ListContexts)
		v1.POST("/vocabulary/:context/resolve", cfg.VocabularyHandler.ResolveTerm)

		v1.GET("/persons/:person_id/episodes/conditions", cfg.EpisodeHandler.GetConditionEpisodes)
		v1.GET("/persons/:person_id/episodes/systemic-therapy", cfg.EpisodeHandler.GetSystemicTherapyEpisodes)
		v1.GET("/persons/:person_id/agents", cfg.EpisodeHandler.GetAllAgents)

		v1.POST("/ingest/conditions", cfg.IngestHandler.NormalizeConditions)
		v1.POST("/ingest/drug-exposures", cfg.IngestHandler.NormalizeDrugExposures)
	}

	return router
}
