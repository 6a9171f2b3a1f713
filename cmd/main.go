package main

import (
	"context"
	"fmt"
	"os"

	"github.com/oncobridge/omop-backend/internal/concepts"
	"github.com/oncobridge/omop-backend/internal/db"
	"github.com/oncobridge/omop-backend/internal/handlers"
	"github.com/oncobridge/omop-backend/internal/logger"
	"github.com/oncobridge/omop-backend/internal/middleware"
	"github.com/oncobridge/omop-backend/internal/observability"
	"github.com/oncobridge/omop-backend/internal/repos"
	"github.com/oncobridge/omop-backend/internal/server"
	"github.com/oncobridge/omop-backend/internal/services"
	"github.com/oncobridge/omop-backend/internal/utils"
	"github.com/oncobridge/omop-backend/internal/vocab"
)

const serviceName = "omop-backend"

func main() {
	ctx := context.Background()

	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Tracing
	shutdownOtel := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: serviceName,
		Environment: utils.GetEnv("DEPLOY_ENV", "development", log),
		Version:     utils.GetEnv("SERVICE_VERSION", "dev", log),
	})
	if shutdownOtel != nil {
		defer func() { _ = shutdownOtel(ctx) }()
	}

	// Concept catalogs: duplicate ids are upstream data errors, surfaced at
	// startup but not fatal.
	for _, catalog := range concepts.All() {
		for _, dup := range catalog.Validate() {
			log.Warn("Concept catalog id is shared by multiple labels",
				"catalog", catalog.Name(), "concept_id", int64(dup.ID), "labels", dup.Labels)
		}
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	conceptRepo := repos.NewConceptRepo(thePG, log)
	conceptRelationshipRepo := repos.NewConceptRelationshipRepo(thePG, log)
	personRepo := repos.NewPersonRepo(thePG, log)
	conditionRepo := repos.NewConditionOccurrenceRepo(thePG, log)
	drugExposureRepo := repos.NewDrugExposureRepo(thePG, log)
	measurementRepo := repos.NewMeasurementRepo(thePG, log)
	episodeRepo := repos.NewEpisodeRepo(thePG, log)
	episodeEventRepo := repos.NewEpisodeEventRepo(thePG, log)
	ingestBatchRepo := repos.NewIngestBatchRepo(thePG, log)

	// Vocabulary registry: built fully before the server accepts traffic.
	// A lookup that cannot be populated makes the process unusable.
	log.Info("Building vocabulary registry...")
	definitions := vocab.DefaultDefinitions()
	if path := utils.GetEnv("VOCAB_LOOKUPS_PATH", "", log); path != "" {
		definitions, err = vocab.LoadDefinitions(path)
		if err != nil {
			log.Error("Could not load vocabulary lookup definitions", "path", path, "error", err)
			os.Exit(1)
		}
	}
	source := vocab.NewRepoSource(conceptRepo, conceptRelationshipRepo)
	registry, err := vocab.BuildRegistry(ctx, source, definitions, log)
	if err != nil {
		log.Error("Could not build vocabulary registry", "error", err)
		os.Exit(1)
	}

	// Services
	log.Info("Setting up Services from main...")
	vocabularyService := services.NewVocabularyService(log, registry)
	episodeService := services.NewEpisodeService(thePG, log)
	ingestService := services.NewIngestService(thePG, log, vocabularyService, personRepo, conditionRepo, drugExposureRepo, measurementRepo, episodeRepo, episodeEventRepo, ingestBatchRepo)

	// Handlers
	log.Info("Setting up Handlers from main...")
	vocabularyHandler := handlers.NewVocabularyHandler(vocabularyService, log)
	episodeHandler := handlers.NewEpisodeHandler(episodeService, log)
	ingestHandler := handlers.NewIngestHandler(ingestService, log)

	// Router
	router := server.NewRouter(server.RouterConfig{
		ServiceName:       serviceName,
		VocabularyHandler: vocabularyHandler,
		EpisodeHandler:    episodeHandler,
		IngestHandler:     ingestHandler,
		RequestLogger:     middleware.NewRequestLogger(log),
	})

	port := utils.GetEnv("SERVER_PORT", "8080", log)
	log.Info("Starting server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server exited", "error", err)
		os.Exit(1)
	}
}
