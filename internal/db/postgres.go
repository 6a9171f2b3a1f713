package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/oncobridge/omop-backend/internal/logger"
	"github.com/oncobridge/omop-backend/internal/types"
	"github.com/oncobridge/omop-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	log.Info("Loading environment variables...")
	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "omop", log)
	log.Debug("Environment variables loaded")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("Failed to connect to Postgres: %w", err)
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		log.Error("Failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("Failed to enable uuid-ossp extension: %w", err)
	}
	log.Info("uuid-ossp extension enabled")

	return &PostgresService{db: db, log: serviceLog}, nil
}

// AutoMigrateAll creates the CDM tables this service writes. The vocabulary
// tables (concept, concept_relationship) are migrated too so that an empty
// database boots, but their contents are loaded by vocabulary ETL, not here.
func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating CDM tables...")
	err := s.db.AutoMigrate(
		&types.Concept{},
		&types.ConceptRelationship{},
		&types.Person{},
		&types.ConditionOccurrence{},
		&types.DrugExposure{},
		&types.Measurement{},
		&types.Episode{},
		&types.EpisodeEvent{},
		&types.IngestBatch{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for CDM tables", "error", err)
		return err
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
