package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/oncobridge/omop-backend/internal/logger"
	"github.com/oncobridge/omop-backend/internal/types"
)

type MeasurementRepo interface {
	Create(ctx context.Context, tx *gorm.DB, measurements []*types.Measurement) ([]*types.Measurement, error)
	// GetModifiersOf returns the modifier rows attached to one clinical row,
	// identified by its id and the field concept naming its table.
	GetModifiersOf(ctx context.Context, tx *gorm.DB, eventID int64, fieldConceptID int64) ([]*types.Measurement, error)
}

type measurementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMeasurementRepo(db *gorm.DB, baseLog *logger.Logger) MeasurementRepo {
	repoLog := baseLog.With("repo", "MeasurementRepo")
	return &measurementRepo{db: db, log: repoLog}
}

func (mr *measurementRepo) Create(ctx context.Context, tx *gorm.DB, measurements []*types.Measurement) ([]*types.Measurement, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	if len(measurements) == 0 {
		return []*types.Measurement{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&measurements).Error; err != nil {
		return nil, err
	}
	return measurements, nil
}

func (mr *measurementRepo) GetModifiersOf(ctx context.Context, tx *gorm.DB, eventID int64, fieldConceptID int64) ([]*types.Measurement, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	var results []*types.Measurement
	if err := transaction.WithContext(ctx).
		Where("modifier_of_event_id = ?", eventID).
		Where("modifier_of_field_concept_id = ?", fieldConceptID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
