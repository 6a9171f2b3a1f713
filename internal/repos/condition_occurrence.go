package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/oncobridge/omop-backend/internal/logger"
	"github.com/oncobridge/omop-backend/internal/types"
)

type ConditionOccurrenceRepo interface {
	Create(ctx context.Context, tx *gorm.DB, conditions []*types.ConditionOccurrence) ([]*types.ConditionOccurrence, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, conditionOccurrenceIDs []int64) ([]*types.ConditionOccurrence, error)
	GetByPersonIDs(ctx context.Context, tx *gorm.DB, personIDs []int64) ([]*types.ConditionOccurrence, error)
}

type conditionOccurrenceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConditionOccurrenceRepo(db *gorm.DB, baseLog *logger.Logger) ConditionOccurrenceRepo {
	repoLog := baseLog.With("repo", "ConditionOccurrenceRepo")
	return &conditionOccurrenceRepo{db: db, log: repoLog}
}

func (cr *conditionOccurrenceRepo) Create(ctx context.Context, tx *gorm.DB, conditions []*types.ConditionOccurrence) ([]*types.ConditionOccurrence, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if len(conditions) == 0 {
		return []*types.ConditionOccurrence{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&conditions).Error; err != nil {
		return nil, err
	}
	return conditions, nil
}

func (cr *conditionOccurrenceRepo) GetByIDs(ctx context.Context, tx *gorm.DB, conditionOccurrenceIDs []int64) ([]*types.ConditionOccurrence, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.ConditionOccurrence
	if len(conditionOccurrenceIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("condition_occurrence_id IN ?", conditionOccurrenceIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *conditionOccurrenceRepo) GetByPersonIDs(ctx context.Context, tx *gorm.DB, personIDs []int64) ([]*types.ConditionOccurrence, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.ConditionOccurrence
	if len(personIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("person_id IN ?", personIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
