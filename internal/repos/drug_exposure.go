package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/oncobridge/omop-backend/internal/logger"
	"github.com/oncobridge/omop-backend/internal/types"
)

type DrugExposureRepo interface {
	Create(ctx context.Context, tx *gorm.DB, exposures []*types.DrugExposure) ([]*types.DrugExposure, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, drugExposureIDs []int64) ([]*types.DrugExposure, error)
	GetByPersonIDs(ctx context.Context, tx *gorm.DB, personIDs []int64) ([]*types.DrugExposure, error)
}

type drugExposureRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDrugExposureRepo(db *gorm.DB, baseLog *logger.Logger) DrugExposureRepo {
	repoLog := baseLog.With("repo", "DrugExposureRepo")
	return &drugExposureRepo{db: db, log: repoLog}
}

func (dr *drugExposureRepo) Create(ctx context.Context, tx *gorm.DB, exposures []*types.DrugExposure) ([]*types.DrugExposure, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	if len(exposures) == 0 {
		return []*types.DrugExposure{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&exposures).Error; err != nil {
		return nil, err
	}
	return exposures, nil
}

func (dr *drugExposureRepo) GetByIDs(ctx context.Context, tx *gorm.DB, drugExposureIDs []int64) ([]*types.DrugExposure, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	var results []*types.DrugExposure
	if len(drugExposureIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("drug_exposure_id IN ?", drugExposureIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (dr *drugExposureRepo) GetByPersonIDs(ctx context.Context, tx *gorm.DB, personIDs []int64) ([]*types.DrugExposure, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	var results []*types.DrugExposure
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
