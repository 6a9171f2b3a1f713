package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/oncobridge/omop-backend/internal/logger"
	"github.com/oncobridge/omop-backend/internal/types"
)

type ConceptRepo interface {
	GetByIDs(ctx context.Context, tx *gorm.DB, conceptIDs []int64) ([]*types.Concept, error)
	GetByDomain(ctx context.Context, tx *gorm.DB, domainID string) ([]*types.Concept, error)
	GetByCodes(ctx context.Context, tx *gorm.DB, vocabularyID string, conceptCodes []string) ([]*types.Concept, error)
}

type conceptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConceptRepo(db *gorm.DB, baseLog *logger.Logger) ConceptRepo {
	repoLog := baseLog.With("repo", "ConceptRepo")
	return &conceptRepo{db: db, log: repoLog}
}

func (cr *conceptRepo) GetByIDs(ctx context.Context, tx *gorm.DB, conceptIDs []int64) ([]*types.Concept, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.Concept
	if len(conceptIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("concept_id IN ?", conceptIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *conceptRepo) GetByDomain(ctx context.Context, tx *gorm.DB, domainID string) ([]*types.Concept, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.Concept
	if err := transaction.WithContext(ctx).
		Where("domain_id = ?", domainID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *conceptRepo) GetByCodes(ctx context.Context, tx *gorm.DB, vocabularyID string, conceptCodes []string) ([]*types.Concept, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.Concept
	if len(conceptCodes) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("vocabulary_id = ?", vocabularyID).
		Where("concept_code IN ?", conceptCodes).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
