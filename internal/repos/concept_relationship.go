package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/oncobridge/omop-backend/internal/logger"
	"github.com/oncobridge/omop-backend/internal/types"
)

type ConceptRelationshipRepo interface {
	// ChildrenOf returns the distinct (source, target) pairs whose source is
	// in sourceIDs, filtered to one relationship kind. Empty input yields an
	// empty result, not an error.
	ChildrenOf(ctx context.Context, tx *gorm.DB, sourceIDs []int64, relationshipID string) ([]*types.ConceptRelationship, error)
}

type conceptRelationshipRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConceptRelationshipRepo(db *gorm.DB, baseLog *logger.Logger) ConceptRelationshipRepo {
	repoLog := baseLog.With("repo", "ConceptRelationshipRepo")
	return &conceptRelationshipRepo{db: db, log: repoLog}
}

func (rr *conceptRelationshipRepo) ChildrenOf(ctx context.Context, tx *gorm.DB, sourceIDs []int64, relationshipID string) ([]*types.ConceptRelationship, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*types.ConceptRelationship
	if len(sourceIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Distinct("concept_id_1", "concept_id_2").
		Where("concept_id_1 IN ?", sourceIDs).
		Where("relationship_id = ?", relationshipID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
