package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/oncobridge/omop-backend/internal/logger"
	"github.com/oncobridge/omop-backend/internal/types"
)

type IngestBatchRepo interface {
	Create(ctx context.Context, tx *gorm.DB, batch *types.IngestBatch) (*types.IngestBatch, error)
	GetBySource(ctx context.Context, tx *gorm.DB, source string) ([]*types.IngestBatch, error)
}

type ingestBatchRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIngestBatchRepo(db *gorm.DB, baseLog *logger.Logger) IngestBatchRepo {
	repoLog := baseLog.With("repo", "IngestBatchRepo")
	return &ingestBatchRepo{db: db, log: repoLog}
}

func (ir *ingestBatchRepo) Create(ctx context.Context, tx *gorm.DB, batch *types.IngestBatch) (*types.IngestBatch, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	if batch == nil {
		return nil, nil
	}

	if err := transaction.WithContext(ctx).Create(batch).Error; err != nil {
		return nil, err
	}
	return batch, nil
}

func (ir *ingestBatchRepo) GetBySource(ctx context.Context, tx *gorm.DB, source string) ([]*types.IngestBatch, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	var results []*types.IngestBatch
	if err := transaction.WithContext(ctx).
		Where("source = ?", source).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
