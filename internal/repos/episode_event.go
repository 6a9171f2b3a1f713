package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/oncobridge/omop-backend/internal/logger"
	"github.com/oncobridge/omop-backend/internal/types"
)

type EpisodeEventRepo interface {
	Create(ctx context.Context, tx *gorm.DB, events []*types.EpisodeEvent) ([]*types.EpisodeEvent, error)
	GetByEpisodeIDs(ctx context.Context, tx *gorm.DB, episodeIDs []int64) ([]*types.EpisodeEvent, error)
	// GetByField restricts to events pointing at one clinical table, e.g.
	// condition_occurrence_id or drug_exposure_id field concepts.
	GetByField(ctx context.Context, tx *gorm.DB, episodeIDs []int64, fieldConceptID int64) ([]*types.EpisodeEvent, error)
}

type episodeEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEpisodeEventRepo(db *gorm.DB, baseLog *logger.Logger) EpisodeEventRepo {
	repoLog := baseLog.With("repo", "EpisodeEventRepo")
	return &episodeEventRepo{db: db, log: repoLog}
}

func (er *episodeEventRepo) Create(ctx context.Context, tx *gorm.DB, events []*types.EpisodeEvent) ([]*types.EpisodeEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	if len(events) == 0 {
		return []*types.EpisodeEvent{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (er *episodeEventRepo) GetByEpisodeIDs(ctx context.Context, tx *gorm.DB, episodeIDs []int64) ([]*types.EpisodeEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var results []*types.EpisodeEvent
	if len(episodeIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("episode_id IN ?", episodeIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (er *episodeEventRepo) GetByField(ctx context.Context, tx *gorm.DB, episodeIDs []int64, fieldConceptID int64) ([]*types.EpisodeEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var results []*types.EpisodeEvent
	if len(episodeIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("episode_id IN ?", episodeIDs).
		Where("episode_event_field_concept_id = ?", fieldConceptID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
