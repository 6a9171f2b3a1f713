package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/oncobridge/omop-backend/internal/logger"
	"github.com/oncobridge/omop-backend/internal/types"
)

type EpisodeRepo interface {
	Create(ctx context.Context, tx *gorm.DB, episodes []*types.Episode) ([]*types.Episode, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, episodeIDs []int64) ([]*types.Episode, error)
	GetByPersonIDs(ctx context.Context, tx *gorm.DB, personIDs []int64) ([]*types.Episode, error)
	GetChildren(ctx context.Context, tx *gorm.DB, parentEpisodeID int64) ([]*types.Episode, error)
}

type episodeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEpisodeRepo(db *gorm.DB, baseLog *logger.Logger) EpisodeRepo {
	repoLog := baseLog.With("repo", "EpisodeRepo")
	return &episodeRepo{db: db, log: repoLog}
}

func (er *episodeRepo) Create(ctx context.Context, tx *gorm.DB, episodes []*types.Episode) ([]*types.Episode, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	if len(episodes) == 0 {
		return []*types.Episode{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&episodes).Error; err != nil {
		return nil, err
	}
	return episodes, nil
}

func (er *episodeRepo) GetByIDs(ctx context.Context, tx *gorm.DB, episodeIDs []int64) ([]*types.Episode, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var results []*types.Episode
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

func (er *episodeRepo) GetByPersonIDs(ctx context.Context, tx *gorm.DB, personIDs []int64) ([]*types.Episode, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var results []*types.Episode
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

func (er *episodeRepo) GetChildren(ctx context.Context, tx *gorm.DB, parentEpisodeID int64) ([]*types.Episode, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var results []*types.Episode
	if err := transaction.WithContext(ctx).
		Where("episode_parent_id = ?", parentEpisodeID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
