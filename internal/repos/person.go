package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/oncobridge/omop-backend/internal/logger"
	"github.com/oncobridge/omop-backend/internal/types"
)

type PersonRepo interface {
	Create(ctx context.Context, tx *gorm.DB, persons []*types.Person) ([]*types.Person, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, personIDs []int64) ([]*types.Person, error)
	GetBySourceValues(ctx context.Context, tx *gorm.DB, sourceValues []string) ([]*types.Person, error)
}

type personRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPersonRepo(db *gorm.DB, baseLog *logger.Logger) PersonRepo {
	repoLog := baseLog.With("repo", "PersonRepo")
	return &personRepo{db: db, log: repoLog}
}

func (pr *personRepo) Create(ctx context.Context, tx *gorm.DB, persons []*types.Person) ([]*types.Person, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if len(persons) == 0 {
		return []*types.Person{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&persons).Error; err != nil {
		return nil, err
	}
	return persons, nil
}

func (pr *personRepo) GetByIDs(ctx context.Context, tx *gorm.DB, personIDs []int64) ([]*types.Person, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*types.Person
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

func (pr *personRepo) GetBySourceValues(ctx context.Context, tx *gorm.DB, sourceValues []string) ([]*types.Person, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*types.Person
	if len(sourceValues) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("person_source_value IN ?", sourceValues).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
