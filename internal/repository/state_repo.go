package repository

import (
	"context"
	"errors"

	"github.com/besufkad2328-dev/SEED/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound - запись отсутствует
var ErrNotFound = errors.New("record not found")

// StateRepository - key-value хранилище снимков состояния
type StateRepository interface {
	Get(ctx context.Context, key string) (*models.StateSnapshot, error)
	Put(ctx context.Context, snapshot *models.StateSnapshot) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}

type stateRepo struct {
	db *gorm.DB
}

func NewStateRepo(db *gorm.DB) StateRepository {
	return &stateRepo{db: db}
}

func (r *stateRepo) Get(ctx context.Context, key string) (*models.StateSnapshot, error) {
	var snapshot models.StateSnapshot
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// Put - upsert по ключу
func (r *stateRepo) Put(ctx context.Context, snapshot *models.StateSnapshot) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "last_update", "updated_at"}),
	}).Create(snapshot).Error
}

func (r *stateRepo) Delete(ctx context.Context, key string) error {
	res := r.db.WithContext(ctx).Where("key = ?", key).Delete(&models.StateSnapshot{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *stateRepo) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	err := r.db.WithContext(ctx).Model(&models.StateSnapshot{}).Order("key").Pluck("key", &keys).Error
	return keys, err
}
