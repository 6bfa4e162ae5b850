package settings

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/epicdreams/storefront-backend/pkg/db/models"
	"github.com/epicdreams/storefront-backend/pkg/types"
)

// Repository persists keyed setting documents.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a settings repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindByKey returns nil when no row exists for key.
func (r *Repository) FindByKey(ctx context.Context, key string) (*models.Setting, error) {
	var setting models.Setting
	err := r.db.WithContext(ctx).Where(&models.Setting{Key: key}).Take(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// InsertIfAbsent writes value under key unless a row already exists. The
// existing row always wins.
func (r *Repository) InsertIfAbsent(ctx context.Context, key string, value types.JSONMap) error {
	row := models.Setting{Key: key, Value: value}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoNothing: true,
		}).
		Create(&row).Error
}

// DeleteByID removes one specific row. A row that was already replaced under
// the same key keeps its new id and is left alone.
func (r *Repository) DeleteByID(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Setting{}).Error
}

// Upsert replaces the value stored under key.
func (r *Repository) Upsert(ctx context.Context, key string, value types.JSONMap) error {
	row := models.Setting{Key: key, Value: value}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "key"}},
			DoUpdates: clause.Assignments(map[string]any{
				"value":      value,
				"updated_at": time.Now().UTC(),
			}),
		}).
		Create(&row).Error
}

// DeleteByPrefix removes every row whose key starts with prefix.
func (r *Repository) DeleteByPrefix(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	if err := r.db.WithContext(ctx).
		Model(&models.Setting{}).
		Where("key LIKE ?", prefix+"%").
		Pluck("key", &keys).Error; err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}
	if err := r.db.WithContext(ctx).Where("key IN ?", keys).Delete(&models.Setting{}).Error; err != nil {
		return nil, err
	}
	return keys, nil
}
