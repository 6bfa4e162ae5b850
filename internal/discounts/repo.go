package discounts

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/epicdreams/storefront-backend/pkg/db/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindByCode matches codes exactly. A missing code returns nil, nil.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.Discount, error) {
	var discount models.Discount
	err := r.db.WithContext(ctx).Where("code = ?", code).Take(&discount).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &discount, nil
}

// List returns discounts with the latest start first; codes without a start
// date sort last.
func (r *Repository) List(ctx context.Context) ([]models.Discount, error) {
	var out []models.Discount
	err := r.db.WithContext(ctx).
		Order("CASE WHEN starts_at IS NULL THEN 1 ELSE 0 END").
		Order("starts_at DESC").
		Order("id DESC").
		Find(&out).Error
	return out, err
}

func (r *Repository) Create(ctx context.Context, discount *models.Discount) error {
	return r.db.WithContext(ctx).Create(discount).Error
}

// IncrementUsage bumps usage_count for code and reports whether a row matched.
func (r *Repository) IncrementUsage(ctx context.Context, code string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Discount{}).
		Where("code = ?", code).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
