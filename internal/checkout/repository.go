package checkout

import (
	"context"

	"gorm.io/gorm"

	"github.com/epicdreams/storefront-backend/pkg/db/models"
)

// VariantRepository loads variants for reconciliation.
type VariantRepository struct {
	db *gorm.DB
}

func NewVariantRepository(db *gorm.DB) *VariantRepository {
	return &VariantRepository{db: db}
}

func (r *VariantRepository) WithTx(tx *gorm.DB) *VariantRepository {
	if tx == nil {
		return r
	}
	return &VariantRepository{db: tx}
}

// FindByIDs loads the variants among ids that exist, with their products.
func (r *VariantRepository) FindByIDs(ctx context.Context, ids []int64) ([]models.Variant, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var variants []models.Variant
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("id IN ?", ids).
		Find(&variants).Error
	if err != nil {
		return nil, err
	}
	return variants, nil
}

// DecrementInventory subtracts qty from the variant's stock, flooring at zero.
func (r *VariantRepository) DecrementInventory(ctx context.Context, id, qty int64) error {
	return r.db.WithContext(ctx).
		Model(&models.Variant{}).
		Where("id = ?", id).
		UpdateColumn("inventory", gorm.Expr("CASE WHEN inventory > ? THEN inventory - ? ELSE 0 END", qty, qty)).Error
}
