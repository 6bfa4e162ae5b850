package models

import (
	"time"

	"github.com/epicdreams/storefront-backend/pkg/types"
)

// Setting is a keyed JSON document. Keys are unique; provider object ids are
// cached under coupon:<code> and shipping:<rateKey>.
type Setting struct {
	ID        int64         `gorm:"column:id;primaryKey"`
	Key       string        `gorm:"column:key;not null;uniqueIndex"`
	Value     types.JSONMap `gorm:"column:value;type:jsonb;not null;default:'{}'"`
	CreatedAt time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}
