package models

import "time"

type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

func (t DiscountType) Valid() bool {
	return t == DiscountTypePercentage || t == DiscountTypeFixed
}

// Discount is a promo code. Value is percent points for percentage codes and
// minor units for fixed codes. Codes are case sensitive.
type Discount struct {
	ID         int64        `gorm:"column:id;primaryKey"`
	Code       string       `gorm:"column:code;not null;uniqueIndex"`
	Type       DiscountType `gorm:"column:type;not null"`
	Value      int64        `gorm:"column:value;not null"`
	StartsAt   *time.Time   `gorm:"column:starts_at"`
	EndsAt     *time.Time   `gorm:"column:ends_at"`
	UsageLimit *int         `gorm:"column:usage_limit"`
	UsageCount int          `gorm:"column:usage_count;not null;default:0"`
	CreatedAt  time.Time    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time    `gorm:"column:updated_at;autoUpdateTime"`
}
