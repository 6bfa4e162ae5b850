package models

import (
	"time"

	"github.com/epicdreams/storefront-backend/pkg/types"
)

type OrderStatus string

const (
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusFulfilled OrderStatus = "fulfilled"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusRefunded  OrderStatus = "refunded"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPaid, OrderStatusFulfilled, OrderStatusCancelled, OrderStatusRefunded:
		return true
	default:
		return false
	}
}

// Order is written once per completed checkout session.
type Order struct {
	ID              int64         `gorm:"column:id;primaryKey"`
	StripeSessionID string        `gorm:"column:stripe_session_id;not null;uniqueIndex"`
	Email           string        `gorm:"column:email;not null;default:''"`
	Status          OrderStatus   `gorm:"column:status;not null;default:'paid'"`
	SubtotalCents   int64         `gorm:"column:subtotal_cents;not null;default:0"`
	DiscountCents   int64         `gorm:"column:discount_cents;not null;default:0"`
	ShippingCents   int64         `gorm:"column:shipping_cents;not null;default:0"`
	TaxCents        int64         `gorm:"column:tax_cents;not null;default:0"`
	TotalCents      int64         `gorm:"column:total_cents;not null;default:0"`
	Currency        string        `gorm:"column:currency;not null;default:'usd'"`
	ShippingName    string        `gorm:"column:shipping_name"`
	ShippingAddress types.Address `gorm:"column:shipping_address;type:jsonb"`
	Items           []OrderItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem snapshots the variant at purchase time. VariantID is nulled when
// the variant is later removed.
type OrderItem struct {
	ID         int64  `gorm:"column:id;primaryKey"`
	OrderID    int64  `gorm:"column:order_id;not null;index"`
	VariantID  *int64 `gorm:"column:variant_id"`
	Title      string `gorm:"column:title;not null"`
	SKU        string `gorm:"column:sku;not null"`
	Quantity   int64  `gorm:"column:quantity;not null"`
	PriceCents int64  `gorm:"column:price_cents;not null"`
}
