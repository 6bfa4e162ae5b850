package models

import (
	"time"

	"gorm.io/gorm"
)

// Product represents a merch listing. Prices live on its variants.
type Product struct {
	ID          int64          `gorm:"column:id;primaryKey"`
	Title       string         `gorm:"column:title;not null"`
	Slug        string         `gorm:"column:slug;not null;uniqueIndex"`
	Description string         `gorm:"column:description;not null;default:''"`
	Featured    bool           `gorm:"column:featured;not null;default:false"`
	Images      []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Variants    []Variant      `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Collections []Collection   `gorm:"many2many:collection_products;joinForeignKey:ProductID;joinReferences:CollectionID"`
	Artists     []Artist       `gorm:"many2many:product_artists;joinForeignKey:ProductID;joinReferences:ArtistID"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// ProductImage is ordered by SortOrder ascending.
type ProductImage struct {
	ID        int64  `gorm:"column:id;primaryKey"`
	ProductID int64  `gorm:"column:product_id;not null;index"`
	URL       string `gorm:"column:url;not null"`
	Alt       string `gorm:"column:alt"`
	SortOrder int    `gorm:"column:sort_order;not null;default:0"`
}

// Variant is a purchasable SKU. PriceCents is authoritative at checkout.
type Variant struct {
	ID         int64             `gorm:"column:id;primaryKey"`
	ProductID  int64             `gorm:"column:product_id;not null;index"`
	Product    *Product          `gorm:"foreignKey:ProductID"`
	Name       string            `gorm:"column:name;not null"`
	SKU        string            `gorm:"column:sku;not null;uniqueIndex"`
	PriceCents int64             `gorm:"column:price_cents;not null"`
	Inventory  int               `gorm:"column:inventory;not null;default:0"`
	Signed     bool              `gorm:"column:signed;not null;default:false"`
	Attributes VariantAttributes `gorm:"column:attributes;type:jsonb;not null;default:'{}'"`
	AttrSize   *string           `gorm:"column:attr_size;index"`
	AttrColor  *string           `gorm:"column:attr_color;index"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (Variant) TableName() string { return "product_variants" }

// BeforeSave validates the typed attributes and keeps the filter columns in
// step with them.
func (v *Variant) BeforeSave(*gorm.DB) error {
	if err := v.Attributes.Validate(); err != nil {
		return err
	}
	v.AttrSize = optional(v.Attributes.Size)
	v.AttrColor = optional(v.Attributes.Color)
	if v.Attributes.Signed {
		v.Signed = true
	}
	return nil
}

// Collection groups products for the store category filter.
type Collection struct {
	ID       int64     `gorm:"column:id;primaryKey"`
	Title    string    `gorm:"column:title;not null"`
	Slug     string    `gorm:"column:slug;not null;uniqueIndex"`
	Products []Product `gorm:"many2many:collection_products;joinForeignKey:CollectionID;joinReferences:ProductID"`
}

// CollectionProduct is the collection membership join row.
type CollectionProduct struct {
	CollectionID int64 `gorm:"column:collection_id;primaryKey"`
	ProductID    int64 `gorm:"column:product_id;primaryKey"`
}

// ProductArtist is the product to artist join row.
type ProductArtist struct {
	ProductID int64 `gorm:"column:product_id;primaryKey"`
	ArtistID  int64 `gorm:"column:artist_id;primaryKey"`
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
