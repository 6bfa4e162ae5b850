package models

import (
	"time"

	"github.com/epicdreams/storefront-backend/pkg/types"
)

// Artist is a label roster entry. Socials maps platform keys to profile URLs
// and may carry a spotifyEmbed player URL.
type Artist struct {
	ID        int64           `gorm:"column:id;primaryKey"`
	Name      string          `gorm:"column:name;not null"`
	Slug      string          `gorm:"column:slug;not null;uniqueIndex"`
	Bio       string          `gorm:"column:bio;not null;default:''"`
	HeroImage string          `gorm:"column:hero_image"`
	Socials   types.StringMap `gorm:"column:socials;type:jsonb;not null;default:'{}'"`
	Releases  []Release       `gorm:"foreignKey:ArtistID;constraint:OnDelete:CASCADE"`
	Products  []Product       `gorm:"many2many:product_artists;joinForeignKey:ArtistID;joinReferences:ProductID"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// Release is an album or single credited to an artist.
type Release struct {
	ID          int64           `gorm:"column:id;primaryKey"`
	ArtistID    int64           `gorm:"column:artist_id;not null;index"`
	Artist      *Artist         `gorm:"foreignKey:ArtistID"`
	Title       string          `gorm:"column:title;not null"`
	Slug        string          `gorm:"column:slug;not null;uniqueIndex"`
	ReleaseDate time.Time       `gorm:"column:release_date;not null"`
	CoverImage  string          `gorm:"column:cover_image"`
	Tracks      types.Tracks    `gorm:"column:tracks;type:jsonb;not null;default:'[]'"`
	Links       types.StringMap `gorm:"column:links;type:jsonb;not null;default:'{}'"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
