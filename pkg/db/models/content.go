package models

import "time"

// Post is a blog entry; unpublished posts have a nil PublishedAt.
type Post struct {
	ID          int64      `gorm:"column:id;primaryKey"`
	Title       string     `gorm:"column:title;not null"`
	Slug        string     `gorm:"column:slug;not null;uniqueIndex"`
	Excerpt     string     `gorm:"column:excerpt"`
	Content     string     `gorm:"column:content;not null;default:''"`
	HeroImage   string     `gorm:"column:hero_image"`
	PublishedAt *time.Time `gorm:"column:published_at;index"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

type ContactType string

const (
	ContactTypeEmailCapture     ContactType = "email_capture"
	ContactTypeCorporateInquiry ContactType = "corporate_inquiry"
	ContactTypeGeneral          ContactType = "general"
)

type ContactMessage struct {
	ID        int64       `gorm:"column:id;primaryKey"`
	Type      ContactType `gorm:"column:type;not null"`
	Name      string      `gorm:"column:name"`
	Email     string      `gorm:"column:email;not null"`
	Company   string      `gorm:"column:company"`
	Subject   string      `gorm:"column:subject"`
	Message   string      `gorm:"column:message"`
	CreatedAt time.Time   `gorm:"column:created_at;autoCreateTime"`
}
