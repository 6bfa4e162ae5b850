package models

import "time"

const AdminRoleAdmin = "admin"

// AdminUser is a console operator. The reset token pair is either both set or
// both null.
type AdminUser struct {
	ID                     int64      `gorm:"column:id;primaryKey"`
	Email                  string     `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash           string     `gorm:"column:password_hash;not null"`
	Role                   string     `gorm:"column:role;not null;default:'admin'"`
	MustChangePassword     bool       `gorm:"column:must_change_password;not null;default:false"`
	PasswordResetToken     *string    `gorm:"column:password_reset_token;uniqueIndex"`
	PasswordResetExpiresAt *time.Time `gorm:"column:password_reset_expires_at"`
	LastLoginAt            *time.Time `gorm:"column:last_login_at"`
	CreatedAt              time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt              time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// AdminSession backs an issued access token; its ID is the token's jti.
type AdminSession struct {
	ID          string    `gorm:"column:id;primaryKey;type:varchar(36)"`
	AdminUserID int64     `gorm:"column:admin_user_id;not null;index"`
	ExpiresAt   time.Time `gorm:"column:expires_at;not null"`
	UserAgent   string    `gorm:"column:user_agent"`
	IP          string    `gorm:"column:ip"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
