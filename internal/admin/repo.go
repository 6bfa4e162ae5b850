package admin

import (
	"context"
	"time"

	"github.com/epicdreams/storefront-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes admin_users persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an admin repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Count returns the number of admin users.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.AdminUser{}).Count(&n).Error
	return n, err
}

// Create inserts a new admin user.
func (r *Repository) Create(ctx context.Context, user *models.AdminUser) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByEmail retrieves the admin matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	var user models.AdminUser
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads an admin by primary key.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.AdminUser, error) {
	var user models.AdminUser
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByResetToken loads the admin holding the reset token.
func (r *Repository) FindByResetToken(ctx context.Context, token string) (*models.AdminUser, error) {
	var user models.AdminUser
	if err := r.db.WithContext(ctx).Where("password_reset_token = ?", token).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateLastLogin refreshes the admin's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.AdminUser{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

// SetResetToken stores a reset token, overwriting any previous one.
func (r *Repository) SetResetToken(ctx context.Context, id int64, token string, expiresAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.AdminUser{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"password_reset_token":      token,
			"password_reset_expires_at": expiresAt,
		}).Error
}

// ClearResetToken nulls both reset token fields.
func (r *Repository) ClearResetToken(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&models.AdminUser{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"password_reset_token":      nil,
			"password_reset_expires_at": nil,
		}).Error
}

// ConsumeResetToken sets the new hash and clears the token in one statement.
// It reports false when the token was already consumed or replaced.
func (r *Repository) ConsumeResetToken(ctx context.Context, id int64, token, passwordHash string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.AdminUser{}).
		Where("id = ? AND password_reset_token = ?", id, token).
		Updates(map[string]any{
			"password_hash":             passwordHash,
			"password_reset_token":      nil,
			"password_reset_expires_at": nil,
			"must_change_password":      false,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// UpdatePassword replaces the hash and clears must_change_password.
func (r *Repository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return r.db.WithContext(ctx).
		Model(&models.AdminUser{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"password_hash":        passwordHash,
			"must_change_password": false,
		}).Error
}
