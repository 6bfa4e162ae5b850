package session

import (
	"context"
	"errors"

	"github.com/epicdreams/storefront-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Store persists sessions through gorm.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, sess *models.AdminSession) error {
	return s.db.WithContext(ctx).Create(sess).Error
}

func (s *Store) Find(ctx context.Context, id string) (*models.AdminSession, error) {
	var sess models.AdminSession
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.AdminSession{}).Error
}

func (s *Store) DeleteForAdmin(ctx context.Context, adminID int64) error {
	return s.db.WithContext(ctx).Where("admin_user_id = ?", adminID).Delete(&models.AdminSession{}).Error
}
