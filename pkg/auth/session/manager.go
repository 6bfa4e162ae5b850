package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/epicdreams/storefront-backend/pkg/config"
	"github.com/epicdreams/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

type sessionStore interface {
	Create(ctx context.Context, sess *models.AdminSession) error
	Find(ctx context.Context, id string) (*models.AdminSession, error)
	Delete(ctx context.Context, id string) error
	DeleteForAdmin(ctx context.Context, adminID int64) error
}

// Checker exposes the read-only surface needed by middleware.
type Checker interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

// Meta is request metadata recorded on a new session.
type Meta struct {
	UserAgent string
	IP        string
}

// Manager issues, checks, and revokes admin sessions. Each session row's id is
// the jti of the access token minted alongside it.
type Manager struct {
	store sessionStore
	ttl   time.Duration
	now   func() time.Time
}

// NewManager constructs a session manager backed by the admin_sessions table.
func NewManager(store sessionStore, cfg config.JWTConfig) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	ttl := cfg.SessionTTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	if access := cfg.AccessTTL(); access > ttl {
		return nil, fmt.Errorf("session ttl (%s) must cover access token ttl (%s)", ttl, access)
	}

	return &Manager{
		store: store,
		ttl:   ttl,
		now:   time.Now,
	}, nil
}

// Create persists a fresh session for the admin and returns it.
func (m *Manager) Create(ctx context.Context, adminID int64, meta Meta) (*models.AdminSession, error) {
	if adminID <= 0 {
		return nil, fmt.Errorf("admin id is required")
	}
	sess := &models.AdminSession{
		ID:          NewAccessID(),
		AdminUserID: adminID,
		ExpiresAt:   m.now().UTC().Add(m.ttl),
		UserAgent:   truncate(meta.UserAgent, 512),
		IP:          meta.IP,
	}
	if err := m.store.Create(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// HasSession reports whether the access ID maps to an unexpired session.
func (m *Manager) HasSession(ctx context.Context, accessID string) (bool, error) {
	if strings.TrimSpace(accessID) == "" {
		return false, fmt.Errorf("access id is required")
	}
	sess, err := m.store.Find(ctx, accessID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return false, nil
		}
		return false, err
	}
	return m.now().Before(sess.ExpiresAt), nil
}

// Revoke deletes a single session.
func (m *Manager) Revoke(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return fmt.Errorf("access id is required")
	}
	return m.store.Delete(ctx, accessID)
}

// RevokeAll deletes every session of the admin.
func (m *Manager) RevokeAll(ctx context.Context, adminID int64) error {
	return m.store.DeleteForAdmin(ctx, adminID)
}

// TTL is the configured session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// NewAccessID produces a stable identifier used as the JWT jti and session id.
func NewAccessID() string {
	return uuid.NewString()
}

func truncate(v string, max int) string {
	if len(v) <= max {
		return v
	}
	return v[:max]
}
