package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	pkgAuth "github.com/epicdreams/storefront-backend/pkg/auth"
	"github.com/epicdreams/storefront-backend/pkg/auth/session"
	"github.com/epicdreams/storefront-backend/pkg/config"
	"github.com/epicdreams/storefront-backend/pkg/db"
	"github.com/epicdreams/storefront-backend/pkg/db/models"
	pkgerrors "github.com/epicdreams/storefront-backend/pkg/errors"
	"github.com/epicdreams/storefront-backend/pkg/logger"
	"github.com/epicdreams/storefront-backend/pkg/security"
)

const (
	invalidCredentialsMessage = "invalid credentials"
	minPasswordLength         = 8
	setupNote                 = "Please change this password after your first login"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type sessionManager interface {
	Create(ctx context.Context, adminID int64, meta session.Meta) (*models.AdminSession, error)
	Revoke(ctx context.Context, accessID string) error
	RevokeAll(ctx context.Context, adminID int64) error
}

type resetNotifier interface {
	SendPasswordReset(ctx context.Context, to, token string, ttl time.Duration) error
}

// ServiceParams bundles the dependencies required to build the admin service.
type ServiceParams struct {
	Repo      *Repository
	Tx        txRunner
	Sessions  sessionManager
	Notifier  resetNotifier
	JWTConfig config.JWTConfig
	Password  config.PasswordConfig
	Admin     config.AdminConfig
	Logger    *logger.Logger
}

// Service implements admin setup, login, and the password flows.
type Service struct {
	repo     *Repository
	tx       txRunner
	sessions sessionManager
	notifier resetNotifier
	jwtCfg   config.JWTConfig
	pwCfg    config.PasswordConfig
	adminCfg config.AdminConfig
	logg     *logger.Logger
	now      func() time.Time
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("admin repository is required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("reset notifier is required")
	}
	if params.Admin.ResetTokenTTL <= 0 {
		params.Admin.ResetTokenTTL = time.Hour
	}
	return &Service{
		repo:     params.Repo,
		tx:       params.Tx,
		sessions: params.Sessions,
		notifier: params.Notifier,
		jwtCfg:   params.JWTConfig,
		pwCfg:    params.Password,
		adminCfg: params.Admin,
		logg:     params.Logger,
		now:      time.Now,
	}, nil
}

// Summary is the public view of an admin user.
type Summary struct {
	ID                 int64      `json:"id"`
	Email              string     `json:"email"`
	Role               string     `json:"role"`
	MustChangePassword bool       `json:"must_change_password"`
	LastLoginAt        *time.Time `json:"last_login_at,omitempty"`
}

func summaryOf(u *models.AdminUser) Summary {
	return Summary{
		ID:                 u.ID,
		Email:              u.Email,
		Role:               u.Role,
		MustChangePassword: u.MustChangePassword,
		LastLoginAt:        u.LastLoginAt,
	}
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	Token              string    `json:"token"`
	ExpiresAt          time.Time `json:"expires_at"`
	MustChangePassword bool      `json:"must_change_password"`
	Admin              Summary   `json:"admin"`
}

type SetupResult struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Note     string `json:"note"`
}

// Setup creates the default admin when none exist yet.
func (s *Service) Setup(ctx context.Context) (*SetupResult, error) {
	email := normalizeEmail(s.adminCfg.DefaultEmail)
	password := s.adminCfg.DefaultPassword
	if email == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "default admin credentials are not configured")
	}
	hash, err := security.HashPassword(password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		count, err := repo.Count(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count admins")
		}
		if count > 0 {
			return pkgerrors.New(pkgerrors.CodeAdminExists, "Admin user already exists")
		}
		return repo.Create(ctx, &models.AdminUser{
			Email:              email,
			PasswordHash:       hash,
			Role:               models.AdminRoleAdmin,
			MustChangePassword: true,
		})
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeAdminExists, "Admin user already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create admin")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "email", email), "admin.setup.created")
	}
	return &SetupResult{Email: email, Password: password, Note: setupNote}, nil
}

// Login verifies credentials, opens a session, and mints its access token.
func (s *Service) Login(ctx context.Context, in LoginInput, meta session.Meta) (*LoginResult, error) {
	user, err := s.authenticate(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}

	now, err := s.recordLogin(ctx, user)
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.Create(ctx, user.ID, meta)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create session")
	}
	token, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		AdminID: user.ID,
		Role:    user.Role,
		JTI:     sess.ID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &LoginResult{
		Token:              token,
		ExpiresAt:          now.Add(s.jwtCfg.AccessTTL()),
		MustChangePassword: user.MustChangePassword,
		Admin:              summaryOf(user),
	}, nil
}

// Logout revokes the session backing the caller's token.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return nil
	}
	if err := s.sessions.Revoke(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoke session")
	}
	return nil
}

func (s *Service) Me(ctx context.Context, adminID int64) (*Summary, error) {
	user, err := s.repo.FindByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load admin")
	}
	out := summaryOf(user)
	return &out, nil
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// ChangePassword rotates the password of an authenticated admin.
func (s *Service) ChangePassword(ctx context.Context, adminID int64, in ChangePasswordInput) error {
	if in.CurrentPassword == "" || in.NewPassword == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "Current and new password are required")
	}
	if len(in.NewPassword) < minPasswordLength {
		return pkgerrors.New(pkgerrors.CodeValidation, "Password must be at least 8 characters long").
			WithDetails(map[string]string{"new_password": "must be at least 8 characters"})
	}

	user, err := s.repo.FindByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "admin not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load admin")
	}
	ok, err := security.VerifyPassword(in.CurrentPassword, user.PasswordHash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, "Current password is incorrect").
			WithDetails(map[string]string{"current_password": "is incorrect"})
	}

	hash, err := security.HashPassword(in.NewPassword, s.pwCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.repo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update password")
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "admin_id", user.ID), "admin.password.changed")
	}
	return nil
}

func (s *Service) authenticate(ctx context.Context, email, password string) (*models.AdminUser, error) {
	input := normalizeEmail(email)
	if input == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	user, err := s.repo.FindByEmail(ctx, input)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup admin")
	}

	valid, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}

func (s *Service) recordLogin(ctx context.Context, user *models.AdminUser) (time.Time, error) {
	now := s.now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	user.LastLoginAt = &now
	return now, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
