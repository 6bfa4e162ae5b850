package admin

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/epicdreams/storefront-backend/pkg/db/models"
	pkgerrors "github.com/epicdreams/storefront-backend/pkg/errors"
	"github.com/epicdreams/storefront-backend/pkg/security"
)

// ResetRequestedMessage is returned for every forgot-password request so the
// response never reveals whether the email is registered.
const ResetRequestedMessage = "If an account with that email exists, a password reset link has been sent."

const (
	msgTokenInvalid     = "Invalid token"
	msgTokenExpired     = "Token has expired"
	msgConsumeInvalid   = "Invalid or expired reset token"
	msgConsumeExpired   = "Reset token has expired. Please request a new password reset."
	msgTokenAndPassword = "Token and password are required"
	msgPasswordTooShort = "Password must be at least 8 characters long"
	msgEmailRequired    = "Email is required"
	msgTokenRequired    = "Token is required"
)

// RequestPasswordReset issues a fresh token for a known admin and mails the
// link. Unknown emails and mail failures produce the same response.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	input := normalizeEmail(email)
	if input == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, msgEmailRequired)
	}

	user, err := s.repo.FindByEmail(ctx, input)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ResetRequestedMessage, nil
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup admin")
	}

	token, err := security.GenerateResetToken()
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate reset token")
	}
	ttl := s.adminCfg.ResetTokenTTL
	expiresAt := s.now().UTC().Add(ttl)
	if err := s.repo.SetResetToken(ctx, user.ID, token, expiresAt); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store reset token")
	}

	if err := s.notifier.SendPasswordReset(ctx, user.Email, token, ttl); err != nil {
		if s.logg != nil {
			s.logg.Error(s.logg.WithField(ctx, "admin_id", user.ID), "admin.password_reset.email_failed", err)
		}
	} else if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "admin_id", user.ID), "admin.password_reset.requested")
	}
	return ResetRequestedMessage, nil
}

// ValidateResetToken reports whether the token can still be consumed. It never
// writes.
func (s *Service) ValidateResetToken(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, msgTokenRequired)
	}
	user, err := s.repo.FindByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeTokenInvalid, msgTokenInvalid)
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup reset token")
	}
	if s.expired(user) {
		return pkgerrors.New(pkgerrors.CodeTokenExpired, msgTokenExpired)
	}
	return nil
}

type ResetPasswordInput struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ResetPassword consumes the token and sets the new password. All sessions of
// the admin are revoked afterwards.
func (s *Service) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	if in.Token == "" || in.Password == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, msgTokenAndPassword)
	}
	if len(in.Password) < minPasswordLength {
		return pkgerrors.New(pkgerrors.CodeValidation, msgPasswordTooShort)
	}

	user, err := s.repo.FindByResetToken(ctx, in.Token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeTokenInvalid, msgConsumeInvalid)
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup reset token")
	}
	if s.expired(user) {
		if err := s.repo.ClearResetToken(ctx, user.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear expired token")
		}
		return pkgerrors.New(pkgerrors.CodeTokenExpired, msgConsumeExpired)
	}

	hash, err := security.HashPassword(in.Password, s.pwCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	consumed, err := s.repo.ConsumeResetToken(ctx, user.ID, in.Token, hash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "consume reset token")
	}
	if !consumed {
		return pkgerrors.New(pkgerrors.CodeTokenInvalid, msgConsumeInvalid)
	}

	if err := s.sessions.RevokeAll(ctx, user.ID); err != nil && s.logg != nil {
		s.logg.Error(s.logg.WithField(ctx, "admin_id", user.ID), "admin.sessions.revoke_failed", err)
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "admin_id", user.ID), "admin.password_reset.completed")
	}
	return nil
}

func (s *Service) expired(user *models.AdminUser) bool {
	return user.PasswordResetExpiresAt == nil || user.PasswordResetExpiresAt.Before(s.now())
}
