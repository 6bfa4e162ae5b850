package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/epicdreams/storefront-backend/api/middleware"
	"github.com/epicdreams/storefront-backend/api/responses"
	"github.com/epicdreams/storefront-backend/api/validators"
	"github.com/epicdreams/storefront-backend/internal/admin"
	pkgAuth "github.com/epicdreams/storefront-backend/pkg/auth"
	"github.com/epicdreams/storefront-backend/pkg/auth/session"
	"github.com/epicdreams/storefront-backend/pkg/config"
	pkgerrors "github.com/epicdreams/storefront-backend/pkg/errors"
	"github.com/epicdreams/storefront-backend/pkg/logger"
	"github.com/epicdreams/storefront-backend/pkg/types"
)

type AdminAuthService interface {
	Setup(ctx context.Context) (*admin.SetupResult, error)
	Login(ctx context.Context, in admin.LoginInput, meta session.Meta) (*admin.LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
	Me(ctx context.Context, adminID int64) (*admin.Summary, error)
	ChangePassword(ctx context.Context, adminID int64, in admin.ChangePasswordInput) error
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ValidateResetToken(ctx context.Context, token string) error
	ResetPassword(ctx context.Context, in admin.ResetPasswordInput) error
}

type resetTokenStatus struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// AdminSetup creates the first admin account. It refuses once any admin exists.
func AdminSetup(svc AdminAuthService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}
		result, err := svc.Setup(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// AdminLogin authenticates an admin, returns the token and sets the
// HttpOnly admin cookie.
func AdminLogin(svc AdminAuthService, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}
		var payload admin.LoginInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), payload, session.Meta{
			UserAgent: r.UserAgent(),
			IP:        middleware.ClientIP(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		http.SetCookie(w, adminCookie(cfg, result.Token, result.ExpiresAt))
		responses.WriteSuccess(w, result)
	}
}

// AdminLogout revokes the presented session, if any, and always clears the
// cookie.
func AdminLogout(svc AdminAuthService, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}
		if token := middleware.TokenFromRequest(r); token != "" {
			if claims, err := pkgAuth.ParseAccessToken(cfg, token); err == nil && claims.ID != "" {
				if err := svc.Logout(r.Context(), claims.ID); err != nil {
					responses.WriteError(r.Context(), logg, w, err)
					return
				}
			}
		}
		http.SetCookie(w, adminCookie(cfg, "", time.Unix(0, 0)))
		responses.WriteSuccess(w, types.Acknowledgement{Success: true})
	}
}

func AdminMe(svc AdminAuthService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}
		me, err := svc.Me(r.Context(), middleware.AdminIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, me)
	}
}

func AdminChangePassword(svc AdminAuthService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}
		var payload admin.ChangePasswordInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.ChangePassword(r.Context(), middleware.AdminIDFromContext(r.Context()), payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, types.Acknowledgement{Success: true, Message: "Password updated"})
	}
}

// AdminForgotPassword answers with the same message whether or not the email
// belongs to an admin.
func AdminForgotPassword(svc AdminAuthService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}
		var payload forgotPasswordRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		msg, err := svc.RequestPasswordReset(r.Context(), payload.Email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, types.Acknowledgement{Success: true, Message: msg})
	}
}

// AdminValidateResetToken reports token validity in the body with a 200
// status so the reset page can render either state.
func AdminValidateResetToken(svc AdminAuthService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}
		token := strings.TrimSpace(r.URL.Query().Get("token"))
		err := svc.ValidateResetToken(r.Context(), token)
		if err == nil {
			responses.WriteSuccess(w, resetTokenStatus{Valid: true})
			return
		}
		typed := pkgerrors.As(err)
		if typed == nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		switch typed.Code() {
		case pkgerrors.CodeValidation, pkgerrors.CodeTokenInvalid, pkgerrors.CodeTokenExpired:
			responses.WriteSuccess(w, resetTokenStatus{Valid: false, Error: typed.Message()})
		default:
			responses.WriteError(r.Context(), logg, w, err)
		}
	}
}

func AdminResetPassword(svc AdminAuthService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}
		var payload admin.ResetPasswordInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.ResetPassword(r.Context(), payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, types.Acknowledgement{Success: true, Message: "Password has been reset. You can now log in."})
	}
}

func adminCookie(cfg config.JWTConfig, value string, expires time.Time) *http.Cookie {
	c := &http.Cookie{
		Name:     middleware.AdminCookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	if value == "" {
		c.MaxAge = -1
	}
	return c
}
