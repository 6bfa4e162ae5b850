package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/epicdreams/storefront-backend/api/responses"
	"github.com/epicdreams/storefront-backend/api/validators"
	"github.com/epicdreams/storefront-backend/internal/settings"
	pkgerrors "github.com/epicdreams/storefront-backend/pkg/errors"
	"github.com/epicdreams/storefront-backend/pkg/logger"
	"github.com/epicdreams/storefront-backend/pkg/types"
)

type AdminSettingsService interface {
	Get(ctx context.Context, key string) (types.JSONMap, error)
	Shipping(ctx context.Context) (settings.ShippingSettings, error)
	UpdateShipping(ctx context.Context, in settings.ShippingSettings) (settings.ShippingSettings, error)
}

func AdminShippingSettings(svc AdminSettingsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}
		current, err := svc.Shipping(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, current)
	}
}

func AdminUpdateShippingSettings(svc AdminSettingsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}
		var payload settings.ShippingSettings
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		updated, err := svc.UpdateShipping(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// AdminSetting returns the raw value of a readable settings key.
func AdminSetting(svc AdminSettingsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}
		key := strings.TrimSpace(chi.URLParam(r, "key"))
		value, err := svc.Get(r.Context(), key)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"key": key, "value": value})
	}
}
