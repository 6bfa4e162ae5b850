package controllers

import (
	"context"
	"net/http"

	"github.com/epicdreams/storefront-backend/api/responses"
	"github.com/epicdreams/storefront-backend/api/validators"
	"github.com/epicdreams/storefront-backend/internal/contact"
	"github.com/epicdreams/storefront-backend/pkg/db/models"
	pkgerrors "github.com/epicdreams/storefront-backend/pkg/errors"
	"github.com/epicdreams/storefront-backend/pkg/logger"
)

type ContactService interface {
	Submit(ctx context.Context, in contact.Submission) (*models.ContactMessage, error)
}

// Contact stores a contact form, corporate inquiry or email capture.
func Contact(svc ContactService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contact service unavailable"))
			return
		}
		var payload contact.Submission
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		msg, err := svc.Submit(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"success": true, "id": msg.ID})
	}
}
