package controllers

import (
	"context"
	"net/http"

	"github.com/epicdreams/storefront-backend/api/responses"
	"github.com/epicdreams/storefront-backend/api/validators"
	"github.com/epicdreams/storefront-backend/internal/catalog"
	"github.com/epicdreams/storefront-backend/internal/discounts"
	"github.com/epicdreams/storefront-backend/pkg/db/models"
	pkgerrors "github.com/epicdreams/storefront-backend/pkg/errors"
	"github.com/epicdreams/storefront-backend/pkg/logger"
)

type AdminProductService interface {
	ListProductSummaries(ctx context.Context) ([]catalog.ProductSummary, error)
	CreateVariant(ctx context.Context, productID int64, in catalog.VariantInput) (*models.Variant, error)
}

type AdminDiscountService interface {
	List(ctx context.Context) ([]models.Discount, error)
	Create(ctx context.Context, in discounts.CreateInput) (*models.Discount, error)
}

func AdminProducts(svc AdminProductService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		rows, err := svc.ListProductSummaries(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if rows == nil {
			rows = []catalog.ProductSummary{}
		}
		responses.WriteSuccess(w, map[string]any{"products": rows})
	}
}

// AdminCreateVariant adds a variant to the product named by the {id} path
// parameter.
func AdminCreateVariant(svc AdminProductService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		productID, err := validators.ParsePathInt64(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload catalog.VariantInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		variant, err := svc.CreateVariant(r.Context(), productID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if logg != nil {
			ctx := logg.WithFields(r.Context(), map[string]any{"product_id": productID, "variant_id": variant.ID})
			logg.Info(ctx, "admin.variant.created")
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newVariantResponse(*variant))
	}
}

func AdminDiscounts(svc AdminDiscountService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := make([]discountResponse, 0, len(rows))
		for _, d := range rows {
			out = append(out, newDiscountResponse(d))
		}
		responses.WriteSuccess(w, map[string]any{"discounts": out})
	}
}

func AdminCreateDiscount(svc AdminDiscountService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}
		var payload discounts.CreateInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := svc.Create(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newDiscountResponse(*created))
	}
}
