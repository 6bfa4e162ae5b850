package controllers

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/epicdreams/storefront-backend/api/responses"
	"github.com/epicdreams/storefront-backend/api/validators"
	internalorders "github.com/epicdreams/storefront-backend/internal/orders"
	"github.com/epicdreams/storefront-backend/pkg/db/models"
	pkgerrors "github.com/epicdreams/storefront-backend/pkg/errors"
	"github.com/epicdreams/storefront-backend/pkg/logger"
	"github.com/epicdreams/storefront-backend/pkg/pagination"
)

type AdminOrderService interface {
	List(ctx context.Context, params pagination.Params) (*internalorders.ListResult, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*models.Order, error)
	ExportCSV(ctx context.Context, w io.Writer) error
}

type orderListResponse struct {
	Orders []orderResponse `json:"orders"`
	Cursor string          `json:"cursor,omitempty"`
}

type orderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AdminOrders returns a cursor page of orders, newest first.
func AdminOrders(svc AdminOrderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		list, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := orderListResponse{Orders: make([]orderResponse, 0, len(list.Items)), Cursor: list.Cursor}
		for _, o := range list.Items {
			out.Orders = append(out.Orders, newOrderResponse(o))
		}
		responses.WriteSuccess(w, out)
	}
}

// AdminOrdersExport streams every order as a CSV attachment.
func AdminOrdersExport(svc AdminOrderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		var buf bytes.Buffer
		if err := svc.ExportCSV(r.Context(), &buf); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="orders.csv"`)
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
	}
}

func AdminOrderUpdateStatus(svc AdminOrderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		id, err := validators.ParsePathInt64(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload orderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.UpdateStatus(r.Context(), id, payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderResponse(*order))
	}
}
