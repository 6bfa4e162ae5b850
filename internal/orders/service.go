package orders

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/epicdreams/storefront-backend/pkg/db/models"
	pkgerrors "github.com/epicdreams/storefront-backend/pkg/errors"
	"github.com/epicdreams/storefront-backend/pkg/logger"
	"github.com/epicdreams/storefront-backend/pkg/money"
	"github.com/epicdreams/storefront-backend/pkg/pagination"
)

// CSVHeader is the column order of the admin export.
var CSVHeader = []string{"id", "created_at", "email", "status", "total", "items"}

type store interface {
	List(ctx context.Context, params listParams) ([]models.Order, *pagination.Cursor, error)
	UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) (bool, error)
	FindByID(ctx context.Context, id int64) (*models.Order, error)
}

// Service backs the admin order views.
type Service struct {
	repo store
	logg *logger.Logger
}

func NewService(repo store, logg *logger.Logger) (*Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "orders repository required")
	}
	return &Service{repo: repo, logg: logg}, nil
}

// ListResult is one page of orders plus the cursor for the next page.
type ListResult struct {
	Items  []models.Order `json:"items"`
	Cursor string         `json:"cursor,omitempty"`
}

func (s *Service) List(ctx context.Context, params pagination.Params) (*ListResult, error) {
	query := listParams{Limit: params.Limit}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	if rows == nil {
		rows = []models.Order{}
	}
	return &ListResult{Items: rows, Cursor: cursor}, nil
}

// UpdateStatus moves the order to one of paid, fulfilled, cancelled, refunded.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (*models.Order, error) {
	next := models.OrderStatus(strings.ToLower(strings.TrimSpace(status)))
	if !next.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status").
			WithDetails(map[string]string{"status": "must be one of paid, fulfilled, cancelled, refunded"})
	}

	found, err := s.repo.UpdateStatus(ctx, id, next)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order status")
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{"order_id": id, "status": string(next)})
		s.logg.Info(ctx, "orders.status.updated")
	}
	return order, nil
}

// ExportCSV streams every order, newest first, walking the list cursor.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write csv header")
	}

	query := listParams{Limit: pagination.MaxLimit}
	for {
		rows, next, err := s.repo.List(ctx, query)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
		}
		for i := range rows {
			if err := cw.Write(csvRow(rows[i])); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write csv row")
			}
		}
		if next == nil {
			break
		}
		query.Cursor = next
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "flush csv")
	}
	return nil
}

func csvRow(o models.Order) []string {
	return []string{
		strconv.FormatInt(o.ID, 10),
		o.CreatedAt.UTC().Format(time.RFC3339),
		o.Email,
		string(o.Status),
		money.Dollars(o.TotalCents),
		ItemsSummary(o.Items),
	}
}

// ItemsSummary renders items as "Title (SKU) x2; ...".
func ItemsSummary(items []models.OrderItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%s (%s) x%d", it.Title, it.SKU, it.Quantity))
	}
	return strings.Join(parts, "; ")
}
