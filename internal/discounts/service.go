package discounts

import (
	"context"
	"strings"
	"time"

	"github.com/epicdreams/storefront-backend/pkg/db"
	"github.com/epicdreams/storefront-backend/pkg/db/models"
	pkgerrors "github.com/epicdreams/storefront-backend/pkg/errors"
)

// CreateInput is the admin payload for a new discount code.
type CreateInput struct {
	Code       string     `json:"code" validate:"required"`
	Type       string     `json:"type" validate:"required,oneof=percentage fixed"`
	Value      int64      `json:"value" validate:"required,gt=0"`
	StartsAt   *time.Time `json:"starts_at"`
	EndsAt     *time.Time `json:"ends_at"`
	UsageLimit *int       `json:"usage_limit" validate:"omitempty,gt=0"`
}

type adminStore interface {
	List(ctx context.Context) ([]models.Discount, error)
	Create(ctx context.Context, discount *models.Discount) error
}

// Service backs the admin discount views.
type Service struct {
	repo adminStore
}

func NewService(repo adminStore) (*Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "discount repo required")
	}
	return &Service{repo: repo}, nil
}

func (s *Service) List(ctx context.Context) ([]models.Discount, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list discounts")
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Discount, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}
	discount := &models.Discount{
		Code:       strings.TrimSpace(in.Code),
		Type:       models.DiscountType(in.Type),
		Value:      in.Value,
		StartsAt:   in.StartsAt,
		EndsAt:     in.EndsAt,
		UsageLimit: in.UsageLimit,
	}
	if err := s.repo.Create(ctx, discount); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "discount code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create discount")
	}
	return discount, nil
}

func validateCreate(in CreateInput) error {
	details := map[string]string{}
	code := strings.TrimSpace(in.Code)
	switch {
	case code == "":
		details["code"] = "is required"
	case strings.ContainsAny(code, " \t\n"):
		details["code"] = "must not contain spaces"
	}

	kind := models.DiscountType(in.Type)
	if !kind.Valid() {
		details["type"] = "must be percentage or fixed"
	}
	if in.Value <= 0 {
		details["value"] = "must be greater than 0"
	} else if kind == models.DiscountTypePercentage && in.Value > 100 {
		details["value"] = "must be at most 100 for percentage discounts"
	}
	if in.StartsAt != nil && in.EndsAt != nil && !in.EndsAt.After(*in.StartsAt) {
		details["ends_at"] = "must be after starts_at"
	}
	if in.UsageLimit != nil && *in.UsageLimit <= 0 {
		details["usage_limit"] = "must be greater than 0"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid discount").WithDetails(details)
	}
	return nil
}
