package settings

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/epicdreams/storefront-backend/pkg/errors"
	"github.com/epicdreams/storefront-backend/pkg/logger"
	"github.com/epicdreams/storefront-backend/pkg/money"
	"github.com/epicdreams/storefront-backend/pkg/types"
)

const (
	KeyShipping       = "shipping"
	KeyTax            = "tax"
	KeyAnalytics      = "analytics"
	KeySetupChecklist = "setup_checklist"

	CouponPrefix   = "coupon:"
	ShippingPrefix = "shipping:"
)

// Fallback shipping amounts in cents when the shipping row is absent or partial.
const (
	DefaultDomesticStandardCents  int64 = 500
	DefaultDomesticExpeditedCents int64 = 1500
	DefaultInternationalFlatCents int64 = 2500
)

// Shipping rate keys cached as shipping:<key>.
const (
	RateUSStandard  = "us_standard"
	RateUSExpedited = "us_expedited"
	RateIntlFlat    = "intl_flat"
)

// ShippingSettings are the flat shipping amounts charged at checkout.
type ShippingSettings struct {
	DomesticStandardCents  int64 `json:"domestic_standard_cents" validate:"gte=0"`
	DomesticExpeditedCents int64 `json:"domestic_expedited_cents" validate:"gte=0"`
	InternationalFlatCents int64 `json:"international_flat_cents" validate:"gte=0"`
}

// TaxSettings carries the storefront tax toggle. DefaultRatePercent is exact.
type TaxSettings struct {
	Enabled            bool            `json:"enabled"`
	DefaultRatePercent decimal.Decimal `json:"default_rate_percent"`
}

// AnalyticsSettings selects the client-side analytics provider.
type AnalyticsSettings struct {
	Provider         string `json:"provider"`
	PlausibleDomain  string `json:"plausible_domain"`
	GA4MeasurementID string `json:"ga4_measurement_id"`
}

var readableKeys = map[string]struct{}{
	KeyShipping:       {},
	KeyTax:            {},
	KeyAnalytics:      {},
	KeySetupChecklist: {},
}

type serviceStore interface {
	store
	Upsert(ctx context.Context, key string, value types.JSONMap) error
	DeleteByPrefix(ctx context.Context, prefix string) ([]string, error)
}

type ServiceParams struct {
	Repo   serviceStore
	Cache  *Cache
	Logger *logger.Logger
}

// Service reads and writes the admin-editable setting documents.
type Service struct {
	repo  serviceStore
	cache *Cache
	logg  *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "settings repo required")
	}
	return &Service{
		repo:  params.Repo,
		cache: params.Cache,
		logg:  params.Logger,
	}, nil
}

// Get returns the raw document stored under one of the admin-readable keys.
func (s *Service) Get(ctx context.Context, key string) (types.JSONMap, error) {
	key = strings.TrimSpace(key)
	if _, ok := readableKeys[key]; !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "setting not found")
	}
	row, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load setting")
	}
	if row == nil {
		return types.JSONMap{}, nil
	}
	return row.Value, nil
}

// Shipping returns the shipping amounts, filling gaps with the defaults.
func (s *Service) Shipping(ctx context.Context) (ShippingSettings, error) {
	out := ShippingSettings{
		DomesticStandardCents:  DefaultDomesticStandardCents,
		DomesticExpeditedCents: DefaultDomesticExpeditedCents,
		InternationalFlatCents: DefaultInternationalFlatCents,
	}
	row, err := s.repo.FindByKey(ctx, KeyShipping)
	if err != nil {
		return out, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load shipping settings")
	}
	if row == nil {
		return out, nil
	}
	if v, ok := centsField(row.Value, "domestic_standard_cents"); ok {
		out.DomesticStandardCents = v
	}
	if v, ok := centsField(row.Value, "domestic_expedited_cents"); ok {
		out.DomesticExpeditedCents = v
	}
	if v, ok := centsField(row.Value, "international_flat_cents"); ok {
		out.InternationalFlatCents = v
	}
	return out, nil
}

// UpdateShipping stores new amounts and drops every cached shipping rate so
// the next checkout creates rates at the new prices.
func (s *Service) UpdateShipping(ctx context.Context, in ShippingSettings) (ShippingSettings, error) {
	if in.DomesticStandardCents < 0 || in.DomesticExpeditedCents < 0 || in.InternationalFlatCents < 0 {
		return ShippingSettings{}, pkgerrors.New(pkgerrors.CodeValidation, "shipping amounts must be non-negative")
	}
	value := types.JSONMap{
		"domestic_standard_cents":  in.DomesticStandardCents,
		"domestic_expedited_cents": in.DomesticExpeditedCents,
		"international_flat_cents": in.InternationalFlatCents,
	}
	if err := s.repo.Upsert(ctx, KeyShipping, value); err != nil {
		return ShippingSettings{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save shipping settings")
	}

	removed, err := s.repo.DeleteByPrefix(ctx, ShippingPrefix)
	if err != nil {
		return ShippingSettings{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "invalidate shipping rates")
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, ShippingCacheKey(RateUSStandard), ShippingCacheKey(RateUSExpedited), ShippingCacheKey(RateIntlFlat))
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "invalidated", len(removed)), "settings.shipping.updated")
	}
	return in, nil
}

// Tax returns the tax toggle. A missing row means tax disabled at 0%.
func (s *Service) Tax(ctx context.Context) (TaxSettings, error) {
	row, err := s.repo.FindByKey(ctx, KeyTax)
	if err != nil {
		return TaxSettings{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load tax settings")
	}
	if row == nil {
		return TaxSettings{DefaultRatePercent: decimal.Zero}, nil
	}
	enabled, _ := row.Value["enabled"].(bool)
	rate, err := money.ParsePercent(row.Value["default_rate_percent"])
	if err != nil {
		return TaxSettings{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parse tax rate")
	}
	return TaxSettings{Enabled: enabled, DefaultRatePercent: rate}, nil
}

// Analytics returns the analytics provider selection.
func (s *Service) Analytics(ctx context.Context) (AnalyticsSettings, error) {
	row, err := s.repo.FindByKey(ctx, KeyAnalytics)
	if err != nil {
		return AnalyticsSettings{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load analytics settings")
	}
	if row == nil {
		return AnalyticsSettings{}, nil
	}
	out := AnalyticsSettings{}
	out.Provider, _ = row.Value["provider"].(string)
	out.PlausibleDomain, _ = row.Value["plausible_domain"].(string)
	out.GA4MeasurementID, _ = row.Value["ga4_measurement_id"].(string)
	return out, nil
}

func CouponCacheKey(code string) string {
	return CouponPrefix + code
}

func ShippingCacheKey(rate string) string {
	return ShippingPrefix + rate
}

func centsField(m types.JSONMap, key string) (int64, bool) {
	switch v := m[key].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return 0, false
		}
		return d.IntPart(), true
	default:
		return 0, false
	}
}

