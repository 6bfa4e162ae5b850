package discounts

import (
	"context"
	"strings"

	"github.com/stripe/stripe-go/v84"

	"github.com/epicdreams/storefront-backend/internal/settings"
	"github.com/epicdreams/storefront-backend/pkg/db/models"
	pkgerrors "github.com/epicdreams/storefront-backend/pkg/errors"
	"github.com/epicdreams/storefront-backend/pkg/metrics"
)

// CouponClient creates provider coupons.
type CouponClient interface {
	NewCoupon(ctx context.Context, params *stripe.CouponParams) (*stripe.Coupon, error)
}

type codeFinder interface {
	FindByCode(ctx context.Context, code string) (*models.Discount, error)
}

type couponCache interface {
	GetOrCreate(ctx context.Context, key string, create settings.Factory) (string, error)
}

type ResolverParams struct {
	Repo    codeFinder
	Cache   couponCache
	Client  CouponClient
	Metrics *metrics.CheckoutMetrics
}

// Resolver maps storefront discount codes to provider coupon ids.
type Resolver struct {
	repo    codeFinder
	cache   couponCache
	client  CouponClient
	metrics *metrics.CheckoutMetrics
}

func NewResolver(params ResolverParams) (*Resolver, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "discount repo required")
	}
	if params.Cache == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "settings cache required")
	}
	if params.Client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "coupon client required")
	}
	return &Resolver{
		repo:    params.Repo,
		cache:   params.Cache,
		client:  params.Client,
		metrics: params.Metrics,
	}, nil
}

// GetOrCreateCoupon returns the provider coupon id for code. Unknown codes
// yield an empty id and no error.
func (r *Resolver) GetOrCreateCoupon(ctx context.Context, code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", nil
	}
	discount, err := r.repo.FindByCode(ctx, code)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load discount")
	}
	if discount == nil {
		return "", nil
	}
	return r.cache.GetOrCreate(ctx, settings.CouponCacheKey(code), func(ctx context.Context) (string, error) {
		coupon, err := r.client.NewCoupon(ctx, CouponParams(discount))
		if err != nil {
			r.metrics.IncProviderFailure("coupon")
			return "", pkgerrors.Wrap(pkgerrors.CodePaymentProvider, err, "create coupon")
		}
		return coupon.ID, nil
	})
}

// CouponParams builds a single-use USD coupon mirroring discount.
func CouponParams(discount *models.Discount) *stripe.CouponParams {
	params := &stripe.CouponParams{
		Name:     stripe.String(discount.Code),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		Duration: stripe.String(string(stripe.CouponDurationOnce)),
	}
	switch discount.Type {
	case models.DiscountTypePercentage:
		params.PercentOff = stripe.Float64(float64(discount.Value))
	case models.DiscountTypeFixed:
		params.AmountOff = stripe.Int64(discount.Value)
	}
	return params
}
