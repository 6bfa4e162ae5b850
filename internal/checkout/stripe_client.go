package checkout

import (
	"context"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/checkout/session"
	"github.com/stripe/stripe-go/v84/coupon"
	"github.com/stripe/stripe-go/v84/shippingrate"

	pkgstripe "github.com/epicdreams/storefront-backend/pkg/stripe"
)

// StripeClient exposes the Stripe operations checkout reconciliation needs.
type StripeClient interface {
	NewCoupon(ctx context.Context, params *stripe.CouponParams) (*stripe.Coupon, error)
	NewShippingRate(ctx context.Context, params *stripe.ShippingRateParams) (*stripe.ShippingRate, error)
	NewSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type stripeClientWrapper struct{}

// NewStripeClient wraps the initialized Stripe client so checkout can be tested.
func NewStripeClient(api *pkgstripe.Client) StripeClient {
	if api == nil {
		return nil
	}
	return &stripeClientWrapper{}
}

func (w *stripeClientWrapper) NewCoupon(ctx context.Context, params *stripe.CouponParams) (*stripe.Coupon, error) {
	if params != nil {
		params.Context = ctx
	}
	return coupon.New(params)
}

func (w *stripeClientWrapper) NewShippingRate(ctx context.Context, params *stripe.ShippingRateParams) (*stripe.ShippingRate, error) {
	if params != nil {
		params.Context = ctx
	}
	return shippingrate.New(params)
}

func (w *stripeClientWrapper) NewSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	if params != nil {
		params.Context = ctx
	}
	return session.New(params)
}
