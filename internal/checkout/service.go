package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/stripe/stripe-go/v84"

	"github.com/epicdreams/storefront-backend/internal/settings"
	"github.com/epicdreams/storefront-backend/pkg/config"
	"github.com/epicdreams/storefront-backend/pkg/db/models"
	pkgerrors "github.com/epicdreams/storefront-backend/pkg/errors"
	"github.com/epicdreams/storefront-backend/pkg/logger"
	"github.com/epicdreams/storefront-backend/pkg/metrics"
)

const currency = "usd"

// Metadata keys written on the hosted session and read back by the webhook.
const (
	MetadataCart      = "cart"
	MetadataDiscount  = "discount"
	MetadataVariantID = "variantId"
)

// LineItem is a cart entry as submitted by the client. There is no price
// field; prices always come from the variant row. Display fields the cart
// sends along (title, image, price) are ignored on decode.
type LineItem struct {
	VariantID int64 `json:"variantId"`
	Quantity  int64 `json:"quantity" validate:"required,gte=1"`
}

// Request is the checkout payload. Discount codes are matched exactly.
type Request struct {
	Items    []LineItem `json:"items" validate:"required,dive"`
	Discount string     `json:"discount,omitempty"`
}

// maxDiscountCodeLen bounds the codes worth looking up; longer ones cannot
// exist and apply no discount.
const maxDiscountCodeLen = 64

// Session is the hosted checkout the client is redirected to.
type Session struct {
	URL string `json:"url"`
	ID  string `json:"id"`
}

type variantLoader interface {
	FindByIDs(ctx context.Context, ids []int64) ([]models.Variant, error)
}

type couponResolver interface {
	GetOrCreateCoupon(ctx context.Context, code string) (string, error)
}

type shippingSource interface {
	Shipping(ctx context.Context) (settings.ShippingSettings, error)
}

type rateCache interface {
	GetOrCreate(ctx context.Context, key string, create settings.Factory) (string, error)
}

type ServiceParams struct {
	Variants  variantLoader
	Coupons   couponResolver
	Shipping  shippingSource
	Cache     rateCache
	Stripe    StripeClient
	Config    config.CheckoutConfig
	AppURL    string
	StripeEnv string
	Metrics   *metrics.CheckoutMetrics
	Logger    *logger.Logger
}

// Service reconciles client carts into Stripe hosted checkout sessions.
type Service struct {
	variants  variantLoader
	coupons   couponResolver
	shipping  shippingSource
	cache     rateCache
	stripe    StripeClient
	cfg       config.CheckoutConfig
	appURL    string
	stripeEnv string
	metrics   *metrics.CheckoutMetrics
	logg      *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Variants == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "variant loader required")
	}
	if params.Coupons == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "coupon resolver required")
	}
	if params.Shipping == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "shipping settings required")
	}
	if params.Cache == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "settings cache required")
	}
	if params.Stripe == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "stripe client required")
	}
	appURL := strings.TrimRight(strings.TrimSpace(params.AppURL), "/")
	if appURL == "" {
		appURL = "http://localhost:3000"
	}
	return &Service{
		variants:  params.Variants,
		coupons:   params.Coupons,
		shipping:  params.Shipping,
		cache:     params.Cache,
		stripe:    params.Stripe,
		cfg:       params.Config,
		appURL:    appURL,
		stripeEnv: params.StripeEnv,
		metrics:   params.Metrics,
		logg:      params.Logger,
	}, nil
}

// CreateSession validates the cart, prices it from stored variants and opens
// a hosted checkout session. Entries for unknown variants are dropped; an
// unknown discount code applies no discount.
func (s *Service) CreateSession(ctx context.Context, req Request) (*Session, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if s.logg != nil && s.stripeEnv != "" {
		ctx = s.logg.WithField(ctx, "stripe_env", s.stripeEnv)
	}

	lineItems, err := s.buildLineItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	if len(lineItems) == 0 {
		s.metrics.IncEmptyCart()
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "No valid items")
	}

	cartJSON, err := json.Marshal(req.Items)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart metadata")
	}
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(s.appURL + "/cart?success=1"),
		CancelURL:  stripe.String(s.appURL + "/cart?cancel=1"),
		LineItems:  lineItems,
		Metadata:   map[string]string{MetadataCart: string(cartJSON)},
		ShippingAddressCollection: &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice(s.allowedCountries()),
		},
		AutomaticTax: &stripe.CheckoutSessionAutomaticTaxParams{
			Enabled: stripe.Bool(s.cfg.AutomaticTax),
		},
	}

	if code := req.Discount; code != "" && len(code) <= maxDiscountCodeLen {
		couponID, err := s.coupons.GetOrCreateCoupon(ctx, code)
		if err != nil {
			s.logProviderFailure(ctx, "coupon", err)
			return nil, err
		}
		if couponID != "" {
			params.Discounts = []*stripe.CheckoutSessionDiscountParams{{Coupon: stripe.String(couponID)}}
			params.Metadata[MetadataDiscount] = code
		}
	}

	options, err := s.shippingOptions(ctx)
	if err != nil {
		return nil, err
	}
	params.ShippingOptions = options

	sess, err := s.stripe.NewSession(ctx, params)
	if err != nil {
		s.metrics.IncProviderFailure("session")
		wrapped := pkgerrors.Wrap(pkgerrors.CodePaymentProvider, err, "create checkout session")
		s.logProviderFailure(ctx, "session", wrapped)
		return nil, wrapped
	}

	s.metrics.IncSessionCreated()
	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"session_id": sess.ID,
			"line_items": len(lineItems),
			"discount":   params.Metadata[MetadataDiscount],
		})
		s.logg.Info(logCtx, "checkout.session.created")
	}
	return &Session{URL: sess.URL, ID: sess.ID}, nil
}

func (s *Service) buildLineItems(ctx context.Context, items []LineItem) ([]*stripe.CheckoutSessionLineItemParams, error) {
	ids := make([]int64, 0, len(items))
	seen := make(map[int64]struct{}, len(items))
	for _, item := range items {
		if item.VariantID < 1 {
			continue
		}
		if _, ok := seen[item.VariantID]; ok {
			continue
		}
		seen[item.VariantID] = struct{}{}
		ids = append(ids, item.VariantID)
	}

	variants, err := s.variants.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load variants")
	}
	byID := make(map[int64]models.Variant, len(variants))
	for _, v := range variants {
		byID[v.ID] = v
	}

	out := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items))
	for _, item := range items {
		variant, ok := byID[item.VariantID]
		if !ok {
			continue
		}
		out = append(out, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(item.Quantity),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(currency),
				UnitAmount: stripe.Int64(variant.PriceCents),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:     stripe.String(LineItemName(variant)),
					Metadata: map[string]string{MetadataVariantID: strconv.FormatInt(variant.ID, 10)},
				},
			},
		})
	}
	return out, nil
}

type shippingOption struct {
	key    string
	name   string
	amount int64
}

func (s *Service) shippingOptions(ctx context.Context) ([]*stripe.CheckoutSessionShippingOptionParams, error) {
	amounts, err := s.shipping.Shipping(ctx)
	if err != nil {
		return nil, err
	}
	options := []shippingOption{
		{key: settings.RateUSStandard, name: "US Standard", amount: amounts.DomesticStandardCents},
		{key: settings.RateUSExpedited, name: "US Expedited", amount: amounts.DomesticExpeditedCents},
		{key: settings.RateIntlFlat, name: "International Flat", amount: amounts.InternationalFlatCents},
	}

	out := make([]*stripe.CheckoutSessionShippingOptionParams, 0, len(options))
	for _, opt := range options {
		rateID, err := s.getOrCreateShippingRate(ctx, opt)
		if err != nil {
			s.logProviderFailure(ctx, "shipping_rate", err)
			return nil, err
		}
		out = append(out, &stripe.CheckoutSessionShippingOptionParams{ShippingRate: stripe.String(rateID)})
	}
	return out, nil
}

func (s *Service) getOrCreateShippingRate(ctx context.Context, opt shippingOption) (string, error) {
	return s.cache.GetOrCreate(ctx, settings.ShippingCacheKey(opt.key), func(ctx context.Context) (string, error) {
		rate, err := s.stripe.NewShippingRate(ctx, ShippingRateParams(opt.name, opt.amount))
		if err != nil {
			s.metrics.IncProviderFailure("shipping_rate")
			return "", pkgerrors.Wrap(pkgerrors.CodePaymentProvider, err, "create shipping rate")
		}
		return rate.ID, nil
	})
}

// ShippingRateParams builds a fixed-amount USD shipping rate.
func ShippingRateParams(displayName string, amount int64) *stripe.ShippingRateParams {
	return &stripe.ShippingRateParams{
		DisplayName: stripe.String(displayName),
		Type:        stripe.String(string(stripe.ShippingRateTypeFixedAmount)),
		FixedAmount: &stripe.ShippingRateFixedAmountParams{
			Amount:   stripe.Int64(amount),
			Currency: stripe.String(currency),
		},
	}
}

// LineItemName joins the product title and variant name for display.
func LineItemName(v models.Variant) string {
	title := ""
	if v.Product != nil {
		title = v.Product.Title
	}
	return fmt.Sprintf("%s — %s", title, v.Name)
}

func (s *Service) allowedCountries() []string {
	if len(s.cfg.AllowedCountries) == 0 {
		return []string{"US", "CA", "GB", "AU"}
	}
	out := make([]string, 0, len(s.cfg.AllowedCountries))
	for _, c := range s.cfg.AllowedCountries {
		if c = strings.ToUpper(strings.TrimSpace(c)); c != "" {
			out = append(out, c)
		}
	}
	return out
}

func (s *Service) logProviderFailure(ctx context.Context, op string, err error) {
	if s.logg == nil {
		return
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodePaymentProvider {
		return
	}
	fields := map[string]any{"operation": op}
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		fields["stripe_code"] = string(stripeErr.Code)
		fields["stripe_request_id"] = stripeErr.RequestID
		fields["stripe_status"] = stripeErr.HTTPStatusCode
	}
	s.logg.Error(s.logg.WithFields(ctx, fields), "checkout.provider.failed", err)
}

func validateRequest(req Request) error {
	if req.Items == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "Invalid payload").
			WithDetails(map[string]string{"items": "is required"})
	}
	details := map[string]string{}
	for i, item := range req.Items {
		if item.Quantity < 1 {
			details[fmt.Sprintf("items[%d].quantity", i)] = "must be at least 1"
		}
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "Invalid payload").WithDetails(details)
	}
	return nil
}
