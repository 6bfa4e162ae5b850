package stripewebhook

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/epicdreams/storefront-backend/internal/checkout"
	"github.com/epicdreams/storefront-backend/internal/discounts"
	"github.com/epicdreams/storefront-backend/internal/orders"
	"github.com/epicdreams/storefront-backend/pkg/db"
	"github.com/epicdreams/storefront-backend/pkg/db/models"
	pkgerrors "github.com/epicdreams/storefront-backend/pkg/errors"
	"github.com/epicdreams/storefront-backend/pkg/logger"
	"github.com/epicdreams/storefront-backend/pkg/metrics"
	"github.com/epicdreams/storefront-backend/pkg/types"
)

var errDuplicateOrder = errors.New("order already recorded")

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type ServiceParams struct {
	Orders            *orders.Repository
	Variants          *checkout.VariantRepository
	Discounts         *discounts.Repository
	TransactionRunner txRunner
	Metrics           *metrics.CheckoutMetrics
	Logger            *logger.Logger
}

// Service turns completed hosted checkouts into orders.
type Service struct {
	orders    *orders.Repository
	variants  *checkout.VariantRepository
	discounts *discounts.Repository
	txRunner  txRunner
	metrics   *metrics.CheckoutMetrics
	logg      *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders repo required")
	}
	if params.Variants == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "variant repo required")
	}
	if params.Discounts == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "discount repo required")
	}
	if params.TransactionRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	return &Service{
		orders:    params.Orders,
		variants:  params.Variants,
		discounts: params.Discounts,
		txRunner:  params.TransactionRunner,
		metrics:   params.Metrics,
		logg:      params.Logger,
	}, nil
}

// completedSession is the subset of the checkout session payload the order
// snapshot needs.
type completedSession struct {
	ID              string            `json:"id"`
	PaymentStatus   string            `json:"payment_status"`
	Currency        string            `json:"currency"`
	AmountSubtotal  int64             `json:"amount_subtotal"`
	AmountTotal     int64             `json:"amount_total"`
	CustomerEmail   string            `json:"customer_email"`
	Metadata        map[string]string `json:"metadata"`
	CustomerDetails *struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"customer_details"`
	TotalDetails *struct {
		AmountDiscount int64 `json:"amount_discount"`
		AmountShipping int64 `json:"amount_shipping"`
		AmountTax      int64 `json:"amount_tax"`
	} `json:"total_details"`
	CollectedInformation *struct {
		ShippingDetails *shippingDetails `json:"shipping_details"`
	} `json:"collected_information"`
	ShippingDetails *shippingDetails `json:"shipping_details"`
}

type shippingDetails struct {
	Name    string        `json:"name"`
	Address types.Address `json:"address"`
}

func (s completedSession) email() string {
	if s.CustomerDetails != nil && s.CustomerDetails.Email != "" {
		return s.CustomerDetails.Email
	}
	return s.CustomerEmail
}

func (s completedSession) shipping() shippingDetails {
	if s.CollectedInformation != nil && s.CollectedInformation.ShippingDetails != nil {
		return *s.CollectedInformation.ShippingDetails
	}
	if s.ShippingDetails != nil {
		return *s.ShippingDetails
	}
	return shippingDetails{}
}

func (s completedSession) paid() bool {
	return s.PaymentStatus == "" || s.PaymentStatus == "paid" || s.PaymentStatus == "no_payment_required"
}

func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted, stripe.EventTypeCheckoutSessionAsyncPaymentSucceeded:
		var sess completedSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode checkout session event")
		}
		if sess.ID == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "checkout session id missing")
		}
		if !sess.paid() {
			// async methods settle later through checkout.session.async_payment_succeeded
			return nil
		}
		return s.ingest(ctx, sess)
	default:
		return nil
	}
}

func (s *Service) ingest(ctx context.Context, sess completedSession) error {
	cart := s.parseCart(ctx, sess)
	var created *models.Order

	err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		orderRepo := s.orders.WithTx(tx)
		variantRepo := s.variants.WithTx(tx)

		existing, err := orderRepo.FindBySessionID(ctx, sess.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return errDuplicateOrder
		}

		items, err := s.snapshotItems(ctx, variantRepo, cart)
		if err != nil {
			return err
		}
		order := buildOrder(sess, items)
		if err := orderRepo.Create(ctx, order); err != nil {
			if db.IsUniqueViolation(err, "") {
				return errDuplicateOrder
			}
			return err
		}

		for _, item := range items {
			if item.VariantID == nil {
				continue
			}
			if err := variantRepo.DecrementInventory(ctx, *item.VariantID, item.Quantity); err != nil {
				return err
			}
		}

		if code := strings.TrimSpace(sess.Metadata[checkout.MetadataDiscount]); code != "" {
			if _, err := s.discounts.WithTx(tx).IncrementUsage(ctx, code); err != nil {
				return err
			}
		}
		created = order
		return nil
	})

	if errors.Is(err, errDuplicateOrder) {
		s.metrics.ObserveOrderIngested(false)
		if s.logg != nil {
			s.logg.Info(s.logg.WithField(ctx, "stripe_session_id", sess.ID), "webhook.stripe.order_duplicate")
		}
		return nil
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record order")
	}

	s.metrics.ObserveOrderIngested(true)
	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"stripe_session_id": sess.ID,
			"order_id":          created.ID,
			"items":             len(created.Items),
			"total_cents":       created.TotalCents,
		})
		s.logg.Info(ctx, "webhook.stripe.order_created")
	}
	return nil
}

// parseCart reads the cart metadata. An unreadable cart still yields an order
// so the payment is not lost.
func (s *Service) parseCart(ctx context.Context, sess completedSession) []checkout.LineItem {
	raw := sess.Metadata[checkout.MetadataCart]
	if raw == "" {
		return nil
	}
	var cart []checkout.LineItem
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "stripe_session_id", sess.ID), "webhook.stripe.cart_unreadable")
		}
		return nil
	}
	return cart
}

func (s *Service) snapshotItems(ctx context.Context, repo *checkout.VariantRepository, cart []checkout.LineItem) ([]models.OrderItem, error) {
	ids := make([]int64, 0, len(cart))
	for _, li := range cart {
		if li.VariantID > 0 && li.Quantity > 0 {
			ids = append(ids, li.VariantID)
		}
	}
	variants, err := repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]models.Variant, len(variants))
	for _, v := range variants {
		byID[v.ID] = v
	}

	items := make([]models.OrderItem, 0, len(cart))
	for _, li := range cart {
		v, ok := byID[li.VariantID]
		if !ok || li.Quantity <= 0 {
			continue
		}
		id := v.ID
		items = append(items, models.OrderItem{
			VariantID:  &id,
			Title:      checkout.LineItemName(v),
			SKU:        v.SKU,
			Quantity:   li.Quantity,
			PriceCents: v.PriceCents,
		})
	}
	return items, nil
}

func buildOrder(sess completedSession, items []models.OrderItem) *models.Order {
	var subtotal int64
	for _, it := range items {
		subtotal += it.PriceCents * it.Quantity
	}
	if sess.AmountSubtotal > 0 {
		subtotal = sess.AmountSubtotal
	}

	order := &models.Order{
		StripeSessionID: sess.ID,
		Email:           strings.ToLower(strings.TrimSpace(sess.email())),
		Status:          models.OrderStatusPaid,
		SubtotalCents:   subtotal,
		TotalCents:      sess.AmountTotal,
		Currency:        strings.ToLower(sess.Currency),
		Items:           items,
	}
	if order.Currency == "" {
		order.Currency = "usd"
	}
	if sess.TotalDetails != nil {
		order.DiscountCents = sess.TotalDetails.AmountDiscount
		order.ShippingCents = sess.TotalDetails.AmountShipping
		order.TaxCents = sess.TotalDetails.AmountTax
	}
	if order.TotalCents == 0 {
		order.TotalCents = subtotal - order.DiscountCents + order.ShippingCents + order.TaxCents
	}
	ship := sess.shipping()
	order.ShippingName = ship.Name
	order.ShippingAddress = ship.Address
	return order
}
