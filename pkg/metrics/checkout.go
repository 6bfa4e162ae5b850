package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records checkout reconciliation outcomes. A nil receiver or
// one built without a registerer is a no-op.
type CheckoutMetrics struct {
	sessions      prometheus.Counter
	emptyCarts    prometheus.Counter
	providerFails *prometheus.CounterVec
	cacheLookups  *prometheus.CounterVec
	orders        *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	sessions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_sessions_created_total",
		Help: "Hosted checkout sessions created.",
	})
	emptyCarts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_empty_carts_total",
		Help: "Checkout requests whose items resolved to no variants.",
	})
	providerFails := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_provider_failures_total",
		Help: "Payment provider calls that failed during checkout.",
	}, []string{"operation"})
	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "settings_cache_lookups_total",
		Help: "Provider object cache lookups by kind and result.",
	}, []string{"kind", "result"})
	orders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_ingested_total",
		Help: "Completed checkout sessions processed by the webhook, by outcome.",
	}, []string{"result"})
	reg.MustRegister(sessions, emptyCarts, providerFails, cacheLookups, orders)
	return &CheckoutMetrics{
		sessions:      sessions,
		emptyCarts:    emptyCarts,
		providerFails: providerFails,
		cacheLookups:  cacheLookups,
		orders:        orders,
	}
}

// IncSessionCreated counts a successfully created checkout session.
func (c *CheckoutMetrics) IncSessionCreated() {
	if c == nil || c.sessions == nil {
		return
	}
	c.sessions.Inc()
}

// IncEmptyCart counts a rejected cart with no valid items.
func (c *CheckoutMetrics) IncEmptyCart() {
	if c == nil || c.emptyCarts == nil {
		return
	}
	c.emptyCarts.Inc()
}

// IncProviderFailure counts a failed provider call (coupon, shipping_rate, session).
func (c *CheckoutMetrics) IncProviderFailure(operation string) {
	if c == nil || c.providerFails == nil {
		return
	}
	c.providerFails.WithLabelValues(normalizeLabel(operation)).Inc()
}

// ObserveCacheLookup records a get-or-create hit or miss.
func (c *CheckoutMetrics) ObserveCacheLookup(kind string, hit bool) {
	if c == nil || c.cacheLookups == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	c.cacheLookups.WithLabelValues(normalizeLabel(kind), result).Inc()
}

// ObserveOrderIngested records a webhook ingestion as "created" or "duplicate".
func (c *CheckoutMetrics) ObserveOrderIngested(created bool) {
	if c == nil || c.orders == nil {
		return
	}
	result := "duplicate"
	if created {
		result = "created"
	}
	c.orders.WithLabelValues(result).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
