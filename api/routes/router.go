package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/epicdreams/storefront-backend/api/controllers"
	webhookcontrollers "github.com/epicdreams/storefront-backend/api/controllers/webhooks"
	"github.com/epicdreams/storefront-backend/api/middleware"
	"github.com/epicdreams/storefront-backend/pkg/auth/session"
	"github.com/epicdreams/storefront-backend/pkg/config"
	"github.com/epicdreams/storefront-backend/pkg/logger"
	"github.com/epicdreams/storefront-backend/pkg/metrics"
)

// Dependencies are the collaborators the router hands to controllers. Nil
// services answer with an internal error; a nil RateLimiter disables the auth
// rate limits and a nil Cache is skipped by the readiness probe.
type Dependencies struct {
	Database    controllers.Pinger
	Cache       controllers.Pinger
	RateLimiter middleware.RateLimitStore
	Sessions    session.Checker

	Admin     controllers.AdminAuthService
	Catalog   controllers.CatalogService
	Products  controllers.AdminProductService
	Checkout  controllers.CheckoutService
	Contact   controllers.ContactService
	Orders    controllers.AdminOrderService
	Discounts controllers.AdminDiscountService
	Settings  controllers.AdminSettingsService

	StripeWebhooks webhookcontrollers.StripeWebhookService
	StripeSigner   webhookcontrollers.StripeSigner
	WebhookGuard   webhookcontrollers.StripeWebhookGuard

	// Registry backs /metrics and the HTTP histograms. Nil uses a private
	// registry so tests can build many routers.
	Registry *prometheus.Registry
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	registry := deps.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	httpMetrics := metrics.NewHTTPMetrics(registry)

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Recoverer(logg),
		middleware.CORS(cfg.App.AllowedOrigins),
		middleware.Metrics(httpMetrics),
	)

	loginPolicy, forgotPolicy, contactPolicy := middleware.PoliciesFromConfig(cfg.AuthRateLimit)
	limit := func(policy middleware.AuthRateLimitPolicy) func(http.Handler) http.Handler {
		return middleware.AuthRateLimit(policy, deps.RateLimiter, logg)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.Database, deps.Cache, logg))
	})
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/stripe", webhookcontrollers.StripeWebhook(deps.StripeWebhooks, deps.StripeSigner, deps.WebhookGuard, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/checkout", controllers.Checkout(deps.Checkout, logg))
		r.With(limit(contactPolicy)).Post("/contact", controllers.Contact(deps.Contact, logg))

		r.Get("/store/products", controllers.StoreProducts(deps.Catalog, logg))
		r.Get("/store/products/{slug}", controllers.StoreProduct(deps.Catalog, logg))
		r.Get("/collections", controllers.Collections(deps.Catalog, logg))
		r.Get("/artists", controllers.Artists(deps.Catalog, logg))
		r.Get("/artists/{slug}", controllers.Artist(deps.Catalog, logg))
		r.Get("/releases/{slug}", controllers.Release(deps.Catalog, logg))
		r.Get("/posts", controllers.Posts(deps.Catalog, logg))
		r.Get("/posts/{slug}", controllers.Post(deps.Catalog, logg))

		r.Route("/admin", func(r chi.Router) {
			r.Post("/setup", controllers.AdminSetup(deps.Admin, logg))
			r.With(limit(loginPolicy)).Post("/login", controllers.AdminLogin(deps.Admin, cfg.JWT, logg))
			r.Post("/logout", controllers.AdminLogout(deps.Admin, cfg.JWT, logg))
			r.With(limit(forgotPolicy)).Post("/forgot-password", controllers.AdminForgotPassword(deps.Admin, logg))
			r.Get("/reset-password", controllers.AdminValidateResetToken(deps.Admin, logg))
			r.Post("/reset-password", controllers.AdminResetPassword(deps.Admin, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminAuth(cfg.JWT, deps.Sessions, logg))

				r.Get("/me", controllers.AdminMe(deps.Admin, logg))
				r.Post("/change-password", controllers.AdminChangePassword(deps.Admin, logg))

				r.Route("/orders", func(r chi.Router) {
					r.Get("/", controllers.AdminOrders(deps.Orders, logg))
					r.Get("/export.csv", controllers.AdminOrdersExport(deps.Orders, logg))
					r.Patch("/{id}", controllers.AdminOrderUpdateStatus(deps.Orders, logg))
				})
				r.Get("/discounts", controllers.AdminDiscounts(deps.Discounts, logg))
				r.Post("/discounts", controllers.AdminCreateDiscount(deps.Discounts, logg))
				r.Get("/products", controllers.AdminProducts(deps.Products, logg))
				r.Post("/products/{id}/variants", controllers.AdminCreateVariant(deps.Products, logg))

				r.Route("/settings", func(r chi.Router) {
					r.Get("/shipping", controllers.AdminShippingSettings(deps.Settings, logg))
					r.Put("/shipping", controllers.AdminUpdateShippingSettings(deps.Settings, logg))
					r.Get("/{key}", controllers.AdminSetting(deps.Settings, logg))
				})
			})
		})
	})

	return r
}
