package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/epicdreams/storefront-backend/api/routes"
	"github.com/epicdreams/storefront-backend/internal/admin"
	"github.com/epicdreams/storefront-backend/internal/catalog"
	"github.com/epicdreams/storefront-backend/internal/checkout"
	"github.com/epicdreams/storefront-backend/internal/contact"
	"github.com/epicdreams/storefront-backend/internal/discounts"
	"github.com/epicdreams/storefront-backend/internal/email"
	"github.com/epicdreams/storefront-backend/internal/orders"
	"github.com/epicdreams/storefront-backend/internal/settings"
	stripewebhook "github.com/epicdreams/storefront-backend/internal/webhooks/stripe"
	"github.com/epicdreams/storefront-backend/pkg/auth/session"
	"github.com/epicdreams/storefront-backend/pkg/config"
	"github.com/epicdreams/storefront-backend/pkg/db"
	"github.com/epicdreams/storefront-backend/pkg/logger"
	"github.com/epicdreams/storefront-backend/pkg/mailer"
	"github.com/epicdreams/storefront-backend/pkg/metrics"
	"github.com/epicdreams/storefront-backend/pkg/migrate"
	"github.com/epicdreams/storefront-backend/pkg/redis"
	pkgstripe "github.com/epicdreams/storefront-backend/pkg/stripe"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, redisClient.Close())
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	deps, err := buildDependencies(ctx, cfg, logg, dbClient, redisClient, checkoutMetrics)
	if err != nil {
		return err
	}
	deps.Registry = registry

	addr := ":" + cfg.App.Port
	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(logCtx, "starting api server")

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func buildDependencies(
	ctx context.Context,
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	checkoutMetrics *metrics.CheckoutMetrics,
) (routes.Dependencies, error) {
	conn := dbClient.DB()
	deps := routes.Dependencies{
		Database:    dbClient,
		Cache:       redisClient,
		RateLimiter: redisClient,
	}

	sessions, err := session.NewManager(session.NewStore(conn), cfg.JWT)
	if err != nil {
		return deps, err
	}
	deps.Sessions = sessions

	notifier, err := email.NewNotifier(email.NotifierParams{
		Sender:       mailer.New(cfg.SMTP, logg),
		AppURL:       cfg.App.URL,
		ContactInbox: cfg.SMTP.ContactInbox,
	})
	if err != nil {
		return deps, err
	}

	adminSvc, err := admin.NewService(admin.ServiceParams{
		Repo:      admin.NewRepository(conn),
		Tx:        dbClient,
		Sessions:  sessions,
		Notifier:  notifier,
		JWTConfig: cfg.JWT,
		Password:  cfg.Password,
		Admin:     cfg.Admin,
		Logger:    logg,
	})
	if err != nil {
		return deps, err
	}
	deps.Admin = adminSvc

	catalogSvc, err := catalog.NewService(catalog.NewRepository(conn))
	if err != nil {
		return deps, err
	}
	deps.Catalog = catalogSvc
	deps.Products = catalogSvc

	contactSvc, err := contact.NewService(contact.ServiceParams{
		Repo:     contact.NewRepository(conn),
		Notifier: notifier,
		Logger:   logg,
	})
	if err != nil {
		return deps, err
	}
	deps.Contact = contactSvc

	ordersRepo := orders.NewRepository(conn)
	ordersSvc, err := orders.NewService(ordersRepo, logg)
	if err != nil {
		return deps, err
	}
	deps.Orders = ordersSvc

	discountRepo := discounts.NewRepository(conn)
	discountSvc, err := discounts.NewService(discountRepo)
	if err != nil {
		return deps, err
	}
	deps.Discounts = discountSvc

	settingsRepo := settings.NewRepository(conn)
	settingsCache, err := settings.NewCache(settings.CacheParams{
		Store:   settingsRepo,
		Remote:  redisClient,
		TTL:     cfg.Checkout.SettingsCacheTTL,
		Metrics: checkoutMetrics,
		Logger:  logg,
	})
	if err != nil {
		return deps, err
	}
	settingsSvc, err := settings.NewService(settings.ServiceParams{
		Repo:   settingsRepo,
		Cache:  settingsCache,
		Logger: logg,
	})
	if err != nil {
		return deps, err
	}
	deps.Settings = settingsSvc

	stripeClient, err := pkgstripe.NewClient(ctx, cfg.Stripe, logg)
	if err != nil {
		if cfg.App.IsProd() {
			return deps, err
		}
		// checkout and webhooks answer 500 until keys are configured
		logg.Warn(logg.WithField(ctx, "reason", err.Error()), "stripe disabled")
		return deps, nil
	}

	stripeAPI := checkout.NewStripeClient(stripeClient)
	resolver, err := discounts.NewResolver(discounts.ResolverParams{
		Repo:    discountRepo,
		Cache:   settingsCache,
		Client:  stripeAPI,
		Metrics: checkoutMetrics,
	})
	if err != nil {
		return deps, err
	}
	checkoutSvc, err := checkout.NewService(checkout.ServiceParams{
		Variants:  checkout.NewVariantRepository(conn),
		Coupons:   resolver,
		Shipping:  settingsSvc,
		Cache:     settingsCache,
		Stripe:    stripeAPI,
		Config:    cfg.Checkout,
		AppURL:    cfg.App.URL,
		StripeEnv: stripeClient.Environment(),
		Metrics:   checkoutMetrics,
		Logger:    logg,
	})
	if err != nil {
		return deps, err
	}
	deps.Checkout = checkoutSvc

	webhookSvc, err := stripewebhook.NewService(stripewebhook.ServiceParams{
		Orders:            ordersRepo,
		Variants:          checkout.NewVariantRepository(conn),
		Discounts:         discountRepo,
		TransactionRunner: dbClient,
		Metrics:           checkoutMetrics,
		Logger:            logg,
	})
	if err != nil {
		return deps, err
	}
	guard, err := stripewebhook.NewIdempotencyGuard(redisClient, cfg.Stripe.IdempotencyTTL, "stripe")
	if err != nil {
		return deps, err
	}
	deps.StripeWebhooks = webhookSvc
	deps.StripeSigner = stripeClient
	deps.WebhookGuard = guard

	return deps, nil
}
