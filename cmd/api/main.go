package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/glowdesk/salon-platform/internal/api/router"
	"github.com/glowdesk/salon-platform/internal/booking"
	"github.com/glowdesk/salon-platform/internal/catalog"
	appconfig "github.com/glowdesk/salon-platform/internal/config"
	"github.com/glowdesk/salon-platform/internal/customers"
	"github.com/glowdesk/salon-platform/internal/events"
	"github.com/glowdesk/salon-platform/internal/http/handlers"
	httpmiddleware "github.com/glowdesk/salon-platform/internal/http/middleware"
	"github.com/glowdesk/salon-platform/internal/observability/metrics"
	"github.com/glowdesk/salon-platform/internal/tenancy"
	"github.com/glowdesk/salon-platform/internal/whatsapp"
	"github.com/glowdesk/salon-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting salon-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create pgx pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// The staff triage handlers run on database/sql.
	sqlDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open sql db", "error", err)
		os.Exit(1)
	}
	defer func() { _ = sqlDB.Close() }()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer func() { _ = redisClient.Close() }()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not reachable at startup", "error", err, "addr", cfg.RedisAddr)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	chatMetrics := metrics.NewChatMetrics(registry)

	tz, err := time.LoadLocation(cfg.DefaultTimezone)
	if err != nil {
		logger.Warn("invalid timezone, falling back to UTC", "timezone", cfg.DefaultTimezone)
		tz = time.UTC
	}

	var pinnedTenant uuid.UUID
	if cfg.DefaultTenantID != "" {
		pinnedTenant, err = uuid.Parse(cfg.DefaultTenantID)
		if err != nil {
			logger.Error("invalid DEFAULT_TENANT_ID", "error", err)
			os.Exit(1)
		}
	}

	catalogStore := catalog.NewStore(pool)
	customerStore := customers.NewStore(pool, cfg.DefaultCountryPrefix)
	requestStore := booking.NewStore(pool)

	chatRouter := booking.NewRouter(booking.RouterConfig{
		Catalog:   catalogStore,
		Customers: customerStore,
		Requests:  requestStore,
		Logger:    logger,
		Metrics:   chatMetrics,
		Timezone:  tz,
	})

	var waSender *whatsapp.Client
	if cfg.WhatsAppAccessToken != "" && cfg.WhatsAppPhoneNumberID != "" {
		waSender, err = whatsapp.New(whatsapp.Config{
			BaseURL:       cfg.WhatsAppBaseURL,
			AccessToken:   cfg.WhatsAppAccessToken,
			PhoneNumberID: cfg.WhatsAppPhoneNumberID,
			MaxRetries:    2,
			Logger:        logger.Logger,
		})
		if err != nil {
			logger.Error("failed to build whatsapp client", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Warn("whatsapp credentials missing, outbound sends disabled")
	}

	webhookCfg := whatsapp.WebhookConfig{
		Router:      chatRouter,
		Renderer:    whatsapp.NewRenderer(!cfg.IsProduction()),
		Processed:   events.NewProcessedStore(redisClient, cfg.WebhookDedupTTL),
		Tenants:     tenancy.NewResolver(pool, pinnedTenant),
		VerifyToken: cfg.WhatsAppVerifyToken,
		Logger:      logger,
		Metrics:     chatMetrics,
	}
	if waSender != nil {
		webhookCfg.Sender = waSender
	}
	webhookHandler := whatsapp.NewWebhookHandler(webhookCfg)

	routerCfg := &router.Config{
		Logger:           logger,
		Health:           handlers.NewHealthHandler(sqlDB, redisClient, logger),
		WhatsAppWebhook:  webhookHandler,
		AdminRequests:    handlers.NewAdminRequestsHandler(sqlDB, logger),
		AdminCatalog:     handlers.NewAdminCatalogHandler(catalogStore, logger),
		AdminAuthSecret:  cfg.AdminJWTSecret,
		MetricsHandler:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		WebhookRateLimit: httpmiddleware.DefaultWebhookRate,
		WebhookBurst:     httpmiddleware.DefaultWebhookBurst,
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router.New(routerCfg),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
