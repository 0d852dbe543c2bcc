package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/glowdesk/salon-platform/internal/http/handlers"
	httpmiddleware "github.com/glowdesk/salon-platform/internal/http/middleware"
	"github.com/glowdesk/salon-platform/internal/whatsapp"
	"github.com/glowdesk/salon-platform/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger          *logging.Logger
	Health          *handlers.HealthHandler
	WhatsAppWebhook *whatsapp.WebhookHandler
	AdminRequests   *handlers.AdminRequestsHandler
	AdminCatalog    *handlers.AdminCatalogHandler
	AdminAuthSecret string
	MetricsHandler  http.Handler

	// Requests/sec and burst for the public webhook route. Zero disables
	// rate limiting.
	WebhookRateLimit float64
	WebhookBurst     int
}

// New creates a chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints (webhooks, health checks)
	r.Group(func(public chi.Router) {
		if cfg.Health != nil {
			public.Get("/health", cfg.Health.Live)
			public.Get("/health/ready", cfg.Health.Ready)
		}
		if cfg.WhatsAppWebhook != nil {
			public.Route("/webhooks/whatsapp", func(wh chi.Router) {
				if cfg.WebhookRateLimit > 0 {
					wh.Use(httpmiddleware.RateLimit(cfg.WebhookRateLimit, cfg.WebhookBurst))
				}
				wh.Get("/", cfg.WhatsAppWebhook.HandleVerify)
				wh.Post("/", cfg.WhatsAppWebhook.HandleWebhook)
			})
		}
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Staff triage routes, JWT-protected.
	if cfg.AdminAuthSecret != "" {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.StaffJWT(cfg.AdminAuthSecret))
			admin.Route("/tenants/{tenantID}", func(tenant chi.Router) {
				if cfg.AdminRequests != nil {
					tenant.Get("/booking-requests", cfg.AdminRequests.ListBookingRequests)
					tenant.Post("/booking-requests/{requestID}/respond", cfg.AdminRequests.RespondBookingRequest)
				}
				if cfg.AdminCatalog != nil {
					tenant.Get("/catalog", cfg.AdminCatalog.GetCatalog)
				}
			})
		})
	}

	return r
}
