package whatsapp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/glowdesk/salon-platform/internal/booking"
	"github.com/glowdesk/salon-platform/internal/observability/metrics"
	"github.com/glowdesk/salon-platform/internal/tenancy"
	"github.com/glowdesk/salon-platform/pkg/logging"
)

// provider tag used for webhook dedup keys.
const provider = "whatsapp"

type conversationRouter interface {
	Handle(ctx context.Context, tenantID uuid.UUID, ev booking.InboundEvent) booking.Prompt
}

type sender interface {
	Send(ctx context.Context, payload *OutboundPayload) (*SendResponse, error)
}

type processedTracker interface {
	MarkProcessed(ctx context.Context, provider, eventID string) (bool, error)
}

type tenantResolver interface {
	Resolve(ctx context.Context, phoneNumberID string) (uuid.UUID, error)
}

// WebhookHandler terminates the Cloud API webhook. Inbound POSTs are
// acknowledged with 200 no matter what happens downstream; a non-2xx
// would make the platform retry and eventually disable the webhook.
type WebhookHandler struct {
	router      conversationRouter
	renderer    *Renderer
	sender      sender
	processed   processedTracker
	tenants     tenantResolver
	verifyToken string
	logger      *logging.Logger
	metrics     *metrics.ChatMetrics
}

type WebhookConfig struct {
	Router      conversationRouter
	Renderer    *Renderer
	Sender      sender
	Processed   processedTracker
	Tenants     tenantResolver
	VerifyToken string
	Logger      *logging.Logger
	Metrics     *metrics.ChatMetrics
}

func NewWebhookHandler(cfg WebhookConfig) *WebhookHandler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Renderer == nil {
		cfg.Renderer = NewRenderer(false)
	}
	return &WebhookHandler{
		router:      cfg.Router,
		renderer:    cfg.Renderer,
		sender:      cfg.Sender,
		processed:   cfg.Processed,
		tenants:     cfg.Tenants,
		verifyToken: cfg.VerifyToken,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
	}
}

// HandleVerify answers the platform's GET subscription handshake.
func (h *WebhookHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mode := q.Get("hub.mode")
	token := q.Get("hub.verify_token")
	challenge := q.Get("hub.challenge")

	if mode == "subscribe" && token != "" && token == h.verifyToken {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(challenge))
		return
	}
	h.logger.Warn("webhook verification rejected", "mode", mode)
	http.Error(w, "verification failed", http.StatusForbidden)
}

// HandleWebhook processes an inbound POST delivery.
func (h *WebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		h.metrics.ObserveWebhookLatency("messages", time.Since(start).Seconds())
	}()

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		h.logger.Error("webhook read failed", "error", err)
		w.WriteHeader(http.StatusOK)
		return
	}

	var env WebhookEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		h.logger.Warn("webhook payload not json", "error", err)
		w.WriteHeader(http.StatusOK)
		return
	}

	for _, inbound := range InboundMessages(env) {
		h.process(r.Context(), inbound)
	}
	w.WriteHeader(http.StatusOK)
}

func (h *WebhookHandler) process(ctx context.Context, inbound Inbound) {
	kind := eventKind(inbound.Event)

	if inbound.MessageID != "" && h.processed != nil {
		fresh, err := h.processed.MarkProcessed(ctx, provider, inbound.MessageID)
		if err != nil {
			// Dedup store trouble must not drop conversations; route anyway.
			h.logger.Error("webhook dedup check failed", "error", err, "message_id", inbound.MessageID)
		} else if !fresh {
			h.metrics.ObserveInbound(kind, "duplicate")
			return
		}
	}

	if h.tenants == nil {
		h.logger.Error("no tenant resolver configured, dropping inbound message", "message_id", inbound.MessageID)
		h.metrics.ObserveInbound(kind, "no_tenant")
		return
	}
	tenantID, err := h.tenants.Resolve(ctx, inbound.PhoneNumberID)
	if err != nil {
		if errors.Is(err, tenancy.ErrNoTenant) {
			h.logger.Warn("webhook for unknown tenant", "phone_number_id", inbound.PhoneNumberID)
		} else {
			h.logger.Error("tenant resolution failed", "error", err)
		}
		h.metrics.ObserveInbound(kind, "no_tenant")
		return
	}
	ctx = tenancy.WithTenantID(ctx, tenantID)

	prompt := h.router.Handle(ctx, tenantID, inbound.Event)
	if prompt == nil {
		h.metrics.ObserveInbound(kind, "ignored")
		return
	}

	payload, err := h.renderer.Render(inbound.Event.Sender(), prompt)
	if err != nil {
		h.logger.Error("prompt render failed", "error", err, "tenant_id", tenantID)
		h.metrics.ObserveInbound(kind, "render_error")
		return
	}

	if h.sender == nil {
		h.logger.Warn("no sender configured, dropping outbound prompt", "tenant_id", tenantID)
		h.metrics.ObserveInbound(kind, "no_sender")
		return
	}
	if _, err := h.sender.Send(ctx, payload); err != nil {
		h.logger.Error("outbound send failed", "error", err, "tenant_id", tenantID)
		h.metrics.ObserveSend(payload.Type, "error")
		h.metrics.ObserveInbound(kind, "send_error")
		return
	}
	h.metrics.ObserveSend(payload.Type, "ok")
	h.metrics.ObserveInbound(kind, "handled")
}

func eventKind(ev booking.InboundEvent) string {
	switch ev.(type) {
	case booking.TextMessage:
		return "text"
	case booking.ButtonReply:
		return "button"
	case booking.ListReply:
		return "list"
	}
	return "unknown"
}
