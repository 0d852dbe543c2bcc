package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/glowdesk/salon-platform/internal/catalog"
	"github.com/glowdesk/salon-platform/internal/customers"
	"github.com/glowdesk/salon-platform/internal/observability/metrics"
	"github.com/glowdesk/salon-platform/pkg/logging"
)

// Welcome menu button ids.
const (
	ButtonBookAppointment = "book_appointment"
	ButtonViewServices    = "view_services"
	ButtonContactUs       = "contact_us"
)

// dateChoices is how many calendar days are offered, starting tomorrow.
const dateChoices = 7

// Greeting keywords match as a whole word or word prefix. The booking
// intent check below uses raw substring matching instead; the asymmetry
// mirrors long-standing observable behavior and is kept on purpose.
var greetingKeywords = []string{"hi", "hello", "hey", "start", "menu", "help"}

const (
	apologyBody     = "Sorry, something went wrong on our side. Please try again in a moment."
	noServicesBody  = "Sorry, we don't have any services available to book right now. Please check back soon."
	serviceGoneBody = "Sorry, that service is no longer available. Send \"menu\" to see the current options."
)

// CatalogGateway reads service/staff/tenant reference data.
type CatalogGateway interface {
	ListActiveServices(ctx context.Context, tenantID uuid.UUID, limit int) ([]catalog.Service, error)
	ServiceByID(ctx context.Context, tenantID, serviceID uuid.UUID) (*catalog.Service, error)
	TenantInfo(ctx context.Context, tenantID uuid.UUID) (*catalog.TenantInfo, error)
}

// CustomerResolver matches a raw phone to an existing customer record.
// Returns (nil, nil) for walk-ins.
type CustomerResolver interface {
	Resolve(ctx context.Context, tenantID uuid.UUID, rawPhone string) (*customers.Customer, error)
}

// RequestPersister writes finalized booking intents for staff review.
type RequestPersister interface {
	CreatePending(ctx context.Context, req CreateRequest) (*Request, error)
}

// RouterConfig wires the router's collaborators.
type RouterConfig struct {
	Catalog   CatalogGateway
	Customers CustomerResolver
	Requests  RequestPersister
	Logger    *logging.Logger
	Metrics   *metrics.ChatMetrics
	Timezone  *time.Location
	Now       func() time.Time
}

// Router turns one inbound chat event into one outbound prompt, or into a
// persisted booking request plus its confirmation prompt. It holds no
// per-conversation state: the position in the flow travels inside the
// identifier the user taps. All lookup failures are converted into an
// apology prompt here; nothing propagates to the delivery handler.
type Router struct {
	catalog   CatalogGateway
	customers CustomerResolver
	requests  RequestPersister
	logger    *logging.Logger
	metrics   *metrics.ChatMetrics
	tz        *time.Location
	now       func() time.Time
}

func NewRouter(cfg RouterConfig) *Router {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Timezone == nil {
		cfg.Timezone = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Router{
		catalog:   cfg.Catalog,
		customers: cfg.Customers,
		requests:  cfg.Requests,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
		tz:        cfg.Timezone,
		now:       cfg.Now,
	}
}

// Handle dispatches one inbound event. A nil prompt means the input was
// unrecognized and must be ignored silently.
func (r *Router) Handle(ctx context.Context, tenantID uuid.UUID, ev InboundEvent) Prompt {
	switch ev := ev.(type) {
	case TextMessage:
		return r.handleText(ctx, tenantID, ev)
	case ButtonReply:
		return r.handleButton(ctx, tenantID, ev)
	case ListReply:
		return r.handleList(ctx, tenantID, ev)
	}
	return nil
}

func (r *Router) handleText(ctx context.Context, tenantID uuid.UUID, ev TextMessage) Prompt {
	body := strings.ToLower(strings.TrimSpace(ev.Body))
	if isGreeting(body) {
		return r.welcomeMenu(ctx, tenantID)
	}
	if strings.Contains(body, "book") || strings.Contains(body, "appointment") {
		return r.freeTextRequest(ctx, tenantID, ev)
	}
	return r.welcomeMenu(ctx, tenantID)
}

func (r *Router) handleButton(ctx context.Context, tenantID uuid.UUID, ev ButtonReply) Prompt {
	switch ev.ButtonID {
	case ButtonBookAppointment:
		return r.servicePicker(ctx, tenantID)
	case ButtonViewServices:
		return r.serviceOverview(ctx, tenantID)
	case ButtonContactUs:
		return r.contactCard(ctx, tenantID)
	}
	// The day-part prompt is delivered as buttons, so its tokens come
	// back as button replies rather than list replies.
	return r.handleToken(ctx, tenantID, ev.From, ev.ProfileName, ev.ButtonID)
}

func (r *Router) handleList(ctx context.Context, tenantID uuid.UUID, ev ListReply) Prompt {
	return r.handleToken(ctx, tenantID, ev.From, ev.ProfileName, ev.ListID)
}

// handleToken advances the guided flow one step. The tapped identifier
// carries the whole position, so button and list taps dispatch the same
// way.
func (r *Router) handleToken(ctx context.Context, tenantID uuid.UUID, from, profileName, id string) Prompt {
	tok, ok := ParseToken(id)
	if !ok {
		return nil
	}
	switch tok.Stage {
	case StageService:
		return r.datePicker(tok.ServiceID)
	case StageDate:
		return r.periodPicker(tok)
	case StagePeriod:
		return r.slotPicker(tok)
	case StageTime:
		return r.confirmRequest(ctx, tenantID, from, profileName, tok)
	}
	return nil
}

// welcomeMenu is the START prompt for greetings and anything else we
// cannot classify.
func (r *Router) welcomeMenu(ctx context.Context, tenantID uuid.UUID) Prompt {
	info, err := r.catalog.TenantInfo(ctx, tenantID)
	if err != nil {
		r.logger.Error("tenant info lookup failed", "error", err, "tenant_id", tenantID)
		return TextPrompt{Body: apologyBody}
	}
	return ButtonPrompt{
		Header: info.Name,
		Body:   fmt.Sprintf("Hi! Welcome to %s. How can we help you today?", info.Name),
		Buttons: []Button{
			{ID: ButtonBookAppointment, Title: "Book Appointment"},
			{ID: ButtonViewServices, Title: "View Services"},
			{ID: ButtonContactUs, Title: "Contact Us"},
		},
	}
}

// freeTextRequest records a raw booking intent without entering the
// guided flow. Parsed fields stay empty; staff read the message itself.
func (r *Router) freeTextRequest(ctx context.Context, tenantID uuid.UUID, ev TextMessage) Prompt {
	client, err := r.customers.Resolve(ctx, tenantID, ev.From)
	if err != nil {
		r.logger.Error("customer lookup failed", "error", err, "tenant_id", tenantID)
		return TextPrompt{Body: apologyBody}
	}
	_, err = r.requests.CreatePending(ctx, CreateRequest{
		TenantID:    tenantID,
		ClientID:    clientID(client),
		PhoneNumber: ev.From,
		Message:     ev.Body,
	})
	if err != nil {
		r.logger.Error("create booking request failed", "error", err, "tenant_id", tenantID)
		return TextPrompt{Body: apologyBody}
	}
	r.metrics.ObserveRequestCreated("freetext")
	return TextPrompt{Body: fmt.Sprintf(
		"Thanks%s! We've received your booking request and our team will get back to you shortly to confirm the details.",
		nameSuffix(client, ev.ProfileName),
	)}
}

func (r *Router) servicePicker(ctx context.Context, tenantID uuid.UUID) Prompt {
	services, err := r.catalog.ListActiveServices(ctx, tenantID, MaxRowsPerSection)
	if err != nil {
		r.logger.Error("service list lookup failed", "error", err, "tenant_id", tenantID)
		return TextPrompt{Body: apologyBody}
	}
	if len(services) == 0 {
		return TextPrompt{Body: noServicesBody}
	}
	rows := make([]ListRow, 0, len(services))
	for _, svc := range services {
		rows = append(rows, ListRow{
			ID:          ServiceToken(svc.ID.String()),
			Title:       svc.Name,
			Description: fmt.Sprintf("%s · %d min", formatPrice(svc.PriceCents), svc.DurationMinutes),
		})
	}
	return ListPrompt{
		Header:      "Our Services",
		Body:        "Pick a service to get started.",
		ButtonLabel: "View services",
		Sections:    []ListSection{{Title: "Services", Rows: rows}},
	}
}

func (r *Router) serviceOverview(ctx context.Context, tenantID uuid.UUID) Prompt {
	services, err := r.catalog.ListActiveServices(ctx, tenantID, MaxRowsPerSection)
	if err != nil {
		r.logger.Error("service list lookup failed", "error", err, "tenant_id", tenantID)
		return TextPrompt{Body: apologyBody}
	}
	if len(services) == 0 {
		return TextPrompt{Body: noServicesBody}
	}
	var b strings.Builder
	b.WriteString("Here's what we offer:\n")
	for _, svc := range services {
		fmt.Fprintf(&b, "\n• %s · %s (%d min)", svc.Name, formatPrice(svc.PriceCents), svc.DurationMinutes)
	}
	b.WriteString("\n\nSend \"book\" whenever you're ready.")
	return TextPrompt{Body: b.String()}
}

func (r *Router) contactCard(ctx context.Context, tenantID uuid.UUID) Prompt {
	info, err := r.catalog.TenantInfo(ctx, tenantID)
	if err != nil {
		r.logger.Error("tenant info lookup failed", "error", err, "tenant_id", tenantID)
		return TextPrompt{Body: apologyBody}
	}
	return TextPrompt{Body: fmt.Sprintf("%s\nPhone: %s\nAddress: %s", info.Name, info.Phone, info.Address)}
}

func (r *Router) datePicker(serviceID string) Prompt {
	today := r.now().In(r.tz)
	rows := make([]ListRow, 0, dateChoices)
	for i := 1; i <= dateChoices; i++ {
		day := today.AddDate(0, 0, i)
		rows = append(rows, ListRow{
			ID:          DateToken(day.Format("2006-01-02"), serviceID),
			Title:       day.Format("Mon, Jan 2"),
			Description: day.Format("January 2, 2006"),
		})
	}
	return ListPrompt{
		Header:      "Pick a Date",
		Body:        "Which day works for you?",
		ButtonLabel: "View dates",
		Sections:    []ListSection{{Title: "Next 7 days", Rows: rows}},
	}
}

func (r *Router) periodPicker(tok Token) Prompt {
	return ButtonPrompt{
		Body: fmt.Sprintf("What time of day suits you on %s?", displayDate(tok.Date)),
		Buttons: []Button{
			{ID: PeriodToken(PeriodMorning, tok.Date, tok.ServiceID), Title: "Morning"},
			{ID: PeriodToken(PeriodAfternoon, tok.Date, tok.ServiceID), Title: "Afternoon"},
			{ID: PeriodToken(PeriodEvening, tok.Date, tok.ServiceID), Title: "Evening"},
		},
	}
}

func (r *Router) slotPicker(tok Token) Prompt {
	slots := GenerateSlots(tok.Period, tok.Date, tok.ServiceID)
	if len(slots) == 0 {
		return TextPrompt{Body: apologyBody}
	}
	rows := make([]ListRow, 0, len(slots))
	for _, slot := range slots {
		rows = append(rows, ListRow{ID: slot.ID, Title: slot.Title, Description: slot.Description})
	}
	return ListPrompt{
		Header:      "Available Times",
		Body:        fmt.Sprintf("Times on %s:", displayDate(tok.Date)),
		ButtonLabel: "View times",
		Sections:    []ListSection{{Title: "Slots", Rows: rows}},
	}
}

// confirmRequest is the terminal transition: persist the accumulated
// selections as a PENDING request. Staff confirm or decline it later;
// nothing is auto-booked here.
func (r *Router) confirmRequest(ctx context.Context, tenantID uuid.UUID, from, profileName string, tok Token) Prompt {
	serviceID, err := uuid.Parse(tok.ServiceID)
	if err != nil {
		return TextPrompt{Body: serviceGoneBody}
	}
	svc, err := r.catalog.ServiceByID(ctx, tenantID, serviceID)
	if err != nil {
		if errors.Is(err, catalog.ErrServiceNotFound) {
			return TextPrompt{Body: serviceGoneBody}
		}
		r.logger.Error("service lookup failed", "error", err, "tenant_id", tenantID)
		return TextPrompt{Body: apologyBody}
	}
	client, err := r.customers.Resolve(ctx, tenantID, from)
	if err != nil {
		r.logger.Error("customer lookup failed", "error", err, "tenant_id", tenantID)
		return TextPrompt{Body: apologyBody}
	}
	date, err := time.ParseInLocation("2006-01-02", tok.Date, r.tz)
	if err != nil {
		return nil
	}
	slotTime := tok.Time
	serviceName := svc.Name
	_, err = r.requests.CreatePending(ctx, CreateRequest{
		TenantID:      tenantID,
		ClientID:      clientID(client),
		PhoneNumber:   from,
		Message:       fmt.Sprintf("Booking request for %s on %s at %s", svc.Name, tok.Date, tok.Time),
		ParsedService: &serviceName,
		ParsedDate:    &date,
		ParsedTime:    &slotTime,
	})
	if err != nil {
		r.logger.Error("create booking request failed", "error", err, "tenant_id", tenantID)
		return TextPrompt{Body: apologyBody}
	}
	r.metrics.ObserveRequestCreated("guided")
	return TextPrompt{Body: fmt.Sprintf(
		"You're all set%s! We've noted your request for %s on %s at %s. Our team will confirm your appointment shortly.",
		nameSuffix(client, profileName), svc.Name, displayDate(tok.Date), displayClock(tok.Time),
	)}
}

// isGreeting matches whole keywords only: "help" triggers, "helpful"
// does not.
func isGreeting(body string) bool {
	for _, kw := range greetingKeywords {
		if body == kw || strings.HasPrefix(body, kw+" ") {
			return true
		}
	}
	return false
}

func clientID(c *customers.Customer) *uuid.UUID {
	if c == nil {
		return nil
	}
	id := c.ID
	return &id
}

// nameSuffix yields ", Name" when we know who we're talking to.
func nameSuffix(c *customers.Customer, profileName string) string {
	if c != nil && c.FullName != "" {
		return ", " + c.FullName
	}
	if profileName != "" {
		return ", " + profileName
	}
	return ""
}

func formatPrice(cents int) string {
	if cents%100 == 0 {
		return fmt.Sprintf("₹%d", cents/100)
	}
	return fmt.Sprintf("₹%.2f", float64(cents)/100)
}

func displayDate(date string) string {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return d.Format("Mon, Jan 2")
}

func displayClock(hhmm string) string {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return hhmm
	}
	return t.Format("3:04 PM")
}
