package booking

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowdesk/salon-platform/internal/catalog"
	"github.com/glowdesk/salon-platform/internal/customers"
)

type stubCatalog struct {
	services    []catalog.Service
	serviceByID map[uuid.UUID]*catalog.Service
	info        *catalog.TenantInfo
	listErr     error
	byIDErr     error
	infoErr     error
}

func (s *stubCatalog) ListActiveServices(ctx context.Context, tenantID uuid.UUID, limit int) ([]catalog.Service, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	if limit < len(s.services) {
		return s.services[:limit], nil
	}
	return s.services, nil
}

func (s *stubCatalog) ServiceByID(ctx context.Context, tenantID, serviceID uuid.UUID) (*catalog.Service, error) {
	if s.byIDErr != nil {
		return nil, s.byIDErr
	}
	svc, ok := s.serviceByID[serviceID]
	if !ok {
		return nil, catalog.ErrServiceNotFound
	}
	return svc, nil
}

func (s *stubCatalog) TenantInfo(ctx context.Context, tenantID uuid.UUID) (*catalog.TenantInfo, error) {
	if s.infoErr != nil {
		return nil, s.infoErr
	}
	return s.info, nil
}

type stubCustomers struct {
	customer *customers.Customer
	err      error
}

func (s *stubCustomers) Resolve(ctx context.Context, tenantID uuid.UUID, rawPhone string) (*customers.Customer, error) {
	return s.customer, s.err
}

type stubRequests struct {
	created []CreateRequest
	err     error
}

func (s *stubRequests) CreatePending(ctx context.Context, req CreateRequest) (*Request, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = append(s.created, req)
	return &Request{
		ID:          uuid.New(),
		TenantID:    req.TenantID,
		PhoneNumber: req.PhoneNumber,
		Message:     req.Message,
		Status:      StatusPending,
		Source:      SourceChat,
		RequestedAt: time.Now(),
	}, nil
}

type routerFixture struct {
	router    *Router
	catalog   *stubCatalog
	customers *stubCustomers
	requests  *stubRequests
	tenantID  uuid.UUID
	serviceID uuid.UUID
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	serviceID := uuid.New()
	cat := &stubCatalog{
		services: []catalog.Service{
			{ID: serviceID, Name: "Haircut", PriceCents: 50000, DurationMinutes: 45, Active: true},
		},
		serviceByID: map[uuid.UUID]*catalog.Service{
			serviceID: {ID: serviceID, Name: "Haircut", PriceCents: 50000, DurationMinutes: 45, Active: true},
		},
		info: &catalog.TenantInfo{Name: "Glow Salon", Phone: "+911112223334", Address: "12 MG Road"},
	}
	cust := &stubCustomers{}
	reqs := &stubRequests{}
	return &routerFixture{
		router: NewRouter(RouterConfig{
			Catalog:   cat,
			Customers: cust,
			Requests:  reqs,
			Timezone:  time.UTC,
			Now:       func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) },
		}),
		catalog:   cat,
		customers: cust,
		requests:  reqs,
		tenantID:  uuid.New(),
		serviceID: serviceID,
	}
}

func TestHandleGreetingShowsWelcomeMenu(t *testing.T) {
	f := newRouterFixture(t)
	for _, body := range []string{"hi", "Hello", "HEY there", "menu", "help me please", "start"} {
		prompt := f.router.Handle(context.Background(), f.tenantID, TextMessage{From: "+919876543210", Body: body})
		menu, ok := prompt.(ButtonPrompt)
		require.True(t, ok, "greeting %q should yield the welcome menu", body)
		require.Len(t, menu.Buttons, 3)
		assert.Equal(t, ButtonBookAppointment, menu.Buttons[0].ID)
		assert.Contains(t, menu.Body, "Glow Salon")
	}
}

func TestHandleGreetingRequiresWordBoundary(t *testing.T) {
	f := newRouterFixture(t)
	// "history" starts with "hi" but is not a greeting, yet it contains no
	// booking keyword either, so it falls through to the welcome menu.
	prompt := f.router.Handle(context.Background(), f.tenantID, TextMessage{From: "+919876543210", Body: "history"})
	_, ok := prompt.(ButtonPrompt)
	assert.True(t, ok)
	assert.Empty(t, f.requests.created)
}

func TestHandleBookingKeywordPersistsFreeText(t *testing.T) {
	f := newRouterFixture(t)
	f.customers.customer = &customers.Customer{ID: uuid.New(), FullName: "Priya Sharma"}

	prompt := f.router.Handle(context.Background(), f.tenantID, TextMessage{
		From: "+919876543210",
		Body: "Can I book a facial for Saturday?",
	})
	text, ok := prompt.(TextPrompt)
	require.True(t, ok)
	assert.Contains(t, text.Body, "Priya Sharma")

	require.Len(t, f.requests.created, 1)
	created := f.requests.created[0]
	assert.Equal(t, "Can I book a facial for Saturday?", created.Message)
	assert.Nil(t, created.ParsedService)
	assert.Nil(t, created.ParsedDate)
	assert.Nil(t, created.ParsedTime)
	require.NotNil(t, created.ClientID)
	assert.Equal(t, f.customers.customer.ID, *created.ClientID)
}

func TestHandleBookingSubstringMatches(t *testing.T) {
	f := newRouterFixture(t)
	// Substring matching on the booking keywords means "facebook" counts.
	prompt := f.router.Handle(context.Background(), f.tenantID, TextMessage{From: "+919876543210", Body: "saw you on facebook"})
	_, ok := prompt.(TextPrompt)
	assert.True(t, ok)
	assert.Len(t, f.requests.created, 1)
}

func TestHandleUnclassifiedTextShowsMenu(t *testing.T) {
	f := newRouterFixture(t)
	prompt := f.router.Handle(context.Background(), f.tenantID, TextMessage{From: "+919876543210", Body: "what are your prices"})
	_, ok := prompt.(ButtonPrompt)
	assert.True(t, ok)
	assert.Empty(t, f.requests.created)
}

func TestHandleBookButtonListsServices(t *testing.T) {
	f := newRouterFixture(t)
	prompt := f.router.Handle(context.Background(), f.tenantID, ButtonReply{From: "+919876543210", ButtonID: ButtonBookAppointment})
	list, ok := prompt.(ListPrompt)
	require.True(t, ok)
	require.Len(t, list.Sections, 1)
	require.Len(t, list.Sections[0].Rows, 1)
	row := list.Sections[0].Rows[0]
	assert.Equal(t, ServiceToken(f.serviceID.String()), row.ID)
	assert.Equal(t, "Haircut", row.Title)
	assert.Contains(t, row.Description, "₹500")
	assert.Contains(t, row.Description, "45 min")
}

func TestHandleBookButtonEmptyCatalog(t *testing.T) {
	f := newRouterFixture(t)
	f.catalog.services = nil
	prompt := f.router.Handle(context.Background(), f.tenantID, ButtonReply{From: "+919876543210", ButtonID: ButtonBookAppointment})
	text, ok := prompt.(TextPrompt)
	require.True(t, ok)
	assert.Contains(t, text.Body, "don't have any services")
}

func TestHandleViewServicesButton(t *testing.T) {
	f := newRouterFixture(t)
	prompt := f.router.Handle(context.Background(), f.tenantID, ButtonReply{From: "+919876543210", ButtonID: ButtonViewServices})
	text, ok := prompt.(TextPrompt)
	require.True(t, ok)
	assert.Contains(t, text.Body, "Haircut")
	assert.Contains(t, text.Body, "₹500")
}

func TestHandleContactUsButton(t *testing.T) {
	f := newRouterFixture(t)
	prompt := f.router.Handle(context.Background(), f.tenantID, ButtonReply{From: "+919876543210", ButtonID: ButtonContactUs})
	text, ok := prompt.(TextPrompt)
	require.True(t, ok)
	assert.Contains(t, text.Body, "Glow Salon")
	assert.Contains(t, text.Body, "12 MG Road")
}

func TestHandleUnknownButtonIgnored(t *testing.T) {
	f := newRouterFixture(t)
	prompt := f.router.Handle(context.Background(), f.tenantID, ButtonReply{From: "+919876543210", ButtonID: "legacy_promo"})
	assert.Nil(t, prompt)
}

func TestHandleServiceTokenListsDates(t *testing.T) {
	f := newRouterFixture(t)
	prompt := f.router.Handle(context.Background(), f.tenantID, ListReply{
		From:   "+919876543210",
		ListID: ServiceToken(f.serviceID.String()),
	})
	list, ok := prompt.(ListPrompt)
	require.True(t, ok)
	require.Len(t, list.Sections, 1)
	rows := list.Sections[0].Rows
	require.Len(t, rows, 7)
	// Fixture clock is 2026-08-30; first offered date is tomorrow.
	assert.Equal(t, DateToken("2026-08-31", f.serviceID.String()), rows[0].ID)
	assert.Equal(t, DateToken("2026-09-06", f.serviceID.String()), rows[6].ID)
}

func TestHandleDateTokenOffersDayParts(t *testing.T) {
	f := newRouterFixture(t)
	prompt := f.router.Handle(context.Background(), f.tenantID, ListReply{
		From:   "+919876543210",
		ListID: DateToken("2026-09-01", f.serviceID.String()),
	})
	buttons, ok := prompt.(ButtonPrompt)
	require.True(t, ok)
	require.Len(t, buttons.Buttons, 3)
	assert.Equal(t, PeriodToken(PeriodMorning, "2026-09-01", f.serviceID.String()), buttons.Buttons[0].ID)
	assert.Equal(t, PeriodToken(PeriodEvening, "2026-09-01", f.serviceID.String()), buttons.Buttons[2].ID)
}

func TestHandlePeriodButtonTapListsSlots(t *testing.T) {
	f := newRouterFixture(t)
	// Day parts are offered as buttons, so the platform delivers the tap
	// back as a button reply. Replay the prompt's own button id.
	prompt := f.router.Handle(context.Background(), f.tenantID, ListReply{
		From:   "+919876543210",
		ListID: DateToken("2026-09-01", f.serviceID.String()),
	})
	dayParts, ok := prompt.(ButtonPrompt)
	require.True(t, ok)

	prompt = f.router.Handle(context.Background(), f.tenantID, ButtonReply{
		From:     "+919876543210",
		ButtonID: dayParts.Buttons[0].ID,
	})
	list, ok := prompt.(ListPrompt)
	require.True(t, ok, "period button tap should advance to the slot list")
	require.Len(t, list.Sections, 1)
	assert.Equal(t, TimeToken("10:00", "2026-09-01", f.serviceID.String()), list.Sections[0].Rows[0].ID)
}

func TestHandlePeriodTokenListsSlots(t *testing.T) {
	f := newRouterFixture(t)
	prompt := f.router.Handle(context.Background(), f.tenantID, ListReply{
		From:   "+919876543210",
		ListID: PeriodToken(PeriodMorning, "2026-09-01", f.serviceID.String()),
	})
	list, ok := prompt.(ListPrompt)
	require.True(t, ok)
	require.Len(t, list.Sections, 1)
	rows := list.Sections[0].Rows
	require.Len(t, rows, 4)
	assert.Equal(t, TimeToken("10:00", "2026-09-01", f.serviceID.String()), rows[0].ID)
	assert.Equal(t, "11:30 AM", rows[3].Title)
}

func TestHandleTimeTokenCreatesRequest(t *testing.T) {
	f := newRouterFixture(t)
	prompt := f.router.Handle(context.Background(), f.tenantID, ListReply{
		From:        "+919876543210",
		ProfileName: "Priya",
		ListID:      TimeToken("14:30", "2026-09-01", f.serviceID.String()),
	})
	text, ok := prompt.(TextPrompt)
	require.True(t, ok)
	assert.Contains(t, text.Body, "Haircut")
	assert.Contains(t, text.Body, "2:30 PM")
	assert.Contains(t, text.Body, "Priya")

	require.Len(t, f.requests.created, 1)
	created := f.requests.created[0]
	require.NotNil(t, created.ParsedService)
	assert.Equal(t, "Haircut", *created.ParsedService)
	require.NotNil(t, created.ParsedDate)
	assert.Equal(t, "2026-09-01", created.ParsedDate.Format("2006-01-02"))
	require.NotNil(t, created.ParsedTime)
	assert.Equal(t, "14:30", *created.ParsedTime)
	assert.Nil(t, created.ClientID)
	assert.Equal(t, "+919876543210", created.PhoneNumber)
}

func TestHandleTimeTokenServiceGone(t *testing.T) {
	f := newRouterFixture(t)
	gone := uuid.New()
	prompt := f.router.Handle(context.Background(), f.tenantID, ListReply{
		From:   "+919876543210",
		ListID: TimeToken("14:30", "2026-09-01", gone.String()),
	})
	text, ok := prompt.(TextPrompt)
	require.True(t, ok)
	assert.Contains(t, text.Body, "no longer available")
	assert.Empty(t, f.requests.created)
}

func TestHandleStaleTokenIgnored(t *testing.T) {
	f := newRouterFixture(t)
	for _, id := range []string{"", "checkout_cart", "date_notadate_" + f.serviceID.String(), "period_morning_2026-09-01"} {
		prompt := f.router.Handle(context.Background(), f.tenantID, ListReply{From: "+919876543210", ListID: id})
		assert.Nil(t, prompt, "list id %q should be dropped silently", id)
	}
}

func TestHandleStoreFailuresApologize(t *testing.T) {
	f := newRouterFixture(t)
	f.requests.err = errors.New("pg down")
	prompt := f.router.Handle(context.Background(), f.tenantID, ListReply{
		From:   "+919876543210",
		ListID: TimeToken("14:30", "2026-09-01", f.serviceID.String()),
	})
	text, ok := prompt.(TextPrompt)
	require.True(t, ok)
	assert.Contains(t, text.Body, "something went wrong")

	f2 := newRouterFixture(t)
	f2.catalog.listErr = errors.New("pg down")
	prompt = f2.router.Handle(context.Background(), f2.tenantID, ButtonReply{From: "+919876543210", ButtonID: ButtonBookAppointment})
	text, ok = prompt.(TextPrompt)
	require.True(t, ok)
	assert.Contains(t, text.Body, "something went wrong")

	f3 := newRouterFixture(t)
	f3.customers.err = errors.New("pg down")
	prompt = f3.router.Handle(context.Background(), f3.tenantID, TextMessage{From: "+919876543210", Body: "book me in"})
	text, ok = prompt.(TextPrompt)
	require.True(t, ok)
	assert.Contains(t, text.Body, "something went wrong")
}

func TestHandleRepeatedTimeTokenCreatesDuplicateRows(t *testing.T) {
	f := newRouterFixture(t)
	reply := ListReply{From: "+919876543210", ListID: TimeToken("14:30", "2026-09-01", f.serviceID.String())}
	for i := 0; i < 2; i++ {
		prompt := f.router.Handle(context.Background(), f.tenantID, reply)
		_, ok := prompt.(TextPrompt)
		require.True(t, ok)
	}
	assert.Len(t, f.requests.created, 2)
}

func TestWelcomeMenuSurvivesLargeCatalog(t *testing.T) {
	f := newRouterFixture(t)
	f.catalog.services = nil
	for i := 0; i < 25; i++ {
		f.catalog.services = append(f.catalog.services, catalog.Service{
			ID:              uuid.New(),
			Name:            fmt.Sprintf("Service %02d", i),
			PriceCents:      100000,
			DurationMinutes: 30,
			Active:          true,
		})
	}
	prompt := f.router.Handle(context.Background(), f.tenantID, ButtonReply{From: "+919876543210", ButtonID: ButtonBookAppointment})
	list, ok := prompt.(ListPrompt)
	require.True(t, ok)
	assert.LessOrEqual(t, len(list.Sections[0].Rows), MaxRowsPerSection)
}
