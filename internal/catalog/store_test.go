package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestListActiveServicesOrdersByName(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	store := &Store{pool: mock}
	tenantID := uuid.New()
	mock.ExpectQuery("SELECT id, tenant_id, name, price_cents, duration_minutes, active").
		WithArgs(tenantID, 10).
		WillReturnRows(pgxmock.NewRows([]string{"id", "tenant_id", "name", "price_cents", "duration_minutes", "active"}).
			AddRow(uuid.New(), tenantID, "Facial", 150000, 60, true).
			AddRow(uuid.New(), tenantID, "Haircut", 50000, 30, true))

	services, err := store.ListActiveServices(context.Background(), tenantID, 10)
	if err != nil {
		t.Fatalf("list services: %v", err)
	}
	if len(services) != 2 {
		t.Fatalf("expected 2 services, got %d", len(services))
	}
	if services[0].Name != "Facial" || services[1].Name != "Haircut" {
		t.Fatalf("unexpected order: %q, %q", services[0].Name, services[1].Name)
	}
}

func TestServiceByIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	store := &Store{pool: mock}
	tenantID := uuid.New()
	serviceID := uuid.New()
	mock.ExpectQuery("SELECT id, tenant_id, name, price_cents, duration_minutes, active").
		WithArgs(serviceID, tenantID).
		WillReturnError(pgx.ErrNoRows)

	_, err = store.ServiceByID(context.Background(), tenantID, serviceID)
	if !errors.Is(err, ErrServiceNotFound) {
		t.Fatalf("expected ErrServiceNotFound, got %v", err)
	}
}

func TestTenantInfo(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	store := &Store{pool: mock}
	tenantID := uuid.New()
	mock.ExpectQuery("SELECT id, name, phone, address, timezone").
		WithArgs(tenantID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "phone", "address", "timezone"}).
			AddRow(tenantID, "Aura Salon", "+919876543210", "12 MG Road, Bengaluru", "Asia/Kolkata"))

	info, err := store.TenantInfo(context.Background(), tenantID)
	if err != nil {
		t.Fatalf("tenant info: %v", err)
	}
	if info.Name != "Aura Salon" || info.Timezone != "Asia/Kolkata" {
		t.Fatalf("unexpected tenant info: %+v", info)
	}
}

func TestListActiveStaff(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	store := &Store{pool: mock}
	tenantID := uuid.New()
	mock.ExpectQuery("SELECT id, tenant_id, full_name, role, active").
		WithArgs(tenantID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "tenant_id", "full_name", "role", "active"}).
			AddRow(uuid.New(), tenantID, "Priya Nair", "stylist", true))

	staff, err := store.ListActiveStaff(context.Background(), tenantID)
	if err != nil {
		t.Fatalf("list staff: %v", err)
	}
	if len(staff) != 1 || staff[0].FullName != "Priya Nair" {
		t.Fatalf("unexpected staff: %+v", staff)
	}
}
