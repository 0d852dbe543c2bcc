package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrServiceNotFound is returned when a service id has no active row.
var ErrServiceNotFound = errors.New("service not found")

// ErrTenantNotFound is returned when tenant display info is missing.
var ErrTenantNotFound = errors.New("tenant not found")

// Querier is the subset of pgxpool.Pool the store needs.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Service is a bookable offering scoped to a tenant.
type Service struct {
	ID              uuid.UUID `json:"id"`
	TenantID        uuid.UUID `json:"tenant_id"`
	Name            string    `json:"name"`
	PriceCents      int       `json:"price_cents"`
	DurationMinutes int       `json:"duration_minutes"`
	Active          bool      `json:"active"`
}

// Staff is a service provider scoped to a tenant.
type Staff struct {
	ID       uuid.UUID `json:"id"`
	TenantID uuid.UUID `json:"tenant_id"`
	FullName string    `json:"full_name"`
	Role     string    `json:"role"`
	Active   bool      `json:"active"`
}

// TenantInfo is the display information shown to customers.
type TenantInfo struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Phone    string    `json:"phone"`
	Address  string    `json:"address"`
	Timezone string    `json:"timezone"`
}

// Store is a read-only accessor over services, staff, and tenant display
// data.
type Store struct {
	pool Querier
}

func NewStore(pool Querier) *Store {
	if pool == nil {
		panic("catalog: pgx pool required")
	}
	return &Store{pool: pool}
}

// ListActiveServices returns a tenant's active services ordered by name,
// capped at limit.
func (s *Store) ListActiveServices(ctx context.Context, tenantID uuid.UUID, limit int) ([]Service, error) {
	query := `
		SELECT id, tenant_id, name, price_cents, duration_minutes, active
		FROM services
		WHERE tenant_id = $1 AND active
		ORDER BY name ASC
		LIMIT $2
	`
	rows, err := s.pool.Query(ctx, query, tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("catalog: list services: %w", err)
	}
	defer rows.Close()

	var services []Service
	for rows.Next() {
		var svc Service
		if err := rows.Scan(&svc.ID, &svc.TenantID, &svc.Name, &svc.PriceCents, &svc.DurationMinutes, &svc.Active); err != nil {
			return nil, fmt.Errorf("catalog: scan service: %w", err)
		}
		services = append(services, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: list services: %w", err)
	}
	return services, nil
}

// ServiceByID fetches a single active service scoped to the tenant.
func (s *Store) ServiceByID(ctx context.Context, tenantID, serviceID uuid.UUID) (*Service, error) {
	query := `
		SELECT id, tenant_id, name, price_cents, duration_minutes, active
		FROM services
		WHERE id = $1 AND tenant_id = $2 AND active
	`
	var svc Service
	err := s.pool.QueryRow(ctx, query, serviceID, tenantID).Scan(
		&svc.ID, &svc.TenantID, &svc.Name, &svc.PriceCents, &svc.DurationMinutes, &svc.Active,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("catalog: service by id: %w", err)
	}
	return &svc, nil
}

// ListActiveStaff returns a tenant's active staff ordered by name.
func (s *Store) ListActiveStaff(ctx context.Context, tenantID uuid.UUID) ([]Staff, error) {
	query := `
		SELECT id, tenant_id, full_name, role, active
		FROM staff
		WHERE tenant_id = $1 AND active
		ORDER BY full_name ASC
	`
	rows, err := s.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("catalog: list staff: %w", err)
	}
	defer rows.Close()

	var members []Staff
	for rows.Next() {
		var st Staff
		if err := rows.Scan(&st.ID, &st.TenantID, &st.FullName, &st.Role, &st.Active); err != nil {
			return nil, fmt.Errorf("catalog: scan staff: %w", err)
		}
		members = append(members, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: list staff: %w", err)
	}
	return members, nil
}

// TenantInfo fetches a tenant's display info.
func (s *Store) TenantInfo(ctx context.Context, tenantID uuid.UUID) (*TenantInfo, error) {
	query := `
		SELECT id, name, phone, address, timezone
		FROM tenants
		WHERE id = $1
	`
	var info TenantInfo
	err := s.pool.QueryRow(ctx, query, tenantID).Scan(&info.ID, &info.Name, &info.Phone, &info.Address, &info.Timezone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("catalog: tenant info: %w", err)
	}
	return &info, nil
}
