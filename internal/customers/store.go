package customers

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/glowdesk/salon-platform/internal/phone"
)

// Querier is the subset of pgxpool.Pool the store needs.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Customer is an existing client record. Read-only here: the chat flow
// never creates customers, walk-ins produce requests with a nil client id.
type Customer struct {
	ID       uuid.UUID `json:"id"`
	TenantID uuid.UUID `json:"tenant_id"`
	FullName string    `json:"full_name"`
	Phone    string    `json:"phone"`
}

// Store resolves customers by phone number variants.
type Store struct {
	pool          Querier
	countryPrefix string
}

func NewStore(pool Querier, countryPrefix string) *Store {
	if pool == nil {
		panic("customers: pgx pool required")
	}
	return &Store{pool: pool, countryPrefix: countryPrefix}
}

// Resolve looks up a customer whose stored phone equals any normalized
// variant of rawPhone, scoped to the tenant. Returns (nil, nil) when no
// record matches. Multiple matches resolve deterministically to the
// lowest id.
func (s *Store) Resolve(ctx context.Context, tenantID uuid.UUID, rawPhone string) (*Customer, error) {
	variants := phone.Variants(rawPhone, s.countryPrefix)
	if len(variants) == 1 && variants[0] == "" {
		return nil, nil
	}
	query := `
		SELECT id, tenant_id, full_name, phone
		FROM customers
		WHERE tenant_id = $1 AND phone = ANY($2)
		ORDER BY id ASC
		LIMIT 1
	`
	var c Customer
	err := s.pool.QueryRow(ctx, query, tenantID, variants).Scan(&c.ID, &c.TenantID, &c.FullName, &c.Phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("customers: resolve by phone: %w", err)
	}
	return &c, nil
}
