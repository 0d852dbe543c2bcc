package tenancy

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrNoTenant is returned when no tenant can be matched to an inbound
// channel identity.
var ErrNoTenant = errors.New("tenancy: no tenant for channel identity")

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Resolver maps a WhatsApp business phone number id to the tenant that
// owns it. Single-tenant deployments pin the id via configuration and
// skip the lookup entirely.
type Resolver struct {
	pool    rowQuerier
	pinned  uuid.UUID
	mu      sync.RWMutex
	matched map[string]uuid.UUID
}

func NewResolver(pool rowQuerier, pinned uuid.UUID) *Resolver {
	return &Resolver{
		pool:    pool,
		pinned:  pinned,
		matched: make(map[string]uuid.UUID),
	}
}

// Resolve returns the tenant owning the given phone number id. The
// chain is: pinned tenant, then the tenants table by receiving number,
// then the oldest tenant row. Matches are cached for the process
// lifetime.
func (r *Resolver) Resolve(ctx context.Context, phoneNumberID string) (uuid.UUID, error) {
	if r.pinned != uuid.Nil {
		return r.pinned, nil
	}

	r.mu.RLock()
	cached, ok := r.matched[phoneNumberID]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	tenantID, err := r.lookup(ctx, phoneNumberID)
	if err != nil {
		return uuid.Nil, err
	}

	r.mu.Lock()
	r.matched[phoneNumberID] = tenantID
	r.mu.Unlock()
	return tenantID, nil
}

func (r *Resolver) lookup(ctx context.Context, phoneNumberID string) (uuid.UUID, error) {
	var tenantID uuid.UUID
	if phoneNumberID != "" {
		query := `SELECT id FROM tenants WHERE whatsapp_phone_number_id = $1`
		err := r.pool.QueryRow(ctx, query, phoneNumberID).Scan(&tenantID)
		if err == nil {
			return tenantID, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, fmt.Errorf("tenancy: resolve tenant: %w", err)
		}
	}

	// Single-tenant installs often never set the number mapping; the
	// oldest tenant row is the owner.
	query := `SELECT id FROM tenants ORDER BY created_at ASC LIMIT 1`
	if err := r.pool.QueryRow(ctx, query).Scan(&tenantID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, ErrNoTenant
		}
		return uuid.Nil, fmt.Errorf("tenancy: resolve tenant: %w", err)
	}
	return tenantID, nil
}
