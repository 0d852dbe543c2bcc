package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgxpool.Pool the store needs.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store persists pending booking requests in Postgres.
type Store struct {
	pool Querier
}

func NewStore(pool Querier) *Store {
	if pool == nil {
		panic("booking: pgx pool required")
	}
	return &Store{pool: pool}
}

// CreatePending inserts a new PENDING request. Single insert, never an
// update; duplicate taps create duplicate rows and staff triage them.
func (s *Store) CreatePending(ctx context.Context, req CreateRequest) (*Request, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	query := `
		INSERT INTO booking_requests
			(id, tenant_id, client_id, phone_number, message, parsed_service, parsed_date, parsed_time, status, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING requested_at
	`
	var requestedAt time.Time
	err := s.pool.QueryRow(ctx, query,
		id,
		req.TenantID,
		req.ClientID,
		req.PhoneNumber,
		req.Message,
		req.ParsedService,
		req.ParsedDate,
		req.ParsedTime,
		StatusPending,
		SourceChat,
	).Scan(&requestedAt)
	if err != nil {
		return nil, fmt.Errorf("booking: insert request: %w", err)
	}

	return &Request{
		ID:            id,
		TenantID:      req.TenantID,
		ClientID:      req.ClientID,
		PhoneNumber:   req.PhoneNumber,
		Message:       req.Message,
		ParsedService: req.ParsedService,
		ParsedDate:    req.ParsedDate,
		ParsedTime:    req.ParsedTime,
		Status:        StatusPending,
		Source:        SourceChat,
		RequestedAt:   requestedAt,
	}, nil
}
