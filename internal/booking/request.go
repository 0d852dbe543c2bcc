package booking

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RequestStatus is the lifecycle state of a pending booking request.
// The router only ever creates PENDING rows; staff move them onward.
type RequestStatus string

const (
	StatusPending   RequestStatus = "PENDING"
	StatusAccepted  RequestStatus = "ACCEPTED"
	StatusDeclined  RequestStatus = "DECLINED"
	StatusConverted RequestStatus = "CONVERTED"
)

// SourceChat marks requests that originated from the chat channel.
const SourceChat = "CHAT"

var (
	// ErrMissingTenantID is returned when a request lacks a tenant scope.
	ErrMissingTenantID = errors.New("tenant id is required")

	// ErrMissingPhone is returned when a request lacks the sender's phone.
	ErrMissingPhone = errors.New("phone number is required")
)

// Request is a persisted appointment intent awaiting staff triage.
// Distinct from a confirmed booking.
type Request struct {
	ID            uuid.UUID     `json:"id"`
	TenantID      uuid.UUID     `json:"tenant_id"`
	ClientID      *uuid.UUID    `json:"client_id,omitempty"`
	PhoneNumber   string        `json:"phone_number"`
	Message       string        `json:"message"`
	ParsedService *string       `json:"parsed_service,omitempty"`
	ParsedDate    *time.Time    `json:"parsed_date,omitempty"`
	ParsedTime    *string       `json:"parsed_time,omitempty"`
	Status        RequestStatus `json:"status"`
	Source        string        `json:"source"`
	RequestedAt   time.Time     `json:"requested_at"`
	RespondedAt   *time.Time    `json:"responded_at,omitempty"`
}

// CreateRequest carries the fields for a new pending request. Parsed
// fields stay nil on the free-text path.
type CreateRequest struct {
	TenantID      uuid.UUID
	ClientID      *uuid.UUID
	PhoneNumber   string
	Message       string
	ParsedService *string
	ParsedDate    *time.Time
	ParsedTime    *string
}

// Validate checks required fields.
func (r *CreateRequest) Validate() error {
	if r.TenantID == uuid.Nil {
		return ErrMissingTenantID
	}
	if strings.TrimSpace(r.PhoneNumber) == "" {
		return ErrMissingPhone
	}
	return nil
}
