package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/glowdesk/salon-platform/internal/booking"
	"github.com/glowdesk/salon-platform/pkg/logging"
)

// AdminRequestsHandler serves the staff triage API for booking requests.
type AdminRequestsHandler struct {
	db     *sql.DB
	logger *logging.Logger
}

func NewAdminRequestsHandler(db *sql.DB, logger *logging.Logger) *AdminRequestsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminRequestsHandler{db: db, logger: logger}
}

// BookingRequestResponse represents a booking request in API responses.
type BookingRequestResponse struct {
	ID            string  `json:"id"`
	TenantID      string  `json:"tenant_id"`
	ClientID      *string `json:"client_id,omitempty"`
	ClientName    string  `json:"client_name,omitempty"`
	PhoneNumber   string  `json:"phone_number"`
	Message       string  `json:"message"`
	ParsedService *string `json:"parsed_service,omitempty"`
	ParsedDate    *string `json:"parsed_date,omitempty"`
	ParsedTime    *string `json:"parsed_time,omitempty"`
	Status        string  `json:"status"`
	Source        string  `json:"source"`
	RequestedAt   string  `json:"requested_at"`
	RespondedAt   *string `json:"responded_at,omitempty"`
}

// BookingRequestsListResponse is a paginated list of booking requests.
type BookingRequestsListResponse struct {
	Requests   []BookingRequestResponse `json:"requests"`
	Total      int                      `json:"total"`
	Page       int                      `json:"page"`
	PageSize   int                      `json:"page_size"`
	TotalPages int                      `json:"total_pages"`
}

var validRequestStatuses = map[string]bool{
	string(booking.StatusPending):   true,
	string(booking.StatusAccepted):  true,
	string(booking.StatusDeclined):  true,
	string(booking.StatusConverted): true,
}

// ListBookingRequests returns booking requests for a tenant, newest first.
// GET /admin/tenants/{tenantID}/booking-requests
func (h *AdminRequestsHandler) ListBookingRequests(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")
	if _, err := uuid.Parse(tenantID); err != nil {
		http.Error(w, "invalid tenantID", http.StatusBadRequest)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	status := r.URL.Query().Get("status")
	if status != "" && !validRequestStatuses[status] {
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}

	countQuery := `SELECT COUNT(*) FROM booking_requests WHERE tenant_id = $1`
	countArgs := []any{tenantID}
	if status != "" {
		countQuery += " AND status = $2"
		countArgs = append(countArgs, status)
	}
	var total int
	if err := h.db.QueryRowContext(r.Context(), countQuery, countArgs...).Scan(&total); err != nil {
		h.logger.Error("failed to count booking requests", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	query := `
		SELECT br.id, br.tenant_id, br.client_id, c.full_name, br.phone_number, br.message,
			   br.parsed_service, br.parsed_date, br.parsed_time, br.status, br.source,
			   br.requested_at, br.responded_at
		FROM booking_requests br
		LEFT JOIN customers c ON c.id = br.client_id
		WHERE br.tenant_id = $1
	`
	args := []any{tenantID}
	argNum := 2
	if status != "" {
		query += " AND br.status = $" + strconv.Itoa(argNum)
		args = append(args, status)
		argNum++
	}
	query += " ORDER BY br.requested_at DESC"
	query += " LIMIT $" + strconv.Itoa(argNum) + " OFFSET $" + strconv.Itoa(argNum+1)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := h.db.QueryContext(r.Context(), query, args...)
	if err != nil {
		h.logger.Error("failed to query booking requests", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	requests := []BookingRequestResponse{}
	for rows.Next() {
		var req BookingRequestResponse
		var clientID, clientName, parsedService, parsedTime sql.NullString
		var parsedDate, respondedAt sql.NullTime
		var requestedAt time.Time

		err := rows.Scan(
			&req.ID, &req.TenantID, &clientID, &clientName, &req.PhoneNumber, &req.Message,
			&parsedService, &parsedDate, &parsedTime, &req.Status, &req.Source,
			&requestedAt, &respondedAt,
		)
		if err != nil {
			h.logger.Error("failed to scan booking request", "error", err)
			continue
		}

		if clientID.Valid {
			req.ClientID = &clientID.String
		}
		req.ClientName = clientName.String
		if parsedService.Valid {
			req.ParsedService = &parsedService.String
		}
		if parsedDate.Valid {
			formatted := parsedDate.Time.Format("2006-01-02")
			req.ParsedDate = &formatted
		}
		if parsedTime.Valid {
			req.ParsedTime = &parsedTime.String
		}
		req.RequestedAt = requestedAt.Format(time.RFC3339)
		if respondedAt.Valid {
			formatted := respondedAt.Time.Format(time.RFC3339)
			req.RespondedAt = &formatted
		}

		requests = append(requests, req)
	}

	response := BookingRequestsListResponse{
		Requests:   requests,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

type respondRequestBody struct {
	Action string `json:"action"`
}

var actionToStatus = map[string]booking.RequestStatus{
	"accept":  booking.StatusAccepted,
	"decline": booking.StatusDeclined,
	"convert": booking.StatusConverted,
}

// RespondBookingRequest moves a PENDING request to a terminal status.
// POST /admin/tenants/{tenantID}/booking-requests/{requestID}/respond
func (h *AdminRequestsHandler) RespondBookingRequest(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantID")
	requestID := chi.URLParam(r, "requestID")
	if _, err := uuid.Parse(tenantID); err != nil {
		http.Error(w, "invalid tenantID", http.StatusBadRequest)
		return
	}
	if _, err := uuid.Parse(requestID); err != nil {
		http.Error(w, "invalid requestID", http.StatusBadRequest)
		return
	}

	var body respondRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	newStatus, ok := actionToStatus[body.Action]
	if !ok {
		http.Error(w, "action must be accept, decline or convert", http.StatusBadRequest)
		return
	}

	// Only PENDING rows transition; a second respond call is a conflict.
	query := `
		UPDATE booking_requests
		SET status = $1, responded_at = NOW()
		WHERE id = $2 AND tenant_id = $3 AND status = $4
	`
	result, err := h.db.ExecContext(r.Context(), query, string(newStatus), requestID, tenantID, string(booking.StatusPending))
	if err != nil {
		h.logger.Error("failed to update booking request", "error", err, "request_id", requestID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	affected, err := result.RowsAffected()
	if err != nil {
		h.logger.Error("failed to read rows affected", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if affected == 0 {
		http.Error(w, "request not found or already responded", http.StatusConflict)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"id":     requestID,
		"status": string(newStatus),
	})
}
