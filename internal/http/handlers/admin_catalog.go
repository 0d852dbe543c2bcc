package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/glowdesk/salon-platform/internal/catalog"
	"github.com/glowdesk/salon-platform/pkg/logging"
)

const catalogPageLimit = 100

type catalogReader interface {
	ListActiveServices(ctx context.Context, tenantID uuid.UUID, limit int) ([]catalog.Service, error)
	ListActiveStaff(ctx context.Context, tenantID uuid.UUID) ([]catalog.Staff, error)
}

// AdminCatalogHandler exposes the tenant's bookable catalog to staff.
type AdminCatalogHandler struct {
	catalog catalogReader
	logger  *logging.Logger
}

func NewAdminCatalogHandler(store catalogReader, logger *logging.Logger) *AdminCatalogHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminCatalogHandler{catalog: store, logger: logger}
}

type ServiceResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	PriceCents      int    `json:"price_cents"`
	DurationMinutes int    `json:"duration_minutes"`
}

type StaffResponse struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Role     string `json:"role,omitempty"`
}

type CatalogResponse struct {
	Services []ServiceResponse `json:"services"`
	Staff    []StaffResponse   `json:"staff"`
}

// GetCatalog returns active services and staff for a tenant.
// GET /admin/tenants/{tenantID}/catalog
func (h *AdminCatalogHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(chi.URLParam(r, "tenantID"))
	if err != nil {
		http.Error(w, "invalid tenantID", http.StatusBadRequest)
		return
	}

	services, err := h.catalog.ListActiveServices(r.Context(), tenantID, catalogPageLimit)
	if err != nil {
		h.logger.Error("failed to list services", "error", err, "tenant_id", tenantID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	staff, err := h.catalog.ListActiveStaff(r.Context(), tenantID)
	if err != nil {
		h.logger.Error("failed to list staff", "error", err, "tenant_id", tenantID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := CatalogResponse{Services: []ServiceResponse{}, Staff: []StaffResponse{}}
	for _, svc := range services {
		resp.Services = append(resp.Services, ServiceResponse{
			ID:              svc.ID.String(),
			Name:            svc.Name,
			PriceCents:      svc.PriceCents,
			DurationMinutes: svc.DurationMinutes,
		})
	}
	for _, member := range staff {
		resp.Staff = append(resp.Staff, StaffResponse{
			ID:       member.ID.String(),
			FullName: member.FullName,
			Role:     member.Role,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
