// internal/handlers/agency/agency.go
package agency

import (
	"net/http"

	"activity-booking-service/internal/domain/agency"
	"activity-booking-service/internal/pkg/pagination"
	"activity-booking-service/internal/pkg/response"
	service "activity-booking-service/internal/service/agency"

	"github.com/gin-gonic/gin"
)

type AgencyHandler struct {
	agencyService *service.AgencyService
}

func NewAgencyHandler(agencyService *service.AgencyService) *AgencyHandler {
	return &AgencyHandler{
		agencyService: agencyService,
	}
}

// CreateAgency creates a new agency
func (h *AgencyHandler) CreateAgency(c *gin.Context) {
	var req agency.CreateAgencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.agencyService.CreateAgency(c.Request.Context(), &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "agency created successfully", result)
}

// GetAgency retrieves an agency by ID
func (h *AgencyHandler) GetAgency(c *gin.Context) {
	result, err := h.agencyService.GetAgency(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "agency retrieved", result)
}

// ListAgencies retrieves agencies with filters
func (h *AgencyHandler) ListAgencies(c *gin.Context) {
	var query pagination.ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	params := query.Params(service.DefaultPageSize)
	filters := agency.ListFilters{IsActive: query.Active(), Search: query.Search}

	page, err := h.agencyService.ListAgencies(c.Request.Context(), filters, params)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Paginated(c, "agencies retrieved", page.Items, pagination.MetaFor(page, params))
}

// UpdateAgency applies a partial update
func (h *AgencyHandler) UpdateAgency(c *gin.Context) {
	var req agency.UpdateAgencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.agencyService.UpdateAgency(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "agency updated successfully", result)
}

// ActivateAgency marks an agency active
func (h *AgencyHandler) ActivateAgency(c *gin.Context) {
	h.setActive(c, true, "agency activated successfully")
}

// DeactivateAgency marks an agency inactive
func (h *AgencyHandler) DeactivateAgency(c *gin.Context) {
	h.setActive(c, false, "agency deactivated successfully")
}

func (h *AgencyHandler) setActive(c *gin.Context, active bool, message string) {
	result, err := h.agencyService.SetActive(c.Request.Context(), c.Param("id"), active)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, message, result)
}

// DeleteAgency removes an agency. Agents and staff keep their agency_id.
func (h *AgencyHandler) DeleteAgency(c *gin.Context) {
	if err := h.agencyService.DeleteAgency(c.Request.Context(), c.Param("id")); err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "agency deleted successfully", nil)
}
