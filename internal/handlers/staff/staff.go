// internal/handlers/staff/staff.go
package staff

import (
	"net/http"

	"activity-booking-service/internal/domain/staff"
	"activity-booking-service/internal/pkg/pagination"
	"activity-booking-service/internal/pkg/response"
	"activity-booking-service/internal/pkg/validation"
	service "activity-booking-service/internal/service/staff"

	"github.com/gin-gonic/gin"
)

type StaffHandler struct {
	staffService *service.StaffService
}

func NewStaffHandler(staffService *service.StaffService) *StaffHandler {
	return &StaffHandler{
		staffService: staffService,
	}
}

// ========== CRUD ==========

func (h *StaffHandler) CreateStaff(c *gin.Context) {
	var req staff.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.staffService.CreateStaff(c.Request.Context(), &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "staff member created successfully", result)
}

func (h *StaffHandler) GetStaff(c *gin.Context) {
	result, err := h.staffService.GetStaff(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "staff member retrieved", result)
}

func (h *StaffHandler) ListStaff(c *gin.Context) {
	var query staff.StaffListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	params := query.Params(service.DefaultPageSize)
	page, err := h.staffService.ListStaff(c.Request.Context(), query.Filters(), params)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Paginated(c, "staff retrieved", page.Items, pagination.MetaFor(page, params))
}

func (h *StaffHandler) UpdateStaff(c *gin.Context) {
	var req staff.UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.staffService.UpdateStaff(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "staff member updated successfully", result)
}

func (h *StaffHandler) ActivateStaff(c *gin.Context) {
	h.setActive(c, true, "staff member activated successfully")
}

func (h *StaffHandler) DeactivateStaff(c *gin.Context) {
	h.setActive(c, false, "staff member deactivated successfully")
}

func (h *StaffHandler) setActive(c *gin.Context, active bool, message string) {
	result, err := h.staffService.SetActive(c.Request.Context(), c.Param("id"), active)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, message, result)
}

func (h *StaffHandler) DeleteStaff(c *gin.Context) {
	if err := h.staffService.DeleteStaff(c.Request.Context(), c.Param("id")); err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "staff member deleted successfully", nil)
}

// ========== Scheduling ==========

// ListAvailable lists active staff free on the given date
func (h *StaffHandler) ListAvailable(c *gin.Context) {
	var query staff.AvailableStaffQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	result, err := h.staffService.ListAvailable(c.Request.Context(), query.Date, query.AgencyID)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "available staff retrieved", result)
}

// AddUnavailableDates merges dates into the staff member's unavailable set
func (h *StaffHandler) AddUnavailableDates(c *gin.Context) {
	var req staff.UnavailableDatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.staffService.AddUnavailableDates(c.Request.Context(), c.Param("id"), req.Dates)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "unavailable dates added", result)
}

// RemoveUnavailableDate drops one date from the unavailable set
func (h *StaffHandler) RemoveUnavailableDate(c *gin.Context) {
	date := c.Param("date")
	if !validation.IsDate(date) {
		response.Error(c, http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD")
		return
	}

	result, err := h.staffService.RemoveUnavailableDate(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "unavailable date removed", result)
}
