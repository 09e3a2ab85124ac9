// internal/handlers/activity/activity.go
package activity

import (
	"net/http"

	"activity-booking-service/internal/domain/activity"
	"activity-booking-service/internal/pkg/pagination"
	"activity-booking-service/internal/pkg/response"
	service "activity-booking-service/internal/service/activity"
	availabilitysvc "activity-booking-service/internal/service/availability"

	"github.com/gin-gonic/gin"
)

type ActivityHandler struct {
	activityService     *service.ActivityService
	availabilityService *availabilitysvc.AvailabilityService
}

func NewActivityHandler(activityService *service.ActivityService, availabilityService *availabilitysvc.AvailabilityService) *ActivityHandler {
	return &ActivityHandler{
		activityService:     activityService,
		availabilityService: availabilityService,
	}
}

// ========== CRUD ==========

func (h *ActivityHandler) CreateActivity(c *gin.Context) {
	var req activity.CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.activityService.CreateActivity(c.Request.Context(), &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "activity created successfully", result)
}

func (h *ActivityHandler) GetActivity(c *gin.Context) {
	result, err := h.activityService.GetActivity(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "activity retrieved", result)
}

func (h *ActivityHandler) ListActivities(c *gin.Context) {
	var query activity.ActivityListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	params := query.Params(service.DefaultPageSize)
	page, err := h.activityService.ListActivities(c.Request.Context(), query.Filters(), params)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Paginated(c, "activities retrieved", page.Items, pagination.MetaFor(page, params))
}

func (h *ActivityHandler) UpdateActivity(c *gin.Context) {
	var req activity.UpdateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.activityService.UpdateActivity(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "activity updated successfully", result)
}

func (h *ActivityHandler) ActivateActivity(c *gin.Context) {
	h.setActive(c, true, "activity activated successfully")
}

func (h *ActivityHandler) DeactivateActivity(c *gin.Context) {
	h.setActive(c, false, "activity deactivated successfully")
}

func (h *ActivityHandler) setActive(c *gin.Context, active bool, message string) {
	result, err := h.activityService.SetActive(c.Request.Context(), c.Param("id"), active)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, message, result)
}

// DeleteActivity removes an activity. Its bookings are kept.
func (h *ActivityHandler) DeleteActivity(c *gin.Context) {
	if err := h.activityService.DeleteActivity(c.Request.Context(), c.Param("id")); err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "activity deleted successfully", nil)
}

// ========== Availability ==========

// GetAvailability returns per-slot capacity for one date. The summary
// always covers every slot; participants only narrows the slot list.
func (h *ActivityHandler) GetAvailability(c *gin.Context) {
	var query activity.AvailabilityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	result, err := h.availabilityService.ForDate(c.Request.Context(), c.Param("id"), query.Date, query.Participants)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "availability retrieved", result)
}

// GetCalendar returns a summary per running date in [from, to]
func (h *ActivityHandler) GetCalendar(c *gin.Context) {
	var query activity.CalendarQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	result, err := h.availabilityService.Calendar(c.Request.Context(), c.Param("id"), query.From, query.To)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "calendar retrieved", result)
}
