// internal/handlers/booking/booking.go
package booking

import (
	"net/http"

	"activity-booking-service/internal/domain/booking"
	"activity-booking-service/internal/pkg/pagination"
	"activity-booking-service/internal/pkg/response"
	service "activity-booking-service/internal/service/booking"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	bookingService *service.BookingService
}

func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
	}
}

// CreateBooking books participants into a slot. A full slot answers 409.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req booking.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.bookingService.CreateBooking(c.Request.Context(), &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "booking created successfully", result)
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	result, err := h.bookingService.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "booking retrieved", result)
}

func (h *BookingHandler) ListBookings(c *gin.Context) {
	var query booking.BookingListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	params := query.Params(service.DefaultPageSize)
	page, err := h.bookingService.ListBookings(c.Request.Context(), query.Filters(), params)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Paginated(c, "bookings retrieved", page.Items, pagination.MetaFor(page, params))
}

func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	var req booking.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.bookingService.UpdateBooking(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "booking updated successfully", result)
}

// CancelBooking releases the booking's capacity. Cancelling twice is a no-op.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	result, err := h.bookingService.CancelBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "booking cancelled successfully", result)
}

func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	if err := h.bookingService.DeleteBooking(c.Request.Context(), c.Param("id")); err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "booking deleted successfully", nil)
}
