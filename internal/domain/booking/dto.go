// internal/domain/booking/dto.go
package booking

import (
	"activity-booking-service/internal/pkg/pagination"
	"activity-booking-service/internal/pkg/ptr"
)

type CreateBookingRequest struct {
	ActivityID       string  `json:"activity_id" binding:"required"`
	SlotID           string  `json:"slot_id" binding:"required"`
	Date             string  `json:"date" binding:"required,ymd"`
	ParticipantCount int     `json:"participant_count" binding:"required,min=1"`
	Status           *Status `json:"status" binding:"omitempty,oneof=pending confirmed"`
	AgentID          *string `json:"agent_id" binding:"omitempty,min=1"`
	CustomerName     string  `json:"customer_name" binding:"required,max=255"`
	CustomerEmail    *string `json:"customer_email" binding:"omitempty,email,max=255"`
	CustomerPhone    *string `json:"customer_phone" binding:"omitempty,max=30"`
	Notes            *string `json:"notes" binding:"omitempty,max=2000"`
}

type UpdateBookingRequest struct {
	SlotID           *string `json:"slot_id" binding:"omitempty,min=1"`
	Date             *string `json:"date" binding:"omitempty,ymd"`
	ParticipantCount *int    `json:"participant_count" binding:"omitempty,min=1"`
	Status           *Status `json:"status" binding:"omitempty,oneof=pending confirmed cancelled completed"`
	AgentID          *string `json:"agent_id" binding:"omitempty,min=1"`
	CustomerName     *string `json:"customer_name" binding:"omitempty,min=1,max=255"`
	CustomerEmail    *string `json:"customer_email" binding:"omitempty,email,max=255"`
	CustomerPhone    *string `json:"customer_phone" binding:"omitempty,max=30"`
	Notes            *string `json:"notes" binding:"omitempty,max=2000"`
}

type BookingListQuery struct {
	pagination.ListQuery
	ActivityID string `form:"activity_id"`
	AgentID    string `form:"agent_id"`
	SlotID     string `form:"slot_id"`
	Date       string `form:"date" binding:"omitempty,ymd"`
	Status     string `form:"status" binding:"omitempty,oneof=pending confirmed cancelled completed"`
}

// Filters converts the bound query into repository filters. Bookings have
// no is_active flag.
func (q *BookingListQuery) Filters() ListFilters {
	return ListFilters{
		ActivityID: q.ActivityID,
		AgentID:    q.AgentID,
		SlotID:     q.SlotID,
		Date:       q.Date,
		Status:     Status(q.Status),
		Search:     q.Search,
	}
}

// ToBooking builds the entity to store; pricing is filled in by the service.
func (r *CreateBookingRequest) ToBooking() *Booking {
	b := &Booking{
		ActivityID:       r.ActivityID,
		SlotID:           r.SlotID,
		Date:             r.Date,
		ParticipantCount: r.ParticipantCount,
		Status:           StatusConfirmed,
		AgentID:          ptr.Clone(r.AgentID),
		CustomerName:     r.CustomerName,
		CustomerEmail:    ptr.Clone(r.CustomerEmail),
		CustomerPhone:    ptr.Clone(r.CustomerPhone),
		Notes:            ptr.Clone(r.Notes),
	}
	if r.Status != nil {
		b.Status = *r.Status
	}
	return b
}

// Apply copies the supplied fields onto b. Status side effects
// (cancelled_at) are handled by the service.
func (r *UpdateBookingRequest) Apply(b *Booking) {
	if r.SlotID != nil {
		b.SlotID = *r.SlotID
	}
	if r.Date != nil {
		b.Date = *r.Date
	}
	if r.ParticipantCount != nil {
		b.ParticipantCount = *r.ParticipantCount
	}
	if r.Status != nil {
		b.Status = *r.Status
	}
	if r.AgentID != nil {
		b.AgentID = ptr.Clone(r.AgentID)
	}
	if r.CustomerName != nil {
		b.CustomerName = *r.CustomerName
	}
	if r.CustomerEmail != nil {
		b.CustomerEmail = ptr.Clone(r.CustomerEmail)
	}
	if r.CustomerPhone != nil {
		b.CustomerPhone = ptr.Clone(r.CustomerPhone)
	}
	if r.Notes != nil {
		b.Notes = ptr.Clone(r.Notes)
	}
}
