// internal/domain/booking/entity.go
package booking

import (
	"context"
	"time"

	"activity-booking-service/internal/pkg/pagination"
	"activity-booking-service/internal/pkg/ptr"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// HoldsCapacity reports whether a booking in this status consumes slot
// capacity. Only cancelled bookings release it.
func (s Status) HoldsCapacity() bool {
	return s != StatusCancelled
}

type Booking struct {
	ID               string     `json:"id"`
	ActivityID       string     `json:"activity_id"`
	SlotID           string     `json:"slot_id"`
	Date             string     `json:"date"`
	ParticipantCount int        `json:"participant_count"`
	Status           Status     `json:"status"`
	AgentID          *string    `json:"agent_id,omitempty"`
	CustomerName     string     `json:"customer_name"`
	CustomerEmail    *string    `json:"customer_email,omitempty"`
	CustomerPhone    *string    `json:"customer_phone,omitempty"`
	Notes            *string    `json:"notes,omitempty"`
	TotalPrice       float64    `json:"total_price"`
	CancelledAt      *time.Time `json:"cancelled_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a copy that shares no memory with b.
func (b Booking) Clone() Booking {
	b.AgentID = ptr.Clone(b.AgentID)
	b.CustomerEmail = ptr.Clone(b.CustomerEmail)
	b.CustomerPhone = ptr.Clone(b.CustomerPhone)
	b.Notes = ptr.Clone(b.Notes)
	b.CancelledAt = ptr.Clone(b.CancelledAt)
	return b
}

// HeldParticipants is the capacity this booking consumes.
func (b *Booking) HeldParticipants() int {
	if !b.Status.HoldsCapacity() {
		return 0
	}
	return b.ParticipantCount
}

// SameSlot reports whether b and o target the same activity, slot and date.
func (b *Booking) SameSlot(o *Booking) bool {
	return b.ActivityID == o.ActivityID && b.SlotID == o.SlotID && b.Date == o.Date
}

type ListFilters struct {
	ActivityID string
	AgentID    string
	SlotID     string
	Date       string
	Status     Status
	Search     string // customer name, email, notes
}

// Matches reports whether b satisfies every supplied filter.
func (f ListFilters) Matches(b Booking) bool {
	switch {
	case f.ActivityID != "" && b.ActivityID != f.ActivityID:
		return false
	case f.AgentID != "" && ptr.Value(b.AgentID) != f.AgentID:
		return false
	case f.SlotID != "" && b.SlotID != f.SlotID:
		return false
	case f.Date != "" && b.Date != f.Date:
		return false
	case f.Status != "" && b.Status != f.Status:
		return false
	}
	return pagination.ContainsFold(f.Search,
		b.CustomerName, ptr.Value(b.CustomerEmail), ptr.Value(b.Notes))
}

// Repository stores bookings. Create and Update take the slot capacity and
// refuse, atomically with the write, to let the non-cancelled participants
// of the booking's activity/slot/date exceed it (xerrors.ErrCapacityExceeded).
// A negative capacity skips the check.
type Repository interface {
	Create(ctx context.Context, b *Booking, capacity int) error
	FindByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filters ListFilters) ([]Booking, error)
	Update(ctx context.Context, b *Booking, capacity int) error
	Delete(ctx context.Context, id string) error
}
