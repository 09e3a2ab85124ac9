// Package events defines booking lifecycle messages and the publishers that
// fan them out to the message broker and live clients.
package events

import (
	"context"
	"errors"
	"time"

	"activity-booking-service/internal/domain/booking"
)

type Type string

const (
	BookingCreated   Type = "booking.created"
	BookingUpdated   Type = "booking.updated"
	BookingCancelled Type = "booking.cancelled"
	BookingDeleted   Type = "booking.deleted"
)

// BookingEvent carries enough of the booking for consumers to refresh
// availability without querying the service.
type BookingEvent struct {
	Type             Type           `json:"type"`
	BookingID        string         `json:"booking_id"`
	ActivityID       string         `json:"activity_id"`
	SlotID           string         `json:"slot_id"`
	Date             string         `json:"date"`
	ParticipantCount int            `json:"participant_count"`
	Status           booking.Status `json:"status"`
	TotalPrice       float64        `json:"total_price"`
	OccurredAt       time.Time      `json:"occurred_at"`
}

// NewBookingEvent snapshots b.
func NewBookingEvent(t Type, b *booking.Booking) BookingEvent {
	return BookingEvent{
		Type:             t,
		BookingID:        b.ID,
		ActivityID:       b.ActivityID,
		SlotID:           b.SlotID,
		Date:             b.Date,
		ParticipantCount: b.ParticipantCount,
		Status:           b.Status,
		TotalPrice:       b.TotalPrice,
		OccurredAt:       time.Now().UTC(),
	}
}

// Publisher delivers booking events. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event BookingEvent) error
}

type Nop struct{}

func (Nop) Publish(context.Context, BookingEvent) error { return nil }

// Multi publishes to every target and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, event BookingEvent) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
