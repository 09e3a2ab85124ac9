package booking

import (
	"context"
	"fmt"
	"time"

	"activity-booking-service/internal/cache"
	"activity-booking-service/internal/domain/activity"
	"activity-booking-service/internal/domain/agent"
	"activity-booking-service/internal/domain/booking"
	"activity-booking-service/internal/events"
	xerrors "activity-booking-service/internal/pkg/errors"
	"activity-booking-service/internal/pkg/keylock"
	"activity-booking-service/internal/pkg/pagination"

	"go.uber.org/zap"
)

const DefaultPageSize = 50

type BookingService struct {
	bookings   booking.Repository
	activities activity.Repository
	agents     agent.Repository
	cache      cache.Availability
	publisher  events.Publisher
	logger     *zap.Logger

	// locks serializes read-modify-write per record id.
	locks keylock.Locker
}

func NewBookingService(
	bookings booking.Repository,
	activities activity.Repository,
	agents agent.Repository,
	slotCache cache.Availability,
	publisher events.Publisher,
	logger *zap.Logger,
) *BookingService {
	if slotCache == nil {
		slotCache = cache.Nop{}
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &BookingService{
		bookings:   bookings,
		activities: activities,
		agents:     agents,
		cache:      slotCache,
		publisher:  publisher,
		logger:     logger,
	}
}

// CreateBooking books participants into an active activity's slot. The
// write is refused with ErrCapacityExceeded when the slot cannot take them.
func (s *BookingService) CreateBooking(ctx context.Context, req *booking.CreateBookingRequest) (*booking.Booking, error) {
	b := req.ToBooking()

	a, err := s.activities.FindByID(ctx, b.ActivityID)
	if err != nil {
		return nil, err
	}
	if !a.IsActive {
		return nil, xerrors.Inactive("activity")
	}
	slot, ok := a.Slot(b.SlotID)
	if !ok {
		return nil, xerrors.NotFound("time slot")
	}
	if err := s.resolveAgent(ctx, b.AgentID); err != nil {
		return nil, err
	}
	b.TotalPrice = a.PricePerPerson * float64(b.ParticipantCount)

	if err := s.bookings.Create(ctx, b, slot.MaxCapacity); err != nil {
		if xerrors.Is(err, xerrors.ErrCapacityExceeded) {
			s.logger.Info("booking refused: slot full",
				zap.String("activity_id", b.ActivityID),
				zap.String("slot_id", b.SlotID),
				zap.String("date", b.Date),
				zap.Int("participants", b.ParticipantCount),
			)
			return nil, err
		}
		s.logger.Error("failed to create booking", zap.Error(err))
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.invalidate(ctx, b.ActivityID, b.Date)
	s.publish(ctx, events.BookingCreated, b)

	s.logger.Info("booking created",
		zap.String("booking_id", b.ID),
		zap.String("activity_id", b.ActivityID),
		zap.String("slot_id", b.SlotID),
		zap.String("date", b.Date),
		zap.Int("participants", b.ParticipantCount),
	)
	return b, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id string) (*booking.Booking, error) {
	return s.bookings.FindByID(ctx, id)
}

func (s *BookingService) ListBookings(ctx context.Context, filters booking.ListFilters, params pagination.Params) (pagination.Page[booking.Booking], error) {
	items, err := s.bookings.List(ctx, filters)
	if err != nil {
		return pagination.Page[booking.Booking]{}, fmt.Errorf("failed to list bookings: %w", err)
	}
	return pagination.Paginate(items, params.Page, params.Limit), nil
}

// UpdateBooking applies a partial update. Capacity is re-checked whenever
// the booking moves to another slot or date or takes more places than
// before; total_price follows the current activity price.
func (s *BookingService) UpdateBooking(ctx context.Context, id string, req *booking.UpdateBookingRequest) (*booking.Booking, error) {
	defer s.locks.Lock(id)()

	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := b.Clone()
	req.Apply(b)

	if err := s.resolveAgent(ctx, req.AgentID); err != nil {
		return nil, err
	}

	capacity := -1
	moved := !b.SameSlot(&before)
	if moved || b.ParticipantCount != before.ParticipantCount || b.HeldParticipants() > before.HeldParticipants() {
		a, err := s.activities.FindByID(ctx, b.ActivityID)
		if err != nil {
			return nil, err
		}
		slot, ok := a.Slot(b.SlotID)
		if !ok {
			return nil, xerrors.NotFound("time slot")
		}
		if b.HeldParticipants() > 0 && (moved || b.HeldParticipants() > before.HeldParticipants()) {
			capacity = slot.MaxCapacity
		}
		b.TotalPrice = a.PricePerPerson * float64(b.ParticipantCount)
	}
	stampStatus(b, before.Status)

	if err := s.bookings.Update(ctx, b, capacity); err != nil {
		if xerrors.Is(err, xerrors.ErrCapacityExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}

	s.invalidate(ctx, before.ActivityID, before.Date)
	if moved {
		s.invalidate(ctx, b.ActivityID, b.Date)
	}
	eventType := events.BookingUpdated
	if b.Status == booking.StatusCancelled && before.Status != booking.StatusCancelled {
		eventType = events.BookingCancelled
	}
	s.publish(ctx, eventType, b)

	s.logger.Info("booking updated",
		zap.String("booking_id", id),
		zap.String("status", string(b.Status)),
	)
	return b, nil
}

// CancelBooking releases the booking's capacity. Cancelling twice returns
// the booking unchanged.
func (s *BookingService) CancelBooking(ctx context.Context, id string) (*booking.Booking, error) {
	defer s.locks.Lock(id)()

	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status == booking.StatusCancelled {
		return b, nil
	}
	previous := b.Status
	b.Status = booking.StatusCancelled
	stampStatus(b, previous)

	if err := s.bookings.Update(ctx, b, -1); err != nil {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}

	s.invalidate(ctx, b.ActivityID, b.Date)
	s.publish(ctx, events.BookingCancelled, b)

	s.logger.Info("booking cancelled",
		zap.String("booking_id", id),
		zap.String("activity_id", b.ActivityID),
		zap.String("date", b.Date),
	)
	return b, nil
}

func (s *BookingService) DeleteBooking(ctx context.Context, id string) error {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.bookings.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, b.ActivityID, b.Date)
	s.publish(ctx, events.BookingDeleted, b)

	s.logger.Info("booking deleted", zap.String("booking_id", id))
	return nil
}

func (s *BookingService) resolveAgent(ctx context.Context, agentID *string) error {
	if agentID == nil || *agentID == "" {
		return nil
	}
	if _, err := s.agents.FindByID(ctx, *agentID); err != nil {
		return err
	}
	return nil
}

// stampStatus keeps cancelled_at in step with the status.
func stampStatus(b *booking.Booking, previous booking.Status) {
	switch {
	case b.Status == booking.StatusCancelled && previous != booking.StatusCancelled:
		now := time.Now().UTC()
		b.CancelledAt = &now
	case b.Status != booking.StatusCancelled:
		b.CancelledAt = nil
	}
}

func (s *BookingService) invalidate(ctx context.Context, activityID, date string) {
	if err := s.cache.Invalidate(ctx, activityID, date); err != nil {
		s.logger.Warn("failed to invalidate availability cache",
			zap.String("activity_id", activityID),
			zap.String("date", date),
			zap.Error(err),
		)
	}
}

// publish never fails the request; delivery problems are logged.
func (s *BookingService) publish(ctx context.Context, t events.Type, b *booking.Booking) {
	if err := s.publisher.Publish(ctx, events.NewBookingEvent(t, b)); err != nil {
		s.logger.Warn("failed to publish booking event",
			zap.String("type", string(t)),
			zap.String("booking_id", b.ID),
			zap.Error(err),
		)
	}
}
