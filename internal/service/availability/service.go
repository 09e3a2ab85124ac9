package availability

import (
	"context"
	"errors"
	"fmt"

	"activity-booking-service/internal/cache"
	"activity-booking-service/internal/domain/activity"
	"activity-booking-service/internal/domain/availability"
	"activity-booking-service/internal/domain/booking"
	xerrors "activity-booking-service/internal/pkg/errors"
	"activity-booking-service/internal/pkg/validation"

	"go.uber.org/zap"
)

type AvailabilityService struct {
	activities activity.Repository
	bookings   booking.Repository
	cache      cache.Availability
	logger     *zap.Logger
}

func NewAvailabilityService(
	activities activity.Repository,
	bookings booking.Repository,
	slotCache cache.Availability,
	logger *zap.Logger,
) *AvailabilityService {
	if slotCache == nil {
		slotCache = cache.Nop{}
	}
	return &AvailabilityService{
		activities: activities,
		bookings:   bookings,
		cache:      slotCache,
		logger:     logger,
	}
}

// GetSlotAvailabilityForDate computes the slot list of an existing activity.
// It does not check is_active; ForDate does.
func (s *AvailabilityService) GetSlotAvailabilityForDate(ctx context.Context, activityID, date string) ([]availability.SlotAvailability, error) {
	a, err := s.activities.FindByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	return s.slotsFor(ctx, a, date)
}

func (s *AvailabilityService) slotsFor(ctx context.Context, a *activity.Activity, date string) ([]availability.SlotAvailability, error) {
	cached, ok, err := s.cache.Get(ctx, a.ID, date)
	if err != nil {
		s.logger.Warn("availability cache read failed",
			zap.String("activity_id", a.ID),
			zap.String("date", date),
			zap.Error(err),
		)
	}
	if ok {
		return cached, nil
	}

	// The version must be read before the bookings so a write landing in
	// between makes the fill below a no-op.
	version, err := s.cache.Version(ctx, a.ID, date)
	cacheable := err == nil
	if err != nil {
		s.logger.Warn("availability cache version read failed",
			zap.String("activity_id", a.ID),
			zap.String("date", date),
			zap.Error(err),
		)
	}

	bookings, err := s.bookings.List(ctx, booking.ListFilters{ActivityID: a.ID, Date: date})
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}
	slots := Calculate(a, bookings, date)

	if !cacheable {
		return slots, nil
	}
	switch err := s.cache.Set(ctx, a.ID, date, version, slots); {
	case errors.Is(err, cache.ErrStale):
		s.logger.Debug("availability changed during fill, not cached",
			zap.String("activity_id", a.ID),
			zap.String("date", date),
		)
	case err != nil:
		s.logger.Warn("availability cache write failed",
			zap.String("activity_id", a.ID),
			zap.Error(err),
		)
	}
	return slots, nil
}

// ForDate builds the per-date availability payload. The summary always
// covers every slot; participants only narrows the returned list.
func (s *AvailabilityService) ForDate(ctx context.Context, activityID, date string, participants *int) (*availability.DateAvailability, error) {
	if !validation.IsDate(date) {
		return nil, xerrors.Invalid("date must be in YYYY-MM-DD format")
	}

	a, err := s.activities.FindByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if !a.IsActive {
		return nil, xerrors.Inactive("activity")
	}

	slots, err := s.slotsFor(ctx, a, date)
	if err != nil {
		return nil, err
	}

	out := &availability.DateAvailability{
		ActivityID:   a.ID,
		ActivityName: a.Name,
		Date:         date,
		Participants: participants,
		Slots:        slots,
		Summary:      Summarize(slots),
	}
	if participants != nil {
		out.Slots = FilterByParticipants(slots, *participants)
	}
	return out, nil
}

// Calendar summarizes every date in [from, to] on which the activity runs.
func (s *AvailabilityService) Calendar(ctx context.Context, activityID, from, to string) (*availability.Calendar, error) {
	start, end, err := parseRange(from, to)
	if err != nil {
		return nil, err
	}

	a, err := s.activities.FindByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if !a.IsActive {
		return nil, xerrors.Inactive("activity")
	}

	dates, err := occurrences(a.Recurrence, start, end)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookings.List(ctx, booking.ListFilters{ActivityID: a.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}

	cal := &availability.Calendar{
		ActivityID: a.ID,
		From:       from,
		To:         to,
		Days:       make([]availability.CalendarDay, 0, len(dates)),
	}
	if a.Recurrence != nil {
		cal.Recurrence = *a.Recurrence
	}
	for _, d := range dates {
		cal.Days = append(cal.Days, availability.CalendarDay{
			Date:    d,
			Summary: Summarize(Calculate(a, bookings, d)),
		})
	}
	return cal, nil
}
