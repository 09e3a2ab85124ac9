package activity

import (
	"context"
	"fmt"

	"activity-booking-service/internal/cache"
	"activity-booking-service/internal/domain/activity"
	xerrors "activity-booking-service/internal/pkg/errors"
	"activity-booking-service/internal/pkg/ids"
	"activity-booking-service/internal/pkg/keylock"
	"activity-booking-service/internal/pkg/pagination"
	"activity-booking-service/internal/service/availability"

	"go.uber.org/zap"
)

const DefaultPageSize = 50

type ActivityService struct {
	repo   activity.Repository
	cache  cache.Availability
	logger *zap.Logger

	// locks serializes read-modify-write per record id.
	locks keylock.Locker
}

func NewActivityService(repo activity.Repository, slotCache cache.Availability, logger *zap.Logger) *ActivityService {
	if slotCache == nil {
		slotCache = cache.Nop{}
	}
	return &ActivityService{
		repo:   repo,
		cache:  slotCache,
		logger: logger,
	}
}

func (s *ActivityService) CreateActivity(ctx context.Context, req *activity.CreateActivityRequest) (*activity.Activity, error) {
	a := req.ToActivity()
	if err := prepare(a); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, a); err != nil {
		s.logger.Error("failed to create activity", zap.Error(err))
		return nil, fmt.Errorf("failed to create activity: %w", err)
	}

	s.logger.Info("activity created",
		zap.String("activity_id", a.ID),
		zap.String("name", a.Name),
		zap.Int("slots", len(a.TimeSlots)),
	)
	return a, nil
}

func (s *ActivityService) GetActivity(ctx context.Context, id string) (*activity.Activity, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ActivityService) ListActivities(ctx context.Context, filters activity.ListFilters, params pagination.Params) (pagination.Page[activity.Activity], error) {
	items, err := s.repo.List(ctx, filters)
	if err != nil {
		return pagination.Page[activity.Activity]{}, fmt.Errorf("failed to list activities: %w", err)
	}
	return pagination.Paginate(items, params.Page, params.Limit), nil
}

// UpdateActivity applies a partial update. A supplied time_slots list
// replaces every slot; existing bookings keep their slot ids.
func (s *ActivityService) UpdateActivity(ctx context.Context, id string, req *activity.UpdateActivityRequest) (*activity.Activity, error) {
	defer s.locks.Lock(id)()

	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Apply(a)
	if err := prepare(a); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to update activity: %w", err)
	}
	s.invalidate(ctx, id)

	s.logger.Info("activity updated", zap.String("activity_id", id))
	return a, nil
}

func (s *ActivityService) SetActive(ctx context.Context, id string, active bool) (*activity.Activity, error) {
	defer s.locks.Lock(id)()

	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.IsActive == active {
		return a, nil
	}
	a.IsActive = active

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to update activity: %w", err)
	}
	s.invalidate(ctx, id)

	s.logger.Info("activity status changed",
		zap.String("activity_id", id),
		zap.Bool("is_active", active),
	)
	return a, nil
}

// DeleteActivity removes the activity. Its bookings are kept.
func (s *ActivityService) DeleteActivity(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)

	s.logger.Info("activity deleted", zap.String("activity_id", id))
	return nil
}

func (s *ActivityService) invalidate(ctx context.Context, id string) {
	if err := s.cache.InvalidateActivity(ctx, id); err != nil {
		s.logger.Warn("failed to invalidate availability cache",
			zap.String("activity_id", id),
			zap.Error(err),
		)
	}
}

// prepare validates what the binder cannot: slot ids unique within the
// activity, slots ending after they start, and a parseable recurrence.
// Slots without an id get a generated one.
func prepare(a *activity.Activity) error {
	if a.Recurrence != nil && *a.Recurrence == "" {
		a.Recurrence = nil
	}
	if a.Recurrence != nil {
		if _, err := availability.ParseRecurrence(*a.Recurrence); err != nil {
			return err
		}
	}

	seen := make(map[string]struct{}, len(a.TimeSlots))
	for i := range a.TimeSlots {
		slot := &a.TimeSlots[i]
		if slot.ID == "" {
			slot.ID = ids.New()
		}
		if _, dup := seen[slot.ID]; dup {
			return xerrors.Invalid("duplicate time slot id %q", slot.ID)
		}
		seen[slot.ID] = struct{}{}

		// HH:MM compares chronologically as a string.
		if slot.EndTime <= slot.StartTime {
			return xerrors.Invalid("time slot %q must end after it starts", slot.ID)
		}
	}
	return nil
}
