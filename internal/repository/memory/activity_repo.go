package memory

import (
	"context"

	"activity-booking-service/internal/domain/activity"
	xerrors "activity-booking-service/internal/pkg/errors"
	"activity-booking-service/internal/pkg/ids"
)

type ActivityRepository struct {
	store *Store
}

func NewActivityRepository(store *Store) *ActivityRepository {
	return &ActivityRepository{store: store}
}

// Create assigns id and timestamps and stores a copy of a.
func (r *ActivityRepository) Create(ctx context.Context, a *activity.Activity) error {
	s := r.store
	s.activitiesMu.Lock()
	defer s.activitiesMu.Unlock()

	a.ID = ids.New()
	a.CreatedAt = s.now()
	a.UpdatedAt = a.CreatedAt
	s.activities.insert(a.ID, a.Clone())
	return nil
}

func (r *ActivityRepository) FindByID(ctx context.Context, id string) (*activity.Activity, error) {
	s := r.store
	s.activitiesMu.RLock()
	defer s.activitiesMu.RUnlock()

	a, ok := s.activities.get(id)
	if !ok {
		return nil, xerrors.NotFound("activity")
	}
	out := a.Clone()
	return &out, nil
}

func (r *ActivityRepository) List(ctx context.Context, filters activity.ListFilters) ([]activity.Activity, error) {
	s := r.store
	s.activitiesMu.RLock()
	defer s.activitiesMu.RUnlock()

	out := []activity.Activity{}
	s.activities.each(func(a activity.Activity) bool {
		if filters.Matches(a) {
			out = append(out, a.Clone())
		}
		return true
	})
	return out, nil
}

// Update replaces the stored record, keeping its creation time.
func (r *ActivityRepository) Update(ctx context.Context, a *activity.Activity) error {
	s := r.store
	s.activitiesMu.Lock()
	defer s.activitiesMu.Unlock()

	current, ok := s.activities.get(a.ID)
	if !ok {
		return xerrors.NotFound("activity")
	}
	a.CreatedAt = current.CreatedAt
	a.UpdatedAt = s.now()
	s.activities.replace(a.ID, a.Clone())
	return nil
}

func (r *ActivityRepository) Delete(ctx context.Context, id string) error {
	s := r.store
	s.activitiesMu.Lock()
	defer s.activitiesMu.Unlock()

	if !s.activities.remove(id) {
		return xerrors.NotFound("activity")
	}
	return nil
}
