package memory

import (
	"context"

	"activity-booking-service/internal/domain/agency"
	xerrors "activity-booking-service/internal/pkg/errors"
	"activity-booking-service/internal/pkg/ids"
)

type AgencyRepository struct {
	store *Store
}

func NewAgencyRepository(store *Store) *AgencyRepository {
	return &AgencyRepository{store: store}
}

// Create assigns id and timestamps and stores a copy of a.
func (r *AgencyRepository) Create(ctx context.Context, a *agency.Agency) error {
	s := r.store
	s.agenciesMu.Lock()
	defer s.agenciesMu.Unlock()

	a.ID = ids.New()
	a.CreatedAt = s.now()
	a.UpdatedAt = a.CreatedAt
	s.agencies.insert(a.ID, a.Clone())
	return nil
}

func (r *AgencyRepository) FindByID(ctx context.Context, id string) (*agency.Agency, error) {
	s := r.store
	s.agenciesMu.RLock()
	defer s.agenciesMu.RUnlock()

	a, ok := s.agencies.get(id)
	if !ok {
		return nil, xerrors.NotFound("agency")
	}
	out := a.Clone()
	return &out, nil
}

func (r *AgencyRepository) List(ctx context.Context, filters agency.ListFilters) ([]agency.Agency, error) {
	s := r.store
	s.agenciesMu.RLock()
	defer s.agenciesMu.RUnlock()

	out := []agency.Agency{}
	s.agencies.each(func(a agency.Agency) bool {
		if filters.Matches(a) {
			out = append(out, a.Clone())
		}
		return true
	})
	return out, nil
}

// Update replaces the stored record, keeping its creation time.
func (r *AgencyRepository) Update(ctx context.Context, a *agency.Agency) error {
	s := r.store
	s.agenciesMu.Lock()
	defer s.agenciesMu.Unlock()

	current, ok := s.agencies.get(a.ID)
	if !ok {
		return xerrors.NotFound("agency")
	}
	a.CreatedAt = current.CreatedAt
	a.UpdatedAt = s.now()
	s.agencies.replace(a.ID, a.Clone())
	return nil
}

func (r *AgencyRepository) Delete(ctx context.Context, id string) error {
	s := r.store
	s.agenciesMu.Lock()
	defer s.agenciesMu.Unlock()

	if !s.agencies.remove(id) {
		return xerrors.NotFound("agency")
	}
	return nil
}
