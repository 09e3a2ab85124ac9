package memory

import (
	"context"

	"activity-booking-service/internal/domain/people"
	"activity-booking-service/internal/domain/staff"
	xerrors "activity-booking-service/internal/pkg/errors"
	"activity-booking-service/internal/pkg/ids"
)

type StaffRepository struct {
	store *Store
}

func NewStaffRepository(store *Store) *StaffRepository {
	return &StaffRepository{store: store}
}

// EmailExists checks agents and staff alike. Matching is exact.
func (r *StaffRepository) EmailExists(ctx context.Context, email, excludeID string) (bool, error) {
	r.store.peopleMu.RLock()
	defer r.store.peopleMu.RUnlock()
	return r.store.emailTakenLocked(email, excludeID), nil
}

func (r *StaffRepository) Create(ctx context.Context, st *staff.Staff) error {
	s := r.store
	s.peopleMu.Lock()
	defer s.peopleMu.Unlock()

	if s.emailTakenLocked(st.Email, "") {
		return xerrors.ErrEmailTaken
	}
	st.ID = ids.New()
	st.CreatedAt = s.now()
	st.UpdatedAt = st.CreatedAt
	s.staff.insert(st.ID, st.Clone())
	return nil
}

func (r *StaffRepository) FindByID(ctx context.Context, id string) (*staff.Staff, error) {
	s := r.store
	s.peopleMu.RLock()
	defer s.peopleMu.RUnlock()

	st, ok := s.staff.get(id)
	if !ok {
		return nil, xerrors.NotFound("activity staff")
	}
	out := st.Clone()
	return &out, nil
}

func (r *StaffRepository) List(ctx context.Context, filters people.ListFilters) ([]staff.Staff, error) {
	s := r.store
	s.peopleMu.RLock()
	defer s.peopleMu.RUnlock()

	out := []staff.Staff{}
	s.staff.each(func(st staff.Staff) bool {
		if filters.Matches(st.Profile) {
			out = append(out, st.Clone())
		}
		return true
	})
	return out, nil
}

func (r *StaffRepository) Update(ctx context.Context, st *staff.Staff) error {
	s := r.store
	s.peopleMu.Lock()
	defer s.peopleMu.Unlock()

	current, ok := s.staff.get(st.ID)
	if !ok {
		return xerrors.NotFound("activity staff")
	}
	if st.Email != current.Email && s.emailTakenLocked(st.Email, st.ID) {
		return xerrors.ErrEmailTaken
	}
	st.CreatedAt = current.CreatedAt
	st.UpdatedAt = s.now()
	s.staff.replace(st.ID, st.Clone())
	return nil
}

func (r *StaffRepository) Delete(ctx context.Context, id string) error {
	s := r.store
	s.peopleMu.Lock()
	defer s.peopleMu.Unlock()

	if !s.staff.remove(id) {
		return xerrors.NotFound("activity staff")
	}
	return nil
}
