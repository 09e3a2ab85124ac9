package memory

import (
	"context"

	"activity-booking-service/internal/domain/booking"
	xerrors "activity-booking-service/internal/pkg/errors"
	"activity-booking-service/internal/pkg/ids"
)

type BookingRepository struct {
	store *Store
}

func NewBookingRepository(store *Store) *BookingRepository {
	return &BookingRepository{store: store}
}

// Create stores b unless it would push its slot past capacity.
func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking, capacity int) error {
	s := r.store
	s.bookingsMu.Lock()
	defer s.bookingsMu.Unlock()

	if err := r.checkCapacityLocked(b, "", capacity); err != nil {
		return err
	}
	b.ID = ids.New()
	b.CreatedAt = s.now()
	b.UpdatedAt = b.CreatedAt
	s.bookings.insert(b.ID, b.Clone())
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id string) (*booking.Booking, error) {
	s := r.store
	s.bookingsMu.RLock()
	defer s.bookingsMu.RUnlock()

	b, ok := s.bookings.get(id)
	if !ok {
		return nil, xerrors.NotFound("booking")
	}
	out := b.Clone()
	return &out, nil
}

func (r *BookingRepository) List(ctx context.Context, filters booking.ListFilters) ([]booking.Booking, error) {
	s := r.store
	s.bookingsMu.RLock()
	defer s.bookingsMu.RUnlock()

	out := []booking.Booking{}
	s.bookings.each(func(b booking.Booking) bool {
		if filters.Matches(b) {
			out = append(out, b.Clone())
		}
		return true
	})
	return out, nil
}

// Update replaces the stored record unless the new state would push its
// slot past capacity.
func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking, capacity int) error {
	s := r.store
	s.bookingsMu.Lock()
	defer s.bookingsMu.Unlock()

	current, ok := s.bookings.get(b.ID)
	if !ok {
		return xerrors.NotFound("booking")
	}
	if err := r.checkCapacityLocked(b, b.ID, capacity); err != nil {
		return err
	}
	b.CreatedAt = current.CreatedAt
	b.UpdatedAt = s.now()
	s.bookings.replace(b.ID, b.Clone())
	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	s := r.store
	s.bookingsMu.Lock()
	defer s.bookingsMu.Unlock()

	if !s.bookings.remove(id) {
		return xerrors.NotFound("booking")
	}
	return nil
}

// checkCapacityLocked sums the other non-cancelled bookings of b's slot and
// date. Callers hold bookingsMu.
func (r *BookingRepository) checkCapacityLocked(b *booking.Booking, excludeID string, capacity int) error {
	if capacity < 0 || b.HeldParticipants() == 0 {
		return nil
	}
	held := 0
	r.store.bookings.each(func(o booking.Booking) bool {
		if o.ID != excludeID && o.SameSlot(b) {
			held += o.HeldParticipants()
		}
		return true
	})
	if held+b.HeldParticipants() > capacity {
		return xerrors.ErrCapacityExceeded
	}
	return nil
}
