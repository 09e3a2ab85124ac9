// Package memory is the default, volatile repository backend. A Store is
// constructed once at process start and shared by the repositories built on
// it; every collection serializes its own mutations.
package memory

import (
	"sync"
	"time"

	"activity-booking-service/internal/domain/activity"
	"activity-booking-service/internal/domain/agency"
	"activity-booking-service/internal/domain/agent"
	"activity-booking-service/internal/domain/booking"
	"activity-booking-service/internal/domain/staff"
)

// table keeps rows in insertion order.
type table[T any] struct {
	order []string
	rows  map[string]T
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]T)}
}

func (t *table[T]) insert(id string, v T) {
	t.order = append(t.order, id)
	t.rows[id] = v
}

func (t *table[T]) get(id string) (T, bool) {
	v, ok := t.rows[id]
	return v, ok
}

func (t *table[T]) replace(id string, v T) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	t.rows[id] = v
	return true
}

func (t *table[T]) remove(id string) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	for i, oid := range t.order {
		if oid == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

// each visits rows in insertion order until fn returns false.
func (t *table[T]) each(fn func(T) bool) {
	for _, id := range t.order {
		if !fn(t.rows[id]) {
			return
		}
	}
}

type Store struct {
	agenciesMu sync.RWMutex
	agencies   *table[agency.Agency]

	// peopleMu guards agents and staff together: they share one email
	// namespace.
	peopleMu sync.RWMutex
	agents   *table[agent.Agent]
	staff    *table[staff.Staff]

	activitiesMu sync.RWMutex
	activities   *table[activity.Activity]

	bookingsMu sync.RWMutex
	bookings   *table[booking.Booking]

	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces the source of created_at/updated_at timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		agencies:   newTable[agency.Agency](),
		agents:     newTable[agent.Agent](),
		staff:      newTable[staff.Staff](),
		activities: newTable[activity.Activity](),
		bookings:   newTable[booking.Booking](),
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// emailTakenLocked reports whether email belongs to an agent or staff
// member other than excludeID. Callers hold peopleMu.
func (s *Store) emailTakenLocked(email, excludeID string) bool {
	taken := false
	s.agents.each(func(a agent.Agent) bool {
		taken = a.ID != excludeID && a.Email == email
		return !taken
	})
	if taken {
		return true
	}
	s.staff.each(func(st staff.Staff) bool {
		taken = st.ID != excludeID && st.Email == email
		return !taken
	})
	return taken
}
