// internal/domain/activity/entity.go
package activity

import (
	"context"
	"time"

	"activity-booking-service/internal/pkg/pagination"
	"activity-booking-service/internal/pkg/ptr"
)

// DefaultCurrency applies when a create request leaves currency unset.
const DefaultCurrency = "USD"

// TimeSlot is a bookable unit of an activity with a fixed capacity per date.
type TimeSlot struct {
	ID          string `json:"id"`
	Label       string `json:"label,omitempty"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	MaxCapacity int    `json:"max_capacity"`
}

type Activity struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Description     *string    `json:"description,omitempty"`
	Category        *string    `json:"category,omitempty"`
	Location        *string    `json:"location,omitempty"`
	PricePerPerson  float64    `json:"price_per_person"`
	Currency        string     `json:"currency"`
	DurationMinutes *int       `json:"duration_minutes,omitempty"`
	IsActive        bool       `json:"is_active"`
	Recurrence      *string    `json:"recurrence,omitempty"` // RRULE, e.g. FREQ=WEEKLY;BYDAY=SA,SU
	TimeSlots       []TimeSlot `json:"time_slots"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a copy that shares no memory with a.
func (a Activity) Clone() Activity {
	a.Description = ptr.Clone(a.Description)
	a.Category = ptr.Clone(a.Category)
	a.Location = ptr.Clone(a.Location)
	a.DurationMinutes = ptr.Clone(a.DurationMinutes)
	a.Recurrence = ptr.Clone(a.Recurrence)
	a.TimeSlots = ptr.CloneSlice(a.TimeSlots)
	return a
}

// Slot looks up a slot by id.
func (a *Activity) Slot(id string) (TimeSlot, bool) {
	for _, s := range a.TimeSlots {
		if s.ID == id {
			return s, true
		}
	}
	return TimeSlot{}, false
}

type ListFilters struct {
	IsActive *bool
	Search   string // name, description, category, location
	Category string
}

// Matches reports whether a satisfies every supplied filter.
func (f ListFilters) Matches(a Activity) bool {
	if f.IsActive != nil && a.IsActive != *f.IsActive {
		return false
	}
	if f.Category != "" && ptr.Value(a.Category) != f.Category {
		return false
	}
	return pagination.ContainsFold(f.Search,
		a.Name, ptr.Value(a.Description), ptr.Value(a.Category), ptr.Value(a.Location))
}

type Repository interface {
	Create(ctx context.Context, a *Activity) error
	FindByID(ctx context.Context, id string) (*Activity, error)
	List(ctx context.Context, filters ListFilters) ([]Activity, error)
	Update(ctx context.Context, a *Activity) error
	Delete(ctx context.Context, id string) error
}
