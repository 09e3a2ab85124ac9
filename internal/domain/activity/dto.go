// internal/domain/activity/dto.go
package activity

import (
	"activity-booking-service/internal/pkg/pagination"
	"activity-booking-service/internal/pkg/ptr"
)

type TimeSlotInput struct {
	ID          string `json:"id" binding:"omitempty,max=64"`
	Label       string `json:"label" binding:"omitempty,max=100"`
	StartTime   string `json:"start_time" binding:"required,hhmm"`
	EndTime     string `json:"end_time" binding:"required,hhmm"`
	MaxCapacity *int   `json:"max_capacity" binding:"required,min=0"`
}

type CreateActivityRequest struct {
	Name            string          `json:"name" binding:"required,max=255"`
	Description     *string         `json:"description" binding:"omitempty,max=5000"`
	Category        *string         `json:"category" binding:"omitempty,max=100"`
	Location        *string         `json:"location" binding:"omitempty,max=255"`
	PricePerPerson  float64         `json:"price_per_person" binding:"min=0"`
	Currency        *string         `json:"currency" binding:"omitempty,len=3,uppercase"`
	DurationMinutes *int            `json:"duration_minutes" binding:"omitempty,min=1"`
	IsActive        *bool           `json:"is_active"`
	Recurrence      *string         `json:"recurrence" binding:"omitempty,max=255"`
	TimeSlots       []TimeSlotInput `json:"time_slots" binding:"omitempty,dive"`
}

type UpdateActivityRequest struct {
	Name            *string         `json:"name" binding:"omitempty,min=1,max=255"`
	Description     *string         `json:"description" binding:"omitempty,max=5000"`
	Category        *string         `json:"category" binding:"omitempty,max=100"`
	Location        *string         `json:"location" binding:"omitempty,max=255"`
	PricePerPerson  *float64        `json:"price_per_person" binding:"omitempty,min=0"`
	Currency        *string         `json:"currency" binding:"omitempty,len=3,uppercase"`
	DurationMinutes *int            `json:"duration_minutes" binding:"omitempty,min=1"`
	IsActive        *bool           `json:"is_active"`
	Recurrence      *string         `json:"recurrence" binding:"omitempty,max=255"`
	TimeSlots       []TimeSlotInput `json:"time_slots" binding:"omitempty,dive"`
}

type ActivityListQuery struct {
	pagination.ListQuery
	Category string `form:"category"`
}

// Filters converts the bound query into repository filters.
func (q *ActivityListQuery) Filters() ListFilters {
	return ListFilters{
		IsActive: q.Active(),
		Search:   q.Search,
		Category: q.Category,
	}
}

// AvailabilityQuery is the query string of the per-date availability endpoint.
type AvailabilityQuery struct {
	Date         string `form:"date" binding:"required,ymd"`
	Participants *int   `form:"participants" binding:"omitempty,min=1"`
}

// CalendarQuery is the query string of the date-range calendar endpoint.
type CalendarQuery struct {
	From string `form:"from" binding:"required,ymd"`
	To   string `form:"to" binding:"required,ymd"`
}

// ToActivity builds the entity to store. Slot ids are resolved by the
// service.
func (r *CreateActivityRequest) ToActivity() *Activity {
	a := &Activity{
		Name:            r.Name,
		Description:     ptr.Clone(r.Description),
		Category:        ptr.Clone(r.Category),
		Location:        ptr.Clone(r.Location),
		PricePerPerson:  r.PricePerPerson,
		Currency:        DefaultCurrency,
		DurationMinutes: ptr.Clone(r.DurationMinutes),
		IsActive:        true,
		Recurrence:      ptr.Clone(r.Recurrence),
		TimeSlots:       ToSlots(r.TimeSlots),
	}
	if r.Currency != nil {
		a.Currency = *r.Currency
	}
	if r.IsActive != nil {
		a.IsActive = *r.IsActive
	}
	return a
}

// Apply copies the supplied fields onto a. A present time_slots list
// replaces the whole slot set.
func (r *UpdateActivityRequest) Apply(a *Activity) {
	if r.Name != nil {
		a.Name = *r.Name
	}
	if r.Description != nil {
		a.Description = ptr.Clone(r.Description)
	}
	if r.Category != nil {
		a.Category = ptr.Clone(r.Category)
	}
	if r.Location != nil {
		a.Location = ptr.Clone(r.Location)
	}
	if r.PricePerPerson != nil {
		a.PricePerPerson = *r.PricePerPerson
	}
	if r.Currency != nil {
		a.Currency = *r.Currency
	}
	if r.DurationMinutes != nil {
		a.DurationMinutes = ptr.Clone(r.DurationMinutes)
	}
	if r.IsActive != nil {
		a.IsActive = *r.IsActive
	}
	if r.Recurrence != nil {
		a.Recurrence = ptr.Clone(r.Recurrence)
		if *r.Recurrence == "" {
			a.Recurrence = nil
		}
	}
	if r.TimeSlots != nil {
		a.TimeSlots = ToSlots(r.TimeSlots)
	}
}

// ToSlots converts slot inputs, keeping their order. Always non-nil.
func ToSlots(in []TimeSlotInput) []TimeSlot {
	out := make([]TimeSlot, 0, len(in))
	for _, s := range in {
		out = append(out, TimeSlot{
			ID:          s.ID,
			Label:       s.Label,
			StartTime:   s.StartTime,
			EndTime:     s.EndTime,
			MaxCapacity: ptr.Value(s.MaxCapacity),
		})
	}
	return out
}
