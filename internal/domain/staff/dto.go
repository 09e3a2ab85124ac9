// internal/domain/staff/dto.go
package staff

import (
	"activity-booking-service/internal/domain/people"
	"activity-booking-service/internal/pkg/pagination"
)

type CreateStaffRequest struct {
	people.ProfileInput
	UnavailableDates []string `json:"unavailable_dates" binding:"omitempty,dive,ymd"`
}

type UpdateStaffRequest struct {
	people.ProfilePatch
	UnavailableDates []string `json:"unavailable_dates" binding:"omitempty,dive,ymd"`
}

type StaffListQuery struct {
	pagination.ListQuery
	AgencyID string `form:"agency_id"`
}

// Filters converts the bound query into repository filters.
func (q *StaffListQuery) Filters() people.ListFilters {
	return people.ListFilters{
		IsActive: q.Active(),
		Search:   q.Search,
		AgencyID: q.AgencyID,
	}
}

type UnavailableDatesRequest struct {
	Dates []string `json:"dates" binding:"required,min=1,dive,ymd"`
}

type AvailableStaffQuery struct {
	Date     string `form:"date" binding:"required,ymd"`
	AgencyID string `form:"agency_id"`
}

// ToStaff builds the entity to store.
func (r *CreateStaffRequest) ToStaff() *Staff {
	return &Staff{
		Profile:          r.ToProfile(),
		UnavailableDates: NormalizeDates(r.UnavailableDates),
	}
}

// Apply copies the supplied fields onto s.
func (r *UpdateStaffRequest) Apply(s *Staff) {
	r.ProfilePatch.Apply(&s.Profile)
	if r.UnavailableDates != nil {
		s.UnavailableDates = NormalizeDates(r.UnavailableDates)
	}
}
