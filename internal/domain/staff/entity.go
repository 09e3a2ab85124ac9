// internal/domain/staff/entity.go
package staff

import (
	"context"
	"sort"
	"time"

	"activity-booking-service/internal/domain/people"
	"activity-booking-service/internal/pkg/ptr"
)

// Staff is a guide or instructor who runs activities.
type Staff struct {
	ID string `json:"id"`
	people.Profile
	UnavailableDates []string `json:"unavailable_dates"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a copy that shares no memory with s.
func (s Staff) Clone() Staff {
	s.Profile = s.Profile.Clone()
	s.UnavailableDates = ptr.CloneSlice(s.UnavailableDates)
	return s
}

// IsUnavailableOn reports whether date is listed as unavailable.
func (s *Staff) IsUnavailableOn(date string) bool {
	i := sort.SearchStrings(s.UnavailableDates, date)
	return i < len(s.UnavailableDates) && s.UnavailableDates[i] == date
}

// AddUnavailableDates merges dates into the sorted set.
func (s *Staff) AddUnavailableDates(dates ...string) {
	s.UnavailableDates = NormalizeDates(append(ptr.CloneSlice(s.UnavailableDates), dates...))
}

// RemoveUnavailableDate drops date and reports whether it was present.
func (s *Staff) RemoveUnavailableDate(date string) bool {
	if !s.IsUnavailableOn(date) {
		return false
	}
	out := make([]string, 0, len(s.UnavailableDates)-1)
	for _, d := range s.UnavailableDates {
		if d != date {
			out = append(out, d)
		}
	}
	s.UnavailableDates = out
	return true
}

// NormalizeDates sorts and de-duplicates YYYY-MM-DD strings. Lexical order
// is chronological for that layout.
func NormalizeDates(dates []string) []string {
	out := people.Dedupe(dates)
	sort.Strings(out)
	return out
}

type Repository interface {
	people.EmailChecker

	// Create fails with xerrors.ErrEmailTaken when the email is already
	// used by an agent or a staff member.
	Create(ctx context.Context, s *Staff) error
	FindByID(ctx context.Context, id string) (*Staff, error)
	List(ctx context.Context, filters people.ListFilters) ([]Staff, error)
	Update(ctx context.Context, s *Staff) error
	Delete(ctx context.Context, id string) error
}
