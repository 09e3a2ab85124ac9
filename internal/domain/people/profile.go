// Package people holds the profile shared by agents and activity staff.
// Both collections live in one email namespace.
package people

import (
	"context"

	"activity-booking-service/internal/pkg/pagination"
	"activity-booking-service/internal/pkg/ptr"
)

// DefaultMaxHoursPerDay applies when a create request leaves it unset.
const DefaultMaxHoursPerDay = 8

type Profile struct {
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Phone          *string  `json:"phone,omitempty"`
	AvatarURL      *string  `json:"avatar_url,omitempty"`
	Bio            *string  `json:"bio,omitempty"`
	Languages      []string `json:"languages"`
	Specialties    []string `json:"specialties"`
	HourlyRate     *float64 `json:"hourly_rate,omitempty"`
	MaxHoursPerDay int      `json:"max_hours_per_day"`
	IsActive       bool     `json:"is_active"`
	AgencyID       *string  `json:"agency_id,omitempty"`
}

// Clone returns a copy that shares no memory with p.
func (p Profile) Clone() Profile {
	p.Phone = ptr.Clone(p.Phone)
	p.AvatarURL = ptr.Clone(p.AvatarURL)
	p.Bio = ptr.Clone(p.Bio)
	p.Languages = ptr.CloneSlice(p.Languages)
	p.Specialties = ptr.CloneSlice(p.Specialties)
	p.HourlyRate = ptr.Clone(p.HourlyRate)
	p.AgencyID = ptr.Clone(p.AgencyID)
	return p
}

// EmailChecker answers uniqueness questions over the combined agent and
// staff namespace. excludeID skips the record being updated.
type EmailChecker interface {
	EmailExists(ctx context.Context, email, excludeID string) (bool, error)
}

// ProfileInput is the create payload shared by agents and staff.
type ProfileInput struct {
	Name           string   `json:"name" binding:"required,max=255"`
	Email          string   `json:"email" binding:"required,email,max=255"`
	Phone          *string  `json:"phone" binding:"omitempty,max=30"`
	AvatarURL      *string  `json:"avatar_url" binding:"omitempty,url,max=500"`
	Bio            *string  `json:"bio" binding:"omitempty,max=2000"`
	Languages      []string `json:"languages" binding:"omitempty,dive,min=1,max=50"`
	Specialties    []string `json:"specialties" binding:"omitempty,dive,min=1,max=100"`
	HourlyRate     *float64 `json:"hourly_rate" binding:"omitempty,min=0"`
	MaxHoursPerDay *int     `json:"max_hours_per_day" binding:"omitempty,min=1,max=24"`
	IsActive       *bool    `json:"is_active"`
	AgencyID       *string  `json:"agency_id" binding:"omitempty,min=1"`
}

// ToProfile applies defaults. Languages and specialties are treated as sets.
func (in *ProfileInput) ToProfile() Profile {
	p := Profile{
		Name:           in.Name,
		Email:          in.Email,
		Phone:          ptr.Clone(in.Phone),
		AvatarURL:      ptr.Clone(in.AvatarURL),
		Bio:            ptr.Clone(in.Bio),
		Languages:      Dedupe(in.Languages),
		Specialties:    Dedupe(in.Specialties),
		HourlyRate:     ptr.Clone(in.HourlyRate),
		MaxHoursPerDay: DefaultMaxHoursPerDay,
		IsActive:       true,
		AgencyID:       ptr.Clone(in.AgencyID),
	}
	if in.MaxHoursPerDay != nil {
		p.MaxHoursPerDay = *in.MaxHoursPerDay
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	return p
}

// ProfilePatch is the partial update payload. Nil means "leave unchanged".
type ProfilePatch struct {
	Name           *string  `json:"name" binding:"omitempty,min=1,max=255"`
	Email          *string  `json:"email" binding:"omitempty,email,max=255"`
	Phone          *string  `json:"phone" binding:"omitempty,max=30"`
	AvatarURL      *string  `json:"avatar_url" binding:"omitempty,url,max=500"`
	Bio            *string  `json:"bio" binding:"omitempty,max=2000"`
	Languages      []string `json:"languages" binding:"omitempty,dive,min=1,max=50"`
	Specialties    []string `json:"specialties" binding:"omitempty,dive,min=1,max=100"`
	HourlyRate     *float64 `json:"hourly_rate" binding:"omitempty,min=0"`
	MaxHoursPerDay *int     `json:"max_hours_per_day" binding:"omitempty,min=1,max=24"`
	IsActive       *bool    `json:"is_active"`
	AgencyID       *string  `json:"agency_id" binding:"omitempty,min=1"`
}

// Apply copies the supplied fields onto p.
func (in *ProfilePatch) Apply(p *Profile) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Email != nil {
		p.Email = *in.Email
	}
	if in.Phone != nil {
		p.Phone = ptr.Clone(in.Phone)
	}
	if in.AvatarURL != nil {
		p.AvatarURL = ptr.Clone(in.AvatarURL)
	}
	if in.Bio != nil {
		p.Bio = ptr.Clone(in.Bio)
	}
	if in.Languages != nil {
		p.Languages = Dedupe(in.Languages)
	}
	if in.Specialties != nil {
		p.Specialties = Dedupe(in.Specialties)
	}
	if in.HourlyRate != nil {
		p.HourlyRate = ptr.Clone(in.HourlyRate)
	}
	if in.MaxHoursPerDay != nil {
		p.MaxHoursPerDay = *in.MaxHoursPerDay
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if in.AgencyID != nil {
		p.AgencyID = ptr.Clone(in.AgencyID)
	}
}

// ListFilters are the filters shared by agent and staff listings.
type ListFilters struct {
	IsActive *bool
	Search   string // name, email, bio
	AgencyID string
}

// Matches reports whether p satisfies every supplied filter.
func (f ListFilters) Matches(p Profile) bool {
	if f.IsActive != nil && p.IsActive != *f.IsActive {
		return false
	}
	if f.AgencyID != "" && ptr.Value(p.AgencyID) != f.AgencyID {
		return false
	}
	return f.Search == "" || pagination.ContainsFold(f.Search, p.Name, p.Email, ptr.Value(p.Bio))
}

// Dedupe keeps the first occurrence of each value, preserving order. Always
// returns a non-nil slice.
func Dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
