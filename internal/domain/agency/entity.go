// internal/domain/agency/entity.go
package agency

import (
	"context"
	"time"

	"activity-booking-service/internal/pkg/pagination"
	"activity-booking-service/internal/pkg/ptr"
)

type Agency struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Address     *string `json:"address,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Email       *string `json:"email,omitempty"`
	Website     *string `json:"website,omitempty"`
	LogoURL     *string `json:"logo_url,omitempty"`
	IsActive    bool    `json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a copy that shares no memory with a.
func (a Agency) Clone() Agency {
	a.Description = ptr.Clone(a.Description)
	a.Address = ptr.Clone(a.Address)
	a.Phone = ptr.Clone(a.Phone)
	a.Email = ptr.Clone(a.Email)
	a.Website = ptr.Clone(a.Website)
	a.LogoURL = ptr.Clone(a.LogoURL)
	return a
}

type ListFilters struct {
	IsActive *bool
	Search   string // name, description
}

// Matches reports whether a satisfies every supplied filter.
func (f ListFilters) Matches(a Agency) bool {
	if f.IsActive != nil && a.IsActive != *f.IsActive {
		return false
	}
	return pagination.ContainsFold(f.Search, a.Name, ptr.Value(a.Description))
}

type Repository interface {
	Create(ctx context.Context, a *Agency) error
	FindByID(ctx context.Context, id string) (*Agency, error)
	List(ctx context.Context, filters ListFilters) ([]Agency, error)
	Update(ctx context.Context, a *Agency) error
	Delete(ctx context.Context, id string) error
}
