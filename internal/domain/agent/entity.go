// internal/domain/agent/entity.go
package agent

import (
	"context"
	"time"

	"activity-booking-service/internal/domain/people"
)

// Agent sells activities on behalf of an agency.
type Agent struct {
	ID string `json:"id"`
	people.Profile

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a copy that shares no memory with a.
func (a Agent) Clone() Agent {
	a.Profile = a.Profile.Clone()
	return a
}

type Repository interface {
	people.EmailChecker

	// Create fails with xerrors.ErrEmailTaken when the email is already
	// used by an agent or a staff member.
	Create(ctx context.Context, a *Agent) error
	FindByID(ctx context.Context, id string) (*Agent, error)
	List(ctx context.Context, filters people.ListFilters) ([]Agent, error)
	Update(ctx context.Context, a *Agent) error
	Delete(ctx context.Context, id string) error
}
