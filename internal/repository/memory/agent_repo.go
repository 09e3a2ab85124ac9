package memory

import (
	"context"

	"activity-booking-service/internal/domain/agent"
	"activity-booking-service/internal/domain/people"
	xerrors "activity-booking-service/internal/pkg/errors"
	"activity-booking-service/internal/pkg/ids"
)

type AgentRepository struct {
	store *Store
}

func NewAgentRepository(store *Store) *AgentRepository {
	return &AgentRepository{store: store}
}

// EmailExists checks agents and staff alike. Matching is exact.
func (r *AgentRepository) EmailExists(ctx context.Context, email, excludeID string) (bool, error) {
	r.store.peopleMu.RLock()
	defer r.store.peopleMu.RUnlock()
	return r.store.emailTakenLocked(email, excludeID), nil
}

func (r *AgentRepository) Create(ctx context.Context, a *agent.Agent) error {
	s := r.store
	s.peopleMu.Lock()
	defer s.peopleMu.Unlock()

	if s.emailTakenLocked(a.Email, "") {
		return xerrors.ErrEmailTaken
	}
	a.ID = ids.New()
	a.CreatedAt = s.now()
	a.UpdatedAt = a.CreatedAt
	s.agents.insert(a.ID, a.Clone())
	return nil
}

func (r *AgentRepository) FindByID(ctx context.Context, id string) (*agent.Agent, error) {
	s := r.store
	s.peopleMu.RLock()
	defer s.peopleMu.RUnlock()

	a, ok := s.agents.get(id)
	if !ok {
		return nil, xerrors.NotFound("agent")
	}
	out := a.Clone()
	return &out, nil
}

func (r *AgentRepository) List(ctx context.Context, filters people.ListFilters) ([]agent.Agent, error) {
	s := r.store
	s.peopleMu.RLock()
	defer s.peopleMu.RUnlock()

	out := []agent.Agent{}
	s.agents.each(func(a agent.Agent) bool {
		if filters.Matches(a.Profile) {
			out = append(out, a.Clone())
		}
		return true
	})
	return out, nil
}

func (r *AgentRepository) Update(ctx context.Context, a *agent.Agent) error {
	s := r.store
	s.peopleMu.Lock()
	defer s.peopleMu.Unlock()

	current, ok := s.agents.get(a.ID)
	if !ok {
		return xerrors.NotFound("agent")
	}
	if a.Email != current.Email && s.emailTakenLocked(a.Email, a.ID) {
		return xerrors.ErrEmailTaken
	}
	a.CreatedAt = current.CreatedAt
	a.UpdatedAt = s.now()
	s.agents.replace(a.ID, a.Clone())
	return nil
}

func (r *AgentRepository) Delete(ctx context.Context, id string) error {
	s := r.store
	s.peopleMu.Lock()
	defer s.peopleMu.Unlock()

	if !s.agents.remove(id) {
		return xerrors.NotFound("agent")
	}
	return nil
}
