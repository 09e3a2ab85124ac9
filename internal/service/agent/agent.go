package agent

import (
	"context"
	"fmt"

	"activity-booking-service/internal/domain/agent"
	"activity-booking-service/internal/domain/people"
	"activity-booking-service/internal/pkg/keylock"
	"activity-booking-service/internal/pkg/pagination"
	peoplesvc "activity-booking-service/internal/service/people"

	"go.uber.org/zap"
)

const DefaultPageSize = 10

type AgentService struct {
	repo   agent.Repository
	guard  *peoplesvc.Guard
	logger *zap.Logger

	// locks serializes read-modify-write per record id.
	locks keylock.Locker
}

func NewAgentService(repo agent.Repository, guard *peoplesvc.Guard, logger *zap.Logger) *AgentService {
	return &AgentService{
		repo:   repo,
		guard:  guard,
		logger: logger,
	}
}

// CreateAgent rejects emails used by any agent or staff member and unknown
// agency ids.
func (s *AgentService) CreateAgent(ctx context.Context, req *agent.CreateAgentRequest) (*agent.Agent, error) {
	a := req.ToAgent()
	if err := s.guard.CheckProfile(ctx, &a.Profile, ""); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, a); err != nil {
		s.logger.Error("failed to create agent", zap.String("email", a.Email), zap.Error(err))
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}

	s.logger.Info("agent created",
		zap.String("agent_id", a.ID),
		zap.String("email", a.Email),
	)
	return a, nil
}

func (s *AgentService) GetAgent(ctx context.Context, id string) (*agent.Agent, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *AgentService) ListAgents(ctx context.Context, filters people.ListFilters, params pagination.Params) (pagination.Page[agent.Agent], error) {
	items, err := s.repo.List(ctx, filters)
	if err != nil {
		return pagination.Page[agent.Agent]{}, fmt.Errorf("failed to list agents: %w", err)
	}
	return pagination.Paginate(items, params.Page, params.Limit), nil
}

func (s *AgentService) UpdateAgent(ctx context.Context, id string, req *agent.UpdateAgentRequest) (*agent.Agent, error) {
	defer s.locks.Lock(id)()

	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != a.Email {
		if err := s.guard.CheckEmail(ctx, *req.Email, id); err != nil {
			return nil, err
		}
	}
	if err := s.guard.ResolveAgency(ctx, req.AgencyID); err != nil {
		return nil, err
	}
	req.Apply(a)

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to update agent: %w", err)
	}

	s.logger.Info("agent updated", zap.String("agent_id", id))
	return a, nil
}

func (s *AgentService) SetActive(ctx context.Context, id string, active bool) (*agent.Agent, error) {
	defer s.locks.Lock(id)()

	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.IsActive == active {
		return a, nil
	}
	a.IsActive = active

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to update agent: %w", err)
	}

	s.logger.Info("agent status changed",
		zap.String("agent_id", id),
		zap.Bool("is_active", active),
	)
	return a, nil
}

func (s *AgentService) DeleteAgent(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("agent deleted", zap.String("agent_id", id))
	return nil
}
