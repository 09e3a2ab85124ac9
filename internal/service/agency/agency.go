package agency

import (
	"context"
	"fmt"

	"activity-booking-service/internal/domain/agency"
	"activity-booking-service/internal/pkg/keylock"
	"activity-booking-service/internal/pkg/pagination"

	"go.uber.org/zap"
)

// DefaultPageSize applies when a list request omits limit.
const DefaultPageSize = 10

type AgencyService struct {
	repo   agency.Repository
	logger *zap.Logger

	// locks serializes read-modify-write per record id.
	locks keylock.Locker
}

func NewAgencyService(repo agency.Repository, logger *zap.Logger) *AgencyService {
	return &AgencyService{
		repo:   repo,
		logger: logger,
	}
}

func (s *AgencyService) CreateAgency(ctx context.Context, req *agency.CreateAgencyRequest) (*agency.Agency, error) {
	a := req.ToAgency()
	if err := s.repo.Create(ctx, a); err != nil {
		s.logger.Error("failed to create agency", zap.Error(err))
		return nil, fmt.Errorf("failed to create agency: %w", err)
	}

	s.logger.Info("agency created",
		zap.String("agency_id", a.ID),
		zap.String("name", a.Name),
	)
	return a, nil
}

func (s *AgencyService) GetAgency(ctx context.Context, id string) (*agency.Agency, error) {
	return s.repo.FindByID(ctx, id)
}

// ListAgencies filters, then paginates in insertion order.
func (s *AgencyService) ListAgencies(ctx context.Context, filters agency.ListFilters, params pagination.Params) (pagination.Page[agency.Agency], error) {
	items, err := s.repo.List(ctx, filters)
	if err != nil {
		return pagination.Page[agency.Agency]{}, fmt.Errorf("failed to list agencies: %w", err)
	}
	return pagination.Paginate(items, params.Page, params.Limit), nil
}

func (s *AgencyService) UpdateAgency(ctx context.Context, id string, req *agency.UpdateAgencyRequest) (*agency.Agency, error) {
	defer s.locks.Lock(id)()

	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Apply(a)

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to update agency: %w", err)
	}

	s.logger.Info("agency updated", zap.String("agency_id", id))
	return a, nil
}

// SetActive toggles is_active. Repeating the same state is not an error.
func (s *AgencyService) SetActive(ctx context.Context, id string, active bool) (*agency.Agency, error) {
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
		return nil, fmt.Errorf("failed to update agency: %w", err)
	}

	s.logger.Info("agency status changed",
		zap.String("agency_id", id),
		zap.Bool("is_active", active),
	)
	return a, nil
}

// DeleteAgency removes the agency. Agents and staff keep their agency_id.
func (s *AgencyService) DeleteAgency(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("agency deleted", zap.String("agency_id", id))
	return nil
}
