package staff

import (
	"context"
	"fmt"

	"activity-booking-service/internal/domain/people"
	"activity-booking-service/internal/domain/staff"
	xerrors "activity-booking-service/internal/pkg/errors"
	"activity-booking-service/internal/pkg/keylock"
	"activity-booking-service/internal/pkg/pagination"
	peoplesvc "activity-booking-service/internal/service/people"

	"go.uber.org/zap"
)

const DefaultPageSize = 10

type StaffService struct {
	repo   staff.Repository
	guard  *peoplesvc.Guard
	logger *zap.Logger

	// locks serializes read-modify-write per record id.
	locks keylock.Locker
}

func NewStaffService(repo staff.Repository, guard *peoplesvc.Guard, logger *zap.Logger) *StaffService {
	return &StaffService{
		repo:   repo,
		guard:  guard,
		logger: logger,
	}
}

func (s *StaffService) CreateStaff(ctx context.Context, req *staff.CreateStaffRequest) (*staff.Staff, error) {
	st := req.ToStaff()
	if err := s.guard.CheckProfile(ctx, &st.Profile, ""); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, st); err != nil {
		s.logger.Error("failed to create activity staff", zap.String("email", st.Email), zap.Error(err))
		return nil, fmt.Errorf("failed to create activity staff: %w", err)
	}

	s.logger.Info("activity staff created",
		zap.String("staff_id", st.ID),
		zap.String("email", st.Email),
	)
	return st, nil
}

func (s *StaffService) GetStaff(ctx context.Context, id string) (*staff.Staff, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *StaffService) ListStaff(ctx context.Context, filters people.ListFilters, params pagination.Params) (pagination.Page[staff.Staff], error) {
	items, err := s.repo.List(ctx, filters)
	if err != nil {
		return pagination.Page[staff.Staff]{}, fmt.Errorf("failed to list activity staff: %w", err)
	}
	return pagination.Paginate(items, params.Page, params.Limit), nil
}

// ListAvailable returns active staff who are not marked unavailable on date,
// optionally restricted to one agency.
func (s *StaffService) ListAvailable(ctx context.Context, date, agencyID string) ([]staff.Staff, error) {
	active := true
	items, err := s.repo.List(ctx, people.ListFilters{IsActive: &active, AgencyID: agencyID})
	if err != nil {
		return nil, fmt.Errorf("failed to list activity staff: %w", err)
	}
	return pagination.Filter(items, func(st staff.Staff) bool {
		return !st.IsUnavailableOn(date)
	}), nil
}

func (s *StaffService) UpdateStaff(ctx context.Context, id string, req *staff.UpdateStaffRequest) (*staff.Staff, error) {
	defer s.locks.Lock(id)()

	st, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != st.Email {
		if err := s.guard.CheckEmail(ctx, *req.Email, id); err != nil {
			return nil, err
		}
	}
	if err := s.guard.ResolveAgency(ctx, req.AgencyID); err != nil {
		return nil, err
	}
	req.Apply(st)

	if err := s.repo.Update(ctx, st); err != nil {
		return nil, fmt.Errorf("failed to update activity staff: %w", err)
	}

	s.logger.Info("activity staff updated", zap.String("staff_id", id))
	return st, nil
}

// AddUnavailableDates merges dates into the staff member's sorted set.
func (s *StaffService) AddUnavailableDates(ctx context.Context, id string, dates []string) (*staff.Staff, error) {
	defer s.locks.Lock(id)()

	st, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	st.AddUnavailableDates(dates...)

	if err := s.repo.Update(ctx, st); err != nil {
		return nil, fmt.Errorf("failed to update activity staff: %w", err)
	}

	s.logger.Info("unavailable dates added",
		zap.String("staff_id", id),
		zap.Strings("dates", dates),
	)
	return st, nil
}

// RemoveUnavailableDate fails with not-found when date was not listed.
func (s *StaffService) RemoveUnavailableDate(ctx context.Context, id, date string) (*staff.Staff, error) {
	defer s.locks.Lock(id)()

	st, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !st.RemoveUnavailableDate(date) {
		return nil, xerrors.NotFound("unavailable date")
	}

	if err := s.repo.Update(ctx, st); err != nil {
		return nil, fmt.Errorf("failed to update activity staff: %w", err)
	}

	s.logger.Info("unavailable date removed",
		zap.String("staff_id", id),
		zap.String("date", date),
	)
	return st, nil
}

func (s *StaffService) SetActive(ctx context.Context, id string, active bool) (*staff.Staff, error) {
	defer s.locks.Lock(id)()

	st, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if st.IsActive == active {
		return st, nil
	}
	st.IsActive = active

	if err := s.repo.Update(ctx, st); err != nil {
		return nil, fmt.Errorf("failed to update activity staff: %w", err)
	}

	s.logger.Info("activity staff status changed",
		zap.String("staff_id", id),
		zap.Bool("is_active", active),
	)
	return st, nil
}

func (s *StaffService) DeleteStaff(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("activity staff deleted", zap.String("staff_id", id))
	return nil
}
