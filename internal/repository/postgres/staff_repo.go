// internal/repository/postgres/staff_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"activity-booking-service/internal/domain/people"
	"activity-booking-service/internal/domain/staff"
	xerrors "activity-booking-service/internal/pkg/errors"
	"activity-booking-service/internal/pkg/ids"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
)

const staffSelect = `SELECT id, ` + profileColumns + `, unavailable_dates, created_at, updated_at FROM activity_staff`

type StaffRepository struct {
	db *DB
}

func NewStaffRepository(db *DB) *StaffRepository {
	return &StaffRepository{db: db}
}

func scanStaff(row pgx.Row) (*staff.Staff, error) {
	var s staff.Staff
	dest := append([]interface{}{&s.ID}, profileDest(&s.Profile)...)
	dest = append(dest, pq.Array(&s.UnavailableDates), &s.CreatedAt, &s.UpdatedAt)
	return &s, row.Scan(dest...)
}

func (r *StaffRepository) EmailExists(ctx context.Context, email, excludeID string) (bool, error) {
	return emailTaken(ctx, r.db.pool, email, excludeID)
}

func (r *StaffRepository) Create(ctx context.Context, s *staff.Staff) error {
	query := `
		INSERT INTO activity_staff (id, ` + profileColumns + `, unavailable_dates, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14)
	`

	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		taken, err := lockEmails(ctx, tx, s.Email, "")
		if err != nil {
			return err
		}
		if taken {
			return xerrors.ErrEmailTaken
		}

		s.ID = ids.New()
		s.CreatedAt = r.db.now()
		s.UpdatedAt = s.CreatedAt

		args := append([]interface{}{s.ID}, profileArgs(&s.Profile)...)
		args = append(args, pq.Array(nonNil(s.UnavailableDates)), s.CreatedAt)
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to create staff member: %w", err)
		}
		return nil
	})
}

func (r *StaffRepository) FindByID(ctx context.Context, id string) (*staff.Staff, error) {
	s, err := scanStaff(r.db.pool.QueryRow(ctx, staffSelect+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.NotFound("activity staff")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find staff member: %w", err)
	}
	return s, nil
}

func (r *StaffRepository) List(ctx context.Context, filters people.ListFilters) ([]staff.Staff, error) {
	rows, err := r.db.pool.Query(ctx, staffSelect+` ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	defer rows.Close()

	out := []staff.Staff{}
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan staff member: %w", err)
		}
		if filters.Matches(s.Profile) {
			out = append(out, *s)
		}
	}
	return out, rows.Err()
}

func (r *StaffRepository) Update(ctx context.Context, s *staff.Staff) error {
	query := `
		UPDATE activity_staff
		SET name = $2, email = $3, phone = $4, avatar_url = $5, bio = $6,
		    languages = $7, specialties = $8, hourly_rate = $9,
		    max_hours_per_day = $10, is_active = $11, agency_id = $12,
		    unavailable_dates = $13, updated_at = $14
		WHERE id = $1
		RETURNING created_at
	`

	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		taken, err := lockEmails(ctx, tx, s.Email, s.ID)
		if err != nil {
			return err
		}
		if taken {
			return xerrors.ErrEmailTaken
		}

		s.UpdatedAt = r.db.now()
		args := append([]interface{}{s.ID}, profileArgs(&s.Profile)...)
		args = append(args, pq.Array(nonNil(s.UnavailableDates)), s.UpdatedAt)

		err = tx.QueryRow(ctx, query, args...).Scan(&s.CreatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return xerrors.NotFound("activity staff")
		}
		if err != nil {
			return fmt.Errorf("failed to update staff member: %w", err)
		}
		return nil
	})
}

func (r *StaffRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.pool.Exec(ctx, `DELETE FROM activity_staff WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete staff member: %w", err)
	}
	return rowsAffected(tag, "staff member")
}
