// internal/repository/postgres/activity_repo.go
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"activity-booking-service/internal/domain/activity"
	xerrors "activity-booking-service/internal/pkg/errors"
	"activity-booking-service/internal/pkg/ids"

	"github.com/jackc/pgx/v5"
)

const activitySelect = `
	SELECT id, name, description, category, location, price_per_person, currency,
	       duration_minutes, is_active, recurrence, time_slots, created_at, updated_at
	FROM activities
`

type ActivityRepository struct {
	db *DB
}

func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func scanActivity(row pgx.Row) (*activity.Activity, error) {
	var a activity.Activity
	var slotsJSON []byte

	err := row.Scan(
		&a.ID, &a.Name, &a.Description, &a.Category, &a.Location, &a.PricePerPerson, &a.Currency,
		&a.DurationMinutes, &a.IsActive, &a.Recurrence, &slotsJSON, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.TimeSlots = []activity.TimeSlot{}
	if len(slotsJSON) > 0 {
		if err := json.Unmarshal(slotsJSON, &a.TimeSlots); err != nil {
			return nil, fmt.Errorf("failed to unmarshal time slots: %w", err)
		}
	}
	return &a, nil
}

func marshalSlots(slots []activity.TimeSlot) ([]byte, error) {
	if slots == nil {
		slots = []activity.TimeSlot{}
	}
	data, err := json.Marshal(slots)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal time slots: %w", err)
	}
	return data, nil
}

func (r *ActivityRepository) Create(ctx context.Context, a *activity.Activity) error {
	query := `
		INSERT INTO activities (
			id, name, description, category, location, price_per_person, currency,
			duration_minutes, is_active, recurrence, time_slots, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
	`

	slotsJSON, err := marshalSlots(a.TimeSlots)
	if err != nil {
		return err
	}

	a.ID = ids.New()
	a.CreatedAt = r.db.now()
	a.UpdatedAt = a.CreatedAt

	_, err = r.db.pool.Exec(ctx, query,
		a.ID, a.Name, a.Description, a.Category, a.Location, a.PricePerPerson, a.Currency,
		a.DurationMinutes, a.IsActive, a.Recurrence, slotsJSON, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}
	return nil
}

func (r *ActivityRepository) FindByID(ctx context.Context, id string) (*activity.Activity, error) {
	a, err := scanActivity(r.db.pool.QueryRow(ctx, activitySelect+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.NotFound("activity")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find activity: %w", err)
	}
	return a, nil
}

func (r *ActivityRepository) List(ctx context.Context, filters activity.ListFilters) ([]activity.Activity, error) {
	query := activitySelect + ` WHERE ($1::boolean IS NULL OR is_active = $1) ORDER BY seq`

	rows, err := r.db.pool.Query(ctx, query, filters.IsActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	out := []activity.Activity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		if filters.Matches(*a) {
			out = append(out, *a)
		}
	}
	return out, rows.Err()
}

func (r *ActivityRepository) Update(ctx context.Context, a *activity.Activity) error {
	query := `
		UPDATE activities
		SET name = $2, description = $3, category = $4, location = $5,
		    price_per_person = $6, currency = $7, duration_minutes = $8,
		    is_active = $9, recurrence = $10, time_slots = $11, updated_at = $12
		WHERE id = $1
		RETURNING created_at
	`

	slotsJSON, err := marshalSlots(a.TimeSlots)
	if err != nil {
		return err
	}

	a.UpdatedAt = r.db.now()
	err = r.db.pool.QueryRow(ctx, query,
		a.ID, a.Name, a.Description, a.Category, a.Location, a.PricePerPerson, a.Currency,
		a.DurationMinutes, a.IsActive, a.Recurrence, slotsJSON, a.UpdatedAt,
	).Scan(&a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return xerrors.NotFound("activity")
	}
	if err != nil {
		return fmt.Errorf("failed to update activity: %w", err)
	}
	return nil
}

// Delete removes the activity only; its bookings stay.
func (r *ActivityRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.pool.Exec(ctx, `DELETE FROM activities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	return rowsAffected(tag, "activity")
}
