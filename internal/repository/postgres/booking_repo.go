// internal/repository/postgres/booking_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"activity-booking-service/internal/domain/booking"
	xerrors "activity-booking-service/internal/pkg/errors"
	"activity-booking-service/internal/pkg/ids"

	"github.com/jackc/pgx/v5"
)

const bookingSelect = `
	SELECT id, activity_id, slot_id, date, participant_count, status, agent_id,
	       customer_name, customer_email, customer_phone, notes, total_price,
	       cancelled_at, created_at, updated_at
	FROM bookings
`

type BookingRepository struct {
	db *DB
}

func NewBookingRepository(db *DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func scanBooking(row pgx.Row) (*booking.Booking, error) {
	var b booking.Booking
	var status string

	err := row.Scan(
		&b.ID, &b.ActivityID, &b.SlotID, &b.Date, &b.ParticipantCount, &status, &b.AgentID,
		&b.CustomerName, &b.CustomerEmail, &b.CustomerPhone, &b.Notes, &b.TotalPrice,
		&b.CancelledAt, &b.CreatedAt, &b.UpdatedAt,
	)
	b.Status = booking.Status(status)
	return &b, err
}

// slotLockKey names the advisory lock guarding one slot on one date.
func slotLockKey(b *booking.Booking) string {
	return "booking:" + b.ActivityID + ":" + b.SlotID + ":" + b.Date
}

// checkCapacity locks b's slot and date, then sums the other non-cancelled
// bookings. A negative capacity skips the check.
func checkCapacity(ctx context.Context, tx pgx.Tx, b *booking.Booking, excludeID string, capacity int) error {
	if capacity < 0 || b.HeldParticipants() == 0 {
		return nil
	}
	if err := advisoryLock(ctx, tx, slotLockKey(b)); err != nil {
		return err
	}

	query := `
		SELECT COALESCE(SUM(participant_count), 0)
		FROM bookings
		WHERE activity_id = $1 AND slot_id = $2 AND date = $3
		  AND status <> $4 AND id <> $5
	`

	var held int
	err := tx.QueryRow(ctx, query,
		b.ActivityID, b.SlotID, b.Date, string(booking.StatusCancelled), excludeID,
	).Scan(&held)
	if err != nil {
		return fmt.Errorf("failed to sum slot bookings: %w", err)
	}
	if held+b.HeldParticipants() > capacity {
		return xerrors.ErrCapacityExceeded
	}
	return nil
}

// Create inserts b unless it would overbook its slot.
func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking, capacity int) error {
	query := `
		INSERT INTO bookings (
			id, activity_id, slot_id, date, participant_count, status, agent_id,
			customer_name, customer_email, customer_phone, notes, total_price,
			cancelled_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14)
	`

	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		if err := checkCapacity(ctx, tx, b, "", capacity); err != nil {
			return err
		}

		b.ID = ids.New()
		b.CreatedAt = r.db.now()
		b.UpdatedAt = b.CreatedAt

		_, err := tx.Exec(ctx, query,
			b.ID, b.ActivityID, b.SlotID, b.Date, b.ParticipantCount, string(b.Status), b.AgentID,
			b.CustomerName, b.CustomerEmail, b.CustomerPhone, b.Notes, b.TotalPrice,
			b.CancelledAt, b.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}
		return nil
	})
}

func (r *BookingRepository) FindByID(ctx context.Context, id string) (*booking.Booking, error) {
	b, err := scanBooking(r.db.pool.QueryRow(ctx, bookingSelect+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.NotFound("booking")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return b, nil
}

// List narrows by the equality filters in SQL; search is applied by Matches.
func (r *BookingRepository) List(ctx context.Context, filters booking.ListFilters) ([]booking.Booking, error) {
	query := bookingSelect + `
		WHERE ($1 = '' OR activity_id = $1)
		  AND ($2 = '' OR slot_id = $2)
		  AND ($3 = '' OR date = $3)
		  AND ($4 = '' OR status = $4)
		ORDER BY seq
	`

	rows, err := r.db.pool.Query(ctx, query,
		filters.ActivityID, filters.SlotID, filters.Date, string(filters.Status),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	out := []booking.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		if filters.Matches(*b) {
			out = append(out, *b)
		}
	}
	return out, rows.Err()
}

// Update rewrites b unless the new state would overbook its slot.
func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking, capacity int) error {
	query := `
		UPDATE bookings
		SET slot_id = $2, date = $3, participant_count = $4, status = $5, agent_id = $6,
		    customer_name = $7, customer_email = $8, customer_phone = $9, notes = $10,
		    total_price = $11, cancelled_at = $12, updated_at = $13
		WHERE id = $1
		RETURNING created_at
	`

	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		if err := checkCapacity(ctx, tx, b, b.ID, capacity); err != nil {
			return err
		}

		b.UpdatedAt = r.db.now()
		err := tx.QueryRow(ctx, query,
			b.ID, b.SlotID, b.Date, b.ParticipantCount, string(b.Status), b.AgentID,
			b.CustomerName, b.CustomerEmail, b.CustomerPhone, b.Notes,
			b.TotalPrice, b.CancelledAt, b.UpdatedAt,
		).Scan(&b.CreatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return xerrors.NotFound("booking")
		}
		if err != nil {
			return fmt.Errorf("failed to update booking: %w", err)
		}
		return nil
	})
}

func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.pool.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	return rowsAffected(tag, "booking")
}
