// internal/repository/postgres/people.go
package postgres

import (
	"context"
	"fmt"

	"activity-booking-service/internal/domain/people"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
)

// peopleEmailLock serializes writes to the email namespace shared by
// agents and activity_staff.
const peopleEmailLock = "people.email"

const profileColumns = `name, email, phone, avatar_url, bio, languages, specialties,
	hourly_rate, max_hours_per_day, is_active, agency_id`

func profileArgs(p *people.Profile) []interface{} {
	return []interface{}{
		p.Name, p.Email, p.Phone, p.AvatarURL, p.Bio,
		pq.Array(nonNil(p.Languages)), pq.Array(nonNil(p.Specialties)),
		p.HourlyRate, p.MaxHoursPerDay, p.IsActive, p.AgencyID,
	}
}

func profileDest(p *people.Profile) []interface{} {
	return []interface{}{
		&p.Name, &p.Email, &p.Phone, &p.AvatarURL, &p.Bio,
		pq.Array(&p.Languages), pq.Array(&p.Specialties),
		&p.HourlyRate, &p.MaxHoursPerDay, &p.IsActive, &p.AgencyID,
	}
}

// emailTaken checks both tables. Matching is exact.
func emailTaken(ctx context.Context, q querier, email, excludeID string) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM agents WHERE email = $1 AND id <> $2)
		    OR EXISTS (SELECT 1 FROM activity_staff WHERE email = $1 AND id <> $2)
	`

	var taken bool
	if err := q.QueryRow(ctx, query, email, excludeID).Scan(&taken); err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return taken, nil
}

// lockEmails takes the namespace lock and reports whether email is in use.
func lockEmails(ctx context.Context, tx pgx.Tx, email, excludeID string) (bool, error) {
	if err := advisoryLock(ctx, tx, peopleEmailLock); err != nil {
		return false, err
	}
	return emailTaken(ctx, tx, email, excludeID)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
