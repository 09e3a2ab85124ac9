// internal/repository/postgres/agent_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"activity-booking-service/internal/domain/agent"
	"activity-booking-service/internal/domain/people"
	xerrors "activity-booking-service/internal/pkg/errors"
	"activity-booking-service/internal/pkg/ids"

	"github.com/jackc/pgx/v5"
)

type AgentRepository struct {
	db *DB
}

func NewAgentRepository(db *DB) *AgentRepository {
	return &AgentRepository{db: db}
}

func scanAgent(row pgx.Row) (*agent.Agent, error) {
	var a agent.Agent
	dest := append([]interface{}{&a.ID}, profileDest(&a.Profile)...)
	dest = append(dest, &a.CreatedAt, &a.UpdatedAt)
	return &a, row.Scan(dest...)
}

func (r *AgentRepository) EmailExists(ctx context.Context, email, excludeID string) (bool, error) {
	return emailTaken(ctx, r.db.pool, email, excludeID)
}

// Create inserts the agent unless its email is used by any agent or staff
// member.
func (r *AgentRepository) Create(ctx context.Context, a *agent.Agent) error {
	query := `
		INSERT INTO agents (id, ` + profileColumns + `, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)
	`

	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		taken, err := lockEmails(ctx, tx, a.Email, "")
		if err != nil {
			return err
		}
		if taken {
			return xerrors.ErrEmailTaken
		}

		a.ID = ids.New()
		a.CreatedAt = r.db.now()
		a.UpdatedAt = a.CreatedAt

		args := append([]interface{}{a.ID}, profileArgs(&a.Profile)...)
		args = append(args, a.CreatedAt)
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to create agent: %w", err)
		}
		return nil
	})
}

func (r *AgentRepository) FindByID(ctx context.Context, id string) (*agent.Agent, error) {
	query := `SELECT id, ` + profileColumns + `, created_at, updated_at FROM agents WHERE id = $1`

	a, err := scanAgent(r.db.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.NotFound("agent")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find agent: %w", err)
	}
	return a, nil
}

func (r *AgentRepository) List(ctx context.Context, filters people.ListFilters) ([]agent.Agent, error) {
	query := `SELECT id, ` + profileColumns + `, created_at, updated_at FROM agents ORDER BY seq`

	rows, err := r.db.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	defer rows.Close()

	out := []agent.Agent{}
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan agent: %w", err)
		}
		if filters.Matches(a.Profile) {
			out = append(out, *a)
		}
	}
	return out, rows.Err()
}

func (r *AgentRepository) Update(ctx context.Context, a *agent.Agent) error {
	query := `
		UPDATE agents
		SET name = $2, email = $3, phone = $4, avatar_url = $5, bio = $6,
		    languages = $7, specialties = $8, hourly_rate = $9,
		    max_hours_per_day = $10, is_active = $11, agency_id = $12,
		    updated_at = $13
		WHERE id = $1
		RETURNING created_at
	`

	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		taken, err := lockEmails(ctx, tx, a.Email, a.ID)
		if err != nil {
			return err
		}
		if taken {
			return xerrors.ErrEmailTaken
		}

		a.UpdatedAt = r.db.now()
		args := append([]interface{}{a.ID}, profileArgs(&a.Profile)...)
		args = append(args, a.UpdatedAt)

		err = tx.QueryRow(ctx, query, args...).Scan(&a.CreatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return xerrors.NotFound("agent")
		}
		if err != nil {
			return fmt.Errorf("failed to update agent: %w", err)
		}
		return nil
	})
}

func (r *AgentRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.pool.Exec(ctx, `DELETE FROM agents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete agent: %w", err)
	}
	return rowsAffected(tag, "agent")
}
