// internal/repository/postgres/agency_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"activity-booking-service/internal/domain/agency"
	xerrors "activity-booking-service/internal/pkg/errors"
	"activity-booking-service/internal/pkg/ids"

	"github.com/jackc/pgx/v5"
)

const agencyColumns = `id, name, description, address, phone, email, website, logo_url, is_active, created_at, updated_at`

type AgencyRepository struct {
	db *DB
}

func NewAgencyRepository(db *DB) *AgencyRepository {
	return &AgencyRepository{db: db}
}

func scanAgency(row pgx.Row) (*agency.Agency, error) {
	var a agency.Agency
	err := row.Scan(
		&a.ID, &a.Name, &a.Description, &a.Address, &a.Phone, &a.Email,
		&a.Website, &a.LogoURL, &a.IsActive, &a.CreatedAt, &a.UpdatedAt,
	)
	return &a, err
}

// Create creates a new agency
func (r *AgencyRepository) Create(ctx context.Context, a *agency.Agency) error {
	query := `
		INSERT INTO agencies (` + agencyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
	`

	a.ID = ids.New()
	a.CreatedAt = r.db.now()
	a.UpdatedAt = a.CreatedAt

	_, err := r.db.pool.Exec(ctx, query,
		a.ID, a.Name, a.Description, a.Address, a.Phone, a.Email,
		a.Website, a.LogoURL, a.IsActive, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create agency: %w", err)
	}
	return nil
}

// FindByID retrieves an agency by ID
func (r *AgencyRepository) FindByID(ctx context.Context, id string) (*agency.Agency, error) {
	query := `SELECT ` + agencyColumns + ` FROM agencies WHERE id = $1`

	a, err := scanAgency(r.db.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.NotFound("agency")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find agency: %w", err)
	}
	return a, nil
}

// List returns matching agencies in insertion order
func (r *AgencyRepository) List(ctx context.Context, filters agency.ListFilters) ([]agency.Agency, error) {
	query := `SELECT ` + agencyColumns + ` FROM agencies WHERE ($1::boolean IS NULL OR is_active = $1) ORDER BY seq`

	rows, err := r.db.pool.Query(ctx, query, filters.IsActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list agencies: %w", err)
	}
	defer rows.Close()

	out := []agency.Agency{}
	for rows.Next() {
		a, err := scanAgency(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan agency: %w", err)
		}
		if filters.Matches(*a) {
			out = append(out, *a)
		}
	}
	return out, rows.Err()
}

// Update rewrites every mutable column
func (r *AgencyRepository) Update(ctx context.Context, a *agency.Agency) error {
	query := `
		UPDATE agencies
		SET name = $2, description = $3, address = $4, phone = $5, email = $6,
		    website = $7, logo_url = $8, is_active = $9, updated_at = $10
		WHERE id = $1
		RETURNING created_at
	`

	a.UpdatedAt = r.db.now()
	err := r.db.pool.QueryRow(ctx, query,
		a.ID, a.Name, a.Description, a.Address, a.Phone, a.Email,
		a.Website, a.LogoURL, a.IsActive, a.UpdatedAt,
	).Scan(&a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return xerrors.NotFound("agency")
	}
	if err != nil {
		return fmt.Errorf("failed to update agency: %w", err)
	}
	return nil
}

func (r *AgencyRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.pool.Exec(ctx, `DELETE FROM agencies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete agency: %w", err)
	}
	return rowsAffected(tag, "agency")
}
