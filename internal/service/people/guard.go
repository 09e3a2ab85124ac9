// Package people holds the checks shared by the agent and staff services.
package people

import (
	"context"
	"fmt"

	"activity-booking-service/internal/domain/agency"
	"activity-booking-service/internal/domain/people"
	xerrors "activity-booking-service/internal/pkg/errors"
)

// Guard enforces the email namespace and the agency reference of a profile.
type Guard struct {
	emails   people.EmailChecker
	agencies agency.Repository
}

func NewGuard(emails people.EmailChecker, agencies agency.Repository) *Guard {
	return &Guard{emails: emails, agencies: agencies}
}

// CheckEmail fails with ErrEmailTaken when email belongs to any agent or
// staff member other than excludeID.
func (g *Guard) CheckEmail(ctx context.Context, email, excludeID string) error {
	exists, err := g.emails.EmailExists(ctx, email, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return xerrors.ErrEmailTaken
	}
	return nil
}

// ResolveAgency verifies that a supplied agency id exists. Nil is allowed.
func (g *Guard) ResolveAgency(ctx context.Context, agencyID *string) error {
	if agencyID == nil || *agencyID == "" {
		return nil
	}
	if _, err := g.agencies.FindByID(ctx, *agencyID); err != nil {
		return err
	}
	return nil
}

// CheckProfile runs both checks for a profile about to be stored.
func (g *Guard) CheckProfile(ctx context.Context, p *people.Profile, excludeID string) error {
	if err := g.CheckEmail(ctx, p.Email, excludeID); err != nil {
		return err
	}
	return g.ResolveAgency(ctx, p.AgencyID)
}
