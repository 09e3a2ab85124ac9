package agency

import (
	"context"
	"sync"
	"testing"
	"time"

	"activity-booking-service/internal/domain/agency"
	xerrors "activity-booking-service/internal/pkg/errors"
	"activity-booking-service/internal/pkg/pagination"
	"activity-booking-service/internal/pkg/ptr"
	"activity-booking-service/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type tickingClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *tickingClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Minute)
	return c.t
}

func newService() *AgencyService {
	clock := &tickingClock{t: time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)}
	store := memory.NewStore(memory.WithClock(clock.now))
	return NewAgencyService(memory.NewAgencyRepository(store), zap.NewNop())
}

func coastRequest() *agency.CreateAgencyRequest {
	return &agency.CreateAgencyRequest{
		Name:        "Coast Adventures",
		Description: ptr.Of("Kayak and surf trips"),
		Phone:       ptr.Of("+1 555 0100"),
		Email:       ptr.Of("hello@coast.example"),
	}
}

func TestCreateAgency_ActiveByDefault(t *testing.T) {
	a, err := newService().CreateAgency(context.Background(), coastRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.True(t, a.IsActive)
	assert.Equal(t, a.CreatedAt, a.UpdatedAt)
}

func TestUpdateAgency_OnlySuppliedFieldsChange(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	created, err := svc.CreateAgency(ctx, coastRequest())
	require.NoError(t, err)

	updated, err := svc.UpdateAgency(ctx, created.ID, &agency.UpdateAgencyRequest{Phone: ptr.Of("+1 555 0199")})
	require.NoError(t, err)

	assert.Equal(t, "+1 555 0199", *updated.Phone)
	assert.Equal(t, created.Name, updated.Name)
	assert.Equal(t, created.Description, updated.Description)
	assert.Equal(t, created.Email, updated.Email)
	assert.Equal(t, created.IsActive, updated.IsActive)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt), "updated_at refreshes")

	stored, err := svc.GetAgency(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, stored)
}

func TestUpdateAgency_NotFound(t *testing.T) {
	_, err := newService().UpdateAgency(context.Background(), "missing", &agency.UpdateAgencyRequest{Name: ptr.Of("x")})
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestSetActive_FiltersList(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	a, err := svc.CreateAgency(ctx, coastRequest())
	require.NoError(t, err)
	_, err = svc.CreateAgency(ctx, &agency.CreateAgencyRequest{Name: "Mountain Guides"})
	require.NoError(t, err)

	_, err = svc.SetActive(ctx, a.ID, false)
	require.NoError(t, err)

	active := true
	page, err := svc.ListAgencies(ctx, agency.ListFilters{IsActive: &active}, pagination.Params{Page: 1, Limit: DefaultPageSize})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Mountain Guides", page.Items[0].Name)
}
