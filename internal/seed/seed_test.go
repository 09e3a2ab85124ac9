package seed

import (
	"context"
	"testing"

	"activity-booking-service/internal/cache"
	"activity-booking-service/internal/domain/booking"
	"activity-booking-service/internal/domain/people"
	"activity-booking-service/internal/events"
	xerrors "activity-booking-service/internal/pkg/errors"
	"activity-booking-service/internal/pkg/pagination"
	"activity-booking-service/internal/repository/memory"
	activitysvc "activity-booking-service/internal/service/activity"
	agencysvc "activity-booking-service/internal/service/agency"
	agentsvc "activity-booking-service/internal/service/agent"
	bookingsvc "activity-booking-service/internal/service/booking"
	peoplesvc "activity-booking-service/internal/service/people"
	staffsvc "activity-booking-service/internal/service/staff"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newServices() Services {
	store := memory.NewStore()
	agencies := memory.NewAgencyRepository(store)
	agents := memory.NewAgentRepository(store)
	staffRepo := memory.NewStaffRepository(store)
	activities := memory.NewActivityRepository(store)
	logger := zap.NewNop()

	return Services{
		Agencies:   agencysvc.NewAgencyService(agencies, logger),
		Agents:     agentsvc.NewAgentService(agents, peoplesvc.NewGuard(agents, agencies), logger),
		Staff:      staffsvc.NewStaffService(staffRepo, peoplesvc.NewGuard(staffRepo, agencies), logger),
		Activities: activitysvc.NewActivityService(activities, cache.Nop{}, logger),
		Bookings: bookingsvc.NewBookingService(
			memory.NewBookingRepository(store), activities, agents, cache.Nop{}, events.Nop{}, logger,
		),
	}
}

func TestLoadFile_Example(t *testing.T) {
	svc := newServices()
	ctx := context.Background()

	res, err := NewLoader(svc, zap.NewNop()).LoadFile(ctx, "../../configs/seed.example.yaml")
	require.NoError(t, err)
	assert.Equal(t, &Result{Agencies: 1, Agents: 1, Staff: 1, Activities: 1, Bookings: 1}, res)

	page, err := svc.Bookings.ListBookings(ctx, booking.ListFilters{}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	b := page.Items[0]
	assert.Equal(t, 180.0, b.TotalPrice)
	assert.NotEmpty(t, b.AgentID)

	agents, err := svc.Agents.ListAgents(ctx, people.ListFilters{}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, agents.Items, 1)
	assert.NotNil(t, agents.Items[0].AgencyID)
}

func TestLoad_UnquotedDatesAreKept(t *testing.T) {
	doc := []byte(`
staff:
  - name: Kai
    email: kai@example.com
    unavailable_dates: [2024-07-01, 2024-06-30]
`)
	svc := newServices()
	res, err := NewLoader(svc, zap.NewNop()).Load(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Staff)

	available, err := svc.Staff.ListAvailable(context.Background(), "2024-07-01", "")
	require.NoError(t, err)
	assert.Empty(t, available)
}

func TestLoad_Errors(t *testing.T) {
	cases := map[string]string{
		"unknown reference": `
agents:
  - agency: nowhere
    name: Ana
    email: ana@example.com
`,
		"validation": `
agencies:
  - description: missing name
`,
		"unknown field": `
agencies:
  - name: Acme
    colour: red
`,
		"bad yaml": `agencies: [`,
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewLoader(newServices(), zap.NewNop()).Load(context.Background(), []byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad_ServiceRulesApply(t *testing.T) {
	doc := []byte(`
agents:
  - name: Ana
    email: same@example.com
staff:
  - name: Ben
    email: same@example.com
`)
	_, err := NewLoader(newServices(), zap.NewNop()).Load(context.Background(), doc)
	assert.ErrorIs(t, err, xerrors.ErrConflict)
}
