package activity

import (
	"context"
	"sync"
	"testing"
	"time"

	"activity-booking-service/internal/cache"
	"activity-booking-service/internal/domain/activity"
	xerrors "activity-booking-service/internal/pkg/errors"
	"activity-booking-service/internal/pkg/pagination"
	"activity-booking-service/internal/pkg/ptr"
	"activity-booking-service/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// tickingClock advances one minute per reading.
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

type recordingCache struct {
	cache.Nop
	mu          sync.Mutex
	invalidated []string
}

func (c *recordingCache) InvalidateActivity(_ context.Context, activityID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, activityID)
	return nil
}

type fixture struct {
	svc   *ActivityService
	repo  *memory.ActivityRepository
	cache *recordingCache
}

func newFixture() fixture {
	clock := &tickingClock{t: time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)}
	repo := memory.NewActivityRepository(memory.NewStore(memory.WithClock(clock.now)))
	c := &recordingCache{}
	return fixture{
		svc:   NewActivityService(repo, c, zap.NewNop()),
		repo:  repo,
		cache: c,
	}
}

func slot(id, start, end string, capacity int) activity.TimeSlotInput {
	return activity.TimeSlotInput{ID: id, StartTime: start, EndTime: end, MaxCapacity: ptr.Of(capacity)}
}

func kayakRequest() *activity.CreateActivityRequest {
	return &activity.CreateActivityRequest{
		Name:           "Sunset kayak",
		Description:    ptr.Of("Two hours along the coast"),
		PricePerPerson: 45,
		Recurrence:     ptr.Of("FREQ=WEEKLY;BYDAY=FR,SA,SU"),
		TimeSlots: []activity.TimeSlotInput{
			slot("early", "09:00", "11:00", 10),
			slot("late", "17:00", "19:00", 8),
		},
	}
}

func TestCreateActivity_Defaults(t *testing.T) {
	f := newFixture()

	a, err := f.svc.CreateActivity(context.Background(), kayakRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.True(t, a.IsActive)
	assert.Equal(t, activity.DefaultCurrency, a.Currency)
	assert.Equal(t, "FREQ=WEEKLY;BYDAY=FR,SA,SU", *a.Recurrence)
	assert.Equal(t, []string{"early", "late"}, slotIDs(a))
	assert.Equal(t, a.CreatedAt, a.UpdatedAt)
}

func TestCreateActivity_GeneratesMissingSlotIDs(t *testing.T) {
	f := newFixture()
	req := kayakRequest()
	req.TimeSlots = []activity.TimeSlotInput{
		slot("", "09:00", "10:00", 4),
		slot("noon", "12:00", "13:00", 4),
		slot("", "15:00", "16:00", 4),
	}

	a, err := f.svc.CreateActivity(context.Background(), req)
	require.NoError(t, err)

	ids := slotIDs(a)
	require.Len(t, ids, 3)
	assert.NotEmpty(t, ids[0])
	assert.Equal(t, "noon", ids[1])
	assert.NotEmpty(t, ids[2])
	assert.NotEqual(t, ids[0], ids[2])

	stored, err := f.repo.FindByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, ids, slotIDs(stored))
}

func TestCreateActivity_EmptyRecurrenceIsCleared(t *testing.T) {
	f := newFixture()
	req := kayakRequest()
	req.Recurrence = ptr.Of("")

	a, err := f.svc.CreateActivity(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, a.Recurrence)
}

func TestCreateActivity_RejectsInvalidSchedule(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*activity.CreateActivityRequest)
	}{
		{"duplicate slot id", func(r *activity.CreateActivityRequest) {
			r.TimeSlots = []activity.TimeSlotInput{slot("am", "09:00", "10:00", 2), slot("am", "11:00", "12:00", 2)}
		}},
		{"end equals start", func(r *activity.CreateActivityRequest) {
			r.TimeSlots = []activity.TimeSlotInput{slot("am", "09:00", "09:00", 2)}
		}},
		{"end before start", func(r *activity.CreateActivityRequest) {
			r.TimeSlots = []activity.TimeSlotInput{slot("am", "10:00", "09:30", 2)}
		}},
		{"unparseable recurrence", func(r *activity.CreateActivityRequest) {
			r.Recurrence = ptr.Of("FREQ=SOMETIMES")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture()
			req := kayakRequest()
			tt.mutate(req)

			_, err := f.svc.CreateActivity(ctx, req)
			assert.ErrorIs(t, err, xerrors.ErrInvalidInput)

			page, err := f.svc.ListActivities(ctx, activity.ListFilters{}, pagination.Params{Page: 1, Limit: DefaultPageSize})
			require.NoError(t, err)
			assert.Zero(t, page.Total, "nothing stored")
		})
	}
}

func TestUpdateActivity_OnlySuppliedFieldsChange(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	created, err := f.svc.CreateActivity(ctx, kayakRequest())
	require.NoError(t, err)

	updated, err := f.svc.UpdateActivity(ctx, created.ID, &activity.UpdateActivityRequest{Name: ptr.Of("Moonlit kayak")})
	require.NoError(t, err)

	assert.Equal(t, "Moonlit kayak", updated.Name)
	assert.Equal(t, created.Description, updated.Description)
	assert.Equal(t, created.PricePerPerson, updated.PricePerPerson)
	assert.Equal(t, created.Recurrence, updated.Recurrence)
	assert.Equal(t, created.TimeSlots, updated.TimeSlots)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt), "updated_at refreshes")
	assert.Equal(t, []string{created.ID}, f.cache.invalidated)

	stored, err := f.repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, stored)
}

func TestUpdateActivity_TimeSlotsReplaceList(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	created, err := f.svc.CreateActivity(ctx, kayakRequest())
	require.NoError(t, err)

	updated, err := f.svc.UpdateActivity(ctx, created.ID, &activity.UpdateActivityRequest{
		TimeSlots: []activity.TimeSlotInput{slot("dusk", "20:00", "21:30", 6)},
	})
	require.NoError(t, err)

	require.Len(t, updated.TimeSlots, 1)
	assert.Equal(t, activity.TimeSlot{ID: "dusk", StartTime: "20:00", EndTime: "21:30", MaxCapacity: 6}, updated.TimeSlots[0])
	assert.Equal(t, "Sunset kayak", updated.Name)
}

func TestUpdateActivity_InvalidPatchLeavesRecordUntouched(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	created, err := f.svc.CreateActivity(ctx, kayakRequest())
	require.NoError(t, err)

	_, err = f.svc.UpdateActivity(ctx, created.ID, &activity.UpdateActivityRequest{
		Name:      ptr.Of("Renamed"),
		TimeSlots: []activity.TimeSlotInput{slot("x", "09:00", "10:00", 1), slot("x", "10:00", "11:00", 1)},
	})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)

	_, err = f.svc.UpdateActivity(ctx, created.ID, &activity.UpdateActivityRequest{Recurrence: ptr.Of("FREQ=SOMETIMES")})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)

	stored, err := f.repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, stored)
	assert.Empty(t, f.cache.invalidated)
}

func TestUpdateActivity_ClearRecurrence(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	created, err := f.svc.CreateActivity(ctx, kayakRequest())
	require.NoError(t, err)

	updated, err := f.svc.UpdateActivity(ctx, created.ID, &activity.UpdateActivityRequest{Recurrence: ptr.Of("")})
	require.NoError(t, err)
	assert.Nil(t, updated.Recurrence)
}

func TestUpdateActivity_NotFound(t *testing.T) {
	_, err := newFixture().svc.UpdateActivity(context.Background(), "missing", &activity.UpdateActivityRequest{Name: ptr.Of("x")})
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestSetActive(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	created, err := f.svc.CreateActivity(ctx, kayakRequest())
	require.NoError(t, err)

	a, err := f.svc.SetActive(ctx, created.ID, false)
	require.NoError(t, err)
	assert.False(t, a.IsActive)

	again, err := f.svc.SetActive(ctx, created.ID, false)
	require.NoError(t, err)
	assert.Equal(t, a.UpdatedAt, again.UpdatedAt, "repeating the state is a no-op")
	assert.Equal(t, []string{created.ID}, f.cache.invalidated)
}

func slotIDs(a *activity.Activity) []string {
	out := make([]string, 0, len(a.TimeSlots))
	for _, s := range a.TimeSlots {
		out = append(out, s.ID)
	}
	return out
}
