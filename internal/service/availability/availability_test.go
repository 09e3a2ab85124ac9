package availability

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"

	"activity-booking-service/internal/cache"
	"activity-booking-service/internal/domain/activity"
	domain "activity-booking-service/internal/domain/availability"
	"activity-booking-service/internal/domain/booking"
	xerrors "activity-booking-service/internal/pkg/errors"
	"activity-booking-service/internal/pkg/ptr"
	"activity-booking-service/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const day = "2024-06-01"

func kayakTour() *activity.Activity {
	return &activity.Activity{
		ID:       "act-1",
		Name:     "Sunset kayak",
		IsActive: true,
		TimeSlots: []activity.TimeSlot{
			{ID: "morning", StartTime: "09:00", EndTime: "11:00", MaxCapacity: 5},
			{ID: "evening", StartTime: "18:00", EndTime: "20:00", MaxCapacity: 3},
		},
	}
}

func bookingOf(slot string, count int, status booking.Status) booking.Booking {
	return booking.Booking{ActivityID: "act-1", SlotID: slot, Date: day, ParticipantCount: count, Status: status}
}

func TestCalculate_NoBookingsIsFullyAvailable(t *testing.T) {
	slots := Calculate(kayakTour(), nil, day)

	require.Len(t, slots, 2)
	for _, s := range slots {
		assert.Equal(t, s.MaxCapacity, s.RemainingCapacity)
		assert.Zero(t, s.CurrentBookings)
		assert.True(t, s.IsAvailable)
	}
	assert.Equal(t, "morning", slots[0].SlotID)
	assert.Equal(t, "evening", slots[1].SlotID)
}

func TestCalculate_SumsParticipantsAndClamps(t *testing.T) {
	bookings := []booking.Booking{
		bookingOf("morning", 2, booking.StatusConfirmed),
		bookingOf("morning", 1, booking.StatusPending),
		bookingOf("morning", 4, booking.StatusCancelled),
		bookingOf("evening", 3, booking.StatusCompleted),
		bookingOf("evening", 2, booking.StatusConfirmed),
		{ActivityID: "act-1", SlotID: "morning", Date: "2024-06-02", ParticipantCount: 5, Status: booking.StatusConfirmed},
		{ActivityID: "other", SlotID: "morning", Date: day, ParticipantCount: 5, Status: booking.StatusConfirmed},
	}

	slots := Calculate(kayakTour(), bookings, day)

	assert.Equal(t, 3, slots[0].CurrentBookings)
	assert.Equal(t, 2, slots[0].RemainingCapacity)
	assert.True(t, slots[0].IsAvailable)

	assert.Equal(t, 5, slots[1].CurrentBookings)
	assert.Equal(t, 0, slots[1].RemainingCapacity, "never negative")
	assert.False(t, slots[1].IsAvailable)
}

func TestCalculate_ZeroSlots(t *testing.T) {
	a := kayakTour()
	a.TimeSlots = nil

	slots := Calculate(a, []booking.Booking{bookingOf("morning", 1, booking.StatusConfirmed)}, day)

	require.NotNil(t, slots)
	assert.Empty(t, slots)
	assert.Equal(t, domain.Summary{}, Summarize(slots))
}

func TestCalculate_InactiveActivityIsNeverAvailable(t *testing.T) {
	a := kayakTour()
	a.IsActive = false

	for _, s := range Calculate(a, nil, day) {
		assert.False(t, s.IsAvailable)
		assert.Equal(t, s.MaxCapacity, s.RemainingCapacity)
	}
}

func TestSummarizeAndFilter(t *testing.T) {
	a := &activity.Activity{
		ID:        "act-1",
		IsActive:  true,
		TimeSlots: []activity.TimeSlot{{ID: "only", StartTime: "10:00", EndTime: "11:00", MaxCapacity: 5}},
	}
	bookings := []booking.Booking{
		bookingOf("only", 2, booking.StatusConfirmed),
		bookingOf("only", 2, booking.StatusConfirmed),
	}

	slots := Calculate(a, bookings, day)
	require.Len(t, slots, 1)
	assert.Equal(t, 4, slots[0].CurrentBookings)
	assert.Equal(t, 1, slots[0].RemainingCapacity)
	assert.True(t, slots[0].IsAvailable)

	assert.Empty(t, FilterByParticipants(slots, 2))
	assert.Len(t, FilterByParticipants(slots, 1), 1)

	sum := Summarize(slots)
	assert.Equal(t, domain.Summary{
		TotalSlots:       1,
		AvailableSlots:   1,
		FullyBookedSlots: 0,
		TotalCapacity:    5,
		TotalBookings:    4,
	}, sum)
}

type fixture struct {
	svc        *AvailabilityService
	activities *memory.ActivityRepository
	bookings   *memory.BookingRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memory.NewStore()
	f := fixture{
		activities: memory.NewActivityRepository(store),
		bookings:   memory.NewBookingRepository(store),
	}
	f.svc = NewAvailabilityService(f.activities, f.bookings, nil, zap.NewNop())
	return f
}

func (f fixture) activity(t *testing.T, a *activity.Activity) *activity.Activity {
	t.Helper()
	require.NoError(t, f.activities.Create(context.Background(), a))
	return a
}

func (f fixture) book(t *testing.T, a *activity.Activity, slot string, count int) *booking.Booking {
	t.Helper()
	b := &booking.Booking{ActivityID: a.ID, SlotID: slot, Date: day, ParticipantCount: count, Status: booking.StatusConfirmed, CustomerName: "Sam"}
	require.NoError(t, f.bookings.Create(context.Background(), b, -1))
	return b
}

func TestForDate_SummaryIgnoresParticipantsFilter(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.activity(t, &activity.Activity{
		Name:      "Canyon hike",
		IsActive:  true,
		TimeSlots: []activity.TimeSlot{{ID: "s1", StartTime: "08:00", EndTime: "12:00", MaxCapacity: 5}},
	})
	f.book(t, a, "s1", 2)
	f.book(t, a, "s1", 2)

	got, err := f.svc.ForDate(ctx, a.ID, day, ptr.Of(2))
	require.NoError(t, err)

	assert.Empty(t, got.Slots)
	assert.Equal(t, 1, got.Summary.AvailableSlots)
	assert.Equal(t, 4, got.Summary.TotalBookings)
	assert.Equal(t, "Canyon hike", got.ActivityName)
}

func TestForDate_CancellationReleasesCapacity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.activity(t, kayakTour())
	b := f.book(t, a, "evening", 3)

	got, err := f.svc.ForDate(ctx, a.ID, day, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Slots[1].RemainingCapacity)

	b.Status = booking.StatusCancelled
	require.NoError(t, f.bookings.Update(ctx, b, -1))

	got, err = f.svc.ForDate(ctx, a.ID, day, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Slots[1].RemainingCapacity)
	assert.True(t, got.Slots[1].IsAvailable)
}

func TestForDate_Errors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	inactive := kayakTour()
	inactive.IsActive = false
	f.activity(t, inactive)

	_, err := f.svc.ForDate(ctx, "missing", day, nil)
	assert.ErrorIs(t, err, xerrors.ErrNotFound)

	_, err = f.svc.ForDate(ctx, inactive.ID, day, nil)
	assert.ErrorIs(t, err, xerrors.ErrInactive)

	_, err = f.svc.ForDate(ctx, inactive.ID, "06/01/2024", nil)
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestForDate_DateShapeOnly(t *testing.T) {
	f := newFixture(t)
	a := f.activity(t, kayakTour())

	got, err := f.svc.ForDate(context.Background(), a.ID, "2024-13-45", nil)
	require.NoError(t, err)
	assert.Len(t, got.Slots, 2)
}

func TestCalendar_DailyAndRecurring(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.activity(t, kayakTour())
	f.book(t, a, "morning", 5)

	cal, err := f.svc.Calendar(ctx, a.ID, "2024-05-30", "2024-06-02")
	require.NoError(t, err)
	require.Len(t, cal.Days, 4)
	assert.Equal(t, "2024-05-30", cal.Days[0].Date)
	assert.Equal(t, day, cal.Days[2].Date)
	assert.Equal(t, 1, cal.Days[2].Summary.FullyBookedSlots)
	assert.Equal(t, 5, cal.Days[2].Summary.TotalBookings)
	assert.Equal(t, 0, cal.Days[0].Summary.TotalBookings)

	weekend := f.activity(t, &activity.Activity{
		Name:       "Weekend market tour",
		IsActive:   true,
		Recurrence: ptr.Of("FREQ=WEEKLY;BYDAY=SA,SU"),
		TimeSlots:  []activity.TimeSlot{{ID: "s1", StartTime: "10:00", EndTime: "12:00", MaxCapacity: 10}},
	})
	cal, err = f.svc.Calendar(ctx, weekend.ID, "2024-06-01", "2024-06-14")
	require.NoError(t, err)
	dates := make([]string, 0, len(cal.Days))
	for _, d := range cal.Days {
		dates = append(dates, d.Date)
	}
	assert.Equal(t, []string{"2024-06-01", "2024-06-02", "2024-06-08", "2024-06-09"}, dates)
}

func TestCalendar_RangeValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.activity(t, kayakTour())

	_, err := f.svc.Calendar(ctx, a.ID, "2024-06-10", "2024-06-01")
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)

	_, err = f.svc.Calendar(ctx, a.ID, "2024-01-01", "2024-03-31")
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)

	_, err = f.svc.Calendar(ctx, a.ID, "2024-02-30", "2024-03-01")
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestParseRecurrence(t *testing.T) {
	_, err := ParseRecurrence("FREQ=WEEKLY;BYDAY=MO")
	assert.NoError(t, err)

	_, err = ParseRecurrence("every other tuesday")
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestGetSlotAvailabilityForDate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.activity(t, kayakTour())
	f.book(t, a, "morning", 4)

	slots, err := f.svc.GetSlotAvailabilityForDate(ctx, a.ID, day)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, domain.SlotAvailability{
		SlotID:            "morning",
		StartTime:         "09:00",
		EndTime:           "11:00",
		MaxCapacity:       5,
		CurrentBookings:   4,
		RemainingCapacity: 1,
		IsAvailable:       true,
	}, slots[0])

	a.IsActive = false
	require.NoError(t, f.activities.Update(ctx, a))
	slots, err = f.svc.GetSlotAvailabilityForDate(ctx, a.ID, day)
	require.NoError(t, err)
	assert.False(t, slots[0].IsAvailable)

	_, err = f.svc.GetSlotAvailabilityForDate(ctx, "missing", day)
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}

// versionedCache mirrors the Redis cache contract in memory.
type versionedCache struct {
	mu       sync.Mutex
	entries  map[string][]domain.SlotAvailability
	versions map[string]int
}

func newVersionedCache() *versionedCache {
	return &versionedCache{
		entries:  map[string][]domain.SlotAvailability{},
		versions: map[string]int{},
	}
}

func (c *versionedCache) Get(_ context.Context, activityID, date string) ([]domain.SlotAvailability, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	slots, ok := c.entries[activityID+"/"+date]
	return slots, ok, nil
}

func (c *versionedCache) Version(_ context.Context, activityID, date string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return strconv.Itoa(c.versions[activityID+"/"+date]), nil
}

func (c *versionedCache) Set(_ context.Context, activityID, date, version string, slots []domain.SlotAvailability) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := activityID + "/" + date
	if strconv.Itoa(c.versions[k]) != version {
		return cache.ErrStale
	}
	c.entries[k] = slots
	return nil
}

func (c *versionedCache) Invalidate(_ context.Context, activityID, date string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := activityID + "/" + date
	c.versions[k]++
	delete(c.entries, k)
	return nil
}

func (c *versionedCache) InvalidateActivity(_ context.Context, activityID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := map[string]bool{}
	for k := range c.versions {
		keys[k] = true
	}
	for k := range c.entries {
		keys[k] = true
	}
	for k := range keys {
		if strings.HasPrefix(k, activityID+"/") {
			c.versions[k]++
			delete(c.entries, k)
		}
	}
	return nil
}

func (c *versionedCache) cached(activityID, date string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[activityID+"/"+date]
	return ok
}

// interleavedBookings runs afterList once, right after the first List
// returns, so a write lands between the read and the cache fill.
type interleavedBookings struct {
	booking.Repository
	once      sync.Once
	afterList func()
}

func (r *interleavedBookings) List(ctx context.Context, filters booking.ListFilters) ([]booking.Booking, error) {
	out, err := r.Repository.List(ctx, filters)
	if r.afterList != nil {
		r.once.Do(r.afterList)
	}
	return out, err
}

func TestForDate_WriteDuringFillIsNotCached(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	activities := memory.NewActivityRepository(store)
	bookings := &interleavedBookings{Repository: memory.NewBookingRepository(store)}
	slotCache := newVersionedCache()
	svc := NewAvailabilityService(activities, bookings, slotCache, zap.NewNop())

	a := kayakTour()
	require.NoError(t, activities.Create(ctx, a))

	bookings.afterList = func() {
		b := &booking.Booking{ActivityID: a.ID, SlotID: "morning", Date: day, ParticipantCount: 5, Status: booking.StatusConfirmed, CustomerName: "Sam"}
		require.NoError(t, bookings.Repository.Create(ctx, b, -1))
		require.NoError(t, slotCache.Invalidate(ctx, a.ID, day))
	}

	first, err := svc.ForDate(ctx, a.ID, day, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, first.Slots[0].CurrentBookings)
	assert.False(t, slotCache.cached(a.ID, day), "fill that raced a write must not be stored")

	second, err := svc.ForDate(ctx, a.ID, day, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, second.Slots[0].CurrentBookings)
	assert.Equal(t, 0, second.Slots[0].RemainingCapacity)
	assert.False(t, second.Slots[0].IsAvailable)
	assert.True(t, slotCache.cached(a.ID, day))

	third, err := svc.ForDate(ctx, a.ID, day, nil)
	require.NoError(t, err)
	assert.Equal(t, second.Slots, third.Slots)
}

func TestForDate_InvalidateAfterFillRefreshes(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	activities := memory.NewActivityRepository(store)
	bookings := memory.NewBookingRepository(store)
	slotCache := newVersionedCache()
	svc := NewAvailabilityService(activities, bookings, slotCache, zap.NewNop())

	a := kayakTour()
	require.NoError(t, activities.Create(ctx, a))

	got, err := svc.ForDate(ctx, a.ID, day, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Slots[0].RemainingCapacity)
	require.True(t, slotCache.cached(a.ID, day))

	b := &booking.Booking{ActivityID: a.ID, SlotID: "morning", Date: day, ParticipantCount: 2, Status: booking.StatusConfirmed, CustomerName: "Sam"}
	require.NoError(t, bookings.Create(ctx, b, -1))
	require.NoError(t, slotCache.Invalidate(ctx, a.ID, day))

	got, err = svc.ForDate(ctx, a.ID, day, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Slots[0].RemainingCapacity)
}
