package booking

import (
	"context"
	"sync"
	"testing"

	"activity-booking-service/internal/cache"
	"activity-booking-service/internal/domain/activity"
	"activity-booking-service/internal/domain/booking"
	"activity-booking-service/internal/events"
	xerrors "activity-booking-service/internal/pkg/errors"
	"activity-booking-service/internal/pkg/pagination"
	"activity-booking-service/internal/pkg/ptr"
	"activity-booking-service/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.BookingEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e events.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type recordingCache struct {
	cache.Nop
	mu          sync.Mutex
	invalidated []string
}

func (c *recordingCache) Invalidate(_ context.Context, activityID, date string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, activityID+"/"+date)
	return nil
}

type fixture struct {
	svc       *BookingService
	activity  *activity.Activity
	publisher *recordingPublisher
	cache     *recordingCache
	store     *memory.Store
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memory.NewStore()
	activities := memory.NewActivityRepository(store)

	a := &activity.Activity{
		Name:           "Reef snorkel",
		PricePerPerson: 25,
		Currency:       "USD",
		IsActive:       true,
		TimeSlots: []activity.TimeSlot{
			{ID: "am", StartTime: "09:00", EndTime: "11:00", MaxCapacity: 5},
			{ID: "pm", StartTime: "14:00", EndTime: "16:00", MaxCapacity: 2},
		},
	}
	require.NoError(t, activities.Create(context.Background(), a))

	f := fixture{
		activity:  a,
		publisher: &recordingPublisher{},
		cache:     &recordingCache{},
		store:     store,
	}
	f.svc = NewBookingService(
		memory.NewBookingRepository(store),
		activities,
		memory.NewAgentRepository(store),
		f.cache,
		f.publisher,
		zap.NewNop(),
	)
	return f
}

func (f fixture) request(slot string, count int) *booking.CreateBookingRequest {
	return &booking.CreateBookingRequest{
		ActivityID:       f.activity.ID,
		SlotID:           slot,
		Date:             "2024-06-01",
		ParticipantCount: count,
		CustomerName:     "Alex",
	}
}

func TestCreateBooking_PricesAndPublishes(t *testing.T) {
	f := newFixture(t)

	b, err := f.svc.CreateBooking(context.Background(), f.request("am", 3))
	require.NoError(t, err)

	assert.NotEmpty(t, b.ID)
	assert.Equal(t, booking.StatusConfirmed, b.Status)
	assert.Equal(t, 75.0, b.TotalPrice)
	assert.Equal(t, []events.Type{events.BookingCreated}, f.publisher.types())
	assert.Equal(t, []string{f.activity.ID + "/2024-06-01"}, f.cache.invalidated)
}

func TestCreateBooking_Refusals(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.CreateBooking(ctx, f.request("pm", 3))
	assert.ErrorIs(t, err, xerrors.ErrCapacityExceeded)
	assert.ErrorIs(t, err, xerrors.ErrConflict)

	_, err = f.svc.CreateBooking(ctx, f.request("noon", 1))
	assert.ErrorIs(t, err, xerrors.ErrNotFound)

	req := f.request("am", 1)
	req.ActivityID = "missing"
	_, err = f.svc.CreateBooking(ctx, req)
	assert.ErrorIs(t, err, xerrors.ErrNotFound)

	req = f.request("am", 1)
	req.AgentID = ptr.Of("missing")
	_, err = f.svc.CreateBooking(ctx, req)
	assert.ErrorIs(t, err, xerrors.ErrNotFound)

	f.activity.IsActive = false
	require.NoError(t, memory.NewActivityRepository(f.store).Update(ctx, f.activity))
	_, err = f.svc.CreateBooking(ctx, f.request("am", 1))
	assert.ErrorIs(t, err, xerrors.ErrInactive)

	assert.Empty(t, f.publisher.types())
}

func TestCancelBooking_ReleasesCapacityAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	b, err := f.svc.CreateBooking(ctx, f.request("pm", 2))
	require.NoError(t, err)
	_, err = f.svc.CreateBooking(ctx, f.request("pm", 1))
	require.ErrorIs(t, err, xerrors.ErrCapacityExceeded)

	cancelled, err := f.svc.CancelBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)

	again, err := f.svc.CancelBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, *cancelled.CancelledAt, *again.CancelledAt)

	_, err = f.svc.CreateBooking(ctx, f.request("pm", 2))
	require.NoError(t, err)

	assert.Equal(t, []events.Type{events.BookingCreated, events.BookingCancelled, events.BookingCreated}, f.publisher.types())
}

func TestUpdateBooking_RechecksCapacity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.svc.CreateBooking(ctx, f.request("am", 3))
	require.NoError(t, err)
	second, err := f.svc.CreateBooking(ctx, f.request("pm", 1))
	require.NoError(t, err)

	_, err = f.svc.UpdateBooking(ctx, first.ID, &booking.UpdateBookingRequest{ParticipantCount: ptr.Of(6)})
	assert.ErrorIs(t, err, xerrors.ErrCapacityExceeded)

	updated, err := f.svc.UpdateBooking(ctx, first.ID, &booking.UpdateBookingRequest{ParticipantCount: ptr.Of(5)})
	require.NoError(t, err)
	assert.Equal(t, 125.0, updated.TotalPrice)

	_, err = f.svc.UpdateBooking(ctx, second.ID, &booking.UpdateBookingRequest{SlotID: ptr.Of("am")})
	assert.ErrorIs(t, err, xerrors.ErrCapacityExceeded)

	_, err = f.svc.UpdateBooking(ctx, second.ID, &booking.UpdateBookingRequest{SlotID: ptr.Of("nope")})
	assert.ErrorIs(t, err, xerrors.ErrNotFound)

	moved, err := f.svc.UpdateBooking(ctx, second.ID, &booking.UpdateBookingRequest{Date: ptr.Of("2024-06-02"), SlotID: ptr.Of("am")})
	require.NoError(t, err)
	assert.Equal(t, "2024-06-02", moved.Date)
}

func TestUpdateBooking_StatusTransitions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	b, err := f.svc.CreateBooking(ctx, f.request("pm", 2))
	require.NoError(t, err)

	cancelled := booking.StatusCancelled
	got, err := f.svc.UpdateBooking(ctx, b.ID, &booking.UpdateBookingRequest{Status: &cancelled})
	require.NoError(t, err)
	require.NotNil(t, got.CancelledAt)

	_, err = f.svc.CreateBooking(ctx, f.request("pm", 2))
	require.NoError(t, err)

	confirmed := booking.StatusConfirmed
	_, err = f.svc.UpdateBooking(ctx, b.ID, &booking.UpdateBookingRequest{Status: &confirmed})
	assert.ErrorIs(t, err, xerrors.ErrCapacityExceeded, "reinstating needs room again")

	notes := "window seat"
	got, err = f.svc.UpdateBooking(ctx, b.ID, &booking.UpdateBookingRequest{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCancelled, got.Status)
	assert.Equal(t, "window seat", *got.Notes)
}

func TestDeleteBooking(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	b, err := f.svc.CreateBooking(ctx, f.request("am", 1))
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteBooking(ctx, b.ID))
	assert.ErrorIs(t, f.svc.DeleteBooking(ctx, b.ID), xerrors.ErrNotFound)
	assert.Equal(t, []events.Type{events.BookingCreated, events.BookingDeleted}, f.publisher.types())
}

func TestCreateBooking_ConcurrentNeverOverbooks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.svc.CreateBooking(ctx, f.request("am", 1))
		}()
	}
	wg.Wait()

	page, err := f.svc.ListBookings(ctx, booking.ListFilters{SlotID: "am"}, paramsAll())
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
}

func paramsAll() pagination.Params {
	return pagination.Params{Page: 1, Limit: 100}
}
