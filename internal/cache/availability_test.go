package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"activity-booking-service/internal/db"
	"activity-booking-service/internal/domain/availability"
	"activity-booking-service/internal/pkg/ids"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestCache connects to TEST_REDIS_ADDR. Tests are skipped when it is
// unset. Keys are namespaced by fresh activity ids, so no flush is needed.
func newTestCache(t *testing.T) *RedisAvailability {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	client, err := db.NewRedisClient(context.Background(), db.RedisConfig{Addr: addr, Password: os.Getenv("TEST_REDIS_PASS")})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return NewRedisAvailability(client, time.Minute)
}

func sampleSlots() []availability.SlotAvailability {
	return []availability.SlotAvailability{
		{SlotID: "morning", StartTime: "09:00", EndTime: "11:00", MaxCapacity: 5, CurrentBookings: 2, RemainingCapacity: 3, IsAvailable: true},
	}
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "availability:a1:2024-06-01", key("a1", "2024-06-01"))
	assert.Equal(t, "availability-version:a1", activityVersionKey("a1"))
	assert.Equal(t, "availability-version:a1:2024-06-01", dateVersionKey("a1", "2024-06-01"))
}

func TestNop(t *testing.T) {
	ctx := context.Background()
	var c Availability = Nop{}

	require.NoError(t, c.Set(ctx, "a1", "2024-06-01", "", sampleSlots()))
	_, ok, err := c.Get(ctx, "a1", "2024-06-01")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisAvailability_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)
	activityID := ids.New()

	_, ok, err := c.Get(ctx, activityID, "2024-06-01")
	require.NoError(t, err)
	assert.False(t, ok)

	version, err := c.Version(ctx, activityID, "2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, "0:0", version)
	require.NoError(t, c.Set(ctx, activityID, "2024-06-01", version, sampleSlots()))

	got, ok, err := c.Get(ctx, activityID, "2024-06-01")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sampleSlots(), got)

	require.NoError(t, c.Invalidate(ctx, activityID, "2024-06-01"))
	_, ok, err = c.Get(ctx, activityID, "2024-06-01")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisAvailability_StaleFillIsRejected(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)
	activityID := ids.New()

	version, err := c.Version(ctx, activityID, "2024-06-01")
	require.NoError(t, err)

	require.NoError(t, c.Invalidate(ctx, activityID, "2024-06-01"))
	assert.ErrorIs(t, c.Set(ctx, activityID, "2024-06-01", version, sampleSlots()), ErrStale)

	_, ok, err := c.Get(ctx, activityID, "2024-06-01")
	require.NoError(t, err)
	assert.False(t, ok)

	version, err = c.Version(ctx, activityID, "2024-06-02")
	require.NoError(t, err)
	require.NoError(t, c.InvalidateActivity(ctx, activityID))
	assert.ErrorIs(t, c.Set(ctx, activityID, "2024-06-02", version, sampleSlots()), ErrStale)
}

func TestRedisAvailability_InvalidateActivity(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)
	activityID, other := ids.New(), ids.New()

	fill := func(id, date string) {
		version, err := c.Version(ctx, id, date)
		require.NoError(t, err)
		require.NoError(t, c.Set(ctx, id, date, version, sampleSlots()))
	}
	fill(activityID, "2024-06-01")
	fill(activityID, "2024-06-02")
	fill(other, "2024-06-01")

	require.NoError(t, c.InvalidateActivity(ctx, activityID))

	for _, date := range []string{"2024-06-01", "2024-06-02"} {
		_, ok, err := c.Get(ctx, activityID, date)
		require.NoError(t, err)
		assert.False(t, ok, date)
	}
	_, ok, err := c.Get(ctx, other, "2024-06-01")
	require.NoError(t, err)
	assert.True(t, ok, "other activities keep their entries")
}
