// Package cache keeps computed slot availability per activity and date.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"activity-booking-service/internal/domain/availability"

	"github.com/redis/go-redis/v9"
)

// ErrStale is returned by Set when the entry was invalidated after the
// caller read its version. Nothing is written.
var ErrStale = errors.New("availability changed since version was read")

// Availability caches the per-slot list of one activity on one date.
// A miss returns ok == false and no error.
//
// Fills are versioned: read Version before loading bookings and pass it to
// Set, which refuses to store once an invalidation has happened in between.
type Availability interface {
	Get(ctx context.Context, activityID, date string) ([]availability.SlotAvailability, bool, error)
	Version(ctx context.Context, activityID, date string) (string, error)
	Set(ctx context.Context, activityID, date, version string, slots []availability.SlotAvailability) error
	Invalidate(ctx context.Context, activityID, date string) error
	InvalidateActivity(ctx context.Context, activityID string) error
}

const (
	keyPrefix     = "availability"
	versionPrefix = "availability-version"

	// Outlives any entry by a wide margin so a counter never resets while
	// a fill that read it is still in flight.
	versionTTL = 24 * time.Hour
)

type RedisAvailability struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisAvailability(client *redis.Client, ttl time.Duration) *RedisAvailability {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisAvailability{client: client, ttl: ttl}
}

func (c *RedisAvailability) Get(ctx context.Context, activityID, date string) ([]availability.SlotAvailability, bool, error) {
	data, err := c.client.Get(ctx, key(activityID, date)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read availability cache: %w", err)
	}

	var slots []availability.SlotAvailability
	if err := json.Unmarshal(data, &slots); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached availability: %w", err)
	}
	return slots, true, nil
}

// Version combines the activity-wide and per-date invalidation counters.
func (c *RedisAvailability) Version(ctx context.Context, activityID, date string) (string, error) {
	v, err := readVersion(ctx, c.client, activityID, date)
	if err != nil {
		return "", fmt.Errorf("failed to read availability version: %w", err)
	}
	return v, nil
}

// Set stores slots only if neither counter moved since version was read.
// The counters are watched, so an invalidation racing the write aborts it.
func (c *RedisAvailability) Set(ctx context.Context, activityID, date, version string, slots []availability.SlotAvailability) error {
	data, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("failed to encode availability: %w", err)
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readVersion(ctx, tx, activityID, date)
		if err != nil {
			return err
		}
		if current != version {
			return ErrStale
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key(activityID, date), data, c.ttl)
			return nil
		})
		return err
	}, activityVersionKey(activityID), dateVersionKey(activityID, date))

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrStale), errors.Is(err, redis.TxFailedErr):
		return ErrStale
	default:
		return fmt.Errorf("failed to write availability cache: %w", err)
	}
}

// Invalidate bumps the date counter and drops the entry in one transaction.
func (c *RedisAvailability) Invalidate(ctx context.Context, activityID, date string) error {
	vk := dateVersionKey(activityID, date)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, vk)
		pipe.Expire(ctx, vk, versionTTL)
		pipe.Del(ctx, key(activityID, date))
		return nil
	})
	return err
}

// InvalidateActivity drops every cached date of the activity.
func (c *RedisAvailability) InvalidateActivity(ctx context.Context, activityID string) error {
	vk := activityVersionKey(activityID)
	if _, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, vk)
		pipe.Expire(ctx, vk, versionTTL)
		return nil
	}); err != nil {
		return fmt.Errorf("failed to bump %s: %w", vk, err)
	}

	pattern := fmt.Sprintf("%s:%s:*", keyPrefix, activityID)
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete %s: %w", iter.Val(), err)
		}
	}
	return iter.Err()
}

type multiGetter interface {
	MGet(ctx context.Context, keys ...string) *redis.SliceCmd
}

func readVersion(ctx context.Context, r multiGetter, activityID, date string) (string, error) {
	vals, err := r.MGet(ctx, activityVersionKey(activityID), dateVersionKey(activityID, date)).Result()
	if err != nil {
		return "", err
	}
	parts := [2]string{"0", "0"}
	for i, v := range vals {
		if s, ok := v.(string); ok && i < len(parts) {
			parts[i] = s
		}
	}
	return parts[0] + ":" + parts[1], nil
}

func key(activityID, date string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, activityID, date)
}

func activityVersionKey(activityID string) string {
	return fmt.Sprintf("%s:%s", versionPrefix, activityID)
}

func dateVersionKey(activityID, date string) string {
	return fmt.Sprintf("%s:%s:%s", versionPrefix, activityID, date)
}

// Nop never stores anything. Used when Redis is not configured.
type Nop struct{}

func (Nop) Get(context.Context, string, string) ([]availability.SlotAvailability, bool, error) {
	return nil, false, nil
}

func (Nop) Version(context.Context, string, string) (string, error) { return "", nil }

func (Nop) Set(context.Context, string, string, string, []availability.SlotAvailability) error {
	return nil
}

func (Nop) Invalidate(context.Context, string, string) error { return nil }

func (Nop) InvalidateActivity(context.Context, string) error { return nil }
