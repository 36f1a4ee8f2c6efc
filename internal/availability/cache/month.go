// Package cache keeps rendered month calendars in Redis so the date picker
// does not rescan a month of bookings on every page view.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"propshoot/pkg/config"
	"propshoot/pkg/logger"
	"propshoot/pkg/scheduling"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "availability:month:"

type MonthCache interface {
	Get(ctx context.Context, month string) (*scheduling.MonthView, bool)
	Set(ctx context.Context, view *scheduling.MonthView)
	// Invalidate drops the month containing date.
	Invalidate(ctx context.Context, date string) error
}

// Key returns the Redis key for a YYYY-MM month.
func Key(month string) string {
	return keyPrefix + month
}

// MonthOf returns the YYYY-MM month of a YYYY-MM-DD date.
func MonthOf(date string) (string, error) {
	d, err := time.Parse(config.DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	return d.Format(config.MonthLayout), nil
}

type redisMonthCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *logger.Logger
}

// NewMonthCache returns a Redis cache, or a pass-through cache when rdb is nil.
func NewMonthCache(rdb *redis.Client, ttl time.Duration, log *logger.Logger) MonthCache {
	if rdb == nil {
		log.Info("Month cache disabled, Redis not configured")
		return noopMonthCache{}
	}
	return &redisMonthCache{rdb: rdb, ttl: ttl, log: log}
}

// Get treats every Redis failure as a miss.
func (c *redisMonthCache) Get(ctx context.Context, month string) (*scheduling.MonthView, bool) {
	raw, err := c.rdb.Get(ctx, Key(month)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("Month cache read failed", "month", month, "error", err)
		}
		return nil, false
	}

	var view scheduling.MonthView
	if err := json.Unmarshal(raw, &view); err != nil {
		c.log.Warn("Discarding corrupt month cache entry", "month", month, "error", err)
		return nil, false
	}
	return &view, true
}

func (c *redisMonthCache) Set(ctx context.Context, view *scheduling.MonthView) {
	raw, err := json.Marshal(view)
	if err != nil {
		c.log.Error("Failed to encode month view", "month", view.Month, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, Key(view.Month), raw, c.ttl).Err(); err != nil {
		c.log.Warn("Month cache write failed", "month", view.Month, "error", err)
	}
}

func (c *redisMonthCache) Invalidate(ctx context.Context, date string) error {
	month, err := MonthOf(date)
	if err != nil {
		return err
	}
	if err := c.rdb.Del(ctx, Key(month)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate month %s: %w", month, err)
	}
	c.log.Debug("Month cache invalidated", "month", month)
	return nil
}

type noopMonthCache struct{}

func (noopMonthCache) Get(context.Context, string) (*scheduling.MonthView, bool) {
	return nil, false
}

func (noopMonthCache) Set(context.Context, *scheduling.MonthView) {}

func (noopMonthCache) Invalidate(_ context.Context, date string) error {
	_, err := MonthOf(date)
	return err
}
