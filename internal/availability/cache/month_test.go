package cache

import (
	"context"
	"testing"

	"propshoot/pkg/logger"
	"propshoot/pkg/scheduling"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyAndMonthOf(t *testing.T) {
	assert.Equal(t, "availability:month:2026-03", Key("2026-03"))

	month, err := MonthOf("2026-03-31")
	require.NoError(t, err)
	assert.Equal(t, "2026-03", month)

	_, err = MonthOf("2026-3-1")
	assert.Error(t, err)
}

func TestNewMonthCache_WithoutRedisPassesThrough(t *testing.T) {
	log := logger.New(logger.Config{Level: "info", Format: logger.JSON, Service: "test"})
	c := NewMonthCache(nil, 0, log)
	ctx := context.Background()

	c.Set(ctx, &scheduling.MonthView{Month: "2026-03"})
	_, ok := c.Get(ctx, "2026-03")
	assert.False(t, ok)

	assert.NoError(t, c.Invalidate(ctx, "2026-03-10"))
	assert.Error(t, c.Invalidate(ctx, "garbage"))
}
