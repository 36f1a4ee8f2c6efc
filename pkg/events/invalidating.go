package events

import (
	"context"

	"propshoot/pkg/logger"
	"propshoot/pkg/model"
)

// InvalidateFunc drops cached availability for a date.
type InvalidateFunc func(ctx context.Context, date string) error

type invalidatingPublisher struct {
	Publisher
	invalidate InvalidateFunc
	log        *logger.Logger
}

// WithInvalidation invalidates local availability before each calendar
// change is published, so the publishing instance never serves a stale
// month even when no cache worker is running.
func WithInvalidation(p Publisher, invalidate InvalidateFunc, log *logger.Logger) Publisher {
	return &invalidatingPublisher{Publisher: p, invalidate: invalidate, log: log}
}

func (p *invalidatingPublisher) CalendarChanged(ctx context.Context, evt model.CalendarChangedEvent) error {
	if err := p.invalidate(ctx, evt.Date); err != nil {
		p.log.Warn("Failed to invalidate availability cache", "date", evt.Date, "error", err)
	}
	return p.Publisher.CalendarChanged(ctx, evt)
}
