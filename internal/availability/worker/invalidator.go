// Package worker keeps cached month availability in step with calendar
// changes published by any API instance.
package worker

import (
	"context"
	"time"

	"propshoot/pkg/config"
	"propshoot/pkg/kafka"
	"propshoot/pkg/logger"
	"propshoot/pkg/model"
)

type Invalidator interface {
	Invalidate(ctx context.Context, date string) error
}

// CalendarInvalidator returns a handler that drops the cached month of each
// changed date. Malformed events are permanent failures, cache errors are
// retried.
func CalendarInvalidator(cache Invalidator, log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		if t := msg.EventType(); t != "" && t != model.EventCalendarChanged {
			log.Debug("Ignoring event", "event_type", t, "event_id", msg.EventID())
			return nil
		}

		var evt model.CalendarChangedEvent
		if err := msg.DecodeValue(&evt); err != nil {
			return err
		}
		if _, err := time.Parse(config.DateLayout, evt.Date); err != nil {
			return kafka.NewPermanentError("invalid calendar date", err)
		}

		if err := cache.Invalidate(ctx, evt.Date); err != nil {
			return kafka.NewTransientError("cache invalidation failed", err)
		}

		log.Info("Invalidated month availability", "date", evt.Date, "change", evt.Change)
		return nil
	}
}
