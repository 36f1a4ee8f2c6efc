// Package events publishes booking and calendar changes to Kafka.
package events

import (
	"context"
	"fmt"

	"propshoot/pkg/config"
	"propshoot/pkg/kafka"
	kafka_config "propshoot/pkg/kafka/config"
	kafka_middleware "propshoot/pkg/kafka/middleware"
	"propshoot/pkg/logger"
	"propshoot/pkg/model"
)

const (
	schemaVersion = "1"
	source        = "propshoot-api"
)

type Publisher interface {
	BookingConfirmed(ctx context.Context, evt model.BookingConfirmedEvent) error
	CalendarChanged(ctx context.Context, evt model.CalendarChangedEvent) error
	Close() error
}

type producer interface {
	Publish(ctx context.Context, msg kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	bookings producer
	calendar producer
}

// New returns a Kafka backed publisher, or a logging no-op when events are disabled.
func New(cfg *config.Config) (Publisher, error) {
	if !cfg.EventsEnabled {
		cfg.Log.Info("Event publishing disabled")
		return NewNoop(cfg.Log), nil
	}

	kcfg, err := kafka_config.Load()
	if err != nil {
		return nil, err
	}
	kcfg.LogConfiguration(cfg.Log.Info)

	bookings, err := kafka.NewProducer(kcfg, cfg.Log, cfg.BookingConfirmedTopic, cfg.EventsDLQTopic)
	if err != nil {
		return nil, fmt.Errorf("failed to create booking producer: %w", err)
	}
	calendar, err := kafka.NewProducer(kcfg, cfg.Log, cfg.CalendarChangedTopic, cfg.EventsDLQTopic)
	if err != nil {
		_ = bookings.Close()
		return nil, fmt.Errorf("failed to create calendar producer: %w", err)
	}

	bookings.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	calendar.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))

	return &kafkaPublisher{bookings: bookings, calendar: calendar}, nil
}

func (p *kafkaPublisher) BookingConfirmed(ctx context.Context, evt model.BookingConfirmedEvent) error {
	msg, err := kafka.NewMessage().
		WithKey(evt.OrderID).
		WithEventType(model.EventBookingConfirmed).
		WithCorrelationID(evt.OrderID).
		WithSchemaVersion(schemaVersion).
		WithSource(source).
		WithValue(evt).
		Build()
	if err != nil {
		return err
	}
	return p.bookings.Publish(ctx, msg)
}

// CalendarChanged is keyed by date so changes to one day stay ordered.
func (p *kafkaPublisher) CalendarChanged(ctx context.Context, evt model.CalendarChangedEvent) error {
	msg, err := kafka.NewMessage().
		WithKey(evt.Date).
		WithEventType(model.EventCalendarChanged).
		WithSchemaVersion(schemaVersion).
		WithSource(source).
		WithValue(evt).
		Build()
	if err != nil {
		return err
	}
	return p.calendar.Publish(ctx, msg)
}

func (p *kafkaPublisher) Close() error {
	err := p.bookings.Close()
	if cerr := p.calendar.Close(); err == nil {
		err = cerr
	}
	return err
}

type noopPublisher struct {
	log *logger.Logger
}

func NewNoop(log *logger.Logger) Publisher {
	return &noopPublisher{log: log}
}

func (n *noopPublisher) BookingConfirmed(_ context.Context, evt model.BookingConfirmedEvent) error {
	n.log.Debug("Skipping booking event", "order_id", evt.OrderID)
	return nil
}

func (n *noopPublisher) CalendarChanged(_ context.Context, evt model.CalendarChangedEvent) error {
	n.log.Debug("Skipping calendar event", "date", evt.Date, "change", evt.Change)
	return nil
}

func (n *noopPublisher) Close() error {
	return nil
}
