package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"propshoot/pkg/kafka"
	"propshoot/pkg/model"
)

type mockProducer struct {
	published []kafka.Message
	err       error
	closed    bool
}

func (m *mockProducer) Publish(_ context.Context, msg kafka.Message) error {
	m.published = append(m.published, msg)
	return m.err
}

func (m *mockProducer) Close() error {
	m.closed = true
	return nil
}

func TestKafkaPublisher_BookingConfirmed(t *testing.T) {
	bookings, calendar := &mockProducer{}, &mockProducer{}
	p := &kafkaPublisher{bookings: bookings, calendar: calendar}

	err := p.BookingConfirmed(context.Background(), model.BookingConfirmedEvent{
		OrderID:     "order-1",
		Dates:       []string{"2026-03-03"},
		Total:       13000,
		ConfirmedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bookings.published) != 1 || len(calendar.published) != 0 {
		t.Fatalf("published to wrong producer: %d/%d", len(bookings.published), len(calendar.published))
	}

	msg := bookings.published[0]
	if msg.Key != "order-1" {
		t.Errorf("key = %q", msg.Key)
	}
	if msg.EventType() != model.EventBookingConfirmed {
		t.Errorf("event type = %q", msg.EventType())
	}
	var decoded model.BookingConfirmedEvent
	if err := msg.DecodeValue(&decoded); err != nil || decoded.Total != 13000 {
		t.Errorf("decoded %+v, err %v", decoded, err)
	}
}

func TestKafkaPublisher_CalendarChangedKeyedByDate(t *testing.T) {
	calendar := &mockProducer{err: errors.New("broker down")}
	p := &kafkaPublisher{bookings: &mockProducer{}, calendar: calendar}

	err := p.CalendarChanged(context.Background(), model.CalendarChangedEvent{Date: "2026-03-04", Change: model.ChangeDayBlocked})
	if err == nil {
		t.Fatal("expected producer error to propagate")
	}
	if calendar.published[0].Key != "2026-03-04" {
		t.Errorf("key = %q", calendar.published[0].Key)
	}

	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !calendar.closed {
		t.Error("calendar producer not closed")
	}
}
