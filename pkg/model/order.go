package model

import "time"

// Order is a paid checkout covering one or more properties.
type Order struct {
	ID                 string          `json:"id" validate:"required"`
	PaymentSession     string          `json:"payment_session" validate:"required"`
	Agent              Agent           `json:"agent" validate:"required"`
	Properties         []PropertyOrder `json:"properties" validate:"required,min=1,max=10,dive"`
	DiscountCode       string          `json:"discount_code,omitempty"`
	DiscountPercentage int             `json:"discount_percentage,omitempty" validate:"gte=0,lte=100"`
}

type PropertyOrder struct {
	Address   string           `json:"address" validate:"required,min=3,max=200"`
	Postcode  string           `json:"postcode" validate:"required,min=2,max=10"`
	Date      string           `json:"date" validate:"omitempty,datetime=2006-01-02"`
	StartTime string           `json:"start_time" validate:"omitempty,clock"`
	Notes     string           `json:"notes,omitempty" validate:"max=1000"`
	Services  ServiceSelection `json:"services"`
}

const (
	EventBookingConfirmed = "booking.confirmed"
	EventCalendarChanged  = "calendar.changed"
)

const (
	ChangeBookingConfirmed = "booking_confirmed"
	ChangeBookingCancelled = "booking_cancelled"
	ChangeDayBlocked       = "day_blocked"
	ChangeDayUnblocked     = "day_unblocked"
)

type BookingConfirmedEvent struct {
	OrderID     string    `json:"order_id"`
	BookingIDs  []string  `json:"booking_ids"`
	Dates       []string  `json:"dates"`
	AgentEmail  string    `json:"agent_email"`
	Total       int64     `json:"total"`
	Currency    string    `json:"currency"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}

type CalendarChangedEvent struct {
	Date       string    `json:"date"`
	Change     string    `json:"change"`
	OccurredAt time.Time `json:"occurred_at"`
}
