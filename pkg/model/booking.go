package model

import (
	"time"
)

type Agent struct {
	Name    string `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Company string `json:"company" bson:"company" validate:"max=100"`
	Email   string `json:"email" bson:"email" validate:"required,email"`
	Phone   string `json:"phone" bson:"phone" validate:"required,e164"`
}

// Booking is one confirmed property shoot. Start and end are persisted
// exactly as the agent picked them.
type Booking struct {
	ID             string           `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	OrderID        string           `json:"order_id" bson:"order_id" validate:"required"`
	PropertyIndex  int              `json:"property_index" bson:"property_index" validate:"gte=0"`
	Address        string           `json:"address" bson:"address" validate:"required,min=3,max=200"`
	Postcode       string           `json:"postcode" bson:"postcode" validate:"required,min=2,max=10"`
	Bedrooms       int              `json:"bedrooms" bson:"bedrooms" validate:"gte=2"`
	Date           string           `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
	StartTime      string           `json:"start_time" bson:"start_time" validate:"required,clock"`
	EndTime        string           `json:"end_time" bson:"end_time" validate:"required,clock"`
	Notes          string           `json:"notes,omitempty" bson:"notes,omitempty" validate:"max=1000"`
	Agent          Agent            `json:"agent" bson:"agent" validate:"required"`
	Services       ServiceSelection `json:"services" bson:"services"`
	WorkMinutes    int              `json:"work_minutes" bson:"work_minutes" validate:"gt=0"`
	WorkHours      float64          `json:"work_hours" bson:"work_hours"`
	Subtotal       int64            `json:"subtotal" bson:"subtotal" validate:"gte=0"`
	DiscountCode   string           `json:"discount_code,omitempty" bson:"discount_code,omitempty"`
	DiscountAmount int64            `json:"discount_amount" bson:"discount_amount" validate:"gte=0"`
	Total          int64            `json:"total" bson:"total" validate:"gte=0"`
	Currency       string           `json:"currency" bson:"currency" validate:"required,len=3"`
	PaymentSession string           `json:"payment_session,omitempty" bson:"payment_session,omitempty"`
	Status         string           `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled"`
	CreatedAt      time.Time        `json:"created_at" bson:"created_at"`
	CancelledAt    *time.Time       `json:"cancelled_at,omitempty" bson:"cancelled_at,omitempty"`
}

// Interval returns the booked [start, end) in minutes.
func (b *Booking) Interval() (TimeInterval, error) {
	return ParseInterval(b.StartTime, b.EndTime)
}

type BookingSearch struct {
	From   string
	To     string
	Status string
}
