package model

import "time"

// BlockedDay closes a whole calendar date regardless of bookings.
type BlockedDay struct {
	ID        string    `json:"id" bson:"_id"`
	Date      string    `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
	Reason    string    `json:"reason,omitempty" bson:"reason,omitempty" validate:"max=200"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

type DiscountCode struct {
	ID         string    `json:"id" bson:"_id"`
	Code       string    `json:"code" bson:"code" validate:"required,min=3,max=32,alphanum"`
	Percentage int       `json:"percentage" bson:"percentage" validate:"required,min=1,max=100"`
	Active     bool      `json:"active" bson:"active"`
	MaxUses    int       `json:"max_uses,omitempty" bson:"max_uses,omitempty" validate:"gte=0"`
	TimesUsed  int       `json:"times_used" bson:"times_used" validate:"gte=0"`
	ExpiresAt  string    `json:"expires_at,omitempty" bson:"expires_at,omitempty" validate:"omitempty,datetime=2006-01-02"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

type DiscountCodeUpdate struct {
	Percentage *int    `json:"percentage,omitempty" validate:"omitempty,min=1,max=100"`
	Active     *bool   `json:"active,omitempty"`
	MaxUses    *int    `json:"max_uses,omitempty" validate:"omitempty,gte=0"`
	ExpiresAt  *string `json:"expires_at,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// Exhausted reports whether the usage limit has been reached. Zero means unlimited.
func (d *DiscountCode) Exhausted() bool {
	return d.MaxUses > 0 && d.TimesUsed >= d.MaxUses
}

// ExpiredOn reports whether the code expired before the given date.
func (d *DiscountCode) ExpiredOn(today string) bool {
	return d.ExpiresAt != "" && d.ExpiresAt < today
}
