package model

import "time"

// BookingLock is an advisory lock taken while a slot on a date is being
// committed. Expired locks are reaped by a TTL index.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	Date      string    `bson:"date" json:"date"`
	StartTime string    `bson:"start_time" json:"start_time"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
