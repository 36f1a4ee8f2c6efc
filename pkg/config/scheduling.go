package config

import "time"

// Working-day and slot constants shared by the duration rules, the slot
// generator and the month aggregator. Availability shown to an agent and the
// duration later billed must agree on these values.
const (
	DayStartMinute      = 9 * 60
	DayEndMinute        = 18 * 60
	TravelBufferMinutes = 30
	SlotStepMinutes     = 30
	MinGapMinutes       = 30

	ClosedWeekday = time.Sunday

	// BaseBedrooms is the bedroom count every per-bedroom rate is measured from.
	BaseBedrooms = 2
	// MinPhotoCount is the smallest photography package.
	MinPhotoCount = 20

	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
	ClockLayout = "15:04"
)

const (
	Pending   = "pending"
	Confirmed = "confirmed"
	Cancelled = "cancelled"
)
