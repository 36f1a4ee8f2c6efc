// Package scheduling turns a shoot duration and the bookings already on a
// date into the start times an agent may pick, and classifies whole days for
// the month calendar. Everything here is pure and synchronous.
package scheduling

import (
	"time"

	"propshoot/pkg/config"
	"propshoot/pkg/model"
)

// WorkingDay is the window shoots may occupy and the rules slots follow.
type WorkingDay struct {
	Start  int
	End    int
	Step   int
	Buffer int
	MinGap int
	Closed time.Weekday
}

func Default() WorkingDay {
	return WorkingDay{
		Start:  config.DayStartMinute,
		End:    config.DayEndMinute,
		Step:   config.SlotStepMinutes,
		Buffer: config.TravelBufferMinutes,
		MinGap: config.MinGapMinutes,
		Closed: config.ClosedWeekday,
	}
}

func (d WorkingDay) Length() int {
	return d.End - d.Start
}

func (d WorkingDay) OperatesOn(date time.Time) bool {
	return date.Weekday() != d.Closed
}

// Reason explains why a date offers no slots.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonBlocked     Reason = "blocked"
	ReasonClosed      Reason = "closed"
	ReasonPast        Reason = "past"
	ReasonFullyBooked Reason = "fully_booked"
	ReasonNoFit       Reason = "no_fit"
)

var reasonMessages = map[Reason]string{
	ReasonBlocked:     "This date is unavailable",
	ReasonClosed:      "We only operate Monday - Saturday",
	ReasonPast:        "This date is in the past",
	ReasonFullyBooked: "This date is fully booked",
	ReasonNoFit:       "No time slot on this date is long enough for the selected services",
}

func (r Reason) Message() string {
	return reasonMessages[r]
}

// CheckDay applies the day-level short-circuits before any interval work.
// A blocked day wins over the weekly closing day.
func CheckDay(date time.Time, blocked *model.BlockedDay, day WorkingDay) (Reason, bool) {
	if blocked != nil {
		return ReasonBlocked, false
	}
	if !day.OperatesOn(date) {
		return ReasonClosed, false
	}
	return ReasonNone, true
}

// DayAvailability is the answer for one date and one requested duration.
type DayAvailability struct {
	Date      string               `json:"date"`
	Available bool                 `json:"available"`
	Reason    Reason               `json:"reason,omitempty"`
	Message   string               `json:"message,omitempty"`
	Slots     []model.TimeInterval `json:"slots"`
	Existing  int                  `json:"existing_bookings"`
}

// Evaluate runs the whole pipeline for one date: past and day checks, then
// slot generation. A zero duration only reports whether the day is open.
func Evaluate(date, today time.Time, blocked *model.BlockedDay, existing []model.TimeInterval, duration int, day WorkingDay) DayAvailability {
	out := DayAvailability{
		Date:     date.Format(config.DateLayout),
		Slots:    []model.TimeInterval{},
		Existing: len(existing),
	}

	reason, ok := CheckDay(date, blocked, day)
	if ok && date.Before(today) {
		reason, ok = ReasonPast, false
	}
	if !ok {
		out.Reason = reason
		out.Message = reason.Message()
		if reason == ReasonBlocked && blocked.Reason != "" {
			out.Message = blocked.Reason
		}
		return out
	}

	if duration <= 0 {
		out.Available = true
		return out
	}

	out.Slots = Slots(duration, existing, day)
	if len(out.Slots) > 0 {
		out.Available = true
		return out
	}

	out.Reason = ReasonNoFit
	if !HasGap(existing, day) {
		out.Reason = ReasonFullyBooked
	}
	out.Message = out.Reason.Message()
	return out
}
