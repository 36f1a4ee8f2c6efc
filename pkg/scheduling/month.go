package scheduling

import (
	"sort"
	"time"

	"propshoot/pkg/config"
	"propshoot/pkg/model"
)

type DayState string

const (
	DayOpen    DayState = "open"
	DayPartial DayState = "partial"
	DayFull    DayState = "full"
	DayBlocked DayState = "blocked"
	DayClosed  DayState = "closed"
)

// HasGap reports whether a free stretch of at least MinGap minutes is left
// between the bookings, each followed by its travel buffer.
func HasGap(bookings []model.TimeInterval, day WorkingDay) bool {
	sorted := make([]model.TimeInterval, len(bookings))
	copy(sorted, bookings)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	cursor := day.Start
	for _, b := range sorted {
		if b.Start-day.Buffer-cursor >= day.MinGap {
			return true
		}
		cursor = max(cursor, b.End+day.Buffer)
	}
	return day.End-cursor >= day.MinGap
}

// ClassifyDay maps load to a calendar state. Blocked overrides load.
func ClassifyDay(bookings []model.TimeInterval, blocked bool, day WorkingDay) DayState {
	switch {
	case blocked:
		return DayBlocked
	case len(bookings) == 0:
		return DayOpen
	case HasGap(bookings, day):
		return DayPartial
	default:
		return DayFull
	}
}

type CalendarDay struct {
	Date  string   `json:"date"`
	State DayState `json:"state"`
}

type MonthView struct {
	Month       string        `json:"month"`
	Unavailable []string      `json:"unavailable"`
	Days        []CalendarDay `json:"days"`
}

// MonthBounds returns the first and last date of the month containing m.
func MonthBounds(m time.Time) (time.Time, time.Time) {
	first := time.Date(m.Year(), m.Month(), 1, 0, 0, 0, 0, m.Location())
	return first, first.AddDate(0, 1, -1)
}

// UnavailableDates is the sorted union of blocked dates and full dates in month.
func UnavailableDates(month time.Time, bookings map[string][]model.TimeInterval, blocked map[string]bool, day WorkingDay) []string {
	return MonthCalendar(month, bookings, blocked, day).Unavailable
}

// MonthCalendar classifies every date of month. Closed weekdays are reported
// as closed but are not part of Unavailable since no booking can land there.
func MonthCalendar(month time.Time, bookings map[string][]model.TimeInterval, blocked map[string]bool, day WorkingDay) MonthView {
	first, last := MonthBounds(month)
	view := MonthView{
		Month:       first.Format(config.MonthLayout),
		Unavailable: []string{},
		Days:        make([]CalendarDay, 0, last.Day()),
	}

	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		date := d.Format(config.DateLayout)
		state := ClassifyDay(bookings[date], blocked[date], day)
		if state == DayOpen && !day.OperatesOn(d) {
			state = DayClosed
		}
		if state == DayBlocked || state == DayFull {
			view.Unavailable = append(view.Unavailable, date)
		}
		view.Days = append(view.Days, CalendarDay{Date: date, State: state})
	}
	return view
}
