package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propshoot/pkg/model"
)

func TestHasGap(t *testing.T) {
	day := Default()

	tests := []struct {
		name     string
		bookings []model.TimeInterval
		want     bool
	}{
		{"empty day", nil, true},
		{"whole day booked", []model.TimeInterval{interval(t, "09:00", "18:00")}, false},
		{"tail gap too short", []model.TimeInterval{interval(t, "09:00", "17:10")}, false},
		{"tail gap exactly minimum", []model.TimeInterval{interval(t, "09:00", "17:00")}, true},
		{
			"gap between bookings swallowed by buffers",
			[]model.TimeInterval{interval(t, "09:00", "12:00"), interval(t, "13:00", "18:00")},
			false,
		},
		{
			"gap between bookings large enough",
			[]model.TimeInterval{interval(t, "09:00", "12:00"), interval(t, "13:30", "18:00")},
			true,
		},
		{
			"unsorted input",
			[]model.TimeInterval{interval(t, "13:00", "18:00"), interval(t, "09:00", "12:00")},
			false,
		},
		{"morning gap before first booking", []model.TimeInterval{interval(t, "10:00", "18:00")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasGap(tt.bookings, day))
		})
	}
}

func TestClassifyDay(t *testing.T) {
	day := Default()
	full := []model.TimeInterval{interval(t, "09:00", "18:00")}
	some := []model.TimeInterval{interval(t, "10:00", "11:00")}

	assert.Equal(t, DayOpen, ClassifyDay(nil, false, day))
	assert.Equal(t, DayPartial, ClassifyDay(some, false, day))
	assert.Equal(t, DayFull, ClassifyDay(full, false, day))
	assert.Equal(t, DayBlocked, ClassifyDay(nil, true, day))
	assert.Equal(t, DayBlocked, ClassifyDay(full, true, day))
}

func TestMonthCalendar(t *testing.T) {
	day := Default()
	month := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	bookings := map[string][]model.TimeInterval{
		"2026-03-10": {interval(t, "09:00", "18:00")},
		"2026-03-11": {interval(t, "10:00", "11:00")},
		"2026-04-01": {interval(t, "09:00", "18:00")},
	}
	blocked := map[string]bool{"2026-03-05": true, "2026-03-10": true}

	view := MonthCalendar(month, bookings, blocked, day)

	assert.Equal(t, "2026-03", view.Month)
	assert.Equal(t, []string{"2026-03-05", "2026-03-10"}, view.Unavailable)
	require.Len(t, view.Days, 31)

	states := map[string]DayState{}
	for _, d := range view.Days {
		states[d.Date] = d.State
	}
	assert.Equal(t, DayBlocked, states["2026-03-10"])
	assert.Equal(t, DayPartial, states["2026-03-11"])
	assert.Equal(t, DayClosed, states["2026-03-01"])
	assert.Equal(t, DayOpen, states["2026-03-02"])

	bookings["2026-03-12"] = []model.TimeInterval{interval(t, "09:00", "17:45")}
	assert.Equal(t, []string{"2026-03-05", "2026-03-10", "2026-03-12"}, UnavailableDates(month, bookings, blocked, day))
}

func TestMonthBounds(t *testing.T) {
	first, last := MonthBounds(time.Date(2028, 2, 10, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 1, first.Day())
	assert.Equal(t, 29, last.Day())
}
