package scheduling

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propshoot/pkg/model"
)

func clock(t *testing.T, s string) int {
	t.Helper()
	m, err := model.ParseClock(s)
	require.NoError(t, err)
	return m
}

func interval(t *testing.T, start, end string) model.TimeInterval {
	t.Helper()
	iv, err := model.ParseInterval(start, end)
	require.NoError(t, err)
	return iv
}

func TestSlots_EmptyDay(t *testing.T) {
	slots := Slots(60, nil, Default())

	// 09:00 through 17:00 inclusive
	require.Len(t, slots, 17)
	assert.Equal(t, clock(t, "09:00"), slots[0].Start)
	assert.Equal(t, clock(t, "17:00"), slots[len(slots)-1].Start)
	for _, s := range slots {
		assert.Equal(t, 60, s.Duration())
	}
}

func TestSlots_NonPositiveDuration(t *testing.T) {
	assert.Empty(t, Slots(0, nil, Default()))
	assert.Empty(t, Slots(-30, nil, Default()))
}

func TestSlots_DurationLongerThanDay(t *testing.T) {
	day := Default()
	assert.Len(t, Slots(day.Length(), nil, day), 1)
	assert.Empty(t, Slots(day.Length()+1, nil, day))
	assert.Empty(t, Slots(600, nil, day))
}

func TestSlots_BookingBlocksBufferedNeighbourhood(t *testing.T) {
	existing := []model.TimeInterval{interval(t, "12:00", "13:00")}
	slots := Slots(60, existing, Default())

	for _, s := range slots {
		if s.Start >= clock(t, "11:00") && s.Start < clock(t, "13:00") {
			t.Errorf("slot %s starts inside the blocked window", s)
		}
	}
	assert.True(t, Contains(slots, interval(t, "10:30", "11:30")))
	assert.True(t, Contains(slots, interval(t, "13:30", "14:30")))
	assert.False(t, Contains(slots, interval(t, "11:00", "12:00")))
	assert.False(t, Contains(slots, interval(t, "13:00", "14:00")))
}

func TestSlots_Deterministic(t *testing.T) {
	existing := []model.TimeInterval{
		interval(t, "15:00", "16:10"),
		interval(t, "10:00", "10:40"),
	}
	first := Slots(45, existing, Default())
	second := Slots(45, existing, Default())
	assert.Equal(t, first, second)

	for i := 1; i < len(first); i++ {
		assert.Less(t, first[i-1].Start, first[i].Start)
	}
}

func TestSlots_NeverOverlapRandomBookings(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	day := Default()

	for run := 0; run < 500; run++ {
		existing := make([]model.TimeInterval, rng.Intn(5))
		for i := range existing {
			start := day.Start + rng.Intn(day.Length()/5)*5
			existing[i] = model.NewInterval(start, 20+rng.Intn(30)*5)
		}
		duration := 25 + rng.Intn(40)*5

		for _, s := range Slots(duration, existing, day) {
			require.LessOrEqual(t, s.End, day.End)
			require.GreaterOrEqual(t, s.Start, day.Start)
			for _, e := range existing {
				require.False(t, s.Overlaps(e.Expand(day.Buffer)), "run %d: slot %s overlaps %s", run, s, e)
			}
		}
	}
}

func TestCheckDay(t *testing.T) {
	day := Default()
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	reason, ok := CheckDay(monday, nil, day)
	assert.True(t, ok)
	assert.Equal(t, ReasonNone, reason)

	reason, ok = CheckDay(sunday, nil, day)
	assert.False(t, ok)
	assert.Equal(t, ReasonClosed, reason)

	reason, ok = CheckDay(sunday, &model.BlockedDay{Date: "2026-03-01"}, day)
	assert.False(t, ok)
	assert.Equal(t, ReasonBlocked, reason)
}

func TestEvaluate(t *testing.T) {
	day := Default()
	today := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	tuesday := today.AddDate(0, 0, 1)

	t.Run("blocked day carries admin reason", func(t *testing.T) {
		got := Evaluate(tuesday, today, &model.BlockedDay{Reason: "Team training"}, nil, 60, day)
		assert.False(t, got.Available)
		assert.Equal(t, ReasonBlocked, got.Reason)
		assert.Equal(t, "Team training", got.Message)
		assert.Empty(t, got.Slots)
	})

	t.Run("blocked day without reason", func(t *testing.T) {
		got := Evaluate(tuesday, today, &model.BlockedDay{}, nil, 60, day)
		assert.Equal(t, "This date is unavailable", got.Message)
	})

	t.Run("past date", func(t *testing.T) {
		got := Evaluate(today.AddDate(0, 0, -1), today, nil, nil, 60, day)
		assert.Equal(t, ReasonPast, got.Reason)
	})

	t.Run("zero duration only checks the day", func(t *testing.T) {
		got := Evaluate(tuesday, today, nil, nil, 0, day)
		assert.True(t, got.Available)
		assert.Empty(t, got.Slots)
	})

	t.Run("fully booked", func(t *testing.T) {
		existing := []model.TimeInterval{interval(t, "09:00", "17:50")}
		got := Evaluate(tuesday, today, nil, existing, 40, day)
		assert.False(t, got.Available)
		assert.Equal(t, ReasonFullyBooked, got.Reason)
		assert.Equal(t, 1, got.Existing)
	})

	t.Run("gaps exist but duration does not fit", func(t *testing.T) {
		existing := []model.TimeInterval{interval(t, "10:30", "12:00"), interval(t, "14:00", "16:00")}
		got := Evaluate(tuesday, today, nil, existing, 300, day)
		assert.False(t, got.Available)
		assert.Equal(t, ReasonNoFit, got.Reason)
	})

	t.Run("open day lists slots", func(t *testing.T) {
		got := Evaluate(tuesday, today, nil, nil, 140, day)
		assert.True(t, got.Available)
		assert.NotEmpty(t, got.Slots)
		assert.Equal(t, "2026-03-03", got.Date)
	})
}
