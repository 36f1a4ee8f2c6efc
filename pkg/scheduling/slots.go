package scheduling

import (
	"sort"

	"propshoot/pkg/model"
)

// blockedIntervals returns existing expanded by buffer on both sides, sorted by start.
func blockedIntervals(existing []model.TimeInterval, buffer int) []model.TimeInterval {
	blocked := make([]model.TimeInterval, 0, len(existing))
	for _, iv := range existing {
		blocked = append(blocked, iv.Expand(buffer))
	}
	sort.Slice(blocked, func(i, j int) bool {
		return blocked[i].Start < blocked[j].Start
	})
	return blocked
}

// Slots enumerates every start on the step grid whose shoot fits the working
// day without touching an existing interval or its travel buffer.
func Slots(duration int, existing []model.TimeInterval, day WorkingDay) []model.TimeInterval {
	slots := []model.TimeInterval{}
	if duration <= 0 || day.Step <= 0 {
		return slots
	}

	blocked := blockedIntervals(existing, day.Buffer)
	for start := day.Start; start+duration <= day.End; start += day.Step {
		candidate := model.NewInterval(start, duration)
		if !overlapsAny(candidate, blocked) {
			slots = append(slots, candidate)
		}
	}
	return slots
}

func overlapsAny(candidate model.TimeInterval, blocked []model.TimeInterval) bool {
	for _, b := range blocked {
		if b.Start >= candidate.End {
			// sorted by start, nothing later can overlap
			return false
		}
		if candidate.Overlaps(b) {
			return true
		}
	}
	return false
}

// Contains reports whether slot is one of slots.
func Contains(slots []model.TimeInterval, slot model.TimeInterval) bool {
	for _, s := range slots {
		if s == slot {
			return true
		}
	}
	return false
}
