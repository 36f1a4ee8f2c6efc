package scheduling

import (
	"propshoot/pkg/config"
	"propshoot/pkg/model"
)

// Plan is one property of an order in progress.
type Plan struct {
	PropertyID string
	Date       string
	Duration   int
	// Slots are the base slots fetched for Date and Duration. Nil means
	// availability has not been fetched yet.
	Slots  []model.TimeInterval
	Chosen *model.TimeInterval
}

type PlanResult struct {
	PropertyID string               `json:"property_id"`
	Slots      []model.TimeInterval `json:"slots"`
	Chosen     *model.TimeInterval  `json:"chosen,omitempty"`
	// Cleared is set when a previous choice no longer fits and was dropped.
	Cleared bool `json:"cleared,omitempty"`
	// Pending is set when a choice is kept only because its slots are not loaded.
	Pending bool `json:"pending,omitempty"`
}

type claim struct {
	index    int
	date     string
	interval model.TimeInterval
}

// Coordinate removes from every property's slots the slots that collide
// with a sibling's chosen slot on the same date, including the travel buffer.
// Choices are settled in order and a choice that no longer fits is cleared,
// never moved. The whole order is recomputed on every call.
func Coordinate(plans []Plan) []PlanResult {
	results := make([]PlanResult, len(plans))
	claims := make([]claim, 0, len(plans))

	for i, p := range plans {
		results[i] = PlanResult{PropertyID: p.PropertyID, Slots: []model.TimeInterval{}}

		if p.Duration <= 0 || p.Date == "" {
			results[i].Cleared = p.Chosen != nil
			continue
		}
		if p.Chosen == nil {
			continue
		}

		chosen := *p.Chosen
		if p.Slots == nil {
			if conflicts(chosen, p.Date, i, claims) {
				results[i].Cleared = true
				continue
			}
			results[i].Chosen = &chosen
			results[i].Pending = true
			claims = append(claims, claim{index: i, date: p.Date, interval: chosen})
			continue
		}

		if !Contains(filter(p.Slots, p.Date, i, claims), chosen) {
			results[i].Cleared = true
			continue
		}
		results[i].Chosen = &chosen
		claims = append(claims, claim{index: i, date: p.Date, interval: chosen})
	}

	for i, p := range plans {
		if p.Duration <= 0 || p.Date == "" || p.Slots == nil {
			continue
		}
		results[i].Slots = filter(p.Slots, p.Date, i, claims)
	}
	return results
}

// filter drops slots overlapping a buffered claim of another property on date.
func filter(slots []model.TimeInterval, date string, self int, claims []claim) []model.TimeInterval {
	out := make([]model.TimeInterval, 0, len(slots))
	for _, s := range slots {
		if !conflicts(s, date, self, claims) {
			out = append(out, s)
		}
	}
	return out
}

func conflicts(slot model.TimeInterval, date string, self int, claims []claim) bool {
	for _, c := range claims {
		if c.index == self || c.date != date {
			continue
		}
		if slot.Overlaps(c.interval.Expand(config.TravelBufferMinutes)) {
			return true
		}
	}
	return false
}

// Offered reports whether plans[self] may take slot once every sibling's
// choice is settled. Its own previous choice is ignored. Without loaded
// slots only the siblings are checked.
func Offered(plans []Plan, self int, slot model.TimeInterval) bool {
	plans = append([]Plan(nil), plans...)
	plans[self].Chosen = nil
	results := Coordinate(plans)

	p := plans[self]
	if p.Slots != nil {
		return Contains(results[self].Slots, slot)
	}
	for j, r := range results {
		if j == self || r.Chosen == nil || plans[j].Date != p.Date {
			continue
		}
		if slot.Overlaps(r.Chosen.Expand(config.TravelBufferMinutes)) {
			return false
		}
	}
	return true
}
