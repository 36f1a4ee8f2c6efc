package model

import (
	"encoding/json"
	"fmt"
	"propshoot/pkg/config"
	"time"
)

// TimeInterval is a half-open [Start, End) range in minutes from midnight.
type TimeInterval struct {
	Start int
	End   int
}

func NewInterval(start, duration int) TimeInterval {
	return TimeInterval{Start: start, End: start + duration}
}

func (t TimeInterval) Duration() int {
	return t.End - t.Start
}

func (t TimeInterval) Valid() bool {
	return t.Start >= 0 && t.Start < t.End
}

func (t TimeInterval) Overlaps(other TimeInterval) bool {
	return t.Start < other.End && t.End > other.Start
}

// Expand widens the interval by buffer minutes on both sides.
func (t TimeInterval) Expand(buffer int) TimeInterval {
	return TimeInterval{Start: t.Start - buffer, End: t.End + buffer}
}

func (t TimeInterval) String() string {
	return FormatClock(t.Start) + "-" + FormatClock(t.End)
}

type clockPair struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (t TimeInterval) MarshalJSON() ([]byte, error) {
	return json.Marshal(clockPair{Start: FormatClock(t.Start), End: FormatClock(t.End)})
}

func (t *TimeInterval) UnmarshalJSON(data []byte) error {
	var pair clockPair
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	parsed, err := ParseInterval(pair.Start, pair.End)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseClock converts "HH:MM" into minutes from midnight.
func ParseClock(s string) (int, error) {
	parsed, err := time.Parse(config.ClockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: expected HH:MM", s)
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

// FormatClock renders minutes from midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func ParseInterval(start, end string) (TimeInterval, error) {
	s, err := ParseClock(start)
	if err != nil {
		return TimeInterval{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return TimeInterval{}, err
	}
	interval := TimeInterval{Start: s, End: e}
	if !interval.Valid() {
		return TimeInterval{}, fmt.Errorf("interval %s-%s must end after it starts", start, end)
	}
	return interval, nil
}
