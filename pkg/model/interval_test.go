package model

import (
	"encoding/json"
	"testing"
)

func TestTimeInterval_Overlaps(t *testing.T) {
	base := TimeInterval{Start: 720, End: 780} // 12:00-13:00

	tests := []struct {
		name  string
		other TimeInterval
		want  bool
	}{
		{"identical", TimeInterval{720, 780}, true},
		{"inside", TimeInterval{730, 740}, true},
		{"straddles start", TimeInterval{700, 730}, true},
		{"straddles end", TimeInterval{770, 800}, true},
		{"touches before", TimeInterval{660, 720}, false},
		{"touches after", TimeInterval{780, 840}, false},
		{"disjoint", TimeInterval{900, 960}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Overlaps(tt.other); got != tt.want {
				t.Errorf("Overlaps(%v) = %v, want %v", tt.other, got, tt.want)
			}
			if got := tt.other.Overlaps(base); got != tt.want {
				t.Errorf("Overlaps is not symmetric for %v", tt.other)
			}
		})
	}
}

func TestTimeInterval_Expand(t *testing.T) {
	got := TimeInterval{Start: 720, End: 780}.Expand(30)
	if got.Start != 690 || got.End != 810 {
		t.Errorf("Expand(30) = %v, want 11:30-13:30", got)
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"09:00", 540, false},
		{"18:00", 1080, false},
		{"13:30", 810, false},
		{"00:00", 0, false},
		{"25:00", 0, true},
		{"noon", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseClock(%q) = %d, want %d", tt.in, got, tt.want)
			}
			if FormatClock(got) != tt.in {
				t.Errorf("FormatClock(%d) = %q, want %q", got, FormatClock(got), tt.in)
			}
		})
	}
}

func TestParseInterval_RejectsInverted(t *testing.T) {
	if _, err := ParseInterval("13:00", "12:00"); err == nil {
		t.Error("expected error for end before start")
	}
	if _, err := ParseInterval("13:00", "13:00"); err == nil {
		t.Error("expected error for empty interval")
	}
}

func TestTimeInterval_JSONUsesClockStrings(t *testing.T) {
	data, err := json.Marshal(TimeInterval{Start: 540, End: 600})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"start":"09:00","end":"10:00"}` {
		t.Errorf("unexpected JSON %s", data)
	}

	var decoded TimeInterval
	if err := json.Unmarshal([]byte(`{"start":"14:30","end":"15:10"}`), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Start != 870 || decoded.End != 910 {
		t.Errorf("decoded %v", decoded)
	}

	if err := json.Unmarshal([]byte(`{"start":"15:00","end":"14:00"}`), &decoded); err == nil {
		t.Error("expected error for inverted interval")
	}
}
