package timeutil

import (
	"testing"
	"time"
)

func mustLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := Location("America/New_York")
	if err != nil {
		t.Fatalf("Location: %v", err)
	}
	return loc
}

func TestDateInt(t *testing.T) {
	got := DateInt(time.Date(2024, 8, 5, 13, 30, 0, 0, time.UTC))
	if got != 20240805 {
		t.Errorf("DateInt = %d, want 20240805", got)
	}
}

func TestServiceDate(t *testing.T) {
	loc := mustLocation(t)
	tests := []struct {
		name     string
		at       time.Time
		expected int
	}{
		{
			name:     "midday",
			at:       time.Date(2024, 8, 15, 12, 0, 0, 0, loc),
			expected: 20240815,
		},
		{
			name:     "before rollover still previous date",
			at:       time.Date(2024, 8, 16, 1, 30, 0, 0, loc),
			expected: 20240815,
		},
		{
			name:     "at rollover new date",
			at:       time.Date(2024, 8, 16, 4, 0, 0, 0, loc),
			expected: 20240816,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ServiceDate(tt.at, loc); got != tt.expected {
				t.Errorf("ServiceDate(%v) = %d, want %d", tt.at, got, tt.expected)
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	loc := mustLocation(t)
	tests := []struct {
		clock    string
		expected time.Time
	}{
		{"10:45 AM", time.Date(2024, 8, 15, 10, 45, 0, 0, loc)},
		{"08:05 PM", time.Date(2024, 8, 15, 20, 5, 0, 0, loc)},
		{"8:05PM", time.Date(2024, 8, 15, 20, 5, 0, 0, loc)},
		{"22:45", time.Date(2024, 8, 15, 22, 45, 0, 0, loc)},
		{"06:12:30", time.Date(2024, 8, 15, 6, 12, 30, 0, loc)},
	}
	for _, tt := range tests {
		t.Run(tt.clock, func(t *testing.T) {
			got, err := ParseClock(tt.clock, 20240815, loc)
			if err != nil {
				t.Fatalf("ParseClock(%q): %v", tt.clock, err)
			}
			if !got.Equal(tt.expected) {
				t.Errorf("ParseClock(%q) = %v, want %v", tt.clock, got, tt.expected)
			}
		})
	}

	if _, err := ParseClock("tomorrow-ish", 20240815, loc); err == nil {
		t.Error("expected error for an unparseable clock value")
	}
}

func TestGTFSSecondsRoundTrip(t *testing.T) {
	loc := mustLocation(t)

	noon := FromGTFSSeconds(20240815, 12*3600, loc)
	if want := time.Date(2024, 8, 15, 12, 0, 0, 0, loc); !noon.Equal(want) {
		t.Errorf("FromGTFSSeconds noon = %v, want %v", noon, want)
	}

	// Past 24:00:00 lands on the next calendar day but keeps the service date.
	late := FromGTFSSeconds(20240815, 25*3600+30*60, loc)
	if want := time.Date(2024, 8, 16, 1, 30, 0, 0, loc); !late.Equal(want) {
		t.Errorf("FromGTFSSeconds post-midnight = %v, want %v", late, want)
	}
	if got := ToGTFSSeconds(late, 20240815, loc); got != 25*3600+30*60 {
		t.Errorf("ToGTFSSeconds round trip = %d, want %d", got, 25*3600+30*60)
	}
}
