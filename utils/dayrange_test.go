package utils

import (
	"testing"
	"time"
)

func mustLoadLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("LoadLocation(%q): %v", name, err)
	}
	return loc
}

func TestResolveDayRangeFixedOffset(t *testing.T) {
	// America/Panama is UTC-5 year-round, no DST.
	loc := mustLoadLocation(t, "America/Panama")

	r := ResolveDayRange("2024-03-15", loc)
	if r == nil {
		t.Fatal("expected a range, got nil")
	}

	wantStart := time.Date(2024, 3, 15, 5, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2024, 3, 16, 5, 0, 0, 0, time.UTC)
	if !r.Start.Equal(wantStart) {
		t.Errorf("start = %v, expected %v", r.Start, wantStart)
	}
	if !r.End.Equal(wantEnd) {
		t.Errorf("end = %v, expected %v", r.End, wantEnd)
	}
	if d := r.End.Sub(r.Start); d != 24*time.Hour {
		t.Errorf("duration = %v, expected 24h", d)
	}
}

func TestResolveDayRangeDSTTransitions(t *testing.T) {
	loc := mustLoadLocation(t, "America/New_York")

	tests := []struct {
		name string
		date string
		want time.Duration
	}{
		{"spring forward is 23h", "2024-03-10", 23 * time.Hour},
		{"fall back is 25h", "2024-11-03", 25 * time.Hour},
		{"ordinary day is 24h", "2024-06-01", 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ResolveDayRange(tt.date, loc)
			if r == nil {
				t.Fatal("expected a range, got nil")
			}
			if d := r.End.Sub(r.Start); d != tt.want {
				t.Errorf("duration = %v, expected %v", d, tt.want)
			}
			// Every instant inside the range converts back to the
			// target civil date; the boundaries do not leak.
			if got := r.Start.In(loc).Format("2006-01-02"); got != tt.date {
				t.Errorf("start converts to %s, expected %s", got, tt.date)
			}
			if got := r.End.Add(-time.Second).In(loc).Format("2006-01-02"); got != tt.date {
				t.Errorf("last second converts to %s, expected %s", got, tt.date)
			}
			if got := r.End.In(loc).Format("2006-01-02"); got == tt.date {
				t.Error("end instant must be outside the civil day")
			}
		})
	}
}

func TestResolveDayRangeInvalidInput(t *testing.T) {
	loc := mustLoadLocation(t, "America/Panama")

	tests := []struct {
		name string
		date string
	}{
		{"empty", ""},
		{"garbage", "not-a-date"},
		{"non numeric parts", "2024-ab-01"},
		{"impossible day", "2024-02-31"},
		{"missing parts", "2024-06"},
		{"wrong separator", "2024/06/01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if r := ResolveDayRange(tt.date, loc); r != nil {
				t.Errorf("ResolveDayRange(%q) = %+v, expected nil", tt.date, r)
			}
		})
	}

	if r := ResolveDayRange("2024-06-01", nil); r != nil {
		t.Errorf("nil location should yield nil, got %+v", r)
	}
}

func TestDayRangeContains(t *testing.T) {
	loc := mustLoadLocation(t, "America/Panama")
	r := ResolveDayRange("2024-06-01", loc)
	if r == nil {
		t.Fatal("expected a range")
	}

	inside := time.Date(2024, 6, 1, 14, 30, 0, 0, time.UTC)
	if !r.Contains(inside) {
		t.Errorf("%v should be inside the range", inside)
	}
	if !r.Contains(r.Start) {
		t.Error("start is inclusive")
	}
	if r.Contains(r.End) {
		t.Error("end is exclusive")
	}
}
