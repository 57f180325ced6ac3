package utils

import "time"

// DayRange is the half-open UTC interval [Start, End) covering one
// civil calendar day in a fixed timezone. On DST transition days the
// interval is 23h or 25h long, not 24h.
type DayRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the range.
func (r DayRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// ResolveDayRange converts a YYYY-MM-DD civil date in the given zone
// into its UTC interval. Local midnight is resolved through the zone
// database, so the zone's UTC offset (including any DST shift between
// the two midnights) is accounted for. Returns nil for a malformed or
// impossible date; callers treat that as invalid input, not a crash.
func ResolveDayRange(dateStr string, loc *time.Location) *DayRange {
	if loc == nil {
		return nil
	}
	parsed, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return nil
	}
	y, m, d := parsed.Date()

	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	end := time.Date(y, m, d+1, 0, 0, 0, 0, loc)
	return &DayRange{Start: start.UTC(), End: end.UTC()}
}
