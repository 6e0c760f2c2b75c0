package leave

import "time"

// WorkingDays counts Monday through Friday days in the inclusive range
// [start, end]. Returns 0 when end precedes start. Both bounds are treated as
// calendar dates; callers normalize to midnight before calling.
func WorkingDays(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			count++
		}
	}
	return count
}

// Overlaps reports whether two inclusive date ranges intersect. Ranges that
// merely touch at a shared boundary day count as overlapping.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !bStart.After(aEnd)
}
