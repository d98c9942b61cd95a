package timeutil

import "time"

// Booking day window. Vehicles may only be on the road between these hours.
const (
	DayStartHour = 6
	DayEndHour   = 22
)

// Overlaps reports whether the intervals [startA, endA] and [startB, endB]
// share at least one instant. Touching endpoints count as overlapping.
// Every overlap check in the system goes through this predicate.
func Overlaps(startA, endA, startB, endB time.Time) bool {
	return !startA.After(endB) && !startB.After(endA)
}

// WeekBounds returns Monday 00:00 of the week containing t and the following
// Monday 00:00, in t's location.
func WeekBounds(t time.Time) (time.Time, time.Time) {
	offset := int(t.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7 // Sunday
	}

	year, month, day := t.AddDate(0, 0, -offset).Date()
	monday := time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	return monday, monday.AddDate(0, 0, 7)
}

// DayWindow returns the bookable window for the calendar day containing t,
// 06:00 to 22:00 in t's location.
func DayWindow(t time.Time) (time.Time, time.Time) {
	year, month, day := t.Date()
	start := time.Date(year, month, day, DayStartHour, 0, 0, 0, t.Location())
	end := time.Date(year, month, day, DayEndHour, 0, 0, 0, t.Location())
	return start, end
}

// WithinDayWindow reports whether t's time of day falls inside [06:00, 22:00).
func WithinDayWindow(t time.Time) bool {
	h := t.Hour()
	return h >= DayStartHour && h < DayEndHour
}

// AtDayClose reports whether t is exactly the 22:00 closing edge. A window
// may end on the edge even though the edge itself is outside the open
// interval.
func AtDayClose(t time.Time) bool {
	return t.Hour() == DayEndHour && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}

// MaxTime returns the later of a and b.
func MaxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
