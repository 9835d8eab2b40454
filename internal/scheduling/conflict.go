package scheduling

import (
	"time"
)

// Mode selects how an existing booking is matched against a candidate interval.
type Mode int

const (
	// ModeStartInRange counts bookings whose start lies in [start, end). Campaign scopes use it.
	ModeStartInRange Mode = iota + 1
	// ModeOverlap counts bookings whose interval overlaps [start, end). Event scopes use it.
	ModeOverlap
)

// Booked is the part of a booking the conflict rules look at.
type Booked struct {
	ID    string
	Start time.Time
	End   time.Time
}

func Overlaps(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && end1.After(start2)
}

func (m Mode) matches(b Booked, start, end time.Time) bool {
	switch m {
	case ModeStartInRange:
		return !b.Start.Before(start) && b.Start.Before(end)
	default:
		return Overlaps(b.Start, b.End, start, end)
	}
}

// CountConflicts counts bookings matching [start, end) under mode, skipping excludeID.
func CountConflicts(bookings []Booked, start, end time.Time, mode Mode, excludeID string) int {
	count := 0

	for _, b := range bookings {
		if excludeID != "" && b.ID == excludeID {
			continue
		}

		if mode.matches(b, start, end) {
			count++
		}
	}

	return count
}

// HasCapacity reports whether one more booking fits. Capacities below one are treated as one.
func HasCapacity(count, capacity int) bool {
	if capacity < defaultCapacity {
		capacity = defaultCapacity
	}

	return count < capacity
}

// IsSlotAvailable is the advisory check run before showing or inserting a slot.
func IsSlotAvailable(bookings []Booked, start, end time.Time, capacity int, mode Mode, excludeID string) bool {
	return HasCapacity(CountConflicts(bookings, start, end, mode, excludeID), capacity)
}

// BookedByStart groups bookings that start on date (in loc) by their "HH:MM" start time.
func BookedByStart(bookings []Booked, date time.Time, loc *time.Location) map[string]int {
	year, month, day := date.Date()
	booked := map[string]int{}

	for _, b := range bookings {
		local := b.Start.In(loc)

		y, m, d := local.Date()
		if y != year || m != month || d != day {
			continue
		}

		booked[FormatClock(local.Hour()*60+local.Minute())]++
	}

	return booked
}
