// Package scheduling holds the pure availability and capacity rules used by the booking flow.
//
// Times of day are integer minutes since midnight in the scheduling owner's local time.
// Nothing in this package reads the clock, the database or any global configuration.
package scheduling

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"appointly/shared/constant"
	"appointly/shared/failure"
)

// Window is a half-open range [Start, End) of minutes since midnight.
type Window struct {
	Start int
	End   int
}

func (w Window) Len() int {
	return w.End - w.Start
}

func (w Window) Valid() bool {
	return w.Start >= 0 && w.End <= constant.MinutesPerDay && w.Start < w.End
}

func (w Window) Contains(minute int) bool {
	return minute >= w.Start && minute < w.End
}

func (w Window) Overlaps(other Window) bool {
	return w.Start < other.End && other.Start < w.End
}

// ParseClock converts "HH:MM" (or "HH:MM:SS" as returned by some drivers) to minutes since midnight.
func ParseClock(value string) (int, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) < 2 || len(parts) > 3 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, failure.BadRequestFromString(fmt.Sprintf("invalid time %q, expected HH:MM", value)) //nolint:wrapcheck
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, failure.BadRequestFromString(fmt.Sprintf("invalid hour in %q", value)) //nolint:wrapcheck
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, failure.BadRequestFromString(fmt.Sprintf("invalid minute in %q", value)) //nolint:wrapcheck
	}

	return hour*60 + minute, nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseWindow parses a start/end pair and rejects empty or inverted ranges.
func ParseWindow(start, end string) (Window, error) {
	startMin, err := ParseClock(start)
	if err != nil {
		return Window{}, err
	}

	endMin, err := ParseClock(end)
	if err != nil {
		return Window{}, err
	}

	if startMin >= endMin {
		return Window{}, failure.BadRequestFromString(fmt.Sprintf("start time %s must be before end time %s", start, end)) //nolint:wrapcheck
	}

	return Window{Start: startMin, End: endMin}, nil
}

// subtract removes block from every window, splitting windows that straddle it.
func subtract(windows []Window, block Window) []Window {
	updated := make([]Window, 0, len(windows))

	for _, w := range windows {
		if block.End <= w.Start || block.Start >= w.End {
			updated = append(updated, w)

			continue
		}

		if block.Start > w.Start {
			updated = append(updated, Window{Start: w.Start, End: block.Start})
		}

		if block.End < w.End {
			updated = append(updated, Window{Start: block.End, End: w.End})
		}
	}

	return updated
}

func sortWindows(windows []Window) {
	sort.Slice(windows, func(i, j int) bool {
		if windows[i].Start == windows[j].Start {
			return windows[i].End < windows[j].End
		}

		return windows[i].Start < windows[j].Start
	})
}
