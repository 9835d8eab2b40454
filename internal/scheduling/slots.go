package scheduling

import (
	"sort"
	"time"

	"appointly/shared/constant"
)

// Rule is a recurring weekly availability window.
type Rule struct {
	DayOfWeek time.Weekday
	Start     string
	End       string
	Available bool
}

// Exception overrides the rules for one calendar date. Empty Start and End cover the whole day.
type Exception struct {
	Date      string
	Start     string
	End       string
	Available bool
}

func (e Exception) FullDay() bool {
	return e.Start == "" && e.End == ""
}

// Input is everything the generator needs for one day of one scope.
type Input struct {
	Date       time.Time
	Duration   int
	Rules      []Rule
	Exceptions []Exception
	Custom     *CustomAvailability
	// Booked maps "HH:MM" start times to the number of non-cancelled bookings at that time.
	Booked map[string]int
}

// Candidate is a start time produced from a window together with its capacity.
type Candidate struct {
	Start    int
	Capacity int
}

func (c Candidate) Clock() string {
	return FormatClock(c.Start)
}

// Windows resolves the available windows for in.Date.
func Windows(in Input) ([]Window, error) {
	day := in.Date.Format(constant.DayFormat)
	weekday := in.Date.Weekday()

	blocks := []Window{}
	extras := []Window{}

	for _, exception := range in.Exceptions {
		if exception.Date != day {
			continue
		}

		if exception.FullDay() {
			if !exception.Available {
				return []Window{}, nil
			}

			continue
		}

		window, err := ParseWindow(exception.Start, exception.End)
		if err != nil {
			return nil, err
		}

		if exception.Available {
			extras = append(extras, window)
		} else {
			blocks = append(blocks, window)
		}
	}

	if in.Custom.HasSlots() {
		windows := in.Custom.WindowsFor(weekday)
		sortWindows(windows)

		return windows, nil
	}

	windows := []Window{}

	for _, rule := range in.Rules {
		if rule.DayOfWeek != weekday || !rule.Available {
			continue
		}

		window, err := ParseWindow(rule.Start, rule.End)
		if err != nil {
			return nil, err
		}

		windows = append(windows, window)
	}

	windows = append(windows, extras...)

	for _, block := range blocks {
		windows = subtract(windows, block)
	}

	sortWindows(windows)

	return windows, nil
}

// Candidates enumerates every start time of length in.Duration that fits entirely inside a window,
// ignoring existing bookings.
func Candidates(in Input) ([]Candidate, error) {
	if in.Duration <= 0 {
		return []Candidate{}, nil
	}

	windows, err := Windows(in)
	if err != nil {
		return nil, err
	}

	weekday := in.Date.Weekday()
	byStart := map[int]int{}

	for _, window := range windows {
		for current := window.Start; current+in.Duration <= window.End; current += in.Duration {
			capacity := in.Custom.CapacityAt(weekday, current)
			if capacity > byStart[current] {
				byStart[current] = capacity
			}
		}
	}

	candidates := make([]Candidate, 0, len(byStart))
	for start, capacity := range byStart {
		candidates = append(candidates, Candidate{Start: start, Capacity: capacity})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Start < candidates[j].Start
	})

	return candidates, nil
}

// ComputeSlots returns the ascending, de-duplicated "HH:MM" start times that still have capacity.
func ComputeSlots(in Input) ([]string, error) {
	candidates, err := Candidates(in)
	if err != nil {
		return nil, err
	}

	slots := make([]string, 0, len(candidates))

	for _, candidate := range candidates {
		clock := candidate.Clock()
		if in.Booked[clock] >= candidate.Capacity {
			continue
		}

		slots = append(slots, clock)
	}

	return slots, nil
}

// FindCandidate returns the candidate starting at minute, if the day offers one.
func FindCandidate(candidates []Candidate, minute int) (Candidate, bool) {
	idx := sort.Search(len(candidates), func(i int) bool {
		return candidates[i].Start >= minute
	})

	if idx < len(candidates) && candidates[idx].Start == minute {
		return candidates[idx], true
	}

	return Candidate{}, false
}
