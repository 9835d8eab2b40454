package scheduling_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appointly/internal/scheduling"
	"appointly/shared/failure"
)

// 2026-03-02 is a Monday.
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func intPtr(v int) *int {
	return &v
}

func mondayRule(start, end string) scheduling.Rule {
	return scheduling.Rule{DayOfWeek: time.Monday, Start: start, End: end, Available: true}
}

func TestComputeSlots_WeeklyRule(t *testing.T) {
	slots, err := scheduling.ComputeSlots(scheduling.Input{
		Date:     monday,
		Duration: 30,
		Rules:    []scheduling.Rule{mondayRule("09:00", "17:00")},
	})
	require.NoError(t, err)

	assert.Len(t, slots, 16)
	assert.Equal(t, "09:00", slots[0])
	assert.Equal(t, "09:30", slots[1])
	assert.Equal(t, "16:30", slots[len(slots)-1])
	assert.NotContains(t, slots, "17:00")
}

func TestComputeSlots_Cases(t *testing.T) {
	tests := []struct {
		name     string
		input    scheduling.Input
		expected []string
	}{
		{
			name: "no rule for weekday",
			input: scheduling.Input{
				Date:     monday,
				Duration: 30,
				Rules:    []scheduling.Rule{{DayOfWeek: time.Tuesday, Start: "09:00", End: "17:00", Available: true}},
			},
			expected: []string{},
		},
		{
			name: "rule marked unavailable",
			input: scheduling.Input{
				Date:     monday,
				Duration: 30,
				Rules:    []scheduling.Rule{{DayOfWeek: time.Monday, Start: "09:00", End: "10:00", Available: false}},
			},
			expected: []string{},
		},
		{
			name: "window shorter than duration",
			input: scheduling.Input{
				Date:     monday,
				Duration: 60,
				Rules:    []scheduling.Rule{mondayRule("09:00", "09:45")},
			},
			expected: []string{},
		},
		{
			name: "no partial trailing slot",
			input: scheduling.Input{
				Date:     monday,
				Duration: 45,
				Rules:    []scheduling.Rule{mondayRule("09:00", "11:00")},
			},
			expected: []string{"09:00", "09:45"},
		},
		{
			name: "zero duration",
			input: scheduling.Input{
				Date:     monday,
				Duration: 0,
				Rules:    []scheduling.Rule{mondayRule("09:00", "11:00")},
			},
			expected: []string{},
		},
		{
			name: "partial exception is subtracted",
			input: scheduling.Input{
				Date:     monday,
				Duration: 30,
				Rules:    []scheduling.Rule{mondayRule("09:00", "12:00")},
				Exceptions: []scheduling.Exception{
					{Date: "2026-03-02", Start: "10:00", End: "11:00", Available: false},
				},
			},
			expected: []string{"09:00", "09:30", "11:00", "11:30"},
		},
		{
			name: "exception on another date is ignored",
			input: scheduling.Input{
				Date:     monday,
				Duration: 60,
				Rules:    []scheduling.Rule{mondayRule("09:00", "11:00")},
				Exceptions: []scheduling.Exception{
					{Date: "2026-03-09", Available: false},
				},
			},
			expected: []string{"09:00", "10:00"},
		},
		{
			name: "available exception adds a window",
			input: scheduling.Input{
				Date:     monday,
				Duration: 60,
				Rules:    []scheduling.Rule{mondayRule("09:00", "10:00")},
				Exceptions: []scheduling.Exception{
					{Date: "2026-03-02", Start: "18:00", End: "20:00", Available: true},
				},
			},
			expected: []string{"09:00", "18:00", "19:00"},
		},
		{
			name: "overlapping rules do not duplicate slots",
			input: scheduling.Input{
				Date:     monday,
				Duration: 30,
				Rules: []scheduling.Rule{
					mondayRule("09:00", "10:00"),
					mondayRule("09:00", "10:30"),
				},
			},
			expected: []string{"09:00", "09:30", "10:00"},
		},
		{
			name: "fully booked start is dropped",
			input: scheduling.Input{
				Date:     monday,
				Duration: 30,
				Rules:    []scheduling.Rule{mondayRule("09:00", "10:30")},
				Booked:   map[string]int{"09:30": 1},
			},
			expected: []string{"09:00", "10:00"},
		},
		{
			name: "windows are returned in ascending order",
			input: scheduling.Input{
				Date:     monday,
				Duration: 60,
				Rules: []scheduling.Rule{
					mondayRule("14:00", "16:00"),
					mondayRule("08:00", "09:00"),
				},
			},
			expected: []string{"08:00", "14:00", "15:00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots, err := scheduling.ComputeSlots(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, slots)
		})
	}
}

func TestComputeSlots_FullDayBlockWins(t *testing.T) {
	custom, err := scheduling.ParseCustomAvailability([]byte(`{"time_slots":[{"start":"08:00","end":"12:00"}]}`))
	require.NoError(t, err)

	for _, in := range []scheduling.Input{
		{Rules: []scheduling.Rule{mondayRule("00:00", "23:59")}},
		{Custom: custom},
	} {
		in.Date = monday
		in.Duration = 15
		in.Exceptions = []scheduling.Exception{{Date: "2026-03-02", Available: false, Start: "", End: ""}}

		slots, err := scheduling.ComputeSlots(in)
		require.NoError(t, err)
		assert.Empty(t, slots)
	}
}

func TestComputeSlots_BoundsAndUniqueness(t *testing.T) {
	rules := []scheduling.Rule{
		mondayRule("07:15", "11:40"),
		mondayRule("13:05", "18:00"),
	}

	for _, duration := range []int{5, 10, 15, 20, 25, 30, 45, 50, 60, 90, 120, 300} {
		in := scheduling.Input{Date: monday, Duration: duration, Rules: rules}

		first, err := scheduling.ComputeSlots(in)
		require.NoError(t, err)

		second, err := scheduling.ComputeSlots(in)
		require.NoError(t, err)
		assert.Equal(t, first, second)

		seen := map[string]bool{}

		for _, slot := range first {
			assert.False(t, seen[slot], "slot %s emitted twice", slot)
			seen[slot] = true

			start, err := scheduling.ParseClock(slot)
			require.NoError(t, err)

			inside := false

			for _, rule := range rules {
				window, err := scheduling.ParseWindow(rule.Start, rule.End)
				require.NoError(t, err)

				if start >= window.Start && start+duration <= window.End {
					inside = true
				}
			}

			assert.True(t, inside, "slot %s with duration %d escapes its window", slot, duration)
		}
	}
}

func TestComputeSlots_CustomOverride(t *testing.T) {
	custom, err := scheduling.ParseCustomAvailability([]byte(`{
		"time_slots": [{"start": "08:30", "end": "17:00", "slots_per_hour": 9}],
		"duration": 30
	}`))
	require.NoError(t, err)

	in := scheduling.Input{
		Date:     monday,
		Duration: custom.DurationOr(60),
		Rules:    []scheduling.Rule{mondayRule("09:00", "10:00")},
		Custom:   custom,
		Booked:   map[string]int{"08:30": 8},
	}

	candidates, err := scheduling.Candidates(in)
	require.NoError(t, err)
	require.NotEmpty(t, candidates)

	for _, candidate := range candidates {
		assert.Equal(t, 9, candidate.Capacity)
	}

	slots, err := scheduling.ComputeSlots(in)
	require.NoError(t, err)
	assert.Equal(t, "08:30", slots[0], "eight of nine seats taken keeps the slot open")
	assert.Len(t, slots, 17)

	in.Booked["08:30"] = 9
	slots, err = scheduling.ComputeSlots(in)
	require.NoError(t, err)
	assert.Equal(t, "09:00", slots[0])
}

func TestComputeSlots_CustomWeekdayScope(t *testing.T) {
	custom, err := scheduling.ParseCustomAvailability([]byte(`{
		"time_slots": [
			{"start": "09:00", "end": "10:00", "days_of_week": [1], "slots_per_hour": 3},
			{"start": "09:00", "end": "10:00", "days_of_week": [2], "slots_per_hour": 5}
		]
	}`))
	require.NoError(t, err)

	assert.Equal(t, 3, custom.CapacityAt(time.Monday, 9*60))
	assert.Equal(t, 5, custom.CapacityAt(time.Tuesday, 9*60+30))
	assert.Equal(t, 1, custom.CapacityAt(time.Wednesday, 9*60))

	slots, err := scheduling.ComputeSlots(scheduling.Input{
		Date:     monday.AddDate(0, 0, 2),
		Duration: 30,
		Rules:    []scheduling.Rule{{DayOfWeek: time.Wednesday, Start: "09:00", End: "17:00", Available: true}},
		Custom:   custom,
	})
	require.NoError(t, err)
	assert.Empty(t, slots, "an override replaces the weekly rules even on days it leaves empty")
}

func TestComputeSlots_MalformedRule(t *testing.T) {
	_, err := scheduling.ComputeSlots(scheduling.Input{
		Date:     monday,
		Duration: 30,
		Rules:    []scheduling.Rule{mondayRule("9am", "17:00")},
	})
	require.Error(t, err)
	assert.True(t, failure.IsKind(err, failure.KindValidation))
}

func TestFindCandidate(t *testing.T) {
	candidates := []scheduling.Candidate{{Start: 540, Capacity: 1}, {Start: 570, Capacity: 2}}

	found, ok := scheduling.FindCandidate(candidates, 570)
	assert.True(t, ok)
	assert.Equal(t, 2, found.Capacity)

	_, ok = scheduling.FindCandidate(candidates, 555)
	assert.False(t, ok)

	_, ok = scheduling.FindCandidate(nil, 540)
	assert.False(t, ok)
}
