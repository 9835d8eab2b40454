package scheduling

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"appointly/shared/failure"
)

const defaultCapacity = 1

// CustomSlot is one entry of a custom availability override as stored on an event or campaign.
type CustomSlot struct {
	Start        string `json:"start"`
	End          string `json:"end"`
	SlotsPerHour *int   `json:"slots_per_hour,omitempty"`
	DaysOfWeek   []int  `json:"days_of_week,omitempty"`
}

// CustomAvailability replaces the owner's weekly rules for a single scope.
// Build it with ParseCustomAvailability; the zero value has no slots.
type CustomAvailability struct {
	TimeSlots []CustomSlot `json:"time_slots"`
	Duration  *int         `json:"duration,omitempty"`

	rules []customRule
}

type customRule struct {
	window   Window
	capacity int
	days     []time.Weekday
}

func (r customRule) appliesOn(day time.Weekday) bool {
	return len(r.days) == 0 || slices.Contains(r.days, day)
}

// ParseCustomAvailability decodes and validates an override. Empty input or JSON null yields nil.
func ParseCustomAvailability(raw []byte) (*CustomAvailability, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.DisallowUnknownFields()

	custom := &CustomAvailability{}
	if err := decoder.Decode(custom); err != nil {
		return nil, failure.BadRequestFromString(fmt.Sprintf("invalid custom availability: %v", err)) //nolint:wrapcheck
	}

	if err := custom.compile(); err != nil {
		return nil, err
	}

	return custom, nil
}

// Validate re-checks a value built in code rather than parsed from JSON.
func (c *CustomAvailability) Validate() error {
	return c.compile()
}

func (c *CustomAvailability) compile() error {
	if c.Duration != nil && *c.Duration <= 0 {
		return failure.BadRequestFromString("custom availability duration must be positive") //nolint:wrapcheck
	}

	rules := make([]customRule, 0, len(c.TimeSlots))

	for idx, slot := range c.TimeSlots {
		window, err := ParseWindow(slot.Start, slot.End)
		if err != nil {
			return failure.BadRequestFromString(fmt.Sprintf("time_slots[%d]: %v", idx, err)) //nolint:wrapcheck
		}

		capacity := defaultCapacity
		if slot.SlotsPerHour != nil {
			if *slot.SlotsPerHour < 1 {
				return failure.BadRequestFromString(fmt.Sprintf("time_slots[%d]: slots_per_hour must be at least 1", idx)) //nolint:wrapcheck
			}

			capacity = *slot.SlotsPerHour
		}

		days := make([]time.Weekday, 0, len(slot.DaysOfWeek))
		for _, day := range slot.DaysOfWeek {
			if day < 0 || day > 6 {
				return failure.BadRequestFromString(fmt.Sprintf("time_slots[%d]: day_of_week %d out of range", idx, day)) //nolint:wrapcheck
			}

			days = append(days, time.Weekday(day))
		}

		rule := customRule{window: window, capacity: capacity, days: days}

		for prevIdx, prev := range rules {
			if prev.window.Overlaps(rule.window) && sharesDay(prev, rule) {
				return failure.BadRequestFromString(fmt.Sprintf("time_slots[%d] overlaps time_slots[%d] on the same weekday", idx, prevIdx)) //nolint:wrapcheck
			}
		}

		rules = append(rules, rule)
	}

	c.rules = rules

	return nil
}

func sharesDay(a, b customRule) bool {
	if len(a.days) == 0 || len(b.days) == 0 {
		return true
	}

	for _, day := range a.days {
		if slices.Contains(b.days, day) {
			return true
		}
	}

	return false
}

// HasSlots reports whether the override defines any time slots. An override that only
// sets a duration leaves the weekly rules in charge of the windows.
func (c *CustomAvailability) HasSlots() bool {
	return c != nil && len(c.rules) > 0
}

// DurationOr returns the override duration, or fallback when none is set.
func (c *CustomAvailability) DurationOr(fallback int) int {
	if c == nil || c.Duration == nil {
		return fallback
	}

	return *c.Duration
}

// WindowsFor returns the override windows that apply on the given weekday.
func (c *CustomAvailability) WindowsFor(day time.Weekday) []Window {
	if c == nil {
		return nil
	}

	windows := []Window{}

	for _, rule := range c.rules {
		if rule.appliesOn(day) {
			windows = append(windows, rule.window)
		}
	}

	return windows
}

// CapacityAt returns the number of concurrent bookings allowed for a start time on the given weekday.
func (c *CustomAvailability) CapacityAt(day time.Weekday, minute int) int {
	if c == nil {
		return defaultCapacity
	}

	for _, rule := range c.rules {
		if rule.appliesOn(day) && rule.window.Contains(minute) {
			return rule.capacity
		}
	}

	return defaultCapacity
}

// Marshal renders the override back to its stored JSON shape.
func (c *CustomAvailability) Marshal() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	raw, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal custom availability: %w", err)
	}

	return raw, nil
}
