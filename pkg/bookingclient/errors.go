package bookingclient

import (
	"errors"
	"fmt"
	"net/http"

	"appointly/shared/failure"
)

// Error is a non-2xx answer from the booking API.
type Error struct {
	Status  int
	Kind    failure.Kind
	Message string
}

func (e *Error) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("booking api: %d %s: %s", e.Status, e.Kind, e.Message)
	}

	return fmt.Sprintf("booking api: %d: %s", e.Status, e.Message)
}

// Is matches on Kind so callers can write errors.Is(err, bookingclient.ErrSlotTaken).
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) || other.Kind == "" {
		return false
	}

	return e.Kind == other.Kind
}

func (e *Error) retryable() bool {
	return e.Status >= http.StatusInternalServerError
}

var (
	ErrValidation       = &Error{Kind: failure.KindValidation}
	ErrIdentityMismatch = &Error{Kind: failure.KindIdentityMismatch}
	ErrSlotTaken        = &Error{Kind: failure.KindSlotTaken}
	ErrDuplicateBooking = &Error{Kind: failure.KindDuplicateBooking}
	ErrNotFound         = &Error{Kind: failure.KindNotFound}
	ErrInvalidState     = &Error{Kind: failure.KindInvalidState}
)

// ErrSuperseded is returned by SlotPicker.Load when a newer load for the same scope started
// before this one finished. The newer result is the one kept.
var ErrSuperseded = errors.New("slot list superseded by a newer request")
