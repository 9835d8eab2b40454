package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"appointly/shared/failure"
)

func TestFailure_Error(t *testing.T) {
	f := &failure.Failure{
		Code:    http.StatusConflict,
		Message: "slot is fully booked",
	}

	if f.Error() != "slot is fully booked" {
		t.Errorf("expected error message to be 'slot is fully booked', got %s", f.Error())
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		kind failure.Kind
	}{
		{
			name: "BadRequestFromString",
			err:  failure.BadRequestFromString("client_email is required"),
			code: http.StatusBadRequest,
			kind: failure.KindValidation,
		},
		{
			name: "BadRequest",
			err:  failure.BadRequest(errors.New("malformed time")),
			code: http.StatusBadRequest,
			kind: failure.KindValidation,
		},
		{
			name: "NotFound",
			err:  failure.NotFound("booking not found"),
			code: http.StatusNotFound,
			kind: failure.KindNotFound,
		},
		{
			name: "SlotTaken",
			err:  failure.SlotTaken("slot just taken"),
			code: http.StatusConflict,
			kind: failure.KindSlotTaken,
		},
		{
			name: "DuplicateBooking",
			err:  failure.DuplicateBooking("already booked"),
			code: http.StatusConflict,
			kind: failure.KindDuplicateBooking,
		},
		{
			name: "IdentityMismatch",
			err:  failure.IdentityMismatch("this link is not yours"),
			code: http.StatusForbidden,
			kind: failure.KindIdentityMismatch,
		},
		{
			name: "InvalidState",
			err:  failure.InvalidState("booking is cancelled"),
			code: http.StatusUnprocessableEntity,
			kind: failure.KindInvalidState,
		},
		{
			name: "DownstreamSync",
			err:  failure.DownstreamSync(errors.New("broker unavailable")),
			code: http.StatusBadGateway,
			kind: failure.KindDownstreamSync,
		},
		{
			name: "Conflict has no kind",
			err:  failure.Conflict("conflict"),
			code: http.StatusConflict,
			kind: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := failure.GetCode(tt.err); got != tt.code {
				t.Errorf("expected code %d, got %d", tt.code, got)
			}

			if got := failure.GetKind(tt.err); got != tt.kind {
				t.Errorf("expected kind %q, got %q", tt.kind, got)
			}
		})
	}
}

func TestNilInputs(t *testing.T) {
	if failure.BadRequest(nil) != nil {
		t.Error("expected nil for BadRequest(nil)")
	}

	if failure.InternalError(nil) != nil {
		t.Error("expected nil for InternalError(nil)")
	}

	if failure.DownstreamSync(nil) != nil {
		t.Error("expected nil for DownstreamSync(nil)")
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		input    error
		expected int
	}{
		{
			name:     "failure error",
			input:    &failure.Failure{Code: http.StatusBadRequest, Message: "test"},
			expected: http.StatusBadRequest,
		},
		{
			name:     "wrapped failure error",
			input:    fmt.Errorf("create booking: %w", failure.SlotTaken("taken")),
			expected: http.StatusConflict,
		},
		{
			name:     "regular error",
			input:    errors.New("regular error"),
			expected: http.StatusInternalServerError,
		},
		{
			name:     "nil error",
			input:    nil,
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := failure.GetCode(tt.input)
			if result != tt.expected {
				t.Errorf("expected code to be %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestIsClientError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "slot taken", err: failure.SlotTaken("taken"), want: true},
		{name: "wrapped validation", err: fmt.Errorf("book: %w", failure.BadRequestFromString("bad")), want: true},
		{name: "downstream sync", err: failure.DownstreamSync(errors.New("broker")), want: false},
		{name: "plain error", err: errors.New("db down"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := failure.IsClientError(tt.err); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestIsKind(t *testing.T) {
	wrapped := fmt.Errorf("reschedule: %w", failure.SlotTaken("taken"))

	if !failure.IsKind(wrapped, failure.KindSlotTaken) {
		t.Error("expected wrapped error to be slot_taken")
	}

	if failure.IsKind(wrapped, failure.KindNotFound) {
		t.Error("did not expect wrapped error to be not_found")
	}

	if failure.IsKind(errors.New("plain"), "") {
		t.Error("empty kind must never match")
	}
}
