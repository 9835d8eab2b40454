package failure

import (
	"errors"
	"net/http"
)

// Kind classifies a Failure so callers can branch on it without parsing messages.
type Kind string

const (
	KindValidation       Kind = "validation"
	KindIdentityMismatch Kind = "identity_mismatch"
	KindSlotTaken        Kind = "slot_taken"
	KindDuplicateBooking Kind = "duplicate_booking"
	KindNotFound         Kind = "not_found"
	KindInvalidState     Kind = "invalid_state"
	KindDownstreamSync   Kind = "downstream_sync"
)

// Failure carries the HTTP status a handler should answer with and, for booking outcomes the
// client can act on, a Kind.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Kind    Kind   `json:"kind,omitempty"`
}

var ForbiddenError = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions"}

func (e *Failure) Error() string {
	return e.Message
}

func newFailure(code int, kind Kind, msg string) error {
	return &Failure{Code: code, Message: msg, Kind: kind}
}

func fromError(code int, kind Kind, err error) error {
	if err == nil {
		return nil
	}

	return newFailure(code, kind, err.Error())
}

// BadRequest turns a parse or validation error into a 400. A nil err stays nil.
func BadRequest(err error) error { return fromError(http.StatusBadRequest, KindValidation, err) }

func BadRequestFromString(msg string) error {
	return newFailure(http.StatusBadRequest, KindValidation, msg)
}

func Unauthorized(msg string) error { return newFailure(http.StatusUnauthorized, "", msg) }

// InternalError masks nothing by itself; response.WithError hides 5xx messages from clients.
func InternalError(err error) error { return fromError(http.StatusInternalServerError, "", err) }

func NotFound(entityName string) error { return newFailure(http.StatusNotFound, KindNotFound, entityName) }

func Conflict(msg string) error { return newFailure(http.StatusConflict, "", msg) }

// SlotTaken reports that the chosen slot reached its capacity, possibly after a successful check.
func SlotTaken(msg string) error { return newFailure(http.StatusConflict, KindSlotTaken, msg) }

// DuplicateBooking reports an active booking for the same email in the same scope.
func DuplicateBooking(msg string) error {
	return newFailure(http.StatusConflict, KindDuplicateBooking, msg)
}

// IdentityMismatch reports a personal invitation used with a different email.
func IdentityMismatch(msg string) error {
	return newFailure(http.StatusForbidden, KindIdentityMismatch, msg)
}

// InvalidState reports an operation on a booking whose status forbids it.
func InvalidState(msg string) error {
	return newFailure(http.StatusUnprocessableEntity, KindInvalidState, msg)
}

// DownstreamSync wraps a calendar or event side-effect failure. It is reported as a warning only.
func DownstreamSync(err error) error { return fromError(http.StatusBadGateway, KindDownstreamSync, err) }

// GetCode returns the status carried by err, or 500 for anything that is not a Failure.
func GetCode(err error) int {
	if fail, ok := as(err); ok {
		return fail.Code
	}

	return http.StatusInternalServerError
}

func GetKind(err error) Kind {
	if fail, ok := as(err); ok {
		return fail.Kind
	}

	return ""
}

// IsKind reports whether err carries the given Kind.
func IsKind(err error, kind Kind) bool {
	return kind != "" && GetKind(err) == kind
}

// IsClientError reports a Failure in the 4xx range, which is an expected outcome rather than a fault.
func IsClientError(err error) bool {
	code := GetCode(err)

	return code >= http.StatusBadRequest && code < http.StatusInternalServerError
}

func as(err error) (*Failure, bool) {
	var fail *Failure
	ok := errors.As(err, &fail)

	return fail, ok
}
