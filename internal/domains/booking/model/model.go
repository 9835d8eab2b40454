package model

import (
	"time"

	"appointly/internal/scheduling"
	"appointly/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID               = "id"
	FieldScopeID          = "scope_id"
	FieldScopeKind        = "scope_kind"
	FieldInvitationID     = "invitation_id"
	FieldClientName       = "client_name"
	FieldClientEmail      = "client_email"
	FieldStartTime        = "start_time"
	FieldEndTime          = "end_time"
	FieldStatus           = "status"
	FieldAccessCode       = "access_code"
	FieldSeat             = "seat"
	FieldCancelReason     = "cancel_reason"
	FieldCancelledAt      = "cancelled_at"
	FieldRescheduledCount = "rescheduled_count"
)

// Unique constraints the guarded writes rely on. Names must match the migrations.
const (
	ConstraintSeat        = "bookings_active_seat_key"
	ConstraintClientEmail = "bookings_active_campaign_email_key"
	ConstraintAccessCode  = "bookings_access_code_key"
)

type Status string

const (
	StatusConfirmed   Status = "confirmed"
	StatusCancelled   Status = "cancelled"
	StatusCompleted   Status = "completed"
	StatusNoShow      Status = "no_show"
	StatusRescheduled Status = "rescheduled"
)

var transitions = map[Status][]Status{
	StatusConfirmed:   {StatusCancelled, StatusCompleted, StatusNoShow, StatusRescheduled},
	StatusRescheduled: {StatusConfirmed},
}

func (s Status) CanTransition(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

// Active bookings hold a seat.
func (s Status) Active() bool {
	return s != StatusCancelled
}

type Booking struct {
	ID               string     `db:"id"`
	ScopeID          string     `db:"scope_id"`
	ScopeKind        string     `db:"scope_kind"`
	InvitationID     *string    `db:"invitation_id"`
	ClientName       string     `db:"client_name"`
	ClientEmail      string     `db:"client_email"`
	StartTime        time.Time  `db:"start_time"`
	EndTime          time.Time  `db:"end_time"`
	Status           Status     `db:"status"`
	AccessCode       string     `db:"access_code"`
	Seat             int        `db:"seat"`
	CancelReason     *string    `db:"cancel_reason"`
	CancelledAt      *time.Time `db:"cancelled_at"`
	RescheduledCount int        `db:"rescheduled_count"`
	model.Metadata
}

func (b Booking) ToBooked() scheduling.Booked {
	return scheduling.Booked{ID: b.ID, Start: b.StartTime, End: b.EndTime}
}

func ToBooked(bookings []Booking) []scheduling.Booked {
	res := make([]scheduling.Booked, len(bookings))
	for i, b := range bookings {
		res[i] = b.ToBooked()
	}

	return res
}

// Guard carries what a guarded write needs to re-check a slot under lock.
type Guard struct {
	Capacity int
	Mode     scheduling.Mode
}

type EventType string

const (
	EventCreated     EventType = "booking.created"
	EventCancelled   EventType = "booking.cancelled"
	EventRescheduled EventType = "booking.rescheduled"
	EventStatus      EventType = "booking.status_changed"
)
