package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"appointly/internal/domains/booking/model"
	"appointly/shared"
	"appointly/shared/constant"
	gDto "appointly/shared/dto"
	gModel "appointly/shared/model"
	"appointly/shared/timezone"
)

type CreateBookingRequest struct {
	ClientName      string `json:"client_name"      validate:"required,notblank,max=150"`
	ClientEmail     string `json:"client_email"     validate:"required,email,max=255"`
	Date            string `json:"date"             validate:"required,day"`
	Time            string `json:"time"             validate:"required,hhmm"`
	InvitationToken string `json:"invitation_token" validate:"omitempty,max=64"`
}

func (c *CreateBookingRequest) TrimmedName() string {
	return strings.TrimSpace(c.ClientName)
}

func (c *CreateBookingRequest) NormalizedEmail() string {
	return strings.ToLower(strings.TrimSpace(c.ClientEmail))
}

// ToModel builds a confirmed booking. Seat is assigned by the guarded insert.
func (c *CreateBookingRequest) ToModel(scopeID, scopeKind string, invitationID *string, start, end time.Time) model.Booking {
	email := c.NormalizedEmail()

	return model.Booking{
		ID:           uuid.NewString(),
		ScopeID:      scopeID,
		ScopeKind:    scopeKind,
		InvitationID: invitationID,
		ClientName:   c.TrimmedName(),
		ClientEmail:  email,
		StartTime:    start,
		EndTime:      end,
		Status:       model.StatusConfirmed,
		AccessCode:   NewAccessCode(),
		Metadata:     gModel.NewMetadata(timezone.Now(), email),
	}
}

// NewAccessCode returns 32 lowercase hex characters from a random UUID.
func NewAccessCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type RescheduleBookingRequest struct {
	Date string `json:"date" validate:"required,day"`
	Time string `json:"time" validate:"required,hhmm"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=cancelled completed no_show"`
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

func ReasonOrNil(reason string) *string {
	reason = strings.TrimSpace(reason)
	if reason == constant.Empty {
		return nil
	}

	return &reason
}

type SlotsResponse struct {
	ScopeID  string   `json:"scope_id"`
	Date     string   `json:"date"`
	Duration int      `json:"duration"`
	Slots    []string `json:"slots"`
}

type AvailabilityResponse struct {
	ScopeID   string `json:"scope_id"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// RangeAvailabilityResponse answers whether [start, end) has room for one more booking.
type RangeAvailabilityResponse struct {
	ScopeID   string `json:"scope_id"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Available bool   `json:"available"`
}

type BookingResponse struct {
	ID               string  `json:"id"`
	ScopeID          string  `json:"scope_id"`
	ClientName       string  `json:"client_name"`
	ClientEmail      string  `json:"client_email"`
	Date             string  `json:"date"`
	StartTime        string  `json:"start_time"`
	EndTime          string  `json:"end_time"`
	Status           string  `json:"status"`
	CancelReason     *string `json:"cancel_reason,omitempty"`
	CancelledAt      string  `json:"cancelled_at,omitempty"`
	RescheduledCount int     `json:"rescheduled_count"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.ScopeID = model.ScopeID
	r.ClientName = model.ClientName
	r.ClientEmail = model.ClientEmail
	r.Date = timezone.Format(model.StartTime, constant.DayFormat)
	r.StartTime = timezone.Format(model.StartTime, constant.ClockFormat)
	r.EndTime = timezone.Format(model.EndTime, constant.ClockFormat)
	r.Status = string(model.Status)
	r.CancelReason = model.CancelReason
	r.RescheduledCount = model.RescheduledCount

	if model.CancelledAt != nil {
		r.CancelledAt = timezone.Format(*model.CancelledAt, constant.DateFormat)
	}

	r.Metadata.FromModel(model.Metadata)
}

// BookingResult carries non-fatal side-effect failures next to the committed booking.
type BookingResult struct {
	Booking  BookingResponse `json:"booking"`
	Warnings []string        `json:"warnings,omitempty"`
}

type CreateBookingResponse struct {
	BookingResult
	AccessCode string `json:"access_code"`
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

// Event is the payload published for downstream calendar and email sync.
type Event struct {
	Type       model.EventType `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	AccessCode string          `json:"access_code"`
	StartTime  time.Time       `json:"start_time"`
	EndTime    time.Time       `json:"end_time"`
	Booking    BookingResponse `json:"booking"`
}

func NewEvent(eventType model.EventType, booking model.Booking) Event {
	event := Event{
		Type:       eventType,
		OccurredAt: timezone.Now(),
		AccessCode: booking.AccessCode,
		StartTime:  booking.StartTime,
		EndTime:    booking.EndTime,
	}
	event.Booking.FromModel(booking)

	return event
}
