package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Booking=MockBookingService

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"appointly/config"
	"appointly/infras/kafka"
	"appointly/infras/otel"
	availabilityService "appointly/internal/domains/availability/service"
	"appointly/internal/domains/booking/model"
	"appointly/internal/domains/booking/model/dto"
	"appointly/internal/domains/booking/repository"
	invitationService "appointly/internal/domains/invitation/service"
	scopeModel "appointly/internal/domains/scope/model"
	scopeService "appointly/internal/domains/scope/service"
	"appointly/internal/scheduling"
	"appointly/shared"
	"appointly/shared/constant"
	gDto "appointly/shared/dto"
	"appointly/shared/failure"
	"appointly/shared/timezone"
)

const (
	warningDownstreamSync = "booking saved, but calendar and email updates are delayed"
	msgSlotTaken          = "the selected time is no longer available"
)

var sortableFields = []string{model.FieldStartTime, model.FieldStatus, constant.FieldCreatedAt}

type Booking interface {
	ComputeAvailableSlots(ctx context.Context, scopeID, date string) (dto.SlotsResponse, error)
	CheckAvailability(ctx context.Context, scopeID, date, clock string) (dto.AvailabilityResponse, error)
	// IsSlotAvailable is advisory. A capacity of zero or less is resolved from the scope.
	IsSlotAvailable(ctx context.Context, scopeID string, start, end time.Time, capacity int) (bool, error)
	Create(ctx context.Context, scopeID string, req dto.CreateBookingRequest) (dto.CreateBookingResponse, error)
	GetByAccessCode(ctx context.Context, code string) (dto.BookingResponse, error)
	Cancel(ctx context.Context, code string, req dto.CancelBookingRequest) (dto.BookingResult, error)
	Reschedule(ctx context.Context, code string, req dto.RescheduleBookingRequest) (dto.BookingResult, error)
	UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest) (dto.BookingResult, error)
	GetAll(ctx context.Context, scopeID string, params gDto.QueryParams) (dto.GetBookingsResponse, error)
}

type serviceImpl struct {
	repo         repository.Booking
	scopes       scopeService.Scope
	invitations  invitationService.Invitation
	availability availabilityService.Availability
	kafka        kafka.Client
	cfg          *config.Config
	otel         otel.Otel
}

func New(
	repo repository.Booking,
	scopes scopeService.Scope,
	invitations invitationService.Invitation,
	availability availabilityService.Availability,
	kafka kafka.Client,
	cfg *config.Config,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:         repo,
		scopes:       scopes,
		invitations:  invitations,
		availability: availability,
		kafka:        kafka,
		cfg:          cfg,
		otel:         otel,
	}
}

// dayPlan is everything known about one scope on one day.
type dayPlan struct {
	scope      scopeModel.Scope
	day        time.Time
	duration   int
	mode       scheduling.Mode
	input      scheduling.Input
	active     []scheduling.Booked
	candidates []scheduling.Candidate
}

func (s *serviceImpl) plan(ctx context.Context, scope scopeModel.Scope, day time.Time) (res dayPlan, err error) {
	custom, err := scope.Custom()
	if err != nil {
		log.Error().Err(err).Str("scopeID", scope.ID).Msg("stored custom availability is malformed")

		return res, err //nolint:wrapcheck
	}

	snapshot, err := s.availability.Snapshot(ctx, scope.OwnerID)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	bookings, err := s.repo.ListActiveBetween(ctx, scope.ID, day, day.AddDate(0, 0, 1))
	if err != nil {
		log.Error().Err(err).Msg("failed to list active bookings")

		return res, fmt.Errorf("failed to list active bookings: %w", err)
	}

	res.scope = scope
	res.day = day
	res.duration = scope.Duration(custom, s.cfg.Booking.DefaultDurationMin)
	res.mode = scope.ConflictMode()
	res.active = model.ToBooked(bookings)
	res.input = scheduling.Input{
		Date:       day,
		Duration:   res.duration,
		Rules:      snapshot.Rules,
		Exceptions: snapshot.Exceptions,
		Custom:     custom,
		Booked:     scheduling.BookedByStart(res.active, day, timezone.GetLocation()),
	}

	res.candidates, err = scheduling.Candidates(res.input)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	return res, nil
}

// bookable reports whether day lies inside the booking horizon.
func (s *serviceImpl) bookable(day time.Time) bool {
	today := timezone.AtMinute(timezone.Now(), 0)
	if day.Before(today) {
		return false
	}

	if s.cfg.Booking.MaxDaysAhead > 0 && day.After(today.AddDate(0, 0, s.cfg.Booking.MaxDaysAhead)) {
		return false
	}

	return true
}

func (s *serviceImpl) ComputeAvailableSlots(ctx context.Context, scopeID, date string) (res dto.SlotsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ComputeAvailableSlots")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	day, err := timezone.ParseDay(date)
	if err != nil {
		return res, failure.BadRequestFromString("date must be YYYY-MM-DD") //nolint:wrapcheck
	}

	target, err := s.scopes.Resolve(ctx, scopeID)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	res.ScopeID = scopeID
	res.Date = date
	res.Slots = []string{}

	if !s.bookable(day) {
		return res, nil
	}

	plan, err := s.plan(ctx, target, day)
	if err != nil {
		return res, err
	}

	res.Duration = plan.duration

	slots, err := scheduling.ComputeSlots(plan.input)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	now := timezone.Now()

	for _, slot := range slots {
		minute, err := scheduling.ParseClock(slot)
		if err != nil {
			return res, err //nolint:wrapcheck
		}

		if timezone.AtMinute(day, minute).After(now) {
			res.Slots = append(res.Slots, slot)
		}
	}

	return res, nil
}

func (s *serviceImpl) CheckAvailability(ctx context.Context, scopeID, date, clock string) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckAvailability")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	res = dto.AvailabilityResponse{ScopeID: scopeID, Date: date, Time: clock}

	target, err := s.scopes.Resolve(ctx, scopeID)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	slot, err := s.resolveSlot(ctx, target, date, clock)
	if errors.As(err, new(slotNotOffered)) {
		return res, nil
	}

	if err != nil {
		return res, err
	}

	res.Available = scheduling.IsSlotAvailable(slot.plan.active, slot.start, slot.end, slot.capacity, slot.plan.mode, "")

	return res, nil
}

func (s *serviceImpl) IsSlotAvailable(ctx context.Context, scopeID string, start, end time.Time, capacity int) (ok bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".IsSlotAvailable")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !end.After(start) {
		return false, failure.BadRequestFromString("end must be after start") //nolint:wrapcheck
	}

	target, err := s.scopes.Resolve(ctx, scopeID)
	if err != nil {
		return false, err //nolint:wrapcheck
	}

	if capacity <= 0 {
		custom, err := target.Custom()
		if err != nil {
			return false, err //nolint:wrapcheck
		}

		capacity = custom.CapacityAt(timezone.ToAppTime(start).Weekday(), timezone.MinuteOfDay(start))
	}

	bookings, err := s.repo.ListActiveBetween(ctx, scopeID, start, end)
	if err != nil {
		log.Error().Err(err).Msg("failed to list active bookings")

		return false, fmt.Errorf("failed to list active bookings: %w", err)
	}

	return scheduling.IsSlotAvailable(model.ToBooked(bookings), start, end, capacity, target.ConflictMode(), ""), nil
}

// slotNotOffered marks the request-level reasons a start time cannot be booked. CheckAvailability
// answers those with available=false, everything else is returned.
type slotNotOffered struct{ err error }

func (e slotNotOffered) Error() string { return e.err.Error() }

func (e slotNotOffered) Unwrap() error { return e.err }

func notOffered(msg string) error {
	return slotNotOffered{err: failure.BadRequestFromString(msg)}
}

type resolvedSlot struct {
	plan     dayPlan
	start    time.Time
	end      time.Time
	capacity int
}

// resolveSlot checks that date and clock name a generated start time in the bookable future.
func (s *serviceImpl) resolveSlot(ctx context.Context, target scopeModel.Scope, date, clock string) (res resolvedSlot, err error) {
	day, err := timezone.ParseDay(date)
	if err != nil {
		return res, failure.BadRequestFromString("date must be YYYY-MM-DD") //nolint:wrapcheck
	}

	minute, err := scheduling.ParseClock(clock)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	start := timezone.AtMinute(day, minute)
	if !start.After(timezone.Now()) {
		return res, notOffered("the requested time is in the past")
	}

	if !s.bookable(day) {
		return res, notOffered("the requested date is too far ahead")
	}

	plan, err := s.plan(ctx, target, day)
	if err != nil {
		return res, err
	}

	candidate, ok := scheduling.FindCandidate(plan.candidates, minute)
	if !ok {
		return res, notOffered("the requested time is not offered on this date")
	}

	return resolvedSlot{
		plan:     plan,
		start:    start,
		end:      start.Add(time.Duration(plan.duration) * time.Minute),
		capacity: candidate.Capacity,
	}, nil
}

func (s *serviceImpl) Create(ctx context.Context, scopeID string, req dto.CreateBookingRequest) (res dto.CreateBookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.TrimmedName() == constant.Empty {
		return res, failure.BadRequestFromString("client_name is required") //nolint:wrapcheck
	}

	target, err := s.scopes.ResolveFresh(ctx, scopeID)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	var invitationID *string

	if req.InvitationToken != constant.Empty {
		invitation, err := s.invitations.ResolveToken(ctx, req.InvitationToken)
		if err != nil {
			return res, err //nolint:wrapcheck
		}

		if invitation.ScopeID != target.ID {
			return res, failure.NotFound("invitation not found") //nolint:wrapcheck
		}

		if !invitation.Matches(req.ClientEmail) {
			return res, failure.IdentityMismatch("this invitation belongs to a different email") //nolint:wrapcheck
		}

		invitationID = &invitation.ID
	}

	if target.IsCampaign() {
		if err = s.checkDuplicate(ctx, target.ID, req.NormalizedEmail()); err != nil {
			return res, err
		}
	}

	slot, err := s.resolveSlot(ctx, target, req.Date, req.Time)
	if err != nil {
		return res, err
	}

	if !scheduling.IsSlotAvailable(slot.plan.active, slot.start, slot.end, slot.capacity, slot.plan.mode, "") {
		return res, failure.SlotTaken(msgSlotTaken) //nolint:wrapcheck
	}

	booking := req.ToModel(target.ID, string(target.Kind), invitationID, slot.start, slot.end)

	booking, err = s.repo.InsertGuarded(ctx, booking, model.Guard{Capacity: slot.capacity, Mode: slot.plan.mode})
	if err != nil {
		log.Error().Err(err).Str("scopeID", target.ID).Msg("failed to create booking")

		return res, err //nolint:wrapcheck
	}

	res.AccessCode = booking.AccessCode
	res.Booking.FromModel(booking)
	res.Warnings = s.publish(ctx, model.EventCreated, booking)

	return res, nil
}

func (s *serviceImpl) checkDuplicate(ctx context.Context, scopeID, email string) error {
	exist, err := s.repo.Exist(ctx, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldScopeID, Value: scopeID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldClientEmail, Value: email, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldStatus, Value: model.StatusCancelled, Operator: gDto.FilterOperatorNotEq, Table: model.TableName},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to check duplicate booking")

		return fmt.Errorf("failed to check duplicate booking: %w", err)
	}

	if exist {
		return failure.DuplicateBooking("this email already has a booking for this campaign") //nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) byAccessCode(ctx context.Context, code string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByField(model.FieldAccessCode, code, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") //nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) GetByAccessCode(ctx context.Context, code string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetByAccessCode")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.byAccessCode(ctx, code)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) Cancel(ctx context.Context, code string, req dto.CancelBookingRequest) (res dto.BookingResult, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.byAccessCode(ctx, code)
	if err != nil {
		return res, err
	}

	if !booking.Status.CanTransition(model.StatusCancelled) {
		return res, failure.InvalidState(fmt.Sprintf("booking is %s and cannot be cancelled", booking.Status)) //nolint:wrapcheck
	}

	booking, err = s.repo.Transition(ctx, booking, model.StatusCancelled, dto.ReasonOrNil(req.Reason), booking.ClientEmail)
	if err != nil {
		log.Error().Err(err).Msg("failed to cancel booking")

		return res, err //nolint:wrapcheck
	}

	res.Booking.FromModel(booking)
	res.Warnings = s.publish(ctx, model.EventCancelled, booking)

	return res, nil
}

func (s *serviceImpl) Reschedule(ctx context.Context, code string, req dto.RescheduleBookingRequest) (res dto.BookingResult, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reschedule")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.byAccessCode(ctx, code)
	if err != nil {
		return res, err
	}

	if !booking.Status.CanTransition(model.StatusRescheduled) {
		return res, failure.InvalidState(fmt.Sprintf("booking is %s and cannot be rescheduled", booking.Status)) //nolint:wrapcheck
	}

	if limit := s.cfg.Booking.RescheduleMaxCount; limit > 0 && booking.RescheduledCount >= limit {
		return res, failure.InvalidState("this booking has been rescheduled too many times") //nolint:wrapcheck
	}

	target, err := s.scopes.ResolveFresh(ctx, booking.ScopeID)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	slot, err := s.resolveSlot(ctx, target, req.Date, req.Time)
	if err != nil {
		return res, err
	}

	if !scheduling.IsSlotAvailable(slot.plan.active, slot.start, slot.end, slot.capacity, slot.plan.mode, booking.ID) {
		return res, failure.SlotTaken(msgSlotTaken) //nolint:wrapcheck
	}

	moved, err := s.repo.RescheduleGuarded(ctx, booking.ID, slot.start, slot.end,
		model.Guard{Capacity: slot.capacity, Mode: slot.plan.mode}, booking.ClientEmail)
	if err != nil {
		log.Error().Err(err).Msg("failed to reschedule booking")

		return res, err //nolint:wrapcheck
	}

	res.Booking.FromModel(moved)
	res.Warnings = s.publish(ctx, model.EventRescheduled, moved)

	return res, nil
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest) (res dto.BookingResult, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") //nolint:wrapcheck
	}

	owned, err := s.scopes.Owned(ctx, booking.ScopeID)
	if err != nil {
		if failure.IsKind(err, failure.KindNotFound) {
			return res, failure.NotFound("booking not found") //nolint:wrapcheck
		}

		return res, err //nolint:wrapcheck
	}

	next := model.Status(req.Status)
	if !booking.Status.CanTransition(next) || next == model.StatusRescheduled {
		return res, failure.InvalidState(fmt.Sprintf("booking is %s and cannot become %s", booking.Status, next)) //nolint:wrapcheck
	}

	booking, err = s.repo.Transition(ctx, booking, next, dto.ReasonOrNil(req.Reason), owned.OwnerID)
	if err != nil {
		log.Error().Err(err).Msg("failed to update booking status")

		return res, err //nolint:wrapcheck
	}

	eventType := model.EventStatus
	if next == model.StatusCancelled {
		eventType = model.EventCancelled
	}

	res.Booking.FromModel(booking)
	res.Warnings = s.publish(ctx, eventType, booking)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, scopeID string, params gDto.QueryParams) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if _, err = s.scopes.Owned(ctx, scopeID); err != nil {
		return res, err //nolint:wrapcheck
	}

	params.Sanitize(model.TableName, sortableFields, model.FieldStartTime)

	filter := shared.FilterByField(model.FieldScopeID, scopeID, model.TableName)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	bookings, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(bookings, total, params.Limit)

	return res, nil
}

// publish hands the event to Kafka. A failure never undoes the booking and comes back as a warning.
func (s *serviceImpl) publish(ctx context.Context, eventType model.EventType, booking model.Booking) []string {
	err := s.kafka.SendMessages(ctx, s.cfg.Kafka.Topics.BookingEvents, kafka.Message{
		Key:   booking.ID,
		Value: dto.NewEvent(eventType, booking),
	})
	if err == nil {
		return nil
	}

	log.Warn().
		Err(failure.DownstreamSync(err)).
		Str("bookingID", booking.ID).
		Str("event", string(eventType)).
		Msg("failed to publish booking event")

	return []string{warningDownstreamSync}
}
