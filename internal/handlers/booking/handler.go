package booking

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"appointly/infras/otel"
	"appointly/internal/domains/booking/model/dto"
	"appointly/internal/domains/booking/service"
	"appointly/shared/constant"
	gDto "appointly/shared/dto"
	"appointly/shared/failure"
	"appointly/shared/validator"
	"appointly/transport/http/middleware"
	"appointly/transport/http/response"
)

type Handler struct {
	service    service.Booking
	middleware middleware.AuthRole
	otel       otel.Otel
}

func New(service service.Booking, middleware middleware.AuthRole, otel otel.Otel) Handler {
	return Handler{
		service:    service,
		middleware: middleware,
		otel:       otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/scopes/{id}/slots", handler.GetSlots)
	router.Get("/scopes/{id}/availability", handler.CheckAvailability)
	router.Get("/scopes/{id}/availability/range", handler.CheckRange)
	router.Post("/scopes/{id}/bookings", handler.CreateBooking)

	router.Route("/manage/{code}", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetBookingByAccessCode)
		routerGroup.Delete("/", handler.CancelBooking)
		routerGroup.Post("/reschedule", handler.RescheduleBooking)
	})

	router.Group(func(routerGroup chi.Router) {
		routerGroup.Use(handler.middleware.Auth, handler.middleware.RBAC)

		routerGroup.Get("/scopes/{id}/bookings", handler.GetBookings)
		routerGroup.Patch("/bookings/{id}/status", handler.UpdateBookingStatus)
	})
}

// GetSlots returns the bookable start times of a scope for one day.
// @Summary List available slots
// @Description Times are "HH:MM" in the service timezone. Full slots and past times are omitted.
// @Tags Booking
// @Produce json
// @Param id path string true "Scope ID"
// @Param date query string true "Day (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.SlotsResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/scopes/{id}/slots [get]
func (handler *Handler) GetSlots(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSlots")
	defer scope.End()

	date := request.URL.Query().Get(constant.RequestParamDate)

	if err := validator.ValidateVar(date, "required,day"); err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	slots, err := handler.service.ComputeAvailableSlots(ctx, chi.URLParam(request, constant.RequestParamID), date)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to compute available slots")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, slots)
}

// CheckAvailability reports whether one start time can still be booked.
// @Summary Check a single slot
// @Tags Booking
// @Produce json
// @Param id path string true "Scope ID"
// @Param date query string true "Day (YYYY-MM-DD)"
// @Param time query string true "Start time (HH:MM)"
// @Success 200 {object} response.Data[dto.AvailabilityResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/scopes/{id}/availability [get]
func (handler *Handler) CheckAvailability(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CheckAvailability")
	defer scope.End()

	date := request.URL.Query().Get(constant.RequestParamDate)
	clock := request.URL.Query().Get(constant.RequestParamTime)

	err := validator.ValidateVar(date, "required,day")
	if err == nil {
		err = validator.ValidateVar(clock, "required,hhmm")
	}

	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	availability, err := handler.service.CheckAvailability(ctx, chi.URLParam(request, constant.RequestParamID), date, clock)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to check availability")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, availability)
}

// CheckRange reports whether an arbitrary interval has room for one more booking. It is advisory
// and does not check the interval against the slot grid.
// @Summary Check an interval
// @Tags Booking
// @Produce json
// @Param id path string true "Scope ID"
// @Param start query string true "Start (RFC 3339)"
// @Param end query string true "End (RFC 3339)"
// @Param capacity query int false "Seats to assume; resolved from the scope when omitted"
// @Success 200 {object} response.Data[dto.RangeAvailabilityResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/scopes/{id}/availability/range [get]
func (handler *Handler) CheckRange(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CheckRange")
	defer scope.End()

	start, end, capacity, err := rangeParams(request)
	if err != nil {
		scope.TraceError(err)
		response.WithError(writer, err)

		return
	}

	scopeID := chi.URLParam(request, constant.RequestParamID)

	available, err := handler.service.IsSlotAvailable(ctx, scopeID, start, end, capacity)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to check interval availability")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, dto.RangeAvailabilityResponse{
		ScopeID:   scopeID,
		Start:     start.Format(time.RFC3339),
		End:       end.Format(time.RFC3339),
		Available: available,
	})
}

func rangeParams(request *http.Request) (start, end time.Time, capacity int, err error) {
	query := request.URL.Query()

	start, err = time.Parse(time.RFC3339, query.Get(constant.RequestParamStart))
	if err != nil {
		return start, end, 0, failure.BadRequestFromString("start must be an RFC 3339 timestamp") //nolint:wrapcheck
	}

	end, err = time.Parse(time.RFC3339, query.Get(constant.RequestParamEnd))
	if err != nil {
		return start, end, 0, failure.BadRequestFromString("end must be an RFC 3339 timestamp") //nolint:wrapcheck
	}

	if !end.After(start) {
		return start, end, 0, failure.BadRequestFromString("end must be after start") //nolint:wrapcheck
	}

	if raw := query.Get(constant.RequestParamCapacity); raw != constant.Empty {
		capacity, err = strconv.Atoi(raw)
		if err != nil || capacity < 1 {
			return start, end, 0, failure.BadRequestFromString("capacity must be a positive integer") //nolint:wrapcheck
		}
	}

	return start, end, capacity, nil
}

// CreateBooking books a slot for a client.
// @Summary Book a slot
// @Description The access code in the response is the only way to view, cancel or reschedule later.
// @Description A 409 with kind slot_taken means another client got there first; reload the slots.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Scope ID"
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} response.Data[dto.CreateBookingResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error "identity_mismatch"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error "slot_taken or duplicate_booking"
// @Failure 500 {object} response.Error
// @Router /v1/scopes/{id}/bookings [post]
func (handler *Handler) CreateBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	req := dto.CreateBookingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	created, err := handler.service.Create(ctx, chi.URLParam(request, constant.RequestParamID), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create booking")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Booking created " + created.Booking.ID)

	response.WithJSON(writer, http.StatusCreated, created)
}

// GetBookingByAccessCode shows a booking to whoever holds its access code.
// @Summary View a booking
// @Tags Manage
// @Produce json
// @Param code path string true "Access code"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/manage/{code} [get]
func (handler *Handler) GetBookingByAccessCode(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByAccessCode")
	defer scope.End()

	booking, err := handler.service.GetByAccessCode(ctx, chi.URLParam(request, constant.RequestParamAccessCode))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booking by access code")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, booking)
}

// CancelBooking cancels a booking by access code. The body is optional.
// @Summary Cancel a booking
// @Tags Manage
// @Accept json
// @Produce json
// @Param code path string true "Access code"
// @Param request body dto.CancelBookingRequest false "Cancel Booking Request"
// @Success 200 {object} response.Data[dto.BookingResult]
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error "invalid_state"
// @Failure 500 {object} response.Error
// @Router /v1/manage/{code} [delete]
func (handler *Handler) CancelBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelBooking")
	defer scope.End()

	req := dto.CancelBookingRequest{}

	if request.ContentLength != 0 {
		if err := validator.Validate(request.Body, &req); err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Msg("failed to validate request body")

			response.WithError(writer, err)

			return
		}
	}

	result, err := handler.service.Cancel(ctx, chi.URLParam(request, constant.RequestParamAccessCode), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to cancel booking")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, result)
}

// RescheduleBooking moves a booking to another offered start time.
// @Summary Reschedule a booking
// @Tags Manage
// @Accept json
// @Produce json
// @Param code path string true "Access code"
// @Param request body dto.RescheduleBookingRequest true "Reschedule Booking Request"
// @Success 200 {object} response.Data[dto.BookingResult]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error "slot_taken"
// @Failure 422 {object} response.Error "invalid_state"
// @Failure 500 {object} response.Error
// @Router /v1/manage/{code}/reschedule [post]
func (handler *Handler) RescheduleBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RescheduleBooking")
	defer scope.End()

	req := dto.RescheduleBookingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	result, err := handler.service.Reschedule(ctx, chi.URLParam(request, constant.RequestParamAccessCode), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to reschedule booking")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, result)
}

// GetBookings lists the bookings of one of the caller's scopes.
// @Summary List bookings of a scope
// @Tags Booking
// @Produce json
// @Param id path string true "Scope ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetBookingsResponse]
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/scopes/{id}/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	bookings, err := handler.service.GetAll(ctx, chi.URLParam(request, constant.RequestParamID), queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, bookings)
}

// UpdateBookingStatus lets the owner mark a booking completed, no_show or cancelled.
// @Summary Update booking status
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.UpdateStatusRequest true "Update Status Request"
// @Success 200 {object} response.Data[dto.BookingResult]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error "invalid_state"
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/status [patch]
// @Security BearerAuth
func (handler *Handler) UpdateBookingStatus(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateBookingStatus")
	defer scope.End()

	req := dto.UpdateStatusRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	result, err := handler.service.UpdateStatus(ctx, chi.URLParam(request, constant.RequestParamID), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update booking status")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Booking status updated by user " + user)

	response.WithJSON(writer, http.StatusOK, result)
}
