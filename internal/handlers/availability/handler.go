package availability

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"appointly/infras/otel"
	"appointly/internal/domains/availability/model/dto"
	"appointly/internal/domains/availability/service"
	"appointly/shared/constant"
	"appointly/shared/validator"
	"appointly/transport/http/middleware"
	"appointly/transport/http/response"
)

type Handler struct {
	service    service.Availability
	middleware middleware.AuthRole
	otel       otel.Otel
}

func New(service service.Availability, middleware middleware.AuthRole, otel otel.Otel) Handler {
	return Handler{
		service:    service,
		middleware: middleware,
		otel:       otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/availability", func(routerGroup chi.Router) {
		routerGroup.Use(handler.middleware.Auth, handler.middleware.RBAC)

		routerGroup.Post("/rules", handler.CreateRule)
		routerGroup.Get("/rules", handler.GetRules)
		routerGroup.Delete("/rules/{id}", handler.DeleteRule)

		routerGroup.Post("/exceptions", handler.CreateException)
		routerGroup.Get("/exceptions", handler.GetExceptions)
		routerGroup.Delete("/exceptions/{id}", handler.DeleteException)
	})
}

// CreateRule adds a weekly availability window for the authenticated owner.
// @Summary Create an availability rule
// @Tags Availability
// @Accept json
// @Produce json
// @Param request body dto.CreateRuleRequest true "Create Rule Request"
// @Success 201 {object} response.Data[dto.RuleResponse]
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/availability/rules [post]
// @Security BearerAuth
func (handler *Handler) CreateRule(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateRule")
	defer scope.End()

	req := dto.CreateRuleRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	rule, err := handler.service.CreateRule(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create availability rule")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusCreated, rule)
}

// GetRules lists the owner's weekly rules.
// @Summary List availability rules
// @Tags Availability
// @Produce json
// @Success 200 {object} response.Data[dto.GetRulesResponse]
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/availability/rules [get]
// @Security BearerAuth
func (handler *Handler) GetRules(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRules")
	defer scope.End()

	rules, err := handler.service.GetRules(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get availability rules")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, rules)
}

// DeleteRule removes one of the owner's rules.
// @Summary Delete an availability rule
// @Tags Availability
// @Produce json
// @Param id path string true "Rule ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/availability/rules/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteRule(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteRule")
	defer scope.End()

	if err := handler.service.DeleteRule(ctx, chi.URLParam(request, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete availability rule")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Availability rule deleted successfully")
}

// CreateException blocks or opens time on a specific date.
// @Summary Create an availability exception
// @Description Without a time range and is_available=false the whole date is blocked.
// @Tags Availability
// @Accept json
// @Produce json
// @Param request body dto.CreateExceptionRequest true "Create Exception Request"
// @Success 201 {object} response.Data[dto.ExceptionResponse]
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/availability/exceptions [post]
// @Security BearerAuth
func (handler *Handler) CreateException(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateException")
	defer scope.End()

	req := dto.CreateExceptionRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	exception, err := handler.service.CreateException(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create availability exception")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusCreated, exception)
}

// GetExceptions lists the owner's date exceptions.
// @Summary List availability exceptions
// @Tags Availability
// @Produce json
// @Success 200 {object} response.Data[dto.GetExceptionsResponse]
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/availability/exceptions [get]
// @Security BearerAuth
func (handler *Handler) GetExceptions(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetExceptions")
	defer scope.End()

	exceptions, err := handler.service.GetExceptions(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get availability exceptions")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, exceptions)
}

// DeleteException removes one of the owner's exceptions.
// @Summary Delete an availability exception
// @Tags Availability
// @Produce json
// @Param id path string true "Exception ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/availability/exceptions/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteException(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteException")
	defer scope.End()

	if err := handler.service.DeleteException(ctx, chi.URLParam(request, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete availability exception")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Availability exception deleted successfully")
}
