package scope

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"appointly/infras/otel"
	invitationDto "appointly/internal/domains/invitation/model/dto"
	invitationService "appointly/internal/domains/invitation/service"
	"appointly/internal/domains/scope/model/dto"
	"appointly/internal/domains/scope/service"
	"appointly/shared/constant"
	gDto "appointly/shared/dto"
	"appointly/shared/validator"
	"appointly/transport/http/middleware"
	"appointly/transport/http/response"
)

type Handler struct {
	service     service.Scope
	invitations invitationService.Invitation
	middleware  middleware.AuthRole
	otel        otel.Otel
}

func New(service service.Scope, invitations invitationService.Invitation, middleware middleware.AuthRole, otel otel.Otel) Handler {
	return Handler{
		service:     service,
		invitations: invitations,
		middleware:  middleware,
		otel:        otel,
	}
}

// Router registers flat owner paths so the public booking routes can share the /scopes/{id} prefix.
func (handler *Handler) Router(router chi.Router) {
	router.Group(func(routerGroup chi.Router) {
		routerGroup.Use(handler.middleware.Auth, handler.middleware.RBAC)

		routerGroup.Post("/scopes", handler.CreateScope)
		routerGroup.Get("/scopes", handler.GetScopes)
		routerGroup.Get("/scopes/{id}", handler.GetScopeByID)
		routerGroup.Patch("/scopes/{id}", handler.UpdateScope)

		routerGroup.Post("/scopes/{id}/invitations", handler.CreateInvitation)
		routerGroup.Get("/scopes/{id}/invitations", handler.GetInvitations)
	})
}

// CreateScope creates an event or campaign owned by the caller.
// @Summary Create a scope
// @Description custom_availability, when present, replaces the owner's weekly rules for this scope.
// @Tags Scope
// @Accept json
// @Produce json
// @Param request body dto.CreateScopeRequest true "Create Scope Request"
// @Success 201 {object} response.Data[dto.ScopeResponse]
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/scopes [post]
// @Security BearerAuth
func (handler *Handler) CreateScope(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateScope")
	defer scope.End()

	req := dto.CreateScopeRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	created, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create scope")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Scope created successfully by user " + user)

	response.WithJSON(writer, http.StatusCreated, created)
}

// GetScopes lists the caller's scopes.
// @Summary List scopes
// @Tags Scope
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetScopesResponse]
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/scopes [get]
// @Security BearerAuth
func (handler *Handler) GetScopes(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetScopes")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	scopes, err := handler.service.GetAll(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get scopes")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, scopes)
}

// GetScopeByID returns one of the caller's scopes.
// @Summary Get a scope
// @Tags Scope
// @Produce json
// @Param id path string true "Scope ID"
// @Success 200 {object} response.Data[dto.ScopeResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/scopes/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetScopeByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetScopeByID")
	defer scope.End()

	found, err := handler.service.Get(ctx, chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get scope by ID")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, found)
}

// UpdateScope changes name, duration, active flag or custom availability.
// @Summary Update a scope
// @Description Send "custom_availability": null to drop the override.
// @Tags Scope
// @Accept json
// @Produce json
// @Param id path string true "Scope ID"
// @Param request body dto.UpdateScopeRequest true "Update Scope Request"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/scopes/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateScope(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateScope")
	defer scope.End()

	req := dto.UpdateScopeRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Update(ctx, req, chi.URLParam(request, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update scope")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Scope updated successfully")
}

// CreateInvitation issues a personal link for one email on a campaign.
// @Summary Invite a client to a campaign
// @Tags Invitation
// @Accept json
// @Produce json
// @Param id path string true "Scope ID"
// @Param request body invitationDto.CreateInvitationRequest true "Create Invitation Request"
// @Success 201 {object} response.Data[invitationDto.InvitationResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/scopes/{id}/invitations [post]
// @Security BearerAuth
func (handler *Handler) CreateInvitation(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateInvitation")
	defer scope.End()

	req := invitationDto.CreateInvitationRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	invitation, err := handler.invitations.Create(ctx, chi.URLParam(request, constant.RequestParamID), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create invitation")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusCreated, invitation)
}

// GetInvitations lists invitations of a campaign.
// @Summary List campaign invitations
// @Tags Invitation
// @Produce json
// @Param id path string true "Scope ID"
// @Success 200 {object} response.Data[invitationDto.GetInvitationsResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/scopes/{id}/invitations [get]
// @Security BearerAuth
func (handler *Handler) GetInvitations(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetInvitations")
	defer scope.End()

	invitations, err := handler.invitations.GetAll(ctx, chi.URLParam(request, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get invitations")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, invitations)
}
