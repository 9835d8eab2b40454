package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Invitation=MockInvitationService

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"appointly/infras/otel"
	"appointly/internal/domains/invitation/model"
	"appointly/internal/domains/invitation/model/dto"
	"appointly/internal/domains/invitation/repository"
	scopeService "appointly/internal/domains/scope/service"
	"appointly/shared"
	"appointly/shared/constant"
	gDto "appointly/shared/dto"
	"appointly/shared/failure"
)

type Invitation interface {
	Create(ctx context.Context, scopeID string, req dto.CreateInvitationRequest) (dto.InvitationResponse, error)
	GetAll(ctx context.Context, scopeID string) (dto.GetInvitationsResponse, error)
	// ResolveToken returns the invitation behind a personal link.
	ResolveToken(ctx context.Context, token string) (model.Invitation, error)
}

type serviceImpl struct {
	repo   repository.Invitation
	scopes scopeService.Scope
	otel   otel.Otel
}

func New(repo repository.Invitation, scopes scopeService.Scope, otel otel.Otel) Invitation {
	return &serviceImpl{
		repo:   repo,
		scopes: scopes,
		otel:   otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, scopeID string, req dto.CreateInvitationRequest) (res dto.InvitationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateInvitation")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	owned, err := s.scopes.Owned(ctx, scopeID)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	if !owned.IsCampaign() {
		return res, failure.BadRequestFromString("invitations are only available for campaign scopes") //nolint:wrapcheck
	}

	mod := req.ToModel(owned.ID, owned.OwnerID)

	if err = s.repo.Insert(ctx, mod); err != nil {
		log.Error().Err(err).Msg("failed to create invitation")

		return res, fmt.Errorf("failed to create invitation: %w", err)
	}

	res.FromModel(mod)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, scopeID string) (res dto.GetInvitationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetInvitations")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if _, err = s.scopes.Owned(ctx, scopeID); err != nil {
		return res, err //nolint:wrapcheck
	}

	invitations, err := s.repo.GetAll(ctx, gDto.QueryParams{
		SortBy:  model.TableName + "." + constant.FieldCreatedAt,
		SortDir: gDto.SortDirDesc,
	}, shared.FilterByField(model.FieldScopeID, scopeID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get invitations")

		return res, fmt.Errorf("failed to get invitations: %w", err)
	}

	res.FromModels(invitations)

	return res, nil
}

func (s *serviceImpl) ResolveToken(ctx context.Context, token string) (res model.Invitation, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ResolveToken")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	res, err = s.repo.Get(ctx, shared.FilterByField(model.FieldToken, token, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get invitation")

		return res, fmt.Errorf("failed to get invitation: %w", err)
	}

	if res.ID == constant.Empty {
		return res, failure.NotFound("invitation not found") // nolint:wrapcheck
	}

	return res, nil
}
