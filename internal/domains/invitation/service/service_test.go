package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"appointly/infras/otel/mocks"
	invitationMocks "appointly/internal/domains/invitation/mocks"
	"appointly/internal/domains/invitation/model"
	"appointly/internal/domains/invitation/model/dto"
	"appointly/internal/domains/invitation/service"
	scopeMocks "appointly/internal/domains/scope/mocks"
	scopeModel "appointly/internal/domains/scope/model"
	"appointly/shared/constant"
	"appointly/shared/failure"
)

func ownerCtx() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "owner-1")
}

func TestInvitationService_Create(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(repo *invitationMocks.MockInvitation, scopes *scopeMocks.MockScopeService)
		wantKind  failure.Kind
		wantErr   bool
	}{
		{
			name: "campaign scope",
			setupMock: func(repo *invitationMocks.MockInvitation, scopes *scopeMocks.MockScopeService) {
				scopes.EXPECT().Owned(gomock.Any(), "scope-1").
					Return(scopeModel.Scope{ID: "scope-1", OwnerID: "owner-1", Kind: scopeModel.KindCampaign}, nil)
				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, mod model.Invitation) error {
						assert.Equal(t, "scope-1", mod.ScopeID)
						assert.Equal(t, "ana@example.com", mod.Email)
						assert.Len(t, mod.Token, 36)

						return nil
					})
			},
		},
		{
			name: "event scope",
			setupMock: func(_ *invitationMocks.MockInvitation, scopes *scopeMocks.MockScopeService) {
				scopes.EXPECT().Owned(gomock.Any(), "scope-1").
					Return(scopeModel.Scope{ID: "scope-1", Kind: scopeModel.KindEvent}, nil)
			},
			wantErr:  true,
			wantKind: failure.KindValidation,
		},
		{
			name: "scope not owned",
			setupMock: func(_ *invitationMocks.MockInvitation, scopes *scopeMocks.MockScopeService) {
				scopes.EXPECT().Owned(gomock.Any(), "scope-1").Return(scopeModel.Scope{}, failure.NotFound("scope not found"))
			},
			wantErr:  true,
			wantKind: failure.KindNotFound,
		},
		{
			name: "repository error",
			setupMock: func(repo *invitationMocks.MockInvitation, scopes *scopeMocks.MockScopeService) {
				scopes.EXPECT().Owned(gomock.Any(), "scope-1").
					Return(scopeModel.Scope{ID: "scope-1", Kind: scopeModel.KindCampaign}, nil)
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := invitationMocks.NewMockInvitation(ctrl)
			scopes := scopeMocks.NewMockScopeService(ctrl)
			tt.setupMock(repo, scopes)

			svc := service.New(repo, scopes, mocks.NewOtel())

			res, err := svc.Create(ownerCtx(), "scope-1", dto.CreateInvitationRequest{Email: " Ana@Example.com "})
			if tt.wantErr {
				require.Error(t, err)

				if tt.wantKind != "" {
					assert.True(t, failure.IsKind(err, tt.wantKind))
				}

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, res.Token)
		})
	}
}

func TestInvitationService_ResolveToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := invitationMocks.NewMockInvitation(ctrl)
	svc := service.New(repo, scopeMocks.NewMockScopeService(ctrl), mocks.NewOtel())

	repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Invitation{ID: "inv-1", Email: "ana@example.com"}, nil)

	res, err := svc.ResolveToken(context.Background(), "token-1")
	require.NoError(t, err)
	assert.True(t, res.Matches("ANA@example.com"))
	assert.False(t, res.Matches("bob@example.com"))

	repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Invitation{}, nil)

	_, err = svc.ResolveToken(context.Background(), "unknown")
	require.Error(t, err)
	assert.True(t, failure.IsKind(err, failure.KindNotFound))
}

func TestInvitationService_GetAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := invitationMocks.NewMockInvitation(ctrl)
	scopes := scopeMocks.NewMockScopeService(ctrl)
	svc := service.New(repo, scopes, mocks.NewOtel())

	scopes.EXPECT().Owned(gomock.Any(), "scope-1").Return(scopeModel.Scope{ID: "scope-1"}, nil)
	repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Invitation{{ID: "a"}, {ID: "b"}}, nil)

	res, err := svc.GetAll(ownerCtx(), "scope-1")
	require.NoError(t, err)
	assert.Len(t, res.Invitations, 2)
}
