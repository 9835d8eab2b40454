package dto

import (
	"strings"

	"github.com/google/uuid"

	"appointly/internal/domains/invitation/model"
	gDto "appointly/shared/dto"
	gModel "appointly/shared/model"
	"appointly/shared/timezone"
)

type CreateInvitationRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

func (c *CreateInvitationRequest) ToModel(scopeID, owner string) model.Invitation {
	return model.Invitation{
		ID:       uuid.NewString(),
		ScopeID:  scopeID,
		Email:    strings.ToLower(strings.TrimSpace(c.Email)),
		Token:    uuid.NewString(),
		Metadata: gModel.NewMetadata(timezone.Now(), owner),
	}
}

type InvitationResponse struct {
	ID      string `json:"id"`
	ScopeID string `json:"scope_id"`
	Email   string `json:"email"`
	Token   string `json:"token"`
	gDto.Metadata
}

func (r *InvitationResponse) FromModel(model model.Invitation) {
	r.ID = model.ID
	r.ScopeID = model.ScopeID
	r.Email = model.Email
	r.Token = model.Token
	r.Metadata.FromModel(model.Metadata)
}

type GetInvitationsResponse struct {
	Invitations []InvitationResponse `json:"invitations"`
}

func (r *GetInvitationsResponse) FromModels(models []model.Invitation) {
	r.Invitations = make([]InvitationResponse, len(models))
	for i, mod := range models {
		r.Invitations[i].FromModel(mod)
	}
}
