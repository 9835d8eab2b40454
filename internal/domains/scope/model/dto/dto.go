package dto

import (
	"bytes"
	"encoding/json"

	"github.com/google/uuid"

	"appointly/internal/domains/scope/model"
	"appointly/internal/scheduling"
	"appointly/shared"
	gDto "appointly/shared/dto"
	gModel "appointly/shared/model"
	"appointly/shared/timezone"
)

type CreateScopeRequest struct {
	Kind               string          `json:"kind"                validate:"required,oneof=event campaign"`
	Name               string          `json:"name"                validate:"required,max=150"`
	DurationMinutes    int             `json:"duration_minutes"    validate:"omitempty,min=1,max=1440"`
	CustomAvailability json.RawMessage `json:"custom_availability" swaggertype:"object"`
	Active             *bool           `json:"active"              validate:"omitempty"`
}

// NormalizedCustom validates the override and returns its canonical JSON, or nil when absent.
func NormalizedCustom(raw json.RawMessage) (*string, error) {
	custom, err := scheduling.ParseCustomAvailability(raw)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if custom == nil {
		return nil, nil
	}

	encoded, err := custom.Marshal()
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	value := string(encoded)

	return &value, nil
}

func (c *CreateScopeRequest) ToModel(owner string, custom *string) model.Scope {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.Scope{
		ID:                 uuid.NewString(),
		OwnerID:            owner,
		Kind:               model.Kind(c.Kind),
		Name:               c.Name,
		DurationMinutes:    c.DurationMinutes,
		CustomAvailability: custom,
		Active:             active,
		Metadata:           gModel.NewMetadata(timezone.Now(), owner),
	}
}

type UpdateScopeRequest struct {
	Name               string          `db:"name"             json:"name"                validate:"omitempty,max=150"`
	DurationMinutes    *int            `db:"duration_minutes" json:"duration_minutes"    validate:"omitempty,min=1,max=1440"`
	Active             *bool           `db:"active"           json:"active"              validate:"omitempty"`
	CustomAvailability json.RawMessage `json:"custom_availability" swaggertype:"object"`
}

func (u *UpdateScopeRequest) IsEmpty() bool {
	return u.Name == "" && u.DurationMinutes == nil && u.Active == nil && u.CustomAvailability == nil
}

// ClearsCustom reports an explicit JSON null, which removes the override.
func (u *UpdateScopeRequest) ClearsCustom() bool {
	return u.CustomAvailability != nil && bytes.Equal(bytes.TrimSpace(u.CustomAvailability), []byte("null"))
}

type ScopeResponse struct {
	ID                 string          `json:"id"`
	Kind               string          `json:"kind"`
	Name               string          `json:"name"`
	DurationMinutes    int             `json:"duration_minutes"`
	CustomAvailability json.RawMessage `json:"custom_availability,omitempty" swaggertype:"object"`
	Active             bool            `json:"active"`
	gDto.Metadata
}

func (r *ScopeResponse) FromModel(model model.Scope) {
	r.ID = model.ID
	r.Kind = string(model.Kind)
	r.Name = model.Name
	r.DurationMinutes = model.DurationMinutes
	r.Active = model.Active

	if model.CustomAvailability != nil {
		r.CustomAvailability = json.RawMessage(*model.CustomAvailability)
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetScopesResponse struct {
	Scopes    []ScopeResponse `json:"scopes"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetScopesResponse) FromModels(models []model.Scope, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Scopes = make([]ScopeResponse, len(models))
	for i, mod := range models {
		r.Scopes[i].FromModel(mod)
	}
}
