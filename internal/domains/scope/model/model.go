package model

import (
	"appointly/internal/scheduling"
	"appointly/shared/model"
)

const (
	TableName  = "scopes"
	EntityName = "scope"

	FieldID                 = "id"
	FieldOwnerID            = "owner_id"
	FieldKind               = "kind"
	FieldName               = "name"
	FieldDurationMinutes    = "duration_minutes"
	FieldCustomAvailability = "custom_availability"
	FieldActive             = "active"
)

// Kind decides how bookings in a scope conflict with each other.
type Kind string

const (
	KindEvent    Kind = "event"
	KindCampaign Kind = "campaign"
)

// Scope is a bookable event or campaign owned by one scheduling owner.
type Scope struct {
	ID                 string  `db:"id"`
	OwnerID            string  `db:"owner_id"`
	Kind               Kind    `db:"kind"`
	Name               string  `db:"name"`
	DurationMinutes    int     `db:"duration_minutes"`
	CustomAvailability *string `db:"custom_availability"`
	Active             bool    `db:"active"`
	model.Metadata
}

// Custom parses the stored override. A malformed value is reported, never ignored.
func (s Scope) Custom() (*scheduling.CustomAvailability, error) {
	if s.CustomAvailability == nil {
		return nil, nil
	}

	return scheduling.ParseCustomAvailability([]byte(*s.CustomAvailability)) //nolint:wrapcheck
}

// Duration resolves the slot length: override, then scope, then fallback.
func (s Scope) Duration(custom *scheduling.CustomAvailability, fallback int) int {
	base := s.DurationMinutes
	if base <= 0 {
		base = fallback
	}

	return custom.DurationOr(base)
}

func (s Scope) IsCampaign() bool {
	return s.Kind == KindCampaign
}

func (s Scope) ConflictMode() scheduling.Mode {
	if s.IsCampaign() {
		return scheduling.ModeStartInRange
	}

	return scheduling.ModeOverlap
}
