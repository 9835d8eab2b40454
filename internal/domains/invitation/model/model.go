package model

import (
	"strings"

	"appointly/shared/model"
)

const (
	TableName  = "invitations"
	EntityName = "invitation"

	FieldID      = "id"
	FieldScopeID = "scope_id"
	FieldEmail   = "email"
	FieldToken   = "token"
)

// Invitation is a personal campaign link. Only its email may book through it.
type Invitation struct {
	ID      string `db:"id"`
	ScopeID string `db:"scope_id"`
	Email   string `db:"email"`
	Token   string `db:"token"`
	model.Metadata
}

func (i Invitation) Matches(email string) bool {
	return strings.EqualFold(strings.TrimSpace(i.Email), strings.TrimSpace(email))
}
