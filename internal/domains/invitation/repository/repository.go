package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"appointly/infras/otel"
	"appointly/infras/postgres"
	"appointly/internal/domains/invitation/model"
	gDto "appointly/shared/dto"
	gRepo "appointly/shared/repository"
)

type Invitation interface {
	Insert(ctx context.Context, model model.Invitation) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Invitation, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Invitation, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Invitation]
}

func New(db *postgres.Connection, otel otel.Otel) Invitation {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Invitation](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
