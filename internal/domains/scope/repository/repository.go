package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"appointly/infras/otel"
	"appointly/infras/postgres"
	"appointly/internal/domains/scope/model"
	gDto "appointly/shared/dto"
	gRepo "appointly/shared/repository"
)

type Scope interface {
	Insert(ctx context.Context, model model.Scope) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Scope, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Scope, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Scope]
}

func New(db *postgres.Connection, otel otel.Otel) Scope {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Scope](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
