package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"appointly/infras/otel"
	"appointly/infras/postgres"
	"appointly/internal/domains/availability/model"
	gDto "appointly/shared/dto"
	gRepo "appointly/shared/repository"
)

type Rule interface {
	Insert(ctx context.Context, model model.Rule) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Rule, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Rule, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type Exception interface {
	Insert(ctx context.Context, model model.Exception) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Exception, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Exception, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type ruleRepositoryImpl struct {
	gRepo.Repository[model.Rule]
}

type exceptionRepositoryImpl struct {
	gRepo.Repository[model.Exception]
}

func NewRule(db *postgres.Connection, otel otel.Otel) Rule {
	return &ruleRepositoryImpl{
		Repository: gRepo.NewRepository[model.Rule](model.RuleEntityName, model.RuleTableName, model.FieldID, db, otel),
	}
}

func NewException(db *postgres.Connection, otel otel.Otel) Exception {
	return &exceptionRepositoryImpl{
		Repository: gRepo.NewRepository[model.Exception](model.ExceptionEntityName, model.ExceptionTableName, model.FieldID, db, otel),
	}
}
