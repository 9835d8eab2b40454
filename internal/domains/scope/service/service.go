package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Scope=MockScopeService

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"appointly/config"
	"appointly/infras/otel"
	"appointly/internal/domains/scope/model"
	"appointly/internal/domains/scope/model/dto"
	"appointly/internal/domains/scope/repository"
	"appointly/shared"
	"appointly/shared/cache"
	"appointly/shared/constant"
	gDto "appointly/shared/dto"
	"appointly/shared/failure"
)

const (
	cacheGetScope     = "scope:get"
	cacheGetAllScopes = "scope:gets"
	cacheCountScopes  = "scope:count"
)

var sortableFields = []string{model.FieldName, model.FieldKind, constant.FieldCreatedAt, constant.FieldModifiedAt}

type Scope interface {
	Create(ctx context.Context, req dto.CreateScopeRequest) (dto.ScopeResponse, error)
	Get(ctx context.Context, id string) (dto.ScopeResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams) (dto.GetScopesResponse, error)
	Update(ctx context.Context, req dto.UpdateScopeRequest, id string) error
	// Resolve loads an active scope for public booking flows. It does not check ownership.
	Resolve(ctx context.Context, id string) (model.Scope, error)
	// ResolveFresh is Resolve read straight from the database, for paths that write bookings
	// against the scope's capacity.
	ResolveFresh(ctx context.Context, id string) (model.Scope, error)
	// Owned loads a scope that the caller in ctx owns.
	Owned(ctx context.Context, id string) (model.Scope, error)
}

type serviceImpl struct {
	repo  repository.Scope
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Scope, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Scope {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateScopeRequest) (res dto.ScopeResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	owner, err := shared.OwnerFromContext(ctx)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	custom, err := dto.NormalizedCustom(req.CustomAvailability)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	mod := req.ToModel(owner, custom)

	if err = s.repo.Insert(ctx, mod); err != nil {
		log.Error().Err(err).Msg("failed to create scope")

		return res, fmt.Errorf("failed to create scope: %w", err)
	}

	s.invalidateLists(ctx)

	res.FromModel(mod)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ScopeResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	mod, err := s.Owned(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(mod)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams) (res dto.GetScopesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	owner, err := shared.OwnerFromContext(ctx)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	params.Sanitize(model.TableName, sortableFields, constant.DefaultValueSortBy)
	filter := shared.FilterByField(model.FieldOwnerID, owner, model.TableName)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllScopes, params, filter)
	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for scope list")

		return res, nil
	}

	scopes, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get scopes")

		return res, fmt.Errorf("failed to get scopes: %w", err)
	}

	total, err := s.count(ctx, filter)
	if err != nil {
		return res, err
	}

	res.FromModels(scopes, total, params.Limit)

	s.save(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) count(ctx context.Context, filter gDto.FilterGroup) (int, error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountScopes, gDto.QueryParams{}, filter)

	var total int
	if err := s.cache.Get(ctx, cacheKey, &total); err == nil {
		return total, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count scopes")

		return 0, fmt.Errorf("failed to count scopes: %w", err)
	}

	s.save(ctx, cacheKey, total)

	return total, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateScopeRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.IsEmpty() {
		return failure.BadRequestFromString("no fields to update") //nolint:wrapcheck
	}

	mod, err := s.Owned(ctx, id)
	if err != nil {
		return err
	}

	fields := shared.TransformFields(req, mod.OwnerID)

	switch {
	case req.ClearsCustom():
		fields[model.FieldCustomAvailability] = nil
	case req.CustomAvailability != nil:
		custom, err := dto.NormalizedCustom(req.CustomAvailability)
		if err != nil {
			return err //nolint:wrapcheck
		}

		fields[model.FieldCustomAvailability] = custom
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update scope")

		return fmt.Errorf("failed to update scope: %w", err)
	}

	if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetScope, id)); err != nil {
		log.Error().Err(err).Msg("failed to delete scope cache")
	}

	s.invalidateLists(ctx)

	return nil
}

func (s *serviceImpl) Resolve(ctx context.Context, id string) (res model.Scope, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Resolve")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	res, err = s.load(ctx, id)
	if err != nil {
		return res, err
	}

	return active(res)
}

func (s *serviceImpl) ResolveFresh(ctx context.Context, id string) (res model.Scope, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ResolveFresh")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	res, err = s.fetch(ctx, id)
	if err != nil {
		return res, err
	}

	return active(res)
}

func active(res model.Scope) (model.Scope, error) {
	if !res.Active {
		return model.Scope{}, failure.NotFound("scope not found") // nolint:wrapcheck
	}

	return res, nil
}

func (s *serviceImpl) Owned(ctx context.Context, id string) (res model.Scope, err error) {
	owner, err := shared.OwnerFromContext(ctx)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	res, err = s.load(ctx, id)
	if err != nil {
		return res, err
	}

	if res.OwnerID != owner {
		return model.Scope{}, failure.NotFound("scope not found") // nolint:wrapcheck
	}

	return res, nil
}

func (s *serviceImpl) load(ctx context.Context, id string) (res model.Scope, err error) {
	cacheKey := shared.BuildCacheKey(cacheGetScope, id)
	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for scope")

		return res, nil
	}

	res, err = s.fetch(ctx, id)
	if err != nil {
		return res, err
	}

	s.save(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) fetch(ctx context.Context, id string) (res model.Scope, err error) {
	res, err = s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get scope")

		return res, fmt.Errorf("failed to get scope: %w", err)
	}

	if res.ID == constant.Empty {
		return res, failure.NotFound("scope not found") // nolint:wrapcheck
	}

	return res, nil
}

func (s *serviceImpl) save(ctx context.Context, key string, value any) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, key, value, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Str("cacheKey", key).Msg("failed to save scope to cache")
		}
	}()
}

func (s *serviceImpl) invalidateLists(ctx context.Context) {
	shared.InvalidateCaches(ctx, s.cache, cacheGetAllScopes)
	shared.InvalidateCaches(ctx, s.cache, cacheCountScopes)
}
