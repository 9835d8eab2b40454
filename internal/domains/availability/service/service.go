package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Availability=MockAvailabilityService

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"appointly/config"
	"appointly/infras/otel"
	"appointly/internal/domains/availability/model"
	"appointly/internal/domains/availability/model/dto"
	"appointly/internal/domains/availability/repository"
	"appointly/internal/scheduling"
	"appointly/shared"
	"appointly/shared/cache"
	"appointly/shared/constant"
	gDto "appointly/shared/dto"
	"appointly/shared/failure"
	"appointly/shared/timezone"
)

const (
	cacheRules      = "availability:rules"
	cacheExceptions = "availability:exceptions"
)

type Availability interface {
	CreateRule(ctx context.Context, req dto.CreateRuleRequest) (dto.RuleResponse, error)
	GetRules(ctx context.Context) (dto.GetRulesResponse, error)
	DeleteRule(ctx context.Context, id string) error
	CreateException(ctx context.Context, req dto.CreateExceptionRequest) (dto.ExceptionResponse, error)
	GetExceptions(ctx context.Context) (dto.GetExceptionsResponse, error)
	DeleteException(ctx context.Context, id string) error
	// Snapshot returns the owner's rules and upcoming exceptions in generator form.
	Snapshot(ctx context.Context, ownerID string) (model.Snapshot, error)
}

type serviceImpl struct {
	ruleRepo      repository.Rule
	exceptionRepo repository.Exception
	cfg           *config.Config
	cache         cache.RedisCache
	otel          otel.Otel
}

func New(ruleRepo repository.Rule, exceptionRepo repository.Exception, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Availability {
	return &serviceImpl{
		ruleRepo:      ruleRepo,
		exceptionRepo: exceptionRepo,
		cfg:           cfg,
		cache:         cache,
		otel:          otel,
	}
}

func ownerFilter(owner, table string) gDto.FilterGroup {
	return shared.FilterByField(model.FieldOwnerID, owner, table)
}

func ownedByID(id, owner, table string) gDto.FilterGroup {
	return shared.OwnedByID(id, model.FieldID, model.FieldOwnerID, owner, table)
}

func (s *serviceImpl) CreateRule(ctx context.Context, req dto.CreateRuleRequest) (res dto.RuleResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateRule")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	owner, err := shared.OwnerFromContext(ctx)
	if err != nil {
		return res, err
	}

	if _, err = req.Window(); err != nil {
		return res, err
	}

	rule := req.ToModel(owner)

	if err = s.ruleRepo.Insert(ctx, rule); err != nil {
		log.Error().Err(err).Msg("failed to create availability rule")

		return res, fmt.Errorf("failed to create availability rule: %w", err)
	}

	s.invalidate(ctx, cacheRules, owner)

	res.FromModel(rule)

	return res, nil
}

func (s *serviceImpl) GetRules(ctx context.Context) (res dto.GetRulesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetRules")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	owner, err := shared.OwnerFromContext(ctx)
	if err != nil {
		return res, err
	}

	rules, err := s.ruleRepo.GetAll(ctx, gDto.QueryParams{}, ownerFilter(owner, model.RuleTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get availability rules")

		return res, fmt.Errorf("failed to get availability rules: %w", err)
	}

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].DayOfWeek == rules[j].DayOfWeek {
			return rules[i].StartTime < rules[j].StartTime
		}

		return rules[i].DayOfWeek < rules[j].DayOfWeek
	})

	res.FromModels(rules)

	return res, nil
}

func (s *serviceImpl) DeleteRule(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteRule")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	owner, err := shared.OwnerFromContext(ctx)
	if err != nil {
		return err
	}

	filter := ownedByID(id, owner, model.RuleTableName)

	rule, err := s.ruleRepo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get availability rule")

		return fmt.Errorf("failed to get availability rule: %w", err)
	}

	if rule.ID == constant.Empty {
		return failure.NotFound("availability rule not found") // nolint:wrapcheck
	}

	if err = s.ruleRepo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete availability rule")

		return fmt.Errorf("failed to delete availability rule: %w", err)
	}

	s.invalidate(ctx, cacheRules, owner)

	return nil
}

func (s *serviceImpl) CreateException(ctx context.Context, req dto.CreateExceptionRequest) (res dto.ExceptionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateException")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	owner, err := shared.OwnerFromContext(ctx)
	if err != nil {
		return res, err
	}

	if err = req.Check(); err != nil {
		return res, failure.BadRequest(err) //nolint:wrapcheck
	}

	exception, err := req.ToModel(owner)
	if err != nil {
		return res, failure.BadRequest(err) //nolint:wrapcheck
	}

	if err = s.exceptionRepo.Insert(ctx, exception); err != nil {
		log.Error().Err(err).Msg("failed to create availability exception")

		return res, fmt.Errorf("failed to create availability exception: %w", err)
	}

	s.invalidate(ctx, cacheExceptions, owner)

	res.FromModel(exception)

	return res, nil
}

func (s *serviceImpl) GetExceptions(ctx context.Context) (res dto.GetExceptionsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetExceptions")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	owner, err := shared.OwnerFromContext(ctx)
	if err != nil {
		return res, err
	}

	exceptions, err := s.exceptionRepo.GetAll(ctx, gDto.QueryParams{
		SortBy:  model.ExceptionTableName + "." + model.FieldExceptionDate,
		SortDir: gDto.SortDirAsc,
	}, ownerFilter(owner, model.ExceptionTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get availability exceptions")

		return res, fmt.Errorf("failed to get availability exceptions: %w", err)
	}

	res.FromModels(exceptions)

	return res, nil
}

func (s *serviceImpl) DeleteException(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteException")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	owner, err := shared.OwnerFromContext(ctx)
	if err != nil {
		return err
	}

	filter := ownedByID(id, owner, model.ExceptionTableName)

	exception, err := s.exceptionRepo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get availability exception")

		return fmt.Errorf("failed to get availability exception: %w", err)
	}

	if exception.ID == constant.Empty {
		return failure.NotFound("availability exception not found") // nolint:wrapcheck
	}

	if err = s.exceptionRepo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete availability exception")

		return fmt.Errorf("failed to delete availability exception: %w", err)
	}

	s.invalidate(ctx, cacheExceptions, owner)

	return nil
}

func (s *serviceImpl) Snapshot(ctx context.Context, ownerID string) (res model.Snapshot, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Snapshot")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	res.Rules, err = s.rules(ctx, ownerID)
	if err != nil {
		return res, err
	}

	res.Exceptions, err = s.exceptions(ctx, ownerID)
	if err != nil {
		return res, err
	}

	return res, nil
}

func (s *serviceImpl) rules(ctx context.Context, owner string) ([]scheduling.Rule, error) {
	cacheKey := shared.BuildCacheKey(cacheRules, owner)

	var res []scheduling.Rule
	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for availability rules")

		return res, nil
	}

	models, err := s.ruleRepo.GetAll(ctx, gDto.QueryParams{}, ownerFilter(owner, model.RuleTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to load availability rules")

		return nil, fmt.Errorf("failed to load availability rules: %w", err)
	}

	res = make([]scheduling.Rule, len(models))
	for i, rule := range models {
		res[i] = rule.ToScheduling()
	}

	s.save(ctx, cacheKey, res)

	return res, nil
}

// exceptions loads exceptions from yesterday onwards; older dates can no longer be booked.
func (s *serviceImpl) exceptions(ctx context.Context, owner string) ([]scheduling.Exception, error) {
	cacheKey := shared.BuildCacheKey(cacheExceptions, owner)

	var res []scheduling.Exception
	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for availability exceptions")

		return res, nil
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldOwnerID, Value: owner, Operator: gDto.FilterOperatorEq, Table: model.ExceptionTableName},
			gDto.Filter{
				Field:    model.FieldExceptionDate,
				Value:    timezone.Now().AddDate(0, 0, -1).Format(constant.DayFormat),
				Operator: gDto.FilterOperatorGreaterEq,
				Table:    model.ExceptionTableName,
			},
		},
	}

	models, err := s.exceptionRepo.GetAll(ctx, gDto.QueryParams{}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to load availability exceptions")

		return nil, fmt.Errorf("failed to load availability exceptions: %w", err)
	}

	res = make([]scheduling.Exception, len(models))
	for i, exception := range models {
		res[i] = exception.ToScheduling()
	}

	s.save(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) save(ctx context.Context, key string, value any) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, key, value, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Str("cacheKey", key).Msg("failed to save availability to cache")
		}
	}()
}

// invalidate runs before the write returns so the next read goes to the database.
func (s *serviceImpl) invalidate(ctx context.Context, prefix, owner string) {
	if err := s.cache.Delete(ctx, shared.BuildCacheKey(prefix, owner)); err != nil {
		log.Error().Err(err).Msg("failed to delete availability cache")
	}
}
