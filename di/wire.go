//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"appointly/config"
	"appointly/infras/jwt"
	"appointly/infras/kafka"
	"appointly/infras/otel"
	"appointly/infras/postgres"
	"appointly/infras/redis"
	"appointly/permissions"
	"appointly/shared/cache"
	"appointly/transport/http"
	"appointly/transport/http/middleware"
	"appointly/transport/http/router"

	availabilityRepository "appointly/internal/domains/availability/repository"
	availabilityService "appointly/internal/domains/availability/service"
	bookingRepository "appointly/internal/domains/booking/repository"
	bookingService "appointly/internal/domains/booking/service"
	invitationRepository "appointly/internal/domains/invitation/repository"
	invitationService "appointly/internal/domains/invitation/service"
	scopeRepository "appointly/internal/domains/scope/repository"
	scopeService "appointly/internal/domains/scope/service"

	availabilityHandler "appointly/internal/handlers/availability"
	bookingHandler "appointly/internal/handlers/booking"
	scopeHandler "appointly/internal/handlers/scope"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var availabilityDomain = wire.NewSet(
	availabilityRepository.NewRule,
	availabilityRepository.NewException,
	availabilityService.New,
)

var scopeDomain = wire.NewSet(
	scopeRepository.New,
	scopeService.New,
)

var invitationDomain = wire.NewSet(
	invitationRepository.New,
	invitationService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var domains = wire.NewSet(
	availabilityDomain,
	scopeDomain,
	invitationDomain,
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	availabilityHandler.New,
	scopeHandler.New,
	bookingHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
