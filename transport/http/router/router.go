package router

import (
	"github.com/go-chi/chi/v5"

	"appointly/internal/handlers/availability"
	"appointly/internal/handlers/booking"
	"appointly/internal/handlers/scope"
)

type DomainHandlers struct {
	Availability availability.Handler
	Scope        scope.Handler
	Booking      booking.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Availability.Router(routerGroup)
		r.DomainHandlers.Scope.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
