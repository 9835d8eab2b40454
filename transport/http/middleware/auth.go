package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"appointly/infras/jwt"
	"appointly/infras/otel"
	"appointly/permissions"
	"appointly/shared/constant"
	"appointly/shared/failure"
	"appointly/transport/http/response"
)

// Auth defines the interface for authentication middleware
type Auth interface {
	Auth(http.Handler) http.Handler
}

// Role defines the interface for role-based access control middleware
type Role interface {
	RBAC(http.Handler) http.Handler
}

// AuthRole combines all middleware interfaces
type AuthRole interface {
	Auth
	Role
}

type authRoleImpl struct {
	jwtService jwt.JWT
	otel       otel.Otel
	permission *permissions.PermissionData
}

func NewAuthRoleMiddleware(jwtService jwt.JWT, otel otel.Otel, permissions *permissions.PermissionData) AuthRole {
	return &authRoleImpl{
		jwtService: jwtService,
		otel:       otel,
		permission: permissions,
	}
}

// Auth validates the owner's bearer token and puts the owner identity on the request context.
func (m *authRoleImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "auth.middleware")

		scope.SetAttributes(map[string]any{
			"middleware.type": "auth",
			"http.path":       routePattern(request),
			"http.method":     request.Method,
		})

		fail := func(err error) {
			response.WithError(writer, err)
			scope.TraceError(err)
			scope.End()
		}

		tokenString, err := jwt.ExtractTokenFromHeader(request.Header.Get(constant.RequestHeaderAuthorization))
		if err != nil {
			fail(failure.Unauthorized("Missing or malformed authorization header"))

			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			var message string

			switch {
			case errors.Is(err, jwt.ErrExpiredToken):
				message = "Token has expired"
			case errors.Is(err, jwt.ErrInvalidClaim):
				message = "Invalid token claims"
			default:
				message = "Invalid token"
			}

			fail(failure.Unauthorized(message))

			return
		}

		if claims.Email == "" {
			log.Error().Str("subject", claims.OwnerID()).Msg("JWT claims: Email is empty")
			fail(failure.Unauthorized("Invalid token claims"))

			return
		}

		role := claims.Role
		if role == "" {
			role = constant.RoleOwner
		}

		ctx = context.WithValue(ctx, constant.ContextKeyUserID, claims.OwnerID())
		ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, claims.Email)
		ctx = context.WithValue(ctx, constant.ContextKeyUserRole, role)
		ctx = context.WithValue(ctx, constant.ContextKeyTokenID, claims.ID)

		scope.End()

		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// RBAC checks the caller's role against permissions.json. Requires prior authentication via Auth.
func (m *authRoleImpl) RBAC(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "rbac.middleware")

		if m.permission == nil {
			scope.End()
			response.WithError(writer, failure.ForbiddenError)

			return
		}

		pattern := routePattern(request)
		userRole, _ := ctx.Value(constant.ContextKeyUserRole).(string)

		if !m.permission.Allows(userRole, pattern, request.Method) {
			err := failure.ForbiddenError
			scope.TraceError(err)
			scope.SetAttributes(map[string]any{
				"user_role":  userRole,
				"http.route": pattern,
				"reason":     "role_not_allowed",
			})
			scope.End()
			response.WithError(writer, err)

			return
		}

		scope.End()
		next.ServeHTTP(writer, request)
	})
}

// routePattern resolves the full pattern from the root router, since middleware mounted with Use
// runs before the sub-router has matched the final segment.
func routePattern(request *http.Request) string {
	routeCtx := chi.RouteContext(request.Context())
	if routeCtx == nil || routeCtx.Routes == nil {
		return request.URL.Path
	}

	if pattern := routeCtx.Routes.Find(chi.NewRouteContext(), request.Method, request.URL.Path); pattern != "" {
		return pattern
	}

	return routeCtx.RoutePattern()
}
