package middleware

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	gootel "go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"appointly/config"
	"appointly/infras/otel"
	"appointly/shared/cache"
	"appointly/shared/constant"
)

const (
	otelHTTPScopeName = "http"
)

type AppMiddleware interface {
	Tracing(next http.Handler) http.Handler
	RateLimit() func(http.Handler) http.Handler
}

type appMiddleware struct {
	otel   otel.Otel
	config *config.Config
	cache  cache.RedisCache
}

func NewAppMiddleware(otel otel.Otel, config *config.Config, cache cache.RedisCache) AppMiddleware {
	return &appMiddleware{
		otel:   otel,
		config: config,
		cache:  cache,
	}
}

// Tracing opens the request span, continuing a caller's trace when a traceparent header is present.
func (a *appMiddleware) Tracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		spanName := fmt.Sprintf("%s %s", request.Method, request.URL.Path)
		parent := gootel.GetTextMapPropagator().Extract(request.Context(), propagation.HeaderCarrier(request.Header))

		ctx, scope := a.otel.NewScope(parent, otelHTTPScopeName, spanName)
		defer scope.End()

		scope.SetAttributes(map[string]any{
			"app.name":        a.config.App.Name,
			"http.path":       request.URL.Path,
			"http.method":     request.Method,
			"http.user_agent": request.Header.Get(constant.RequestHeaderUserAgent),
			"http.host":       request.Host,
			"http.source":     a.getClientIP(request),
			"http.request_id": chiMiddleware.GetReqID(ctx),
		})

		if requestID := chiMiddleware.GetReqID(ctx); requestID != "" {
			writer.Header().Set(constant.RequestHeaderRequestID, requestID)
		}

		wrapped := chiMiddleware.NewWrapResponseWriter(writer, request.ProtoMajor)

		next.ServeHTTP(wrapped, request.WithContext(ctx))

		attributes := map[string]any{
			"http.status_code": wrapped.Status(),
		}

		if routeCtx := chi.RouteContext(request.Context()); routeCtx != nil {
			attributes["http.route"] = routeCtx.RoutePattern()
		}

		scope.SetAttributes(attributes)

		if wrapped.Status() >= http.StatusInternalServerError {
			scope.TraceError(fmt.Errorf("%s %s responded %d", request.Method, request.URL.Path, wrapped.Status()))
		}
	})
}
