package handler

import (
	"net/http"
	"sync"

	"appointly/config"
	"appointly/di"
	"appointly/shared/logger"
	transport "appointly/transport/http"
)

var (
	server *transport.HTTP
	once   sync.Once
)

// Handler is the serverless entrypoint. The dependency graph is built on the first request and reused.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger()

		logger.SetLogLevel(cfg)

		server = di.InitializeService()
	})

	r.RequestURI = r.URL.String()

	server.ServeHTTP(w, r)
}
