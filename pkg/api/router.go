package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mosvani/blocktally/internal/logger"
)

// NewRouter creates the chi router with all middleware and routes.
//
// Middleware stack (order matters): request IDs for log correlation, real
// client IPs behind proxies, request logging through the internal logger,
// panic recovery, and a request timeout.
func NewRouter(guard Guard) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	h := NewHandler(guard)

	r.Get("/health", h.Health)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/node", h.Node)
		r.Get("/usage", h.Usage)
		r.Get("/datasets", h.Datasets)
		r.Get("/datasets/{id}", h.Dataset)
		r.Get("/blocks/{name}", h.Block)
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/v1/usage", http.StatusTemporaryRedirect)
	})

	return r
}

// requestLogger logs requests using the internal logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := middleware.GetReqID(r.Context())

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		logger.Debug("API request completed",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).String(),
		)
	})
}
