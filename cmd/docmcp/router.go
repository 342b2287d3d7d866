package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/jonwraymond/docmcp/config"
	"github.com/jonwraymond/docmcp/registry"
)

const requestIDHeader = "X-Request-Id"

type healthResponse struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	Documents int    `json:"documents"`
	Tools     int    `json:"tools"`
	Resources int    `json:"resources"`
	Calls     uint64 `json:"calls"`
	Failures  uint64 `json:"failures"`
}

func (a *app) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(a.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: a.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Last-Event-ID", "Mcp-Session-Id", "Mcp-Protocol-Version"},
		ExposedHeaders: []string{"Mcp-Session-Id", requestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/healthz", a.health)
	r.Handle(a.cfg.Path, a.mcpHandler())

	return r
}

func (a *app) mcpHandler() http.Handler {
	switch a.cfg.Transport {
	case config.TransportJSONRPC:
		return registry.ServeHTTP(a.registry)
	case config.TransportSSE:
		return registry.ServeSSE(a.registry)
	default:
		return a.server.HTTPHandler()
	}
}

func (a *app) health(w http.ResponseWriter, r *http.Request) {
	stats := a.registry.Stats()
	resp := healthResponse{
		Status:    "ok",
		Documents: a.store.Len(),
		Tools:     stats.TotalTools,
		Resources: stats.TotalResources,
		Calls:     stats.Calls,
		Failures:  stats.Failures,
	}

	if err := a.registry.HealthCheck(r.Context()); err != nil {
		resp.Status = "unavailable"
		resp.Error = err.Error()
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, resp)
}

// requestLogger tags each request with a ULID and logs it once served.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ulid.Make().String()
			w.Header().Set(requestIDHeader, id)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			logger.Info("request",
				zap.String("request_id", id),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
