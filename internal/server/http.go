package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-backoffice/internal/auth"
	catH "github.com/fekuna/omnipos-backoffice/internal/category/handler"
	"github.com/fekuna/omnipos-backoffice/internal/logger"
	"github.com/fekuna/omnipos-backoffice/internal/metrics"
	"github.com/fekuna/omnipos-backoffice/internal/middleware"
	"github.com/fekuna/omnipos-backoffice/internal/response"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

type RouterConfig struct {
	Categories    *catH.HTTPHandler
	Authenticator *auth.Authenticator
	Logger        logger.ZapLogger
	Metrics       *metrics.Collector
	CORSOrigins   []string
	Checks        map[string]HealthCheck
}

// NewRouter builds the REST API: public /health and /metrics, and the
// authenticated category routes under /api/v1.
func NewRouter(cfg RouterConfig) http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(cfg.Logger, cfg.Metrics))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-Merchant-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/health", healthHandler(cfg.Checks, cfg.Logger))
	router.Handle("/metrics", cfg.Metrics.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(cfg.Authenticator))
		r.Mount("/categories", cfg.Categories.Routes())
	})
	return router
}

func healthHandler(checks map[string]HealthCheck, log logger.ZapLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		result := map[string]string{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				log.Warn("health check failed", zap.String("dependency", name), zap.Error(err))
				result[name] = "down"
				status = http.StatusServiceUnavailable
				continue
			}
			result[name] = "up"
		}
		state := "healthy"
		if status != http.StatusOK {
			state = "unhealthy"
		}
		response.JSON(w, status, map[string]interface{}{
			"status":       state,
			"dependencies": result,
		})
	}
}
