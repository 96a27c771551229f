package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/user/storeapi-go/apperror"
	"github.com/user/storeapi-go/auth"
	"github.com/user/storeapi-go/catalog"
	"github.com/user/storeapi-go/httpx"
	"github.com/user/storeapi-go/logging"
	"github.com/user/storeapi-go/metrics"
	"github.com/user/storeapi-go/users"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// routerDeps holds everything the HTTP router mounts.
type routerDeps struct {
	log       logrus.FieldLogger
	metrics   *metrics.Metrics
	tokens    *auth.TokenManager
	blocklist auth.Blocklist
	auth      *auth.Handlers
	users     *users.UserHandlers
	catalog   *catalog.Handlers
	health    map[string]HealthCheck
}

func newRouter(d routerDeps) chi.Router {
	r := chi.NewRouter()

	// Chi requires all middleware to be registered before any routes.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.Middleware(d.log))
	r.Use(recoverJSON(d.log))
	r.Use(d.metrics.InstrumentHandler)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteError(w, r, apperror.NewNotFoundError("The requested URL was not found on the server.", nil))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusMethodNotAllowed, apperror.ErrorResponse{Message: "The method is not allowed for the requested URL."})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Method(http.MethodGet, "/metrics", d.metrics.Handler())
	r.Get("/healthz", healthHandler(d.health))

	access := auth.JWTMiddleware(d.tokens, d.blocklist)

	d.auth.RegisterRoutes(r)
	d.users.RegisterRoutes(r, auth.JWTMiddleware(d.tokens, d.blocklist, auth.Admin()))
	d.catalog.RegisterRoutes(r, catalog.Guards{
		Access: access,
		Fresh:  auth.JWTMiddleware(d.tokens, d.blocklist, auth.Fresh()),
		Admin:  auth.JWTMiddleware(d.tokens, d.blocklist, auth.Admin()),
	})

	return r
}

// recoverJSON turns a handler panic into a 500 in the usual error format.
func recoverJSON(fallback logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}
					logging.FromContext(r.Context(), fallback).
						WithField("panic", fmt.Sprintf("%v", rvr)).
						Error("handler panicked")
					httpx.WriteError(w, r, apperror.NewInternalError("An unexpected error occurred.", nil))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Status: "ok", Checks: make(map[string]string, len(checks))}
		status := http.StatusOK
		for name, check := range checks {
			if err := check(ctx); err != nil {
				logging.FromContext(r.Context(), logrus.StandardLogger()).
					WithError(err).WithField("check", name).Warn("health check failed")
				resp.Checks[name] = "unavailable"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		httpx.WriteJSON(w, status, resp)
	}
}
