package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/estate-api/internal/api"
	apiMiddleware "github.com/phrazzld/estate-api/internal/api/middleware"
)

// setupRouter registers the middleware chain and all routes.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	authHandler := api.NewAuthHandler(
		app.authenticator,
		app.jwtService,
		time.Duration(app.config.Auth.TokenLifetimeMinutes)*time.Minute,
	)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	propertyHandler := api.NewPropertyHandler(app.propertyService, app.contentService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/token", authHandler.IssueToken)

		r.Get("/properties", propertyHandler.ListProperties)
		r.Get("/properties/map", propertyHandler.MapProperties)
		r.Get("/properties/{id}", propertyHandler.GetProperty)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Post("/properties", propertyHandler.CreateProperty)
			r.Post("/categories", propertyHandler.CreateCategory)
			r.Post("/properties/{id}/content", propertyHandler.RegenerateContent)
			r.Post("/properties/{id}/content/jobs", propertyHandler.EnqueueContentJob)
		})
	})

	var db api.HealthChecker
	if app.db != nil {
		db = app.db
	}
	r.Get("/health", api.HealthHandler(db))

	return r
}
