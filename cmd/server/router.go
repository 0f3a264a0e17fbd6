package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/g-celente/case-watch-back/internal/api"
	apiMiddleware "github.com/g-celente/case-watch-back/internal/api/middleware"
)

// setupRouter builds the chi router with all middleware and routes.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)
	r.Use(apiMiddleware.RateLimiter(app.config.RateLimit.RequestsPerMinute))

	accessTokenTTL := time.Duration(app.config.Auth.TokenLifetimeMinutes) * time.Minute
	authHandler := api.NewAuthHandler(
		app.userService,
		app.jwtService,
		app.passwordVerifier,
		accessTokenTTL,
		app.logger,
	)
	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	categoryHandler := api.NewCategoryHandler(app.categoryService, app.logger)
	userHandler := api.NewUserHandler(app.userService, app.logger)
	reportHandler := api.NewReportHandler(app.reportService, app.logger)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	authRateLimit := apiMiddleware.AuthRateLimiter(app.config.RateLimit.AuthAttempts)

	r.Route("/api", func(r chi.Router) {
		// Public authentication endpoints, throttled harder than the
		// rest of the API.
		r.Group(func(r chi.Router) {
			r.Use(authRateLimit)
			r.Post("/auth/register", authHandler.Register)
			r.Post("/auth/login", authHandler.Login)
		})
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Everything below requires a valid access token.
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/auth/profile", authHandler.Profile)

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", taskHandler.List)
				r.Post("/", taskHandler.Create)
				r.Get("/my", taskHandler.My)
				r.Get("/search", taskHandler.Search)
				r.Get("/stats", taskHandler.Stats)
				r.Get("/overdue", taskHandler.Overdue)
				r.Get("/status/{status}", taskHandler.ByStatus)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", taskHandler.Get)
					r.Put("/", taskHandler.Update)
					r.Delete("/", taskHandler.Delete)
					r.Post("/assign", taskHandler.Assign)
					r.Post("/unassign", taskHandler.Unassign)
					r.Post("/collaborate", taskHandler.Collaborate)
					r.Delete("/collaborate", taskHandler.RemoveCollaborator)
					r.Patch("/status", taskHandler.UpdateStatus)
					r.Patch("/priority", taskHandler.UpdatePriority)
				})
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", categoryHandler.List)
				r.Post("/", categoryHandler.Create)
				r.Get("/my", categoryHandler.My)
				r.Get("/search", categoryHandler.Search)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", categoryHandler.Get)
					r.Put("/", categoryHandler.Update)
					r.Delete("/", categoryHandler.Delete)
					r.Get("/stats", categoryHandler.Stats)
				})
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", userHandler.List)
				r.Get("/{id}", userHandler.Get)
				r.Put("/{id}", userHandler.Update)
				r.Delete("/{id}", userHandler.Delete)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/dashboard", reportHandler.Dashboard)
				r.Get("/tasks-by-status", reportHandler.TasksByStatus)
				r.Get("/tasks-by-category", reportHandler.TasksByCategory)
				r.Get("/user-performance", reportHandler.UserPerformance)
				r.Get("/productivity", reportHandler.Productivity)
				r.Get("/productivity/weekly", reportHandler.WeeklyProductivity)
				r.Get("/productivity/monthly", reportHandler.MonthlyProductivity)
				r.Get("/collaboration", reportHandler.Collaboration)
				r.Get("/overview/tasks", reportHandler.TasksByStatus)
				r.Get("/overview/categories", reportHandler.TasksByCategory)
				r.Get("/overview/performance", reportHandler.UserPerformance)
				r.Post("/custom", reportHandler.Custom)
			})
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
