package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/g-celente/case-watch-back/internal/config"
	"github.com/g-celente/case-watch-back/internal/platform/postgres"
	"github.com/g-celente/case-watch-back/internal/service"
	"github.com/g-celente/case-watch-back/internal/service/auth"
	"github.com/g-celente/case-watch-back/internal/store"
)

// application holds the shared application dependencies so wiring happens
// in one place and cleanup can close everything on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore     store.UserStore
	taskStore     store.TaskStore
	categoryStore store.CategoryStore

	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier

	userService     service.UserService
	taskService     service.TaskService
	categoryService service.CategoryService
	reportService   service.ReportService
}

// newApplication wires stores and services on top of the given database
// connection. Construction is side-effect free apart from logging; nothing
// starts listening until Run.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = postgres.NewPostgresUserStore(db, logger, bcrypt.DefaultCost)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)
	app.categoryStore = postgres.NewPostgresCategoryStore(db, logger)

	app.userService = service.NewUserService(app.userStore, db, logger)
	app.taskService = service.NewTaskService(app.taskStore, app.categoryStore, app.userStore, db, logger)
	app.categoryService = service.NewCategoryService(app.categoryStore, logger)
	app.reportService = service.NewReportService(app.taskStore, app.categoryStore, app.userStore, logger)

	logger.Info("application initialized")
	return app, nil
}

// Run starts the HTTP server and blocks until shutdown.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()
	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases application resources during shutdown.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}
	app.logger.Info("application shutdown completed")
}
