// Package app is the application bootstrap and dependency injection
// root. It creates and holds all shared infrastructure (DB pool, Redis
// client, calendar registry, Echo instance) and wires the plugins
// together.
package app

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/rayners/fvtt-seasons-and-stars-sub001/internal/apperror"
	"github.com/rayners/fvtt-seasons-and-stars-sub001/internal/config"
	"github.com/rayners/fvtt-seasons-and-stars-sub001/internal/loader"
	"github.com/rayners/fvtt-seasons-and-stars-sub001/internal/middleware"
)

// App holds all shared dependencies and the Echo HTTP server instance.
// Created once at startup in main.go and used to register all routes.
type App struct {
	// Config holds the loaded application configuration.
	Config *config.Config

	// DB is the MariaDB connection pool.
	DB *sql.DB

	// Redis is the Redis client backing the world clock store.
	Redis *redis.Client

	// Calendars is the registry of loaded calendar engines.
	Calendars *loader.Registry

	// Echo is the HTTP server instance.
	Echo *echo.Echo
}

// New creates a new App instance with the given dependencies and
// configures the Echo server with global middleware and error handling.
func New(cfg *config.Config, db *sql.DB, rdb *redis.Client, registry *loader.Registry) *App {
	e := echo.New()

	// Disable Echo's default banner and startup message -- we log our own.
	e.HideBanner = true
	e.HidePort = true

	app := &App{
		Config:    cfg,
		DB:        db,
		Redis:     rdb,
		Calendars: registry,
		Echo:      e,
	}

	// Global middleware in order of execution: recovery must be
	// outermost to catch panics from everything else.
	e.Use(middleware.Recovery())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: []string{cfg.BaseURL, "*"},
	}))

	// Custom error handler maps AppErrors to JSON responses.
	e.HTTPErrorHandler = app.errorHandler

	return app
}

// errorHandler is the custom Echo error handler. Domain errors
// (AppError) map to their status and safe message; everything else is a
// generic 500 with the real error logged server-side only.
func (a *App) errorHandler(err error, c echo.Context) {
	// Don't double-write if response is already committed.
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	payload := map[string]string{
		"type":    "internal_error",
		"message": "An unexpected error occurred",
	}

	var appErr *apperror.AppError
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &appErr):
		code = appErr.Code
		payload["type"] = appErr.Type
		payload["message"] = appErr.Message
		if appErr.Internal != nil {
			slog.Error("request failed",
				slog.String("type", appErr.Type),
				slog.Any("error", appErr.Internal),
			)
		}
	case errors.As(err, &httpErr):
		code = httpErr.Code
		payload["type"] = http.StatusText(code)
		payload["message"] = fmt.Sprintf("%v", httpErr.Message)
	default:
		slog.Error("unhandled error", slog.Any("error", err))
	}

	if writeErr := c.JSON(code, payload); writeErr != nil {
		slog.Error("writing error response", slog.Any("error", writeErr))
	}
}

// Start begins listening on the configured port. Blocks until the server
// stops.
func (a *App) Start() error {
	return a.Echo.Start(fmt.Sprintf(":%d", a.Config.Port))
}
