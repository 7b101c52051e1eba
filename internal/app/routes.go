package app

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rayners/fvtt-seasons-and-stars-sub001/internal/plugins/worlds"
)

// RegisterRoutes wires every plugin's repositories, services, and
// handlers, then registers their routes on the Echo instance.
func (a *App) RegisterRoutes() {
	// Health check for container orchestration.
	a.Echo.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Worlds plugin: world CRUD, clock, and moon queries.
	worldRepo := worlds.NewWorldRepository(a.DB)
	clockStore := worlds.NewClockStore(a.Redis)
	worldSvc := worlds.NewWorldService(worldRepo, clockStore, a.Calendars)
	worlds.RegisterRoutes(a.Echo, worlds.NewHandler(worldSvc))
}
