package worlds

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all world-related routes under /api/v1.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	api := e.Group("/api/v1")

	api.GET("/calendars", h.ListCalendars)

	api.POST("/worlds", h.CreateWorld)
	api.GET("/worlds", h.ListWorlds)
	api.GET("/worlds/:id", h.GetWorld)
	api.PUT("/worlds/:id", h.UpdateWorld)
	api.DELETE("/worlds/:id", h.DeleteWorld)

	// Clock: read resolves the live counter, advance ticks it, set jumps
	// to a calendar date via the inverse conversion.
	api.GET("/worlds/:id/date", h.GetDate)
	api.POST("/worlds/:id/advance", h.Advance)
	api.PUT("/worlds/:id/date", h.SetDate)

	// Moons.
	api.GET("/worlds/:id/moons", h.GetMoons)
	api.GET("/worlds/:id/moons/phases", h.GetMoonPhases)
}
