package worlds

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rayners/fvtt-seasons-and-stars-sub001/internal/apperror"
)

// Handler processes HTTP requests for the worlds plugin. All endpoints
// speak JSON; errors are mapped centrally by the app error handler.
type Handler struct {
	svc WorldService
}

// NewHandler creates a new worlds Handler.
func NewHandler(svc WorldService) *Handler {
	return &Handler{svc: svc}
}

// CreateWorld creates a new world.
// POST /api/v1/worlds
func (h *Handler) CreateWorld(c echo.Context) error {
	var input CreateWorldInput
	if err := c.Bind(&input); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	w, err := h.svc.CreateWorld(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, w)
}

// ListWorlds returns all worlds.
// GET /api/v1/worlds
func (h *Handler) ListWorlds(c echo.Context) error {
	worlds, err := h.svc.ListWorlds(c.Request().Context())
	if err != nil {
		return err
	}
	if worlds == nil {
		worlds = []World{}
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data":  worlds,
		"total": len(worlds),
	})
}

// GetWorld returns one world.
// GET /api/v1/worlds/:id
func (h *Handler) GetWorld(c echo.Context) error {
	w, err := h.svc.GetWorld(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, w)
}

// UpdateWorld updates a world's settings.
// PUT /api/v1/worlds/:id
func (h *Handler) UpdateWorld(c echo.Context) error {
	var input UpdateWorldInput
	if err := c.Bind(&input); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	w, err := h.svc.UpdateWorld(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, w)
}

// DeleteWorld removes a world.
// DELETE /api/v1/worlds/:id
func (h *Handler) DeleteWorld(c echo.Context) error {
	if err := h.svc.DeleteWorld(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// GetDate resolves a world's clock into a date. With ?at=SECONDS the
// given worldTime is resolved instead of the live clock.
// GET /api/v1/worlds/:id/date
func (h *Handler) GetDate(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	if q := c.QueryParam("at"); q != "" {
		at, err := strconv.ParseInt(q, 10, 64)
		if err != nil {
			return apperror.NewBadRequest("at must be an integer second count")
		}
		resp, err := h.svc.DateAt(ctx, id, at)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, resp)
	}

	resp, err := h.svc.CurrentDate(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// advanceRequest is the JSON body for advancing a world's clock.
type advanceRequest struct {
	Seconds int64 `json:"seconds"`
}

// Advance moves a world's clock forward (or backward) by seconds.
// POST /api/v1/worlds/:id/advance
func (h *Handler) Advance(c echo.Context) error {
	var req advanceRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	resp, err := h.svc.Advance(c.Request().Context(), c.Param("id"), req.Seconds)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// SetDate moves a world's clock to a specific date.
// PUT /api/v1/worlds/:id/date
func (h *Handler) SetDate(c echo.Context) error {
	var input SetDateInput
	if err := c.Bind(&input); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	resp, err := h.svc.SetDate(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// GetMoons returns the declared moons of a world's calendar.
// GET /api/v1/worlds/:id/moons
func (h *Handler) GetMoons(c echo.Context) error {
	moons, err := h.svc.Moons(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data":  moons,
		"total": len(moons),
	})
}

// GetMoonPhases resolves moon phases at the world's current clock.
// Optional ?at=SECONDS resolves a different instant; ?name= repeats to
// filter specific moons.
// GET /api/v1/worlds/:id/moons/phases
func (h *Handler) GetMoonPhases(c echo.Context) error {
	var at *int64
	if q := c.QueryParam("at"); q != "" {
		v, err := strconv.ParseInt(q, 10, 64)
		if err != nil {
			return apperror.NewBadRequest("at must be an integer second count")
		}
		at = &v
	}
	names := c.QueryParams()["name"]

	infos, err := h.svc.MoonPhases(c.Request().Context(), c.Param("id"), at, names...)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data":  infos,
		"total": len(infos),
	})
}

// ListCalendars returns the loaded calendar names.
// GET /api/v1/calendars
func (h *Handler) ListCalendars(c echo.Context) error {
	names := h.svc.Calendars()
	return c.JSON(http.StatusOK, map[string]any{
		"data":  names,
		"total": len(names),
	})
}
