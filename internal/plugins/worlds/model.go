// Package worlds manages game worlds and their clocks. Each world holds
// a linear worldTime second counter and references one calendar
// definition by name; the calendar engine turns the counter into dates
// and moon phases on demand. The live counter sits in Redis for cheap
// atomic advancement, with a MariaDB snapshot as the durable copy.
package worlds

import (
	"time"

	"github.com/rayners/fvtt-seasons-and-stars-sub001/internal/calendar"
)

// World is one game world with its own clock and calendar selection.
type World struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	CalendarName string `json:"calendar_name"`

	// WorldCreation is the host's world-creation timestamp in seconds.
	// When set, it anchors the year-offset worldTime interpretation so
	// this service reproduces the host's own date calculation exactly.
	// Nil means the calendar's configured default anchor applies.
	WorldCreation *int64 `json:"world_creation,omitempty"`

	// WorldTime is the persisted snapshot of the world's clock. The
	// live value lives in Redis; this is the durable fallback.
	WorldTime int64 `json:"world_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateWorldInput is the validated input for creating a world.
type CreateWorldInput struct {
	Name          string `json:"name"`
	CalendarName  string `json:"calendar_name"`
	WorldCreation *int64 `json:"world_creation,omitempty"`
}

// UpdateWorldInput is the validated input for updating a world. Changing
// CalendarName swaps the world onto another engine wholesale; clock
// state is untouched.
type UpdateWorldInput struct {
	Name          string `json:"name"`
	CalendarName  string `json:"calendar_name"`
	WorldCreation *int64 `json:"world_creation,omitempty"`
}

// DateResponse is the display form of one resolved instant, with names
// pre-resolved so renderers don't need the definition.
type DateResponse struct {
	Calendar    string                `json:"calendar"`
	WorldTime   int64                 `json:"world_time"`
	Date        calendar.ResolvedDate `json:"date"`
	MonthName   string                `json:"month_name"`
	WeekdayName string                `json:"weekday_name"`
}

// SetDateInput selects a calendar date (and optional time of day) to
// move a world's clock to.
type SetDateInput struct {
	Year  int                `json:"year"`
	Month int                `json:"month"`
	Day   int                `json:"day"`
	Time  *calendar.TimeOfDay `json:"time,omitempty"`
}
