package worlds

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rayners/fvtt-seasons-and-stars-sub001/internal/apperror"
	"github.com/rayners/fvtt-seasons-and-stars-sub001/internal/calendar"
	"github.com/rayners/fvtt-seasons-and-stars-sub001/internal/loader"
)

// WorldService defines business logic for worlds and their clocks.
type WorldService interface {
	// World CRUD.
	CreateWorld(ctx context.Context, input CreateWorldInput) (*World, error)
	GetWorld(ctx context.Context, id string) (*World, error)
	ListWorlds(ctx context.Context) ([]World, error)
	UpdateWorld(ctx context.Context, id string, input UpdateWorldInput) (*World, error)
	DeleteWorld(ctx context.Context, id string) error

	// Clock queries and mutations.
	CurrentDate(ctx context.Context, worldID string) (*DateResponse, error)
	DateAt(ctx context.Context, worldID string, worldTime int64) (*DateResponse, error)
	Advance(ctx context.Context, worldID string, seconds int64) (*DateResponse, error)
	SetDate(ctx context.Context, worldID string, input SetDateInput) (*DateResponse, error)

	// Moon queries.
	Moons(ctx context.Context, worldID string) ([]calendar.Moon, error)
	MoonPhases(ctx context.Context, worldID string, at *int64, names ...string) ([]calendar.MoonPhaseInfo, error)

	// Calendars returns the names of the loaded calendar definitions.
	Calendars() []string
}

// worldService is the default WorldService implementation.
type worldService struct {
	repo     WorldRepository
	clock    ClockStore
	registry *loader.Registry
}

// NewWorldService creates a WorldService over the given repository,
// clock store, and calendar registry.
func NewWorldService(repo WorldRepository, clock ClockStore, registry *loader.Registry) WorldService {
	return &worldService{repo: repo, clock: clock, registry: registry}
}

// DefaultCalendar is assigned to worlds created without an explicit
// calendar selection.
const DefaultCalendar = "gregorian"

// CreateWorld creates a new world with its clock at zero.
func (s *worldService) CreateWorld(ctx context.Context, input CreateWorldInput) (*World, error) {
	if input.Name == "" {
		return nil, apperror.NewValidation("world name is required")
	}
	if input.CalendarName == "" {
		input.CalendarName = DefaultCalendar
	}
	if _, ok := s.registry.Engine(input.CalendarName); !ok {
		return nil, apperror.NewValidation(fmt.Sprintf("unknown calendar %q", input.CalendarName))
	}

	w := &World{
		ID:            uuid.NewString(),
		Name:          input.Name,
		CalendarName:  input.CalendarName,
		WorldCreation: input.WorldCreation,
	}
	if err := s.repo.Create(ctx, w); err != nil {
		return nil, fmt.Errorf("create world: %w", err)
	}
	if err := s.clock.Set(ctx, w.ID, 0); err != nil {
		return nil, fmt.Errorf("seed world clock: %w", err)
	}
	return w, nil
}

// GetWorld returns a world by ID.
func (s *worldService) GetWorld(ctx context.Context, id string) (*World, error) {
	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get world: %w", err)
	}
	if w == nil {
		return nil, apperror.NewNotFound("world not found")
	}
	return w, nil
}

// ListWorlds returns all worlds.
func (s *worldService) ListWorlds(ctx context.Context) ([]World, error) {
	return s.repo.List(ctx)
}

// UpdateWorld updates a world's name, calendar, and creation anchor.
// Switching calendars swaps the world onto another engine wholesale; the
// old engine instance is simply no longer consulted for this world.
func (s *worldService) UpdateWorld(ctx context.Context, id string, input UpdateWorldInput) (*World, error) {
	w, err := s.GetWorld(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, apperror.NewValidation("world name is required")
	}
	if input.CalendarName == "" {
		input.CalendarName = w.CalendarName
	}
	if _, ok := s.registry.Engine(input.CalendarName); !ok {
		return nil, apperror.NewValidation(fmt.Sprintf("unknown calendar %q", input.CalendarName))
	}

	w.Name = input.Name
	w.CalendarName = input.CalendarName
	w.WorldCreation = input.WorldCreation

	if err := s.repo.Update(ctx, w); err != nil {
		return nil, fmt.Errorf("update world: %w", err)
	}
	return w, nil
}

// DeleteWorld removes a world and drops its live clock.
func (s *worldService) DeleteWorld(ctx context.Context, id string) error {
	if _, err := s.GetWorld(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete world: %w", err)
	}
	return s.clock.Forget(ctx, id)
}

// engineFor resolves the calendar engine a world is configured to use.
func (s *worldService) engineFor(w *World) (*calendar.Engine, error) {
	eng, ok := s.registry.Engine(w.CalendarName)
	if !ok {
		return nil, apperror.NewConflict(fmt.Sprintf("calendar %q is no longer loaded", w.CalendarName))
	}
	return eng, nil
}

// worldTime returns a world's live counter, seeding the clock store from
// the persisted snapshot on a miss (cold cache, restarted Redis).
func (s *worldService) worldTime(ctx context.Context, w *World) (int64, error) {
	t, ok, err := s.clock.Current(ctx, w.ID)
	if err != nil {
		return 0, err
	}
	if ok {
		return t, nil
	}
	if err := s.clock.Set(ctx, w.ID, w.WorldTime); err != nil {
		return 0, err
	}
	return w.WorldTime, nil
}

// resolve converts a worldTime into a DateResponse using the world's
// engine and anchor.
func (s *worldService) resolve(w *World, eng *calendar.Engine, worldTime int64) *DateResponse {
	var date calendar.ResolvedDate
	if w.WorldCreation != nil {
		date = eng.WorldTimeToDateAnchored(worldTime, *w.WorldCreation)
	} else {
		date = eng.WorldTimeToDate(worldTime)
	}
	return &DateResponse{
		Calendar:    w.CalendarName,
		WorldTime:   worldTime,
		Date:        date,
		MonthName:   s.monthLabel(eng, date),
		WeekdayName: eng.WeekdayName(date.Weekday),
	}
}

// monthLabel names the month slot of a date; intercalary days show the
// block's own name instead of a month.
func (s *worldService) monthLabel(eng *calendar.Engine, d calendar.ResolvedDate) string {
	if d.Intercalary {
		return d.IntercalaryName
	}
	return eng.MonthName(d.Month)
}

// CurrentDate resolves a world's clock into a structured date.
func (s *worldService) CurrentDate(ctx context.Context, worldID string) (*DateResponse, error) {
	w, err := s.GetWorld(ctx, worldID)
	if err != nil {
		return nil, err
	}
	eng, err := s.engineFor(w)
	if err != nil {
		return nil, err
	}
	t, err := s.worldTime(ctx, w)
	if err != nil {
		return nil, err
	}
	return s.resolve(w, eng, t), nil
}

// DateAt resolves an arbitrary worldTime for a world without touching
// its clock. Renderers use it for previews and scrubbing.
func (s *worldService) DateAt(ctx context.Context, worldID string, worldTime int64) (*DateResponse, error) {
	w, err := s.GetWorld(ctx, worldID)
	if err != nil {
		return nil, err
	}
	eng, err := s.engineFor(w)
	if err != nil {
		return nil, err
	}
	return s.resolve(w, eng, worldTime), nil
}

// Advance moves a world's clock by the given number of seconds (negative
// rewinds) and returns the new date. The snapshot is written back so the
// value survives a Redis flush.
func (s *worldService) Advance(ctx context.Context, worldID string, seconds int64) (*DateResponse, error) {
	w, err := s.GetWorld(ctx, worldID)
	if err != nil {
		return nil, err
	}
	eng, err := s.engineFor(w)
	if err != nil {
		return nil, err
	}
	// Ensure the live counter exists before the atomic increment.
	if _, err := s.worldTime(ctx, w); err != nil {
		return nil, err
	}
	t, err := s.clock.Advance(ctx, worldID, seconds)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateWorldTime(ctx, worldID, t); err != nil {
		return nil, fmt.Errorf("persist world time: %w", err)
	}
	return s.resolve(w, eng, t), nil
}

// SetDate moves a world's clock to a specific calendar date via the
// inverse conversion.
func (s *worldService) SetDate(ctx context.Context, worldID string, input SetDateInput) (*DateResponse, error) {
	w, err := s.GetWorld(ctx, worldID)
	if err != nil {
		return nil, err
	}
	eng, err := s.engineFor(w)
	if err != nil {
		return nil, err
	}
	if input.Month < 1 || input.Day < 1 ||
		input.Day > eng.MonthLength(input.Year, input.Month) {
		return nil, apperror.NewValidation("date does not exist in this calendar")
	}

	d := calendar.ResolvedDate{Year: input.Year, Month: input.Month, Day: input.Day}
	if input.Time != nil {
		d.Time = *input.Time
	}
	var t int64
	if w.WorldCreation != nil {
		t = eng.DateToWorldTimeAnchored(d, *w.WorldCreation)
	} else {
		t = eng.DateToWorldTime(d)
	}
	if err := s.clock.Set(ctx, worldID, t); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateWorldTime(ctx, worldID, t); err != nil {
		return nil, fmt.Errorf("persist world time: %w", err)
	}
	return s.resolve(w, eng, t), nil
}

// Moons returns the declared moons of a world's calendar.
func (s *worldService) Moons(ctx context.Context, worldID string) ([]calendar.Moon, error) {
	w, err := s.GetWorld(ctx, worldID)
	if err != nil {
		return nil, err
	}
	eng, err := s.engineFor(w)
	if err != nil {
		return nil, err
	}
	return eng.Moons(), nil
}

// MoonPhases resolves moon phases at the world's current clock, or at an
// explicit worldTime when at is non-nil. names filters to specific moons.
func (s *worldService) MoonPhases(ctx context.Context, worldID string, at *int64, names ...string) ([]calendar.MoonPhaseInfo, error) {
	w, err := s.GetWorld(ctx, worldID)
	if err != nil {
		return nil, err
	}
	eng, err := s.engineFor(w)
	if err != nil {
		return nil, err
	}
	var t int64
	if at != nil {
		t = *at
	} else {
		if t, err = s.worldTime(ctx, w); err != nil {
			return nil, err
		}
	}
	return eng.MoonPhases(s.resolve(w, eng, t).Date, names...), nil
}

// Calendars returns the loaded calendar names.
func (s *worldService) Calendars() []string {
	return s.registry.Names()
}
