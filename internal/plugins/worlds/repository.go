package worlds

import (
	"context"
	"database/sql"
)

// WorldRepository defines persistence operations for worlds.
type WorldRepository interface {
	Create(ctx context.Context, w *World) error
	GetByID(ctx context.Context, id string) (*World, error)
	List(ctx context.Context) ([]World, error)
	Update(ctx context.Context, w *World) error
	UpdateWorldTime(ctx context.Context, id string, worldTime int64) error
	Delete(ctx context.Context, id string) error
}

// worldRepo is the MariaDB implementation of WorldRepository.
type worldRepo struct {
	db *sql.DB
}

// NewWorldRepository creates a new MariaDB-backed world repository.
func NewWorldRepository(db *sql.DB) WorldRepository {
	return &worldRepo{db: db}
}

// worldCols is the column list for world queries.
const worldCols = `id, name, calendar_name, world_creation, world_time, created_at, updated_at`

// scanWorld reads a row into a World struct.
func scanWorld(scanner interface{ Scan(...any) error }) (*World, error) {
	w := &World{}
	var creation sql.NullInt64
	err := scanner.Scan(&w.ID, &w.Name, &w.CalendarName, &creation,
		&w.WorldTime, &w.CreatedAt, &w.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if creation.Valid {
		w.WorldCreation = &creation.Int64
	}
	return w, err
}

// Create inserts a new world.
func (r *worldRepo) Create(ctx context.Context, w *World) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO worlds (id, name, calendar_name, world_creation, world_time)
		 VALUES (?, ?, ?, ?, ?)`,
		w.ID, w.Name, w.CalendarName, nullableInt64(w.WorldCreation), w.WorldTime,
	)
	return err
}

// GetByID returns a world by its ID, or nil when absent.
func (r *worldRepo) GetByID(ctx context.Context, id string) (*World, error) {
	return scanWorld(r.db.QueryRowContext(ctx,
		`SELECT `+worldCols+` FROM worlds WHERE id = ?`, id))
}

// List returns all worlds ordered by creation time.
func (r *worldRepo) List(ctx context.Context) ([]World, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+worldCols+` FROM worlds ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var worlds []World
	for rows.Next() {
		w, err := scanWorld(rows)
		if err != nil {
			return nil, err
		}
		worlds = append(worlds, *w)
	}
	return worlds, rows.Err()
}

// Update modifies a world's settings.
func (r *worldRepo) Update(ctx context.Context, w *World) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE worlds SET name = ?, calendar_name = ?, world_creation = ? WHERE id = ?`,
		w.Name, w.CalendarName, nullableInt64(w.WorldCreation), w.ID,
	)
	return err
}

// UpdateWorldTime persists the clock snapshot.
func (r *worldRepo) UpdateWorldTime(ctx context.Context, id string, worldTime int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE worlds SET world_time = ? WHERE id = ?`, worldTime, id)
	return err
}

// Delete removes a world.
func (r *worldRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM worlds WHERE id = ?`, id)
	return err
}

func nullableInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}
