package telemetry

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Store keeps run history (window stats and events) in SQLite.
type Store struct {
	conn *sqlx.DB
}

// Run describes one simulation run in the store.
type Run struct {
	ID         int64   `db:"id"`
	Seed       int64   `db:"seed"`
	Climate    string  `db:"climate"`
	Width      int     `db:"width"`
	Height     int     `db:"height"`
	StartedAt  int64   `db:"started_at"` // Unix seconds
	Ticks      int     `db:"ticks"`
	FinalMoney float64 `db:"final_money"`
}

// OpenStore opens or creates a SQLite database at the given path.
func OpenStore(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	conn.SetMaxOpenConns(1)

	st := &Store{conn: conn}
	if err := st.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return st, nil
}

// Close closes the database connection.
func (st *Store) Close() error {
	if st == nil {
		return nil
	}
	return st.conn.Close()
}

func (st *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		seed INTEGER NOT NULL,
		climate TEXT NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		started_at INTEGER NOT NULL,
		ticks INTEGER NOT NULL DEFAULT 0,
		final_money REAL NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS windows (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id),
		window_start INTEGER NOT NULL,
		window_end INTEGER NOT NULL,
		sim_minutes REAL NOT NULL,
		days REAL NOT NULL,
		plants INTEGER NOT NULL,
		structures INTEGER NOT NULL,
		pest_cells INTEGER NOT NULL,
		weed_cells INTEGER NOT NULL,
		planted INTEGER NOT NULL,
		harvests INTEGER NOT NULL,
		deaths INTEGER NOT NULL,
		removals INTEGER NOT NULL,
		pest_spawns INTEGER NOT NULL,
		pest_removals INTEGER NOT NULL,
		weed_spreads INTEGER NOT NULL,
		yield REAL NOT NULL,
		revenue REAL NOT NULL,
		money REAL NOT NULL,
		evaporation REAL NOT NULL,
		temperature REAL NOT NULL,
		humidity REAL NOT NULL,
		attraction REAL NOT NULL,
		moisture_mean REAL NOT NULL,
		moisture_p10 REAL NOT NULL,
		moisture_p90 REAL NOT NULL,
		nutrition_mean REAL NOT NULL,
		condition_mean REAL NOT NULL,
		condition_std REAL NOT NULL,
		microbes_mean REAL NOT NULL,
		plant_size_mean REAL NOT NULL,
		plant_size_p50 REAL NOT NULL,
		plant_energy_mean REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id),
		event TEXT NOT NULL,
		tick INTEGER NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		plant_id TEXT NOT NULL,
		subject TEXT NOT NULL,
		detail TEXT NOT NULL,
		level INTEGER NOT NULL,
		amount REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_windows_run ON windows(run_id);
	CREATE INDEX IF NOT EXISTS idx_events_run_tick ON events(run_id, tick);
	`
	_, err := st.conn.Exec(schema)
	return err
}

// BeginRun records a new run and returns its id.
func (st *Store) BeginRun(seed int64, climate string, width, height int) (int64, error) {
	res, err := st.conn.Exec(
		"INSERT INTO runs (seed, climate, width, height, started_at) VALUES (?, ?, ?, ?, ?)",
		seed, climate, width, height, time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	return res.LastInsertId()
}

// EndRun stores the final tick count and money of a run.
func (st *Store) EndRun(runID int64, ticks int, money float64) error {
	_, err := st.conn.Exec("UPDATE runs SET ticks = ?, final_money = ? WHERE id = ?", ticks, money, runID)
	return err
}

type windowRow struct {
	RunID int64 `db:"run_id"`
	WindowStats
}

// SaveWindow stores one window of stats for a run.
func (st *Store) SaveWindow(runID int64, stats WindowStats) error {
	_, err := st.conn.NamedExec(`INSERT INTO windows
		(run_id, window_start, window_end, sim_minutes, days,
		 plants, structures, pest_cells, weed_cells,
		 planted, harvests, deaths, removals, pest_spawns, pest_removals, weed_spreads,
		 yield, revenue, money, evaporation, temperature, humidity, attraction,
		 moisture_mean, moisture_p10, moisture_p90, nutrition_mean, condition_mean, condition_std,
		 microbes_mean, plant_size_mean, plant_size_p50, plant_energy_mean)
		VALUES
		(:run_id, :window_start, :window_end, :sim_minutes, :days,
		 :plants, :structures, :pest_cells, :weed_cells,
		 :planted, :harvests, :deaths, :removals, :pest_spawns, :pest_removals, :weed_spreads,
		 :yield, :revenue, :money, :evaporation, :temperature, :humidity, :attraction,
		 :moisture_mean, :moisture_p10, :moisture_p90, :nutrition_mean, :condition_mean, :condition_std,
		 :microbes_mean, :plant_size_mean, :plant_size_p50, :plant_energy_mean)`,
		windowRow{RunID: runID, WindowStats: stats})
	if err != nil {
		return fmt.Errorf("insert window: %w", err)
	}
	return nil
}

// SaveEvents stores events for a run in one transaction.
func (st *Store) SaveEvents(runID int64, events []Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := st.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT INTO events
		(run_id, event, tick, x, y, plant_id, subject, detail, level, amount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, ev := range events {
		if _, err := stmt.Exec(runID, ev.Name, ev.Tick, ev.X, ev.Y, ev.PlantID, ev.Subject, ev.Detail, ev.Level, ev.Amount); err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
	}
	return tx.Commit()
}

// Runs lists stored runs, newest first.
func (st *Store) Runs(limit int) ([]Run, error) {
	var runs []Run
	err := st.conn.Select(&runs,
		"SELECT id, seed, climate, width, height, started_at, ticks, final_money FROM runs ORDER BY id DESC LIMIT ?", limit)
	return runs, err
}

// Windows returns the window stats of a run in tick order.
func (st *Store) Windows(runID int64) ([]WindowStats, error) {
	var out []WindowStats
	err := st.conn.Select(&out, `SELECT
		window_start, window_end, sim_minutes, days,
		plants, structures, pest_cells, weed_cells,
		planted, harvests, deaths, removals, pest_spawns, pest_removals, weed_spreads,
		yield, revenue, money, evaporation, temperature, humidity, attraction,
		moisture_mean, moisture_p10, moisture_p90, nutrition_mean, condition_mean, condition_std,
		microbes_mean, plant_size_mean, plant_size_p50, plant_energy_mean
		FROM windows WHERE run_id = ? ORDER BY window_end`, runID)
	return out, err
}

// Events returns the events of one type for a run in tick order.
func (st *Store) Events(runID int64, t EventType) ([]Event, error) {
	var out []Event
	err := st.conn.Select(&out,
		`SELECT event, tick, x, y, plant_id, subject, detail, level, amount
		FROM events WHERE run_id = ? AND event = ? ORDER BY id`, runID, t.String())
	for i := range out {
		out[i].Type = t
	}
	return out, err
}
