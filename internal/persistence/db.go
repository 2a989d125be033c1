// Package persistence provides SQLite-backed storage for kingdom
// state and the event feed. The engines never touch it; only the
// orchestrator and the API read or write here.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/berrik/realmwar/internal/kingdom"
	"github.com/berrik/realmwar/internal/orchestrator"
	"github.com/berrik/realmwar/internal/rules"
)

// ErrNotFound indicates the requested kingdom does not exist.
var ErrNotFound = errors.New("kingdom not found")

// DB wraps a SQLite connection.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kingdoms (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		race INTEGER NOT NULL,
		gold INTEGER NOT NULL,
		population INTEGER NOT NULL,
		land INTEGER NOT NULL,
		turns INTEGER NOT NULL,
		army_json TEXT NOT NULL,
		forts INTEGER NOT NULL,
		structures INTEGER NOT NULL,
		quarry_pct REAL NOT NULL,
		scum_count INTEGER NOT NULL,
		scum_tier INTEGER NOT NULL,
		alignment INTEGER NOT NULL,
		faith_points INTEGER NOT NULL,
		focus_json TEXT NOT NULL,
		ambush_active INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		turn INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS game_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_turn ON events(turn);
	CREATE INDEX IF NOT EXISTS idx_kingdoms_land ON kingdoms(land);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// kingdomRow is the flat row shape for the kingdoms table. Army and
// focus state serialize as JSON blobs; their layout is an engine
// concern, not a schema one.
type kingdomRow struct {
	ID           string  `db:"id"`
	Name         string  `db:"name"`
	Race         int     `db:"race"`
	Gold         int64   `db:"gold"`
	Population   int64   `db:"population"`
	Land         int64   `db:"land"`
	Turns        int64   `db:"turns"`
	ArmyJSON     string  `db:"army_json"`
	Forts        int     `db:"forts"`
	Structures   int64   `db:"structures"`
	QuarryPct    float64 `db:"quarry_pct"`
	ScumCount    int64   `db:"scum_count"`
	ScumTier     int     `db:"scum_tier"`
	Alignment    int     `db:"alignment"`
	FaithPoints  int64   `db:"faith_points"`
	FocusJSON    string  `db:"focus_json"`
	AmbushActive int     `db:"ambush_active"`
	CreatedAt    string  `db:"created_at"`
}

func toRow(k *kingdom.Kingdom) (kingdomRow, error) {
	armyJSON, err := json.Marshal(k.Army)
	if err != nil {
		return kingdomRow{}, fmt.Errorf("marshal army: %w", err)
	}
	focusJSON, err := json.Marshal(k.Focus)
	if err != nil {
		return kingdomRow{}, fmt.Errorf("marshal focus: %w", err)
	}

	ambush := 0
	if k.AmbushActive {
		ambush = 1
	}

	return kingdomRow{
		ID:           k.ID.String(),
		Name:         k.Name,
		Race:         int(k.Race),
		Gold:         k.Resources.Gold,
		Population:   k.Resources.Population,
		Land:         k.Resources.Land,
		Turns:        k.Resources.Turns,
		ArmyJSON:     string(armyJSON),
		Forts:        k.Forts,
		Structures:   k.Structures,
		QuarryPct:    k.QuarryPct,
		ScumCount:    k.ScumCount,
		ScumTier:     int(k.ScumTier),
		Alignment:    int(k.Faith.Alignment),
		FaithPoints:  k.Faith.FaithPoints,
		FocusJSON:    string(focusJSON),
		AmbushActive: ambush,
		CreatedAt:    k.CreatedAt.UTC().Format(time.RFC3339),
	}, nil
}

func fromRow(row kingdomRow) (*kingdom.Kingdom, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, fmt.Errorf("parse kingdom id %q: %w", row.ID, err)
	}

	var army rules.Army
	if err := json.Unmarshal([]byte(row.ArmyJSON), &army); err != nil {
		return nil, fmt.Errorf("unmarshal army for %s: %w", row.ID, err)
	}
	var focus kingdom.FocusState
	if err := json.Unmarshal([]byte(row.FocusJSON), &focus); err != nil {
		return nil, fmt.Errorf("unmarshal focus for %s: %w", row.ID, err)
	}

	createdAt, err := time.Parse(time.RFC3339, row.CreatedAt)
	if err != nil {
		createdAt = time.Time{}
	}

	return &kingdom.Kingdom{
		ID:   id,
		Name: row.Name,
		Race: rules.Race(row.Race),
		Resources: kingdom.Resources{
			Gold:       row.Gold,
			Population: row.Population,
			Land:       row.Land,
			Turns:      row.Turns,
		},
		Army:         army,
		Forts:        row.Forts,
		Structures:   row.Structures,
		QuarryPct:    row.QuarryPct,
		ScumCount:    row.ScumCount,
		ScumTier:     rules.ScumTier(row.ScumTier),
		Faith:        kingdom.FaithState{Alignment: rules.Alignment(row.Alignment), FaithPoints: row.FaithPoints},
		Focus:        focus,
		AmbushActive: row.AmbushActive != 0,
		CreatedAt:    createdAt,
	}, nil
}

// SaveKingdom upserts one kingdom.
func (db *DB) SaveKingdom(k *kingdom.Kingdom) error {
	row, err := toRow(k)
	if err != nil {
		return err
	}
	_, err = db.conn.NamedExec(`INSERT OR REPLACE INTO kingdoms
		(id, name, race, gold, population, land, turns, army_json, forts,
		 structures, quarry_pct, scum_count, scum_tier, alignment,
		 faith_points, focus_json, ambush_active, created_at)
		VALUES (:id, :name, :race, :gold, :population, :land, :turns,
		 :army_json, :forts, :structures, :quarry_pct, :scum_count,
		 :scum_tier, :alignment, :faith_points, :focus_json,
		 :ambush_active, :created_at)`, row)
	if err != nil {
		return fmt.Errorf("save kingdom %s: %w", k.ID, err)
	}
	return nil
}

// SaveKingdoms writes a batch of kingdoms in one transaction.
func (db *DB) SaveKingdoms(kingdoms []*kingdom.Kingdom) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, k := range kingdoms {
		row, err := toRow(k)
		if err != nil {
			return err
		}
		_, err = tx.NamedExec(`INSERT OR REPLACE INTO kingdoms
			(id, name, race, gold, population, land, turns, army_json, forts,
			 structures, quarry_pct, scum_count, scum_tier, alignment,
			 faith_points, focus_json, ambush_active, created_at)
			VALUES (:id, :name, :race, :gold, :population, :land, :turns,
			 :army_json, :forts, :structures, :quarry_pct, :scum_count,
			 :scum_tier, :alignment, :faith_points, :focus_json,
			 :ambush_active, :created_at)`, row)
		if err != nil {
			return fmt.Errorf("save kingdom %s: %w", k.ID, err)
		}
	}
	return tx.Commit()
}

// Kingdom loads one kingdom by ID.
func (db *DB) Kingdom(id uuid.UUID) (*kingdom.Kingdom, error) {
	var row kingdomRow
	err := db.conn.Get(&row, "SELECT * FROM kingdoms WHERE id = ?", id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load kingdom %s: %w", id, err)
	}
	return fromRow(row)
}

// Kingdoms loads every kingdom, largest landholders first.
func (db *DB) Kingdoms() ([]*kingdom.Kingdom, error) {
	var rows []kingdomRow
	if err := db.conn.Select(&rows, "SELECT * FROM kingdoms ORDER BY land DESC"); err != nil {
		return nil, fmt.Errorf("list kingdoms: %w", err)
	}
	out := make([]*kingdom.Kingdom, 0, len(rows))
	for _, row := range rows {
		k, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, nil
}

// HasKingdoms reports whether any kingdom state exists.
func (db *DB) HasKingdoms() bool {
	var count int
	if err := db.conn.Get(&count, "SELECT COUNT(*) FROM kingdoms"); err != nil {
		return false
	}
	return count > 0
}

// AppendEvent writes one event row.
func (db *DB) AppendEvent(e orchestrator.Event) error {
	_, err := db.conn.Exec(
		"INSERT INTO events (turn, description, category) VALUES (?, ?, ?)",
		e.Turn, e.Description, e.Category,
	)
	return err
}

// RecentEvents returns the most recent N events, newest first.
func (db *DB) RecentEvents(limit int) ([]orchestrator.Event, error) {
	var events []orchestrator.Event
	err := db.conn.Select(&events,
		"SELECT turn, description, category FROM events ORDER BY id DESC LIMIT ?",
		limit,
	)
	return events, err
}

// SaveMeta stores a key-value pair in game metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO game_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM game_meta WHERE key = ?", key)
	return value, err
}
