// Package storage caches parsed relation tables in SQLite so repeated runs
// skip re-reading the pipe-delimited source files.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	_ "modernc.org/sqlite"

	"github.com/matsen/costar/internal/loader"
)

// fingerprintKey is the meta key recording which source files built the cache.
const fingerprintKey = "source_fingerprint"

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// Counts reports the number of rows in each relation table.
type Counts struct {
	Actors  int `json:"actors"`
	Movies  int `json:"movies"`
	Credits int `json:"credits"`
}

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS actors (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS movies (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL
		);

		-- Duplicate credits collapse; the cast is a set.
		CREATE TABLE IF NOT EXISTS credits (
			movie_id TEXT NOT NULL,
			actor_id TEXT NOT NULL,
			PRIMARY KEY (movie_id, actor_id)
		);

		CREATE INDEX IF NOT EXISTS idx_credits_actor ON credits(actor_id);

		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`

	_, err := db.Exec(schema)
	return err
}

// RebuildFromTables replaces the cached relations with tables and records the
// fingerprint of the files they were read from. The rebuild is atomic.
func (d *DB) RebuildFromTables(tables *loader.Tables, fingerprint string) (Counts, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return Counts{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for _, table := range []string{"credits", "actors", "movies", "meta"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return Counts{}, fmt.Errorf("clearing %s table: %w", table, err)
		}
	}

	if err := insertNames(tx, "actors", tables.Actors); err != nil {
		return Counts{}, err
	}
	if err := insertNames(tx, "movies", tables.Movies); err != nil {
		return Counts{}, err
	}

	creditStmt, err := tx.Prepare(`INSERT OR IGNORE INTO credits (movie_id, actor_id) VALUES (?, ?)`)
	if err != nil {
		return Counts{}, fmt.Errorf("preparing credits insert: %w", err)
	}
	defer creditStmt.Close()

	for _, c := range tables.Credits {
		if _, err := creditStmt.Exec(c.MovieID, c.ActorID); err != nil {
			return Counts{}, fmt.Errorf("inserting credit %s|%s: %w", c.MovieID, c.ActorID, err)
		}
	}

	if _, err := tx.Exec(`INSERT INTO meta (key, value) VALUES (?, ?)`, fingerprintKey, fingerprint); err != nil {
		return Counts{}, fmt.Errorf("recording fingerprint: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Counts{}, fmt.Errorf("committing rebuild: %w", err)
	}

	return d.Counts()
}

func insertNames(tx *sql.Tx, table string, names map[string]string) error {
	stmt, err := tx.Prepare("INSERT INTO " + table + " (id, name) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("preparing %s insert: %w", table, err)
	}
	defer stmt.Close()

	for id, name := range names {
		if _, err := stmt.Exec(id, name); err != nil {
			return fmt.Errorf("inserting into %s %q: %w", table, id, err)
		}
	}
	return nil
}

// LoadCast rebuilds the movie -> actors mapping from the cache. Credits
// referring to unknown IDs drop out of the join, as they do when reading the
// files directly.
func (d *DB) LoadCast() (loader.Cast, error) {
	rows, err := d.db.Query(`
		SELECT m.name, a.name
		FROM credits c
		JOIN movies m ON m.id = c.movie_id
		JOIN actors a ON a.id = c.actor_id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying credits: %w", err)
	}
	defer rows.Close()

	cast := make(loader.Cast)
	for rows.Next() {
		var movie, actor string
		if err := rows.Scan(&movie, &actor); err != nil {
			return nil, fmt.Errorf("scanning credit: %w", err)
		}
		if cast[movie] == nil {
			cast[movie] = mapset.NewThreadUnsafeSet[string]()
		}
		cast[movie].Add(actor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating credits: %w", err)
	}
	return cast, nil
}

// Fingerprint returns the recorded source fingerprint, or "" if the cache has
// never been built.
func (d *DB) Fingerprint() (string, error) {
	var value string
	err := d.db.QueryRow(`SELECT value FROM meta WHERE key = ?`, fingerprintKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading fingerprint: %w", err)
	}
	return value, nil
}

// IsStale reports whether the cache was built from files other than the ones
// identified by current. An empty cache is always stale.
func (d *DB) IsStale(current string) (bool, error) {
	recorded, err := d.Fingerprint()
	if err != nil {
		return true, err
	}
	return recorded == "" || recorded != current, nil
}

// Counts returns the number of cached actors, movies, and credits.
func (d *DB) Counts() (Counts, error) {
	var c Counts
	for _, q := range []struct {
		table string
		dst   *int
	}{
		{"actors", &c.Actors},
		{"movies", &c.Movies},
		{"credits", &c.Credits},
	} {
		if err := d.db.QueryRow("SELECT COUNT(*) FROM " + q.table).Scan(q.dst); err != nil {
			return Counts{}, fmt.Errorf("counting %s: %w", q.table, err)
		}
	}
	return c, nil
}
