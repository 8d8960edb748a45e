package explain

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Cache is a persistent event_id -> explanation store. Entries are
// append-only within a run and are never invalidated automatically.
type Cache interface {
	Get(eventID string) (string, bool, error)
	Put(eventID, explanation string) error
	Close() error
}

// SQLiteCache stores explanations in a SQLite database so lookups survive
// across runs.
type SQLiteCache struct {
	db      *sql.DB
	getStmt *sql.Stmt
	putStmt *sql.Stmt
}

// OpenCache opens (or creates) the explanation cache at the given path.
func OpenCache(path string) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open explanation cache: %w", err)
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS explanations (
		event_id    TEXT PRIMARY KEY,
		explanation TEXT NOT NULL,
		fetched_at  TEXT NOT NULL
	);
	`
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create explanations table: %w", err)
	}

	getStmt, err := db.Prepare(`SELECT explanation FROM explanations WHERE event_id = ?`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare cache select: %w", err)
	}

	putStmt, err := db.Prepare(`INSERT OR IGNORE INTO explanations (event_id, explanation, fetched_at) VALUES (?, ?, ?)`)
	if err != nil {
		getStmt.Close()
		db.Close()
		return nil, fmt.Errorf("failed to prepare cache insert: %w", err)
	}

	return &SQLiteCache{db: db, getStmt: getStmt, putStmt: putStmt}, nil
}

// Get returns the cached explanation for an event ID, if present.
func (c *SQLiteCache) Get(eventID string) (string, bool, error) {
	var explanation string
	err := c.getStmt.QueryRow(eventID).Scan(&explanation)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read explanation cache: %w", err)
	}
	return explanation, true, nil
}

// Put stores an explanation. Existing entries win: the cache is
// append-only and never invalidated automatically.
func (c *SQLiteCache) Put(eventID, explanation string) error {
	_, err := c.putStmt.Exec(eventID, explanation, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to write explanation cache: %w", err)
	}
	return nil
}

// Close closes the cache database.
func (c *SQLiteCache) Close() error {
	if c.getStmt != nil {
		c.getStmt.Close()
	}
	if c.putStmt != nil {
		c.putStmt.Close()
	}
	return c.db.Close()
}
