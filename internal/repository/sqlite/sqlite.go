// Package sqlite implements the repository interfaces over SQLite.
//
// The driver is modernc.org/sqlite — a pure Go translation of SQLite, so
// builds need no C toolchain and cross-compile cleanly. SQLite keeps the
// whole deployment a single binary plus one file; use ":memory:" in tests
// for a throwaway database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/saorim/flashcard-api/internal/apperror"
	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps the sql.DB pool and exposes one repository per entity. The
// repositories share the pool; each implements the matching interface from
// the repository package.
type DB struct {
	conn *sql.DB

	Users      *UserRepo
	Categories *CategoryRepo
	Flashcards *FlashcardRepo
}

// New opens (or creates) the database at dbPath and applies the schema.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// PRAGMAs apply per connection and SQLite serializes writes anyway, so
	// pin the pool to a single connection. This also keeps ":memory:"
	// databases coherent — every connection would otherwise get its own.
	conn.SetMaxOpenConns(1)

	// WAL lets reads proceed while a write is in flight — without it the
	// whole file locks on every write, which stalls a concurrent server.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are off by default in SQLite. The schema relies on
	// them: categories.user_id and flashcards.user_id must reference real
	// users, and flashcards.category_id nulls out when its category goes.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{
		conn:       conn,
		Users:      &UserRepo{conn: conn},
		Categories: &CategoryRepo{conn: conn},
		Flashcards: &FlashcardRepo{conn: conn},
	}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// checkAffected translates a zero-row write into NotFound. Scoped updates
// and deletes use `WHERE id = ? AND user_id = ?`, so "someone else's row"
// and "no such row" collapse into the same answer here.
func checkAffected(result sql.Result, resource, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound(resource, id)
	}
	return nil
}

func queryCount(ctx context.Context, conn *sql.DB, query string, args ...any) (int64, error) {
	var count int64
	if err := conn.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("sqlite: counting rows: %w", err)
	}
	return count, nil
}

// Close closes the connection pool. Callers defer this next to New.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the tables. CREATE TABLE IF NOT EXISTS keeps this
// idempotent, so it runs unconditionally at startup.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    DATETIME NOT NULL,
			updated_at    DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS categories (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			user_id     TEXT NOT NULL REFERENCES users(id),
			created_at  DATETIME NOT NULL,
			updated_at  DATETIME NOT NULL,
			UNIQUE(user_id, name)
		);
		CREATE INDEX IF NOT EXISTS idx_categories_user_id ON categories(user_id);

		CREATE TABLE IF NOT EXISTS flashcards (
			id            TEXT PRIMARY KEY,
			question      TEXT NOT NULL,
			answer        TEXT NOT NULL,
			category_id   TEXT REFERENCES categories(id) ON DELETE SET NULL,
			user_id       TEXT NOT NULL REFERENCES users(id),
			last_reviewed DATETIME,
			review_count  INTEGER NOT NULL DEFAULT 0,
			created_at    DATETIME NOT NULL,
			updated_at    DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_flashcards_user_id ON flashcards(user_id);
		CREATE INDEX IF NOT EXISTS idx_flashcards_category_id ON flashcards(category_id);
	`)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	return nil
}
