package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"
)

// testSchema mirrors internal/database/schema.sql in SQLite dialect.
// The repositories stick to portable SQL, so the suite runs against a
// throwaway SQLite file instead of a MySQL server.
const testSchema = `
CREATE TABLE users (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    username      TEXT    NOT NULL UNIQUE,
    password_hash TEXT    NOT NULL,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE events (
    id                 INTEGER PRIMARY KEY AUTOINCREMENT,
    guid               TEXT    NOT NULL UNIQUE,
    name               TEXT    NOT NULL UNIQUE,
    initial_tickets    INTEGER NOT NULL,
    additional_tickets INTEGER NOT NULL DEFAULT 0,
    author_id          INTEGER NOT NULL,
    created_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE tickets (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    guid        TEXT    NOT NULL UNIQUE,
    event_id    INTEGER NOT NULL,
    author_id   INTEGER NOT NULL,
    is_redeemed INTEGER NOT NULL DEFAULT 0,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE revoked_tokens (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    token_hash TEXT    NOT NULL UNIQUE,
    expires_at DATETIME NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// newTestDB opens a fresh SQLite database in a temp dir and applies
// the schema. A single pooled connection keeps SQLite's writer model
// out of the way while still exercising the repositories' locking
// behaviour (concurrent transactions queue on the pool).
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000")
	if err != nil {
		t.Fatalf("db open: %v", err)
	}
	db.SetMaxOpenConns(1)
	for _, stmt := range strings.Split(testSchema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("apply schema: %v", err)
		}
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// newTestUser registers a user and returns its id. bcrypt runs at
// MinCost so the suite stays fast.
func newTestUser(t *testing.T, db *sql.DB, username string) uint64 {
	t.Helper()
	id, err := NewUserRepo(db).Create(context.Background(), username, "password", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return id
}

// countRows returns the result of a COUNT(*) style query.
func countRows(t *testing.T, db *sql.DB, query string, args ...interface{}) int {
	t.Helper()
	var n int
	if err := db.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("count %q: %v", query, err)
	}
	return n
}
