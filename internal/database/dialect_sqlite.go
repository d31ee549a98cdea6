package database

import (
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteDialect implements Dialect for SQLite
type SQLiteDialect struct {
	memory bool
}

// NewSQLiteDialect creates a new SQLite dialect
func NewSQLiteDialect() *SQLiteDialect {
	return &SQLiteDialect{}
}

func (d *SQLiteDialect) DriverName() string {
	return "sqlite3"
}

// memDBSeq distinguishes in-memory databases opened in one process, so
// separate Initialize(":memory:") calls stay isolated from each other.
var memDBSeq atomic.Int64

// DSN encodes the pragmas in the connection string so they apply to every
// pooled connection, not just the one that happened to run a PRAGMA exec.
func (d *SQLiteDialect) DSN(config DialectConfig) string {
	if config.Path == ":memory:" {
		// A plain :memory: DSN gives each pooled connection its own
		// empty database; a named shared-cache database keeps the
		// whole pool on one store.
		d.memory = true
		return fmt.Sprintf("file:memdb%d?mode=memory&cache=shared&_foreign_keys=1", memDBSeq.Add(1))
	}
	return config.Path + "?_foreign_keys=1&_journal_mode=WAL"
}

func (d *SQLiteDialect) RewriteQuery(query string) string {
	// SQLite uses ? placeholders, no rewrite needed
	return query
}

func (d *SQLiteDialect) ConfigureConnection(db *sql.DB) error {
	if d.memory {
		// The shared in-memory store is dropped once the last
		// connection closes, so idle connections never expire.
		db.SetMaxOpenConns(5)
		db.SetMaxIdleConns(5)
		return nil
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)
	return nil
}

func (d *SQLiteDialect) MigrationsSubdir() string {
	return "sqlite"
}

func (d *SQLiteDialect) CreateMigrationsTableQuery() string {
	return `
		CREATE TABLE IF NOT EXISTS migrations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			filename TEXT UNIQUE NOT NULL,
			executed_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`
}

func (d *SQLiteDialect) UpsertQuery(table string, insertCols, keyCols, updateCols []string) string {
	return onConflictUpsert(table, insertCols, keyCols, updateCols)
}

func (d *SQLiteDialect) InsertIgnoreQuery(table string, insertCols, keyCols []string) string {
	return fmt.Sprintf(
		"INSERT OR IGNORE INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(insertCols, ", "),
		placeholders(len(insertCols)),
	)
}
