// Package database opens the guild's sqlite store and keeps its schema
// current. The same Open path serves the server binary and the in-memory
// databases the tests run against.
package database

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// dsnParams are the connection pragmas: WAL so campaign page reads do not
// queue behind backing writes, and enforced foreign keys so backings and
// products cannot outlive their owners.
const dsnParams = "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

// Open opens the sqlite database at path, creating it if needed, and brings
// the schema up to date. Pass ":memory:" for a throwaway test database.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+dsnParams)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

func migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
