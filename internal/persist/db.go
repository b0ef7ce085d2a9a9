// Package persist is the host-owned persistence collaborator: it loads the
// full account/profile configuration once at startup and saves snapshots
// after mutations. The stores themselves perform no I/O.
package persist

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

// DB wraps a SQLite database holding configuration snapshots.
type DB struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite database at the given path and runs
// migrations. Use ":memory:" for an in-memory database (useful for testing).
func Open(path string) (*DB, error) {
	dsn := path
	if path != ":memory:" {
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)"
	} else {
		dsn = ":memory:?_pragma=foreign_keys(ON)"
	}

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Set connection pool to 1 for SQLite
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	d := &DB{db: sqlDB}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return d, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Conn returns the underlying *sql.DB for advanced use cases.
func (d *DB) Conn() *sql.DB {
	return d.db
}

func (d *DB) migrate() error {
	var version int
	err := d.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("reading user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := d.migrateV1(); err != nil {
			return err
		}
	}

	_, err = d.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	if err != nil {
		return fmt.Errorf("setting user_version: %w", err)
	}

	return nil
}

func (d *DB) migrateV1() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			integration_type TEXT NOT NULL,
			config TEXT NOT NULL DEFAULT '{}',
			color TEXT,
			cached_user TEXT,
			url_patterns TEXT NOT NULL DEFAULT '[]',
			is_default INTEGER NOT NULL DEFAULT 0,
			position INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_accounts_type ON accounts(integration_type)`,
		`CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			git_name TEXT NOT NULL,
			git_email TEXT NOT NULL,
			signing_key TEXT,
			url_patterns TEXT NOT NULL DEFAULT '[]',
			is_default INTEGER NOT NULL DEFAULT 0,
			color TEXT,
			default_accounts TEXT NOT NULL DEFAULT '{}',
			position INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS account_assignments (
			repo_path TEXT PRIMARY KEY,
			account_id TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS profile_assignments (
			repo_path TEXT PRIMARY KEY,
			profile_id TEXT NOT NULL
		)`,
	}

	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning migration transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("executing migration statement: %w", err)
		}
	}

	return tx.Commit()
}
