// Package database stores generated results in SQLite or PostgreSQL so
// trackers and support tools can look them up after generation.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
)

// Database wraps the connection and provides persistence operations.
type Database struct {
	db      *sql.DB
	dialect Dialect
	qb      *QueryBuilder
}

// Open opens or creates the SQLite database at the given path.
func Open(path string) (*Database, error) {
	return OpenWithConfig(DefaultConfig(path))
}

// OpenWithConfig opens the configured database and migrates its schema.
func OpenWithConfig(cfg Config) (*Database, error) {
	dialect := NewDialect(DialectType(cfg.Driver))

	if _, ok := dialect.(*SQLiteDialect); ok {
		dir := filepath.Dir(cfg.SQLitePath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open(dialect.DriverName(), cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, ok := dialect.(*SQLiteDialect); ok {
		// PRAGMAs are per connection.
		db.SetMaxOpenConns(1)
	}
	if _, ok := dialect.(*PostgresDialect); ok {
		db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Postgres.ConnMaxLifetime)
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
	}

	for _, stmt := range dialect.InitStatements() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run %q: %w", stmt, err)
		}
	}

	d := &Database{db: db, dialect: dialect, qb: NewQueryBuilder(dialect)}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return d, nil
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// Dialect returns the database dialect.
func (d *Database) Dialect() Dialect {
	return d.dialect
}

// migrate creates the database schema if it doesn't exist.
func (d *Database) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			seed TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS results (
			id {{serial}},
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			slot INTEGER NOT NULL,
			player TEXT NOT NULL,
			seed_id TEXT UNIQUE NOT NULL,
			options {{json}} NOT NULL DEFAULT '{}',
			starting_items {{json}} NOT NULL DEFAULT '[]',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(run_id, slot)
		)`,

		`CREATE TABLE IF NOT EXISTS placements (
			id {{serial}},
			result_id BIGINT NOT NULL REFERENCES results(id) ON DELETE CASCADE,
			category TEXT NOT NULL,
			location_id INTEGER NOT NULL,
			location_name TEXT NOT NULL,
			item_id INTEGER NOT NULL,
			item_name TEXT NOT NULL,
			player_name TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_results_run_id ON results(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_placements_result_id ON placements(result_id)`,
	}

	for _, m := range migrations {
		m = d.qb.Schema(m)
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// DB returns the underlying sql.DB for advanced operations.
func (d *Database) DB() *sql.DB {
	return d.db
}

// insert runs an INSERT and returns the new row id.
func (d *Database) insert(tx *sql.Tx, query string, args ...any) (int64, error) {
	if d.dialect.SupportsLastInsertID() {
		res, err := tx.Exec(d.qb.Build(query), args...)
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	}
	var id int64
	err := tx.QueryRow(d.qb.BuildWithReturning(query, "id"), args...).Scan(&id)
	return id, err
}
