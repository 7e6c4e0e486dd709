package database

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
)

// =============================================================================
// Dialect Tests
// =============================================================================

func TestNewDialect(t *testing.T) {
	if _, ok := NewDialect(DialectSQLite).(*SQLiteDialect); !ok {
		t.Error("NewDialect(sqlite) is not *SQLiteDialect")
	}
	if _, ok := NewDialect(DialectPostgres).(*PostgresDialect); !ok {
		t.Error("NewDialect(postgres) is not *PostgresDialect")
	}
	// Unknown dialect should default to SQLite
	if _, ok := NewDialect("unknown").(*SQLiteDialect); !ok {
		t.Error("NewDialect(unknown) is not *SQLiteDialect")
	}
}

func TestDialect_InterfaceCompliance(t *testing.T) {
	var _ Dialect = (*SQLiteDialect)(nil)
	var _ Dialect = (*PostgresDialect)(nil)
}

func TestDialectBasics(t *testing.T) {
	tests := []struct {
		name        string
		dialect     Dialect
		driver      string
		placeholder string
		lastInsert  bool
		returning   string
		serial      string
		json        string
	}{
		{"SQLite", &SQLiteDialect{}, "sqlite", "?", true, "", "INTEGER PRIMARY KEY AUTOINCREMENT", "TEXT"},
		{"Postgres", &PostgresDialect{}, "postgres", "$3", false, " RETURNING id", "BIGSERIAL PRIMARY KEY", "JSONB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.DriverName(); got != tt.driver {
				t.Errorf("DriverName() = %q, want %q", got, tt.driver)
			}
			if got := tt.dialect.Placeholder(3); got != tt.placeholder {
				t.Errorf("Placeholder(3) = %q, want %q", got, tt.placeholder)
			}
			if got := tt.dialect.SupportsLastInsertID(); got != tt.lastInsert {
				t.Errorf("SupportsLastInsertID() = %v, want %v", got, tt.lastInsert)
			}
			if got := tt.dialect.ReturningClause("id"); got != tt.returning {
				t.Errorf("ReturningClause() = %q, want %q", got, tt.returning)
			}
			if got := tt.dialect.SerialPrimaryKey(); got != tt.serial {
				t.Errorf("SerialPrimaryKey() = %q, want %q", got, tt.serial)
			}
			if got := tt.dialect.JSONType(); got != tt.json {
				t.Errorf("JSONType() = %q, want %q", got, tt.json)
			}
		})
	}
}

func TestSQLiteDialect_InitStatements(t *testing.T) {
	stmts := (&SQLiteDialect{}).InitStatements()
	joined := strings.Join(stmts, ";")
	for _, want := range []string{"foreign_keys", "journal_mode", "busy_timeout"} {
		if !strings.Contains(joined, want) {
			t.Errorf("InitStatements() missing %s", want)
		}
	}
}

func TestIsDuplicateKeyError(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		err     error
		want    bool
	}{
		{"sqlite nil", &SQLiteDialect{}, nil, false},
		{"sqlite unique", &SQLiteDialect{}, errors.New("UNIQUE constraint failed: results.seed_id"), true},
		{"sqlite other", &SQLiteDialect{}, errors.New("no such table: results"), false},
		{"postgres nil", &PostgresDialect{}, nil, false},
		{"postgres duplicate", &PostgresDialect{}, errors.New(`pq: duplicate key value violates unique constraint "results_seed_id_key"`), true},
		{"postgres code", &PostgresDialect{}, errors.New("ERROR 23505"), true},
		{"postgres typed", &PostgresDialect{}, fmt.Errorf("insert: %w", &pq.Error{Code: "23505"}), true},
		{"postgres typed other", &PostgresDialect{}, &pq.Error{Code: "23503"}, false},
		{"postgres other", &PostgresDialect{}, errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.IsDuplicateKeyError(tt.err); got != tt.want {
				t.Errorf("IsDuplicateKeyError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsForeignKeyError(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		err     error
		want    bool
	}{
		{"sqlite nil", &SQLiteDialect{}, nil, false},
		{"sqlite foreign key", &SQLiteDialect{}, errors.New("FOREIGN KEY constraint failed (787)"), true},
		{"sqlite unique", &SQLiteDialect{}, errors.New("UNIQUE constraint failed: results.seed_id"), false},
		{"postgres nil", &PostgresDialect{}, nil, false},
		{"postgres foreign key", &PostgresDialect{}, errors.New(`pq: insert or update on table "results" violates foreign key constraint "results_run_id_fkey"`), true},
		{"postgres code", &PostgresDialect{}, errors.New("ERROR 23503"), true},
		{"postgres typed", &PostgresDialect{}, fmt.Errorf("insert: %w", &pq.Error{Code: "23503"}), true},
		{"postgres duplicate", &PostgresDialect{}, errors.New(`pq: duplicate key value violates unique constraint "results_seed_id_key"`), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.IsForeignKeyError(tt.err); got != tt.want {
				t.Errorf("IsForeignKeyError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

// =============================================================================
// Query Builder Tests
// =============================================================================

func TestQueryBuilder_Build(t *testing.T) {
	tests := []struct {
		dialect Dialect
		input   string
		want    string
	}{
		{&SQLiteDialect{}, "SELECT slot FROM results WHERE run_id = ? AND slot = ?", "SELECT slot FROM results WHERE run_id = ? AND slot = ?"},
		{&PostgresDialect{}, "SELECT slot FROM results", "SELECT slot FROM results"},
		{&PostgresDialect{}, "SELECT slot FROM results WHERE run_id = ? AND slot = ?", "SELECT slot FROM results WHERE run_id = $1 AND slot = $2"},
		{&PostgresDialect{}, "", ""},
		{
			&PostgresDialect{},
			"INSERT INTO t VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			"INSERT INTO t VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)",
		},
	}
	for _, tt := range tests {
		qb := NewQueryBuilder(tt.dialect)
		if got := qb.Build(tt.input); got != tt.want {
			t.Errorf("%T Build(%q) = %q, want %q", tt.dialect, tt.input, got, tt.want)
		}
	}
}

func TestQueryBuilder_BuildWithReturning(t *testing.T) {
	query := "INSERT INTO runs (id, seed) VALUES (?, ?)"

	if got := NewQueryBuilder(&SQLiteDialect{}).BuildWithReturning(query, "id"); got != query {
		t.Errorf("SQLite BuildWithReturning() = %q, want %q", got, query)
	}

	want := "INSERT INTO runs (id, seed) VALUES ($1, $2) RETURNING id"
	if got := NewQueryBuilder(&PostgresDialect{}).BuildWithReturning(query, "id"); got != want {
		t.Errorf("Postgres BuildWithReturning() = %q, want %q", got, want)
	}
}

func TestQueryBuilder_Schema(t *testing.T) {
	ddl := "CREATE TABLE t (id {{serial}}, name TEXT, options {{json}})"
	if got := NewQueryBuilder(&SQLiteDialect{}).Schema(ddl); got != "CREATE TABLE t (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT, options TEXT)" {
		t.Errorf("SQLite Schema() = %q", got)
	}
	if got := NewQueryBuilder(&PostgresDialect{}).Schema(ddl); got != "CREATE TABLE t (id BIGSERIAL PRIMARY KEY, name TEXT, options JSONB)" {
		t.Errorf("Postgres Schema() = %q", got)
	}
}

// =============================================================================
// Config Tests
// =============================================================================

func TestDefaultConfig(t *testing.T) {
	path := "/path/to/test.db"
	cfg := DefaultConfig(path)

	if cfg.Driver != "sqlite" {
		t.Errorf("Driver = %q, want %q", cfg.Driver, "sqlite")
	}
	if cfg.SQLitePath != path {
		t.Errorf("SQLitePath = %q, want %q", cfg.SQLitePath, path)
	}
	if cfg.DSN() != path {
		t.Errorf("DSN() = %q, want %q", cfg.DSN(), path)
	}
}

func TestDefaultPostgresConfig(t *testing.T) {
	cfg := DefaultPostgresConfig()

	if cfg.Host != "localhost" {
		t.Errorf("Host = %q, want %q", cfg.Host, "localhost")
	}
	if cfg.Port != 5432 {
		t.Errorf("Port = %d, want %d", cfg.Port, 5432)
	}
	if cfg.SSLMode != "disable" {
		t.Errorf("SSLMode = %q, want %q", cfg.SSLMode, "disable")
	}
	if cfg.ConnMaxLifetime != 5*time.Minute {
		t.Errorf("ConnMaxLifetime = %v, want %v", cfg.ConnMaxLifetime, 5*time.Minute)
	}
}

func TestConfig_PostgresDSN(t *testing.T) {
	cfg := Config{
		Driver: "postgres",
		Postgres: PostgresConfig{
			Host:     "db.example.com",
			Port:     5433,
			User:     "testuser",
			Password: "testpass",
			Database: "testdb",
			SSLMode:  "require",
		},
	}

	want := "host=db.example.com port=5433 user=testuser password=testpass dbname=testdb sslmode=require"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"sqlite default", DefaultConfig("x.db"), false},
		{"sqlite enabled without path", Config{Enabled: true, Driver: "sqlite"}, true},
		{"postgres disabled", Config{Driver: "postgres"}, false},
		{"postgres enabled without host", Config{Enabled: true, Driver: "postgres", Postgres: PostgresConfig{Database: "db"}}, true},
		{"unknown driver", Config{Driver: "mysql"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
