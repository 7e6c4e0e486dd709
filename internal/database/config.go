package database

import (
	"fmt"
	"time"
)

// Config holds database connection configuration.
type Config struct {
	// Enabled turns result storage on.
	Enabled bool `yaml:"enabled" env:"FFXLOGIC_DB_ENABLED"`

	// Driver specifies which database to use: "sqlite" or "postgres"
	Driver string `yaml:"driver" env:"FFXLOGIC_DB_DRIVER"`

	// SQLite configuration
	SQLitePath string `yaml:"sqlite_path" env:"FFXLOGIC_DB_SQLITE_PATH"`

	// PostgreSQL configuration
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig holds PostgreSQL-specific configuration.
type PostgresConfig struct {
	Host     string `yaml:"host" env:"FFXLOGIC_PG_HOST"`
	Port     int    `yaml:"port" env:"FFXLOGIC_PG_PORT"`
	User     string `yaml:"user" env:"FFXLOGIC_PG_USER"`
	Password string `yaml:"password" env:"FFXLOGIC_PG_PASSWORD"`
	Database string `yaml:"database" env:"FFXLOGIC_PG_DATABASE"`
	SSLMode  string `yaml:"sslmode" env:"FFXLOGIC_PG_SSLMODE"`

	// Connection pool settings
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// DefaultConfig returns a Config with sensible defaults for SQLite.
func DefaultConfig(sqlitePath string) Config {
	return Config{
		Driver:     string(DialectSQLite),
		SQLitePath: sqlitePath,
		Postgres:   DefaultPostgresConfig(),
	}
}

// DefaultPostgresConfig returns PostgresConfig with recommended pool settings.
func DefaultPostgresConfig() PostgresConfig {
	return PostgresConfig{
		Host:            "localhost",
		Port:            5432,
		SSLMode:         "disable",
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5 * time.Minute,
	}
}

// Validate checks the driver and its settings.
func (c Config) Validate() error {
	switch DialectType(c.Driver) {
	case DialectSQLite:
		if c.Enabled && c.SQLitePath == "" {
			return fmt.Errorf("sqlite path is required")
		}
	case DialectPostgres:
		if c.Enabled && (c.Postgres.Host == "" || c.Postgres.Database == "") {
			return fmt.Errorf("postgres host and database are required")
		}
	default:
		return fmt.Errorf("unknown database driver %q", c.Driver)
	}
	return nil
}

// DSN returns the connection string for the configured driver.
func (c Config) DSN() string {
	if DialectType(c.Driver) == DialectPostgres {
		p := c.Postgres
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
		)
	}
	return c.SQLitePath
}
