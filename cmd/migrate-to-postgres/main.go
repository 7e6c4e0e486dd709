// migrate-to-postgres copies the result store from SQLite to PostgreSQL.
//
// Usage:
//
//	go run ./cmd/migrate-to-postgres \
//	    -sqlite data/ffxlogic.db \
//	    -pg-host localhost \
//	    -pg-port 5432 \
//	    -pg-user ffxlogic \
//	    -pg-password ffxlogic \
//	    -pg-database ffxlogic
package main

import (
	"database/sql"
	"flag"
	"log"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lawnchairsociety/ffxlogic/internal/database"
)

func main() {
	sqlitePath := flag.String("sqlite", "data/ffxlogic.db", "Path to SQLite database")
	pgHost := flag.String("pg-host", "localhost", "PostgreSQL host")
	pgPort := flag.Int("pg-port", 5432, "PostgreSQL port")
	pgUser := flag.String("pg-user", "ffxlogic", "PostgreSQL user")
	pgPassword := flag.String("pg-password", "ffxlogic", "PostgreSQL password")
	pgDatabase := flag.String("pg-database", "ffxlogic", "PostgreSQL database name")
	pgSSLMode := flag.String("pg-sslmode", "disable", "PostgreSQL SSL mode")
	dryRun := flag.Bool("dry-run", false, "Show what would be migrated without making changes")
	flag.Parse()

	log.Println("SQLite to PostgreSQL Migration Tool")
	log.Println("====================================")

	log.Printf("Opening SQLite database: %s", *sqlitePath)
	sqliteDB, err := sql.Open("sqlite", *sqlitePath)
	if err != nil {
		log.Fatalf("Failed to open SQLite database: %v", err)
	}
	defer sqliteDB.Close()

	if err := sqliteDB.Ping(); err != nil {
		log.Fatalf("Failed to connect to SQLite database: %v", err)
	}

	// Opening through the store creates the PostgreSQL schema.
	cfg := database.Config{
		Enabled:  true,
		Driver:   string(database.DialectPostgres),
		Postgres: database.DefaultPostgresConfig(),
	}
	cfg.Postgres.Host = *pgHost
	cfg.Postgres.Port = *pgPort
	cfg.Postgres.User = *pgUser
	cfg.Postgres.Password = *pgPassword
	cfg.Postgres.Database = *pgDatabase
	cfg.Postgres.SSLMode = *pgSSLMode

	log.Printf("Opening PostgreSQL database: %s@%s:%d/%s", *pgUser, *pgHost, *pgPort, *pgDatabase)
	store, err := database.OpenWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to open PostgreSQL database: %v", err)
	}
	defer store.Close()
	pgDB := store.DB()

	if *dryRun {
		log.Println("DRY RUN MODE - No changes will be made")
	}

	tables := []struct {
		name    string
		migrate func(*sql.DB, *sql.DB, bool) (int64, error)
	}{
		{"runs", migrateRuns},
		{"results", migrateResults},
		{"placements", migratePlacements},
	}

	var totalRows int64
	for _, t := range tables {
		log.Printf("Migrating table: %s", t.name)
		count, err := t.migrate(sqliteDB, pgDB, *dryRun)
		if err != nil {
			log.Fatalf("Failed to migrate %s: %v", t.name, err)
		}
		log.Printf("  Migrated %d rows", count)
		totalRows += count
	}

	log.Println("====================================")
	log.Printf("Migration complete! Total rows migrated: %d", totalRows)
	if *dryRun {
		log.Println("(DRY RUN - No actual changes were made)")
	}
}

func migrateRuns(sqlite, pg *sql.DB, dryRun bool) (int64, error) {
	rows, err := sqlite.Query(`SELECT id, seed, created_at FROM runs`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var count int64
	for rows.Next() {
		var id, seed string
		var createdAt sql.NullString
		if err := rows.Scan(&id, &seed, &createdAt); err != nil {
			return count, err
		}
		if dryRun {
			count++
			continue
		}

		_, err := pg.Exec(`
			INSERT INTO runs (id, seed, created_at) VALUES ($1, $2, $3)
			ON CONFLICT (id) DO NOTHING
		`, id, seed, parseNullTime(createdAt))
		if err != nil {
			return count, err
		}
		count++
	}
	return count, rows.Err()
}

func migrateResults(sqlite, pg *sql.DB, dryRun bool) (int64, error) {
	rows, err := sqlite.Query(`
		SELECT id, run_id, slot, player, seed_id, options, starting_items, created_at
		FROM results
	`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var count int64
	for rows.Next() {
		var id int64
		var slot int
		var runID, player, seedID, options, startingItems string
		var createdAt sql.NullString
		if err := rows.Scan(&id, &runID, &slot, &player, &seedID, &options, &startingItems, &createdAt); err != nil {
			return count, err
		}
		if dryRun {
			count++
			continue
		}

		// Insert with explicit ID to preserve relationships
		_, err := pg.Exec(`
			INSERT INTO results (id, run_id, slot, player, seed_id, options, starting_items, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, id, runID, slot, player, seedID, options, startingItems, parseNullTime(createdAt))
		if err != nil {
			if !strings.Contains(err.Error(), "duplicate key") {
				return count, err
			}
			continue
		}
		count++
	}

	// Reset the sequence to avoid ID conflicts for new records
	if !dryRun {
		_, _ = pg.Exec(`SELECT setval('results_id_seq', COALESCE((SELECT MAX(id) FROM results), 0) + 1, false)`)
	}
	return count, rows.Err()
}

func migratePlacements(sqlite, pg *sql.DB, dryRun bool) (int64, error) {
	rows, err := sqlite.Query(`
		SELECT id, result_id, category, location_id, location_name, item_id, item_name, player_name
		FROM placements
	`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var count int64
	for rows.Next() {
		var id, resultID int64
		var locationID, itemID int
		var category, locationName, itemName, playerName string
		if err := rows.Scan(&id, &resultID, &category, &locationID, &locationName, &itemID, &itemName, &playerName); err != nil {
			return count, err
		}
		if dryRun {
			count++
			continue
		}

		_, err := pg.Exec(`
			INSERT INTO placements (id, result_id, category, location_id, location_name, item_id, item_name, player_name)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO NOTHING
		`, id, resultID, category, locationID, locationName, itemID, itemName, playerName)
		if err != nil {
			return count, err
		}
		count++
	}

	if !dryRun {
		_, _ = pg.Exec(`SELECT setval('placements_id_seq', COALESCE((SELECT MAX(id) FROM placements), 0) + 1, false)`)
	}
	return count, rows.Err()
}

// parseNullTime reads SQLite's timestamp text. Unparseable values become NULL.
func parseNullTime(s sql.NullString) any {
	if !s.Valid || s.String == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02T15:04:05Z"} {
		if t, err := time.Parse(layout, s.String); err == nil {
			return t
		}
	}
	return nil
}
