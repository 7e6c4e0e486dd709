package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/lawnchairsociety/ffxlogic/internal/location"
	"github.com/lawnchairsociety/ffxlogic/internal/output"
)

// ErrResultNotFound is returned when a result lookup fails.
var ErrResultNotFound = errors.New("result not found")

// ErrResultExists is returned when a slot's result or seed id is stored twice.
var ErrResultExists = errors.New("result already exists")

// ErrRunNotFound is returned when a result names a run that was not saved.
var ErrRunNotFound = errors.New("run not found")

// StoredResult is a result read back from the store.
type StoredResult struct {
	ID            int64
	RunID         uuid.UUID
	Slot          int
	Player        string
	SeedID        string
	Options       map[string]int
	StartingItems []int
	CreatedAt     time.Time

	// Locations is keyed by result file category name.
	Locations map[string][]output.Entry
}

// Count returns the number of stored placements.
func (r *StoredResult) Count() int {
	n := 0
	for _, entries := range r.Locations {
		n += len(entries)
	}
	return n
}

// SaveRun records a generation run. Saving a run twice is a no-op.
func (d *Database) SaveRun(runID uuid.UUID, seed string) error {
	_, err := d.db.Exec(
		d.qb.Build("INSERT INTO runs (id, seed) VALUES (?, ?)"),
		runID.String(), seed,
	)
	if err != nil && !d.dialect.IsDuplicateKeyError(err) {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// SaveResult stores one player's result with its placements and returns
// the result id. The run must have been saved.
func (d *Database) SaveResult(runID uuid.UUID, player string, r *output.Result, options map[string]int) (int64, error) {
	opts, err := json.Marshal(options)
	if err != nil {
		return 0, fmt.Errorf("failed to encode options: %w", err)
	}
	starting := r.StartingItems
	if starting == nil {
		starting = []int{}
	}
	items, err := json.Marshal(starting)
	if err != nil {
		return 0, fmt.Errorf("failed to encode starting items: %w", err)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	id, err := d.insert(tx,
		"INSERT INTO results (run_id, slot, player, seed_id, options, starting_items) VALUES (?, ?, ?, ?, ?, ?)",
		runID.String(), r.Slot, player, r.Misc.SeedID, string(opts), string(items),
	)
	if err != nil {
		switch {
		case d.dialect.IsDuplicateKeyError(err):
			return 0, ErrResultExists
		case d.dialect.IsForeignKeyError(err):
			return 0, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return 0, fmt.Errorf("failed to save result: %w", err)
	}

	stmt, err := tx.Prepare(d.qb.Build(`
		INSERT INTO placements (result_id, category, location_id, location_name, item_id, item_name, player_name)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`))
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, c := range location.Categories {
		for _, e := range r.Locations[c] {
			if _, err := stmt.Exec(id, c.String(), e.LocationID, e.LocationName, e.ItemID, e.ItemName, e.PlayerName); err != nil {
				return 0, fmt.Errorf("failed to save placement %q: %w", e.LocationName, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// GetResult retrieves a result by seed id.
func (d *Database) GetResult(seedID string) (*StoredResult, error) {
	row := d.db.QueryRow(d.qb.Build(`
		SELECT id, run_id, slot, player, seed_id, options, starting_items, created_at
		FROM results WHERE seed_id = ?
	`), seedID)
	return d.scanResult(row)
}

// GetResultForSlot retrieves the result of one slot of a run.
func (d *Database) GetResultForSlot(runID uuid.UUID, slot int) (*StoredResult, error) {
	row := d.db.QueryRow(d.qb.Build(`
		SELECT id, run_id, slot, player, seed_id, options, starting_items, created_at
		FROM results WHERE run_id = ? AND slot = ?
	`), runID.String(), slot)
	return d.scanResult(row)
}

// RunSlots returns the stored slots of a run in order.
func (d *Database) RunSlots(runID uuid.UUID) ([]int, error) {
	rows, err := d.db.Query(d.qb.Build("SELECT slot FROM results WHERE run_id = ?"), runID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []int
	for rows.Next() {
		var slot int
		if err := rows.Scan(&slot); err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.Ints(slots)
	return slots, nil
}

func (d *Database) scanResult(row *sql.Row) (*StoredResult, error) {
	var (
		r       StoredResult
		runID   string
		opts    string
		items   string
		created sql.NullTime
	)
	err := row.Scan(&r.ID, &runID, &r.Slot, &r.Player, &r.SeedID, &opts, &items, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrResultNotFound
	}
	if err != nil {
		return nil, err
	}

	if r.RunID, err = uuid.Parse(runID); err != nil {
		return nil, fmt.Errorf("result %d has a bad run id: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(opts), &r.Options); err != nil {
		return nil, fmt.Errorf("result %d has bad options: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(items), &r.StartingItems); err != nil {
		return nil, fmt.Errorf("result %d has bad starting items: %w", r.ID, err)
	}
	if created.Valid {
		r.CreatedAt = created.Time
	}

	r.Locations, err = d.placements(r.ID)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (d *Database) placements(resultID int64) (map[string][]output.Entry, error) {
	rows, err := d.db.Query(d.qb.Build(`
		SELECT category, location_id, location_name, item_id, item_name, player_name
		FROM placements WHERE result_id = ? ORDER BY id
	`), resultID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]output.Entry)
	for rows.Next() {
		var category string
		var e output.Entry
		if err := rows.Scan(&category, &e.LocationID, &e.LocationName, &e.ItemID, &e.ItemName, &e.PlayerName); err != nil {
			return nil, err
		}
		out[category] = append(out[category], e)
	}
	return out, rows.Err()
}
