// Package output projects a player's world and its placements into the
// result file the game client loads.
package output

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/blake2b"

	"github.com/lawnchairsociety/ffxlogic/internal/location"
	"github.com/lawnchairsociety/ffxlogic/internal/world"
)

// StartingItemsKey is the result file key of the pre-granted item codes.
const StartingItemsKey = "StartingItems"

// locationIDMask keeps the sequence bits of a stable id.
const locationIDMask = 0x0FFF

// Misc is the metadata block of a result file.
type Misc struct {
	SeedID               string `json:"SeedId"`
	GoalRequirement      int    `json:"GoalRequirement"`
	RequiredPartyMembers int    `json:"RequiredPartyMembers"`
	RequiredPrimers      int    `json:"RequiredPrimers"`
	APMultiplier         int    `json:"APMultiplier"`
}

// Entry is one filled location.
type Entry struct {
	LocationName string `json:"location_name"`
	LocationID   int    `json:"location_id"`
	// ItemID is 0 when the item belongs to another player.
	ItemID     int    `json:"item_id"`
	ItemName   string `json:"item_name"`
	PlayerName string `json:"player_name"`
}

// Result is one player's result file.
type Result struct {
	Slot          int
	Misc          Misc
	Locations     map[location.Category][]Entry
	StartingItems []int
}

// SeedID derives a seed id from the host seed name and a slot.
func SeedID(seed string, slot int) string {
	sum := blake2b.Sum256([]byte(fmt.Sprintf("%s:%d", seed, slot)))
	return "FFX_" + hex.EncodeToString(sum[:10])
}

// Project builds the result for one world. names maps slots to player
// names. Every placement must name a non-event location of the world.
func Project(w *world.World, placements Assignment, names map[int]string, seedID string, starting []string) (*Result, error) {
	opts := w.Options()
	r := &Result{
		Slot: w.Slot(),
		Misc: Misc{
			SeedID:               seedID,
			GoalRequirement:      int(opts.GoalRequirement),
			RequiredPartyMembers: opts.RequiredPartyMembers,
			RequiredPrimers:      opts.RequiredPrimers,
			APMultiplier:         opts.APMultiplier,
		},
		Locations: make(map[location.Category][]Entry, len(location.Categories)),
	}
	for _, c := range location.Categories {
		r.Locations[c] = []Entry{}
	}

	used := 0
	for _, c := range w.Graph().Checks() {
		if c.Event {
			continue
		}
		p, ok := placements[c.Name]
		if !ok {
			continue
		}
		used++

		owner, ok := names[p.Player]
		if !ok {
			return nil, fmt.Errorf("location %q: unknown player slot %d", c.Name, p.Player)
		}
		itemID := 0
		if p.Player == w.Slot() {
			item, ok := w.Data().Items.ByName(p.Item)
			if !ok {
				return nil, fmt.Errorf("location %q: unknown item %q", c.Name, p.Item)
			}
			itemID = item.Code
		}
		id := c.Address()
		r.Locations[id.Category()] = append(r.Locations[id.Category()], Entry{
			LocationName: c.Name,
			LocationID:   int(id) & locationIDMask,
			ItemID:       itemID,
			ItemName:     p.Item,
			PlayerName:   owner,
		})
	}
	if used != len(placements) {
		for name := range placements {
			if c, ok := w.Graph().Check(name); !ok || c.Event {
				return nil, fmt.Errorf("placement for %q: not a location of slot %d", name, w.Slot())
			}
		}
	}

	codes, err := w.ItemCodes(starting)
	if err != nil {
		return nil, fmt.Errorf("starting items: %w", err)
	}
	r.StartingItems = codes
	return r, nil
}

// Count returns the number of filled locations.
func (r *Result) Count() int {
	n := 0
	for _, entries := range r.Locations {
		n += len(entries)
	}
	return n
}

// MarshalJSON renders the flat layout the game loader reads: the metadata
// fields, one list per category and the starting item codes.
func (r *Result) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"SeedId":               r.Misc.SeedID,
		"GoalRequirement":      r.Misc.GoalRequirement,
		"RequiredPartyMembers": r.Misc.RequiredPartyMembers,
		"RequiredPrimers":      r.Misc.RequiredPrimers,
		"APMultiplier":         r.Misc.APMultiplier,
	}
	for c, entries := range r.Locations {
		out[c.String()] = entries
	}
	starting := r.StartingItems
	if starting == nil {
		starting = []int{}
	}
	out[StartingItemsKey] = starting
	return json.Marshal(out)
}

// FileName returns the result file name.
func (r *Result) FileName() string {
	return r.Misc.SeedID + ".json"
}

// WriteFile writes the result into dir and returns its path.
func (r *Result) WriteFile(dir string) (string, error) {
	raw, err := json.MarshalIndent(r, "", "    ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(dir, r.FileName())
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("failed to write result: %w", err)
	}
	return path, nil
}
