package output

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/ffxlogic/internal/reach"
)

// Placement is the item a fill algorithm assigned to one location.
type Placement struct {
	Item string `yaml:"item"`
	// Player is the slot that owns the item.
	Player int `yaml:"player"`
}

// Assignment maps location names of one slot to their placements.
type Assignment map[string]Placement

// Own returns the placements whose item belongs to slot, in the form the
// reachability sweep takes.
func (a Assignment) Own(slot int) reach.Placement {
	out := make(reach.Placement)
	for loc, p := range a {
		if p.Player == slot {
			out[loc] = p.Item
		}
	}
	return out
}

// PlacementFile is the host's fill result for a whole run.
type PlacementFile struct {
	// Seed is the host seed name. Empty means one is derived.
	Seed          string             `yaml:"seed"`
	Slots         map[int]Assignment `yaml:"slots"`
	StartingItems map[int][]string   `yaml:"starting_items"`
}

// ParsePlacements decodes a placements file.
func ParsePlacements(data []byte) (*PlacementFile, error) {
	var f PlacementFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse placements YAML: %w", err)
	}
	for slot, a := range f.Slots {
		for loc, p := range a {
			if p.Item == "" {
				return nil, fmt.Errorf("slot %d location %q has no item", slot, loc)
			}
			if p.Player <= 0 {
				return nil, fmt.Errorf("slot %d location %q has no owning player", slot, loc)
			}
		}
	}
	return &f, nil
}

// LoadPlacements reads a placements file.
func LoadPlacements(path string) (*PlacementFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read placements file: %w", err)
	}
	return ParsePlacements(data)
}

// Slot returns the assignment of a slot, empty when the file has none.
func (f *PlacementFile) Slot(slot int) Assignment {
	if f == nil || f.Slots[slot] == nil {
		return Assignment{}
	}
	return f.Slots[slot]
}

// StartingItemsFor returns the host's starting items for a slot, or nil
// when the file names none.
func (f *PlacementFile) StartingItemsFor(slot int) []string {
	if f == nil {
		return nil
	}
	return f.StartingItems[slot]
}
