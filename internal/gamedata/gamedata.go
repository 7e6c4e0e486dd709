// Package gamedata loads the static game tables: locations, items, the
// region table and the Monster Arena associations. The tables are embedded
// in the binary; a data directory may override any of them.
package gamedata

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/lawnchairsociety/ffxlogic/internal/arena"
	"github.com/lawnchairsociety/ffxlogic/internal/items"
	"github.com/lawnchairsociety/ffxlogic/internal/location"
	"github.com/lawnchairsociety/ffxlogic/internal/region"
)

//go:embed data/*.yaml
var embedded embed.FS

// File names inside a data directory.
const (
	LocationsFile = "locations.yaml"
	ItemsFile     = "items.yaml"
	RegionsFile   = "regions.yaml"
	ArenaFile     = "arena.yaml"
)

// Data is the loaded, validated game data. It is read-only after Load and
// shared by every player's world.
type Data struct {
	Locations *location.Registry
	Items     *items.Catalog
	Regions   *region.Table
	Arena     *arena.Table
}

// Source selects where tables are read from. Files missing from Dir fall
// back to the embedded copy.
type Source struct {
	Dir string
}

func (s Source) read(name string) ([]byte, error) {
	if s.Dir != "" {
		data, err := os.ReadFile(filepath.Join(s.Dir, name))
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
	}
	data, err := embedded.ReadFile("data/" + name)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded %s: %w", name, err)
	}
	return data, nil
}

// Load reads every table from the source and cross-checks them.
func (s Source) Load() (*Data, error) {
	raw, err := s.read(LocationsFile)
	if err != nil {
		return nil, err
	}
	locFile, err := location.Parse(raw)
	if err != nil {
		return nil, err
	}
	registry, err := locFile.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build location registry: %w", err)
	}

	raw, err = s.read(ItemsFile)
	if err != nil {
		return nil, err
	}
	itemFile, err := items.Parse(raw)
	if err != nil {
		return nil, err
	}
	catalog, err := itemFile.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build item catalog: %w", err)
	}

	raw, err = s.read(RegionsFile)
	if err != nil {
		return nil, err
	}
	regions, err := region.Parse(raw)
	if err != nil {
		return nil, err
	}

	raw, err = s.read(ArenaFile)
	if err != nil {
		return nil, err
	}
	arenaTable, err := arena.Parse(raw)
	if err != nil {
		return nil, err
	}

	d := &Data{Locations: registry, Items: catalog, Regions: regions, Arena: arenaTable}
	if err := d.check(); err != nil {
		return nil, err
	}
	return d, nil
}

// Load reads the embedded tables.
func Load() (*Data, error) {
	return Source{}.Load()
}

// check verifies references between tables that the per-table loaders
// cannot see.
func (d *Data) check() error {
	for _, a := range d.Regions.Areas {
		if _, ok := d.Items.RegionUnlock(a.Name); !ok {
			return fmt.Errorf("area %q has no region unlock item", a.Name)
		}
	}

	for _, c := range d.Arena.Conquests() {
		if _, ok := d.Locations.Resolve(location.Treasure, c.Reward); !ok {
			return fmt.Errorf("conquest %q: reward treasure %d not found", c.Name, c.Reward)
		}
		if _, ok := d.Locations.Resolve(location.Boss, c.Unlocks); !ok {
			return fmt.Errorf("conquest %q: arena boss %d not found", c.Name, c.Unlocks)
		}
	}
	for _, c := range d.Arena.Creations {
		if _, ok := d.Locations.Resolve(location.Treasure, c.Reward); !ok {
			return fmt.Errorf("creation %q: reward treasure %d not found", c.Name, c.Reward)
		}
		if _, ok := d.Locations.Resolve(location.Boss, c.Unlocks); !ok {
			return fmt.Errorf("creation %q: arena boss %d not found", c.Name, c.Unlocks)
		}
	}
	return nil
}
