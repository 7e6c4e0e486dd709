package location

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SphereGridCharacters are the characters with a randomizable sphere grid,
// in the order their node sequences are allocated.
var SphereGridCharacters = []string{"Tidus", "Yuna", "Auron", "Kimahri", "Wakka", "Lulu", "Rikku"}

// SphereGridNodes is the number of grid nodes tracked per character.
const SphereGridNodes = 100

// SphereGridName returns the display name of a character's grid node.
func SphereGridName(character string, node int) string {
	return fmt.Sprintf("%s: Sphere Grid Node %d", character, node)
}

// Definition is one location entry in locations.yaml.
type Definition struct {
	Seq      int    `yaml:"seq"`
	Name     string `yaml:"name"`
	Missable bool   `yaml:"missable"`
}

// File represents the locations.yaml structure. Sphere grid nodes are
// generated rather than listed.
type File struct {
	Treasure      []Definition `yaml:"treasure"`
	Boss          []Definition `yaml:"boss"`
	PartyMember   []Definition `yaml:"party_member"`
	Overdrive     []Definition `yaml:"overdrive"`
	OverdriveMode []Definition `yaml:"overdrive_mode"`
	Other         []Definition `yaml:"other"`
	Recruit       []Definition `yaml:"recruit"`
	Capture       []Definition `yaml:"capture"`
}

// Parse decodes locations.yaml content.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse locations YAML: %w", err)
	}
	return &f, nil
}

// LoadFromYAML reads and decodes a locations file.
func LoadFromYAML(filename string) (*File, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read locations file: %w", err)
	}
	return Parse(data)
}

// Locations flattens the file into location records, appending the
// generated sphere grid nodes.
func (f *File) Locations() ([]Location, error) {
	tables := []struct {
		category Category
		defs     []Definition
	}{
		{Treasure, f.Treasure},
		{Boss, f.Boss},
		{PartyMember, f.PartyMember},
		{Overdrive, f.Overdrive},
		{OverdriveMode, f.OverdriveMode},
		{Other, f.Other},
		{Recruit, f.Recruit},
		{Capture, f.Capture},
	}

	var result []Location
	for _, table := range tables {
		for _, def := range table.defs {
			if def.Seq < 0 || def.Seq > MaxSequence {
				return nil, fmt.Errorf("%s location %q: sequence %d out of range", table.category, def.Name, def.Seq)
			}
			result = append(result, Location{
				ID:       NewID(table.category, def.Seq),
				Name:     def.Name,
				Missable: def.Missable,
			})
		}
	}

	for i, character := range SphereGridCharacters {
		for node := 0; node < SphereGridNodes; node++ {
			result = append(result, Location{
				ID:   NewID(SphereGrid, node+i*SphereGridNodes),
				Name: SphereGridName(character, node),
			})
		}
	}

	return result, nil
}

// Build returns the registry for the file.
func (f *File) Build() (*Registry, error) {
	locations, err := f.Locations()
	if err != nil {
		return nil, err
	}
	return NewRegistry(locations)
}
