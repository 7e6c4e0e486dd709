package region

import (
	"fmt"
	"os"

	"github.com/lawnchairsociety/ffxlogic/internal/location"
	"github.com/lawnchairsociety/ffxlogic/internal/logic"
	"gopkg.in/yaml.v3"
)

// RootName is the entry region every graph starts from.
const RootName = "Menu"

// Record is one region entry of the declarative region table.
type Record struct {
	ID             int      `yaml:"id"`
	Name           string   `yaml:"name"`
	Treasures      []int    `yaml:"treasures"`
	Bosses         []int    `yaml:"bosses"`
	PartyMembers   []int    `yaml:"party_members"`
	Overdrives     []int    `yaml:"overdrives"`
	OverdriveModes []int    `yaml:"overdrive_modes"`
	Other          []int    `yaml:"other"`
	Recruits       []int    `yaml:"recruits"`
	Captures       []int    `yaml:"captures"`
	LeadsTo        []int    `yaml:"leads_to"`
	Rules          []string `yaml:"rules"`
}

// LocationRef is a (category, sequence list) pair of a record.
type LocationRef struct {
	Category  location.Category
	Sequences []int
}

// LocationRefs returns the record's location references in category order.
func (r *Record) LocationRefs() []LocationRef {
	refs := []LocationRef{
		{location.Treasure, r.Treasures},
		{location.Boss, r.Bosses},
		{location.PartyMember, r.PartyMembers},
		{location.Overdrive, r.Overdrives},
		{location.OverdriveMode, r.OverdriveModes},
		{location.Other, r.Other},
		{location.Recruit, r.Recruits},
		{location.Capture, r.Captures},
	}
	out := refs[:0]
	for _, ref := range refs {
		if len(ref.Sequences) > 0 {
			out = append(out, ref)
		}
	}
	return out
}

// Table is the regions.yaml structure: the battle-tier areas and the region
// records.
type Table struct {
	Areas   []logic.Area `yaml:"areas"`
	Regions []Record     `yaml:"regions"`
}

// Parse decodes regions.yaml content and validates it.
func Parse(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse regions YAML: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// LoadFromYAML reads and decodes a region table file.
func LoadFromYAML(filename string) (*Table, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read regions file: %w", err)
	}
	return Parse(data)
}

// Validate checks record ids and names are unique and that every area's
// first-visit region exists. Successor ids are checked by Build.
func (t *Table) Validate() error {
	ids := make(map[int]string, len(t.Regions))
	names := make(map[string]bool, len(t.Regions))
	for _, r := range t.Regions {
		if r.Name == "" {
			return fmt.Errorf("region %d has no name", r.ID)
		}
		if r.Name == RootName {
			return fmt.Errorf("region %d uses the reserved name %q", r.ID, RootName)
		}
		if prev, dup := ids[r.ID]; dup {
			return fmt.Errorf("region id %d used by %q and %q", r.ID, prev, r.Name)
		}
		if names[r.Name] {
			return fmt.Errorf("region name %q declared twice", r.Name)
		}
		ids[r.ID] = r.Name
		names[r.Name] = true
	}

	for _, a := range t.Areas {
		if !names[a.FirstVisit] {
			return fmt.Errorf("area %q: first-visit region %q not in table", a.Name, a.FirstVisit)
		}
	}
	return nil
}

// Record returns the record with the given id.
func (t *Table) Record(id int) (*Record, bool) {
	for i := range t.Regions {
		if t.Regions[i].ID == id {
			return &t.Regions[i], true
		}
	}
	return nil, false
}
