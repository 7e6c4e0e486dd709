// Package arena holds the Monster Arena associations: which captures make
// up each conquest, which reward treasure and arena boss each conquest or
// creation grants, and what each original creation requires.
package arena

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Conquest is an area or species conquest.
type Conquest struct {
	Name string `yaml:"name"`
	// Reward is the treasure sequence granted for the conquest.
	Reward int `yaml:"reward"`
	// Unlocks is the arena boss sequence the conquest opens.
	Unlocks  int   `yaml:"unlocks"`
	Captures []int `yaml:"captures"`
}

// Creation is an original creation. Exactly one requirement is set.
type Creation struct {
	Name             string `yaml:"name"`
	Reward           int    `yaml:"reward"`
	Unlocks          int    `yaml:"unlocks"`
	AreaConquests    int    `yaml:"area_conquests"`
	SpeciesConquests int    `yaml:"species_conquests"`
	AllCaptures      bool   `yaml:"all_captures"`
	Captures         []int  `yaml:"captures"`
}

// Requirement describes which kind of requirement a creation uses.
type Requirement int

const (
	RequireAreaConquests Requirement = iota + 1
	RequireSpeciesConquests
	RequireAllCaptures
	RequireCaptures
)

// Requirement returns the creation's requirement kind, or 0 when the entry
// sets none or several.
func (c *Creation) Requirement() Requirement {
	var kinds []Requirement
	if c.AreaConquests > 0 {
		kinds = append(kinds, RequireAreaConquests)
	}
	if c.SpeciesConquests > 0 {
		kinds = append(kinds, RequireSpeciesConquests)
	}
	if c.AllCaptures {
		kinds = append(kinds, RequireAllCaptures)
	}
	if len(c.Captures) > 0 {
		kinds = append(kinds, RequireCaptures)
	}
	if len(kinds) != 1 {
		return 0
	}
	return kinds[0]
}

// Table is the arena.yaml structure.
type Table struct {
	AreaConquests      []Conquest `yaml:"area_conquests"`
	SpeciesConquests   []Conquest `yaml:"species_conquests"`
	Creations          []Creation `yaml:"creations"`
	TenCreationsReward int        `yaml:"ten_creations_reward"`
	NemesisReward      int        `yaml:"nemesis_reward"`
	NemesisBoss        int        `yaml:"nemesis_boss"`
}

// TenCreationsThreshold is the number of conquest rewards the ten-creations
// reward needs.
const TenCreationsThreshold = 10

// Parse decodes arena.yaml content and validates it.
func Parse(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse arena YAML: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// LoadFromYAML reads and decodes an arena file.
func LoadFromYAML(filename string) (*Table, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read arena file: %w", err)
	}
	return Parse(data)
}

// Validate checks rewards and bosses are unique and that creation
// requirements are well formed.
func (t *Table) Validate() error {
	rewards := make(map[int]string)
	bosses := make(map[int]string)
	claim := func(name string, reward, boss int) error {
		if prev, dup := rewards[reward]; dup {
			return fmt.Errorf("arena reward %d used by %q and %q", reward, prev, name)
		}
		if prev, dup := bosses[boss]; dup {
			return fmt.Errorf("arena boss %d unlocked by %q and %q", boss, prev, name)
		}
		rewards[reward] = name
		bosses[boss] = name
		return nil
	}

	for _, group := range [][]Conquest{t.AreaConquests, t.SpeciesConquests} {
		for _, c := range group {
			if len(c.Captures) == 0 {
				return fmt.Errorf("conquest %q has no captures", c.Name)
			}
			if err := claim(c.Name, c.Reward, c.Unlocks); err != nil {
				return err
			}
		}
	}

	for _, c := range t.Creations {
		switch c.Requirement() {
		case RequireAreaConquests:
			if c.AreaConquests > len(t.AreaConquests) {
				return fmt.Errorf("creation %q needs %d area conquests, only %d exist", c.Name, c.AreaConquests, len(t.AreaConquests))
			}
		case RequireSpeciesConquests:
			if c.SpeciesConquests > len(t.SpeciesConquests) {
				return fmt.Errorf("creation %q needs %d species conquests, only %d exist", c.Name, c.SpeciesConquests, len(t.SpeciesConquests))
			}
		case RequireAllCaptures, RequireCaptures:
		default:
			return fmt.Errorf("creation %q must set exactly one requirement", c.Name)
		}
		if err := claim(c.Name, c.Reward, c.Unlocks); err != nil {
			return err
		}
	}

	if _, dup := rewards[t.TenCreationsReward]; dup {
		return fmt.Errorf("ten creations reward %d is also a conquest reward", t.TenCreationsReward)
	}
	if _, ok := bosses[t.NemesisBoss]; t.NemesisBoss != 0 && !ok {
		return fmt.Errorf("nemesis boss %d is not unlocked by any conquest or creation", t.NemesisBoss)
	}
	return nil
}

// Conquests returns the area conquests followed by the species conquests.
func (t *Table) Conquests() []Conquest {
	out := make([]Conquest, 0, len(t.AreaConquests)+len(t.SpeciesConquests))
	out = append(out, t.AreaConquests...)
	return append(out, t.SpeciesConquests...)
}

// ConquestRewards returns the reward sequences of every conquest.
func (t *Table) ConquestRewards() []int {
	var out []int
	for _, c := range t.Conquests() {
		out = append(out, c.Reward)
	}
	return out
}

// CreationRewards returns the reward sequences of every creation.
func (t *Table) CreationRewards() []int {
	out := make([]int, 0, len(t.Creations))
	for _, c := range t.Creations {
		out = append(out, c.Reward)
	}
	return out
}

// Bosses returns every arena boss sequence unlocked by a conquest or
// creation.
func (t *Table) Bosses() []int {
	var out []int
	for _, c := range t.Conquests() {
		out = append(out, c.Unlocks)
	}
	for _, c := range t.Creations {
		out = append(out, c.Unlocks)
	}
	return out
}

// Captures returns every capture sequence mentioned in an area conquest,
// in table order without duplicates.
func (t *Table) Captures() []int {
	seen := make(map[int]bool)
	var out []int
	for _, c := range t.AreaConquests {
		for _, seq := range c.Captures {
			if !seen[seq] {
				seen[seq] = true
				out = append(out, seq)
			}
		}
	}
	return out
}
