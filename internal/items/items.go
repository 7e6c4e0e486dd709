// Package items holds the item catalog: party members, region unlocks, key
// items, equipment, ability tokens, filler and traps.
package items

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Kind classifies items by the section they are declared in.
type Kind int

const (
	KindPartyMember Kind = iota + 1
	KindRegionUnlock
	KindKeyItem
	KindEquipment
	KindStatAbility
	KindSkillAbility
	KindFiller
	KindTrap
)

func (k Kind) String() string {
	switch k {
	case KindPartyMember:
		return "party_member"
	case KindRegionUnlock:
		return "region_unlock"
	case KindKeyItem:
		return "key_item"
	case KindEquipment:
		return "equipment"
	case KindStatAbility:
		return "stat_ability"
	case KindSkillAbility:
		return "skill_ability"
	case KindFiller:
		return "filler"
	case KindTrap:
		return "trap"
	default:
		return "unknown"
	}
}

// Progression reports whether items of this kind can unlock logic.
func (k Kind) Progression() bool {
	switch k {
	case KindFiller, KindTrap:
		return false
	default:
		return true
	}
}

// Role distinguishes playable characters from aeons among party members.
type Role string

const (
	RoleCharacter Role = "character"
	RoleAeon      Role = "aeon"
)

// Item is a catalog entry.
type Item struct {
	Code int
	Name string
	Kind Kind

	// Party member attributes.
	Role       Role
	Swimmer    bool
	SphereGrid bool

	// Character names the owner of a party member, stat or skill token.
	Character string
	// Value is the stat contribution of one stat token.
	Value int
	// Ability is the skill granted by a skill token.
	Ability string
	// Area is the world area a region unlock opens.
	Area string
	// Primer marks the Al Bhed primers.
	Primer bool
}

// Definition is one item entry in items.yaml.
type Definition struct {
	Code       int    `yaml:"code"`
	Name       string `yaml:"name"`
	Role       Role   `yaml:"role"`
	Character  string `yaml:"character"`
	Swimmer    bool   `yaml:"swimmer"`
	SphereGrid bool   `yaml:"sphere_grid"`
	Value      int    `yaml:"value"`
	Ability    string `yaml:"ability"`
	Area       string `yaml:"area"`
	Primer     bool   `yaml:"primer"`
}

// File represents the items.yaml structure.
type File struct {
	PartyMembers   []Definition `yaml:"party_members"`
	RegionUnlocks  []Definition `yaml:"region_unlocks"`
	KeyItems       []Definition `yaml:"key_items"`
	Equipment      []Definition `yaml:"equipment"`
	StatAbilities  []Definition `yaml:"stat_abilities"`
	SkillAbilities []Definition `yaml:"skill_abilities"`
	Filler         []Definition `yaml:"filler"`
	Traps          []Definition `yaml:"traps"`
}

// Parse decodes items.yaml content.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse items YAML: %w", err)
	}
	return &f, nil
}

// LoadFromYAML reads and decodes an items file.
func LoadFromYAML(filename string) (*File, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read items file: %w", err)
	}
	return Parse(data)
}

// Build validates the file and returns the catalog.
func (f *File) Build() (*Catalog, error) {
	sections := []struct {
		kind Kind
		defs []Definition
	}{
		{KindPartyMember, f.PartyMembers},
		{KindRegionUnlock, f.RegionUnlocks},
		{KindKeyItem, f.KeyItems},
		{KindEquipment, f.Equipment},
		{KindStatAbility, f.StatAbilities},
		{KindSkillAbility, f.SkillAbilities},
		{KindFiller, f.Filler},
		{KindTrap, f.Traps},
	}

	var all []*Item
	for _, section := range sections {
		for _, def := range section.defs {
			item, err := createItemFromDefinition(section.kind, def)
			if err != nil {
				return nil, err
			}
			all = append(all, item)
		}
	}
	return NewCatalog(all)
}

func createItemFromDefinition(kind Kind, def Definition) (*Item, error) {
	if def.Name == "" {
		return nil, fmt.Errorf("%s item 0x%04X has no name", kind, def.Code)
	}
	item := &Item{
		Code:       def.Code,
		Name:       def.Name,
		Kind:       kind,
		Role:       def.Role,
		Swimmer:    def.Swimmer,
		SphereGrid: def.SphereGrid,
		Character:  def.Character,
		Value:      def.Value,
		Ability:    def.Ability,
		Area:       def.Area,
		Primer:     def.Primer,
	}

	switch kind {
	case KindPartyMember:
		if item.Role != RoleCharacter && item.Role != RoleAeon {
			return nil, fmt.Errorf("party member %q: unknown role %q", item.Name, item.Role)
		}
		if item.Character == "" {
			return nil, fmt.Errorf("party member %q: missing character", item.Name)
		}
	case KindRegionUnlock:
		if item.Area == "" {
			return nil, fmt.Errorf("region unlock %q: missing area", item.Name)
		}
	case KindStatAbility:
		if item.Character == "" || item.Value <= 0 {
			return nil, fmt.Errorf("stat ability %q: needs a character and a positive value", item.Name)
		}
	case KindSkillAbility:
		if item.Character == "" || item.Ability == "" {
			return nil, fmt.Errorf("skill ability %q: needs a character and an ability", item.Name)
		}
	}
	return item, nil
}

// Catalog is the read-only item table shared by every world.
type Catalog struct {
	all     []*Item
	byName  map[string]*Item
	byCode  map[int]*Item
	unlocks map[string]*Item
	members map[string]*Item
	skills  map[string]*Item
}

// NewCatalog indexes items, rejecting duplicate names or codes.
func NewCatalog(all []*Item) (*Catalog, error) {
	c := &Catalog{
		byName:  make(map[string]*Item, len(all)),
		byCode:  make(map[int]*Item, len(all)),
		unlocks: make(map[string]*Item),
		members: make(map[string]*Item),
		skills:  make(map[string]*Item),
	}
	for _, item := range all {
		if prev, ok := c.byName[item.Name]; ok {
			return nil, fmt.Errorf("duplicate item name %q (0x%04X and 0x%04X)", item.Name, prev.Code, item.Code)
		}
		if prev, ok := c.byCode[item.Code]; ok {
			return nil, fmt.Errorf("duplicate item code 0x%04X (%q and %q)", item.Code, prev.Name, item.Name)
		}
		c.byName[item.Name] = item
		c.byCode[item.Code] = item
		c.all = append(c.all, item)

		switch item.Kind {
		case KindRegionUnlock:
			c.unlocks[item.Area] = item
		case KindPartyMember:
			c.members[item.Character] = item
		case KindSkillAbility:
			c.skills[skillKey(item.Character, item.Ability)] = item
		}
	}
	return c, nil
}

func skillKey(character, ability string) string {
	return character + "\x00" + ability
}

// ByName returns the item with the given name.
func (c *Catalog) ByName(name string) (*Item, bool) {
	item, ok := c.byName[name]
	return item, ok
}

// ByCode returns the item with the given code.
func (c *Catalog) ByCode(code int) (*Item, bool) {
	item, ok := c.byCode[code]
	return item, ok
}

// Has reports whether an item with that name exists.
func (c *Catalog) Has(name string) bool {
	_, ok := c.byName[name]
	return ok
}

// All returns every item in declaration order.
func (c *Catalog) All() []*Item {
	result := make([]*Item, len(c.all))
	copy(result, c.all)
	return result
}

// OfKind returns the items of one kind in declaration order.
func (c *Catalog) OfKind(kind Kind) []*Item {
	var result []*Item
	for _, item := range c.all {
		if item.Kind == kind {
			result = append(result, item)
		}
	}
	return result
}

func (c *Catalog) names(keep func(*Item) bool) []string {
	var result []string
	for _, item := range c.all {
		if keep(item) {
			result = append(result, item.Name)
		}
	}
	return result
}

// Roster returns the party member item names of the playable characters.
func (c *Catalog) Roster() []string {
	return c.names(func(i *Item) bool { return i.Kind == KindPartyMember && i.Role == RoleCharacter })
}

// Aeons returns the summon unlock item names.
func (c *Catalog) Aeons() []string {
	return c.names(func(i *Item) bool { return i.Kind == KindPartyMember && i.Role == RoleAeon })
}

// PartyMembers returns every party member item name, characters first.
func (c *Catalog) PartyMembers() []string {
	return append(c.Roster(), c.Aeons()...)
}

// Swimmers returns the party member item names of characters that can
// fight underwater.
func (c *Catalog) Swimmers() []string {
	return c.names(func(i *Item) bool { return i.Kind == KindPartyMember && i.Swimmer })
}

// SphereGridCharacters returns the characters owning ability tokens.
func (c *Catalog) SphereGridCharacters() []string {
	var result []string
	for _, item := range c.all {
		if item.Kind == KindPartyMember && item.SphereGrid {
			result = append(result, item.Character)
		}
	}
	return result
}

// Primers returns the Al Bhed primer names in order.
func (c *Catalog) Primers() []string {
	return c.names(func(i *Item) bool { return i.Primer })
}

// PartyMember returns the unlock item name for a character or aeon.
func (c *Catalog) PartyMember(character string) (string, bool) {
	item, ok := c.members[character]
	if !ok {
		return "", false
	}
	return item.Name, true
}

// RegionUnlock returns the unlock item name for a world area.
func (c *Catalog) RegionUnlock(area string) (string, bool) {
	item, ok := c.unlocks[area]
	if !ok {
		return "", false
	}
	return item.Name, true
}

// RegionUnlocks returns every region unlock keyed by area.
func (c *Catalog) RegionUnlocks() map[string]string {
	result := make(map[string]string, len(c.unlocks))
	for area, item := range c.unlocks {
		result[area] = item.Name
	}
	return result
}

// Ability returns the token granting ability to character.
func (c *Catalog) Ability(character, ability string) (string, bool) {
	item, ok := c.skills[skillKey(character, ability)]
	if !ok {
		return "", false
	}
	return item.Name, true
}

// Abilities returns the distinct ability names across all skill tokens.
func (c *Catalog) Abilities() []string {
	seen := make(map[string]bool)
	var result []string
	for _, item := range c.all {
		if item.Kind == KindSkillAbility && !seen[item.Ability] {
			seen[item.Ability] = true
			result = append(result, item.Ability)
		}
	}
	sort.Strings(result)
	return result
}

// StatValue returns the owning character and per-copy value of a stat token.
func (c *Catalog) StatValue(name string) (character string, value int, ok bool) {
	item, found := c.byName[name]
	if !found || item.Kind != KindStatAbility {
		return "", 0, false
	}
	return item.Character, item.Value, true
}
