package logic

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lawnchairsociety/ffxlogic/internal/items"
)

// Area is a world area with its battle tier and the region that marks the
// first visit.
type Area struct {
	Name       string `yaml:"name"`
	Tier       int    `yaml:"tier"`
	FirstVisit string `yaml:"first_visit"`
}

// RegionAccessMinTier is the lowest tier whose access rule also demands
// progress into an area of a nearby lower tier.
const RegionAccessMinTier = 5

// AbilityRulePrefix marks data-driven ability rules ("Ability: Steal").
const AbilityRulePrefix = "Ability: "

// ErrUnknownRule is returned for rule names no constructor handles.
var ErrUnknownRule = errors.New("unknown rule")

// ErrUnknownItem is returned when a rule references an item the catalog
// does not declare.
var ErrUnknownItem = errors.New("unknown item")

// Config is the per-player configuration predicates close over.
type Config struct {
	// Difficulty widens the tier window of level gates.
	Difficulty int
	// SphereGrid enables ability token requirements.
	SphereGrid bool
	Areas      []Area
	Catalog    *items.Catalog
}

// Library constructs predicates for one player's configuration.
type Library struct {
	cfg   Config
	areas map[string]Area
}

// NewLibrary validates cfg and returns a predicate library for it.
func NewLibrary(cfg Config) (*Library, error) {
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("logic config has no item catalog")
	}
	if cfg.Difficulty < 0 {
		return nil, fmt.Errorf("logic difficulty %d is negative", cfg.Difficulty)
	}

	l := &Library{cfg: cfg, areas: make(map[string]Area, len(cfg.Areas))}
	for _, area := range cfg.Areas {
		if _, dup := l.areas[area.Name]; dup {
			return nil, fmt.Errorf("area %q declared twice", area.Name)
		}
		if _, ok := cfg.Catalog.RegionUnlock(area.Name); !ok {
			return nil, fmt.Errorf("%w: no region unlock for area %q", ErrUnknownItem, area.Name)
		}
		l.areas[area.Name] = area
	}

	for id := RuleID(0); id < numRuleIDs; id++ {
		spec := ruleTable[id]
		if spec.needs == "" {
			continue
		}
		if _, ok := cfg.Catalog.PartyMember(spec.needs); !ok {
			return nil, fmt.Errorf("%w: rule %q needs party member %q", ErrUnknownItem, spec.name, spec.needs)
		}
	}
	if _, ok := cfg.Catalog.PartyMember("Yuna"); !ok {
		return nil, fmt.Errorf("%w: summon rules need party member %q", ErrUnknownItem, "Yuna")
	}

	return l, nil
}

// Catalog returns the item catalog the library validates against.
func (l *Library) Catalog() *items.Catalog {
	return l.cfg.Catalog
}

// Difficulty returns the configured difficulty.
func (l *Library) Difficulty() int {
	return l.cfg.Difficulty
}

// Areas returns the configured areas.
func (l *Library) Areas() []Area {
	out := make([]Area, len(l.cfg.Areas))
	copy(out, l.cfg.Areas)
	return out
}

// Area returns an area by name.
func (l *Library) Area(name string) (Area, bool) {
	a, ok := l.areas[name]
	return a, ok
}

// LevelWindow returns the first-visit regions of areas whose tier lies in
// [tier-difficulty, tier), in area declaration order.
func (l *Library) LevelWindow(tier int) []string {
	var regions []string
	for _, area := range l.cfg.Areas {
		if area.Tier < tier && area.Tier >= tier-l.cfg.Difficulty {
			regions = append(regions, area.FirstVisit)
		}
	}
	return regions
}

func anyRegion(regions []string) Predicate {
	list := clone(regions)
	if len(list) == 0 {
		return Never
	}
	return func(s State) bool {
		for _, name := range list {
			if s.CanReachRegion(name) {
				return true
			}
		}
		return false
	}
}

// LevelGate is satisfied once any area in the tier window below tier has
// been reached.
func (l *Library) LevelGate(tier int) Predicate {
	return anyRegion(l.LevelWindow(tier))
}

// RegionAccess requires the area's region unlock and, from tier
// RegionAccessMinTier up, a reached area in the tier window below it.
func (l *Library) RegionAccess(area string) (Predicate, error) {
	a, ok := l.areas[area]
	if !ok {
		return nil, fmt.Errorf("%w: no area %q", ErrUnknownRule, area)
	}
	unlock, _ := l.cfg.Catalog.RegionUnlock(area)
	if a.Tier < RegionAccessMinTier {
		return Has(unlock), nil
	}
	return And(Has(unlock), l.LevelGate(a.Tier)), nil
}

// MinPartySize requires n distinct playable characters.
func (l *Library) MinPartySize(n int) Predicate {
	return HasFromListUnique(l.cfg.Catalog.Roster(), n)
}

// MinSwimmers requires n distinct characters able to fight underwater.
func (l *Library) MinSwimmers(n int) Predicate {
	return HasFromListUnique(l.cfg.Catalog.Swimmers(), n)
}

// MinSummons requires Yuna and n distinct aeons.
func (l *Library) MinSummons(n int) Predicate {
	yuna, _ := l.cfg.Catalog.PartyMember("Yuna")
	return And(Has(yuna), HasFromListUnique(l.cfg.Catalog.Aeons(), n))
}

// StatTotal is satisfied when at least numCharacters characters have an
// aggregate stat value above threshold. Each stat token contributes its
// value once per held copy.
func (l *Library) StatTotal(numCharacters, threshold int) Predicate {
	if numCharacters <= 0 {
		return Always
	}
	catalog := l.cfg.Catalog
	return func(s State) bool {
		totals := make(map[string]int)
		for name, count := range s.HeldItemCounts() {
			if count <= 0 {
				continue
			}
			if character, value, ok := catalog.StatValue(name); ok {
				totals[character] += value * count
			}
		}
		above := 0
		for _, total := range totals {
			if total > threshold {
				above++
			}
		}
		return above >= numCharacters
	}
}

// AbilityAvailable is Always when the sphere grid is not randomized.
// Otherwise some character must be unlocked and hold that character's token
// for the ability.
func (l *Library) AbilityAvailable(ability string) (Predicate, error) {
	var options []Predicate
	for _, character := range l.cfg.Catalog.SphereGridCharacters() {
		token, ok := l.cfg.Catalog.Ability(character, ability)
		if !ok {
			continue
		}
		member, _ := l.cfg.Catalog.PartyMember(character)
		options = append(options, HasAll(token, member))
	}
	if len(options) == 0 {
		return nil, fmt.Errorf("%w: no character can learn ability %q", ErrUnknownItem, ability)
	}
	if !l.cfg.SphereGrid {
		return Always, nil
	}
	return Or(options...), nil
}

// Item returns name if the catalog declares it.
func (l *Library) Item(name string) (string, error) {
	if !l.cfg.Catalog.Has(name) {
		return "", fmt.Errorf("%w: %q", ErrUnknownItem, name)
	}
	return name, nil
}

// PartyMember returns the unlock item for a character or aeon.
func (l *Library) PartyMember(character string) (string, error) {
	name, ok := l.cfg.Catalog.PartyMember(character)
	if !ok {
		return "", fmt.Errorf("%w: no party member %q", ErrUnknownItem, character)
	}
	return name, nil
}

// Resolve maps a data-driven rule name to a predicate: static rule names go
// through the RuleID table, area names become RegionAccess and
// "Ability: X" becomes AbilityAvailable.
func (l *Library) Resolve(name string) (Predicate, error) {
	if id, ok := ParseRuleID(name); ok {
		return l.Rule(id), nil
	}
	if _, ok := l.areas[name]; ok {
		return l.RegionAccess(name)
	}
	if ability, ok := strings.CutPrefix(name, AbilityRulePrefix); ok {
		return l.AbilityAvailable(ability)
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownRule, name)
}
