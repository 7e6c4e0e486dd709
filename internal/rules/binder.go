// Package rules layers the location rules that the region table cannot
// express onto a built graph, selects the goal, and fills the exclusion set
// from the player's options.
package rules

import (
	"fmt"
	"log/slog"

	"github.com/lawnchairsociety/ffxlogic/internal/arena"
	"github.com/lawnchairsociety/ffxlogic/internal/exclusion"
	"github.com/lawnchairsociety/ffxlogic/internal/location"
	"github.com/lawnchairsociety/ffxlogic/internal/logic"
	"github.com/lawnchairsociety/ffxlogic/internal/options"
	"github.com/lawnchairsociety/ffxlogic/internal/region"
)

// Config carries everything Bind works on. Graph must not be frozen.
type Config struct {
	Graph      *region.Graph
	Locations  *location.Registry
	Library    *logic.Library
	Arena      *arena.Table
	Options    *options.Options
	Exclusions *exclusion.Set
	Log        *slog.Logger
}

type binder struct {
	Config
}

// Bind applies every extra rule, places the goal event and records the
// exclusions. It returns the goal predicate.
func Bind(cfg Config) (logic.Predicate, error) {
	if cfg.Log == nil {
		cfg.Log = slog.New(slog.DiscardHandler)
	}
	if cfg.Exclusions == nil {
		return nil, fmt.Errorf("rules config has no exclusion set")
	}
	b := &binder{Config: cfg}

	steps := []struct {
		name string
		fn   func() error
	}{
		{"sphere grid", b.bindSphereGrid},
		{"remiem temple", b.bindRemiem},
		{"dark aeons", b.bindDarkAeons},
		{"aeon unlocks", b.bindAeonUnlocks},
		{"celestial weapons", b.bindCelestial},
		{"primers", b.bindPrimers},
		{"monster arena", b.bindArena},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			return nil, fmt.Errorf("%s: %w", step.name, err)
		}
	}

	goal, err := b.bindGoal()
	if err != nil {
		return nil, fmt.Errorf("goal: %w", err)
	}
	if err := b.applyExclusions(); err != nil {
		return nil, fmt.Errorf("exclusions: %w", err)
	}
	return goal, nil
}

// name returns the display name of a location placed in the graph.
func (b *binder) name(c location.Category, seq int) (string, bool) {
	loc, ok := b.Locations.Resolve(c, seq)
	if !ok {
		b.Log.Debug("rule target not in registry", "category", c.String(), "sequence", seq)
		return "", false
	}
	if _, ok := b.Graph.Check(loc.Name); !ok {
		b.Log.Debug("rule target not placed", "location", loc.Name)
		return "", false
	}
	return loc.Name, true
}

func (b *binder) names(c location.Category, seqs []int) []string {
	out := make([]string, 0, len(seqs))
	for _, seq := range seqs {
		if n, ok := b.name(c, seq); ok {
			out = append(out, n)
		}
	}
	return out
}

// addRule ANDs pred onto a location. Locations not in the graph are skipped.
func (b *binder) addRule(c location.Category, seq int, pred logic.Predicate) error {
	n, ok := b.name(c, seq)
	if !ok {
		return nil
	}
	return b.Graph.AddRule(n, pred)
}

// reachable requires a prior location. A prior location missing from the
// graph can never be reached.
func (b *binder) reachable(c location.Category, seq int) logic.Predicate {
	n, ok := b.name(c, seq)
	if !ok {
		return logic.Never
	}
	return logic.CanReachLocation(n)
}

// hasItems requires every named item, checking the catalog declares them.
func (b *binder) hasItems(names ...string) (logic.Predicate, error) {
	for _, n := range names {
		if _, err := b.Library.Item(n); err != nil {
			return nil, err
		}
	}
	return logic.HasAll(names...), nil
}

// hasMembers requires the unlock items of the named party members.
func (b *binder) hasMembers(characters ...string) (logic.Predicate, error) {
	unlocks := make([]string, 0, len(characters))
	for _, c := range characters {
		n, err := b.Library.PartyMember(c)
		if err != nil {
			return nil, err
		}
		unlocks = append(unlocks, n)
	}
	return logic.HasAll(unlocks...), nil
}

func (b *binder) region(name string) (*region.Region, error) {
	r, ok := b.Graph.Region(name)
	if !ok {
		return nil, fmt.Errorf("%w %q", region.ErrUnknownRegion, name)
	}
	return r, nil
}
