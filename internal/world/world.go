// Package world runs the per-player pipeline: validate options, build the
// region graph, bind rules and record exclusions.
package world

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"

	"github.com/lawnchairsociety/ffxlogic/internal/exclusion"
	"github.com/lawnchairsociety/ffxlogic/internal/gamedata"
	"github.com/lawnchairsociety/ffxlogic/internal/logic"
	"github.com/lawnchairsociety/ffxlogic/internal/options"
	"github.com/lawnchairsociety/ffxlogic/internal/reach"
	"github.com/lawnchairsociety/ffxlogic/internal/region"
	"github.com/lawnchairsociety/ffxlogic/internal/rules"
)

// StartingCharacter is always granted at the start of the game.
const StartingCharacter = "Tidus"

// MaxStartingTier caps the tier of the random starting region.
const MaxStartingTier = 3

// World is one player's frozen graph with its goal and exclusions.
type World struct {
	opts       *options.Options
	data       *gamedata.Data
	library    *logic.Library
	graph      *region.Graph
	exclusions *exclusion.Set
	goal       logic.Predicate
}

// New builds the world for one player. Every failure is a
// *options.ConfigError naming the player.
func New(opts *options.Options, data *gamedata.Data, log *slog.Logger) (*World, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	log = log.With("slot", opts.Slot, "player", opts.Name)

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	library, err := logic.NewLibrary(logic.Config{
		Difficulty: opts.LogicDifficulty,
		SphereGrid: bool(opts.SphereGridRandomization),
		Areas:      data.Regions.Areas,
		Catalog:    data.Items,
	})
	if err != nil {
		return nil, opts.Wrap("Logic", err)
	}

	graph, err := region.Build(data.Regions, data.Locations, library, log)
	if err != nil {
		var ruleErr *region.RuleError
		if errors.As(err, &ruleErr) {
			return nil, opts.Wrap("Region Rule", err)
		}
		return nil, opts.Wrap("Region Table", err)
	}

	excluded := exclusion.New()
	goal, err := rules.Bind(rules.Config{
		Graph:      graph,
		Locations:  data.Locations,
		Library:    library,
		Arena:      data.Arena,
		Options:    opts,
		Exclusions: excluded,
		Log:        log,
	})
	if err != nil {
		var cfgErr *options.ConfigError
		if errors.As(err, &cfgErr) {
			return nil, cfgErr
		}
		return nil, opts.Wrap("Rules", err)
	}

	graph.Freeze()
	log.Debug("world built",
		"regions", len(graph.Regions()),
		"locations", len(graph.Checks()),
		"excluded", excluded.Len())

	return &World{
		opts:       opts,
		data:       data,
		library:    library,
		graph:      graph,
		exclusions: excluded,
		goal:       goal,
	}, nil
}

// Slot returns the player's slot.
func (w *World) Slot() int { return w.opts.Slot }

// Name returns the player's name.
func (w *World) Name() string { return w.opts.Name }

// Options returns the player's options.
func (w *World) Options() *options.Options { return w.opts }

// Data returns the shared game data.
func (w *World) Data() *gamedata.Data { return w.data }

// Library returns the player's predicate library.
func (w *World) Library() *logic.Library { return w.library }

// Graph returns the frozen region graph.
func (w *World) Graph() *region.Graph { return w.graph }

// Exclusions returns the excluded locations.
func (w *World) Exclusions() *exclusion.Set { return w.exclusions }

// Goal returns the goal event's access rule.
func (w *World) Goal() logic.Predicate { return w.goal }

// StartingItems returns the items granted at the start: the starting
// character and one region unlock for an area of tier at most
// min(difficulty, MaxStartingTier).
func (w *World) StartingItems(rng *rand.Rand) ([]string, error) {
	character, err := w.library.PartyMember(StartingCharacter)
	if err != nil {
		return nil, w.opts.Wrap("Starting Items", err)
	}

	maxTier := min(w.opts.LogicDifficulty, MaxStartingTier)
	var candidates []string
	for _, area := range w.library.Areas() {
		if area.Tier > maxTier {
			continue
		}
		if unlock, ok := w.data.Items.RegionUnlock(area.Name); ok {
			candidates = append(candidates, unlock)
		}
	}
	if len(candidates) == 0 {
		return nil, w.opts.Errorf("Starting Items", "no region of tier %d or lower", maxTier)
	}
	sort.Strings(candidates)

	return []string{character, candidates[rng.Intn(len(candidates))]}, nil
}

// ItemCodes maps item names to their numeric codes.
func (w *World) ItemCodes(names []string) ([]int, error) {
	codes := make([]int, 0, len(names))
	for _, n := range names {
		item, ok := w.data.Items.ByName(n)
		if !ok {
			return nil, fmt.Errorf("%w: %q", logic.ErrUnknownItem, n)
		}
		codes = append(codes, item.Code)
	}
	return codes, nil
}

// SlotData returns the values handed to the game client.
func (w *World) SlotData(seedID string) map[string]any {
	data := map[string]any{"SeedId": seedID}
	for k, v := range w.opts.SlotData() {
		data[k] = v
	}
	return data
}

// NewState returns a collection state over the world's graph holding items.
func (w *World) NewState(items ...string) *reach.State {
	s := reach.New(w.graph)
	s.Collect(items...)
	return s
}
