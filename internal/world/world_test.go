package world

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/lawnchairsociety/ffxlogic/internal/gamedata"
	"github.com/lawnchairsociety/ffxlogic/internal/options"
	"github.com/lawnchairsociety/ffxlogic/internal/rules"
)

var (
	dataOnce sync.Once
	data     *gamedata.Data
	dataErr  error
)

func loadData(t *testing.T) *gamedata.Data {
	t.Helper()
	dataOnce.Do(func() { data, dataErr = gamedata.Load() })
	if dataErr != nil {
		t.Fatalf("gamedata.Load() error = %v", dataErr)
	}
	return data
}

func newOptions(slot int, name string) *options.Options {
	opts := options.Default()
	opts.Slot = slot
	opts.Name = name
	return opts
}

func allItems(d *gamedata.Data) []string {
	var names []string
	for _, item := range d.Items.All() {
		if item.Kind.Progression() {
			names = append(names, item.Name)
		}
	}
	return names
}

func TestNewDefaultWorld(t *testing.T) {
	w, err := New(newOptions(1, "Tidus"), loadData(t), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !w.Graph().Frozen() {
		t.Error("Graph().Frozen() = false, want true")
	}
	if _, ok := w.Graph().Check(rules.GoalLocation); !ok {
		t.Errorf("goal location %q missing", rules.GoalLocation)
	}
	if w.Slot() != 1 || w.Name() != "Tidus" {
		t.Errorf("Slot(), Name() = %d, %q", w.Slot(), w.Name())
	}

	empty := w.NewState()
	if !w.Goal()(empty) {
		t.Error("goal none with no primers should hold for an empty state")
	}
	if empty.CanReachLocation(rules.GoalLocation) {
		t.Error("goal location reachable with no items")
	}
}

func TestAllItemsReachVictory(t *testing.T) {
	d := loadData(t)
	cases := []struct {
		name string
		edit func(*options.Options)
	}{
		{"none", func(*options.Options) {}},
		{"party members", func(o *options.Options) {
			o.GoalRequirement = options.GoalPartyMembers
		}},
		{"party members and aeons", func(o *options.Options) {
			o.GoalRequirement = options.GoalPartyMembersAndAeons
			o.RequiredPartyMembers = 16
		}},
		{"pilgrimage with primers", func(o *options.Options) {
			o.GoalRequirement = options.GoalPilgrimage
			o.RequiredPrimers = 26
		}},
		{"nemesis", func(o *options.Options) {
			o.GoalRequirement = options.GoalNemesis
			o.CaptureSanity = true
			o.CreationRewards = options.ArenaOriginal
			o.ArenaBosses = options.ArenaOriginal
		}},
		{"sphere grid", func(o *options.Options) {
			o.SphereGridRandomization = true
			o.LogicDifficulty = 10
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opts := newOptions(1, "Tidus")
			tc.edit(opts)
			w, err := New(opts, d, nil)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			s := w.NewState(allItems(d)...)
			s.Sweep(nil)
			if !s.Has(rules.VictoryItem) {
				t.Errorf("sweep with every item did not collect %q", rules.VictoryItem)
			}
			if !rules.Complete(s) {
				t.Error("Complete() = false after the goal event")
			}
		})
	}
}

func TestEveryRegionHasAnEntrance(t *testing.T) {
	w, err := New(newOptions(1, "Tidus"), loadData(t), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	root := w.Graph().Root()
	for _, r := range w.Graph().Regions() {
		if r == root {
			continue
		}
		if len(r.Entrances) == 0 {
			t.Errorf("region %q has no entrances", r.Name)
		}
	}
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	opts := newOptions(4, "Rikku")
	opts.GoalRequirement = options.GoalNemesis

	_, err := New(opts, loadData(t), nil)
	var cfgErr *options.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("New() error = %v, want *options.ConfigError", err)
	}
	if cfgErr.Slot != 4 || cfgErr.Player != "Rikku" {
		t.Errorf("ConfigError slot, player = %d, %q", cfgErr.Slot, cfgErr.Player)
	}
}

func TestNewRejectsUnknownExcludedLocation(t *testing.T) {
	opts := newOptions(2, "Wakka")
	opts.ExcludeLocations = []string{"Zanarkand: Blitzball Stadium"}

	_, err := New(opts, loadData(t), nil)
	var cfgErr *options.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("New() error = %v, want *options.ConfigError", err)
	}
	if cfgErr.Subject != "Exclude Locations" {
		t.Errorf("Subject = %q, want %q", cfgErr.Subject, "Exclude Locations")
	}
}

func TestStartingItems(t *testing.T) {
	d := loadData(t)
	opts := newOptions(1, "Tidus")
	opts.LogicDifficulty = 1
	w, err := New(opts, d, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	allowed := map[string]bool{"Region: Baaj Temple": true, "Region: Guadosalam": true}
	rng := rand.New(rand.NewSource(7))
	for range 50 {
		got, err := w.StartingItems(rng)
		if err != nil {
			t.Fatalf("StartingItems() error = %v", err)
		}
		if len(got) != 2 || got[0] != "Party Member: Tidus" {
			t.Fatalf("StartingItems() = %v", got)
		}
		if !allowed[got[1]] {
			t.Errorf("starting region %q is above tier 1", got[1])
		}
	}
}

func TestStartingTierCapped(t *testing.T) {
	d := loadData(t)
	opts := newOptions(1, "Tidus")
	opts.LogicDifficulty = 10
	w, err := New(opts, d, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	rng := rand.New(rand.NewSource(1))
	for range 100 {
		got, err := w.StartingItems(rng)
		if err != nil {
			t.Fatalf("StartingItems() error = %v", err)
		}
		area := strings.TrimPrefix(got[1], "Region: ")
		a, ok := w.Library().Area(area)
		if !ok {
			t.Fatalf("unknown starting area %q", area)
		}
		if a.Tier > MaxStartingTier {
			t.Errorf("starting area %q tier = %d, want <= %d", area, a.Tier, MaxStartingTier)
		}
	}
}

func TestSlotData(t *testing.T) {
	opts := newOptions(1, "Tidus")
	opts.GoalRequirement = options.GoalPilgrimage
	w, err := New(opts, loadData(t), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	sd := w.SlotData("abc123")
	if sd["SeedId"] != "abc123" {
		t.Errorf("SeedId = %v, want abc123", sd["SeedId"])
	}
	if sd["goal_requirement"] != int(options.GoalPilgrimage) {
		t.Errorf("goal_requirement = %v, want %d", sd["goal_requirement"], int(options.GoalPilgrimage))
	}
}

func TestItemCodes(t *testing.T) {
	w, err := New(newOptions(1, "Tidus"), loadData(t), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	codes, err := w.ItemCodes([]string{"Party Member: Tidus", "Region: Baaj Temple"})
	if err != nil {
		t.Fatalf("ItemCodes() error = %v", err)
	}
	if codes[0] != 0xD000 || codes[1] != 0xE000 {
		t.Errorf("ItemCodes() = %#x", codes)
	}
	if _, err := w.ItemCodes([]string{"Gil Purse"}); err == nil {
		t.Error("ItemCodes() accepted an unknown item")
	}
}

const generateYAML = `
name: Tidus
---
name: Link
game: A Link to the Past
---
name: Yuna
Final Fantasy X:
  goal_requirement: pilgrimage
  sphere_grid_randomization: on
`

func TestGenerateAll(t *testing.T) {
	players, err := options.Parse([]byte(generateYAML), 1)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	run, err := GenerateAll(context.Background(), players, loadData(t), 2, nil)
	if err != nil {
		t.Fatalf("GenerateAll() error = %v", err)
	}
	if len(run.Worlds) != 2 {
		t.Fatalf("GenerateAll() built %d worlds, want 2", len(run.Worlds))
	}
	if run.Worlds[0].Slot() != 1 || run.Worlds[1].Slot() != 3 {
		t.Errorf("slots = %d, %d, want 1, 3", run.Worlds[0].Slot(), run.Worlds[1].Slot())
	}
	if _, ok := run.World(2); ok {
		t.Error("World(2) found a world for another game")
	}
	if run.ID.String() == "" {
		t.Error("run has no id")
	}
}

func TestGenerateAllReportsFailedSlot(t *testing.T) {
	players, err := options.Parse([]byte(generateYAML+"---\nname: Auron\nFinal Fantasy X:\n  goal_requirement: nemesis\n"), 1)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	_, err = GenerateAll(context.Background(), players, loadData(t), 0, nil)
	var cfgErr *options.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("GenerateAll() error = %v, want *options.ConfigError", err)
	}
	if cfgErr.Slot != 4 {
		t.Errorf("failed slot = %d, want 4", cfgErr.Slot)
	}
}
