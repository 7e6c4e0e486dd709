package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lawnchairsociety/ffxlogic/internal/gamedata"
	"github.com/lawnchairsociety/ffxlogic/internal/location"
	"github.com/lawnchairsociety/ffxlogic/internal/options"
	"github.com/lawnchairsociety/ffxlogic/internal/rules"
	"github.com/lawnchairsociety/ffxlogic/internal/world"
)

func newWorld(t *testing.T) (*world.World, *gamedata.Data) {
	t.Helper()
	d, err := gamedata.Load()
	if err != nil {
		t.Fatalf("gamedata.Load() error = %v", err)
	}
	opts := options.Default()
	opts.Slot = 1
	opts.Name = "Tidus"
	w, err := world.New(opts, d, nil)
	if err != nil {
		t.Fatalf("world.New() error = %v", err)
	}
	return w, d
}

func locName(t *testing.T, d *gamedata.Data, c location.Category, seq int) string {
	t.Helper()
	loc, ok := d.Locations.Resolve(c, seq)
	if !ok {
		t.Fatalf("location %s %d not in registry", c, seq)
	}
	return loc.Name
}

var names = map[int]string{1: "Tidus", 2: "Link"}

func TestProject(t *testing.T) {
	w, d := newWorld(t)
	chest := locName(t, d, location.Treasure, 3)
	boss := locName(t, d, location.Boss, 0)

	placements := Assignment{
		chest: {Item: "Party Member: Yuna", Player: 1},
		boss:  {Item: "Hookshot", Player: 2},
	}
	r, err := Project(w, placements, names, "seed-1", []string{"Party Member: Tidus", "Region: Baaj Temple"})
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	if r.Count() != 2 {
		t.Errorf("Count() = %d, want 2", r.Count())
	}

	treasure := r.Locations[location.Treasure]
	if len(treasure) != 1 {
		t.Fatalf("Treasure entries = %v", treasure)
	}
	want := Entry{LocationName: chest, LocationID: 3, ItemID: 0xD001, ItemName: "Party Member: Yuna", PlayerName: "Tidus"}
	if treasure[0] != want {
		t.Errorf("Treasure[0] = %+v, want %+v", treasure[0], want)
	}

	bosses := r.Locations[location.Boss]
	if len(bosses) != 1 || bosses[0].ItemID != 0 || bosses[0].PlayerName != "Link" {
		t.Errorf("Boss entries = %+v, want one foreign item with id 0", bosses)
	}

	if len(r.StartingItems) != 2 || r.StartingItems[0] != 0xD000 || r.StartingItems[1] != 0xE000 {
		t.Errorf("StartingItems = %#x", r.StartingItems)
	}
	if r.Misc.SeedID != "seed-1" || r.Misc.RequiredPartyMembers != 8 || r.Misc.APMultiplier != 2 {
		t.Errorf("Misc = %+v", r.Misc)
	}
}

func TestProjectRejectsBadPlacements(t *testing.T) {
	w, d := newWorld(t)
	chest := locName(t, d, location.Treasure, 3)

	cases := []struct {
		name       string
		placements Assignment
		wantErr    string
	}{
		{"event", Assignment{rules.GoalLocation: {Item: "Potion", Player: 1}}, "not a location"},
		{"unknown location", Assignment{"Nowhere": {Item: "Potion", Player: 1}}, "not a location"},
		{"unknown item", Assignment{chest: {Item: "Gil Purse", Player: 1}}, "unknown item"},
		{"unknown player", Assignment{chest: {Item: "Potion", Player: 9}}, "unknown player"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Project(w, tc.placements, names, "seed", nil)
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("Project() error = %v, want containing %q", err, tc.wantErr)
			}
		})
	}
}

func TestWriteFile(t *testing.T) {
	w, d := newWorld(t)
	chest := locName(t, d, location.Treasure, 3)
	r, err := Project(w, Assignment{chest: {Item: "Potion", Player: 1}}, names, "seed-2", nil)
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}

	dir := filepath.Join(t.TempDir(), "out")
	path, err := r.WriteFile(dir)
	if err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if filepath.Base(path) != "seed-2.json" {
		t.Errorf("WriteFile() path = %s", path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	for _, c := range location.Categories {
		if _, ok := decoded[c.String()]; !ok {
			t.Errorf("result has no %q key", c.String())
		}
	}
	for _, key := range []string{"SeedId", "GoalRequirement", StartingItemsKey} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("result has no %q key", key)
		}
	}
	if string(decoded[StartingItemsKey]) != "[]" {
		t.Errorf("StartingItems = %s, want []", decoded[StartingItemsKey])
	}
}

func TestSeedID(t *testing.T) {
	a := SeedID("multiworld", 1)
	if a != SeedID("multiworld", 1) {
		t.Error("SeedID() is not deterministic")
	}
	if a == SeedID("multiworld", 2) || a == SeedID("other", 1) {
		t.Error("SeedID() collides across slots or seeds")
	}
	if !strings.HasPrefix(a, "FFX_") || len(a) != len("FFX_")+20 {
		t.Errorf("SeedID() = %q", a)
	}
}

const placementsYAML = `
seed: multiworld
slots:
  1:
    "Besaid: Chest": {item: "Potion", player: 1}
    "Kilika: Chest": {item: "Hookshot", player: 2}
starting_items:
  1: ["Party Member: Tidus"]
`

func TestParsePlacements(t *testing.T) {
	f, err := ParsePlacements([]byte(placementsYAML))
	if err != nil {
		t.Fatalf("ParsePlacements() error = %v", err)
	}
	if f.Seed != "multiworld" || len(f.Slot(1)) != 2 || len(f.Slot(3)) != 0 {
		t.Errorf("ParsePlacements() = %+v", f)
	}
	own := f.Slot(1).Own(1)
	if len(own) != 1 || own["Besaid: Chest"] != "Potion" {
		t.Errorf("Own(1) = %v", own)
	}
	if got := f.StartingItemsFor(1); len(got) != 1 {
		t.Errorf("StartingItemsFor(1) = %v", got)
	}
	if got := f.StartingItemsFor(3); got != nil {
		t.Errorf("StartingItemsFor(3) = %v, want nil", got)
	}

	var nilFile *PlacementFile
	if len(nilFile.Slot(1)) != 0 {
		t.Error("nil file returned placements")
	}
	if nilFile.StartingItemsFor(1) != nil {
		t.Error("nil file returned starting items")
	}

	if _, err := ParsePlacements([]byte("slots:\n  1:\n    \"A\": {item: \"\", player: 1}\n")); err == nil {
		t.Error("ParsePlacements() accepted an empty item")
	}
}
