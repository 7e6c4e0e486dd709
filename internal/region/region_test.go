package region

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lawnchairsociety/ffxlogic/internal/location"
	"github.com/lawnchairsociety/ffxlogic/internal/logic"
)

// items is a logic.State holding a fixed item set.
type items map[string]bool

func (s items) Has(item string) bool { return s[item] }

func (s items) HasAll(names []string) bool {
	for _, n := range names {
		if !s[n] {
			return false
		}
	}
	return true
}

func (s items) HasFromListUnique(names []string, count int) bool {
	n := 0
	for _, name := range names {
		if s[name] {
			n++
		}
	}
	return n >= count
}

func (s items) CanReachRegion(string) bool   { return false }
func (s items) CanReachLocation(string) bool { return false }

func (s items) HeldItemCounts() map[string]int {
	out := make(map[string]int, len(s))
	for k := range s {
		out[k] = 1
	}
	return out
}

// itemResolver resolves every rule name to holding an item of that name,
// except names listed as unknown.
type itemResolver struct {
	unknown map[string]bool
}

func (r itemResolver) Resolve(name string) (logic.Predicate, error) {
	if r.unknown[name] {
		return nil, fmt.Errorf("%w: %q", logic.ErrUnknownRule, name)
	}
	return logic.Has(name), nil
}

func testRegistry(t *testing.T) *location.Registry {
	t.Helper()
	r, err := location.NewRegistry([]location.Location{
		{ID: location.NewID(location.Treasure, 0), Name: "Baaj: Chest"},
		{ID: location.NewID(location.Boss, 0), Name: "Baaj: Defeat Klikk (Boss)"},
		{ID: location.NewID(location.Treasure, 1), Name: "Besaid: Chest"},
	})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	return r
}

const testTable = `
areas:
  - {name: Baaj, tier: 1, first_visit: "Baaj Temple"}
regions:
  - id: 1
    name: Baaj Temple
    treasures: [0, 7]
    bosses: [0]
    leads_to: [2]
  - id: 2
    name: Besaid
    treasures: [1]
    rules: ["Region: Besaid"]
  - id: 3
    name: Airship
    rules: ["Region: Airship", "Party Member: Rikku"]
`

func TestParseTable(t *testing.T) {
	tbl, err := Parse([]byte(testTable))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(tbl.Regions) != 3 || len(tbl.Areas) != 1 {
		t.Fatalf("Parse() = %d regions, %d areas", len(tbl.Regions), len(tbl.Areas))
	}
	rec, ok := tbl.Record(1)
	if !ok {
		t.Fatal("Record(1) missing")
	}
	refs := rec.LocationRefs()
	if len(refs) != 2 || refs[0].Category != location.Treasure || refs[1].Category != location.Boss {
		t.Errorf("LocationRefs() = %+v", refs)
	}
	if _, ok := tbl.Record(9); ok {
		t.Error("Record(9) found")
	}
}

func TestTableValidate(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"duplicate id", "regions:\n  - {id: 1, name: A}\n  - {id: 1, name: B}\n"},
		{"duplicate name", "regions:\n  - {id: 1, name: A}\n  - {id: 2, name: A}\n"},
		{"empty name", "regions:\n  - {id: 1}\n"},
		{"reserved name", "regions:\n  - {id: 1, name: Menu}\n"},
		{"missing first visit", "areas:\n  - {name: X, tier: 1, first_visit: Nowhere}\nregions:\n  - {id: 1, name: A}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Error("Parse() error = nil, want validation error")
			}
		})
	}
}

func TestBuild(t *testing.T) {
	tbl, err := Parse([]byte(testTable))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	g, err := Build(tbl, testRegistry(t), itemResolver{}, nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if got := len(g.Regions()); got != 4 {
		t.Errorf("Regions() = %d, want 4 with the root", got)
	}
	// Treasure 7 is not in the registry and is skipped.
	if got := len(g.Checks()); got != 3 {
		t.Errorf("Checks() = %d, want 3", got)
	}
	if c, ok := g.Check("Baaj: Defeat Klikk (Boss)"); !ok || c.Region.Name != "Baaj Temple" {
		t.Errorf("Check(Klikk) = %v, %v", c, ok)
	}
	if len(g.Orphans()) != 0 {
		t.Errorf("Orphans() = %v, want none", g.Orphans())
	}

	besaid, _ := g.Region("Besaid")
	if len(besaid.Entrances) != 1 || besaid.Entrances[0].Source.Name != "Baaj Temple" {
		t.Fatalf("Besaid entrances = %+v", besaid.Entrances)
	}
	guard := besaid.Entrances[0].Guard
	if guard(items{}) || !guard(items{"Region: Besaid": true}) {
		t.Error("Besaid guard does not require its region unlock")
	}

	// Regions nobody leads to hang off the root with their own guard.
	airship, _ := g.Region("Airship")
	if len(airship.Entrances) != 1 || airship.Entrances[0].Source != g.Root() {
		t.Fatalf("Airship entrances = %+v", airship.Entrances)
	}
	guard = airship.Entrances[0].Guard
	if guard(items{"Region: Airship": true}) {
		t.Error("Airship guard satisfied without Rikku")
	}
	if !guard(items{"Region: Airship": true, "Party Member: Rikku": true}) {
		t.Error("Airship guard not satisfied with both items")
	}

	baaj, _ := g.Region("Baaj Temple")
	if baaj.Entrances[0].Guard != nil {
		t.Error("Baaj Temple has no rules and should have an open entrance")
	}
}

func TestBuildErrors(t *testing.T) {
	dangling := "regions:\n  - {id: 1, name: A, leads_to: [5]}\n"
	tbl, err := Parse([]byte(dangling))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if _, err := Build(tbl, testRegistry(t), itemResolver{}, nil); !errors.Is(err, ErrDanglingSuccessor) {
		t.Errorf("Build(dangling) error = %v, want %v", err, ErrDanglingSuccessor)
	}

	tbl, err = Parse([]byte(testTable))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	_, err = Build(tbl, testRegistry(t), itemResolver{unknown: map[string]bool{"Party Member: Rikku": true}}, nil)
	var ruleErr *RuleError
	if !errors.As(err, &ruleErr) {
		t.Fatalf("Build(unknown rule) error = %v, want RuleError", err)
	}
	if ruleErr.Region != "Airship" || ruleErr.Rule != "Party Member: Rikku" || !errors.Is(err, logic.ErrUnknownRule) {
		t.Errorf("RuleError = %+v", ruleErr)
	}
}

func TestGraphRules(t *testing.T) {
	g := NewGraph()
	r, err := g.AddRegion("Besaid")
	if err != nil {
		t.Fatalf("AddRegion() error = %v", err)
	}
	if _, err := g.AddRegion("Besaid"); err == nil {
		t.Error("AddRegion() accepted a duplicate")
	}
	loc := location.Location{ID: location.NewID(location.Treasure, 1), Name: "Besaid: Chest"}
	c, err := g.AttachLocation(r, loc)
	if err != nil {
		t.Fatalf("AttachLocation() error = %v", err)
	}
	if _, err := g.AttachLocation(g.Root(), loc); err == nil {
		t.Error("AttachLocation() placed a location twice")
	}
	if c.Address() != loc.ID {
		t.Errorf("Address() = %v, want %v", c.Address(), loc.ID)
	}
	if !c.Accessible(items{}) {
		t.Error("check without a rule should be accessible")
	}

	if err := g.AddRule("Besaid: Chest", logic.Has("A")); err != nil {
		t.Fatalf("AddRule() error = %v", err)
	}
	if err := g.AddRule("Besaid: Chest", logic.Has("B")); err != nil {
		t.Fatalf("AddRule() error = %v", err)
	}
	if c.Accessible(items{"A": true}) || !c.Accessible(items{"A": true, "B": true}) {
		t.Error("AddRule() should AND rules together")
	}
	if err := g.SetRule("Besaid: Chest", logic.Has("C")); err != nil {
		t.Fatalf("SetRule() error = %v", err)
	}
	if !c.Accessible(items{"C": true}) {
		t.Error("SetRule() should replace the rule")
	}
	if err := g.AddRule("Nowhere", logic.Always); !errors.Is(err, ErrUnknownLocation) {
		t.Errorf("AddRule(unknown) error = %v, want %v", err, ErrUnknownLocation)
	}

	ev, err := g.AddEvent(r, "Besaid: Trials", "Trials Done")
	if err != nil {
		t.Fatalf("AddEvent() error = %v", err)
	}
	if !ev.Event || ev.Address() != 0 || ev.Item != "Trials Done" {
		t.Errorf("AddEvent() = %+v", ev)
	}
	if got := g.Orphans(); len(got) != 1 || got[0] != r {
		t.Errorf("Orphans() = %v, want [Besaid]", got)
	}

	g.Freeze()
	if !g.Frozen() {
		t.Fatal("Frozen() = false after Freeze")
	}
	mutations := map[string]error{
		"AddRegion": func() error { _, err := g.AddRegion("Kilika"); return err }(),
		"Connect":   func() error { _, err := g.Connect(g.Root(), r, nil); return err }(),
		"AddEvent":  func() error { _, err := g.AddEvent(r, "x", "y"); return err }(),
		"AddRule":   g.AddRule("Besaid: Chest", logic.Always),
		"SetRule":   g.SetRule("Besaid: Chest", logic.Always),
	}
	for name, err := range mutations {
		if !errors.Is(err, ErrFrozen) {
			t.Errorf("%s after Freeze error = %v, want %v", name, err, ErrFrozen)
		}
	}
}
