package logic

import (
	"fmt"
	"testing"

	"github.com/lawnchairsociety/ffxlogic/internal/items"
)

var testAreas = []Area{
	{"Baaj Temple", 1, "Baaj Temple 1st visit"},
	{"Besaid", 2, "Besaid Island 1st visit"},
	{"Kilika", 3, "Kilika 1st visit: Pre-Geneaux"},
	{"Luca", 4, "Luca 1st visit: Pre-Oblitzerator"},
	{"Mi'ihen Highroad", 5, "Mi'ihen Highroad 1st visit: Pre-Chocobo Eater"},
	{"Mushroom Rock Road", 6, "Mushroom Rock Road 1st visit: Pre-Sinspawn Gui"},
	{"Djose", 7, "Djose 1st visit"},
	{"Moonflow", 8, "Moonflow 1st visit: Pre-Extractor"},
	{"Guadosalam", 1, "Guadosalam 1st visit"},
	{"Thunder Plains", 9, "Thunder Plains 1st visit"},
	{"Macalania", 10, "Macalania Woods 1st visit: Pre-Spherimorph"},
	{"Bikanel", 11, "Bikanel 1st visit"},
	{"Bevelle", 12, "Bevelle 1st visit: Pre-Isaaru"},
	{"Calm Lands", 13, "Calm Lands 1st visit: Pre-Defender X"},
	{"Cavern of the Stolen Fayth", 13, "Cavern of the Stolen Fayth 1st visit"},
	{"Mt. Gagazet", 14, "Mt. Gagazet 1st visit: Pre-Biran and Yenke"},
	{"Zanarkand Ruins", 15, "Zanarkand Ruins 1st visit: Pre-Spectral Keeper"},
	{"Sin", 16, "Sin: Pre-Seymour Omnis"},
	{"Airship", 12, "Airship 1st visit: Pre-Evrae"},
	{"Omega Ruins", 17, "Omega Ruins: Pre-Ultima Weapon"},
}

var (
	testCharacters = []string{"Tidus", "Yuna", "Auron", "Kimahri", "Wakka", "Lulu", "Rikku", "Seymour"}
	testAeons      = []string{"Valefor", "Ifrit", "Ixion", "Shiva", "Bahamut", "Anima", "Yojimbo", "Magus Sisters"}
)

func member(name string) string { return "Party Member: " + name }

func testCatalog(t *testing.T) *items.Catalog {
	t.Helper()

	var all []*items.Item
	code := 0xD000
	for i, name := range testCharacters {
		all = append(all, &items.Item{
			Code: code, Name: member(name), Kind: items.KindPartyMember, Role: items.RoleCharacter,
			Character: name, Swimmer: name == "Tidus" || name == "Wakka" || name == "Rikku", SphereGrid: i < 7,
		})
		code++
	}
	for _, name := range testAeons {
		all = append(all, &items.Item{Code: code, Name: member(name), Kind: items.KindPartyMember, Role: items.RoleAeon, Character: name})
		code++
	}
	for i, area := range testAreas {
		all = append(all, &items.Item{Code: 0xE000 + i, Name: "Region: " + area.Name, Kind: items.KindRegionUnlock, Area: area.Name})
	}
	for ci, character := range testCharacters[:7] {
		for v := 1; v <= 4; v++ {
			all = append(all, &items.Item{
				Code: 0xB000 + ci*0x10 + v, Name: fmt.Sprintf("%s: Stat +%d", character, v),
				Kind: items.KindStatAbility, Character: character, Value: v,
			})
		}
	}
	for ci, character := range []string{"Tidus", "Rikku"} {
		all = append(all, &items.Item{
			Code: 0xC000 + ci, Name: character + " Ability: Steal", Kind: items.KindSkillAbility,
			Character: character, Ability: "Steal",
		})
	}

	c, err := items.NewCatalog(all)
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	return c
}

func testLibrary(t *testing.T, difficulty int, sphereGrid bool) *Library {
	t.Helper()
	l, err := NewLibrary(Config{
		Difficulty: difficulty,
		SphereGrid: sphereGrid,
		Areas:      testAreas,
		Catalog:    testCatalog(t),
	})
	if err != nil {
		t.Fatalf("NewLibrary() error = %v", err)
	}
	return l
}

// fakeState is a fixed collection state.
type fakeState struct {
	items     map[string]int
	regions   map[string]bool
	locations map[string]bool
	queries   int
}

func newFakeState() *fakeState {
	return &fakeState{
		items:     make(map[string]int),
		regions:   make(map[string]bool),
		locations: make(map[string]bool),
	}
}

func (s *fakeState) give(names ...string) *fakeState {
	for _, n := range names {
		s.items[n]++
	}
	return s
}

func (s *fakeState) reach(regions ...string) *fakeState {
	for _, r := range regions {
		s.regions[r] = true
	}
	return s
}

func (s *fakeState) clone() *fakeState {
	c := newFakeState()
	for k, v := range s.items {
		c.items[k] = v
	}
	for k := range s.regions {
		c.regions[k] = true
	}
	for k := range s.locations {
		c.locations[k] = true
	}
	return c
}

func (s *fakeState) Has(item string) bool { return s.items[item] > 0 }

func (s *fakeState) HasAll(names []string) bool {
	for _, n := range names {
		if s.items[n] == 0 {
			return false
		}
	}
	return true
}

func (s *fakeState) HasFromListUnique(names []string, count int) bool {
	found := 0
	for _, n := range names {
		if s.items[n] > 0 {
			found++
		}
	}
	return found >= count
}

func (s *fakeState) CanReachRegion(name string) bool { return s.regions[name] }

func (s *fakeState) CanReachLocation(name string) bool {
	s.queries++
	return s.locations[name]
}

func (s *fakeState) HeldItemCounts() map[string]int {
	out := make(map[string]int, len(s.items))
	for k, v := range s.items {
		out[k] = v
	}
	return out
}
