// Package region builds one player's directed region graph: regions holding
// locations, entrances guarded by predicates, and per-location access rules.
package region

import (
	"errors"
	"fmt"

	"github.com/lawnchairsociety/ffxlogic/internal/location"
	"github.com/lawnchairsociety/ffxlogic/internal/logic"
)

var (
	// ErrFrozen is returned when a frozen graph is modified.
	ErrFrozen = errors.New("region graph is frozen")
	// ErrDanglingSuccessor is returned for a successor id missing from the
	// region table.
	ErrDanglingSuccessor = errors.New("undefined successor region")
	// ErrUnknownRegion is returned for lookups of regions not in the graph.
	ErrUnknownRegion = errors.New("unknown region")
	// ErrUnknownLocation is returned for rules on locations not in the graph.
	ErrUnknownLocation = errors.New("unknown location")
)

// Region is a node of the graph.
type Region struct {
	Name      string
	Checks    []*Check
	Entrances []*Edge
	Exits     []*Edge
}

// Edge is a directed entrance from Source into Target. A nil Guard is always
// traversable.
type Edge struct {
	Name   string
	Source *Region
	Target *Region
	Guard  logic.Predicate
}

// Check is a location placed in a region. Event checks carry a fixed item
// and have no registry location.
type Check struct {
	Name     string
	Location *location.Location
	Region   *Region
	Rule     logic.Predicate
	Event    bool
	Item     string
}

// Address returns the stable location id, or 0 for events.
func (c *Check) Address() location.ID {
	if c.Location == nil {
		return 0
	}
	return c.Location.ID
}

// Accessible reports whether the check's own rule holds. Region
// reachability is the caller's concern.
func (c *Check) Accessible(s logic.State) bool {
	return c.Rule == nil || c.Rule(s)
}

// Graph is one player's region graph.
type Graph struct {
	root    *Region
	regions map[string]*Region
	order   []*Region
	checks  map[string]*Check
	list    []*Check
	frozen  bool
}

// NewGraph returns a graph holding only the root region.
func NewGraph() *Graph {
	root := &Region{Name: RootName}
	return &Graph{
		root:    root,
		regions: map[string]*Region{RootName: root},
		order:   []*Region{root},
		checks:  make(map[string]*Check),
	}
}

// Root returns the entry region.
func (g *Graph) Root() *Region {
	return g.root
}

// Region returns a region by name.
func (g *Graph) Region(name string) (*Region, bool) {
	r, ok := g.regions[name]
	return r, ok
}

// Regions returns every region in creation order, root first.
func (g *Graph) Regions() []*Region {
	out := make([]*Region, len(g.order))
	copy(out, g.order)
	return out
}

// Check returns a check by location name.
func (g *Graph) Check(name string) (*Check, bool) {
	c, ok := g.checks[name]
	return c, ok
}

// Checks returns every check in attachment order.
func (g *Graph) Checks() []*Check {
	out := make([]*Check, len(g.list))
	copy(out, g.list)
	return out
}

// Frozen reports whether Freeze has been called.
func (g *Graph) Frozen() bool {
	return g.frozen
}

// Freeze makes the graph read-only.
func (g *Graph) Freeze() {
	g.frozen = true
}

// AddRegion creates a region.
func (g *Graph) AddRegion(name string) (*Region, error) {
	if g.frozen {
		return nil, ErrFrozen
	}
	if _, dup := g.regions[name]; dup {
		return nil, fmt.Errorf("region %q already exists", name)
	}
	r := &Region{Name: name}
	g.regions[name] = r
	g.order = append(g.order, r)
	return r, nil
}

// Connect adds an edge from source to target.
func (g *Graph) Connect(source, target *Region, guard logic.Predicate) (*Edge, error) {
	if g.frozen {
		return nil, ErrFrozen
	}
	if g.regions[source.Name] != source || g.regions[target.Name] != target {
		return nil, fmt.Errorf("%w: edge %s -> %s", ErrUnknownRegion, source.Name, target.Name)
	}
	e := &Edge{
		Name:   source.Name + " -> " + target.Name,
		Source: source,
		Target: target,
		Guard:  guard,
	}
	source.Exits = append(source.Exits, e)
	target.Entrances = append(target.Entrances, e)
	return e, nil
}

func (g *Graph) addCheck(r *Region, c *Check) error {
	if g.frozen {
		return ErrFrozen
	}
	if prev, dup := g.checks[c.Name]; dup {
		return fmt.Errorf("location %q already placed in region %q", c.Name, prev.Region.Name)
	}
	c.Region = r
	r.Checks = append(r.Checks, c)
	g.checks[c.Name] = c
	g.list = append(g.list, c)
	return nil
}

// AttachLocation places a registry location in a region. A location belongs
// to at most one region.
func (g *Graph) AttachLocation(r *Region, loc location.Location) (*Check, error) {
	c := &Check{Name: loc.Name, Location: &loc}
	if err := g.addCheck(r, c); err != nil {
		return nil, err
	}
	return c, nil
}

// AddEvent places an event check that always yields item.
func (g *Graph) AddEvent(r *Region, name, item string) (*Check, error) {
	c := &Check{Name: name, Event: true, Item: item}
	if err := g.addCheck(r, c); err != nil {
		return nil, err
	}
	return c, nil
}

// AddRule ANDs pred onto the named location's access rule.
func (g *Graph) AddRule(name string, pred logic.Predicate) error {
	if g.frozen {
		return ErrFrozen
	}
	c, ok := g.checks[name]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownLocation, name)
	}
	if c.Rule == nil {
		c.Rule = pred
	} else {
		c.Rule = logic.And(c.Rule, pred)
	}
	return nil
}

// SetRule replaces the named location's access rule.
func (g *Graph) SetRule(name string, pred logic.Predicate) error {
	if g.frozen {
		return ErrFrozen
	}
	c, ok := g.checks[name]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownLocation, name)
	}
	c.Rule = pred
	return nil
}

// Orphans returns the non-root regions without entrances.
func (g *Graph) Orphans() []*Region {
	var out []*Region
	for _, r := range g.order[1:] {
		if len(r.Entrances) == 0 {
			out = append(out, r)
		}
	}
	return out
}
