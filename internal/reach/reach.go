// Package reach is a reference collection state and fixpoint solver over a
// region graph. It answers the logic.State queries the way a randomizer
// host does and is used by the tracker, the CLI check and tests.
package reach

import (
	"sort"

	"github.com/lawnchairsociety/ffxlogic/internal/region"
	"github.com/zyedidia/generic/mapset"
)

// Placement names the item a location holds for the sweep. Locations held
// by other players are absent.
type Placement map[string]string

// State is one player's collection state over a graph.
type State struct {
	graph     *region.Graph
	items     map[string]int
	regions   mapset.Set[string]
	collected mapset.Set[string]
	stale     bool
	updating  bool
	visiting  mapset.Set[string]
}

// New returns an empty state for g. Only the root region is reachable.
func New(g *region.Graph) *State {
	s := &State{
		graph:     g,
		items:     make(map[string]int),
		regions:   mapset.New[string](),
		collected: mapset.New[string](),
		visiting:  mapset.New[string](),
		stale:     true,
	}
	s.regions.Put(g.Root().Name)
	return s
}

// Collect adds one copy of each item.
func (s *State) Collect(items ...string) {
	for _, item := range items {
		s.items[item]++
	}
	s.stale = true
}

// CollectN adds n copies of item. Non-positive counts add nothing.
func (s *State) CollectN(item string, n int) {
	if n <= 0 {
		return
	}
	s.items[item] += n
	s.stale = true
}

// Has reports whether item is held.
func (s *State) Has(item string) bool {
	return s.items[item] > 0
}

// HasAll reports whether every item is held.
func (s *State) HasAll(items []string) bool {
	for _, item := range items {
		if s.items[item] == 0 {
			return false
		}
	}
	return true
}

// HasFromListUnique reports whether count distinct items from the list are
// held.
func (s *State) HasFromListUnique(items []string, count int) bool {
	found := 0
	for _, item := range items {
		if s.items[item] > 0 {
			found++
			if found >= count {
				return true
			}
		}
	}
	return found >= count
}

// Count returns how many copies of item are held.
func (s *State) Count(item string) int {
	return s.items[item]
}

// HeldItemCounts returns a copy of the held item counts.
func (s *State) HeldItemCounts() map[string]int {
	out := make(map[string]int, len(s.items))
	for k, v := range s.items {
		if v > 0 {
			out[k] = v
		}
	}
	return out
}

// CanReachRegion reports whether a region is reachable.
func (s *State) CanReachRegion(name string) bool {
	s.update()
	return s.regions.Has(name)
}

// CanReachLocation reports whether a location's region is reachable and its
// rule holds. A location whose rule is being evaluated further up the call
// chain counts as unreachable for that evaluation.
func (s *State) CanReachLocation(name string) bool {
	c, ok := s.graph.Check(name)
	if !ok {
		return false
	}
	return s.canReach(c)
}

func (s *State) canReach(c *region.Check) bool {
	if !s.CanReachRegion(c.Region.Name) {
		return false
	}
	if s.visiting.Has(c.Name) {
		return false
	}
	s.visiting.Put(c.Name)
	ok := c.Accessible(s)
	s.visiting.Remove(c.Name)
	return ok
}

// update expands the reachable regions to a fixpoint.
func (s *State) update() {
	if !s.stale || s.updating {
		return
	}
	s.updating = true
	defer func() { s.updating = false }()

	for {
		s.stale = false
		changed := false
		for _, r := range s.graph.Regions() {
			if s.regions.Has(r.Name) {
				continue
			}
			for _, e := range r.Entrances {
				if !s.regions.Has(e.Source.Name) {
					continue
				}
				if e.Guard == nil || e.Guard(s) {
					s.regions.Put(r.Name)
					changed = true
					break
				}
			}
		}
		if !changed && !s.stale {
			return
		}
	}
}

// Sweep collects every reachable check until nothing new becomes
// reachable: event items and the items placement assigns to this player's
// locations. It returns the names of the checks collected, in order.
func (s *State) Sweep(placement Placement) []string {
	var collected []string
	for {
		progress := false
		for _, c := range s.graph.Checks() {
			if s.collected.Has(c.Name) || !s.canReach(c) {
				continue
			}
			s.collected.Put(c.Name)
			collected = append(collected, c.Name)
			progress = true

			switch {
			case c.Event:
				s.Collect(c.Item)
			case placement != nil:
				if item, ok := placement[c.Name]; ok {
					s.Collect(item)
				}
			}
		}
		if !progress {
			return collected
		}
	}
}

// ReachableRegions returns the reachable region names sorted.
func (s *State) ReachableRegions() []string {
	s.update()
	out := make([]string, 0, s.regions.Size())
	s.regions.Each(func(name string) {
		out = append(out, name)
	})
	sort.Strings(out)
	return out
}

// ReachableLocations returns the non-event checks currently in logic, in
// graph order.
func (s *State) ReachableLocations() []string {
	var out []string
	for _, c := range s.graph.Checks() {
		if !c.Event && s.canReach(c) {
			out = append(out, c.Name)
		}
	}
	return out
}
