// Package logic provides the access-rule predicates evaluated by the
// reachability solver.
//
// Every Predicate is monotonic: once true for a collection state it stays
// true for any state holding a superset of the items. Constructors copy their
// arguments, so a predicate never observes later changes to the caller's
// slices or loop variables.
package logic

// State is the read-only view of one player's collection state.
type State interface {
	Has(item string) bool
	HasAll(items []string) bool
	HasFromListUnique(items []string, count int) bool
	CanReachRegion(name string) bool
	CanReachLocation(name string) bool
	HeldItemCounts() map[string]int
}

// Predicate is a pure access rule over a collection state.
type Predicate func(State) bool

// Always is satisfied by every state.
var Always Predicate = func(State) bool { return true }

// Never is satisfied by no state.
var Never Predicate = func(State) bool { return false }

// And is satisfied when every predicate is. Nil predicates are ignored and an
// empty conjunction is Always.
func And(preds ...Predicate) Predicate {
	list := compact(preds)
	switch len(list) {
	case 0:
		return Always
	case 1:
		return list[0]
	}
	return func(s State) bool {
		for _, p := range list {
			if !p(s) {
				return false
			}
		}
		return true
	}
}

// Or is satisfied when any predicate is. Nil predicates are ignored and an
// empty disjunction is Never.
func Or(preds ...Predicate) Predicate {
	list := compact(preds)
	switch len(list) {
	case 0:
		return Never
	case 1:
		return list[0]
	}
	return func(s State) bool {
		for _, p := range list {
			if p(s) {
				return true
			}
		}
		return false
	}
}

func compact(preds []Predicate) []Predicate {
	list := make([]Predicate, 0, len(preds))
	for _, p := range preds {
		if p != nil {
			list = append(list, p)
		}
	}
	return list
}

// Has requires one item.
func Has(item string) Predicate {
	return func(s State) bool { return s.Has(item) }
}

// HasAll requires every listed item.
func HasAll(items ...string) Predicate {
	list := clone(items)
	if len(list) == 0 {
		return Always
	}
	return func(s State) bool { return s.HasAll(list) }
}

// HasFromListUnique requires at least count distinct items from the list.
func HasFromListUnique(items []string, count int) Predicate {
	if count <= 0 {
		return Always
	}
	if count > len(items) {
		return Never
	}
	list := clone(items)
	return func(s State) bool { return s.HasFromListUnique(list, count) }
}

// CanReachRegion requires a region to be reachable.
func CanReachRegion(name string) Predicate {
	return func(s State) bool { return s.CanReachRegion(name) }
}

// CanReachLocation requires a location to be reachable.
func CanReachLocation(name string) Predicate {
	return func(s State) bool { return s.CanReachLocation(name) }
}

// CanReachAllLocations requires every listed location to be reachable.
func CanReachAllLocations(names ...string) Predicate {
	return ReachableCount(names, len(names))
}

// ReachableCountAtLeast reports whether at least k of the locations are
// reachable, stopping as soon as k is reached.
func ReachableCountAtLeast(s State, locations []string, k int) bool {
	if k <= 0 {
		return true
	}
	if k > len(locations) {
		return false
	}
	found := 0
	for i, name := range locations {
		if s.CanReachLocation(name) {
			found++
			if found >= k {
				return true
			}
		}
		if found+len(locations)-i-1 < k {
			return false
		}
	}
	return false
}

// ReachableCount wraps ReachableCountAtLeast as a predicate.
func ReachableCount(locations []string, k int) Predicate {
	list := clone(locations)
	return func(s State) bool { return ReachableCountAtLeast(s, list, k) }
}

func clone(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	out := make([]string, len(items))
	copy(out, items)
	return out
}
