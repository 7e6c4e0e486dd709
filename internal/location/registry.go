package location

import (
	"fmt"
	"slices"
	"sort"
)

// Registry is the read-only catalog of every location. It is built once
// and shared by all players' worlds, so lookups hand out copies.
type Registry struct {
	byID   map[ID]int
	byName map[string]int
	all    []Location
}

// DuplicateError reports two catalog entries that collide on id or name.
type DuplicateError struct {
	Key      string
	First    string
	Conflict string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate location %s: %q conflicts with %q", e.Key, e.Conflict, e.First)
}

// NewRegistry builds a registry, failing on the first duplicate
// (category, sequence) pair or duplicate display name.
func NewRegistry(locations []Location) (*Registry, error) {
	all := make([]Location, 0, len(locations))
	ids := make(map[ID]string, len(locations))
	names := make(map[string]ID, len(locations))

	for _, loc := range locations {
		if !loc.ID.Category().Valid() {
			return nil, fmt.Errorf("location %q has invalid id %s", loc.Name, loc.ID)
		}
		if loc.Name == "" {
			return nil, fmt.Errorf("location %s has no name", loc.ID)
		}
		if prev, ok := ids[loc.ID]; ok {
			return nil, &DuplicateError{
				Key:      fmt.Sprintf("%s/%d", loc.ID.Category(), loc.ID.Sequence()),
				First:    prev,
				Conflict: loc.Name,
			}
		}
		if prev, ok := names[loc.Name]; ok {
			return nil, &DuplicateError{
				Key:      fmt.Sprintf("name %q", loc.Name),
				First:    prev.String(),
				Conflict: loc.ID.String(),
			}
		}
		ids[loc.ID] = loc.Name
		names[loc.Name] = loc.ID
		all = append(all, loc)
	}

	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	r := &Registry{
		byID:   make(map[ID]int, len(all)),
		byName: make(map[string]int, len(all)),
		all:    all,
	}
	for i, loc := range all {
		r.byID[loc.ID] = i
		r.byName[loc.Name] = i
	}
	return r, nil
}

// Resolve returns the location for a (category, sequence) pair.
func (r *Registry) Resolve(c Category, seq int) (Location, bool) {
	if seq < 0 || seq > MaxSequence {
		return Location{}, false
	}
	return r.ByID(NewID(c, seq))
}

// ByID returns the location with the given stable id.
func (r *Registry) ByID(id ID) (Location, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Location{}, false
	}
	return r.all[i], true
}

// ByName returns the location with the given display name.
func (r *Registry) ByName(name string) (Location, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Location{}, false
	}
	return r.all[i], true
}

// All returns every location ordered by stable id.
func (r *Registry) All() []Location {
	return slices.Clone(r.all)
}

// InCategory returns the locations of one category ordered by sequence.
func (r *Registry) InCategory(c Category) []Location {
	var result []Location
	for _, loc := range r.all {
		if loc.Category() == c {
			result = append(result, loc)
		}
	}
	return result
}

// Count returns the number of locations.
func (r *Registry) Count() int {
	return len(r.all)
}
