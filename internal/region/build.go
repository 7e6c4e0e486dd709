package region

import (
	"fmt"
	"log/slog"

	"github.com/lawnchairsociety/ffxlogic/internal/location"
	"github.com/lawnchairsociety/ffxlogic/internal/logic"
)

// Resolver maps rule names from the region table to predicates.
type Resolver interface {
	Resolve(name string) (logic.Predicate, error)
}

// RuleError reports a region rule name the resolver rejected.
type RuleError struct {
	Region string
	Rule   string
	Err    error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("region %q rule %q: %v", e.Region, e.Rule, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}

// Build constructs the region graph for a table.
//
// Location references absent from the registry are skipped and logged at
// debug level. Edges into a region are guarded by the AND of that region's
// rules, and regions left without entrances are connected from the root with
// the same guard.
func Build(t *Table, registry *location.Registry, resolver Resolver, log *slog.Logger) (*Graph, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	g := NewGraph()
	byID := make(map[int]*Region, len(t.Regions))
	records := make(map[int]*Record, len(t.Regions))

	for i := range t.Regions {
		rec := &t.Regions[i]
		r, err := g.AddRegion(rec.Name)
		if err != nil {
			return nil, err
		}
		byID[rec.ID] = r
		records[rec.ID] = rec

		for _, ref := range rec.LocationRefs() {
			for _, seq := range ref.Sequences {
				loc, ok := registry.Resolve(ref.Category, seq)
				if !ok {
					log.Debug("skipping unknown location reference",
						"region", rec.Name, "category", ref.Category.String(), "sequence", seq)
					continue
				}
				if _, err := g.AttachLocation(r, loc); err != nil {
					return nil, fmt.Errorf("region %q: %w", rec.Name, err)
				}
			}
		}
	}

	guards := make(map[int]logic.Predicate, len(t.Regions))
	guardFor := func(id int) (logic.Predicate, error) {
		if p, ok := guards[id]; ok {
			return p, nil
		}
		rec := records[id]
		preds := make([]logic.Predicate, 0, len(rec.Rules))
		for _, name := range rec.Rules {
			p, err := resolver.Resolve(name)
			if err != nil {
				return nil, &RuleError{Region: rec.Name, Rule: name, Err: err}
			}
			preds = append(preds, p)
		}
		var guard logic.Predicate
		if len(preds) > 0 {
			guard = logic.And(preds...)
		}
		guards[id] = guard
		return guard, nil
	}

	for i := range t.Regions {
		rec := &t.Regions[i]
		for _, next := range rec.LeadsTo {
			target, ok := byID[next]
			if !ok {
				return nil, fmt.Errorf("%w: region %q leads to id %d", ErrDanglingSuccessor, rec.Name, next)
			}
			guard, err := guardFor(next)
			if err != nil {
				return nil, err
			}
			if _, err := g.Connect(byID[rec.ID], target, guard); err != nil {
				return nil, err
			}
		}
	}

	for i := range t.Regions {
		rec := &t.Regions[i]
		r := byID[rec.ID]
		if len(r.Entrances) > 0 {
			continue
		}
		guard, err := guardFor(rec.ID)
		if err != nil {
			return nil, err
		}
		if _, err := g.Connect(g.root, r, guard); err != nil {
			return nil, err
		}
	}

	return g, nil
}
