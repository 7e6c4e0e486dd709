package rules

import (
	"fmt"

	"github.com/lawnchairsociety/ffxlogic/internal/location"
	"github.com/lawnchairsociety/ffxlogic/internal/logic"
	"github.com/lawnchairsociety/ffxlogic/internal/options"
)

// The goal event.
const (
	GoalRegion   = "Sin: Braska's Final Aeon"
	GoalLocation = "Sin: Braska's Final Aeon"
	VictoryItem  = "Victory"
)

// The pilgrimage: naming Valefor, Ifrit, Ixion, Shiva and Bahamut, then
// defeating Yunalesca.
var (
	pilgrimageAeons = []int{8, 9, 10, 11, 12}
	pilgrimageEnd   = 37
)

// Complete is the completion condition: the goal event's item is held.
var Complete = logic.Has(VictoryItem)

// GoalRule returns the predicate for a goal mode over a library, before the
// primer requirement. Location-based modes need the graph to name their
// targets, so they are resolved by the binder.
func GoalRule(lib *logic.Library, opts *options.Options) (logic.Predicate, bool) {
	switch opts.GoalRequirement {
	case options.GoalNone:
		return logic.Always, true
	case options.GoalPartyMembers:
		roster := lib.Catalog().Roster()
		return logic.HasFromListUnique(roster, min(opts.RequiredPartyMembers, len(roster))), true
	case options.GoalPartyMembersAndAeons:
		members := lib.Catalog().PartyMembers()
		return logic.HasFromListUnique(members, min(opts.RequiredPartyMembers, len(members))), true
	}
	return nil, false
}

// PrimerRule requires the configured number of distinct Al Bhed primers.
func PrimerRule(lib *logic.Library, required int) logic.Predicate {
	return logic.HasFromListUnique(lib.Catalog().Primers(), required)
}

func (b *binder) bindGoal() (logic.Predicate, error) {
	goal, ok := GoalRule(b.Library, b.Options)
	if !ok {
		switch b.Options.GoalRequirement {
		case options.GoalPilgrimage:
			stops := append(b.names(location.PartyMember, pilgrimageAeons), b.names(location.Boss, []int{pilgrimageEnd})...)
			if len(stops) != len(pilgrimageAeons)+1 {
				return nil, fmt.Errorf("pilgrimage goal: pilgrimage locations missing from the graph")
			}
			goal = logic.CanReachAllLocations(stops...)
		case options.GoalNemesis:
			if b.Arena == nil {
				return nil, fmt.Errorf("nemesis goal: no arena table")
			}
			n, ok := b.name(location.Boss, b.Arena.NemesisBoss)
			if !ok {
				return nil, fmt.Errorf("nemesis goal: arena boss %d is not in the graph", b.Arena.NemesisBoss)
			}
			goal = logic.CanReachLocation(n)
		default:
			return nil, fmt.Errorf("unknown goal %v", b.Options.GoalRequirement)
		}
	}

	rule := logic.And(goal, PrimerRule(b.Library, b.Options.RequiredPrimers))

	r, err := b.region(GoalRegion)
	if err != nil {
		return nil, err
	}
	if _, err := b.Graph.AddEvent(r, GoalLocation, VictoryItem); err != nil {
		return nil, err
	}
	if err := b.Graph.AddRule(GoalLocation, rule); err != nil {
		return nil, err
	}
	return rule, nil
}
