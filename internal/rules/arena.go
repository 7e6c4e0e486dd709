package rules

import (
	"fmt"

	"github.com/lawnchairsociety/ffxlogic/internal/arena"
	"github.com/lawnchairsociety/ffxlogic/internal/location"
	"github.com/lawnchairsociety/ffxlogic/internal/logic"
)

// ArenaRegion is the region whose owner sells the capture weapons.
const ArenaRegion = "Monster Arena"

func (b *binder) bindArena() error {
	if b.Arena == nil {
		return nil
	}
	if _, err := b.region(ArenaRegion); err != nil {
		return err
	}

	var captures []string
	for _, loc := range b.Locations.InCategory(location.Capture) {
		if _, ok := b.Graph.Check(loc.Name); !ok {
			continue
		}
		captures = append(captures, loc.Name)
		if err := b.Graph.AddRule(loc.Name, logic.CanReachRegion(ArenaRegion)); err != nil {
			return err
		}
	}

	var areaRewards, speciesRewards []string
	for _, group := range []struct {
		conquests []arena.Conquest
		rewards   *[]string
	}{
		{b.Arena.AreaConquests, &areaRewards},
		{b.Arena.SpeciesConquests, &speciesRewards},
	} {
		for _, c := range group.conquests {
			needed := b.names(location.Capture, c.Captures)
			if err := b.addRule(location.Treasure, c.Reward, logic.CanReachAllLocations(needed...)); err != nil {
				return err
			}
			if err := b.addRule(location.Boss, c.Unlocks, b.reachable(location.Treasure, c.Reward)); err != nil {
				return err
			}
			if n, ok := b.name(location.Treasure, c.Reward); ok {
				*group.rewards = append(*group.rewards, n)
			}
		}
	}

	for _, c := range b.Arena.Creations {
		var rule logic.Predicate
		switch c.Requirement() {
		case arena.RequireAreaConquests:
			rule = logic.ReachableCount(areaRewards, c.AreaConquests)
		case arena.RequireSpeciesConquests:
			rule = logic.ReachableCount(speciesRewards, c.SpeciesConquests)
		case arena.RequireAllCaptures:
			rule = logic.CanReachAllLocations(captures...)
		case arena.RequireCaptures:
			rule = logic.CanReachAllLocations(b.names(location.Capture, c.Captures)...)
		default:
			return fmt.Errorf("creation %q has no requirement", c.Name)
		}
		if err := b.addRule(location.Treasure, c.Reward, rule); err != nil {
			return err
		}
		if err := b.addRule(location.Boss, c.Unlocks, b.reachable(location.Treasure, c.Reward)); err != nil {
			return err
		}
	}

	conquestRewards := append(append([]string(nil), areaRewards...), speciesRewards...)
	ten := logic.ReachableCount(conquestRewards, arena.TenCreationsThreshold)
	if err := b.addRule(location.Treasure, b.Arena.TenCreationsReward, ten); err != nil {
		return err
	}

	if b.Arena.NemesisBoss != 0 {
		nemesis := b.reachable(location.Boss, b.Arena.NemesisBoss)
		if err := b.addRule(location.Treasure, b.Arena.NemesisReward, nemesis); err != nil {
			return err
		}
	}
	return nil
}
