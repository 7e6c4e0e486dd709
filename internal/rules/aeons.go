package rules

import (
	"github.com/lawnchairsociety/ffxlogic/internal/location"
	"github.com/lawnchairsociety/ffxlogic/internal/logic"
)

type remiemFight struct {
	fight   int
	reward  int // 0 when the fight has no follow-up reward
	summons int
	aeons   []string
}

// Remiem Temple aeon fights and their post-fight rewards (treasures).
var remiemFights = []remiemFight{
	{fight: 379, reward: 380, summons: 2},
	{fight: 381, reward: 382, summons: 2},
	{fight: 383, reward: 384, summons: 2},
	{fight: 385, reward: 386, summons: 2},
	{fight: 334, reward: 387, summons: 2},
	{fight: 388, reward: 389, summons: 2, aeons: []string{"Yojimbo"}},
	{fight: 390, reward: 391, aeons: []string{"Yojimbo", "Anima"}},
	{fight: 392, reward: 393, aeons: []string{"Yojimbo", "Anima", "Magus Sisters"}},
	// sending Belgemine
	{fight: 275, aeons: []string{"Yojimbo", "Anima", "Magus Sisters"}},
}

// Belgemine's second win needs the first.
const (
	belgemineOnce  = 374
	belgemineTwice = 371
)

func (b *binder) bindRemiem() error {
	for _, f := range remiemFights {
		members, err := b.hasMembers(f.aeons...)
		if err != nil {
			return err
		}
		rule := logic.And(b.Library.MinSummons(f.summons), members)
		if err := b.addRule(location.Treasure, f.fight, rule); err != nil {
			return err
		}
		if f.reward == 0 {
			continue
		}
		if err := b.addRule(location.Treasure, f.reward, b.reachable(location.Treasure, f.fight)); err != nil {
			return err
		}
	}
	return b.addRule(location.Treasure, belgemineTwice, b.reachable(location.Treasure, belgemineOnce))
}

// Superboss fights by boss sequence.
var superbossRules = []struct {
	boss int
	rule logic.RuleID
}{
	{2, logic.RuleDarkValefor},
	{13, logic.RuleDarkIxion},
	{18, logic.RuleDarkShiva},
	{19, logic.RuleDarkIfrit},
	{31, logic.RuleDarkYojimbo},
	{34, logic.RuleDarkAnima},
	{38, logic.RuleDarkBahamut},
	{44, logic.RuleOmegaWeapon},
	{45, logic.RuleDarkMagusSisters},
	{46, logic.RuleDarkMagusSisters},
	{47, logic.RuleDarkMagusSisters},
}

func (b *binder) bindDarkAeons() error {
	for _, s := range superbossRules {
		if err := b.addRule(location.Boss, s.boss, b.Library.Rule(s.rule)); err != nil {
			return err
		}
	}
	return nil
}

// Destruction sphere chests of the six temples, in pilgrimage order.
var templeTreasures = []int{
	15,  // Besaid
	19,  // Kilika
	484, // Djose
	485, // Macalania
	217, // Bevelle
	209, // Zanarkand
}

const (
	animaUnlock = 13
	magusUnlock = 15
)

func (b *binder) bindAeonUnlocks() error {
	temples := b.names(location.Treasure, templeTreasures)
	if len(temples) != len(templeTreasures) {
		return b.addRule(location.PartyMember, animaUnlock, logic.Never)
	}
	if err := b.addRule(location.PartyMember, animaUnlock, logic.CanReachAllLocations(temples...)); err != nil {
		return err
	}

	magus, err := b.hasItems("Flower Scepter", "Blossom Crown")
	if err != nil {
		return err
	}
	return b.addRule(location.PartyMember, magusUnlock, magus)
}
