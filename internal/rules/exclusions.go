package rules

import (
	"github.com/lawnchairsociety/ffxlogic/internal/exclusion"
	"github.com/lawnchairsociety/ffxlogic/internal/location"
)

// Superboss locations left to filler unless super bosses are on.
var (
	superbossBosses    = []int{2, 19, 13, 18, 38, 31, 45, 46, 47, 34, 25, 44}
	superbossTreasures = []int{332}
)

// Minigame rewards left to filler unless minigames are on.
var miniGameTreasures = []int{
	// chocobo training and race
	338, 339, 340, 417, 418, 419, 420, 421,
	// lightning dodging
	189, 190, 191, 192, 193, 194,
	// story blitzball
	497,
	// sigils
	274, 278, 277, 279, 244,
	// celestial weapons and the cloudy mirror
	114, 93, 176,
}

func (b *binder) exclude(c location.Category, seqs []int, reason string) {
	for _, seq := range seqs {
		loc, ok := b.Locations.Resolve(c, seq)
		if !ok {
			b.Log.Debug("excluded location not in registry", "category", c.String(), "sequence", seq)
			continue
		}
		b.excludeName(loc.Name, reason)
	}
}

func (b *binder) excludeCategory(c location.Category, reason string) {
	for _, loc := range b.Locations.InCategory(c) {
		b.excludeName(loc.Name, reason)
	}
}

func (b *binder) excludeName(name, reason string) {
	if b.Exclusions.Exclude(name, reason) {
		b.Log.Debug("excluded location", "location", name, "reason", reason)
	}
}

func (b *binder) applyExclusions() error {
	opts := b.Options

	if !opts.SuperBosses {
		b.exclude(location.Boss, superbossBosses, exclusion.ReasonSuperBosses)
		b.exclude(location.Treasure, superbossTreasures, exclusion.ReasonSuperBosses)
	}
	if !opts.MiniGames {
		b.exclude(location.Treasure, miniGameTreasures, exclusion.ReasonMiniGames)
	}
	if !opts.RecruitSanity {
		b.excludeCategory(location.Recruit, exclusion.ReasonRecruitSanity)
	}
	if !opts.CaptureSanity {
		b.excludeCategory(location.Capture, exclusion.ReasonCaptureSanity)
	}
	if b.Arena != nil {
		if !opts.ArenaBosses.Enabled() {
			b.exclude(location.Boss, b.Arena.Bosses(), exclusion.ReasonArenaBosses)
		}
		if !opts.CreationRewards.Enabled() {
			b.exclude(location.Treasure, b.Arena.ConquestRewards(), exclusion.ReasonCreationRewards)
			b.exclude(location.Treasure, b.Arena.CreationRewards(), exclusion.ReasonCreationRewards)
		}
	}

	for _, c := range b.Graph.Checks() {
		if c.Location != nil && c.Location.Missable {
			b.excludeName(c.Name, exclusion.ReasonMissable)
		}
	}

	for _, name := range opts.ExcludeLocations {
		if _, ok := b.Locations.ByName(name); !ok {
			return opts.Errorf("Exclude Locations", "unknown location %q", name)
		}
		b.excludeName(name, exclusion.ReasonPlayer)
	}
	return nil
}
