package rules

import (
	"github.com/lawnchairsociety/ffxlogic/internal/location"
	"github.com/lawnchairsociety/ffxlogic/internal/logic"
)

const (
	celestialMirror = "Celestial Mirror"
	cloudyMirror    = "Cloudy Mirror"
	rustySword      = "Rusty Sword"
)

// Celestial weapon chests opened with the Celestial Mirror.
var celestialWeaponTreasures = []int{5, 93, 113, 114, 188}

const (
	masamuneTreasure     = 99
	mirrorTreasure       = 111
	mercurySigilTreasure = 279
	mercurySigilRegion   = "Airship 1st visit: Post-Evrae"
	allPrimersTreasure   = 405
)

// Crest upgrade events (Other). The second upgrade is at crest+1.
var celestialUpgrades = []struct {
	crest     int
	celestial string
	weapon    string
}{
	{38, "Sun", "Caladbolg"},
	{40, "Moon", "Nirvana"},
	{42, "Mars", "Masamune"},
	{44, "Saturn", "Spirit Lance"},
	{46, "Jupiter", "World Champion"},
	{48, "Venus", "Onion Knight"},
	{50, "Mercury", "Godhand"},
}

func (b *binder) bindCelestial() error {
	mirror, err := b.hasItems(celestialMirror)
	if err != nil {
		return err
	}
	for _, seq := range celestialWeaponTreasures {
		if err := b.addRule(location.Treasure, seq, mirror); err != nil {
			return err
		}
	}

	masamune, err := b.hasItems(celestialMirror, rustySword)
	if err != nil {
		return err
	}
	if err := b.addRule(location.Treasure, masamuneTreasure, masamune); err != nil {
		return err
	}

	cloudy, err := b.hasItems(cloudyMirror)
	if err != nil {
		return err
	}
	if err := b.addRule(location.Treasure, mirrorTreasure, cloudy); err != nil {
		return err
	}

	if _, err := b.region(mercurySigilRegion); err != nil {
		return err
	}
	if err := b.addRule(location.Treasure, mercurySigilTreasure, logic.CanReachRegion(mercurySigilRegion)); err != nil {
		return err
	}

	for _, u := range celestialUpgrades {
		once, err := b.hasItems(celestialMirror, u.weapon, u.celestial+" Crest")
		if err != nil {
			return err
		}
		twice, err := b.hasItems(celestialMirror, u.weapon, u.celestial+" Crest", u.celestial+" Sigil")
		if err != nil {
			return err
		}
		if err := b.addRule(location.Other, u.crest, once); err != nil {
			return err
		}
		if err := b.addRule(location.Other, u.crest+1, twice); err != nil {
			return err
		}
	}
	return nil
}

func (b *binder) bindPrimers() error {
	primers := b.Library.Catalog().Primers()
	return b.addRule(location.Treasure, allPrimersTreasure, logic.HasAll(primers...))
}
