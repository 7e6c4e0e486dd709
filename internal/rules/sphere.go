package rules

import (
	"github.com/lawnchairsociety/ffxlogic/internal/location"
	"github.com/lawnchairsociety/ffxlogic/internal/logic"
)

// SphereGridRegion returns the region holding a character's grid nodes.
func SphereGridRegion(character string) string {
	return "Sphere Grid: " + character
}

// bindSphereGrid adds one region per character holding that character's
// grid nodes, entered from the root once the character is unlocked.
func (b *binder) bindSphereGrid() error {
	if !b.Options.SphereGridRandomization {
		return nil
	}
	for i, character := range location.SphereGridCharacters {
		member, err := b.Library.PartyMember(character)
		if err != nil {
			return err
		}
		r, err := b.Graph.AddRegion(SphereGridRegion(character))
		if err != nil {
			return err
		}
		for node := 0; node < location.SphereGridNodes; node++ {
			loc, ok := b.Locations.Resolve(location.SphereGrid, node+i*location.SphereGridNodes)
			if !ok {
				b.Log.Debug("sphere grid node not in registry", "character", character, "node", node)
				continue
			}
			if _, err := b.Graph.AttachLocation(r, loc); err != nil {
				return err
			}
		}
		if _, err := b.Graph.Connect(b.Graph.Root(), r, logic.Has(member)); err != nil {
			return err
		}
	}
	return nil
}
