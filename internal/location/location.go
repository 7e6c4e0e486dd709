// Package location holds the static catalog of checkable locations.
//
// Every location has a stable numeric id whose high nibble is the category
// offset and whose low 12 bits are the sequence number within the category.
package location

import (
	"fmt"
	"strings"
)

// Category partitions locations. Its numeric value is the high nibble of
// every stable id in the category.
type Category int

const (
	Treasure Category = iota + 1
	Boss
	PartyMember
	Overdrive
	OverdriveMode
	Other
	Recruit
	SphereGrid
	Capture
)

// Categories lists every category in id order.
var Categories = []Category{
	Treasure, Boss, PartyMember, Overdrive, OverdriveMode, Other, Recruit, SphereGrid, Capture,
}

var categoryNames = map[Category]string{
	Treasure:      "Treasure",
	Boss:          "Boss",
	PartyMember:   "PartyMember",
	Overdrive:     "Overdrive",
	OverdriveMode: "OverdriveMode",
	Other:         "Other",
	Recruit:       "Recruit",
	SphereGrid:    "SphereGrid",
	Capture:       "Capture",
}

// String returns the category key used in result files.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Offset returns the id offset of the category.
func (c Category) Offset() ID {
	return ID(c) << 12
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

// ParseCategory resolves a category by its result-file key, case-insensitively.
func ParseCategory(s string) (Category, error) {
	for c, name := range categoryNames {
		if strings.EqualFold(name, s) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown location category %q", s)
}

// MaxSequence is the largest sequence number a category can hold.
const MaxSequence = 0xFFF

// ID is a stable location identifier.
type ID int

// NewID composes a stable id from a category and a sequence number.
func NewID(c Category, seq int) ID {
	return c.Offset() | ID(seq&MaxSequence)
}

// Category returns the category encoded in the id.
func (id ID) Category() Category {
	return Category(id >> 12)
}

// Sequence returns the within-category sequence number.
func (id ID) Sequence() int {
	return int(id & MaxSequence)
}

func (id ID) String() string {
	return fmt.Sprintf("0x%04X", int(id))
}

// Location is an immutable checkable slot.
type Location struct {
	ID   ID
	Name string
	// Missable locations can be permanently lost in a playthrough and are
	// excluded from meaningful placement by default.
	Missable bool
}

// Category returns the location's category.
func (l Location) Category() Category {
	return l.ID.Category()
}

// Sequence returns the location's sequence number.
func (l Location) Sequence() int {
	return l.ID.Sequence()
}
