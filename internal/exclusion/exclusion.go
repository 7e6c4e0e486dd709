// Package exclusion holds the per-player set of locations the fill may only
// place filler into.
package exclusion

import (
	"sort"

	"github.com/zyedidia/generic/mapset"
)

// Reason values used by the world pipeline.
const (
	ReasonSuperBosses     = "super_bosses"
	ReasonMiniGames       = "mini_games"
	ReasonRecruitSanity   = "recruit_sanity"
	ReasonCaptureSanity   = "capture_sanity"
	ReasonArenaBosses     = "arena_bosses"
	ReasonCreationRewards = "creation_rewards"
	ReasonMissable        = "missable"
	ReasonPlayer          = "exclude_locations"
)

// Set is an owned set of excluded location names. The first reason recorded
// for a name is kept.
type Set struct {
	names   mapset.Set[string]
	reasons map[string]string
}

// New returns an empty set.
func New() *Set {
	return &Set{
		names:   mapset.New[string](),
		reasons: make(map[string]string),
	}
}

// Exclude adds name. It reports whether name was newly added.
func (s *Set) Exclude(name, reason string) bool {
	if s.names.Has(name) {
		return false
	}
	s.names.Put(name)
	s.reasons[name] = reason
	return true
}

// Has reports whether name is excluded.
func (s *Set) Has(name string) bool {
	return s.names.Has(name)
}

// Len returns the number of excluded names.
func (s *Set) Len() int {
	return s.names.Size()
}

// Reason returns the reason name was excluded for.
func (s *Set) Reason(name string) (string, bool) {
	r, ok := s.reasons[name]
	return r, ok
}

// Names returns the excluded names sorted.
func (s *Set) Names() []string {
	out := make([]string, 0, s.names.Size())
	s.names.Each(func(name string) {
		out = append(out, name)
	})
	sort.Strings(out)
	return out
}

// ByReason groups the excluded names by reason, each group sorted.
func (s *Set) ByReason() map[string][]string {
	out := make(map[string][]string)
	for _, name := range s.Names() {
		r := s.reasons[name]
		out[r] = append(out[r], name)
	}
	return out
}
