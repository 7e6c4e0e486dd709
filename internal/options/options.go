// Package options holds the per-player options of a generation run and
// their validation.
package options

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// GameName is the game key of player documents this module handles.
const GameName = "Final Fantasy X"

// Goal selects the requirement for the final battle.
type Goal int

const (
	GoalNone Goal = iota
	GoalPartyMembers
	GoalPilgrimage
	GoalPartyMembersAndAeons
	GoalNemesis
)

var goalNames = []string{"none", "party_members", "pilgrimage", "party_members_and_aeons", "nemesis"}

func (g Goal) String() string {
	if g < 0 || int(g) >= len(goalNames) {
		return "Goal(" + strconv.Itoa(int(g)) + ")"
	}
	return goalNames[g]
}

// UnmarshalYAML accepts the option value or its name.
func (g *Goal) UnmarshalYAML(node *yaml.Node) error {
	if n, err := strconv.Atoi(node.Value); err == nil {
		*g = Goal(n)
		return nil
	}
	for i, name := range goalNames {
		if strings.EqualFold(node.Value, name) {
			*g = Goal(i)
			return nil
		}
	}
	return fmt.Errorf("line %d: unknown goal_requirement %q", node.Line, node.Value)
}

// Toggle is an on/off option. YAML values true/false, on/off, yes/no and
// 1/0 are accepted.
type Toggle bool

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *Toggle) UnmarshalYAML(node *yaml.Node) error {
	switch strings.ToLower(node.Value) {
	case "true", "on", "yes", "1":
		*t = true
	case "false", "off", "no", "0":
		*t = false
	default:
		return fmt.Errorf("line %d: invalid toggle value %q", node.Line, node.Value)
	}
	return nil
}

// Int returns the option value handed to the game client.
func (t Toggle) Int() int {
	if t {
		return 1
	}
	return 0
}

// ArenaSetting controls the Monster Arena creation rewards and bosses.
type ArenaSetting int

const (
	ArenaOff ArenaSetting = iota
	ArenaOriginal
)

func (a ArenaSetting) String() string {
	switch a {
	case ArenaOff:
		return "off"
	case ArenaOriginal:
		return "original"
	default:
		return "ArenaSetting(" + strconv.Itoa(int(a)) + ")"
	}
}

// Enabled reports whether the setting is anything but off.
func (a ArenaSetting) Enabled() bool {
	return a != ArenaOff
}

// UnmarshalYAML accepts off/original, a toggle value or the option number.
func (a *ArenaSetting) UnmarshalYAML(node *yaml.Node) error {
	switch strings.ToLower(node.Value) {
	case "off", "false", "no":
		*a = ArenaOff
		return nil
	case "original", "original_creations", "on", "true", "yes":
		*a = ArenaOriginal
		return nil
	}
	n, err := strconv.Atoi(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid arena setting %q", node.Line, node.Value)
	}
	*a = ArenaSetting(n)
	return nil
}

// Options are one player's settings.
type Options struct {
	// Slot and Name identify the player; they are filled by the loader.
	Slot int    `yaml:"-"`
	Name string `yaml:"-"`

	GoalRequirement         Goal         `yaml:"goal_requirement"`
	RequiredPartyMembers    int          `yaml:"required_party_members"`
	RequiredPrimers         int          `yaml:"required_primers"`
	APMultiplier            int          `yaml:"ap_multiplier"`
	SphereGridRandomization Toggle       `yaml:"sphere_grid_randomization"`
	SuperBosses             Toggle       `yaml:"super_bosses"`
	MiniGames               Toggle       `yaml:"mini_games"`
	RecruitSanity           Toggle       `yaml:"recruit_sanity"`
	CaptureSanity           Toggle       `yaml:"capture_sanity"`
	CreationRewards         ArenaSetting `yaml:"creation_rewards"`
	ArenaBosses             ArenaSetting `yaml:"arena_bosses"`
	LogicDifficulty         int          `yaml:"logic_difficulty"`
	TrapPercentage          int          `yaml:"trap_percentage"`
	ExcludeLocations        []string     `yaml:"exclude_locations"`
}

// Option ranges.
const (
	MinDifficulty   = 1
	MaxDifficulty   = 10
	MinAPMultiplier = 1
	MaxAPMultiplier = 10
	MinPartyMembers = 1
	MaxPartyMembers = 16
	MaxPrimers      = 26
	MaxTrapPercent  = 100
)

// Default returns the default options.
func Default() *Options {
	return &Options{
		GoalRequirement:      GoalNone,
		RequiredPartyMembers: 8,
		RequiredPrimers:      0,
		APMultiplier:         2,
		LogicDifficulty:      3,
		TrapPercentage:       0,
	}
}

// Validate checks option ranges and option combinations.
func (o *Options) Validate() error {
	if o.GoalRequirement < GoalNone || o.GoalRequirement > GoalNemesis {
		return o.errorf("Goal Requirement", "unknown goal %d", int(o.GoalRequirement))
	}
	checks := []struct {
		subject  string
		value    int
		min, max int
	}{
		{"Required Party Members", o.RequiredPartyMembers, MinPartyMembers, MaxPartyMembers},
		{"Required Primers", o.RequiredPrimers, 0, MaxPrimers},
		{"AP Multiplier", o.APMultiplier, MinAPMultiplier, MaxAPMultiplier},
		{"Logic Difficulty", o.LogicDifficulty, MinDifficulty, MaxDifficulty},
		{"Trap Percentage", o.TrapPercentage, 0, MaxTrapPercent},
	}
	for _, c := range checks {
		if c.value < c.min || c.value > c.max {
			return o.errorf(c.subject, "%d is outside %d..%d", c.value, c.min, c.max)
		}
	}
	for _, a := range []struct {
		subject string
		value   ArenaSetting
	}{{"Creation Rewards", o.CreationRewards}, {"Arena Bosses", o.ArenaBosses}} {
		if a.value < ArenaOff || a.value > ArenaOriginal {
			return o.errorf(a.subject, "unknown setting %d", int(a.value))
		}
	}

	switch {
	case o.GoalRequirement == GoalNemesis && !bool(o.CaptureSanity):
		return o.errorf("Goal Requirement", "Nemesis cannot be chosen if Capture Sanity is disabled.")
	case o.GoalRequirement == GoalNemesis && o.CreationRewards != ArenaOriginal:
		return o.errorf("Goal Requirement", "Nemesis cannot be chosen if Creation Rewards is not set to Original Creations.")
	case o.GoalRequirement == GoalNemesis && o.ArenaBosses != ArenaOriginal:
		return o.errorf("Goal Requirement", "Nemesis cannot be chosen if Arena Bosses is not set to Original Creations.")
	case o.CreationRewards.Enabled() && !bool(o.CaptureSanity):
		return o.errorf("Creation Rewards", "cannot be enabled if Capture Sanity is disabled.")
	case o.ArenaBosses.Enabled() && !bool(o.CaptureSanity):
		return o.errorf("Arena Bosses", "cannot be enabled if Capture Sanity is disabled.")
	}
	return nil
}

// Errorf returns a ConfigError for this player.
func (o *Options) Errorf(subject, format string, args ...any) *ConfigError {
	return o.errorf(subject, format, args...)
}

func (o *Options) errorf(subject, format string, args ...any) *ConfigError {
	return &ConfigError{
		Slot:    o.Slot,
		Player:  o.Name,
		Subject: subject,
		Reason:  fmt.Sprintf(format, args...),
	}
}

// SlotData returns the option values handed to the game client.
func (o *Options) SlotData() map[string]int {
	return map[string]int{
		"goal_requirement":          int(o.GoalRequirement),
		"required_party_members":    o.RequiredPartyMembers,
		"required_primers":          o.RequiredPrimers,
		"ap_multiplier":             o.APMultiplier,
		"sphere_grid_randomization": o.SphereGridRandomization.Int(),
		"super_bosses":              o.SuperBosses.Int(),
		"mini_games":                o.MiniGames.Int(),
		"logic_difficulty":          o.LogicDifficulty,
		"recruit_sanity":            o.RecruitSanity.Int(),
		"capture_sanity":            o.CaptureSanity.Int(),
		"creation_rewards":          int(o.CreationRewards),
		"arena_bosses":              int(o.ArenaBosses),
		"trap_percentage":           o.TrapPercentage,
	}
}
