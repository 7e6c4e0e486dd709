package options

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Player is one document of a players file. Options is nil for players of
// other games; they still occupy a slot.
type Player struct {
	Slot    int
	Name    string
	Game    string
	Options *Options
}

type document struct {
	Name     string    `yaml:"name"`
	Game     string    `yaml:"game"`
	Settings yaml.Node `yaml:"Final Fantasy X"`
}

// Parse decodes a multi-document players file. Slots are numbered from
// firstSlot in document order.
func Parse(data []byte, firstSlot int) ([]Player, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var players []Player
	for {
		var doc document
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse players YAML: %w", err)
		}

		slot := firstSlot + len(players)
		p := Player{Slot: slot, Name: doc.Name, Game: doc.Game}
		if p.Game == "" {
			p.Game = GameName
		}
		if p.Game == GameName {
			opts := Default()
			opts.Slot = slot
			opts.Name = doc.Name
			if doc.Settings.Kind != 0 {
				if err := doc.Settings.Decode(opts); err != nil {
					return nil, opts.Wrap("Options", err)
				}
			}
			p.Options = opts
		}
		players = append(players, p)
	}
	return players, nil
}

// Load reads players from a file or from every *.yaml file of a directory
// in name order, then checks names.
func Load(path string) ([]Player, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read players: %w", err)
	}

	var files []string
	if info.IsDir() {
		matches, err := filepath.Glob(filepath.Join(path, "*.yaml"))
		if err != nil {
			return nil, err
		}
		sort.Strings(matches)
		files = matches
	} else {
		files = []string{path}
	}

	var players []Player
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read players file: %w", err)
		}
		parsed, err := Parse(data, len(players)+1)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(f), err)
		}
		players = append(players, parsed...)
	}

	if err := checkNames(players); err != nil {
		return nil, err
	}
	return players, nil
}

func checkNames(players []Player) error {
	seen := make(map[string]int, len(players))
	for _, p := range players {
		subject := &Options{Slot: p.Slot, Name: p.Name}
		if p.Name == "" {
			return subject.errorf("Name", "player name is empty")
		}
		if prev, dup := seen[p.Name]; dup {
			return subject.errorf("Name", "already used by slot %d", prev)
		}
		seen[p.Name] = p.Slot
	}
	return nil
}

// Names maps every slot to its player name.
func Names(players []Player) map[int]string {
	out := make(map[int]string, len(players))
	for _, p := range players {
		out[p.Slot] = p.Name
	}
	return out
}
