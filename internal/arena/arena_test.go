package arena

import (
	"reflect"
	"strings"
	"testing"
)

const sampleYAML = `
area_conquests:
  - {name: "Besaid", reward: 424, unlocks: 49, captures: [8, 27]}
  - {name: "Kilika", reward: 425, unlocks: 50, captures: [21, 8]}
species_conquests:
  - {name: "Wolf", reward: 437, unlocks: 62, captures: [8]}
creations:
  - {name: "2 Area Conquests", reward: 451, unlocks: 76, area_conquests: 2}
  - {name: "Capture 1 of Each", reward: 455, unlocks: 80, all_captures: true}
  - {name: "Gagazet Underwater", reward: 457, unlocks: 82, captures: [45, 46]}
ten_creations_reward: 276
nemesis_reward: 496
nemesis_boss: 80
`

func TestParse(t *testing.T) {
	table, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if got, want := table.ConquestRewards(), []int{424, 425, 437}; !reflect.DeepEqual(got, want) {
		t.Errorf("ConquestRewards() = %v, want %v", got, want)
	}
	if got, want := table.CreationRewards(), []int{451, 455, 457}; !reflect.DeepEqual(got, want) {
		t.Errorf("CreationRewards() = %v, want %v", got, want)
	}
	if got, want := table.Bosses(), []int{49, 50, 62, 76, 80, 82}; !reflect.DeepEqual(got, want) {
		t.Errorf("Bosses() = %v, want %v", got, want)
	}
	if got, want := table.Captures(), []int{8, 27, 21}; !reflect.DeepEqual(got, want) {
		t.Errorf("Captures() = %v, want %v", got, want)
	}

	kinds := []Requirement{RequireAreaConquests, RequireAllCaptures, RequireCaptures}
	for i, c := range table.Creations {
		if got := c.Requirement(); got != kinds[i] {
			t.Errorf("creation %q Requirement() = %v, want %v", c.Name, got, kinds[i])
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "two requirements",
			yaml: `
creations:
  - {name: "bad", reward: 451, unlocks: 76, area_conquests: 1, all_captures: true}`,
			wantErr: "exactly one requirement",
		},
		{
			name: "no requirement",
			yaml: `
creations:
  - {name: "bad", reward: 451, unlocks: 76}`,
			wantErr: "exactly one requirement",
		},
		{
			name: "too many conquests",
			yaml: `
area_conquests:
  - {name: "Besaid", reward: 424, unlocks: 49, captures: [8]}
creations:
  - {name: "bad", reward: 451, unlocks: 76, area_conquests: 2}`,
			wantErr: "only 1 exist",
		},
		{
			name: "duplicate reward",
			yaml: `
area_conquests:
  - {name: "Besaid", reward: 424, unlocks: 49, captures: [8]}
  - {name: "Kilika", reward: 424, unlocks: 50, captures: [9]}`,
			wantErr: "arena reward 424",
		},
		{
			name: "nemesis boss not unlocked",
			yaml: `
creations:
  - {name: "Capture 1 of Each", reward: 455, unlocks: 80, all_captures: true}
nemesis_boss: 83`,
			wantErr: "nemesis boss 83",
		},
		{
			name: "empty conquest",
			yaml: `
species_conquests:
  - {name: "Wolf", reward: 437, unlocks: 62}`,
			wantErr: "no captures",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
