package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/louisbranch/colosseum/internal/arena/domain"
)

const rosterJSON = `[
  {
    "name": "Dummy",
    "health": 25,
    "attack_min": 3,
    "attack_max": 5,
    "behavior": {"attack_chance": 1.0}
  },
  {
    "name": "Shadow",
    "health": 45,
    "attack_min": 4,
    "attack_max": 7,
    "heal_delta": 5,
    "spells": [
      {"name": "Hex", "effect": {"power": 6, "curse": true}}
    ],
    "behavior": {"attack_chance": 0.5, "heal_chance": 0.3, "spell_chances": [0.2]}
  }
]`

func TestParseRoster(t *testing.T) {
	fighters, err := Parse(strings.NewReader(rosterJSON))
	if err != nil {
		t.Fatalf("parse roster: %v", err)
	}
	if len(fighters) != 2 {
		t.Fatalf("expected 2 fighters, got %d", len(fighters))
	}

	dummy := fighters[0]
	if dummy.Name() != "Dummy" || dummy.Health() != 25 || dummy.SpellCount() != 0 {
		t.Fatalf("unexpected dummy: %s %d hp, %d spells", dummy.Name(), dummy.Health(), dummy.SpellCount())
	}

	shadow := fighters[1]
	spell, ok := shadow.Spell(0)
	if !ok {
		t.Fatal("expected Shadow to have a spell")
	}
	if spell.Name != "Hex" {
		t.Fatalf("expected spell Hex, got %q", spell.Name)
	}
	if spell.Power != 6 {
		t.Fatalf("expected power 6 extracted from the effect descriptor, got %d", spell.Power)
	}
	if !strings.Contains(string(spell.Effect), `"curse"`) {
		t.Fatalf("expected opaque descriptor carried through, got %s", spell.Effect)
	}
}

func TestParseValidation(t *testing.T) {
	tests := []struct {
		name string
		json string
		err  error
	}{
		{
			name: "behavior sum too low",
			json: `[{"name": "Broken", "health": 10, "attack_min": 1, "attack_max": 2,
				"behavior": {"attack_chance": 0.5, "heal_chance": 0.1}}]`,
			err: domain.ErrBehaviorSum,
		},
		{
			name: "behavior sum too high",
			json: `[{"name": "Broken", "health": 10, "attack_min": 1, "attack_max": 2,
				"behavior": {"attack_chance": 0.8, "heal_chance": 0.4}}]`,
			err: domain.ErrBehaviorSum,
		},
		{
			name: "spell chance count mismatch",
			json: `[{"name": "Broken", "health": 10, "attack_min": 1, "attack_max": 2,
				"spells": [{"name": "Hex", "effect": {"power": 2}}],
				"behavior": {"attack_chance": 0.5, "heal_chance": 0.5}}]`,
			err: domain.ErrSpellChanceCount,
		},
		{
			name: "negative chance",
			json: `[{"name": "Broken", "health": 10, "attack_min": 1, "attack_max": 2,
				"behavior": {"attack_chance": 1.2, "heal_chance": -0.2}}]`,
			err: domain.ErrNegativeChance,
		},
		{
			name: "missing health",
			json: `[{"name": "Broken", "attack_min": 1, "attack_max": 2,
				"behavior": {"attack_chance": 1.0}}]`,
			err: domain.ErrInvalidHealth,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.json))
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected error %v, got %v", tt.err, err)
			}
		})
	}
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	if _, err := Parse(strings.NewReader(`{"not": "an array"`)); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestSpellPowerDefaultsToZero(t *testing.T) {
	def := FighterDef{
		Name: "Witch", Health: 30, AttackMin: 2, AttackMax: 4,
		Spells: []SpellDef{{Name: "Mist", Effect: []byte(`{"visibility": "low"}`)}},
		Behavior: BehaviorDef{
			AttackChance: 0.5,
			SpellChances: []float64{0.5},
		},
	}
	fighter, err := def.Build()
	if err != nil {
		t.Fatalf("build fighter: %v", err)
	}
	spell, _ := fighter.Spell(0)
	if spell.Power != 0 {
		t.Fatalf("expected zero power without a power field, got %d", spell.Power)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.json")
	if err := os.WriteFile(path, []byte(rosterJSON), 0o600); err != nil {
		t.Fatalf("write roster file: %v", err)
	}

	fighters, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if len(fighters) != 2 {
		t.Fatalf("expected 2 fighters, got %d", len(fighters))
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
