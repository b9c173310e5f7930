// Package loader builds validated combatants from JSON definition files.
//
// A definition file holds an array of fighter objects. Spell effects are
// opaque descriptors; the loader only extracts the optional "power" field
// as the spell's resolved numeric effect and carries the rest through
// untouched. Invalid definitions are rejected with the underlying
// validation error; no partially valid fighter is ever produced.
package loader

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/louisbranch/colosseum/internal/arena/domain"
)

// FighterDef mirrors one fighter entry in a definition file.
type FighterDef struct {
	Name        string      `json:"name"`
	Health      int         `json:"health"`
	MaxHealth   int         `json:"max_health,omitempty"`
	AttackMin   int         `json:"attack_min"`
	AttackMax   int         `json:"attack_max"`
	BaseDefense int         `json:"base_defense"`
	HealDelta   int         `json:"heal_delta"`
	Spells      []SpellDef  `json:"spells"`
	Behavior    BehaviorDef `json:"behavior"`
}

// SpellDef mirrors one spell entry in a definition file.
type SpellDef struct {
	Name   string          `json:"name"`
	Effect json.RawMessage `json:"effect"`
}

// BehaviorDef mirrors the behavior weights in a definition file.
type BehaviorDef struct {
	AttackChance float64   `json:"attack_chance"`
	HealChance   float64   `json:"heal_chance"`
	SpellChances []float64 `json:"spell_chances"`
}

// Build validates the definition and constructs a combatant.
func (def FighterDef) Build() (*domain.Combatant, error) {
	spells := make([]domain.Spell, 0, len(def.Spells))
	for _, spell := range def.Spells {
		spells = append(spells, domain.Spell{
			Name:   spell.Name,
			Effect: spell.Effect,
			Power:  spellPower(spell.Effect),
		})
	}

	return domain.NewCombatant(domain.CombatantInput{
		Name:        def.Name,
		Health:      def.Health,
		MaxHealth:   def.MaxHealth,
		AttackMin:   def.AttackMin,
		AttackMax:   def.AttackMax,
		BaseDefense: def.BaseDefense,
		HealDelta:   def.HealDelta,
		Spells:      spells,
		Behavior: domain.Behavior{
			AttackChance: def.Behavior.AttackChance,
			HealChance:   def.Behavior.HealChance,
			SpellChances: def.Behavior.SpellChances,
		},
	})
}

// spellPower extracts the resolved numeric effect from an opaque
// descriptor. Descriptors without a power field resolve to zero.
func spellPower(effect json.RawMessage) int {
	if len(effect) == 0 {
		return 0
	}
	var descriptor struct {
		Power int `json:"power"`
	}
	if err := json.Unmarshal(effect, &descriptor); err != nil {
		return 0
	}
	return descriptor.Power
}

// Parse decodes and validates a definition stream.
func Parse(r io.Reader) ([]*domain.Combatant, error) {
	var defs []FighterDef
	if err := json.NewDecoder(r).Decode(&defs); err != nil {
		return nil, fmt.Errorf("decode fighter definitions: %w", err)
	}

	fighters := make([]*domain.Combatant, 0, len(defs))
	for i, def := range defs {
		fighter, err := def.Build()
		if err != nil {
			return nil, fmt.Errorf("fighter definition %d: %w", i, err)
		}
		fighters = append(fighters, fighter)
	}
	return fighters, nil
}

// LoadFile reads and validates a definition file.
func LoadFile(path string) ([]*domain.Combatant, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fighter definitions: %w", err)
	}
	defer file.Close()

	fighters, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return fighters, nil
}
