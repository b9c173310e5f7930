package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	apperrors "github.com/louisbranch/colosseum/internal/platform/errors"
)

// BehaviorSumTolerance is the allowed drift from 1.0 for behavior weights.
const BehaviorSumTolerance = 1e-9

var (
	// ErrEmptyName indicates a combatant was defined without a name.
	ErrEmptyName = apperrors.New(apperrors.CodeFighterEmptyName, "fighter name is required")
	// ErrInvalidHealth indicates health is outside [0, max] or max is not positive.
	ErrInvalidHealth = apperrors.New(apperrors.CodeFighterInvalidHealth, "health must be in range [0, max health] and max health must be positive")
	// ErrInvalidAttackRange indicates the attack range is empty or not positive.
	ErrInvalidAttackRange = apperrors.New(apperrors.CodeFighterInvalidAttackRange, "attack range must satisfy 0 < min <= max")
	// ErrInvalidDefense indicates a negative base defense.
	ErrInvalidDefense = apperrors.New(apperrors.CodeFighterInvalidDefense, "base defense must be non-negative")
	// ErrInvalidHealDelta indicates a negative heal delta.
	ErrInvalidHealDelta = apperrors.New(apperrors.CodeFighterInvalidHealDelta, "heal delta must be non-negative")
	// ErrNegativeChance indicates a behavior weight below zero.
	ErrNegativeChance = apperrors.New(apperrors.CodeFighterNegativeChance, "behavior chances must be non-negative")
	// ErrBehaviorSum indicates behavior weights do not sum to 1.0.
	ErrBehaviorSum = apperrors.New(apperrors.CodeFighterBehaviorSum, "behavior chances must sum to 1.0")
	// ErrSpellChanceCount indicates a spell list and chance list length mismatch.
	ErrSpellChanceCount = apperrors.New(apperrors.CodeFighterSpellChanceCount, "spell chance count must match spell count")
)

// Spell is a named ability with an opaque effect descriptor.
// Power is the resolved numeric effect used by the turn engine; the
// descriptor itself is carried through untouched for storage and display.
type Spell struct {
	Name   string
	Effect json.RawMessage
	Power  int
}

// Behavior holds the action-selection weights for a combatant.
// Weights are walked in attack, heal, spell-list order.
type Behavior struct {
	AttackChance float64
	HealChance   float64
	SpellChances []float64
}

// Validate checks that the weights form a probability distribution over
// the given number of spells.
func (b Behavior) Validate(spellCount int) error {
	if len(b.SpellChances) != spellCount {
		return fmt.Errorf("%w: %d spell chances but %d spells", ErrSpellChanceCount, len(b.SpellChances), spellCount)
	}
	if b.AttackChance < 0 || b.HealChance < 0 {
		return ErrNegativeChance
	}
	total := b.AttackChance + b.HealChance
	for _, chance := range b.SpellChances {
		if chance < 0 {
			return ErrNegativeChance
		}
		total += chance
	}
	if math.Abs(total-1.0) > BehaviorSumTolerance {
		return fmt.Errorf("%w: chances sum to %v (attack: %v, heal: %v, spells: %v)",
			ErrBehaviorSum, total, b.AttackChance, b.HealChance, b.SpellChances)
	}
	return nil
}

// Combatant is a battle participant's stat block.
//
// Health is the only mutable field; the turn engine changes it through
// ApplyDamage and ApplyHeal. A defeated combatant stays in the data model
// with Health == 0.
type Combatant struct {
	name        string
	health      int
	maxHealth   int
	attackMin   int
	attackMax   int
	baseDefense int
	healDelta   int
	spells      []Spell
	behavior    Behavior
}

// CombatantInput describes the input for constructing a combatant.
type CombatantInput struct {
	Name        string
	Health      int
	MaxHealth   int
	AttackMin   int
	AttackMax   int
	BaseDefense int
	HealDelta   int
	Spells      []Spell
	Behavior    Behavior
}

// NewCombatant validates input and constructs a combatant.
// If MaxHealth is zero it defaults to Health, matching definitions that
// only declare a starting health. Validation failures are never clamped.
func NewCombatant(input CombatantInput) (*Combatant, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrEmptyName
	}

	maxHealth := input.MaxHealth
	if maxHealth == 0 {
		maxHealth = input.Health
	}
	if maxHealth <= 0 || input.Health < 0 || input.Health > maxHealth {
		return nil, fmt.Errorf("%w: health %d, max health %d", ErrInvalidHealth, input.Health, maxHealth)
	}
	if input.AttackMin <= 0 || input.AttackMax < input.AttackMin {
		return nil, fmt.Errorf("%w: [%d, %d]", ErrInvalidAttackRange, input.AttackMin, input.AttackMax)
	}
	if input.BaseDefense < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDefense, input.BaseDefense)
	}
	if input.HealDelta < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHealDelta, input.HealDelta)
	}
	if err := input.Behavior.Validate(len(input.Spells)); err != nil {
		return nil, fmt.Errorf("fighter %s: %w", name, err)
	}

	spells := make([]Spell, len(input.Spells))
	copy(spells, input.Spells)
	chances := make([]float64, len(input.Behavior.SpellChances))
	copy(chances, input.Behavior.SpellChances)

	return &Combatant{
		name:        name,
		health:      input.Health,
		maxHealth:   maxHealth,
		attackMin:   input.AttackMin,
		attackMax:   input.AttackMax,
		baseDefense: input.BaseDefense,
		healDelta:   input.HealDelta,
		spells:      spells,
		behavior: Behavior{
			AttackChance: input.Behavior.AttackChance,
			HealChance:   input.Behavior.HealChance,
			SpellChances: chances,
		},
	}, nil
}

// Name returns the combatant's unique name.
func (c *Combatant) Name() string { return c.name }

// Health returns the current health.
func (c *Combatant) Health() int { return c.health }

// MaxHealth returns the health cap.
func (c *Combatant) MaxHealth() int { return c.maxHealth }

// AttackMin returns the inclusive lower bound of the damage roll.
func (c *Combatant) AttackMin() int { return c.attackMin }

// AttackMax returns the inclusive upper bound of the damage roll.
func (c *Combatant) AttackMax() int { return c.attackMax }

// BaseDefense returns the flat damage reduction applied when defending.
func (c *Combatant) BaseDefense() int { return c.baseDefense }

// HealDelta returns the health restored by one heal action.
func (c *Combatant) HealDelta() int { return c.healDelta }

// Spells returns the spell repertoire in behavior-weight order.
func (c *Combatant) Spells() []Spell {
	out := make([]Spell, len(c.spells))
	copy(out, c.spells)
	return out
}

// SpellCount returns the repertoire size without copying.
func (c *Combatant) SpellCount() int { return len(c.spells) }

// Spell returns the spell at index i. The bool is false when out of range.
func (c *Combatant) Spell(i int) (Spell, bool) {
	if i < 0 || i >= len(c.spells) {
		return Spell{}, false
	}
	return c.spells[i], true
}

// Behavior returns a copy of the action-selection weights.
func (c *Combatant) Behavior() Behavior {
	chances := make([]float64, len(c.behavior.SpellChances))
	copy(chances, c.behavior.SpellChances)
	return Behavior{
		AttackChance: c.behavior.AttackChance,
		HealChance:   c.behavior.HealChance,
		SpellChances: chances,
	}
}

// ApplyDamage reduces health by amount, flooring at zero.
func (c *Combatant) ApplyDamage(amount int) {
	if amount < 0 {
		amount = 0
	}
	c.health -= amount
	if c.health < 0 {
		c.health = 0
	}
}

// ApplyHeal increases health by amount, capping at max health.
func (c *Combatant) ApplyHeal(amount int) {
	if amount < 0 {
		amount = 0
	}
	c.health += amount
	if c.health > c.maxHealth {
		c.health = c.maxHealth
	}
}

// Defeated reports whether the combatant has no health left.
func (c *Combatant) Defeated() bool { return c.health == 0 }

// Snapshot captures the starting stats replay folds over.
func (c *Combatant) Snapshot() Snapshot {
	return Snapshot{
		Name:      c.name,
		Health:    c.health,
		MaxHealth: c.maxHealth,
	}
}

// Snapshot is an immutable copy of a combatant's stats at a point in time.
type Snapshot struct {
	Name      string
	Health    int
	MaxHealth int
}
