package engine

import (
	"fmt"

	"github.com/louisbranch/colosseum/internal/arena/domain"
	"github.com/louisbranch/colosseum/internal/arena/event"
	apperrors "github.com/louisbranch/colosseum/internal/platform/errors"
)

// Source is the randomness capability the engine draws from.
// *math/rand.Rand satisfies it; tests inject fixed or scripted sources.
type Source interface {
	// Float64 returns a uniform draw in [0, 1).
	Float64() float64
	// Intn returns a uniform draw in [0, n).
	Intn(n int) int
}

// ActionKind identifies what a combatant does with its turn.
type ActionKind string

const (
	// ActionAttack is a damage roll against the opponent.
	ActionAttack ActionKind = "attack"
	// ActionHeal restores the actor's own health.
	ActionHeal ActionKind = "heal"
	// ActionSpell fires one spell from the actor's repertoire.
	ActionSpell ActionKind = "spell"
)

// Action is one selected move, ready to be resolved.
type Action struct {
	Kind ActionKind
	// SpellIndex selects the repertoire slot for ActionSpell.
	SpellIndex int
}

var (
	// ErrUnknownSpell indicates an action referenced a spell outside the
	// actor's repertoire.
	ErrUnknownSpell = apperrors.New(apperrors.CodeBattleUnknownSpell, "spell is not in the actor's repertoire")
	// ErrInvalidAction indicates an action the actor cannot perform.
	ErrInvalidAction = apperrors.New(apperrors.CodeBattleInvalidAction, "action is not valid for the actor")
)

// ChooseAction picks an action according to the actor's behavior weights.
//
// One uniform value is drawn and walked across the cumulative ranges in
// attack, heal, repertoire order. Ties on a range boundary resolve to the
// earlier entry; there is never a re-draw. Because construction guarantees
// the weights sum to 1.0, the walk always lands on an action, with a
// defensive fall-through to attack against floating point drift at the
// very top of the interval.
func ChooseAction(actor *domain.Combatant, rng Source) Action {
	roll := rng.Float64()
	behavior := actor.Behavior()

	cumulative := behavior.AttackChance
	if roll < cumulative {
		return Action{Kind: ActionAttack}
	}
	cumulative += behavior.HealChance
	if roll < cumulative {
		return Action{Kind: ActionHeal}
	}
	for i, chance := range behavior.SpellChances {
		cumulative += chance
		if roll < cumulative {
			return Action{Kind: ActionSpell, SpellIndex: i}
		}
	}
	return Action{Kind: ActionAttack}
}

// Effect is the resolved outcome of an action before any mutation.
type Effect struct {
	Action Action
	Actor  string
	// Target is the combatant the amount applies to. Heals self-target.
	Target string
	// Roll is the raw damage roll for attacks, zero otherwise.
	Roll int
	// Amount is the final health delta magnitude, never negative.
	Amount int
	// SpellName names the fired spell for ActionSpell effects.
	SpellName string
	Crit      event.Crit
}

// ResolveAction computes the numeric effect of an action.
//
// It performs no mutation; it is a pure function of (actor, defender,
// action, draw). Attack damage rolls a uniform integer in the actor's
// inclusive attack range, then subtracts the defender's defense, floored
// at zero. The roll itself carries the critical outcome: the top of the
// range bypasses defense, the bottom halves the roll. A single-value
// range never crits.
func ResolveAction(actor, defender *domain.Combatant, action Action, rng Source) (Effect, error) {
	effect := Effect{
		Action: action,
		Actor:  actor.Name(),
		Crit:   event.CritNone,
	}

	switch action.Kind {
	case ActionAttack:
		min, max := actor.AttackMin(), actor.AttackMax()
		roll := min + rng.Intn(max-min+1)

		damage := roll - defender.BaseDefense()
		switch {
		case max > min && roll == max:
			effect.Crit = event.CritPositive
			damage = roll
		case max > min && roll == min:
			effect.Crit = event.CritNegative
			damage = roll/2 - defender.BaseDefense()
		}
		if damage < 0 {
			damage = 0
		}

		effect.Target = defender.Name()
		effect.Roll = roll
		effect.Amount = damage
		return effect, nil

	case ActionHeal:
		effect.Target = actor.Name()
		effect.Amount = actor.HealDelta()
		return effect, nil

	case ActionSpell:
		spell, ok := actor.Spell(action.SpellIndex)
		if !ok {
			return Effect{}, fmt.Errorf("%w: index %d, repertoire size %d",
				ErrUnknownSpell, action.SpellIndex, actor.SpellCount())
		}
		effect.Target = defender.Name()
		effect.Amount = spell.Power
		effect.SpellName = spell.Name
		return effect, nil

	default:
		return Effect{}, fmt.Errorf("%w: action kind %q", ErrInvalidAction, action.Kind)
	}
}
