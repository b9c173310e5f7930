package engine

import (
	"fmt"
	"time"

	"github.com/louisbranch/colosseum/internal/arena/domain"
	"github.com/louisbranch/colosseum/internal/arena/event"
	apperrors "github.com/louisbranch/colosseum/internal/platform/errors"
)

// State identifies where the turn state machine currently is.
type State string

const (
	// StateSideATurn means side A acts next.
	StateSideATurn State = "side_a_turn"
	// StateSideBTurn means side B acts next.
	StateSideBTurn State = "side_b_turn"
	// StateAwaitingResolution means an action was chosen and its effect
	// must be applied and logged.
	StateAwaitingResolution State = "awaiting_resolution"
	// StatePlayerTurn means the machine is suspended waiting for an
	// externally supplied action.
	StatePlayerTurn State = "player_turn"
	// StateComplete is terminal.
	StateComplete State = "complete"
)

// Side identifies a battle participant slot.
type Side int

const (
	// SideNone is the zero side, used for "no human control".
	SideNone Side = iota
	// SideA is the first fighter.
	SideA
	// SideB is the second fighter.
	SideB
)

// DefaultMaxTurns caps runaway battles; reaching it with both sides alive
// is a draw.
const DefaultMaxTurns = 100

// initiativeDie is the die rolled for turn order, as in a d20 system.
const initiativeDie = 20

// maxInitiativeRerolls bounds tied initiative rounds so a degenerate
// constant source still terminates. A persistent tie resolves to side A.
const maxInitiativeRerolls = 10

// ErrNotSuspended indicates SubmitAction was called while no player
// action was awaited.
var ErrNotSuspended = apperrors.New(apperrors.CodeBattleNotSuspended, "battle is not awaiting a player action")

// Options configures a battle run.
type Options struct {
	// BattleID stamps emitted events. Optional for unsaved battles.
	BattleID string
	// MaxTurns overrides DefaultMaxTurns when positive.
	MaxTurns int
	// HumanSide suspends the machine on that side's turns.
	HumanSide Side
	// Clock supplies event timestamps. Defaults to time.Now.
	Clock func() time.Time
}

// Battle is a running turn state machine over two combatants.
//
// It owns the only code path that mutates combatant health, and it records
// every occurrence as an event before moving on. It never touches storage
// or rendering.
type Battle struct {
	a, b     *domain.Combatant
	rng      Source
	id       string
	maxTurns int
	human    Side
	clock    func() time.Time

	state  State
	turn   int
	active Side
	winner string
	events []event.Event
}

// NewBattle rolls initiative and readies the first turn.
// The initiative rolls are recorded as turn-0 events so a replay shows
// how the turn order was decided.
func NewBattle(a, b *domain.Combatant, rng Source, opts Options) (*Battle, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("both combatants are required")
	}
	if rng == nil {
		return nil, fmt.Errorf("randomness source is required")
	}
	if a.Name() == b.Name() {
		return nil, domain.ErrSameFighter
	}

	maxTurns := opts.MaxTurns
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	battle := &Battle{
		a:        a,
		b:        b,
		rng:      rng,
		id:       opts.BattleID,
		maxTurns: maxTurns,
		human:    opts.HumanSide,
		clock:    clock,
	}
	battle.rollInitiative()
	return battle, nil
}

// State returns the machine's current state.
func (b *Battle) State() State { return b.state }

// Turn returns the current turn number, starting at 1.
func (b *Battle) Turn() int { return b.turn }

// Winner returns the winner's name once complete, empty on a draw.
func (b *Battle) Winner() string { return b.winner }

// Events returns the log recorded so far, in emission order.
func (b *Battle) Events() []event.Event {
	out := make([]event.Event, len(b.events))
	copy(out, b.events)
	return out
}

// rollInitiative decides who acts first. Both sides roll a d20; ties
// re-roll, bounded so the machine terminates under any source.
func (b *Battle) rollInitiative() {
	rollA, rollB := 0, 0
	for i := 0; i < maxInitiativeRerolls; i++ {
		rollA = b.rng.Intn(initiativeDie) + 1
		rollB = b.rng.Intn(initiativeDie) + 1
		if rollA != rollB {
			break
		}
	}

	first := SideA
	if rollB > rollA {
		first = SideB
	}

	b.emitFor(b.a, 0, event.TypeInitiativeRolled, "", event.InitiativeRolledPayload{
		Roll:      rollA,
		GoesFirst: first == SideA,
	})
	b.emitFor(b.b, 0, event.TypeInitiativeRolled, "", event.InitiativeRolledPayload{
		Roll:      rollB,
		GoesFirst: first == SideB,
	})

	b.active = first
	b.turn = 1
	b.state = b.turnState()
}

func (b *Battle) turnState() State {
	if b.active == SideB {
		return StateSideBTurn
	}
	return StateSideATurn
}

func (b *Battle) combatants() (actor, defender *domain.Combatant) {
	if b.active == SideB {
		return b.b, b.a
	}
	return b.a, b.b
}

// Step advances the battle by one turn.
//
// For an automated side it chooses, resolves, applies, and logs one
// action. For the human-controlled side it records the turn start and
// suspends in StatePlayerTurn; the caller resumes with SubmitAction.
// Stepping a completed battle is rejected.
func (b *Battle) Step() (State, error) {
	switch b.state {
	case StateComplete:
		return b.state, domain.ErrBattleComplete
	case StatePlayerTurn:
		return b.state, nil
	}

	actor, defender := b.combatants()
	if actor.Defeated() {
		// The termination check runs before the side alternates, so a
		// defeated actor here means the machine itself is broken.
		panic(fmt.Sprintf("engine: defeated combatant %s asked to act", actor.Name()))
	}

	b.emitFor(actor, b.turn, event.TypeTurnStarted, defender.Name(), event.TurnStartedPayload{
		ActorHealth:  actor.Health(),
		TargetHealth: defender.Health(),
	})

	if b.human != SideNone && b.human == b.active {
		b.state = StatePlayerTurn
		return b.state, nil
	}

	action := ChooseAction(actor, b.rng)
	if err := b.resolveAndApply(action); err != nil {
		return b.state, err
	}
	return b.state, nil
}

// SubmitAction resumes a battle suspended in StatePlayerTurn.
//
// An action the actor cannot perform is rejected with no state change and
// no event emitted.
func (b *Battle) SubmitAction(action Action) (State, error) {
	if b.state != StatePlayerTurn {
		return b.state, ErrNotSuspended
	}

	actor, _ := b.combatants()
	if action.Kind == ActionSpell {
		if _, ok := actor.Spell(action.SpellIndex); !ok {
			return b.state, fmt.Errorf("%w: index %d, repertoire size %d",
				ErrUnknownSpell, action.SpellIndex, actor.SpellCount())
		}
	}
	switch action.Kind {
	case ActionAttack, ActionHeal, ActionSpell:
	default:
		return b.state, fmt.Errorf("%w: action kind %q", ErrInvalidAction, action.Kind)
	}

	if err := b.resolveAndApply(action); err != nil {
		return b.state, err
	}
	return b.state, nil
}

// Run steps the battle until it completes or suspends for a player action.
func (b *Battle) Run() (State, error) {
	for b.state != StateComplete && b.state != StatePlayerTurn {
		if _, err := b.Step(); err != nil {
			return b.state, err
		}
	}
	return b.state, nil
}

// resolveAndApply is the AwaitingResolution leg of a turn: the chosen
// action is logged, its effect computed and logged, the mutation applied,
// and termination checked before the side alternates.
func (b *Battle) resolveAndApply(action Action) error {
	actor, defender := b.combatants()
	prev := b.state
	b.state = StateAwaitingResolution

	effect, err := ResolveAction(actor, defender, action, b.rng)
	if err != nil {
		b.state = prev
		return err
	}

	chosen := event.ActionChosenPayload{Action: string(action.Kind)}
	if action.Kind == ActionSpell {
		idx := action.SpellIndex
		chosen.SpellIndex = &idx
		chosen.SpellName = effect.SpellName
	}
	b.emitFor(actor, b.turn, event.TypeActionChosen, effect.Target, chosen)

	b.emitFor(actor, b.turn, event.TypeEffectResolved, effect.Target, event.EffectResolvedPayload{
		Action: string(action.Kind),
		Roll:   effect.Roll,
		Amount: effect.Amount,
		Crit:   effect.Crit,
	})

	switch action.Kind {
	case ActionHeal:
		actor.ApplyHeal(effect.Amount)
		b.emitFor(actor, b.turn, event.TypeHealApplied, actor.Name(), event.HealAppliedPayload{
			Amount:      effect.Amount,
			ActorHealth: actor.Health(),
		})
	default:
		defender.ApplyDamage(effect.Amount)
		b.emitFor(actor, b.turn, event.TypeDamageApplied, defender.Name(), event.DamageAppliedPayload{
			Amount:       effect.Amount,
			TargetHealth: defender.Health(),
		})
	}

	if defender.Defeated() {
		b.complete(actor.Name(), event.ReasonDefeat)
		return nil
	}
	if b.turn >= b.maxTurns {
		b.complete("", event.ReasonTurnCap)
		return nil
	}

	b.turn++
	if b.active == SideA {
		b.active = SideB
	} else {
		b.active = SideA
	}
	b.state = b.turnState()
	return nil
}

func (b *Battle) complete(winner, reason string) {
	b.winner = winner
	b.state = StateComplete

	actor, _ := b.combatants()
	b.emitFor(actor, b.turn, event.TypeBattleCompleted, "", event.BattleCompletedPayload{
		Winner: winner,
		Reason: reason,
		FinalHealth: map[string]int{
			b.a.Name(): b.a.Health(),
			b.b.Name(): b.b.Health(),
		},
	})
}

// emitFor appends an event for the given actor. Payload marshaling only
// fails for unmarshalable types, which the typed payload structs rule
// out, so a failure is treated as a programmer error.
func (b *Battle) emitFor(actor *domain.Combatant, turn int, typ event.Type, target string, payload any) {
	raw, err := event.EncodePayload(payload)
	if err != nil {
		panic(fmt.Sprintf("engine: encode %s payload: %v", typ, err))
	}
	b.events = append(b.events, event.Event{
		BattleID:    b.id,
		Turn:        turn,
		Type:        typ,
		Actor:       actor.Name(),
		Target:      target,
		Timestamp:   b.clock().UTC(),
		PayloadJSON: raw,
	})
}
