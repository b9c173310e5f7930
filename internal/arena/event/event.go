// Package event defines the immutable battle event journal.
//
// Events are append-only and ordered; the sequence assigned on append is
// the authoritative battle history. A stored log plus the fighters'
// starting snapshots is enough to reconstruct every intermediate health
// value without re-running any randomness.
package event

import (
	"strings"
	"time"
)

// Type identifies the type of a battle event.
type Type string

// Setup events.
const (
	// TypeInitiativeRolled records one side's initiative roll.
	TypeInitiativeRolled Type = "battle.initiative_rolled"
)

// Turn events.
const (
	// TypeTurnStarted records the start of a turn for the acting side.
	TypeTurnStarted Type = "turn.started"
	// TypeActionChosen records the action selected for the acting side.
	TypeActionChosen Type = "turn.action_chosen"
	// TypeEffectResolved records the computed effect of a chosen action.
	TypeEffectResolved Type = "turn.effect_resolved"
	// TypeDamageApplied records damage applied to the target.
	TypeDamageApplied Type = "turn.damage_applied"
	// TypeHealApplied records healing applied to the actor.
	TypeHealApplied Type = "turn.heal_applied"
)

// Terminal events.
const (
	// TypeBattleCompleted records the end of the battle with its outcome.
	TypeBattleCompleted Type = "battle.completed"
)

// Crit is the critical outcome of a resolved effect.
// It is a single closed enumeration so an effect can never be flagged as
// both a positive and a negative critical.
type Crit string

const (
	// CritNone indicates an ordinary roll.
	CritNone Crit = "none"
	// CritPositive indicates the roll hit the top of its range.
	CritPositive Crit = "positive"
	// CritNegative indicates the roll hit the bottom of its range.
	CritNegative Crit = "negative"
)

// IsValid reports whether the crit value is one of the closed set.
func (c Crit) IsValid() bool {
	switch c {
	case CritNone, CritPositive, CritNegative:
		return true
	}
	return false
}

// Event represents an immutable entry in a battle's event journal.
type Event struct {
	// BattleID is the battle this event belongs to.
	BattleID string
	// Seq is the event sequence number within the battle (starts at 1).
	// Assigned by storage on append.
	Seq uint64
	// Turn is the turn the event occurred in (0 for setup events).
	Turn int
	// Type identifies the kind of event.
	Type Type
	// Actor is the name of the combatant the event originates from.
	Actor string
	// Target is the name of the combatant the event applies to, when any.
	Target string
	// Timestamp is when the event occurred.
	Timestamp time.Time
	// PayloadJSON holds event-specific data as JSON.
	PayloadJSON []byte
}

// IsValid reports whether the event type is usable.
func (t Type) IsValid() bool {
	return strings.TrimSpace(string(t)) != ""
}

// Domain returns the domain prefix of the event type (e.g., "battle", "turn").
func (t Type) Domain() string {
	for i, c := range t {
		if c == '.' {
			return string(t[:i])
		}
	}
	return string(t)
}
