package event

import (
	"encoding/json"
	"fmt"
)

// InitiativeRolledPayload captures the payload for battle.initiative_rolled events.
type InitiativeRolledPayload struct {
	Roll      int  `json:"roll"`
	GoesFirst bool `json:"goes_first"`
}

// TurnStartedPayload captures the payload for turn.started events.
type TurnStartedPayload struct {
	ActorHealth  int `json:"actor_health"`
	TargetHealth int `json:"target_health"`
}

// ActionChosenPayload captures the payload for turn.action_chosen events.
type ActionChosenPayload struct {
	Action string `json:"action"`
	// SpellIndex identifies the repertoire slot for spell actions.
	SpellIndex *int   `json:"spell_index,omitempty"`
	SpellName  string `json:"spell_name,omitempty"`
}

// EffectResolvedPayload captures the payload for turn.effect_resolved events.
type EffectResolvedPayload struct {
	Action string `json:"action"`
	Roll   int    `json:"roll,omitempty"`
	Amount int    `json:"amount"`
	Crit   Crit   `json:"crit"`
}

// DamageAppliedPayload captures the payload for turn.damage_applied events.
type DamageAppliedPayload struct {
	Amount int `json:"amount"`
	// TargetHealth is the target's health after the damage landed.
	TargetHealth int `json:"target_health"`
}

// HealAppliedPayload captures the payload for turn.heal_applied events.
type HealAppliedPayload struct {
	Amount int `json:"amount"`
	// ActorHealth is the actor's health after the heal landed.
	ActorHealth int `json:"actor_health"`
}

// BattleCompletedPayload captures the payload for battle.completed events.
type BattleCompletedPayload struct {
	// Winner is empty when the battle ended in a draw.
	Winner string `json:"winner,omitempty"`
	Reason string `json:"reason"`
	// Final health by fighter name.
	FinalHealth map[string]int `json:"final_health"`
}

// Completion reasons.
const (
	ReasonDefeat  = "defeat"
	ReasonTurnCap = "turn_cap"
)

// EncodePayload marshals a typed payload for storage in an event.
func EncodePayload(payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode event payload: %w", err)
	}
	return raw, nil
}

// DecodePayload unmarshals an event's payload into target.
func DecodePayload(evt Event, target any) error {
	if len(evt.PayloadJSON) == 0 {
		return fmt.Errorf("event %s has no payload", evt.Type)
	}
	if err := json.Unmarshal(evt.PayloadJSON, target); err != nil {
		return fmt.Errorf("decode %s payload: %w", evt.Type, err)
	}
	return nil
}
