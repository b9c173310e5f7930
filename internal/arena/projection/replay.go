// Package projection reconstructs battle state from stored event logs.
package projection

import (
	"fmt"

	"github.com/louisbranch/colosseum/internal/arena/domain"
	"github.com/louisbranch/colosseum/internal/arena/event"
	apperrors "github.com/louisbranch/colosseum/internal/platform/errors"
)

// ErrDivergence indicates a stored log disagrees with the health values
// recomputed from the starting snapshots, which means the record is
// corrupt.
var ErrDivergence = apperrors.New(apperrors.CodeBattleReplayDivergence, "replayed health diverges from recorded health")

// Frame is the battle state after one event has been applied.
type Frame struct {
	Seq    uint64
	Turn   int
	Type   event.Type
	Actor  string
	Target string
	// Amount is the applied health delta for damage/heal frames.
	Amount int
	// Health maps fighter name to health after this event.
	Health map[string]int
}

// Timeline is the full reconstruction of a battle from its log.
type Timeline struct {
	Frames []Frame
	// FinalHealth maps fighter name to health after the last event.
	FinalHealth map[string]int
	Winner      string
	Completed   bool
	Reason      string
}

// Replay folds a battle log over the fighters' starting snapshots.
//
// It is pure and deterministic: no randomness source is consulted and the
// action resolver is never re-invoked. Every damage and heal event moves
// the folded health, clamped exactly as the engine clamps it, and the
// recorded post-apply health in each payload is cross-checked against the
// fold. Any disagreement surfaces as ErrDivergence rather than a silently
// wrong timeline.
func Replay(a, b domain.Snapshot, events []event.Event) (*Timeline, error) {
	health := map[string]int{
		a.Name: a.Health,
		b.Name: b.Health,
	}
	maxHealth := map[string]int{
		a.Name: a.MaxHealth,
		b.Name: b.MaxHealth,
	}

	timeline := &Timeline{
		Frames: make([]Frame, 0, len(events)),
	}

	for _, evt := range events {
		frame := Frame{
			Seq:    evt.Seq,
			Turn:   evt.Turn,
			Type:   evt.Type,
			Actor:  evt.Actor,
			Target: evt.Target,
		}

		switch evt.Type {
		case event.TypeDamageApplied:
			var payload event.DamageAppliedPayload
			if err := event.DecodePayload(evt, &payload); err != nil {
				return nil, err
			}
			target := evt.Target
			if _, ok := health[target]; !ok {
				return nil, fmt.Errorf("%w: unknown target %q", ErrDivergence, target)
			}
			health[target] -= payload.Amount
			if health[target] < 0 {
				health[target] = 0
			}
			if health[target] != payload.TargetHealth {
				return nil, fmt.Errorf("%w: %s at seq %d: replayed %d, recorded %d",
					ErrDivergence, target, evt.Seq, health[target], payload.TargetHealth)
			}
			frame.Amount = payload.Amount

		case event.TypeHealApplied:
			var payload event.HealAppliedPayload
			if err := event.DecodePayload(evt, &payload); err != nil {
				return nil, err
			}
			actor := evt.Actor
			if _, ok := health[actor]; !ok {
				return nil, fmt.Errorf("%w: unknown actor %q", ErrDivergence, actor)
			}
			health[actor] += payload.Amount
			if health[actor] > maxHealth[actor] {
				health[actor] = maxHealth[actor]
			}
			if health[actor] != payload.ActorHealth {
				return nil, fmt.Errorf("%w: %s at seq %d: replayed %d, recorded %d",
					ErrDivergence, actor, evt.Seq, health[actor], payload.ActorHealth)
			}
			frame.Amount = payload.Amount

		case event.TypeBattleCompleted:
			var payload event.BattleCompletedPayload
			if err := event.DecodePayload(evt, &payload); err != nil {
				return nil, err
			}
			for name, recorded := range payload.FinalHealth {
				replayed, ok := health[name]
				if !ok {
					return nil, fmt.Errorf("%w: unknown fighter %q in completion", ErrDivergence, name)
				}
				if replayed != recorded {
					return nil, fmt.Errorf("%w: final health of %s: replayed %d, recorded %d",
						ErrDivergence, name, replayed, recorded)
				}
			}
			timeline.Winner = payload.Winner
			timeline.Reason = payload.Reason
			timeline.Completed = true
		}

		frame.Health = copyHealth(health)
		timeline.Frames = append(timeline.Frames, frame)
	}

	timeline.FinalHealth = copyHealth(health)
	return timeline, nil
}

func copyHealth(health map[string]int) map[string]int {
	out := make(map[string]int, len(health))
	for name, hp := range health {
		out[name] = hp
	}
	return out
}
