package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/louisbranch/colosseum/internal/platform/errors"
)

var (
	// ErrSameFighter indicates a battle was requested between a fighter and itself.
	ErrSameFighter = apperrors.New(apperrors.CodeBattleSameFighter, "a fighter cannot battle itself")
	// ErrBattleComplete indicates a mutation was attempted on a finished battle.
	ErrBattleComplete = apperrors.New(apperrors.CodeBattleAlreadyComplete, "battle is already complete")
)

// Battle is the persisted metadata for one battle instance.
//
// A pending battle has Completed == false, an empty Winner, and no stored
// events. Watching it runs the simulation exactly once; afterwards the
// stored event log is the only source of truth.
type Battle struct {
	ID        string
	FighterA  string
	FighterB  string
	CreatedAt time.Time
	Winner    string // empty while pending, or on a draw
	Completed bool
}

// CreateBattleInput describes the input for creating a battle record.
type CreateBattleInput struct {
	FighterA string
	FighterB string
}

// CreateBattle creates a pending battle record with a fresh identifier.
func CreateBattle(input CreateBattleInput, clock func() time.Time) (Battle, error) {
	a := strings.TrimSpace(input.FighterA)
	b := strings.TrimSpace(input.FighterB)
	if a == "" || b == "" {
		return Battle{}, ErrEmptyName
	}
	if a == b {
		return Battle{}, fmt.Errorf("%w: %s", ErrSameFighter, a)
	}

	return Battle{
		ID:        NewBattleID(clock),
		FighterA:  a,
		FighterB:  b,
		CreatedAt: clock().UTC(),
	}, nil
}

// Complete marks the battle finished with the given winner.
// An empty winner records a draw. Completing twice is rejected.
func (b Battle) Complete(winner string) (Battle, error) {
	if b.Completed {
		return Battle{}, ErrBattleComplete
	}
	done := b
	done.Winner = winner
	done.Completed = true
	return done, nil
}

// Summary is the listing projection of a battle record.
type Summary struct {
	ID        string
	Matchup   string
	Completed bool
}

// Summarize builds the one-line listing for this battle.
func (b Battle) Summarize() Summary {
	return Summary{
		ID:        b.ID,
		Matchup:   fmt.Sprintf("%s vs %s", b.FighterA, b.FighterB),
		Completed: b.Completed,
	}
}
