// Package storage defines the persistence interfaces for the arena.
//
// The store owns two collections, fighters and battles (with their event
// logs), persisted as a unit: completing a battle writes the record and
// its events atomically, so a reader never observes one without the other.
package storage

import (
	"context"

	"github.com/louisbranch/colosseum/internal/arena/domain"
	"github.com/louisbranch/colosseum/internal/arena/event"
	apperrors "github.com/louisbranch/colosseum/internal/platform/errors"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")
	// ErrDuplicate indicates a fighter name or battle id collision.
	ErrDuplicate = apperrors.New(apperrors.CodeDuplicate, "record already exists")
)

// FighterStore persists validated combatants keyed by unique name.
type FighterStore interface {
	// PutFighter stores a fighter. A name collision returns ErrDuplicate
	// and leaves the collection unchanged.
	PutFighter(ctx context.Context, fighter *domain.Combatant) error
	// GetFighter returns the fighter with the given name or ErrNotFound.
	GetFighter(ctx context.Context, name string) (*domain.Combatant, error)
	// ListFighters returns all fighters ordered by name.
	ListFighters(ctx context.Context) ([]*domain.Combatant, error)
}

// BattleStore persists battle records and their event logs.
type BattleStore interface {
	// PutBattle stores a pending battle record. An id collision returns
	// ErrDuplicate; callers treat that as fatal since ids are generated.
	PutBattle(ctx context.Context, battle domain.Battle) error
	// GetBattle returns the battle with the given id or ErrNotFound.
	GetBattle(ctx context.Context, id string) (domain.Battle, error)
	// ListBattles returns summaries ordered by creation.
	ListBattles(ctx context.Context) ([]domain.Summary, error)
	// ClearBattles removes every battle record and its events.
	ClearBattles(ctx context.Context) error

	// CompleteBattle marks the battle finished and appends its full event
	// log in one atomic write. Events receive their sequence numbers here.
	CompleteBattle(ctx context.Context, battle domain.Battle, events []event.Event) error
	// ListEvents pages a battle's log in sequence order, afterSeq exclusive.
	ListEvents(ctx context.Context, battleID string, afterSeq uint64, limit int) ([]event.Event, error)
}

// Store is the full persistence surface the arena service owns.
type Store interface {
	FighterStore
	BattleStore
	Close() error
}
