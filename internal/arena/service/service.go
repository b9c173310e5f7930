// Package service orchestrates arena operations over the store and engine.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/louisbranch/colosseum/internal/arena/domain"
	"github.com/louisbranch/colosseum/internal/arena/engine"
	"github.com/louisbranch/colosseum/internal/arena/event"
	"github.com/louisbranch/colosseum/internal/arena/projection"
	"github.com/louisbranch/colosseum/internal/random"
	"github.com/louisbranch/colosseum/internal/storage"
)

const eventPageSize = 200

// ArenaService exposes the fighter and battle operations the CLI drives.
//
// The service is the sole owner of the store: every mutating operation
// runs under one mutex so load-mutate-save sequences never interleave,
// even if multiple callers share the service.
type ArenaService struct {
	mu       sync.Mutex
	store    storage.Store
	clock    func() time.Time
	seedFn   func() (int64, error)
	maxTurns int
}

// Options configures an ArenaService.
type Options struct {
	// MaxTurns overrides the engine turn cap when positive.
	MaxTurns int
	// Seed pins the randomness seed for every battle this service runs.
	// Zero means a fresh cryptographic seed per battle.
	Seed int64
}

// NewArenaService creates an ArenaService with default dependencies.
func NewArenaService(store storage.Store, opts Options) *ArenaService {
	seedFn := random.NewSeed
	if opts.Seed != 0 {
		pinned := opts.Seed
		seedFn = func() (int64, error) { return pinned, nil }
	}
	return &ArenaService{
		store:    store,
		clock:    time.Now,
		seedFn:   seedFn,
		maxTurns: opts.MaxTurns,
	}
}

// CreateFighter validates and persists a new fighter.
func (s *ArenaService) CreateFighter(ctx context.Context, input domain.CombatantInput) (*domain.Combatant, error) {
	fighter, err := domain.NewCombatant(input)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.PutFighter(ctx, fighter); err != nil {
		return nil, err
	}
	return fighter, nil
}

// GetFighter returns a stored fighter by name.
func (s *ArenaService) GetFighter(ctx context.Context, name string) (*domain.Combatant, error) {
	return s.store.GetFighter(ctx, name)
}

// ListFighters returns all stored fighters ordered by name.
func (s *ArenaService) ListFighters(ctx context.Context) ([]*domain.Combatant, error) {
	return s.store.ListFighters(ctx)
}

// CreateBattle records a pending battle between two stored fighters.
// With run set, the battle is simulated and persisted in the same call.
func (s *ArenaService) CreateBattle(ctx context.Context, fighterA, fighterB string, run bool) (domain.Battle, *projection.Timeline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.store.GetFighter(ctx, fighterA); err != nil {
		return domain.Battle{}, nil, err
	}
	if _, err := s.store.GetFighter(ctx, fighterB); err != nil {
		return domain.Battle{}, nil, err
	}

	battle, err := domain.CreateBattle(domain.CreateBattleInput{
		FighterA: fighterA,
		FighterB: fighterB,
	}, s.clock)
	if err != nil {
		return domain.Battle{}, nil, err
	}
	if err := s.store.PutBattle(ctx, battle); err != nil {
		return domain.Battle{}, nil, err
	}

	if !run {
		return battle, nil, nil
	}

	timeline, completed, err := s.watchLocked(ctx, battle)
	if err != nil {
		return domain.Battle{}, nil, err
	}
	return completed, timeline, nil
}

// ListBattles returns summaries for every stored battle.
func (s *ArenaService) ListBattles(ctx context.Context) ([]domain.Summary, error) {
	return s.store.ListBattles(ctx)
}

// ClearBattles removes all battle records and their logs.
func (s *ArenaService) ClearBattles(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ClearBattles(ctx)
}

// WatchBattle resolves a battle to a replayable timeline.
//
// A pending battle is simulated exactly once: the record and its full
// event log are persisted atomically, and the battle transitions to
// completed. A completed battle is never re-simulated; its stored log is
// replayed unchanged, so watching is idempotent.
func (s *ArenaService) WatchBattle(ctx context.Context, id string) (domain.Battle, *projection.Timeline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	battle, err := s.store.GetBattle(ctx, id)
	if err != nil {
		return domain.Battle{}, nil, err
	}

	timeline, battle, err := s.watchLocked(ctx, battle)
	if err != nil {
		return domain.Battle{}, nil, err
	}
	return battle, timeline, nil
}

// watchLocked runs or replays a battle. Callers hold s.mu.
func (s *ArenaService) watchLocked(ctx context.Context, battle domain.Battle) (*projection.Timeline, domain.Battle, error) {
	fighterA, err := s.store.GetFighter(ctx, battle.FighterA)
	if err != nil {
		return nil, domain.Battle{}, err
	}
	fighterB, err := s.store.GetFighter(ctx, battle.FighterB)
	if err != nil {
		return nil, domain.Battle{}, err
	}
	// Stored fighters carry their starting stats; the simulation mutates
	// only these in-memory copies.
	snapshotA, snapshotB := fighterA.Snapshot(), fighterB.Snapshot()

	if !battle.Completed {
		seed, err := s.seedFn()
		if err != nil {
			return nil, domain.Battle{}, fmt.Errorf("generate battle seed: %w", err)
		}

		run, err := engine.NewBattle(fighterA, fighterB, random.NewRand(seed), engine.Options{
			BattleID: battle.ID,
			MaxTurns: s.maxTurns,
			Clock:    s.clock,
		})
		if err != nil {
			return nil, domain.Battle{}, err
		}
		if _, err := run.Run(); err != nil {
			return nil, domain.Battle{}, err
		}

		battle, err = battle.Complete(run.Winner())
		if err != nil {
			return nil, domain.Battle{}, err
		}
		if err := s.store.CompleteBattle(ctx, battle, run.Events()); err != nil {
			return nil, domain.Battle{}, err
		}
	}

	events, err := s.loadEvents(ctx, battle.ID)
	if err != nil {
		return nil, domain.Battle{}, err
	}
	timeline, err := projection.Replay(snapshotA, snapshotB, events)
	if err != nil {
		return nil, domain.Battle{}, err
	}
	return timeline, battle, nil
}

// loadEvents pages the full stored log for a battle in sequence order.
func (s *ArenaService) loadEvents(ctx context.Context, battleID string) ([]event.Event, error) {
	var events []event.Event
	var afterSeq uint64
	for {
		page, err := s.store.ListEvents(ctx, battleID, afterSeq, eventPageSize)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			return events, nil
		}
		events = append(events, page...)
		afterSeq = page[len(page)-1].Seq
	}
}
