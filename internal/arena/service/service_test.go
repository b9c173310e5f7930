package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/louisbranch/colosseum/internal/arena/domain"
	"github.com/louisbranch/colosseum/internal/arena/event"
	"github.com/louisbranch/colosseum/internal/arena/projection"
	"github.com/louisbranch/colosseum/internal/storage"
	"github.com/louisbranch/colosseum/internal/storage/sqlite"
)

func testService(t *testing.T, opts Options) (*ArenaService, storage.Store) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "colosseum.db")
	store, err := sqlite.Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewArenaService(store, opts), store
}

func seedRoster(t *testing.T, svc *ArenaService) {
	t.Helper()
	fighters := []domain.CombatantInput{
		{
			Name: "Dummy", Health: 25, AttackMin: 3, AttackMax: 5,
			Behavior: domain.Behavior{AttackChance: 1.0},
		},
		{
			Name: "Shadow", Health: 45, AttackMin: 4, AttackMax: 7, HealDelta: 5,
			Behavior: domain.Behavior{AttackChance: 0.8, HealChance: 0.2},
		},
	}
	for _, input := range fighters {
		if _, err := svc.CreateFighter(context.Background(), input); err != nil {
			t.Fatalf("create fighter %s: %v", input.Name, err)
		}
	}
}

func TestCreateFighterRejectsDuplicates(t *testing.T) {
	svc, _ := testService(t, Options{})
	seedRoster(t, svc)

	_, err := svc.CreateFighter(context.Background(), domain.CombatantInput{
		Name: "Dummy", Health: 10, AttackMin: 1, AttackMax: 2,
		Behavior: domain.Behavior{AttackChance: 1.0},
	})
	if !errors.Is(err, storage.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestCreateFighterRejectsInvalidInput(t *testing.T) {
	svc, _ := testService(t, Options{})

	_, err := svc.CreateFighter(context.Background(), domain.CombatantInput{
		Name: "Broken", Health: 10, AttackMin: 1, AttackMax: 2,
		Behavior: domain.Behavior{AttackChance: 0.4},
	})
	if !errors.Is(err, domain.ErrBehaviorSum) {
		t.Fatalf("expected ErrBehaviorSum, got %v", err)
	}
}

func TestCreateBattleRequiresStoredFighters(t *testing.T) {
	svc, _ := testService(t, Options{})
	seedRoster(t, svc)

	if _, _, err := svc.CreateBattle(context.Background(), "Dummy", "Nobody", false); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown opponent, got %v", err)
	}
	if _, _, err := svc.CreateBattle(context.Background(), "Dummy", "Dummy", false); !errors.Is(err, domain.ErrSameFighter) {
		t.Fatalf("expected ErrSameFighter, got %v", err)
	}
}

func TestCreateBattlePending(t *testing.T) {
	svc, _ := testService(t, Options{})
	seedRoster(t, svc)

	battle, timeline, err := svc.CreateBattle(context.Background(), "Dummy", "Shadow", false)
	if err != nil {
		t.Fatalf("create battle: %v", err)
	}
	if timeline != nil {
		t.Fatal("expected no timeline without run")
	}
	if battle.Completed {
		t.Fatal("expected pending battle")
	}

	summaries, err := svc.ListBattles(context.Background())
	if err != nil {
		t.Fatalf("list battles: %v", err)
	}
	if len(summaries) != 1 || summaries[0].Completed {
		t.Fatalf("expected one pending battle listed, got %+v", summaries)
	}
}

func TestCreateBattleAndRun(t *testing.T) {
	svc, _ := testService(t, Options{Seed: 42})
	seedRoster(t, svc)

	battle, timeline, err := svc.CreateBattle(context.Background(), "Dummy", "Shadow", true)
	if err != nil {
		t.Fatalf("create and run battle: %v", err)
	}
	if !battle.Completed {
		t.Fatal("expected completed battle")
	}
	if timeline == nil || !timeline.Completed {
		t.Fatalf("expected completed timeline, got %+v", timeline)
	}
	if len(timeline.Frames) == 0 {
		t.Fatal("expected a non-empty battle log")
	}
	last := timeline.Frames[len(timeline.Frames)-1]
	if last.Type != event.TypeBattleCompleted {
		t.Fatalf("expected final frame %q, got %q", event.TypeBattleCompleted, last.Type)
	}
	if battle.Winner != timeline.Winner {
		t.Fatalf("record winner %q disagrees with timeline winner %q", battle.Winner, timeline.Winner)
	}
}

func TestWatchBattleRunsPendingOnce(t *testing.T) {
	svc, store := testService(t, Options{Seed: 42})
	seedRoster(t, svc)

	created, _, err := svc.CreateBattle(context.Background(), "Dummy", "Shadow", false)
	if err != nil {
		t.Fatalf("create battle: %v", err)
	}

	battle, timeline, err := svc.WatchBattle(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("watch battle: %v", err)
	}
	if !battle.Completed {
		t.Fatal("expected watch to complete the pending battle")
	}
	if timeline == nil || len(timeline.Frames) == 0 {
		t.Fatal("expected a non-empty timeline")
	}

	events, err := store.ListEvents(context.Background(), created.ID, 0, 1000)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != len(timeline.Frames) {
		t.Fatalf("expected %d stored events, got %d", len(timeline.Frames), len(events))
	}
}

func TestWatchBattleIsIdempotent(t *testing.T) {
	svc, store := testService(t, Options{Seed: 42})
	seedRoster(t, svc)

	created, _, err := svc.CreateBattle(context.Background(), "Dummy", "Shadow", false)
	if err != nil {
		t.Fatalf("create battle: %v", err)
	}
	if _, _, err := svc.WatchBattle(context.Background(), created.ID); err != nil {
		t.Fatalf("first watch: %v", err)
	}

	firstLog, err := store.ListEvents(context.Background(), created.ID, 0, 1000)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}

	// A second watch through a service with a different seed must not
	// re-simulate: the stored log is replayed unchanged.
	other := NewArenaService(store, Options{Seed: 7})
	battle, timeline, err := other.WatchBattle(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("second watch: %v", err)
	}
	if !battle.Completed {
		t.Fatal("expected battle to stay completed")
	}

	secondLog, err := store.ListEvents(context.Background(), created.ID, 0, 1000)
	if err != nil {
		t.Fatalf("list events after second watch: %v", err)
	}
	if len(firstLog) != len(secondLog) {
		t.Fatalf("stored log changed: %d events then %d", len(firstLog), len(secondLog))
	}
	for i := range firstLog {
		if string(firstLog[i].PayloadJSON) != string(secondLog[i].PayloadJSON) {
			t.Fatalf("stored event %d changed between watches", i)
		}
	}
	if len(timeline.Frames) != len(secondLog) {
		t.Fatalf("timeline has %d frames for %d stored events", len(timeline.Frames), len(secondLog))
	}
}

func TestWatchBattleDeterministicWithPinnedSeed(t *testing.T) {
	run := func() *projection.Timeline {
		svc, _ := testService(t, Options{Seed: 42})
		seedRoster(t, svc)
		_, timeline, err := svc.CreateBattle(context.Background(), "Dummy", "Shadow", true)
		if err != nil {
			t.Fatalf("create and run battle: %v", err)
		}
		return timeline
	}

	first, second := run(), run()
	if first.Winner != second.Winner {
		t.Fatalf("winners differ: %q vs %q", first.Winner, second.Winner)
	}
	if len(first.Frames) != len(second.Frames) {
		t.Fatalf("frame counts differ: %d vs %d", len(first.Frames), len(second.Frames))
	}
	for name, hp := range first.FinalHealth {
		if second.FinalHealth[name] != hp {
			t.Fatalf("final health of %s differs: %d vs %d", name, hp, second.FinalHealth[name])
		}
	}
}

func TestClearBattlesKeepsFighters(t *testing.T) {
	svc, _ := testService(t, Options{Seed: 42})
	seedRoster(t, svc)

	if _, _, err := svc.CreateBattle(context.Background(), "Dummy", "Shadow", true); err != nil {
		t.Fatalf("create and run battle: %v", err)
	}
	if err := svc.ClearBattles(context.Background()); err != nil {
		t.Fatalf("clear battles: %v", err)
	}

	summaries, err := svc.ListBattles(context.Background())
	if err != nil {
		t.Fatalf("list battles: %v", err)
	}
	if len(summaries) != 0 {
		t.Fatalf("expected no battles after clear, got %d", len(summaries))
	}
	fighters, err := svc.ListFighters(context.Background())
	if err != nil {
		t.Fatalf("list fighters: %v", err)
	}
	if len(fighters) != 2 {
		t.Fatalf("expected fighters untouched by clear, got %d", len(fighters))
	}
}
