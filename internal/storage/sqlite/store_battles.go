package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/louisbranch/colosseum/internal/arena/domain"
	"github.com/louisbranch/colosseum/internal/arena/event"
	"github.com/louisbranch/colosseum/internal/storage"
)

// PutBattle stores a pending battle record.
func (s *Store) PutBattle(ctx context.Context, battle domain.Battle) error {
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO battles (id, fighter_a, fighter_b, created_at, winner, completed)
VALUES (?, ?, ?, ?, ?, ?)`,
		battle.ID, battle.FighterA, battle.FighterB,
		toMillis(battle.CreatedAt), battle.Winner, boolToInt(battle.Completed),
	)
	if err != nil {
		if isConstraintError(err) {
			return fmt.Errorf("%w: battle %s", storage.ErrDuplicate, battle.ID)
		}
		return persistence("insert battle", err)
	}
	return nil
}

// GetBattle returns the battle record with the given id.
func (s *Store) GetBattle(ctx context.Context, id string) (domain.Battle, error) {
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, fighter_a, fighter_b, created_at, winner, completed
FROM battles WHERE id = ?`, id)

	var battle domain.Battle
	var createdAt int64
	var completed int
	if err := row.Scan(&battle.ID, &battle.FighterA, &battle.FighterB, &createdAt, &battle.Winner, &completed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Battle{}, fmt.Errorf("%w: battle %s", storage.ErrNotFound, id)
		}
		return domain.Battle{}, persistence("scan battle", err)
	}
	battle.CreatedAt = fromMillis(createdAt)
	battle.Completed = completed != 0
	return battle, nil
}

// ListBattles returns battle summaries ordered by creation time.
func (s *Store) ListBattles(ctx context.Context) ([]domain.Summary, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, fighter_a, fighter_b, completed FROM battles ORDER BY created_at, id`)
	if err != nil {
		return nil, persistence("list battles", err)
	}
	defer rows.Close()

	var summaries []domain.Summary
	for rows.Next() {
		var id, fighterA, fighterB string
		var completed int
		if err := rows.Scan(&id, &fighterA, &fighterB, &completed); err != nil {
			return nil, persistence("scan battle summary", err)
		}
		summaries = append(summaries, domain.Summary{
			ID:        id,
			Matchup:   fmt.Sprintf("%s vs %s", fighterA, fighterB),
			Completed: completed != 0,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("list battles", err)
	}
	return summaries, nil
}

// ClearBattles removes every battle record and its stored events in one
// transaction. Events go first so the battles delete never trips the
// foreign key.
func (s *Store) ClearBattles(ctx context.Context) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return persistence("begin clear battles", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM battle_events`); err != nil {
		return persistence("clear battle events", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM battles`); err != nil {
		return persistence("clear battles", err)
	}
	if err := tx.Commit(); err != nil {
		return persistence("commit clear battles", err)
	}
	return nil
}

// CompleteBattle atomically marks the battle finished and appends its
// event log. Either the record update and every event land, or none do;
// a failure partway leaves the stored pending battle untouched.
func (s *Store) CompleteBattle(ctx context.Context, battle domain.Battle, events []event.Event) error {
	if !battle.Completed {
		return fmt.Errorf("battle %s is not marked complete", battle.ID)
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return persistence("begin complete battle", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
UPDATE battles SET winner = ?, completed = 1 WHERE id = ? AND completed = 0`,
		battle.Winner, battle.ID)
	if err != nil {
		return persistence("update battle", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return persistence("update battle", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: pending battle %s", storage.ErrNotFound, battle.ID)
	}

	for i, evt := range events {
		seq := uint64(i + 1)
		if _, err := tx.ExecContext(ctx, `
INSERT INTO battle_events (battle_id, seq, turn, type, actor, target, timestamp, payload)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			battle.ID, seq, evt.Turn, string(evt.Type), evt.Actor, evt.Target,
			toMillis(evt.Timestamp), string(evt.PayloadJSON),
		); err != nil {
			if isConstraintError(err) {
				return fmt.Errorf("%w: battle %s event %d", storage.ErrDuplicate, battle.ID, seq)
			}
			return persistence("insert battle event", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return persistence("commit complete battle", err)
	}
	return nil
}

// ListEvents pages a battle's event log in sequence order.
func (s *Store) ListEvents(ctx context.Context, battleID string, afterSeq uint64, limit int) ([]event.Event, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT battle_id, seq, turn, type, actor, target, timestamp, payload
FROM battle_events WHERE battle_id = ? AND seq > ? ORDER BY seq LIMIT ?`,
		battleID, afterSeq, limit)
	if err != nil {
		return nil, persistence("list events", err)
	}
	defer rows.Close()

	var events []event.Event
	for rows.Next() {
		var evt event.Event
		var typ, payload string
		var timestamp int64
		if err := rows.Scan(&evt.BattleID, &evt.Seq, &evt.Turn, &typ, &evt.Actor, &evt.Target, &timestamp, &payload); err != nil {
			return nil, persistence("scan event", err)
		}
		evt.Type = event.Type(typ)
		evt.Timestamp = fromMillis(timestamp)
		evt.PayloadJSON = []byte(payload)
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("list events", err)
	}
	return events, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
