// Package sqlite implements arena persistence over SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/colosseum/internal/arena/domain"
	apperrors "github.com/louisbranch/colosseum/internal/platform/errors"
	"github.com/louisbranch/colosseum/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/colosseum/internal/storage"
	"github.com/louisbranch/colosseum/internal/storage/sqlite/migrations"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// toMillis normalizes timestamps into millisecond precision for storage.
func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// fromMillis restores millisecond precision and keeps UTC normalization.
func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Store provides a SQLite-backed arena store.
//
// A single SQLite file backs both collections so completing a battle can
// write the record row and its event log inside one transaction.
type Store struct {
	sqlDB *sql.DB
	clock func() time.Time
}

// Open opens an arena SQLite store and applies bundled migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB, clock: time.Now}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return store, nil
}

// Close releases the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// spellJSON and behaviorJSON mirror the JSON columns of the fighters
// table so the nested structures survive round trips unchanged.
type spellJSON struct {
	Name   string          `json:"name"`
	Effect json.RawMessage `json:"effect"`
	Power  int             `json:"power"`
}

type behaviorJSON struct {
	AttackChance float64   `json:"attack_chance"`
	HealChance   float64   `json:"heal_chance"`
	SpellChances []float64 `json:"spell_chances"`
}

// PutFighter stores a fighter. A name collision maps the primary key
// constraint to storage.ErrDuplicate without touching the row.
func (s *Store) PutFighter(ctx context.Context, fighter *domain.Combatant) error {
	if fighter == nil {
		return fmt.Errorf("fighter is required")
	}

	spells := make([]spellJSON, 0, fighter.SpellCount())
	for _, spell := range fighter.Spells() {
		effect := spell.Effect
		if len(effect) == 0 {
			effect = json.RawMessage("{}")
		}
		spells = append(spells, spellJSON{Name: spell.Name, Effect: effect, Power: spell.Power})
	}
	spellsRaw, err := json.Marshal(spells)
	if err != nil {
		return persistence("encode spells", err)
	}

	behavior := fighter.Behavior()
	behaviorRaw, err := json.Marshal(behaviorJSON{
		AttackChance: behavior.AttackChance,
		HealChance:   behavior.HealChance,
		SpellChances: behavior.SpellChances,
	})
	if err != nil {
		return persistence("encode behavior", err)
	}

	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO fighters (name, health, max_health, attack_min, attack_max, base_defense, heal_delta, spells_json, behavior_json, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		fighter.Name(), fighter.Health(), fighter.MaxHealth(),
		fighter.AttackMin(), fighter.AttackMax(), fighter.BaseDefense(), fighter.HealDelta(),
		string(spellsRaw), string(behaviorRaw), toMillis(s.clock()),
	)
	if err != nil {
		if isConstraintError(err) {
			return fmt.Errorf("%w: fighter %s", storage.ErrDuplicate, fighter.Name())
		}
		return persistence("insert fighter", err)
	}
	return nil
}

// GetFighter returns the fighter with the given name.
func (s *Store) GetFighter(ctx context.Context, name string) (*domain.Combatant, error) {
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT name, health, max_health, attack_min, attack_max, base_defense, heal_delta, spells_json, behavior_json
FROM fighters WHERE name = ?`, name)

	fighter, err := scanFighter(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: fighter %s", storage.ErrNotFound, name)
		}
		return nil, err
	}
	return fighter, nil
}

// ListFighters returns all fighters ordered by name.
func (s *Store) ListFighters(ctx context.Context) ([]*domain.Combatant, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT name, health, max_health, attack_min, attack_max, base_defense, heal_delta, spells_json, behavior_json
FROM fighters ORDER BY name`)
	if err != nil {
		return nil, persistence("list fighters", err)
	}
	defer rows.Close()

	var fighters []*domain.Combatant
	for rows.Next() {
		fighter, err := scanFighter(rows)
		if err != nil {
			return nil, err
		}
		fighters = append(fighters, fighter)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("list fighters", err)
	}
	return fighters, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFighter(row rowScanner) (*domain.Combatant, error) {
	var (
		name                   string
		health, maxHealth      int
		attackMin, attackMax   int
		baseDefense, healDelta int
		spellsRaw, behaviorRaw string
	)
	if err := row.Scan(&name, &health, &maxHealth, &attackMin, &attackMax,
		&baseDefense, &healDelta, &spellsRaw, &behaviorRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, persistence("scan fighter", err)
	}

	var spells []spellJSON
	if err := json.Unmarshal([]byte(spellsRaw), &spells); err != nil {
		return nil, persistence("decode spells", err)
	}
	var behavior behaviorJSON
	if err := json.Unmarshal([]byte(behaviorRaw), &behavior); err != nil {
		return nil, persistence("decode behavior", err)
	}

	domainSpells := make([]domain.Spell, 0, len(spells))
	for _, spell := range spells {
		domainSpells = append(domainSpells, domain.Spell{
			Name:   spell.Name,
			Effect: spell.Effect,
			Power:  spell.Power,
		})
	}

	fighter, err := domain.NewCombatant(domain.CombatantInput{
		Name:        name,
		Health:      health,
		MaxHealth:   maxHealth,
		AttackMin:   attackMin,
		AttackMax:   attackMax,
		BaseDefense: baseDefense,
		HealDelta:   healDelta,
		Spells:      domainSpells,
		Behavior: domain.Behavior{
			AttackChance: behavior.AttackChance,
			HealChance:   behavior.HealChance,
			SpellChances: behavior.SpellChances,
		},
	})
	if err != nil {
		return nil, persistence(fmt.Sprintf("stored fighter %s fails validation", name), err)
	}
	return fighter, nil
}

func persistence(op string, cause error) error {
	return apperrors.Wrap(apperrors.CodePersistence, op+": "+cause.Error(), cause)
}

func isConstraintError(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT || code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}
