// Package errors provides structured error handling for arena operations.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Fighter errors
	CodeFighterEmptyName          Code = "FIGHTER_EMPTY_NAME"
	CodeFighterInvalidHealth      Code = "FIGHTER_INVALID_HEALTH"
	CodeFighterInvalidAttackRange Code = "FIGHTER_INVALID_ATTACK_RANGE"
	CodeFighterInvalidDefense     Code = "FIGHTER_INVALID_DEFENSE"
	CodeFighterInvalidHealDelta   Code = "FIGHTER_INVALID_HEAL_DELTA"
	CodeFighterNegativeChance     Code = "FIGHTER_NEGATIVE_CHANCE"
	CodeFighterBehaviorSum        Code = "FIGHTER_BEHAVIOR_SUM"
	CodeFighterSpellChanceCount   Code = "FIGHTER_SPELL_CHANCE_COUNT"

	// Battle errors
	CodeBattleSameFighter      Code = "BATTLE_SAME_FIGHTER"
	CodeBattleUnknownSpell     Code = "BATTLE_UNKNOWN_SPELL"
	CodeBattleInvalidAction    Code = "BATTLE_INVALID_ACTION"
	CodeBattleNotSuspended     Code = "BATTLE_NOT_SUSPENDED"
	CodeBattleAlreadyComplete  Code = "BATTLE_ALREADY_COMPLETE"
	CodeBattleReplayDivergence Code = "BATTLE_REPLAY_DIVERGENCE"

	// Storage errors
	CodeNotFound    Code = "NOT_FOUND"
	CodeDuplicate   Code = "DUPLICATE"
	CodePersistence Code = "PERSISTENCE"
)

// Kind is the broad error category an operation reports to callers.
type Kind string

const (
	// KindValidation covers malformed fighter definitions and inputs.
	KindValidation Kind = "validation"
	// KindInvalidAction covers player actions the actor cannot perform.
	KindInvalidAction Kind = "invalid_action"
	// KindNotFound covers lookups of unknown fighters or battles.
	KindNotFound Kind = "not_found"
	// KindDuplicate covers fighter name and battle id collisions.
	KindDuplicate Kind = "duplicate"
	// KindPersistence covers storage I/O failures.
	KindPersistence Kind = "persistence"
	// KindInternal covers everything else.
	KindInternal Kind = "internal"
)

// ErrorKind maps codes to the broad categories surfaced by the CLI.
func (c Code) ErrorKind() Kind {
	switch c {
	case CodeFighterEmptyName,
		CodeFighterInvalidHealth,
		CodeFighterInvalidAttackRange,
		CodeFighterInvalidDefense,
		CodeFighterInvalidHealDelta,
		CodeFighterNegativeChance,
		CodeFighterBehaviorSum,
		CodeFighterSpellChanceCount,
		CodeBattleSameFighter:
		return KindValidation

	case CodeBattleUnknownSpell,
		CodeBattleInvalidAction,
		CodeBattleNotSuspended,
		CodeBattleAlreadyComplete:
		return KindInvalidAction

	case CodeNotFound:
		return KindNotFound

	case CodeDuplicate:
		return KindDuplicate

	case CodePersistence,
		CodeBattleReplayDivergence:
		return KindPersistence

	default:
		return KindInternal
	}
}
