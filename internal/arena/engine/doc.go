// Package engine advances battles turn by turn.
//
// The engine is synchronous and cooperative: Run drives a battle to
// completion unless a human-controlled side must act, in which case the
// state machine suspends in StatePlayerTurn and resumes when the caller
// submits an action. All randomness flows through an injected Source so a
// seeded battle is fully reproducible.
package engine
