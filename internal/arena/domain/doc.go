// Package domain contains the core battle entities and their invariants.
//
// Combatants are only constructed through NewCombatant, which rejects any
// definition whose behavior weights do not describe a probability
// distribution. Once built, a combatant's health changes exclusively through
// ApplyDamage and ApplyHeal, so it can never leave the [0, MaxHealth] range.
package domain
