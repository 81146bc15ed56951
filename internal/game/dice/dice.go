// Package dice provides the randomness abstraction and roll-result types for
// the Gridfall combat core. Every random draw in the engine goes through a
// Source so tests can inject a fixed sequence and assert exact outcomes.
package dice

import "fmt"

// Source is the randomness provider for all combat rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// RollResult holds the audit trail for a single dice-expression evaluation.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string // original expression string, e.g. "2d6+3"
	Dice       []int  // individual die results before modifier
	Modifier   int    // flat modifier (may be negative)
}

// Total returns the sum of all die results plus the modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String returns a human-readable audit string, e.g. "2d6+3 → [4 5] +3 = 12".
func (r RollResult) String() string {
	return fmt.Sprintf("%s → %v %+d = %d", r.Expression, r.Dice, r.Modifier, r.Total())
}

// Percent performs a d100 check against chance (a percentage in [0,100]).
// A chance <= 0 never succeeds; >= 100 always succeeds.
//
// Precondition: src must be non-nil.
func Percent(src Source, chance int) bool {
	if chance <= 0 {
		return false
	}
	if chance >= 100 {
		return true
	}
	return src.Intn(100) < chance
}

// Variance returns base scaled by a random factor in [1-spread, 1+spread].
// spread is a fraction (0.15 = ±15%). Used for damage variance so identical
// attacks are not perfectly deterministic.
//
// Precondition: src must be non-nil; spread must be in [0, 1).
// Postcondition: Returns a value with the same sign as base.
func Variance(src Source, base float64, spread float64) float64 {
	if spread <= 0 || base == 0 {
		return base
	}
	// Draw in per-mille steps so small spreads still produce variation.
	steps := int(2 * spread * 1000)
	if steps <= 0 {
		return base
	}
	factor := 1 - spread + float64(src.Intn(steps+1))/1000
	return base * factor
}
