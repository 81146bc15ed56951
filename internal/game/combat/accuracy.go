package combat

import (
	"github.com/gridfall/server/internal/game/unit"
)

// finalAccuracy computes the hit chance for one attack attempt: the action's
// base accuracy plus every situational modifier, clamped to the configured
// band. The single d100 roll in ExecuteAttack compares against this value.
//
// Modifier order does not matter (all additive); the clamp is applied last.
func (s *System) finalAccuracy(action Action, attacker, target *unit.Unit) int {
	acc := action.Accuracy

	acc += s.heightBonus(attacker, target)

	if action.Kind == KindRanged {
		acc -= s.longRangePenalty(attacker, target, action.Range)
	}

	if s.isFlanking(attacker, target) {
		// Attacking into the flank zone contests the attacker's aim but the
		// relief cancels most of the penalty; the rest of the reward is the
		// flanking damage bonus.
		acc -= s.cfg.FlankingAccuracyPenalty
		acc += s.cfg.FlankingAccuracyRelief
	}

	acc += statusAccuracyShift(s, attacker, target)

	if acc < s.cfg.MinAccuracy {
		acc = s.cfg.MinAccuracy
	}
	if acc > s.cfg.MaxAccuracy {
		acc = s.cfg.MaxAccuracy
	}
	return acc
}

// heightBonus returns the accuracy bonus for attacking from above. Attacking
// from below grants nothing rather than a penalty.
func (s *System) heightBonus(attacker, target *unit.Unit) int {
	advantage := attacker.Position.HeightAdvantage(target.Position)
	if advantage <= 0 {
		return 0
	}
	bonus := int(advantage) * s.cfg.HeightBonusPerUnit
	if bonus > s.cfg.HeightBonusCap {
		bonus = s.cfg.HeightBonusCap
	}
	return bonus
}

// longRangePenalty returns the accuracy penalty for a ranged shot past the
// configured fraction of its maximum range.
func (s *System) longRangePenalty(attacker, target *unit.Unit, maxRange int) int {
	dist := attacker.Position.DistanceTo(target.Position)
	if float64(dist) > s.cfg.LongRangeFraction*float64(maxRange) {
		return s.cfg.LongRangePenalty
	}
	return 0
}

// isFlanking reports whether the attacker stands in one of the two cells
// directly behind the target's facing.
func (s *System) isFlanking(attacker, target *unit.Unit) bool {
	for _, cell := range target.Position.FlankingPositions() {
		if attacker.Position.Position == cell {
			return true
		}
	}
	return false
}

// statusAccuracyShift sums the accuracy shifts from status effects on both
// sides: effects on the attacker contribute their self shift (blind,
// focused, freeze), effects on the target contribute their targeted shift
// (stun makes the target easier to hit, dodge_boost harder).
func statusAccuracyShift(s *System, attacker, target *unit.Unit) int {
	shift := 0
	for _, name := range attacker.Status.Active() {
		if def, ok := s.effects.Get(name); ok {
			shift += def.SelfAccuracy
		}
	}
	for _, name := range target.Status.Active() {
		if def, ok := s.effects.Get(name); ok {
			shift += def.TargetedAccuracy
		}
	}
	return shift
}
