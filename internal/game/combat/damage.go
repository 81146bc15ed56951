package combat

import (
	"github.com/gridfall/server/internal/game/dice"
	"github.com/gridfall/server/internal/game/unit"
)

// rolledDamage returns the pre-mitigation damage for one hit: the action's
// base damage with bounded random variance applied, doubled up by the
// critical multiplier on a crit. Mitigation happens per target afterwards so
// splash victims with different defenses share one roll.
func (s *System) rolledDamage(action Action, critical bool) float64 {
	dmg := dice.Variance(s.src, action.BaseDamage, s.cfg.DamageVariance)
	if critical {
		dmg *= s.cfg.CritMultiplier
	}
	return dmg
}

// mitigate converts pre-mitigation damage into the HP actually removed from
// target, after defense reduction, penetration, flanking, and the
// guaranteed-minimum floor. True damage bypasses mitigation entirely.
//
// Postcondition: the result is >= 0, and for preMitigation >= 1 the result
// is >= 1 (something always gets through).
func (s *System) mitigate(preMitigation float64, action Action, target *unit.Unit) int {
	if preMitigation <= 0 {
		return 0
	}
	if action.DamageType == True {
		return floorDamage(preMitigation)
	}

	defense := s.defenseFor(action.DamageType, target)

	// Penetration scales effective defense down multiplicatively.
	pen := action.Penetration
	if pen < 0 {
		pen = 0
	}
	if pen > 1 {
		pen = 1
	}
	effDefense := defense * (1 - pen)

	// Softcap curve: reduction approaches but never reaches 1, and the
	// guaranteed-minimum fraction always gets through regardless.
	reduction := effDefense / (effDefense + s.cfg.DefenseSoftcap)
	if maxReduction := 1 - s.cfg.MinDamageFraction; reduction > maxReduction {
		reduction = maxReduction
	}

	dmg := preMitigation * (1 - reduction)
	if s.isFlankingID(action.AttackerID, target) {
		dmg *= 1 + s.cfg.FlankingDamageBonus
	}

	if floor := preMitigation * s.cfg.MinDamageFraction; dmg < floor {
		dmg = floor
	}
	return floorDamage(dmg)
}

// defenseFor returns the target's defense stat matching the damage type,
// plus any flat equipment defense bonus.
func (s *System) defenseFor(dt DamageType, target *unit.Unit) float64 {
	var def int
	switch dt {
	case Physical:
		def = target.Stats.PhysicalDefense
	case Magical:
		def = target.Stats.MagicalDefense
	case Spiritual:
		def = target.Stats.SpiritualDefense
	}
	if eq := target.Equipment; eq != nil {
		def += eq.DefenseBonus
	}
	if def < 0 {
		def = 0
	}
	return float64(def)
}

// isFlankingID resolves the attacker id and checks the flanking geometry.
// An attacker removed mid-resolution simply grants no flanking bonus.
func (s *System) isFlankingID(attackerID string, target *unit.Unit) bool {
	attacker, ok := s.units.Get(attackerID)
	if !ok {
		return false
	}
	return s.isFlanking(attacker, target)
}

// floorDamage truncates to an int with a floor of 1 for any positive damage,
// so a connected hit is never rounded into nothing.
func floorDamage(dmg float64) int {
	if dmg <= 0 {
		return 0
	}
	v := int(dmg)
	if v < 1 {
		v = 1
	}
	return v
}
