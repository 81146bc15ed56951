package combat

import "github.com/gridfall/server/internal/game/unit"

// Level-factor clamp bounds. XP shifts with the level difference between
// target and attacker but never explodes in either direction: a much
// higher-level target is worth at most double, a much lower-level target
// still pays out a fifth.
const (
	minLevelFactor = 0.2
	maxLevelFactor = 2.0
)

// experience computes the XP award for damage dealt to the primary target.
// The award scales with the fraction of the target's max HP removed, with a
// bonus for the killing blow, shifted by the level delta and floored at the
// configured minimum so a graze on a weak target still grants something.
// Zero damage (a fully-floored miss path never reaches here, but a zero
// splash-only outcome can) awards zero.
//
// Postcondition: the result is >= 0.
func (s *System) experience(attacker, target *unit.Unit, damage int, killed bool) int {
	if damage <= 0 {
		return 0
	}

	base := float64(s.cfg.XPBase)
	fraction := float64(damage) / float64(target.Stats.MaxHP)
	if fraction > 1 {
		fraction = 1
	}
	xp := base * fraction
	if killed {
		xp += base * 0.5
	}

	levelDelta := target.Stats.Level - attacker.Stats.Level
	factor := 1 + s.cfg.XPLevelDeltaScale*float64(levelDelta)
	if factor < minLevelFactor {
		factor = minLevelFactor
	}
	if factor > maxLevelFactor {
		factor = maxLevelFactor
	}
	xp *= factor

	award := int(xp)
	if award < s.cfg.XPMinAward {
		award = s.cfg.XPMinAward
	}
	return award
}
