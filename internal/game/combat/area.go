package combat

import (
	"go.uber.org/zap"

	"github.com/gridfall/server/internal/game/unit"
)

// areaTargets returns the splash candidates for an area action centered on
// the primary target's position: every living unit within the radius except
// the primary target itself and the attacker. Friendly-fire gating skips the
// attacker's teammates unless the action allows friendly fire; precision
// casting exempts them again even when it does. Candidates are returned in
// registry spawn order so resolution is deterministic.
func (s *System) areaTargets(action *Action, attacker, primary *unit.Unit) []*unit.Unit {
	center := primary.Position.Position
	var out []*unit.Unit
	for _, u := range s.units.All() {
		if u.ID == primary.ID || u.ID == attacker.ID {
			continue
		}
		if u.Stats == nil || !u.Stats.Alive {
			continue
		}
		if center.DistanceTo(u.Position.Position) > action.AreaRadius {
			continue
		}
		if attacker.Team.SameTeam(u.Team) {
			if !action.FriendlyFire {
				continue
			}
			if eq := attacker.Equipment; eq != nil && eq.PrecisionCasting {
				continue
			}
		}
		out = append(out, u)
	}
	return out
}

// splashMultiplier returns the damage fraction at the given distance from
// the area center: linear falloff from 1.0 at distance 0 down to the
// configured floor at the radius edge. Distance at or beyond the radius
// never drops below the floor.
func (s *System) splashMultiplier(dist, radius int) float64 {
	if radius <= 0 || dist <= 0 {
		return 1.0
	}
	if dist >= radius {
		return s.cfg.AreaFalloffFloor
	}
	span := 1.0 - s.cfg.AreaFalloffFloor
	return 1.0 - span*float64(dist)/float64(radius)
}

// applySplash damages every splash candidate around the primary target,
// accumulating into the outcome. The primary already took full damage in the
// main path; splash never double-applies to it. The shared pre-mitigation
// roll is scaled per candidate by falloff and then mitigated against that
// candidate's own defenses.
func (s *System) applySplash(action *Action, attacker, primary *unit.Unit, preMitigation float64, outcome *Outcome) {
	center := primary.Position.Position
	for _, candidate := range s.areaTargets(action, attacker, primary) {
		dist := center.DistanceTo(candidate.Position.Position)
		scaled := preMitigation * s.splashMultiplier(dist, action.AreaRadius)
		dmg := s.mitigate(scaled, *action, candidate)
		if dmg <= 0 {
			continue
		}
		s.applyDamage(candidate, dmg, attacker.ID)
		outcome.Damage += dmg
		outcome.TargetsHit = append(outcome.TargetsHit, candidate.ID)
		s.logger.Debug("splash damage",
			zap.String("target_id", candidate.ID),
			zap.Int("distance", dist),
			zap.Int("damage", dmg),
		)
	}
}
