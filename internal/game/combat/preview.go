package combat

import (
	"github.com/gridfall/server/internal/game/ability"
	"github.com/gridfall/server/internal/game/dice"
	"github.com/gridfall/server/internal/game/unit"
)

// Preview is the read-only projection of an attack's expected outcome, used
// by UI and AI to show odds before committing.
type Preview struct {
	Kind       AttackKind
	Accuracy   int
	CritChance int
	// MinDamage and MaxDamage bound the non-critical damage against the
	// primary target across the variance spread (and, for abilities, the
	// damage dice). CritDamage is the maximum with the critical multiplier.
	MinDamage  int
	MaxDamage  int
	CritDamage int
	MPCost     int
}

// GetCombatPreview projects the expected outcome of an attack without
// resolving it: same validation, same accuracy modifiers, same mitigation
// formula as ExecuteAttack, but no dice rolls and no mutation. The displayed
// odds are therefore exactly the odds the resolution path uses.
//
// Postcondition: battle state is unchanged; the underlying random source is
// not drawn from.
func (s *System) GetCombatPreview(attackerID, targetID string, kind AttackKind, abilityID string) (*Preview, *Rejection) {
	attacker, target, def, rej := s.validateAttack(attackerID, targetID, kind, abilityID)
	if rej != nil {
		return nil, rej
	}

	action, minBase, maxBase := s.previewAction(attacker, target, kind, def)

	minPre := minBase * (1 - s.cfg.DamageVariance)
	maxPre := maxBase * (1 + s.cfg.DamageVariance)

	p := &Preview{
		Kind:       kind,
		Accuracy:   s.finalAccuracy(action, attacker, target),
		CritChance: action.CritChance,
		MinDamage:  s.mitigate(minPre, action, target),
		MaxDamage:  s.mitigate(maxPre, action, target),
		CritDamage: s.mitigate(maxPre*s.cfg.CritMultiplier, action, target),
		MPCost:     action.MPCost,
	}
	if p.CritChance > 100 {
		p.CritChance = 100
	}
	if p.CritChance < 0 {
		p.CritChance = 0
	}
	return p, nil
}

// previewAction builds the action descriptor without drawing randomness.
// For abilities the damage dice contribute their minimum and maximum totals
// to the returned base-damage bounds; for the fixed kinds both bounds equal
// the action's base damage.
func (s *System) previewAction(attacker, target *unit.Unit, kind AttackKind, def *ability.Def) (Action, float64, float64) {
	if kind != KindAbility {
		a := s.createAction(attacker, target, kind, nil)
		return a, a.BaseDamage, a.BaseDamage
	}

	a := Action{
		AttackerID: attacker.ID,
		TargetID:   target.ID,
		Kind:       kind,
		AbilityID:  def.ID,
	}
	a.DamageType, _ = ParseDamageType(def.DamageType)
	a.Accuracy = def.Accuracy
	a.CritChance = def.CritChance
	a.Range = def.Range
	a.MPCost = def.MPCost
	a.Penetration = def.Penetration
	a.Area = def.Area
	a.AreaRadius = def.AreaRadius
	a.FriendlyFire = def.FriendlyFire

	spirit := float64(attacker.Stats.SpiritualAttack)
	minBase, maxBase := spirit, spirit
	if def.Damage != "" {
		expr := dice.MustParse(def.Damage)
		minBase += float64(expr.Count + expr.Modifier)
		maxBase += float64(expr.Count*expr.Sides + expr.Modifier)
	}

	if eq := attacker.Equipment; eq != nil {
		if eq.DamageMultiplier > 0 {
			minBase *= eq.DamageMultiplier
			maxBase *= eq.DamageMultiplier
		}
		a.Accuracy += eq.AccuracyBonus
		a.CritChance += eq.CritBonus
	}
	if a.CritChance < 0 {
		a.CritChance = 0
	}
	return a, minBase, maxBase
}
