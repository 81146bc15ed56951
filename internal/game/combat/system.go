package combat

import (
	"go.uber.org/zap"

	"github.com/gridfall/server/internal/config"
	"github.com/gridfall/server/internal/game/ability"
	"github.com/gridfall/server/internal/game/dice"
	"github.com/gridfall/server/internal/game/stats"
	"github.com/gridfall/server/internal/game/status"
	"github.com/gridfall/server/internal/game/unit"
	"github.com/gridfall/server/internal/scripting"
)

// System is the combat resolution core for one battle. It is conceptually
// single-threaded: one attack resolves fully before the next begins, because
// splash and death handling depend on state mutated earlier in the same
// resolution. The owning session serialises calls.
type System struct {
	cfg       config.CombatConfig
	units     *unit.Registry
	effects   *status.Registry
	abilities *ability.Registry
	src       dice.Source
	roller    *dice.Roller
	sink      Sink
	hooks     *scripting.Runner
	logger    *zap.Logger
}

// NewSystem creates a combat System.
//
// Precondition: units, effects, abilities, src, and logger must be non-nil.
// sink may be nil (events are discarded); hooks may be nil (ability Lua
// hooks are skipped).
func NewSystem(
	cfg config.CombatConfig,
	units *unit.Registry,
	effects *status.Registry,
	abilities *ability.Registry,
	src dice.Source,
	sink Sink,
	hooks *scripting.Runner,
	logger *zap.Logger,
) *System {
	if sink == nil {
		sink = NopSink
	}
	return &System{
		cfg:       cfg,
		units:     units,
		effects:   effects,
		abilities: abilities,
		src:       src,
		roller:    dice.NewLoggedRoller(src, logger),
		sink:      sink,
		hooks:     hooks,
		logger:    logger,
	}
}

// Units returns the registry the system resolves entity ids through.
func (s *System) Units() *unit.Registry {
	return s.units
}

// validateAttack runs the fixed validation sequence and returns the attacker
// and target on success. Checks run in order and the first unmet condition
// produces the Rejection; nothing is mutated.
func (s *System) validateAttack(attackerID, targetID string, kind AttackKind, abilityID string) (*unit.Unit, *unit.Unit, *ability.Def, *Rejection) {
	attacker, ok := s.units.Get(attackerID)
	if !ok {
		return nil, nil, nil, reject(ReasonUnknownEntity, "attacker %s not found", attackerID)
	}
	target, ok := s.units.Get(targetID)
	if !ok {
		return nil, nil, nil, reject(ReasonUnknownEntity, "target %s not found", targetID)
	}
	if attacker.Stats == nil {
		return nil, nil, nil, reject(ReasonMissingStats, "attacker %s has no stats component", attackerID)
	}
	if target.Stats == nil {
		return nil, nil, nil, reject(ReasonMissingStats, "target %s has no stats component", targetID)
	}
	if !attacker.Stats.Alive {
		return nil, nil, nil, reject(ReasonDeadAttacker, "dead units cannot act")
	}
	if !target.Stats.Alive {
		return nil, nil, nil, reject(ReasonDeadTarget, "cannot attack a corpse")
	}
	// No TeamComponent on either side means the check does not apply.
	if attacker.Team.SameTeam(target.Team) {
		return nil, nil, nil, reject(ReasonSameTeam, "cannot target ally %s", target.Name)
	}

	var abilityDef *ability.Def
	attackRange, mpCost, rej := s.kindNumbers(attacker, kind, abilityID, &abilityDef)
	if rej != nil {
		return nil, nil, nil, rej
	}

	dist := attacker.Position.DistanceTo(target.Position)
	if dist > attackRange {
		return nil, nil, nil, reject(ReasonOutOfRange, "distance %d exceeds range %d", dist, attackRange)
	}
	if mpCost > 0 && attacker.Stats.CurrentMP < mpCost {
		return nil, nil, nil, reject(ReasonInsufficientMP, "need %d MP, have %d", mpCost, attacker.Stats.CurrentMP)
	}
	return attacker, target, abilityDef, nil
}

// kindNumbers resolves the range and MP cost for the requested kind, loading
// the ability definition when needed.
func (s *System) kindNumbers(attacker *unit.Unit, kind AttackKind, abilityID string, defOut **ability.Def) (attackRange, mpCost int, rej *Rejection) {
	switch kind {
	case KindMelee, KindRanged, KindSpell:
		kc, _ := s.cfg.KindConfig(kind.String())
		return kc.Range, kc.MPCost, nil
	case KindAbility:
		def, ok := s.abilities.Get(abilityID)
		if !ok {
			return 0, 0, reject(ReasonUnknownAbility, "ability %q not found", abilityID)
		}
		*defOut = def
		return def.Range, def.MPCost, nil
	default:
		return 0, 0, reject(ReasonUnknownKind, "attack kind %d is not valid", int(kind))
	}
}

// createAction builds the transient action descriptor from the attacker's
// derived stats, equipment bonuses, and (for abilities) the definition.
// Ability damage rolls dice, so two calls are not identical; preview uses
// actionDamageBounds instead.
func (s *System) createAction(attacker, target *unit.Unit, kind AttackKind, def *ability.Def) Action {
	a := Action{
		AttackerID: attacker.ID,
		TargetID:   target.ID,
		Kind:       kind,
	}

	st := attacker.Stats
	switch kind {
	case KindMelee:
		kc := s.cfg.Melee
		a.BaseDamage = float64(st.PhysicalAttack) * kc.DamageScale
		a.DamageType = Physical
		a.Accuracy = kc.Accuracy
		a.CritChance = kc.CritChance + st.CriticalChance - stats.BaseCriticalChance
		a.Range = kc.Range
		a.MPCost = kc.MPCost
	case KindRanged:
		kc := s.cfg.Ranged
		a.BaseDamage = float64(st.PhysicalAttack) * kc.DamageScale
		a.DamageType = Physical
		a.Accuracy = kc.Accuracy
		a.CritChance = kc.CritChance + st.CriticalChance - stats.BaseCriticalChance
		a.Range = kc.Range
		a.MPCost = kc.MPCost
	case KindSpell:
		kc := s.cfg.Spell
		a.BaseDamage = float64(st.MagicalAttack) * kc.DamageScale
		a.DamageType = Magical
		a.Accuracy = kc.Accuracy
		a.CritChance = kc.CritChance + st.CriticalChance - stats.BaseCriticalChance
		a.Range = kc.Range
		a.MPCost = kc.MPCost
	case KindAbility:
		a.AbilityID = def.ID
		roll := 0
		if def.Damage != "" {
			roll = s.roller.Roll(dice.MustParse(def.Damage)).Total()
		}
		a.BaseDamage = float64(st.SpiritualAttack) + float64(roll)
		a.DamageType, _ = ParseDamageType(def.DamageType)
		a.Accuracy = def.Accuracy
		a.CritChance = def.CritChance
		a.Range = def.Range
		a.MPCost = def.MPCost
		a.Penetration = def.Penetration
		a.Area = def.Area
		a.AreaRadius = def.AreaRadius
		a.FriendlyFire = def.FriendlyFire
		a.AppliesStatus = def.AppliesStatus
		a.StatusDuration = def.StatusDuration
		a.luaOnHit = def.LuaOnHit
	}

	if eq := attacker.Equipment; eq != nil {
		if eq.DamageMultiplier > 0 {
			a.BaseDamage *= eq.DamageMultiplier
		}
		a.Accuracy += eq.AccuracyBonus
		a.CritChance += eq.CritBonus
	}
	if a.CritChance < 0 {
		a.CritChance = 0
	}
	return a
}

// ExecuteAttack resolves one attack request end to end: validation, MP
// consumption, accuracy and critical rolls, damage mitigation, area splash,
// status application, death handling, experience, and event emission.
// abilityID is only consulted when kind is KindAbility.
//
// Postcondition: Returns (outcome, nil) for any fully resolved attack
// (including a miss), or (nil, rejection) when validation fails. A rejected
// attack mutates nothing.
func (s *System) ExecuteAttack(attackerID, targetID string, kind AttackKind, abilityID string) (*Outcome, *Rejection) {
	attacker, target, def, rej := s.validateAttack(attackerID, targetID, kind, abilityID)
	if rej != nil {
		s.logger.Debug("attack rejected",
			zap.String("attacker_id", attackerID),
			zap.String("target_id", targetID),
			zap.Stringer("kind", kind),
			zap.Stringer("reason", rej.Reason),
		)
		return nil, rej
	}

	action := s.createAction(attacker, target, kind, def)

	// Re-check immediately before consumption: a status tick between
	// validation and now may have drained the pool.
	if action.MPCost > 0 && !attacker.Stats.ConsumeMP(action.MPCost) {
		return nil, reject(ReasonInsufficientMP, "MP drained before consumption")
	}

	outcome := &Outcome{Action: action, MPSpent: action.MPCost}

	accuracy := s.finalAccuracy(action, attacker, target)
	if !dice.Percent(s.src, accuracy) {
		// A miss is a valid, fully resolved outcome: MP stays spent, nothing
		// else happens.
		outcome.Result = ResultMiss
		s.emitResolved(outcome)
		s.logger.Debug("attack missed",
			zap.String("attacker_id", attackerID),
			zap.String("target_id", targetID),
			zap.Int("accuracy", accuracy),
		)
		return outcome, nil
	}

	critical := dice.Percent(s.src, action.CritChance)
	if critical {
		outcome.Result = ResultCritical
	} else {
		outcome.Result = ResultHit
	}

	preMitigation := s.rolledDamage(action, critical)

	// Ability hooks see the pre-mitigation roll and may adjust damage, type,
	// and the attached status.
	if action.Kind == KindAbility && action.luaOnHit != "" && s.hooks != nil {
		preMitigation = s.runHook(&action, attacker, target, critical, preMitigation)
	}

	primaryDamage := s.mitigate(preMitigation, action, target)
	died := s.applyDamage(target, primaryDamage, attacker.ID)
	outcome.Damage += primaryDamage
	outcome.TargetsHit = append(outcome.TargetsHit, target.ID)

	if action.AppliesStatus != "" && target.Stats.Alive {
		if app := s.applyStatus(target, action.AppliesStatus, action.StatusDuration); app != nil {
			outcome.StatusApplied = append(outcome.StatusApplied, *app)
		}
	}

	if action.Area {
		s.applySplash(&action, attacker, target, preMitigation, outcome)
	}

	outcome.Experience = s.experience(attacker, target, primaryDamage, died)

	s.emitResolved(outcome)
	s.logger.Debug("attack resolved",
		zap.String("attacker_id", attackerID),
		zap.String("target_id", targetID),
		zap.Stringer("result", outcome.Result),
		zap.Int("damage", outcome.Damage),
		zap.Int("experience", outcome.Experience),
	)
	return outcome, nil
}

// runHook executes the ability's Lua on-hit hook, returning the possibly
// adjusted pre-mitigation damage. Hook errors degrade to the unhooked values.
func (s *System) runHook(action *Action, attacker, target *unit.Unit, critical bool, preMitigation float64) float64 {
	snap := &scripting.AttackSnapshot{
		AbilityID:    action.AbilityID,
		AttackerName: attacker.Name,
		TargetName:   target.Name,
		AttackerHP:   attacker.Stats.CurrentHP,
		AttackerMax:  attacker.Stats.MaxHP,
		TargetHP:     target.Stats.CurrentHP,
		TargetMax:    target.Stats.MaxHP,
		Critical:     critical,
		Damage:       int(preMitigation),
		DamageType:   action.DamageType.String(),
		StatusEffect: action.AppliesStatus,
	}
	if err := s.hooks.RunOnHit(action.luaOnHit, snap); err != nil {
		s.logger.Warn("ability hook failed, using unhooked values",
			zap.String("ability_id", action.AbilityID),
			zap.Error(err),
		)
		return preMitigation
	}
	if dt, err := ParseDamageType(snap.DamageType); err == nil {
		action.DamageType = dt
	}
	action.AppliesStatus = snap.StatusEffect
	return float64(snap.Damage)
}

// applyDamage routes all damage through one path so death handling is
// uniform: the alive flag flips exactly once and exactly one UnitDied event
// is emitted no matter whether the damage came from a direct hit, splash, or
// a status tick. Damage to an already-dead unit is a no-op.
func (s *System) applyDamage(target *unit.Unit, amount int, killerID string) (died bool) {
	died = target.Stats.TakeDamage(amount)
	if died {
		s.sink.Emit(UnitDied{UnitID: target.ID, KillerID: killerID})
		s.logger.Debug("unit died",
			zap.String("unit_id", target.ID),
			zap.String("killer_id", killerID),
		)
	}
	return died
}

// applyStatus attaches the named effect to u, overwriting any existing
// duration. Attribute-modifier payloads are applied only on a fresh
// application so re-application cannot stack the modifier.
func (s *System) applyStatus(u *unit.Unit, name string, durationOverride int) *StatusApplication {
	def, ok := s.effects.Get(name)
	if !ok {
		s.logger.Warn("unknown status effect", zap.String("effect", name))
		return nil
	}
	duration := def.DurationTicks
	if cfgDur, ok := s.cfg.StatusDurations[name]; ok {
		duration = cfgDur
	}
	if durationOverride > 0 {
		duration = durationOverride
	}

	fresh := !u.Status.Has(name)
	u.Status.Apply(name, duration)
	if fresh && def.Attribute != "" && def.AttributeDelta != 0 {
		u.Stats.ApplyTemporaryModifier(stats.Attribute(def.Attribute), def.AttributeDelta)
		u.Stats.CalculateDerivedStats()
	}

	s.sink.Emit(StatusApplied{UnitID: u.ID, Effect: name, Duration: duration})
	return &StatusApplication{TargetID: u.ID, Effect: name}
}

func (s *System) emitResolved(o *Outcome) {
	s.sink.Emit(AttackResolved{
		AttackerID: o.Action.AttackerID,
		TargetID:   o.Action.TargetID,
		Kind:       o.Action.Kind,
		AbilityID:  o.Action.AbilityID,
		Result:     o.Result,
		Damage:     o.Damage,
		TargetsHit: o.TargetsHit,
		MPSpent:    o.MPSpent,
		Experience: o.Experience,
	})
}
