package combat

import (
	"go.uber.org/zap"

	"github.com/gridfall/server/internal/game/stats"
	"github.com/gridfall/server/internal/game/unit"
)

// AdvanceStatusEffects processes ticks logical ticks for one unit. Each
// tick applies every active effect's damage-over-time payload, decrements
// durations, and removes expired effects in the same pass. DoT payloads
// land before expiry is checked, so an effect deals its final tick of
// damage on the tick it expires. Death from a DoT goes through the same
// death path as combat damage; a unit that dies mid-tick stops taking
// further payloads because damage to corpses is a no-op.
//
// Unknown unit ids, units without a stats component, and ticks <= 0 are
// no-ops: ticking the whole battlefield must not fail because one entity
// despawned.
func (s *System) AdvanceStatusEffects(unitID string, ticks int) {
	u, ok := s.units.Get(unitID)
	if !ok || u.Stats == nil || u.Status == nil {
		return
	}
	for i := 0; i < ticks; i++ {
		s.advanceOneTick(u)
	}
}

func (s *System) advanceOneTick(u *unit.Unit) {
	for _, name := range u.Status.Active() {
		def, ok := s.effects.Get(name)
		if !ok || def.DamagePerTick == 0 {
			continue
		}
		s.applyTickPayload(u, name, def.DamagePerTick)
	}

	for _, name := range u.Status.Tick() {
		if def, ok := s.effects.Get(name); ok && def.Attribute != "" && def.AttributeDelta != 0 {
			u.Stats.RemoveTemporaryModifier(stats.Attribute(def.Attribute), def.AttributeDelta)
			u.Stats.CalculateDerivedStats()
		}
		s.sink.Emit(StatusExpired{UnitID: u.ID, Effect: name})
		s.logger.Debug("status expired",
			zap.String("unit_id", u.ID),
			zap.String("effect", name),
		)
	}
}

// applyTickPayload applies one effect's per-tick payload: positive values
// damage, negative values heal. A DoT kill has no attributable killer.
func (s *System) applyTickPayload(u *unit.Unit, effect string, payload int) {
	if payload > 0 {
		if !u.Stats.Alive {
			return
		}
		s.applyDamage(u, payload, "")
		s.sink.Emit(StatusDamage{UnitID: u.ID, Effect: effect, Damage: payload})
		return
	}
	healed := u.Stats.Heal(-payload)
	if healed > 0 {
		s.sink.Emit(StatusDamage{UnitID: u.ID, Effect: effect, Damage: -healed})
	}
}
