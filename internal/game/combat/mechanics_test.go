package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/gridfall/server/internal/config"
	"github.com/gridfall/server/internal/game/ability"
	"github.com/gridfall/server/internal/game/grid"
	"github.com/gridfall/server/internal/game/stats"
	"github.com/gridfall/server/internal/game/status"
	"github.com/gridfall/server/internal/game/unit"
)

func mechSystem(t *testing.T) *System {
	t.Helper()
	return NewSystem(
		config.Default().Combat,
		unit.NewRegistry(),
		status.DefaultRegistry(),
		ability.DefaultRegistry(),
		&stubSource{},
		nil,
		nil,
		zap.NewNop(),
	)
}

// stubSource always returns 0; mechanics tests never draw through it.
type stubSource struct{}

func (stubSource) Intn(int) int { return 0 }

func mechUnit(s *System, team string, base map[stats.Attribute]int, pos grid.Position) *unit.Unit {
	u := s.units.Spawn("u", stats.New(1, base), unit.NewPositionComponent(pos, grid.North, 3))
	u.Team = &unit.TeamComponent{Team: team}
	return u
}

func TestMitigate_Property_NeverNegativeAndFloored(t *testing.T) {
	s := mechSystem(t)
	target := mechUnit(s, "blue", nil, grid.Position{})

	rapid.Check(t, func(t *rapid.T) {
		pre := rapid.Float64Range(0, 500).Draw(t, "pre")
		fort := rapid.IntRange(0, 200).Draw(t, "fortitude")
		pen := rapid.Float64Range(0, 1).Draw(t, "penetration")

		target.Stats.SetBaseAttribute(stats.Fortitude, fort)
		action := Action{DamageType: Physical, Penetration: pen}

		dmg := s.mitigate(pre, action, target)
		assert.GreaterOrEqual(t, dmg, 0)
		if pre >= 1 {
			// The guaranteed-minimum floor always lets something through.
			assert.GreaterOrEqual(t, dmg, 1)
			assert.GreaterOrEqual(t, float64(dmg)+1, pre*s.cfg.MinDamageFraction)
		}
		assert.LessOrEqual(t, float64(dmg), pre+1)
	})
}

func TestMitigate_Property_TrueDamageUnreduced(t *testing.T) {
	s := mechSystem(t)
	target := mechUnit(s, "blue", map[stats.Attribute]int{stats.Fortitude: 100, stats.Wisdom: 100, stats.Spirit: 100}, grid.Position{})

	rapid.Check(t, func(t *rapid.T) {
		pre := rapid.Float64Range(1, 500).Draw(t, "pre")
		dmg := s.mitigate(pre, Action{DamageType: True}, target)
		assert.Equal(t, floorDamage(pre), dmg)
	})
}

func TestMitigate_PenetrationIncreasesDamage(t *testing.T) {
	s := mechSystem(t)
	target := mechUnit(s, "blue", map[stats.Attribute]int{stats.Fortitude: 40}, grid.Position{})

	none := s.mitigate(100, Action{DamageType: Physical, Penetration: 0}, target)
	half := s.mitigate(100, Action{DamageType: Physical, Penetration: 0.5}, target)
	full := s.mitigate(100, Action{DamageType: Physical, Penetration: 1}, target)

	assert.Less(t, none, half)
	assert.Less(t, half, full)
	assert.Equal(t, 100, full)
}

func TestFinalAccuracy_Property_AlwaysWithinBand(t *testing.T) {
	s := mechSystem(t)

	rapid.Check(t, func(t *rapid.T) {
		units := unit.NewRegistry()
		s.units = units
		attacker := mechUnit(s, "red", nil, grid.Position{X: 0, Y: 0})
		target := mechUnit(s, "blue", nil, grid.Position{
			X: rapid.IntRange(-3, 3).Draw(t, "tx"),
			Y: rapid.IntRange(1, 5).Draw(t, "ty"),
		})
		attacker.Position.Height = float64(rapid.IntRange(-10, 10).Draw(t, "height"))

		for _, name := range []string{"blind", "focused", "freeze"} {
			if rapid.Bool().Draw(t, "attacker_"+name) {
				attacker.Status.Apply(name, 1)
			}
		}
		for _, name := range []string{"stun", "dodge_boost"} {
			if rapid.Bool().Draw(t, "target_"+name) {
				target.Status.Apply(name, 1)
			}
		}

		action := Action{
			Kind:     KindRanged,
			Accuracy: rapid.IntRange(-50, 200).Draw(t, "base"),
			Range:    6,
		}
		acc := s.finalAccuracy(action, attacker, target)
		assert.GreaterOrEqual(t, acc, s.cfg.MinAccuracy)
		assert.LessOrEqual(t, acc, s.cfg.MaxAccuracy)
	})
}

func TestSplashMultiplier_LinearFalloffToFloor(t *testing.T) {
	s := mechSystem(t)

	assert.InDelta(t, 1.0, s.splashMultiplier(0, 2), 1e-9)
	assert.InDelta(t, 0.7, s.splashMultiplier(1, 2), 1e-9)
	assert.InDelta(t, s.cfg.AreaFalloffFloor, s.splashMultiplier(2, 2), 1e-9)
	assert.InDelta(t, s.cfg.AreaFalloffFloor, s.splashMultiplier(5, 2), 1e-9)
}

func TestSplashMultiplier_Property_MonotoneInDistance(t *testing.T) {
	s := mechSystem(t)
	rapid.Check(t, func(t *rapid.T) {
		radius := rapid.IntRange(1, 10).Draw(t, "radius")
		d1 := rapid.IntRange(0, 15).Draw(t, "d1")
		d2 := rapid.IntRange(0, 15).Draw(t, "d2")
		if d1 > d2 {
			d1, d2 = d2, d1
		}
		m1 := s.splashMultiplier(d1, radius)
		m2 := s.splashMultiplier(d2, radius)
		assert.GreaterOrEqual(t, m1, m2)
		assert.GreaterOrEqual(t, m2, s.cfg.AreaFalloffFloor)
		assert.LessOrEqual(t, m1, 1.0)
	})
}

func TestExperience_Property_NonNegativeAndMonotoneInDamage(t *testing.T) {
	s := mechSystem(t)
	attacker := mechUnit(s, "red", nil, grid.Position{X: 0, Y: 0})
	target := mechUnit(s, "blue", nil, grid.Position{X: 0, Y: 1})

	rapid.Check(t, func(t *rapid.T) {
		attacker.Stats.Level = rapid.IntRange(1, 100).Draw(t, "attacker_level")
		target.Stats.Level = rapid.IntRange(1, 100).Draw(t, "target_level")
		d1 := rapid.IntRange(0, target.Stats.MaxHP).Draw(t, "d1")
		d2 := rapid.IntRange(0, target.Stats.MaxHP).Draw(t, "d2")
		if d1 > d2 {
			d1, d2 = d2, d1
		}

		x1 := s.experience(attacker, target, d1, false)
		x2 := s.experience(attacker, target, d2, false)
		assert.GreaterOrEqual(t, x1, 0)
		assert.LessOrEqual(t, x1, x2)

		// Bounded as level delta grows: never more than the doubled base
		// plus kill bonus.
		kill := s.experience(attacker, target, d2, true)
		assert.LessOrEqual(t, kill, int(float64(s.cfg.XPBase)*1.5*maxLevelFactor))
	})
}

func TestExperience_KillingBlowOutpacesGraze(t *testing.T) {
	s := mechSystem(t)
	attacker := mechUnit(s, "red", nil, grid.Position{X: 0, Y: 0})
	target := mechUnit(s, "blue", nil, grid.Position{X: 0, Y: 1})

	graze := s.experience(attacker, target, 1, false)
	heavy := s.experience(attacker, target, target.Stats.MaxHP/2, false)
	kill := s.experience(attacker, target, target.Stats.MaxHP, true)

	assert.Greater(t, graze, 0)
	assert.Greater(t, heavy, graze)
	assert.Greater(t, kill, heavy)
}

func TestExperience_LowLevelTargetStillPaysOut(t *testing.T) {
	s := mechSystem(t)
	attacker := mechUnit(s, "red", nil, grid.Position{X: 0, Y: 0})
	target := mechUnit(s, "blue", nil, grid.Position{X: 0, Y: 1})
	attacker.Stats.Level = 90

	xp := s.experience(attacker, target, target.Stats.MaxHP, true)
	require.GreaterOrEqual(t, xp, s.cfg.XPMinAward)
	assert.Greater(t, xp, 0)
}

func TestAreaTargets_PrecisionCastingExemptsAllies(t *testing.T) {
	s := mechSystem(t)
	attacker := mechUnit(s, "red", nil, grid.Position{X: 0, Y: 0})
	primary := mechUnit(s, "blue", nil, grid.Position{X: 0, Y: 2})
	ally := mechUnit(s, "red", nil, grid.Position{X: 1, Y: 2})
	enemy := mechUnit(s, "blue", nil, grid.Position{X: 0, Y: 3})

	action := &Action{Area: true, AreaRadius: 2, FriendlyFire: true}

	targets := s.areaTargets(action, attacker, primary)
	require.Len(t, targets, 2)
	assert.Equal(t, ally.ID, targets[0].ID)
	assert.Equal(t, enemy.ID, targets[1].ID)

	attacker.Equipment = &unit.EquipmentComponent{PrecisionCasting: true}
	targets = s.areaTargets(action, attacker, primary)
	require.Len(t, targets, 1)
	assert.Equal(t, enemy.ID, targets[0].ID)
}

func TestCreateAction_AbilityRollIsLogged(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	s := NewSystem(
		config.Default().Combat,
		unit.NewRegistry(),
		status.DefaultRegistry(),
		ability.DefaultRegistry(),
		&stubSource{},
		nil,
		nil,
		zap.New(core),
	)
	attacker := mechUnit(s, "red", nil, grid.Position{X: 0, Y: 0})
	target := mechUnit(s, "blue", nil, grid.Position{X: 0, Y: 1})

	def, ok := s.abilities.Get("venom_strike")
	require.True(t, ok)
	s.createAction(attacker, target, KindAbility, def)

	rolls := logs.FilterMessage("dice roll").All()
	require.Len(t, rolls, 1)
	assert.Equal(t, def.Damage, rolls[0].ContextMap()["expression"])
}
