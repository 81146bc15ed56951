package stats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/gridfall/server/internal/game/stats"
)

func baseAttrs() map[stats.Attribute]int {
	return map[stats.Attribute]int{
		stats.Strength:  6,
		stats.Fortitude: 5,
		stats.Finesse:   4,
		stats.Wisdom:    3,
		stats.Wonder:    2,
		stats.Worthy:    2,
		stats.Faith:     3,
		stats.Spirit:    2,
		stats.Speed:     4,
	}
}

func TestNew_FillsPoolsAndComputesDerived(t *testing.T) {
	c := stats.New(2, baseAttrs())
	assert.Equal(t, c.MaxHP, c.CurrentHP)
	assert.Equal(t, c.MaxMP, c.CurrentMP)
	assert.True(t, c.Alive)
	// MaxHP = 20 + 5*5 + 6*2 + 2*8 = 73
	assert.Equal(t, 73, c.MaxHP)
	// PhysicalAttack = 5 + 6*2 + 4/2 = 19
	assert.Equal(t, 19, c.PhysicalAttack)
	// Accuracy = 85 + 4/2 = 87
	assert.Equal(t, 87, c.Accuracy)
}

func TestEffectiveAttribute_UnknownNameContributesZero(t *testing.T) {
	c := stats.New(1, baseAttrs())
	assert.Equal(t, 0, c.EffectiveAttribute(stats.Attribute("charisma")))
}

func TestEffectiveAttribute_StacksModifierAndEquipment(t *testing.T) {
	c := stats.New(1, baseAttrs())
	c.ApplyTemporaryModifier(stats.Strength, 3)
	c.ApplyTemporaryModifier(stats.Strength, 2) // stacks, not replaces
	c.SetEquipmentBonus(stats.Strength, 1)
	assert.Equal(t, 6+3+2+1, c.EffectiveAttribute(stats.Strength))
}

func TestTemporaryModifier_RoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := stats.New(1, baseAttrs())
		v := rapid.IntRange(-20, 20).Filter(func(n int) bool { return n != 0 }).Draw(rt, "v")
		before := c.EffectiveAttribute(stats.Finesse)
		c.ApplyTemporaryModifier(stats.Finesse, v)
		c.RemoveTemporaryModifier(stats.Finesse, v)
		assert.Equal(rt, before, c.EffectiveAttribute(stats.Finesse))
	})
}

func TestRemoveTemporaryModifier_OvershootClampsToZero(t *testing.T) {
	c := stats.New(1, baseAttrs())
	c.ApplyTemporaryModifier(stats.Speed, 2)
	c.RemoveTemporaryModifier(stats.Speed, 5)
	assert.Equal(t, c.BaseAttribute(stats.Speed), c.EffectiveAttribute(stats.Speed))
}

func TestTakeDamage_ClampsAndFlipsAlive(t *testing.T) {
	c := stats.New(1, baseAttrs())
	c.CurrentHP = 10
	died := c.TakeDamage(15)
	assert.True(t, died)
	assert.Equal(t, 0, c.CurrentHP)
	assert.False(t, c.Alive)
	// Further damage on a corpse is a no-op and never reports death twice.
	assert.False(t, c.TakeDamage(5))
	assert.Equal(t, 0, c.CurrentHP)
}

func TestTakeDamage_NonPositiveIsNoOp(t *testing.T) {
	c := stats.New(1, baseAttrs())
	hp := c.CurrentHP
	assert.False(t, c.TakeDamage(0))
	assert.False(t, c.TakeDamage(-4))
	assert.Equal(t, hp, c.CurrentHP)
}

func TestHPPool_Property_AlwaysInBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := stats.New(rapid.IntRange(1, 10).Draw(rt, "level"), baseAttrs())
		n := rapid.IntRange(1, 30).Draw(rt, "ops")
		for i := 0; i < n; i++ {
			if rapid.Bool().Draw(rt, "heal") {
				c.Heal(rapid.IntRange(0, 100).Draw(rt, "amt"))
			} else {
				c.TakeDamage(rapid.IntRange(0, 100).Draw(rt, "amt"))
			}
			require.GreaterOrEqual(rt, c.CurrentHP, 0)
			require.LessOrEqual(rt, c.CurrentHP, c.MaxHP)
			require.Equal(rt, c.CurrentHP > 0, c.Alive)
		}
	})
}

func TestHeal_ReturnsActualAmount(t *testing.T) {
	c := stats.New(1, baseAttrs())
	c.CurrentHP = c.MaxHP - 3
	assert.Equal(t, 3, c.Heal(10))
	assert.Equal(t, c.MaxHP, c.CurrentHP)
}

func TestConsumeMP_RejectsInsufficientWithoutMutation(t *testing.T) {
	c := stats.New(1, baseAttrs())
	c.CurrentMP = 10
	assert.False(t, c.ConsumeMP(15))
	assert.Equal(t, 10, c.CurrentMP)
	assert.True(t, c.ConsumeMP(10))
	assert.Equal(t, 0, c.CurrentMP)
}

func TestCalculateDerivedStats_PreservesResourceRatio(t *testing.T) {
	c := stats.New(1, baseAttrs())
	c.CurrentHP = c.MaxHP / 2
	oldMax := c.MaxHP
	c.SetBaseAttribute(stats.Fortitude, 20) // raises MaxHP
	require.Greater(t, c.MaxHP, oldMax)
	// Ratio preserved within rounding: roughly half the new pool.
	assert.InDelta(t, float64(c.MaxHP)/2, float64(c.CurrentHP), 1)
	assert.LessOrEqual(t, c.CurrentHP, c.MaxHP)
}

func TestCalculateDerivedStats_NeverKillsLivingUnit(t *testing.T) {
	c := stats.New(1, baseAttrs())
	c.CurrentHP = 1
	c.SetBaseAttribute(stats.Fortitude, 0)
	assert.True(t, c.Alive)
	assert.GreaterOrEqual(t, c.CurrentHP, 1)
}

func TestSnapshot_RoundTrip(t *testing.T) {
	c := stats.New(3, baseAttrs())
	c.TakeDamage(7)
	c.ConsumeMP(4)
	c.ApplyTemporaryModifier(stats.Strength, 2)
	c.SetEquipmentBonus(stats.Finesse, 1)

	got := stats.FromSnapshot(c.Snapshot())
	assert.Equal(t, c.Level, got.Level)
	assert.Equal(t, c.CurrentHP, got.CurrentHP)
	assert.Equal(t, c.CurrentMP, got.CurrentMP)
	assert.Equal(t, c.MaxHP, got.MaxHP)
	assert.Equal(t, c.EffectiveAttribute(stats.Strength), got.EffectiveAttribute(stats.Strength))
	assert.Equal(t, c.EffectiveAttribute(stats.Finesse), got.EffectiveAttribute(stats.Finesse))
	assert.Equal(t, c.Alive, got.Alive)
}

func TestSnapshot_RoundTripWithDerivedModifiers(t *testing.T) {
	// A fortitude buff raises MaxHP and PhysicalDefense once derived stats
	// are recomputed; reconstruction must reproduce the buffed values, not
	// the base-attribute ones, or the stored CurrentHP gets clamped away.
	c := stats.New(3, baseAttrs())
	c.ApplyTemporaryModifier(stats.Fortitude, 5)
	c.CalculateDerivedStats()
	c.TakeDamage(9)

	got := stats.FromSnapshot(c.Snapshot())
	assert.Equal(t, c.MaxHP, got.MaxHP)
	assert.Equal(t, c.MaxMP, got.MaxMP)
	assert.Equal(t, c.PhysicalDefense, got.PhysicalDefense)
	assert.Equal(t, c.CurrentHP, got.CurrentHP)
	assert.Equal(t, c.CurrentMP, got.CurrentMP)
	assert.True(t, got.Alive)
}
