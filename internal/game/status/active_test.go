package status_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/gridfall/server/internal/game/status"
)

func TestActiveSet_ApplyOverwritesDuration(t *testing.T) {
	s := status.NewActiveSet()
	s.Apply("poison", 1)
	s.Apply("poison", 3)
	// Re-apply overwrites, never stacks: 3, not 4.
	assert.Equal(t, 3, s.Remaining("poison"))
}

func TestActiveSet_ApplyIgnoresNonPositiveDuration(t *testing.T) {
	s := status.NewActiveSet()
	s.Apply("burn", 0)
	s.Apply("burn", -2)
	assert.False(t, s.Has("burn"))
}

func TestActiveSet_TickRemovesAtZeroInSamePass(t *testing.T) {
	s := status.NewActiveSet()
	s.Apply("stun", 1)
	s.Apply("poison", 2)

	expired := s.Tick()
	assert.Equal(t, []string{"stun"}, expired)
	assert.False(t, s.Has("stun"))
	assert.Equal(t, 1, s.Remaining("poison"))

	expired = s.Tick()
	assert.Equal(t, []string{"poison"}, expired)
	assert.Equal(t, 0, s.Len())
}

func TestActiveSet_Property_NoZeroDurationEntries(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := status.NewActiveSet()
		names := []string{"poison", "burn", "freeze", "stun", "blind"}
		ops := rapid.IntRange(1, 40).Draw(rt, "ops")
		for i := 0; i < ops; i++ {
			switch rapid.IntRange(0, 2).Draw(rt, "op") {
			case 0:
				s.Apply(rapid.SampledFrom(names).Draw(rt, "name"), rapid.IntRange(-1, 5).Draw(rt, "dur"))
			case 1:
				s.Remove(rapid.SampledFrom(names).Draw(rt, "name"))
			case 2:
				s.Tick()
			}
			for _, name := range s.Active() {
				require.Greater(rt, s.Remaining(name), 0)
			}
		}
	})
}

func TestDefaultRegistry_StockEffects(t *testing.T) {
	r := status.DefaultRegistry()
	poison, ok := r.Get("poison")
	require.True(t, ok)
	assert.Equal(t, 3, poison.DurationTicks)
	assert.Equal(t, 4, poison.DamagePerTick)

	blind, ok := r.Get("blind")
	require.True(t, ok)
	assert.Negative(t, blind.SelfAccuracy)

	_, ok = r.Get("petrify")
	assert.False(t, ok)
}

func TestLoadDirectory_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeEffect(t, dir, "poison.yaml", "name: poison\nduration_ticks: 5\ndamage_per_tick: 9\n")

	r := status.DefaultRegistry()
	require.NoError(t, status.LoadDirectory(r, dir))
	def, ok := r.Get("poison")
	require.True(t, ok)
	assert.Equal(t, 5, def.DurationTicks)
	assert.Equal(t, 9, def.DamagePerTick)
}

func TestLoadDirectory_RejectsUnknownFields(t *testing.T) {
	dir := t.TempDir()
	writeEffect(t, dir, "bad.yaml", "name: oops\nduration_ticks: 2\nstacks: 4\n")
	err := status.LoadDirectory(status.NewRegistry(), dir)
	assert.Error(t, err)
}

func TestLoadDirectory_RejectsNonPositiveDuration(t *testing.T) {
	dir := t.TempDir()
	writeEffect(t, dir, "bad.yaml", "name: oops\nduration_ticks: 0\n")
	err := status.LoadDirectory(status.NewRegistry(), dir)
	assert.Error(t, err)
}
