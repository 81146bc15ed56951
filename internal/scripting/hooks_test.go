package scripting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRunOnHit_AdjustsDamage(t *testing.T) {
	r := NewRunner(zap.NewNop(), 0)
	snap := &AttackSnapshot{AbilityID: "execute", Damage: 10, TargetHP: 5, TargetMax: 50, DamageType: "physical"}

	// Execute-style hook: double damage against targets below 20% HP.
	script := `
if attack.target_hp * 5 < attack.target_max_hp then
  attack.damage = attack.damage * 2
end
`
	require.NoError(t, r.RunOnHit(script, snap))
	assert.Equal(t, 20, snap.Damage)
}

func TestRunOnHit_OverridesDamageTypeAndStatus(t *testing.T) {
	r := NewRunner(zap.NewNop(), 0)
	snap := &AttackSnapshot{AbilityID: "x", Damage: 8, DamageType: "physical"}
	script := `
attack.damage_type = "true"
attack.status_effect = "burn"
`
	require.NoError(t, r.RunOnHit(script, snap))
	assert.Equal(t, "true", snap.DamageType)
	assert.Equal(t, "burn", snap.StatusEffect)
}

func TestRunOnHit_NegativeDamageFlooredAtZero(t *testing.T) {
	r := NewRunner(zap.NewNop(), 0)
	snap := &AttackSnapshot{AbilityID: "x", Damage: 5}
	require.NoError(t, r.RunOnHit(`attack.damage = -100`, snap))
	assert.Equal(t, 0, snap.Damage)
}

func TestRunOnHit_ScriptErrorLeavesSnapshotUnchanged(t *testing.T) {
	r := NewRunner(zap.NewNop(), 0)
	snap := &AttackSnapshot{AbilityID: "x", Damage: 7, DamageType: "magical"}
	err := r.RunOnHit(`this is not lua`, snap)
	require.Error(t, err)
	assert.Equal(t, 7, snap.Damage)
	assert.Equal(t, "magical", snap.DamageType)
}

func TestRunOnHit_InfiniteLoopTerminates(t *testing.T) {
	r := NewRunner(zap.NewNop(), 10_000)
	snap := &AttackSnapshot{AbilityID: "x", Damage: 3}
	err := r.RunOnHit(`while true do end`, snap)
	assert.Error(t, err)
	assert.Equal(t, 3, snap.Damage)
}

func TestRunOnHit_SandboxStripsDangerousGlobals(t *testing.T) {
	r := NewRunner(zap.NewNop(), 0)
	snap := &AttackSnapshot{AbilityID: "x"}
	err := r.RunOnHit(`dofile("/etc/passwd")`, snap)
	assert.Error(t, err)
}
