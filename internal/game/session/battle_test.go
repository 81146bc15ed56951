package session_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gridfall/server/internal/config"
	"github.com/gridfall/server/internal/game/ability"
	"github.com/gridfall/server/internal/game/combat"
	"github.com/gridfall/server/internal/game/dice"
	"github.com/gridfall/server/internal/game/grid"
	"github.com/gridfall/server/internal/game/session"
	"github.com/gridfall/server/internal/game/stats"
	"github.com/gridfall/server/internal/game/status"
)

func newManager(t *testing.T) *session.Manager {
	t.Helper()
	return session.NewManager(
		config.Default().Combat,
		status.DefaultRegistry(),
		ability.DefaultRegistry(),
		nil,
		zap.NewNop(),
	)
}

func brawlerStats() map[stats.Attribute]int {
	return map[stats.Attribute]int{stats.Strength: 5, stats.Fortitude: 3, stats.Speed: 3}
}

func TestManager_CreateAndEndBattle(t *testing.T) {
	m := newManager(t)

	b := m.CreateBattle(dice.NewSeededSource(1), nil)
	require.NotEmpty(t, b.ID())
	assert.Equal(t, 1, m.Len())

	got, ok := m.Battle(b.ID())
	require.True(t, ok)
	assert.Same(t, b, got)

	m.EndBattle(b.ID())
	assert.Equal(t, 0, m.Len())
	_, ok = m.Battle(b.ID())
	assert.False(t, ok)

	// Ending twice is harmless.
	m.EndBattle(b.ID())
}

func TestBattle_IsolationAcrossBattles(t *testing.T) {
	m := newManager(t)
	b1 := m.CreateBattle(dice.NewSeededSource(1), nil)
	b2 := m.CreateBattle(dice.NewSeededSource(1), nil)

	u := b1.Spawn("lone", "red", 1, brawlerStats(), grid.Position{}, grid.North, 3)

	_, ok := b2.Unit(u.ID)
	assert.False(t, ok)
	assert.Len(t, b1.Units(), 1)
	assert.Empty(t, b2.Units())
}

func TestBattle_ExecuteAttackAndPreview(t *testing.T) {
	m := newManager(t)
	b := m.CreateBattle(dice.NewSeededSource(42), nil)
	attacker := b.Spawn("striker", "red", 1, brawlerStats(), grid.Position{X: 0, Y: 0}, grid.North, 3)
	target := b.Spawn("guard", "blue", 1, brawlerStats(), grid.Position{X: 0, Y: 1}, grid.South, 3)

	p, rej := b.GetCombatPreview(attacker.ID, target.ID, combat.KindMelee, "")
	require.Nil(t, rej)
	assert.Greater(t, p.Accuracy, 0)
	assert.Greater(t, p.MaxDamage, 0)

	outcome, rej := b.ExecuteAttack(attacker.ID, target.ID, combat.KindMelee, "")
	require.Nil(t, rej)
	require.NotNil(t, outcome)
	if outcome.Result != combat.ResultMiss {
		assert.GreaterOrEqual(t, outcome.Damage, p.MinDamage)
	}
}

func TestBattle_MoveUnitSpendsBudget(t *testing.T) {
	m := newManager(t)
	b := m.CreateBattle(dice.NewSeededSource(1), nil)
	u := b.Spawn("scout", "red", 1, brawlerStats(), grid.Position{X: 0, Y: 0}, grid.North, 3)

	assert.True(t, b.MoveUnit(u.ID, grid.Position{X: 2, Y: 1}))
	assert.False(t, b.MoveUnit(u.ID, grid.Position{X: 5, Y: 5}))
	assert.False(t, b.MoveUnit("ghost", grid.Position{X: 1, Y: 1}))
}

func TestBattle_StartTurnResetsMovementAndTicksStatus(t *testing.T) {
	m := newManager(t)
	b := m.CreateBattle(dice.NewSeededSource(1), nil)
	u := b.Spawn("veteran", "red", 1, brawlerStats(), grid.Position{X: 0, Y: 0}, grid.North, 3)

	require.True(t, b.MoveUnit(u.ID, grid.Position{X: 2, Y: 1}))
	u.Status.Apply("poison", 2)
	hp := u.Stats.CurrentHP

	b.StartTurn(u.ID)

	assert.Equal(t, u.Position.MaxMovement, u.Position.MovementRemaining)
	assert.Equal(t, hp-4, u.Stats.CurrentHP)
	assert.Equal(t, 1, u.Status.Remaining("poison"))
}

func TestBattle_AdvanceRoundTicksEveryUnit(t *testing.T) {
	m := newManager(t)
	b := m.CreateBattle(dice.NewSeededSource(1), nil)
	a := b.Spawn("a", "red", 1, brawlerStats(), grid.Position{X: 0, Y: 0}, grid.North, 3)
	c := b.Spawn("b", "blue", 1, brawlerStats(), grid.Position{X: 3, Y: 3}, grid.South, 3)
	a.Status.Apply("burn", 1)
	c.Status.Apply("burn", 1)

	b.AdvanceRound()

	assert.False(t, a.Status.Has("burn"))
	assert.False(t, c.Status.Has("burn"))
}

func TestBattle_LivingTeams(t *testing.T) {
	m := newManager(t)
	b := m.CreateBattle(dice.NewSeededSource(1), nil)
	b.Spawn("r1", "red", 1, brawlerStats(), grid.Position{X: 0, Y: 0}, grid.North, 3)
	blue := b.Spawn("b1", "blue", 1, brawlerStats(), grid.Position{X: 0, Y: 1}, grid.South, 3)

	assert.Equal(t, []string{"red", "blue"}, b.LivingTeams())

	blue.Stats.TakeDamage(blue.Stats.MaxHP)
	assert.Equal(t, []string{"red"}, b.LivingTeams())
}

func TestBattle_ConcurrentAttacksDoNotInterleave(t *testing.T) {
	m := newManager(t)
	b := m.CreateBattle(dice.NewSeededSource(7), nil)
	attacker := b.Spawn("striker", "red", 5, brawlerStats(), grid.Position{X: 0, Y: 0}, grid.North, 3)
	target := b.Spawn("guard", "blue", 5, map[stats.Attribute]int{stats.Fortitude: 20}, grid.Position{X: 0, Y: 1}, grid.South, 3)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				b.ExecuteAttack(attacker.ID, target.ID, combat.KindMelee, "")
			}
		}()
	}
	wg.Wait()

	// The serialised mutations keep the HP invariant intact.
	assert.GreaterOrEqual(t, target.Stats.CurrentHP, 0)
	assert.LessOrEqual(t, target.Stats.CurrentHP, target.Stats.MaxHP)
}
