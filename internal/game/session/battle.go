// Package session provides battle session management for the game backend:
// one Battle per fight with serialised attack resolution, and a Manager
// tracking all concurrent battles.
package session

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gridfall/server/internal/config"
	"github.com/gridfall/server/internal/game/ability"
	"github.com/gridfall/server/internal/game/combat"
	"github.com/gridfall/server/internal/game/dice"
	"github.com/gridfall/server/internal/game/grid"
	"github.com/gridfall/server/internal/game/stats"
	"github.com/gridfall/server/internal/game/status"
	"github.com/gridfall/server/internal/game/unit"
	"github.com/gridfall/server/internal/scripting"
)

// Battle is one isolated fight: its own unit registry, its own combat
// system, no state shared with any other battle. Attack resolution is a
// critical section; the mutex guarantees two attacks in the same battle
// never interleave their HP mutations.
type Battle struct {
	id string

	mu     sync.Mutex
	units  *unit.Registry
	system *combat.System
	logger *zap.Logger
}

// ID returns the battle's unique identifier.
func (b *Battle) ID() string {
	return b.id
}

// Spawn adds a unit to the battle.
//
// Postcondition: the returned unit has a unique id and is immediately
// targetable.
func (b *Battle) Spawn(name, team string, level int, base map[stats.Attribute]int, pos grid.Position, facing grid.Direction, movement int) *unit.Unit {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.units.Spawn(name, stats.New(level, base), unit.NewPositionComponent(pos, facing, movement))
	u.Team = &unit.TeamComponent{Team: team}
	b.logger.Info("unit spawned",
		zap.String("battle_id", b.id),
		zap.String("unit_id", u.ID),
		zap.String("name", name),
		zap.String("team", team),
	)
	return u
}

// Unit returns the unit with the given id, or (nil, false).
func (b *Battle) Unit(id string) (*unit.Unit, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.units.Get(id)
}

// Units returns all units in spawn order.
func (b *Battle) Units() []*unit.Unit {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.units.All()
}

// ExecuteAttack resolves one attack inside the battle's critical section.
func (b *Battle) ExecuteAttack(attackerID, targetID string, kind combat.AttackKind, abilityID string) (*combat.Outcome, *combat.Rejection) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.system.ExecuteAttack(attackerID, targetID, kind, abilityID)
}

// GetCombatPreview projects an attack's expected outcome without resolving
// it. The lock is still taken: the projection must not read state an
// in-flight attack is mutating.
func (b *Battle) GetCombatPreview(attackerID, targetID string, kind combat.AttackKind, abilityID string) (*combat.Preview, *combat.Rejection) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.system.GetCombatPreview(attackerID, targetID, kind, abilityID)
}

// MoveUnit spends the unit's movement budget to relocate it.
func (b *Battle) MoveUnit(unitID string, to grid.Position) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.units.Get(unitID)
	if !ok || !u.Alive() {
		return false
	}
	return u.Position.MoveTo(to)
}

// StartTurn begins a unit's turn: movement budget resets and active status
// effects tick once (DoT payloads, duration decrement, expiry).
func (b *Battle) StartTurn(unitID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.units.Get(unitID)
	if !ok {
		return
	}
	u.Position.ResetMovement()
	b.system.AdvanceStatusEffects(unitID, 1)
}

// AdvanceRound ticks status effects for every unit in spawn order, used by
// drivers that advance whole rounds rather than per-unit turns.
func (b *Battle) AdvanceRound() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, u := range b.units.All() {
		u.Position.ResetMovement()
		b.system.AdvanceStatusEffects(u.ID, 1)
	}
}

// LivingTeams returns the distinct teams that still have a living unit,
// in first-seen spawn order. A battle with fewer than two is decided.
func (b *Battle) LivingTeams() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	seen := make(map[string]bool)
	var teams []string
	for _, u := range b.units.All() {
		if !u.Alive() || u.Team == nil {
			continue
		}
		if !seen[u.Team.Team] {
			seen[u.Team.Team] = true
			teams = append(teams, u.Team.Team)
		}
	}
	return teams
}

// Manager tracks all concurrent battles. Battles are fully isolated from
// each other; the manager itself only guards the lookup map.
type Manager struct {
	cfg       config.CombatConfig
	effects   *status.Registry
	abilities *ability.Registry
	hooks     *scripting.Runner
	logger    *zap.Logger

	mu      sync.RWMutex
	battles map[string]*Battle
}

// NewManager creates a battle Manager. hooks may be nil to disable ability
// Lua hooks.
//
// Precondition: cfg must be validated; effects, abilities, and logger must
// be non-nil.
func NewManager(cfg config.CombatConfig, effects *status.Registry, abilities *ability.Registry, hooks *scripting.Runner, logger *zap.Logger) *Manager {
	return &Manager{
		cfg:       cfg,
		effects:   effects,
		abilities: abilities,
		hooks:     hooks,
		logger:    logger,
		battles:   make(map[string]*Battle),
	}
}

// CreateBattle starts a new empty battle using the given randomness source
// and event sink. sink may be nil.
//
// Postcondition: the returned battle is registered and retrievable by id.
func (m *Manager) CreateBattle(src dice.Source, sink combat.Sink) *Battle {
	id := uuid.NewString()
	logger := m.logger.With(zap.String("battle_id", id))
	b := &Battle{
		id:     id,
		units:  unit.NewRegistry(),
		logger: logger,
	}
	b.system = combat.NewSystem(m.cfg, b.units, m.effects, m.abilities, src, sink, m.hooks, logger)

	m.mu.Lock()
	m.battles[id] = b
	m.mu.Unlock()

	m.logger.Info("battle created", zap.String("battle_id", id))
	return b
}

// Battle returns the battle with the given id, or (nil, false).
func (m *Manager) Battle(id string) (*Battle, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.battles[id]
	return b, ok
}

// EndBattle removes the battle from the manager. Ending an unknown battle is
// a no-op.
func (m *Manager) EndBattle(id string) {
	m.mu.Lock()
	_, existed := m.battles[id]
	delete(m.battles, id)
	m.mu.Unlock()
	if existed {
		m.logger.Info("battle ended", zap.String("battle_id", id))
	}
}

// Len returns the number of active battles.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.battles)
}
