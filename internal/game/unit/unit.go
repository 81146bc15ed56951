package unit

import (
	"github.com/google/uuid"

	"github.com/gridfall/server/internal/game/stats"
	"github.com/gridfall/server/internal/game/status"
)

// TeamComponent is the faction tag used for friend-or-foe checks.
type TeamComponent struct {
	Team string
}

// SameTeam reports whether both components are present and carry the same tag.
// A nil receiver or argument means "no team": never friendly.
func (t *TeamComponent) SameTeam(other *TeamComponent) bool {
	if t == nil || other == nil {
		return false
	}
	return t.Team == other.Team
}

// EquipmentComponent carries precomputed gear bonuses. The combat core only
// reads these; inventory management lives outside the engine.
type EquipmentComponent struct {
	// DamageMultiplier scales outgoing base damage (1.0 = unmodified).
	DamageMultiplier float64
	// AccuracyBonus is added to outgoing attack accuracy.
	AccuracyBonus int
	// CritBonus is added to outgoing critical chance.
	CritBonus int
	// DefenseBonus is flat mitigation added to the wearer's matching defense.
	DefenseBonus int
	// PrecisionCasting exempts allies from this unit's area splash even when
	// friendly fire is enabled.
	PrecisionCasting bool
}

// Unit is the aggregate of one battle participant's components. Stats and
// Position are mandatory; Team, Equipment, and Status are optional — a
// missing optional component means the matching rule simply does not apply.
//
// A unit whose HP reaches zero is not removed from the registry; it persists
// as a corpse marker so other systems can react.
type Unit struct {
	ID   string
	Name string

	Stats     *stats.Component
	Position  *PositionComponent
	Team      *TeamComponent
	Equipment *EquipmentComponent
	Status    *status.ActiveSet
}

// Alive reports whether the unit is alive. A unit without stats is never alive.
func (u *Unit) Alive() bool {
	return u.Stats != nil && u.Stats.Alive
}

// Registry is the entity/component lookup service for one battle. It is not
// safe for concurrent use; the owning session serialises access.
type Registry struct {
	units map[string]*Unit
	order []string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{units: make(map[string]*Unit)}
}

// Spawn registers a new unit with a generated entity id and returns it.
//
// Precondition: st and pos must be non-nil.
// Postcondition: Get(u.ID) returns the unit.
func (r *Registry) Spawn(name string, st *stats.Component, pos *PositionComponent) *Unit {
	u := &Unit{
		ID:       uuid.NewString(),
		Name:     name,
		Stats:    st,
		Position: pos,
		Status:   status.NewActiveSet(),
	}
	r.units[u.ID] = u
	r.order = append(r.order, u.ID)
	return u
}

// Get returns the unit for id, or (nil, false) when unknown.
func (r *Registry) Get(id string) (*Unit, bool) {
	u, ok := r.units[id]
	return u, ok
}

// Remove deletes the unit for id. External cleanup drives corpse removal;
// the combat core itself never calls this.
func (r *Registry) Remove(id string) {
	if _, ok := r.units[id]; !ok {
		return
	}
	delete(r.units, id)
	for i, uid := range r.order {
		if uid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// All returns every registered unit in spawn order.
func (r *Registry) All() []*Unit {
	out := make([]*Unit, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.units[id])
	}
	return out
}

// Len returns the number of registered units.
func (r *Registry) Len() int {
	return len(r.units)
}
