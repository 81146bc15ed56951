// Package unit composes the per-entity combat components (stats, position,
// team, equipment, status effects) and provides the entity registry the
// combat system resolves ids through.
package unit

import "github.com/gridfall/server/internal/game/grid"

// PositionComponent holds a unit's spatial state: grid position, facing,
// height, and the per-turn movement budget.
//
// Invariant: MovementRemaining <= MaxMovement.
type PositionComponent struct {
	Position grid.Position
	Facing   grid.Direction
	// Height is a free value used only for tactical bonus math, not collision.
	Height float64

	MaxMovement       int
	MovementRemaining int
	// CanMove gates all movement; rooted or carried units keep their budget
	// but cannot spend it.
	CanMove bool
	// HasMoved records whether the unit moved since its last turn start.
	HasMoved bool
	// Previous is the position before the most recent successful move.
	Previous grid.Position
}

// NewPositionComponent creates a PositionComponent at pos facing the given
// direction with a full movement budget.
func NewPositionComponent(pos grid.Position, facing grid.Direction, maxMovement int) *PositionComponent {
	return &PositionComponent{
		Position:          pos,
		Facing:            facing,
		MaxMovement:       maxMovement,
		MovementRemaining: maxMovement,
		CanMove:           true,
		Previous:          pos,
	}
}

// MoveTo moves the unit to newPos, spending Manhattan distance from the
// movement budget. Fails without mutation when movement is disabled, the
// budget is exhausted, or the distance exceeds the remaining budget.
//
// Postcondition: on success MovementRemaining decreases by the distance and
// Previous records the prior position; on failure nothing changes.
func (p *PositionComponent) MoveTo(newPos grid.Position) bool {
	if !p.CanMove || p.MovementRemaining == 0 {
		return false
	}
	dist := p.Position.DistanceTo(newPos)
	if dist > p.MovementRemaining {
		return false
	}
	p.Previous = p.Position
	p.Position = newPos
	p.MovementRemaining -= dist
	p.HasMoved = true
	return true
}

// DistanceTo returns the Manhattan distance to other's position.
func (p *PositionComponent) DistanceTo(other *PositionComponent) int {
	return p.Position.DistanceTo(other.Position)
}

// IsAdjacentTo reports whether other is exactly one cell away.
func (p *PositionComponent) IsAdjacentTo(other *PositionComponent) bool {
	return p.Position.IsAdjacentTo(other.Position)
}

// FlankingPositions returns the two cells behind the unit relative to its
// facing. An attacker standing in either is flanking this unit.
func (p *PositionComponent) FlankingPositions() []grid.Position {
	return grid.FlankingCells(p.Position, p.Facing)
}

// HeightAdvantage returns the signed height difference p.Height - other.Height.
// Positive means this unit stands above other.
func (p *PositionComponent) HeightAdvantage(other *PositionComponent) float64 {
	return p.Height - other.Height
}

// ResetMovement restores the full movement budget and clears the moved flag.
// Called once per unit at the start of its turn.
//
// Postcondition: MovementRemaining == MaxMovement; HasMoved is false.
func (p *PositionComponent) ResetMovement() {
	p.MovementRemaining = p.MaxMovement
	p.HasMoved = false
}
