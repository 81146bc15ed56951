package grid

// Direction is a cardinal facing on the grid.
// The zero value is North.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// String returns the human-readable direction name.
func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	default:
		return "unknown"
	}
}

// Offset returns the unit grid offset for the direction.
// North is -Y, South is +Y, East is +X, West is -X.
func (d Direction) Offset() (dx, dy int) {
	switch d {
	case North:
		return 0, -1
	case East:
		return 1, 0
	case South:
		return 0, 1
	case West:
		return -1, 0
	default:
		return 0, 0
	}
}

// Opposite returns the direction 180 degrees from d.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case East:
		return West
	case South:
		return North
	default:
		return East
	}
}

// FlankingCells returns the two cells "behind" a unit standing at pos and
// facing d: the cell directly behind plus the one beyond it along the same
// axis. An attacker occupying either cell is in the unit's flanking zone.
//
// Postcondition: Returns exactly two positions, both on the facing axis.
func FlankingCells(pos Position, d Direction) []Position {
	dx, dy := d.Opposite().Offset()
	return []Position{
		pos.Add(dx, dy),
		pos.Add(2*dx, 2*dy),
	}
}
