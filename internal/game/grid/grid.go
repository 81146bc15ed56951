// Package grid provides integer grid coordinates and the Manhattan-distance
// queries used throughout the Gridfall combat core. Manhattan distance is the
// only distance metric in the engine; range, adjacency, and area checks all
// go through this package.
package grid

import "fmt"

// Position is an integer coordinate on the battle grid.
type Position struct {
	X int
	Y int
}

// String returns the position in "(x,y)" form.
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// DistanceTo returns the Manhattan distance between p and other.
//
// Postcondition: Returns >= 0.
func (p Position) DistanceTo(other Position) int {
	return abs(p.X-other.X) + abs(p.Y-other.Y)
}

// IsAdjacentTo reports whether other is exactly one cell away (orthogonal).
//
// Postcondition: Returns true iff DistanceTo(other) == 1.
func (p Position) IsAdjacentTo(other Position) bool {
	return p.DistanceTo(other) == 1
}

// WithinRadius reports whether other lies within radius cells of p.
//
// Precondition: radius >= 0.
func (p Position) WithinRadius(other Position, radius int) bool {
	return p.DistanceTo(other) <= radius
}

// Add returns p offset by (dx, dy).
func (p Position) Add(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
