package grid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/gridfall/server/internal/game/grid"
)

func TestPosition_DistanceTo(t *testing.T) {
	tests := []struct {
		a, b grid.Position
		want int
	}{
		{grid.Position{X: 0, Y: 0}, grid.Position{X: 0, Y: 0}, 0},
		{grid.Position{X: 0, Y: 0}, grid.Position{X: 3, Y: 4}, 7},
		{grid.Position{X: 2, Y: 2}, grid.Position{X: -1, Y: 2}, 3},
		{grid.Position{X: -2, Y: -3}, grid.Position{X: 1, Y: 1}, 7},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.a.DistanceTo(tc.b), "%s -> %s", tc.a, tc.b)
	}
}

func TestPosition_DistanceTo_Property_SymmetricNonNegative(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := grid.Position{X: rapid.IntRange(-50, 50).Draw(rt, "ax"), Y: rapid.IntRange(-50, 50).Draw(rt, "ay")}
		b := grid.Position{X: rapid.IntRange(-50, 50).Draw(rt, "bx"), Y: rapid.IntRange(-50, 50).Draw(rt, "by")}
		assert.Equal(rt, a.DistanceTo(b), b.DistanceTo(a))
		assert.GreaterOrEqual(rt, a.DistanceTo(b), 0)
	})
}

func TestPosition_IsAdjacentTo(t *testing.T) {
	center := grid.Position{X: 5, Y: 5}
	assert.True(t, center.IsAdjacentTo(grid.Position{X: 5, Y: 4}))
	assert.True(t, center.IsAdjacentTo(grid.Position{X: 4, Y: 5}))
	assert.False(t, center.IsAdjacentTo(center))
	assert.False(t, center.IsAdjacentTo(grid.Position{X: 6, Y: 6})) // diagonal is distance 2
}

func TestPosition_WithinRadius(t *testing.T) {
	center := grid.Position{X: 0, Y: 0}
	assert.True(t, center.WithinRadius(grid.Position{X: 1, Y: 1}, 2))
	assert.False(t, center.WithinRadius(grid.Position{X: 2, Y: 1}, 2))
}

func TestDirection_Opposite(t *testing.T) {
	assert.Equal(t, grid.South, grid.North.Opposite())
	assert.Equal(t, grid.West, grid.East.Opposite())
	assert.Equal(t, grid.North, grid.South.Opposite())
	assert.Equal(t, grid.East, grid.West.Opposite())
}

func TestFlankingCells_BehindFacing(t *testing.T) {
	pos := grid.Position{X: 3, Y: 3}
	// Facing north: behind is +Y.
	cells := grid.FlankingCells(pos, grid.North)
	assert.Equal(t, []grid.Position{{X: 3, Y: 4}, {X: 3, Y: 5}}, cells)

	cells = grid.FlankingCells(pos, grid.East)
	assert.Equal(t, []grid.Position{{X: 2, Y: 3}, {X: 1, Y: 3}}, cells)
}
