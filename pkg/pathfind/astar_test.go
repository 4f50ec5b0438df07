package pathfind

import (
	"testing"

	"tankbattle/pkg/geometry"
	"tankbattle/pkg/worldmap"
)

type gridNavigator struct {
	DefaultNavigator
	grid *worldmap.Grid
}

func (n gridNavigator) CellAt(pos geometry.Position) worldmap.MapCell {
	return n.grid.At(pos)
}

func TestFindPathStraightLine(t *testing.T) {
	size := geometry.WorldSize{X: 10, Y: 10}
	grid := worldmap.NewGrid(size)
	for y := 0; y < size.Y; y++ {
		for x := 0; x < size.X; x++ {
			grid.Set(geometry.Position{X: x, Y: y}, worldmap.TerrainCell(worldmap.Field))
		}
	}
	nav := gridNavigator{grid: grid}

	start := geometry.Position{X: 0, Y: 0}
	goal := geometry.Position{X: 5, Y: 0}
	path := FindPath(nav, size, start, goal, geometry.East)
	if len(path) == 0 {
		t.Fatal("expected a path along an open field row")
	}
	if path[0] != goal {
		t.Errorf("expected path[0] to be the goal, got %v", path[0])
	}
}

func TestFindPathUnreachableBehindWalls(t *testing.T) {
	size := geometry.WorldSize{X: 10, Y: 10}
	grid := worldmap.NewGrid(size)
	for y := 0; y < size.Y; y++ {
		for x := 0; x < size.X; x++ {
			grid.Set(geometry.Position{X: x, Y: y}, worldmap.TerrainCell(worldmap.Field))
		}
	}
	// wall off column 5 entirely with forest
	for y := 0; y < size.Y; y++ {
		grid.Set(geometry.Position{X: 5, Y: y}, worldmap.TerrainCell(worldmap.ForestEvergreen))
	}
	nav := gridNavigator{grid: grid}

	path := FindPath(nav, size, geometry.Position{X: 0, Y: 0}, geometry.Position{X: 9, Y: 0}, geometry.East)
	if len(path) != 0 {
		t.Errorf("expected no path through an unbroken forest wall, got %v", path)
	}
}

func TestFindPathSameStartAndGoalIsEmpty(t *testing.T) {
	size := geometry.WorldSize{X: 5, Y: 5}
	grid := worldmap.NewGrid(size)
	nav := gridNavigator{grid: grid}
	p := geometry.Position{X: 2, Y: 2}
	if path := FindPath(nav, size, p, p, geometry.North); len(path) != 0 {
		t.Errorf("expected empty path when start == goal, got %v", path)
	}
}

func TestWalkableUnallocatedAndField(t *testing.T) {
	if !Walkable(worldmap.MapCell{Kind: worldmap.Unallocated}) {
		t.Error("expected Unallocated to be walkable (unknown to the agent)")
	}
	if !Walkable(worldmap.TerrainCell(worldmap.Field)) {
		t.Error("expected Field to be walkable")
	}
	if Walkable(worldmap.TerrainCell(worldmap.ForestDeciduous)) {
		t.Error("expected Forest to be unwalkable")
	}
}
