// Package pathfind implements A* pathfinding over the tank grid, exposed to
// agents through the Navigator capability.
package pathfind

import (
	"tankbattle/pkg/geometry"
	"tankbattle/pkg/worldmap"
)

// Navigator is the capability agents (and the engine's own tests) use to
// query the world and request paths, without any mutable access to engine
// internals.
type Navigator interface {
	// CellAt returns the map cell at pos.
	CellAt(pos geometry.Position) worldmap.MapCell
	// TurningSteps returns the rotation cost of turning from orientation
	// `from` to orientation `to`. Implementations may embed DefaultNavigator
	// to get geometry.Orientation.QuickTurn's step count for free.
	TurningSteps(from, to geometry.Orientation) int
	// Distance returns the heuristic cost between two positions.
	Distance(from, to geometry.Position) float64
}

// DefaultNavigator supplies QuickTurn-based turning cost and Euclidean
// distance. Embed it in a Navigator implementation that only needs to
// override CellAt.
type DefaultNavigator struct{}

// TurningSteps returns the number of 45-degree steps QuickTurn would take.
func (DefaultNavigator) TurningSteps(from, to geometry.Orientation) int {
	_, steps := from.QuickTurn(to)
	return steps
}

// Distance returns the Euclidean distance between from and to.
func (DefaultNavigator) Distance(from, to geometry.Position) float64 {
	return from.PythagoreanDistance(to)
}

// Walkable reports whether a cell can be entered by the pathfinder: an
// Unallocated cell (unknown to the agent) or bare Field terrain.
func Walkable(cell worldmap.MapCell) bool {
	if cell.Kind == worldmap.Unallocated {
		return true
	}
	return cell.Kind == worldmap.CellTerrain && cell.Ground == worldmap.Field
}
