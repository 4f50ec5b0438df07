package agent

import (
	"tankbattle/pkg/geometry"
	"tankbattle/pkg/scanner"
	"tankbattle/pkg/worldmap"
)

// Context is the immutable per-turn snapshot the engine hands to an agent's
// Act method. It never exposes mutable engine internals -- score and
// mobility are engine bookkeeping, not part of the agent-visible contract.
type Context struct {
	Health         uint8
	MaxTurns       int
	PreviousAction Action
	PlayerDetails  worldmap.PlayerDetails
	Position       geometry.Position
	ScannedData    *scanner.Window // nil when no scan was requested last turn
	Turn           int
	WorldSize      geometry.WorldSize
}
