// Package agent defines the contract between the engine and external player
// strategies: the Action an agent returns, the Context snapshot it receives,
// and the Player interface itself.
package agent

import "tankbattle/pkg/geometry"

// MoveDirection distinguishes moving along the tank's facing orientation
// from moving against it.
type MoveDirection int

const (
	Forward MoveDirection = iota
	Backward
)

// RotateDirection is the direction requested by a Rotate action.
type RotateDirection int

const (
	RotateClockwise RotateDirection = iota
	RotateCounterClockwise
)

// Aiming selects how a Fire action targets the world: along a compass ray
// (Cardinal) or at a single cell (Positional).
type Aiming struct {
	Cardinal  bool                 `json:"cardinal"`
	Direction geometry.Orientation `json:"direction"` // valid when Cardinal
	Target    geometry.Position    `json:"target"`    // valid when !Cardinal
}

// CardinalAim builds an Aiming that fires along orientation o.
func CardinalAim(o geometry.Orientation) Aiming {
	return Aiming{Cardinal: true, Direction: o}
}

// PositionalAim builds an Aiming that strikes a single cell.
func PositionalAim(target geometry.Position) Aiming {
	return Aiming{Cardinal: false, Target: target}
}

// ScanKind distinguishes the two Scan actions.
type ScanKind int

const (
	ScanOmni ScanKind = iota
	ScanMono
)

// ActionKind tags the active variant of an Action.
type ActionKind int

const (
	ActionIdle ActionKind = iota
	ActionFire
	ActionMove
	ActionRotate
	ActionScan
)

// Action is the sum type an agent returns from Act: Idle, Fire(Aiming),
// Move(Forward|Backward), Rotate(Clockwise|CounterClockwise), or
// Scan(Omni|Mono(Orientation)).
type Action struct {
	Kind            ActionKind           `json:"kind"`
	Aim             Aiming               `json:"aim"`
	Move            MoveDirection        `json:"move"`
	Rotate          RotateDirection      `json:"rotate"`
	ScanKind        ScanKind             `json:"scan_kind"`
	ScanOrientation geometry.Orientation `json:"scan_orientation"` // valid when ScanKind == ScanMono
}

// Idle is the default, inert action.
var Idle = Action{Kind: ActionIdle}

// FireAction builds a Fire action with the given aim.
func FireAction(aim Aiming) Action { return Action{Kind: ActionFire, Aim: aim} }

// MoveAction builds a Move action in the given direction.
func MoveAction(d MoveDirection) Action { return Action{Kind: ActionMove, Move: d} }

// RotateAction builds a Rotate action in the given direction.
func RotateAction(d RotateDirection) Action { return Action{Kind: ActionRotate, Rotate: d} }

// ScanOmniAction builds an omnidirectional Scan action.
func ScanOmniAction() Action { return Action{Kind: ActionScan, ScanKind: ScanOmni} }

// ScanMonoAction builds a directional Scan action.
func ScanMonoAction(o geometry.Orientation) Action {
	return Action{Kind: ActionScan, ScanKind: ScanMono, ScanOrientation: o}
}

// String renders a short label, mainly for logging and the previous_action
// field carried in Context.
func (a Action) String() string {
	switch a.Kind {
	case ActionIdle:
		return "idle"
	case ActionFire:
		if a.Aim.Cardinal {
			return "fire(cardinal:" + a.Aim.Direction.String() + ")"
		}
		return "fire(positional)"
	case ActionMove:
		if a.Move == Forward {
			return "move(forward)"
		}
		return "move(backward)"
	case ActionRotate:
		if a.Rotate == RotateClockwise {
			return "rotate(cw)"
		}
		return "rotate(ccw)"
	case ActionScan:
		if a.ScanKind == ScanOmni {
			return "scan(omni)"
		}
		return "scan(mono:" + a.ScanOrientation.String() + ")"
	default:
		return "unknown"
	}
}
