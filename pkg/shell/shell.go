// Package shell implements the projectile state machine: launch -> fly ->
// impact -> explosion -> exploded -> spent. It is deliberately board-agnostic
// -- painting the map and resolving damage are the engine's job; Shell only
// tracks position and state.
package shell

import "tankbattle/pkg/geometry"

// State is the shell's lifecycle stage. States progress strictly
// monotonically; Evolve never revisits a prior state.
type State int

const (
	NotLaunched State = iota
	Flying
	Impact
	Explosion
	Exploded
	Spent
)

// String renders the state name, mainly for logging.
func (s State) String() string {
	switch s {
	case NotLaunched:
		return "not_launched"
	case Flying:
		return "flying"
	case Impact:
		return "impact"
	case Explosion:
		return "explosion"
	case Exploded:
		return "exploded"
	default:
		return "spent"
	}
}

// Aim is either a Cardinal compass ray or a Positional single-cell strike.
type Aim struct {
	Cardinal  bool
	Direction geometry.Orientation // valid when Cardinal
	Target    geometry.Position    // valid when !Cardinal
}

// Shell is one in-flight projectile. OwnerID is the shooter's id, captured
// at creation so scoring never re-reads the map at the origin cell.
type Shell struct {
	Origin  geometry.Position
	Current *geometry.Position // nil once a cardinal shot drifts off-map
	Aim     Aim
	State   State
	OwnerID uint8
}

// New creates a shell about to be launched from origin.
func New(aim Aim, origin geometry.Position, ownerID uint8) *Shell {
	pos := origin
	return &Shell{Origin: origin, Current: &pos, Aim: aim, State: NotLaunched, OwnerID: ownerID}
}

// PossibleShot reports whether this shell should even enter the simulation:
// a positional shot whose target is out of range at launch never fires.
func (s *Shell) PossibleShot() bool {
	if s.Aim.Cardinal {
		return true
	}
	return s.Origin.CouldHitPositionally(s.Aim.Target)
}

// MaxFlyDistance is the Chebyshev range at which this shell's aim type lands.
func (s *Shell) MaxFlyDistance() int {
	if s.Aim.Cardinal {
		return geometry.CardinalShotDistance
	}
	return geometry.PositionalShotDistance
}

// Evolve advances the state machine exactly one step. A Flying shell keeps
// its state and only moves to its next position; TryToLand or Impact takes
// it on to Impact.
func (s *Shell) Evolve(size geometry.WorldSize) {
	switch s.State {
	case NotLaunched:
		s.State = Flying
	case Flying:
		if s.Current != nil {
			if s.Aim.Cardinal {
				next, ok := s.Current.Follow(s.Aim.Direction, size)
				if ok {
					s.Current = &next
				} else {
					s.Current = nil
				}
			} else {
				target := s.Aim.Target
				s.Current = &target
			}
		}
	case Impact:
		s.State = Explosion
	case Explosion:
		s.State = Exploded
	case Exploded:
		s.State = Spent
	case Spent:
		// terminal; no effect
	}
}

// TryToLand reports whether a Flying shell has reached its landing
// condition, transitioning it to Impact if so.
func (s *Shell) TryToLand() bool {
	if s.State != Flying || s.Current == nil {
		return false
	}
	var landed bool
	if s.Aim.Cardinal {
		dx, dy := s.Origin.ManhattanDistance(*s.Current)
		max := s.MaxFlyDistance()
		landed = abs(dx) >= max || abs(dy) >= max
	} else {
		landed = *s.Current == s.Aim.Target
	}
	if landed {
		s.Impact()
	}
	return landed
}

// Impact forces a Flying shell directly into the Impact state, used both by
// TryToLand and by a mid-flight collision with a live player.
func (s *Shell) Impact() {
	if s.State == Flying {
		s.State = Impact
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
