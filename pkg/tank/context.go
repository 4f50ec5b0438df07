// Package tank holds the engine's authoritative per-player state: health,
// score, position, orientation, mobility, and the bookkeeping the turn
// pipeline needs to hand each agent its next Context.
package tank

import (
	"fmt"

	"tankbattle/pkg/agent"
	"tankbattle/pkg/geometry"
	"tankbattle/pkg/scanner"
	"tankbattle/pkg/worldmap"
)

// Damage and score constants shared by the engine's combat resolution.
const (
	DamageSinkingIntoLake    = worldmap.LakeDamage
	DamageDirectHit          = 75
	DamageIndirectHit        = 25
	DamageCollisionWithPlayer = 25
	DamageCollisionWithForest = worldmap.ForestDamage

	ScoreIndirectHitBonus = 1
	ScoreDirectHitBonus   = 2
	ScoreKillingBonus     = 3
	ScoreSurvivorBonus    = 5
)

// Context is the authoritative mutable state the engine maintains for one
// tank. It is never sent to an agent directly -- agent.Context is the
// pared-down, immutable projection of it (see Snapshot).
type Context struct {
	health         uint8
	maxTurns       int
	mobile         bool
	previousAction agent.Action
	details        worldmap.PlayerDetails
	position       geometry.Position
	scan           *scanner.Window
	score          int
	turn           int
	worldSize      geometry.WorldSize
}

// New creates a freshly spawned tank context at full health, mobile, facing
// the given details' orientation.
func New(details worldmap.PlayerDetails, position geometry.Position, maxTurns int, worldSize geometry.WorldSize) *Context {
	if details.ID == worldmap.InvalidPlayerID {
		panic("tank: cannot spawn a tank with the invalid player id 0")
	}
	return &Context{
		health:    100,
		maxTurns:  maxTurns,
		mobile:    true,
		details:   details,
		position:  position,
		worldSize: worldSize,
	}
}

// Health returns the current saturating health, 0..=100.
func (c *Context) Health() uint8 { return c.health }

// Alive reports whether the tank still has health remaining.
func (c *Context) Alive() bool { return c.details.Alive }

// Mobile reports whether the tank can still move (false forever after a
// swamp entry).
func (c *Context) Mobile() bool { return c.mobile }

// Score returns the tank's accumulated non-negative score.
func (c *Context) Score() int { return c.score }

// Position returns the tank's current cell.
func (c *Context) Position() geometry.Position { return c.position }

// Details returns the map-rendering-cache view of this tank.
func (c *Context) Details() worldmap.PlayerDetails { return c.details }

// Turn returns the turn number this context was last updated for.
func (c *Context) Turn() int { return c.turn }

// PreviousAction returns the action the tank chose last turn.
func (c *Context) PreviousAction() agent.Action { return c.previousAction }

// SetPreviousAction records the action just collected from the agent.
func (c *Context) SetPreviousAction(a agent.Action) { c.previousAction = a }

// SetTurn stamps the current turn number onto the context.
func (c *Context) SetTurn(turn int) { c.turn = turn }

// SetScannedData attaches (or clears, with nil) the result of a scan.
func (c *Context) SetScannedData(w *scanner.Window) { c.scan = w }

// Rotate updates the tank's facing orientation by one 45-degree step.
func (c *Context) Rotate(dir agent.RotateDirection) {
	if dir == agent.RotateClockwise {
		c.details.Orientation = c.details.Orientation.RotatedClockwise()
	} else {
		c.details.Orientation = c.details.Orientation.RotatedCounterClockwise()
	}
}

// Relocate moves the tank onto newPosition, applying the entry penalty for
// the terrain it walks onto: lake damage, or permanent swamp immobility.
func (c *Context) Relocate(newPosition geometry.Position, walkOn worldmap.Terrain) {
	c.position = newPosition
	switch walkOn {
	case worldmap.Lake:
		c.genericDamage(DamageSinkingIntoLake)
	case worldmap.Swamp:
		c.mobile = false
	}
}

// DamageCollisionForest applies the fixed forest-collision penalty.
func (c *Context) DamageCollisionForest() {
	c.genericDamage(DamageCollisionWithForest)
}

// DamageCollisionPlayer applies the mutual collision penalty to both tanks.
func (c *Context) DamageCollisionPlayer(other *Context) {
	c.genericDamage(DamageCollisionWithPlayer)
	other.genericDamage(DamageCollisionWithPlayer)
}

// DamageDirectHit applies a direct shell hit from shooterID, returning the
// score reward due to the shooter (0 if the target was already dead, or if
// the shooter hit itself).
func (c *Context) DamageDirectHit(shooterID uint8) int {
	return c.hitDamage(shooterID, DamageDirectHit, ScoreDirectHitBonus)
}

// DamageIndirectHit applies a blast-radius hit from shooterID, returning the
// score reward due to the shooter.
func (c *Context) DamageIndirectHit(shooterID uint8) int {
	return c.hitDamage(shooterID, DamageIndirectHit, ScoreIndirectHitBonus)
}

// RewardSurvivor grants the end-of-game survivor bonus, only if still alive.
func (c *Context) RewardSurvivor() {
	if c.health > 0 {
		c.score += ScoreSurvivorBonus
	}
}

// RewardHits credits amount points directly to a tank that is still alive
// (a dead tank's score is left unchanged), used when the engine already
// computed the reward via DamageDirectHit/DamageIndirectHit on a *different*
// tank and needs to apply it to the shooter.
func (c *Context) RewardHits(amount int) {
	if c.health > 0 {
		c.score += amount
	}
}

func (c *Context) genericDamage(amount int) {
	if int(c.health) <= amount {
		c.health = 0
	} else {
		c.health -= uint8(amount)
	}
	if c.health == 0 {
		c.details.Alive = false
		c.details.Avatar = worldmap.DeadAvatar
	}
}

func (c *Context) hitDamage(shooterID uint8, damageAmount, rewardAmount int) int {
	if c.health == 0 {
		return 0
	}
	c.genericDamage(damageAmount)

	if c.details.ID == shooterID {
		return 0
	}
	reward := rewardAmount
	if c.health == 0 {
		reward += ScoreKillingBonus
	}
	return reward
}

// Snapshot projects this mutable context into the immutable agent.Context
// the engine sends to the owning agent's Act call.
func (c *Context) Snapshot() agent.Context {
	return agent.Context{
		Health:         c.health,
		MaxTurns:       c.maxTurns,
		PreviousAction: c.previousAction,
		PlayerDetails:  c.details,
		Position:       c.position,
		ScannedData:    c.scan,
		Turn:           c.turn,
		WorldSize:      c.worldSize,
	}
}

// String renders a short human-readable summary, mainly for logging.
func (c *Context) String() string {
	return fmt.Sprintf("tank{id=%d health=%d mobile=%t pos=%v score=%d}", c.details.ID, c.health, c.mobile, c.position, c.score)
}
