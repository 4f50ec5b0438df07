package engine

import (
	"log"

	"tankbattle/pkg/agent"
	"tankbattle/pkg/geometry"
	"tankbattle/pkg/scanner"
	"tankbattle/pkg/shell"
	"tankbattle/pkg/worldmap"
)

// actionEntry pairs a collected action with the tank that chose it, in the
// order the engine gathered it from the tank collection this turn.
type actionEntry struct {
	id     uint8
	action agent.Action
}

// PlayTurn drives one full turn of the pipeline: collect actions from every
// ready, living tank, apply moves/rotations immediately in collection
// order, fly any fired shells in lockstep, repaint player cells, and
// resolve scan requests against the freshly updated map. It returns the
// TurnOutcome just produced and also appends it to the world's turn log.
func (w *World) PlayTurn() TurnOutcome {
	w.turn++

	var collected []actionEntry
	for _, id := range w.readyPlayers() {
		c := w.tanks[id]
		if !c.context.Alive() {
			continue
		}
		c.context.SetTurn(w.turn)
		snapshot := c.context.Snapshot()
		action := c.player.Act(snapshot)
		c.context.SetPreviousAction(action)
		c.context.SetScannedData(nil)
		collected = append(collected, actionEntry{id: id, action: action})
	}

	var fires, scans []actionEntry
	for _, e := range collected {
		switch e.action.Kind {
		case agent.ActionMove, agent.ActionRotate, agent.ActionIdle:
			w.applyImmediate(e.id, e.action)
		case agent.ActionFire:
			fires = append(fires, e)
		case agent.ActionScan:
			scans = append(scans, e)
		}
	}

	w.fireShells(fires)
	w.repaintPlayers()
	w.resolveScans(scans)

	outcome := TurnOutcome{Turn: w.turn}
	for _, e := range collected {
		c := w.tanks[e.id]
		outcome.Players = append(outcome.Players, PlayerOutcome{
			PlayerID:          e.id,
			Action:            e.action,
			ResultingHealth:   c.context.Health(),
			ResultingPosition: c.context.Position(),
			ResultingScore:    c.context.Score(),
		})
	}
	w.turns = append(w.turns, outcome)
	log.Printf("turn %d: %d actions collected, %d alive", w.turn, len(collected), w.countLivePlayers())
	return outcome
}

func (w *World) applyImmediate(id uint8, action agent.Action) {
	c := w.tanks[id].context
	switch action.Kind {
	case agent.ActionRotate:
		c.Rotate(action.Rotate)
	case agent.ActionMove:
		w.applyMove(id, action.Move)
	}
}

// applyMove resolves a Move action: immobilised (swamp) tanks reject every
// move outright; moving off the edge of the map or into the tank's own
// current cell is a no-op; a player occupying the target cell, a dead wreck
// included, blocks the move and costs both tanks a mutual collision penalty; impassable terrain costs the
// mover a forest-collision penalty; everything else relocates the tank,
// painting its pre-damage details onto the new cell first -- the later
// repaintPlayers pass is what makes a lethal entry show the dead avatar.
func (w *World) applyMove(id uint8, dir agent.MoveDirection) {
	c := w.tanks[id].context
	if !c.Mobile() {
		return
	}

	orientation := c.Details().Orientation
	actual := orientation
	if dir == agent.Backward {
		actual = orientation.Opposite()
	}

	from := c.Position()
	to, ok := from.Follow(actual, w.size)
	if !ok || to == from {
		return
	}

	target := w.grid.At(to)
	switch target.Kind {
	case worldmap.CellPlayer:
		other, ok := w.tanks[target.Details.ID]
		if ok {
			c.DamageCollisionPlayer(other.context)
		}
	case worldmap.CellTerrain:
		if !target.Ground.Walkable() {
			c.DamageCollisionForest()
			return
		}
		fromCell := w.grid.At(from)
		w.grid.Set(from, worldmap.TerrainCell(fromCell.Underlying()))
		w.grid.Set(to, worldmap.PlayerCell(c.Details(), target.Ground))
		c.Relocate(to, target.Ground)
	}
}

func convertAim(a agent.Aiming) shell.Aim {
	return shell.Aim{Cardinal: a.Cardinal, Direction: a.Direction, Target: a.Target}
}

// fireShells builds a Shell for every Fire action collected this turn,
// discards positional shots already out of range at launch, launches the
// rest, and resolves every launched shell's flight in lockstep sub-ticks:
// each active shell takes exactly one step per sub-tick, for at most
// max(CardinalShotDistance, PositionalShotDistance) + 3 sub-ticks -- enough
// for a full-range cardinal shot to fly, impact, explode and be spent.
func (w *World) fireShells(fires []actionEntry) {
	var active []*shell.Shell
	for _, e := range fires {
		c := w.tanks[e.id].context
		s := shell.New(convertAim(e.action.Aim), c.Position(), e.id)
		if s.PossibleShot() {
			s.Evolve(w.size) // launch: NotLaunched -> Flying
			active = append(active, s)
		}
	}
	if len(active) == 0 {
		return
	}

	maxTicks := geometry.CardinalShotDistance
	if geometry.PositionalShotDistance > maxTicks {
		maxTicks = geometry.PositionalShotDistance
	}
	maxTicks += 3

	for tick := 0; tick < maxTicks; tick++ {
		for _, s := range active {
			w.evolveShell(s)
		}
	}
}

// evolveShell advances one shell exactly one sub-tick, performing the
// map-painting and damage effects of the state being left.
func (w *World) evolveShell(s *shell.Shell) {
	switch s.State {
	case shell.NotLaunched:
		s.Evolve(w.size)

	case shell.Flying:
		w.eraseShellCell(s)
		s.Evolve(w.size)
		if s.Current == nil {
			// Drifted off the map: silently drop to Spent.
			s.State = shell.Spent
			return
		}
		landed := s.TryToLand()
		collided := w.livePlayerAt(*s.Current)
		if collided {
			s.Impact()
		}
		if !landed && !collided {
			w.paintShellAt(*s.Current)
		}

	case shell.Impact:
		w.paintImpact(s)
		s.Evolve(w.size)

	case shell.Explosion:
		if s.Current != nil {
			w.unpaintExplosion(*s.Current)
			for _, n := range s.Current.ListAdjacentPositions(w.size) {
				w.paintExplosionAt(n)
			}
		}
		s.Evolve(w.size)

	case shell.Exploded:
		if s.Current != nil {
			for _, n := range s.Current.ListAdjacentPositions(w.size) {
				w.unpaintExplosion(n)
			}
			w.resolveShellDamage(s)
		}
		s.Evolve(w.size)

	case shell.Spent:
		// terminal; nothing left to do
	}
}

func (w *World) livePlayerAt(pos geometry.Position) bool {
	cell := w.grid.At(pos)
	if cell.Kind != worldmap.CellPlayer {
		return false
	}
	c, ok := w.tanks[cell.Details.ID]
	return ok && c.context.Alive()
}

func (w *World) eraseShellCell(s *shell.Shell) {
	if s.Current == nil {
		return
	}
	cell := w.grid.At(*s.Current)
	if cell.Kind != worldmap.CellShell {
		return
	}
	if cell.Details.ID == worldmap.InvalidPlayerID {
		w.grid.Set(*s.Current, worldmap.TerrainCell(cell.Ground))
	} else {
		w.grid.Set(*s.Current, worldmap.PlayerCell(cell.Details, cell.Ground))
	}
}

func (w *World) paintShellAt(pos geometry.Position) {
	cell := w.grid.At(pos)
	switch cell.Kind {
	case worldmap.CellPlayer:
		w.grid.Set(pos, worldmap.ShellCell(cell.Details, cell.Ground))
	case worldmap.CellTerrain:
		w.grid.Set(pos, worldmap.ShellCell(worldmap.PlayerDetails{ID: worldmap.InvalidPlayerID}, cell.Ground))
	}
}

func (w *World) paintImpact(s *shell.Shell) {
	if s.Current == nil {
		return
	}
	w.paintExplosionAt(*s.Current)
}

func (w *World) paintExplosionAt(pos geometry.Position) {
	cell := w.grid.At(pos)
	switch cell.Kind {
	case worldmap.CellPlayer:
		w.grid.Set(pos, worldmap.ExplosionCell(cell.Details, cell.Ground))
	case worldmap.CellTerrain:
		w.grid.Set(pos, worldmap.ExplosionCell(worldmap.PlayerDetails{ID: worldmap.InvalidPlayerID}, cell.Ground))
	}
}

func (w *World) unpaintExplosion(pos geometry.Position) {
	cell := w.grid.At(pos)
	if cell.Kind != worldmap.CellExplosion {
		return
	}
	if cell.Details.ID == worldmap.InvalidPlayerID {
		w.grid.Set(pos, worldmap.TerrainCell(cell.Ground))
	} else {
		w.grid.Set(pos, worldmap.PlayerCell(cell.Details, cell.Ground))
	}
}

// resolveShellDamage applies direct and indirect blast damage, crediting
// the shooter with whatever score reward results. The shooter is identified
// by the id captured at shell-creation time, after the move pass, not
// re-derived from the map at the shell's origin.
func (w *World) resolveShellDamage(s *shell.Shell) {
	pos := *s.Current
	shooter, ok := w.tanks[s.OwnerID]
	if !ok {
		return
	}

	reward := 0
	if id := w.playerAt(pos); id != worldmap.InvalidPlayerID {
		if target, ok := w.tanks[id]; ok {
			reward += target.context.DamageDirectHit(s.OwnerID)
		}
	}
	for _, n := range pos.ListAdjacentPositions(w.size) {
		if id := w.playerAt(n); id != worldmap.InvalidPlayerID {
			if target, ok := w.tanks[id]; ok {
				reward += target.context.DamageIndirectHit(s.OwnerID)
			}
		}
	}
	shooter.context.RewardHits(reward)
	if reward > 0 {
		log.Printf("shell: owner %d credited %d points at %v", s.OwnerID, reward, pos)
	}
}

func (w *World) playerAt(pos geometry.Position) uint8 {
	cell := w.grid.At(pos)
	if cell.Kind != worldmap.CellPlayer {
		return worldmap.InvalidPlayerID
	}
	return cell.Details.ID
}

// repaintPlayers syncs every Player overlay on the map to its tank's
// current Details -- both to show the dead avatar the instant a tank's
// health reaches zero and, for survivors, to keep the rendered orientation
// current after a rotation. Syncing live cells too is a harmless superset:
// a live tank's Details are otherwise identical to what is already painted.
func (w *World) repaintPlayers() {
	w.grid.Each(func(pos geometry.Position, cell worldmap.MapCell) {
		if cell.Kind != worldmap.CellPlayer {
			return
		}
		c, ok := w.tanks[cell.Details.ID]
		if !ok {
			return
		}
		w.grid.Set(pos, worldmap.PlayerCell(c.context.Details(), cell.Ground))
	})
}

func convertScanKind(k agent.ScanKind) scanner.Kind {
	if k == agent.ScanMono {
		return scanner.Mono
	}
	return scanner.Omni
}

// resolveScans fulfils every Scan action collected this turn against the
// map as it stands after moves, shells, and the repaint pass.
func (w *World) resolveScans(scans []actionEntry) {
	for _, e := range scans {
		c := w.tanks[e.id].context
		req := scanner.Request{Kind: convertScanKind(e.action.ScanKind), Orientation: e.action.ScanOrientation}
		window := scanner.Scan(req, c.Position(), w.grid)
		c.SetScannedData(&window)
	}
}
