// Package engine drives a complete match: spawning tanks onto a generated
// map, running the turn pipeline (collect actions, move, rotate, resolve
// shells, resolve scans), and producing the final Outcome.
package engine

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"sort"

	"tankbattle/pkg/agent"
	"tankbattle/pkg/geometry"
	"tankbattle/pkg/pathfind"
	"tankbattle/pkg/scanner"
	"tankbattle/pkg/tank"
	"tankbattle/pkg/worldmap"
)

// combatant pairs a tank's authoritative context with the Player strategy
// that drives it.
type combatant struct {
	context *tank.Context
	player  agent.Player
}

// World is one running match: the generated map, every spawned combatant,
// and the turn counter driving it toward completion.
type World struct {
	GameID     string
	grid       *worldmap.Grid
	initialMap *worldmap.Grid
	size       geometry.WorldSize
	tanks      map[uint8]*combatant
	order      []uint8 // spawn order, iterated deterministically every turn
	turn       int
	maxTurns   int
	rng        *rand.Rand
	turns      []TurnOutcome
}

// computeGameTurns derives the per-match turn budget from the map area:
// floor(sqrt(area) * log2(area^2)). Larger maps get proportionally longer
// games so a tank has time to traverse them.
func computeGameTurns(size geometry.WorldSize) int {
	area := float64(size.X * size.Y)
	return int(math.Sqrt(area) * math.Log2(area*area))
}

// NewWorld generates a map of the given size and returns an empty world
// ready for spawning. gameID is opaque to the engine; callers use it to
// correlate the resulting Outcome with persisted state.
func NewWorld(gameID string, size geometry.WorldSize, rng *rand.Rand) (*World, error) {
	if size.X > geometry.MaxWorldSize || size.Y > geometry.MaxWorldSize {
		return nil, fmt.Errorf("engine: %dx%d: %w", size.X, size.Y, ErrWorldTooLarge)
	}
	grid, err := worldmap.NewGenerator(rng).Generate(size)
	if err != nil {
		return nil, fmt.Errorf("engine: generating world: %w", err)
	}
	w := &World{
		GameID:     gameID,
		grid:       grid,
		initialMap: grid.Clone(),
		size:       size,
		tanks:      map[uint8]*combatant{},
		maxTurns:   computeGameTurns(size),
		rng:        rng,
	}
	log.Printf("engine: world %s generated (%dx%d, max_turns=%d)", gameID, size.X, size.Y, w.maxTurns)
	return w, nil
}

// Spawn places player onto a random Field cell and adds it to the match
// under id n+1, where n is the number of tanks spawned so far. Players that
// are not Initialized are skipped entirely; players that are not IsReady
// are placed on the map but never polled for actions. Spawn returns false
// if the player was skipped, that id is already taken, or no Field cell was
// available.
func (w *World) Spawn(player agent.Player) bool {
	return w.SpawnWithID(uint8(len(w.order)+1), player) == nil
}

// SpawnWithID is Spawn with a caller-chosen id, for hosts that need stable
// ids across replays. It returns ErrInvalidPlayerID for the reserved id 0
// and ErrDuplicateSpawn when the id is already taken.
func (w *World) SpawnWithID(id uint8, player agent.Player) error {
	if id == worldmap.InvalidPlayerID {
		return ErrInvalidPlayerID
	}
	if _, taken := w.tanks[id]; taken {
		return fmt.Errorf("engine: player %d: %w", id, ErrDuplicateSpawn)
	}
	if !player.Initialized() {
		log.Printf("engine: world %s: skipping uninitialized player %q", w.GameID, player.Name())
		return fmt.Errorf("engine: player %q is not initialized", player.Name())
	}
	pos, ok := w.randomField()
	if !ok {
		log.Printf("engine: world %s: no field cell available to spawn %q", w.GameID, player.Name())
		return fmt.Errorf("engine: no field cell available for player %q", player.Name())
	}
	details := worldmap.PlayerDetails{ID: id, Avatar: rune('0' + id), Alive: true, Orientation: geometry.North}
	ctx := tank.New(details, pos, w.maxTurns, w.size)

	ground := w.grid.At(pos).Underlying()
	w.grid.Set(pos, worldmap.PlayerCell(details, ground))

	w.tanks[id] = &combatant{context: ctx, player: player}
	w.order = append(w.order, id)
	log.Printf("engine: world %s: spawned %q as player %d at %v", w.GameID, player.Name(), id, pos)
	return nil
}

// Player returns an immutable snapshot of the tank spawned under id, or
// ErrUnknownPlayer. Hosts use it to inspect per-player state without any
// mutable access to the engine.
func (w *World) Player(id uint8) (agent.Context, error) {
	c, ok := w.tanks[id]
	if !ok {
		return agent.Context{}, fmt.Errorf("engine: player %d: %w", id, ErrUnknownPlayer)
	}
	return c.context.Snapshot(), nil
}

func (w *World) randomField() (geometry.Position, bool) {
	var candidates []geometry.Position
	w.grid.Each(func(pos geometry.Position, cell worldmap.MapCell) {
		if cell.Kind == worldmap.CellTerrain && cell.Ground == worldmap.Field {
			candidates = append(candidates, pos)
		}
	})
	if len(candidates) == 0 {
		return geometry.Position{}, false
	}
	return candidates[w.rng.Intn(len(candidates))], true
}

// Size returns the world's logical dimensions.
func (w *World) Size() geometry.WorldSize { return w.size }

// Turn returns the current turn number, starting from 0.
func (w *World) Turn() int { return w.turn }

// MaxTurns returns the computed turn budget for this match.
func (w *World) MaxTurns() int { return w.maxTurns }

// countLivePlayers returns how many spawned tanks are still alive.
func (w *World) countLivePlayers() int {
	n := 0
	for _, c := range w.tanks {
		if c.context.Alive() {
			n++
		}
	}
	return n
}

// IsGameOver reports whether the match has reached its end condition: at
// most one tank remains alive, or the turn budget is exhausted.
func (w *World) IsGameOver() bool {
	return w.countLivePlayers() <= 1 || w.turn >= w.maxTurns
}

// readyPlayers returns the ids of tanks whose Player is ready to be polled
// for actions, in spawn order.
func (w *World) readyPlayers() []uint8 {
	out := make([]uint8, 0, len(w.order))
	for _, id := range w.order {
		if w.tanks[id].player.IsReady() {
			out = append(out, id)
		}
	}
	return out
}

// RewardSurvivors grants every still-alive tank the end-of-game survivor
// bonus. Safe to call once, at the end of a match.
func (w *World) RewardSurvivors() {
	for _, id := range w.order {
		w.tanks[id].context.RewardSurvivor()
	}
}

// FinalRanks ranks every spawned tank by descending score; tied scores
// share the same rank.
func (w *World) FinalRanks() map[uint8]int {
	type scored struct {
		id    uint8
		score int
	}
	list := make([]scored, 0, len(w.order))
	for _, id := range w.order {
		list = append(list, scored{id, w.tanks[id].context.Score()})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].score > list[j].score })

	ranks := make(map[uint8]int, len(list))
	rank := 0
	prevScore := 0
	for i, s := range list {
		if i == 0 || s.score != prevScore {
			rank = i + 1
		}
		ranks[s.id] = rank
		prevScore = s.score
	}
	return ranks
}

// Outcome assembles the full match record. Call only after the match has
// ended (IsGameOver returns true) and RewardSurvivors has run.
func (w *World) Outcome() Outcome {
	return Outcome{
		GameID:     w.GameID,
		InitialMap: w.initialMap,
		Turns:      w.turns,
		FinalRanks: w.FinalRanks(),
	}
}

// worldNavigator adapts a World to pathfind.Navigator for reference agents
// and engine-internal tests that need to path over the live map.
type worldNavigator struct {
	pathfind.DefaultNavigator
	grid *worldmap.Grid
}

func (n worldNavigator) CellAt(pos geometry.Position) worldmap.MapCell {
	return n.grid.At(pos)
}

// Navigator returns a pathfind.Navigator backed by this world's live map.
func (w *World) Navigator() pathfind.Navigator {
	return worldNavigator{grid: w.grid}
}

var _ scanner.Grid = (*worldmap.Grid)(nil)
