package worldmap

import (
	"fmt"
	"log"
	"math/rand"

	"tankbattle/pkg/geometry"
)

// Fractions governing obstacle cluster and field-flood generation.
const (
	obstacleStopFraction  = 0.75 // stop growing obstacle clusters once Unallocated drops below this
	fieldFloodStopPercent = 5.0  // stop field flooding once Unallocated drops below this percent
	minClusterFraction    = 0.005
	maxClusterFraction    = 0.025
	seaRejectPercent      = 20.0 // regenerate if lake percentage reaches this
	maxGenerationRetries  = 500
)

// clusterOrder is the sequence of obstacle kinds grown in one obstacle pass.
var clusterOrder = []Terrain{ForestDeciduous, ForestEvergreen, Lake, Lake, Swamp}

// holePriority is the tie-break order used by fillUnallocatedHoles: the
// first kind to reach the majority threshold wins, and it is also the
// fallback order when no kind reaches it.
var holePriority = []Terrain{ForestDeciduous, ForestEvergreen, Lake, Swamp, Field}

var cardinalSteps = [4]geometry.Orientation{geometry.North, geometry.East, geometry.South, geometry.West}

// Generator produces procedurally generated maps: fields form a connected
// dominant terrain, obstacles cluster organically, and water never
// dominates.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a Generator driven by rng. Pass a seeded rand.Rand
// for deterministic tests.
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Generate builds a fully-allocated grid of the given size, retrying from
// scratch whenever the result is sea-dominated (lake percentage >= 20%).
// It returns an error only if generation could not converge within a bounded
// number of retries -- a condition that should not arise for any reasonable
// world size and is treated as a fatal, caller-visible condition.
func (g *Generator) Generate(size geometry.WorldSize) (*Grid, error) {
	for attempt := 1; attempt <= maxGenerationRetries; attempt++ {
		grid := NewGrid(size)
		g.paintBorder(grid)
		g.growObstacleClusters(grid)
		g.floodFields(grid)
		g.fillUnallocatedHoles(grid)

		if p := grid.LakePercentage(); p >= seaRejectPercent {
			log.Printf("worldmap: rejecting sea-dominated %dx%d map (lake %.1f%%), attempt %d", size.X, size.Y, p, attempt)
			continue
		}
		log.Printf("worldmap: generated %dx%d map in %d attempt(s)", size.X, size.Y, attempt)
		return grid, nil
	}
	return nil, fmt.Errorf("worldmap: failed to generate a non-sea-dominated %dx%d map in %d attempts", size.X, size.Y, maxGenerationRetries)
}

func (g *Generator) paintBorder(grid *Grid) {
	size := grid.Size()
	for x := 0; x < size.X; x++ {
		grid.Set(geometry.Position{X: x, Y: 0}, TerrainCell(Swamp))
		grid.Set(geometry.Position{X: x, Y: size.Y - 1}, TerrainCell(Swamp))
	}
	for y := 0; y < size.Y; y++ {
		grid.Set(geometry.Position{X: 0, Y: y}, TerrainCell(Swamp))
		grid.Set(geometry.Position{X: size.X - 1, Y: y}, TerrainCell(Swamp))
	}
}

func (g *Generator) growObstacleClusters(grid *Grid) {
	total := grid.TotalCells()
	for float64(grid.CountUnallocated()) >= obstacleStopFraction*float64(total) {
		for _, kind := range clusterOrder {
			target := minClusterFraction + g.rng.Float64()*(maxClusterFraction-minClusterFraction)
			g.growCluster(grid, kind, int(target*float64(total))+1)
		}
	}
}

// growCluster grows one organic cluster of kind up to targetSize cells,
// starting from a random Unallocated cell and random-walking over cardinal
// neighbours. Growth stops early if no Unallocated cell can be reached.
func (g *Generator) growCluster(grid *Grid, kind Terrain, targetSize int) {
	start, ok := g.randomUnallocated(grid)
	if !ok {
		return
	}
	grid.Set(start, TerrainCell(kind))
	visited := map[geometry.Position]bool{start: true}
	current := start
	placed := 1
	for placed < targetSize {
		next, ok := g.findGrowthStep(grid, current, kind, visited)
		if !ok {
			return
		}
		grid.Set(next, TerrainCell(kind))
		visited[next] = true
		current = next
		placed++
	}
}

// findGrowthStep looks for an Unallocated cardinal neighbour reachable from
// pos by walking only through cells of the same kind, recording a visited
// set so the walk cannot loop forever.
func (g *Generator) findGrowthStep(grid *Grid, pos geometry.Position, kind Terrain, visited map[geometry.Position]bool) (geometry.Position, bool) {
	size := grid.Size()
	stack := []geometry.Position{pos}
	seen := map[geometry.Position]bool{pos: true}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		candidates := g.cardinalNeighbours(cur, size)
		g.rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })

		var unallocated []geometry.Position
		for _, n := range candidates {
			if grid.At(n).Kind == Unallocated {
				unallocated = append(unallocated, n)
			}
		}
		if len(unallocated) > 0 {
			return unallocated[g.rng.Intn(len(unallocated))], true
		}

		for _, n := range candidates {
			cell := grid.At(n)
			if cell.Kind == CellTerrain && cell.Ground == kind && !seen[n] {
				seen[n] = true
				stack = append(stack, n)
			}
		}
	}
	return geometry.Position{}, false
}

func (g *Generator) cardinalNeighbours(pos geometry.Position, size geometry.WorldSize) []geometry.Position {
	out := make([]geometry.Position, 0, 4)
	for _, o := range cardinalSteps {
		if n, ok := pos.Follow(o, size); ok {
			out = append(out, n)
		}
	}
	return out
}

func (g *Generator) randomUnallocated(grid *Grid) (geometry.Position, bool) {
	var candidates []geometry.Position
	grid.Each(func(pos geometry.Position, cell MapCell) {
		if cell.Kind == Unallocated {
			candidates = append(candidates, pos)
		}
	})
	if len(candidates) == 0 {
		return geometry.Position{}, false
	}
	return candidates[g.rng.Intn(len(candidates))], true
}

// floodFields repeatedly flood-fills an 8-connected Unallocated region to
// Field, converting the previous flood to Lake first -- so only the very
// last flood before the stop threshold survives as Field.
func (g *Generator) floodFields(grid *Grid) {
	total := grid.TotalCells()
	pendingConvert := false

	for 100*float64(grid.CountUnallocated())/float64(total) > fieldFloodStopPercent {
		if pendingConvert {
			g.convertAllFieldTo(grid, Lake)
		}
		start, ok := g.randomUnallocated(grid)
		if !ok {
			return
		}
		g.floodFillUnallocated(grid, start)
		pendingConvert = true
	}
}

func (g *Generator) floodFillUnallocated(grid *Grid, start geometry.Position) {
	size := grid.Size()
	stack := []geometry.Position{start}
	grid.Set(start, TerrainCell(Field))

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, n := range cur.ListAdjacentPositions(size) {
			if grid.At(n).Kind == Unallocated {
				grid.Set(n, TerrainCell(Field))
				stack = append(stack, n)
			}
		}
	}
}

func (g *Generator) convertAllFieldTo(grid *Grid, to Terrain) {
	size := grid.Size()
	for y := 0; y < size.Y; y++ {
		for x := 0; x < size.X; x++ {
			pos := geometry.Position{X: x, Y: y}
			if cell := grid.At(pos); cell.Kind == CellTerrain && cell.Ground == Field {
				grid.Set(pos, TerrainCell(to))
			}
		}
	}
}

// fillUnallocatedHoles fills every remaining Unallocated cell by majority
// vote over its 8-neighbours. Deliberately a single pass, not a fixed-point
// iteration: cells written by the pass itself never feed back into later
// votes, so the result depends only on the map as the flood left it.
func (g *Generator) fillUnallocatedHoles(grid *Grid) {
	size := grid.Size()
	var holes []geometry.Position
	grid.Each(func(pos geometry.Position, cell MapCell) {
		if cell.Kind == Unallocated {
			holes = append(holes, pos)
		}
	})

	fills := make([]Terrain, len(holes))
	for i, pos := range holes {
		counts := map[Terrain]int{}
		for _, n := range pos.ListAdjacentPositions(size) {
			if cell := grid.At(n); cell.Kind == CellTerrain {
				counts[cell.Ground]++
			}
		}
		fills[i] = g.majorityTerrain(counts)
	}
	for i, pos := range holes {
		grid.Set(pos, TerrainCell(fills[i]))
	}
}

func (g *Generator) majorityTerrain(counts map[Terrain]int) Terrain {
	for _, t := range holePriority {
		if counts[t] >= 4 {
			return t
		}
	}
	// No terrain reached the majority threshold: fall back to whichever
	// kind is present at all, highest priority first. Field is the final
	// default even when no terrain neighbour exists at all.
	for _, t := range holePriority {
		if counts[t] > 0 {
			return t
		}
	}
	return Field
}
