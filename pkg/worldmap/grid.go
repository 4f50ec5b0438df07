package worldmap

import "tankbattle/pkg/geometry"

// Grid is the backing store for a world map. It is always allocated at
// geometry.MaxWorldSize x geometry.MaxWorldSize, even when the active world
// is smaller -- only the size.Y x size.X sub-rectangle is logically used.
type Grid struct {
	size  geometry.WorldSize
	cells [geometry.MaxWorldSize][geometry.MaxWorldSize]MapCell
}

// NewGrid allocates a grid for the given logical size, with every logical
// cell set to Unallocated.
func NewGrid(size geometry.WorldSize) *Grid {
	g := &Grid{size: size}
	for y := 0; y < size.Y; y++ {
		for x := 0; x < size.X; x++ {
			g.cells[y][x] = MapCell{Kind: Unallocated}
		}
	}
	return g
}

// Size returns the logical dimensions of the grid.
func (g *Grid) Size() geometry.WorldSize {
	return g.size
}

// At returns the cell at pos. Positions outside the logical sub-rectangle
// return an Unallocated cell, matching the scanner's off-map fill rule.
func (g *Grid) At(pos geometry.Position) MapCell {
	if !pos.InBounds(g.size) {
		return MapCell{Kind: Unallocated}
	}
	return g.cells[pos.Y][pos.X]
}

// Set replaces the cell at pos. It panics if pos lies outside the logical
// sub-rectangle -- writing out of bounds is a programmer error, not a
// tolerated runtime condition.
func (g *Grid) Set(pos geometry.Position, cell MapCell) {
	if !pos.InBounds(g.size) {
		panic("worldmap: Set called with an out-of-bounds position")
	}
	g.cells[pos.Y][pos.X] = cell
}

// Each calls fn once per logical position, row-major.
func (g *Grid) Each(fn func(pos geometry.Position, cell MapCell)) {
	for y := 0; y < g.size.Y; y++ {
		for x := 0; x < g.size.X; x++ {
			fn(geometry.Position{X: x, Y: y}, g.cells[y][x])
		}
	}
}

// CountUnallocated returns how many logical cells are still Unallocated.
func (g *Grid) CountUnallocated() int {
	n := 0
	g.Each(func(_ geometry.Position, c MapCell) {
		if c.Kind == Unallocated {
			n++
		}
	})
	return n
}

// TotalCells returns the number of logical cells (size.X * size.Y).
func (g *Grid) TotalCells() int {
	return g.size.X * g.size.Y
}

// LakePercentage returns the percentage (0..100) of logical cells whose
// underlying terrain is Lake.
func (g *Grid) LakePercentage() float64 {
	lakes := 0
	g.Each(func(_ geometry.Position, c MapCell) {
		if c.Kind != Unallocated && c.Ground == Lake {
			lakes++
		}
	})
	return 100 * float64(lakes) / float64(g.TotalCells())
}

// Render formats the grid as one glyph string per row, the
// display-formatting contract a host binds to a terminal or log sink.
func (g *Grid) Render() []string {
	rows := make([]string, g.size.Y)
	for y := 0; y < g.size.Y; y++ {
		row := make([]rune, g.size.X)
		for x := 0; x < g.size.X; x++ {
			row[x] = g.cells[y][x].Glyph()
		}
		rows[y] = string(row)
	}
	return rows
}

// Clone deep-copies the grid, used to snapshot the initial map for a game
// outcome before play mutates it.
func (g *Grid) Clone() *Grid {
	clone := &Grid{size: g.size}
	clone.cells = g.cells
	return clone
}
