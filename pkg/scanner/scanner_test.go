package scanner

import (
	"testing"

	"tankbattle/pkg/geometry"
	"tankbattle/pkg/worldmap"
)

func TestScanOmniCentredOnTank(t *testing.T) {
	size := geometry.WorldSize{X: 40, Y: 40}
	grid := worldmap.NewGrid(size)
	tank := geometry.Position{X: 20, Y: 20}
	grid.Set(tank, worldmap.TerrainCell(worldmap.Lake))

	win := Scan(Request{Kind: Omni}, tank, grid)
	if win[WindowSide/2][WindowSide/2].Ground != worldmap.Lake {
		t.Error("expected the tank's own cell at the window centre for an Omni scan")
	}
}

func TestScanMonoNorthExtendsUpward(t *testing.T) {
	size := geometry.WorldSize{X: 40, Y: 40}
	grid := worldmap.NewGrid(size)
	tank := geometry.Position{X: 20, Y: 20}
	grid.Set(tank, worldmap.TerrainCell(worldmap.Field))
	marker := geometry.Position{X: 20, Y: 10} // 10 cells north of the tank
	grid.Set(marker, worldmap.TerrainCell(worldmap.Lake))

	win := Scan(Request{Kind: Mono, Orientation: geometry.North}, tank, grid)
	// tank anchored at (centre, bottom) => row WindowSide-1, col WindowSide/2
	if win[WindowSide-1][WindowSide/2].Kind == worldmap.Unallocated {
		t.Fatal("expected tank's own cell to be populated at the window's bottom-centre")
	}
	if win[WindowSide-1-10][WindowSide/2].Ground != worldmap.Lake {
		t.Error("expected marker 10 cells north of the tank to appear in the window")
	}
}

func TestScanAtCornerFillsUnallocated(t *testing.T) {
	size := geometry.WorldSize{X: 40, Y: 40}
	grid := worldmap.NewGrid(size)
	tank := geometry.Position{X: 0, Y: 0}

	win := Scan(Request{Kind: Omni}, tank, grid)
	if win[0][0].Kind != worldmap.Unallocated {
		t.Error("expected the window's top-left corner to be Unallocated when the tank is at the map corner")
	}
}
