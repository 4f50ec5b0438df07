package worldmap

import (
	"math/rand"
	"testing"

	"tankbattle/pkg/geometry"
)

func TestGenerateNoUnallocatedCells(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewSource(1)))
	grid, err := gen.Generate(geometry.WorldSize{X: 24, Y: 24})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if n := grid.CountUnallocated(); n != 0 {
		t.Errorf("expected no Unallocated cells after generation, found %d", n)
	}
}

func TestGenerateLakePercentageBelowThreshold(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewSource(42)))
	grid, err := gen.Generate(geometry.WorldSize{X: 32, Y: 20})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if p := grid.LakePercentage(); p < 0 || p >= seaRejectPercent {
		t.Errorf("lake percentage %.2f out of expected range [0, %.0f)", p, seaRejectPercent)
	}
}

func TestGenerateBorderIsSwamp(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewSource(7)))
	size := geometry.WorldSize{X: 16, Y: 16}
	grid, err := gen.Generate(size)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	for x := 0; x < size.X; x++ {
		if grid.At(geometry.Position{X: x, Y: 0}).Ground != Swamp {
			t.Errorf("expected top border cell (%d,0) to be swamp", x)
		}
		if grid.At(geometry.Position{X: x, Y: size.Y - 1}).Ground != Swamp {
			t.Errorf("expected bottom border cell (%d,%d) to be swamp", x, size.Y-1)
		}
	}
}

func TestGenerateDeterministicForSameSeed(t *testing.T) {
	size := geometry.WorldSize{X: 20, Y: 20}
	gridA, err := NewGenerator(rand.New(rand.NewSource(99))).Generate(size)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	gridB, err := NewGenerator(rand.New(rand.NewSource(99))).Generate(size)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	for y := 0; y < size.Y; y++ {
		for x := 0; x < size.X; x++ {
			pos := geometry.Position{X: x, Y: y}
			if gridA.At(pos) != gridB.At(pos) {
				t.Fatalf("same seed produced different maps at %v", pos)
			}
		}
	}
}

func TestAllCellsWithinBoundsHaveValidTerrain(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewSource(3)))
	grid, err := gen.Generate(geometry.WorldSize{X: 18, Y: 18})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	grid.Each(func(pos geometry.Position, cell MapCell) {
		if cell.Kind != CellTerrain {
			t.Errorf("expected bare terrain cell at %v post-generation, got kind %v", pos, cell.Kind)
		}
	})
}
