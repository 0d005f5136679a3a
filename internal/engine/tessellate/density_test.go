package tessellate

import (
	"testing"
)

func TestFixedDensity(t *testing.T) {
	vc := &ViewConfig{Scale: 1, WorldExtent: 64, RootGrid: 4}
	d := FixedDensity{Level: 2}

	cells := []Patch{
		{X: 0, Y: 0, Size: 16},
		{X: 3, Y: 7, Size: 2},
		{X: 0xFFFFFFFF, Y: 0, Size: 4},
	}
	for _, p := range cells {
		if got := d.Density(p, vc); got != 2 {
			t.Errorf("Density(%+v) = %d, want 2", p, got)
		}
	}
}

func TestFixedDensityClamps(t *testing.T) {
	vc := &ViewConfig{Scale: 1, WorldExtent: 64, RootGrid: 4}
	d := FixedDensity{Level: 9}
	if got := d.Density(Patch{Size: 4}, vc); got != MaxDensity {
		t.Errorf("Density() = %d, want clamp to %d", got, MaxDensity)
	}
}

func TestProceduralDensityDeterministic(t *testing.T) {
	vc := &ViewConfig{Scale: 1, WorldExtent: 256, RootGrid: 4}
	a := NewProceduralDensity(42)
	b := NewProceduralDensity(42)

	for x := uint32(0); x < 16; x++ {
		for y := uint32(0); y < 16; y++ {
			p := Patch{X: x, Y: y, Size: 16}
			got, want := a.Density(p, vc), b.Density(p, vc)
			if got != want {
				t.Fatalf("Density(%d, %d) differs across identically seeded fields: %d vs %d",
					x, y, got, want)
			}
			if got > MaxDensity {
				t.Fatalf("Density(%d, %d) = %d outside 0..%d", x, y, got, MaxDensity)
			}
		}
	}
}

func TestProceduralDensityVariesWithSeed(t *testing.T) {
	vc := &ViewConfig{Scale: 1, WorldExtent: 256, RootGrid: 4}
	a := NewProceduralDensity(1)
	b := NewProceduralDensity(2)

	for x := uint32(0); x < 32; x++ {
		for y := uint32(0); y < 32; y++ {
			p := Patch{X: x, Y: y, Size: 8}
			if a.Density(p, vc) != b.Density(p, vc) {
				return
			}
		}
	}
	t.Error("densities identical over 1024 cells for different seeds")
}

func TestProceduralDensityParentConsistency(t *testing.T) {
	// A cell may be at most one level below its parent's raw sample, so
	// edge densities cannot step more than one level at once.
	vc := &ViewConfig{Scale: 1, WorldExtent: 256, RootGrid: 4}
	d := NewProceduralDensity(7)

	for _, size := range []uint32{2, 4, 8, 16, 32} {
		for x := uint32(0); x < 16; x++ {
			for y := uint32(0); y < 16; y++ {
				p := Patch{X: x, Y: y, Size: size}
				got := d.Density(p, vc)
				if parent := d.sample(p.parent(), vc); parent > 0 && got < parent-1 {
					t.Fatalf("Density(%+v) = %d, more than one below parent sample %d",
						p, got, parent)
				}
			}
		}
	}
}

func TestProceduralDensityConsistencyOff(t *testing.T) {
	vc := &ViewConfig{Scale: 1, WorldExtent: 256, RootGrid: 4}
	d := NewProceduralDensity(7)
	d.ParentConsistency = false

	for x := uint32(0); x < 16; x++ {
		for y := uint32(0); y < 16; y++ {
			p := Patch{X: x, Y: y, Size: 8}
			if got, raw := d.Density(p, vc), d.sample(p, vc); got != raw {
				t.Fatalf("Density(%+v) = %d with consistency off, want raw sample %d", p, got, raw)
			}
		}
	}
}
