package tessellate

import (
	"testing"

	"github.com/Faultbox/veldt/pkg/math"
)

func TestDivideNearViewer(t *testing.T) {
	vc := &ViewConfig{Scale: 1, ViewDistance: 1, SubdivisionBias: 1}
	p := Patch{X: 0, Y: 0, Size: 4}

	if !divide(p, vc, math.Vec3{}) {
		t.Error("divide() = false with viewer on a corner, want true")
	}
}

func TestDivideFarViewer(t *testing.T) {
	vc := &ViewConfig{Scale: 1, ViewDistance: 1, SubdivisionBias: 1}
	p := Patch{X: 0, Y: 0, Size: 4}

	if divide(p, vc, math.Vec3{X: 100, Z: 100}) {
		t.Error("divide() = true with distant viewer, want false")
	}
}

func TestDivideThresholdIsStrict(t *testing.T) {
	// Cell size 4 at scale 1 and view distance 1 has threshold 2. A viewer
	// exactly 2 from the nearest corner sits on the boundary.
	vc := &ViewConfig{Scale: 1, ViewDistance: 1, SubdivisionBias: 1}
	p := Patch{X: 0, Y: 0, Size: 4}
	viewer := math.Vec3{X: -2}

	if divide(p, vc, viewer) {
		t.Error("divide() = true exactly on the threshold, want false")
	}

	// The sub-one bias tips boundary viewers into subdividing.
	vc.SubdivisionBias = DefaultSubdivisionBias
	if !divide(p, vc, viewer) {
		t.Error("divide() = false on the threshold with bias, want true")
	}
}

func TestDivideUsesViewerHeight(t *testing.T) {
	// Corners sit at the assumed terrain height, so a viewer high above a
	// corner is that much further from it.
	vc := &ViewConfig{Scale: 1, ViewDistance: 1, SubdivisionBias: 1, ViewerHeight: 0}
	p := Patch{X: 0, Y: 0, Size: 4}
	viewer := math.Vec3{Y: 10}

	if divide(p, vc, viewer) {
		t.Error("divide() = true with viewer 10 above the corner, want false")
	}

	vc.ViewerHeight = 10
	if !divide(p, vc, viewer) {
		t.Error("divide() = false with corners raised to the viewer, want true")
	}
}

func TestDivideMonotonicInViewDistance(t *testing.T) {
	// Raising the view distance may only add subdivision, never remove it.
	viewers := []math.Vec3{
		{},
		{X: 3, Z: 1},
		{X: 10, Y: 2, Z: 10},
		{X: 100, Z: 50},
	}
	sizes := []uint32{1, 2, 8, 64}

	for _, viewer := range viewers {
		for _, size := range sizes {
			p := Patch{X: 2, Y: 1, Size: size}
			for _, vd := range []float32{0.5, 1, 2, 4} {
				lo := &ViewConfig{Scale: 1, ViewDistance: vd, SubdivisionBias: 1}
				hi := &ViewConfig{Scale: 1, ViewDistance: vd * 2, SubdivisionBias: 1}
				if divide(p, lo, viewer) && !divide(p, hi, viewer) {
					t.Fatalf("divide lost at higher view distance: size %d viewer %+v vd %v",
						size, viewer, vd)
				}
			}
		}
	}
}

func TestDivideArbitraryCoordinates(t *testing.T) {
	// Blend-code probing feeds wrapped out-of-world neighbors through the
	// predicate; it must stay total over the whole coordinate range.
	vc := &ViewConfig{Scale: 1, ViewDistance: 3, SubdivisionBias: 1}
	cells := []Patch{
		{X: 0xFFFFFFFF, Y: 0, Size: 2},
		{X: 0, Y: 0xFFFFFFFF, Size: 4},
		{X: 0x7FFFFFFF, Y: 0x7FFFFFFF, Size: 8},
	}
	for _, p := range cells {
		divide(p, vc, math.Vec3{X: 1, Z: 1})
	}
}
