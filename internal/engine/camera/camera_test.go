package camera

import (
	"testing"

	"github.com/Faultbox/veldt/pkg/math"
)

func TestOrbitCameraPosition(t *testing.T) {
	c := NewOrbitCamera()
	c.RotationX = 0
	c.RotationY = 0
	c.Distance = 10

	got := c.Position()
	want := math.Vec3{X: 0, Y: 0, Z: 10}
	if got != want {
		t.Errorf("Position() = %v, want %v", got, want)
	}
}

func TestOrbitCameraViewerMatchesPosition(t *testing.T) {
	c := NewOrbitCamera()
	c.SetCenter(5, 2, 7)
	if got, want := c.Viewer(), c.Position(); got != want {
		t.Errorf("Viewer() = %v, want %v", got, want)
	}
}

func TestOrbitCameraZoomClamp(t *testing.T) {
	c := NewOrbitCamera()
	c.MinDistance = 5
	c.MaxDistance = 20
	c.Distance = 10

	c.HandleZoom(100)
	if c.Distance != 5 {
		t.Errorf("zoom in: Distance = %v, want 5", c.Distance)
	}

	c.HandleZoom(-100)
	if c.Distance != 20 {
		t.Errorf("zoom out: Distance = %v, want 20", c.Distance)
	}
}

func TestOrbitCameraDragClampsPitch(t *testing.T) {
	c := NewOrbitCamera()

	c.HandleDrag(0, 1000)
	if c.RotationX != c.MaxPitch {
		t.Errorf("drag down: RotationX = %v, want %v", c.RotationX, c.MaxPitch)
	}

	c.HandleDrag(0, -1000)
	if c.RotationX != c.MinPitch {
		t.Errorf("drag up: RotationX = %v, want %v", c.RotationX, c.MinPitch)
	}
}

func TestFitTerrain(t *testing.T) {
	c := NewOrbitCamera()
	c.FitTerrain(64, 16)

	if c.CenterX != 32 || c.CenterY != 8 || c.CenterZ != 32 {
		t.Errorf("center = (%v, %v, %v), want (32, 8, 32)", c.CenterX, c.CenterY, c.CenterZ)
	}
	if c.Distance != 48 {
		t.Errorf("Distance = %v, want 48", c.Distance)
	}
	if c.MaxDistance != 256 {
		t.Errorf("MaxDistance = %v, want 256", c.MaxDistance)
	}
}

func TestFitTerrainClampsPanning(t *testing.T) {
	c := NewOrbitCamera()
	c.FitTerrain(64, 16)

	c.SetCenter(-10, 50, 100)
	if c.CenterX != 0 || c.CenterY != 16 || c.CenterZ != 64 {
		t.Errorf("center = (%v, %v, %v), want (0, 16, 64)", c.CenterX, c.CenterY, c.CenterZ)
	}

	// Panning must never leave the world either.
	for i := 0; i < 100; i++ {
		c.HandleMovement(1, 1, 0)
	}
	if c.CenterX < 0 || c.CenterX > 64 || c.CenterZ < 0 || c.CenterZ > 64 {
		t.Errorf("panned center = (%v, %v), want within [0, 64]", c.CenterX, c.CenterZ)
	}
}
