// Package camera provides the orbit camera for the terrain viewer.
package camera

import (
	gomath "math"

	"github.com/Faultbox/veldt/pkg/math"
)

// OrbitCamera orbits around a center point above the terrain.
type OrbitCamera struct {
	// Center point to orbit around
	CenterX, CenterY, CenterZ float32

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// World bounds for center clamping. Zero means unclamped.
	WorldSize   float32
	WorldHeight float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        200.0,
		RotationX:       0.5,
		RotationY:       0.0,
		MinDistance:     2.0,
		MaxDistance:     5000.0,
		MinPitch:        0.1,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	sinP, cosP := sincos(c.RotationX)
	sinY, cosY := sincos(c.RotationY)
	return math.Vec3{
		X: c.CenterX + c.Distance*cosP*sinY,
		Y: c.CenterY + c.Distance*sinP,
		Z: c.CenterZ + c.Distance*cosP*cosY,
	}
}

// Viewer returns the point the level-of-detail passes should refine
// around. The camera position works well for that: patches shrink
// toward wherever the eye actually is.
func (c *OrbitCamera) Viewer() math.Vec3 {
	return c.Position()
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	center := math.Vec3{X: c.CenterX, Y: c.CenterY, Z: c.CenterZ}
	up := math.Vec3{X: 0, Y: 1, Z: 0}
	return math.LookAt(c.Position(), center, up)
}

// HandleDrag updates rotation from a mouse drag delta, keeping pitch
// within its limits.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX = clampf(c.RotationX+deltaY*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance from a scroll wheel delta. The step scales
// with distance so zooming feels uniform at any range.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance = clampf(c.Distance-delta*c.Distance*c.ZoomSensitivity, c.MinDistance, c.MaxDistance)
}

// HandleMovement pans the center point in view-relative directions.
func (c *OrbitCamera) HandleMovement(forward, right, up float32) {
	// Pan speed scales with distance for a consistent feel at any zoom.
	speed := c.Distance * 0.01
	sinY, cosY := sincos(c.RotationY)

	// Forward is negated so W pulls the center into the scene.
	c.CenterX += (-sinY*forward + cosY*right) * speed
	c.CenterZ += (-cosY*forward - sinY*right) * speed
	c.CenterY += up * speed
	c.clampCenter()
}

// SetCenter sets the camera's center point.
func (c *OrbitCamera) SetCenter(x, y, z float32) {
	c.CenterX = x
	c.CenterY = y
	c.CenterZ = z
	c.clampCenter()
}

// FitTerrain adjusts the camera to view a square terrain spanning
// [0, worldSize] on X/Z with elevations in [0, maxHeight], and records
// the bounds so panning cannot drift off the world.
func (c *OrbitCamera) FitTerrain(worldSize, maxHeight float32) {
	c.WorldSize = worldSize
	c.WorldHeight = maxHeight

	c.CenterX = worldSize / 2
	c.CenterY = maxHeight / 2
	c.CenterZ = worldSize / 2

	c.MinDistance = worldSize * 0.02
	c.MaxDistance = worldSize * 4
	c.Distance = worldSize * 0.75

	c.RotationX = 0.6 // Look down at ~35 degrees
	c.RotationY = 0.0
}

func (c *OrbitCamera) clampCenter() {
	if c.WorldSize > 0 {
		c.CenterX = clampf(c.CenterX, 0, c.WorldSize)
		c.CenterZ = clampf(c.CenterZ, 0, c.WorldSize)
	}
	if c.WorldHeight > 0 {
		c.CenterY = clampf(c.CenterY, 0, c.WorldHeight)
	}
}

func sincos(a float32) (float32, float32) {
	s, c := gomath.Sincos(float64(a))
	return float32(s), float32(c)
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
