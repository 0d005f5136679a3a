package picking

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/veldt/internal/engine/heightfield"
	"github.com/Faultbox/veldt/pkg/math"
)

func TestScreenToRayCenter(t *testing.T) {
	eye := math.Vec3{X: 0, Y: 10, Z: 20}
	center := math.Vec3{}
	vp := math.Perspective(float32(gomath.Pi/3), 1.5, 0.1, 200).
		Mul(math.LookAt(eye, center, math.Vec3{Y: 1}))

	inv, ok := vp.Inverse()
	if !ok {
		t.Fatal("view-projection matrix not invertible")
	}

	// The center pixel must cast along the camera forward axis.
	r := ScreenToRay(400, 300, 800, 600, inv)
	want := center.Sub(eye).Normalize()
	if absf(r.Direction.X-want.X) > 1e-3 ||
		absf(r.Direction.Y-want.Y) > 1e-3 ||
		absf(r.Direction.Z-want.Z) > 1e-3 {
		t.Errorf("center ray direction = %+v, want %+v", r.Direction, want)
	}
	if d := r.Origin.Distance(eye); d > 0.5 {
		t.Errorf("ray origin %.3f world units from eye, want near plane", d)
	}
}

func TestIntersectPlaneY(t *testing.T) {
	down := Ray{Origin: math.Vec3{Y: 10}, Direction: math.Vec3{Y: -1}}
	p, ok := down.IntersectPlaneY(0)
	if !ok {
		t.Fatal("straight-down ray missed the plane")
	}
	if p.X != 0 || p.Y != 0 || p.Z != 0 {
		t.Errorf("hit = %+v, want origin", p)
	}

	diag := Ray{Origin: math.Vec3{Y: 10}, Direction: math.Vec3{X: 1, Y: -1}.Normalize()}
	p, ok = diag.IntersectPlaneY(0)
	if !ok {
		t.Fatal("diagonal ray missed the plane")
	}
	if absf(p.X-10) > 1e-3 || absf(p.Z) > 1e-3 {
		t.Errorf("diagonal hit = %+v, want (10, 0, 0)", p)
	}

	if _, ok := (Ray{Direction: math.Vec3{X: 1}}).IntersectPlaneY(0); ok {
		t.Error("parallel ray should miss")
	}
	behind := Ray{Origin: math.Vec3{Y: -5}, Direction: math.Vec3{Y: -1}}
	if _, ok := behind.IntersectPlaneY(0); ok {
		t.Error("plane behind the origin should miss")
	}
}

func TestMarchFieldFlat(t *testing.T) {
	field := heightfield.Flat{Height: 3}
	r := Ray{Origin: math.Vec3{Y: 10}, Direction: math.Vec3{X: 1, Y: -1}.Normalize()}

	p, ok := r.MarchField(field, 100, 0.5)
	if !ok {
		t.Fatal("ray never crossed a flat field below it")
	}
	if absf(p.X-7) > 1e-2 || absf(p.Y-3) > 1e-2 || absf(p.Z) > 1e-2 {
		t.Errorf("hit = %+v, want (7, 3, 0)", p)
	}
}

func TestMarchFieldMiss(t *testing.T) {
	field := heightfield.Flat{Height: 3}
	up := Ray{Origin: math.Vec3{Y: 10}, Direction: math.Vec3{Y: 1}}
	if _, ok := up.MarchField(field, 100, 0.5); ok {
		t.Error("upward ray should never cross the field")
	}
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
