// Package picking casts viewer rays into the terrain.
package picking

import (
	gomath "math"

	"github.com/Faultbox/veldt/internal/engine/heightfield"
	"github.com/Faultbox/veldt/pkg/math"
)

// Ray is a world-space ray with a normalized direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3
}

// ScreenToRay converts a pixel position to a world-space ray.
// screenX, screenY are pixel coordinates, viewportW/H the viewport size,
// invViewProj the inverted view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH // Flip Y

	near := unproject(invViewProj, math.Vec4{ndcX, ndcY, -1, 1})
	far := unproject(invViewProj, math.Vec4{ndcX, ndcY, 1, 1})

	dir := far.Sub(near)
	if l := dir.Length(); l > 0 {
		dir = dir.Scale(1 / l)
	}
	return Ray{Origin: near, Direction: dir}
}

func unproject(inv math.Mat4, p math.Vec4) math.Vec3 {
	w := inv.MulVec4(p)
	if w[3] != 0 {
		return math.Vec3{X: w[0] / w[3], Y: w[1] / w[3], Z: w[2] / w[3]}
	}
	return math.Vec3{X: w[0], Y: w[1], Z: w[2]}
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// IntersectPlaneY intersects the ray with the horizontal plane at planeY.
// Returns false for rays parallel to the plane or hits behind the origin.
func (r Ray) IntersectPlaneY(planeY float32) (math.Vec3, bool) {
	if gomath.Abs(float64(r.Direction.Y)) < 1e-3 {
		return math.Vec3{}, false
	}
	t := (planeY - r.Origin.Y) / r.Direction.Y
	if t < 0 {
		return math.Vec3{}, false
	}
	return r.At(t), true
}

// MarchField walks the ray in fixed steps until it passes below the
// height field, then bisects to the surface. Returns false when no
// crossing occurs within maxDist.
func (r Ray) MarchField(f heightfield.Field, maxDist, step float32) (math.Vec3, bool) {
	if step <= 0 || maxDist <= 0 {
		return math.Vec3{}, false
	}
	prev := float32(0)
	for t := step; t <= maxDist; t += step {
		p := r.At(t)
		if p.Y <= f.At(p.X, p.Z) {
			return r.bisect(f, prev, t), true
		}
		prev = t
	}
	return math.Vec3{}, false
}

// bisect narrows the crossing between an above sample at lo and a below
// sample at hi.
func (r Ray) bisect(f heightfield.Field, lo, hi float32) math.Vec3 {
	for i := 0; i < 16; i++ {
		mid := (lo + hi) / 2
		p := r.At(mid)
		if p.Y <= f.At(p.X, p.Z) {
			hi = mid
		} else {
			lo = mid
		}
	}
	return r.At(hi)
}
