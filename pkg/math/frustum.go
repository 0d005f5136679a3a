package math

// Plane is a 3D plane ax + by + cz + d = 0; Normal is (a, b, c) and D is d.
// A point with positive signed distance lies on the normal's side.
type Plane struct {
	Normal Vec3
	D      float32
}

// SignedDistance returns the signed distance from a point to the plane.
func (p Plane) SignedDistance(v Vec3) float32 {
	return p.Normal.Dot(v) + p.D
}

// Normalize returns the plane scaled so the normal has unit length.
func (p Plane) Normalize() Plane {
	l := p.Normal.Length()
	if l == 0 {
		return p
	}
	inv := 1.0 / l
	return Plane{Normal: p.Normal.Scale(inv), D: p.D * inv}
}

// Frustum plane indices as produced by ExtractFrustum.
const (
	PlaneLeft = iota
	PlaneRight
	PlaneBottom
	PlaneTop
	PlaneNear
	PlaneFar
)

// ExtractFrustum extracts the six frustum planes from a combined
// view-projection matrix using the Gribb/Hartmann method. Planes are
// normalized and oriented so the positive half-space is inside the frustum.
//
// For the column-major Mat4, row i is (m[i], m[4+i], m[8+i], m[12+i]).
func ExtractFrustum(m Mat4) [6]Plane {
	row := func(i int) Vec4 {
		return Vec4{m[i], m[4+i], m[8+i], m[12+i]}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	planeFrom := func(a, b Vec4, sub bool) Plane {
		var v Vec4
		if sub {
			v = Vec4{a[0] - b[0], a[1] - b[1], a[2] - b[2], a[3] - b[3]}
		} else {
			v = Vec4{a[0] + b[0], a[1] + b[1], a[2] + b[2], a[3] + b[3]}
		}
		return Plane{Normal: Vec3{v[0], v[1], v[2]}, D: v[3]}.Normalize()
	}

	var planes [6]Plane
	planes[PlaneLeft] = planeFrom(r3, r0, false)
	planes[PlaneRight] = planeFrom(r3, r0, true)
	planes[PlaneBottom] = planeFrom(r3, r1, false)
	planes[PlaneTop] = planeFrom(r3, r1, true)
	planes[PlaneNear] = planeFrom(r3, r2, false)
	planes[PlaneFar] = planeFrom(r3, r2, true)
	return planes
}
