// Package math provides vector, matrix and plane types for 3D terrain work.
package math

import "math"

// Vec2 is a point or direction in the horizontal plane.
type Vec2 struct {
	X, Y float32
}

// Add returns the component-wise sum v + w.
func (v Vec2) Add(w Vec2) Vec2 {
	return Vec2{v.X + w.X, v.Y + w.Y}
}

// Sub returns the component-wise difference v - w.
func (v Vec2) Sub(w Vec2) Vec2 {
	return Vec2{v.X - w.X, v.Y - w.Y}
}

// Scale multiplies both components by s.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Dot returns the scalar product of v and w.
func (v Vec2) Dot(w Vec2) float32 {
	return v.X*w.X + v.Y*w.Y
}

// Length returns the euclidean norm of v.
func (v Vec2) Length() float32 {
	return float32(math.Sqrt(float64(v.Dot(v))))
}

// Normalize scales v to unit length. The zero vector stays zero.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return v.Scale(1 / l)
}

// Distance returns the euclidean distance between the points v and w.
func (v Vec2) Distance(w Vec2) float32 {
	dx, dy := v.X-w.X, v.Y-w.Y
	return float32(math.Sqrt(float64(dx*dx + dy*dy)))
}
