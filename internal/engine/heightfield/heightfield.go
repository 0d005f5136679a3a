// Package heightfield provides terrain height sources for patch meshing.
// A Field maps ground-plane world coordinates to an elevation; the
// tessellation itself never consults one, so fields only shape what the
// renderer and tools display.
package heightfield

// A Field returns the terrain elevation at a ground-plane position.
// Implementations must be safe for concurrent reads.
type Field interface {
	At(x, z float32) float32
}

// Flat is a constant-elevation field.
type Flat struct {
	Height float32
}

func (f Flat) At(x, z float32) float32 {
	return f.Height
}
