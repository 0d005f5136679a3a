package tessellate

import (
	"github.com/Faultbox/veldt/pkg/math"
)

// Edge directions, indexing the per-edge fields of blend codes.
const (
	DirLeft  = iota // -X
	DirRight        // +X
	DirDown         // -Y
	DirUp           // +Y
)

const (
	blendFieldBits = 6
	blendFieldMask = 1<<blendFieldBits - 1
	blendSelfShift = 4 * blendFieldBits
)

// Patch is one leaf cell of the refined quadtree. X and Y are grid
// coordinates at the patch's own size level, so the world origin is
// (X*Size, Y*Size) in grid units. Stitch and Morph pack one density
// field per edge plus the patch's own density; SpecialMorph is nonzero
// when any edge needs the finer-neighbor morph path.
type Patch struct {
	X            uint32
	Y            uint32
	Size         uint32
	Stitch       uint32
	Morph        uint32
	SpecialMorph uint32
}

// PackBlend packs four per-edge density fields and the patch's own density
// into one blend code. Fields are masked to their width.
func PackBlend(edges [4]uint32, self uint32) uint32 {
	var code uint32
	for dir, e := range edges {
		code |= (e & blendFieldMask) << (dir * blendFieldBits)
	}
	return code | (self&blendFieldMask)<<blendSelfShift
}

// BlendEdge extracts the density field for one edge direction.
func BlendEdge(code uint32, dir int) uint32 {
	return code >> (dir * blendFieldBits) & blendFieldMask
}

// BlendSelf extracts the patch's own density field.
func BlendSelf(code uint32) uint32 {
	return code >> blendSelfShift & blendFieldMask
}

// parent returns the enclosing cell one level up.
func (p Patch) parent() Patch {
	return Patch{X: p.X >> 1, Y: p.Y >> 1, Size: p.Size << 1}
}

// childAt returns the half-size child cell for quadrant i in 0..3,
// ordered (0,0) (1,0) (0,1) (1,1).
func (p Patch) childAt(i int) Patch {
	return Patch{
		X:    p.X<<1 + uint32(i&1),
		Y:    p.Y<<1 + uint32(i>>1),
		Size: p.Size >> 1,
	}
}

// neighborAt returns the same-size cell adjacent in direction dir.
// Coordinates wrap as unsigned; the subdivision and density functions
// accept arbitrary coordinates, so out-of-world neighbors are safe.
func (p Patch) neighborAt(dir int) Patch {
	switch dir {
	case DirLeft:
		return Patch{X: p.X - 1, Y: p.Y, Size: p.Size}
	case DirRight:
		return Patch{X: p.X + 1, Y: p.Y, Size: p.Size}
	case DirDown:
		return Patch{X: p.X, Y: p.Y - 1, Size: p.Size}
	default:
		return Patch{X: p.X, Y: p.Y + 1, Size: p.Size}
	}
}

// insideExtent reports whether the cell's origin lies inside the world.
func (p Patch) insideExtent(vc *ViewConfig) bool {
	return p.X*p.Size < vc.WorldExtent && p.Y*p.Size < vc.WorldExtent
}

// worldCorner returns corner i in 0..3 at the assumed terrain height,
// ordered like childAt quadrants.
func (p Patch) worldCorner(i int, vc *ViewConfig) math.Vec3 {
	cx := p.X + uint32(i&1)
	cy := p.Y + uint32(i>>1)
	return math.Vec3{
		X: float32(cx*p.Size) * vc.Scale,
		Y: vc.ViewerHeight,
		Z: float32(cy*p.Size) * vc.Scale,
	}
}

// centerWorld returns the cell center on the ground plane in world units.
func (p Patch) centerWorld(vc *ViewConfig) math.Vec2 {
	half := float32(p.Size) * 0.5
	return math.Vec2{
		X: (float32(p.X*p.Size) + half) * vc.Scale,
		Y: (float32(p.Y*p.Size) + half) * vc.Scale,
	}
}

// aabb returns the cell's world-space bounds over the terrain height range.
func (p Patch) aabb(vc *ViewConfig) math.AABB {
	x0 := float32(p.X*p.Size) * vc.Scale
	z0 := float32(p.Y*p.Size) * vc.Scale
	ext := float32(p.Size) * vc.Scale
	return math.AABB{
		Min: math.Vec3{X: x0, Y: 0, Z: z0},
		Max: math.Vec3{X: x0 + ext, Y: vc.TerrainHeight, Z: z0 + ext},
	}
}
