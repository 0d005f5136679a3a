package tessellate

import (
	"github.com/Faultbox/veldt/pkg/math"
)

// divide is the subdivision predicate: a cell splits when any of its four
// corners, taken at the assumed terrain height, lies closer to the viewer
// than half the cell's world size times the view distance. The test is pure
// in the cell coordinates, so callers may probe neighbors that were never
// queued, including cells outside the world.
func divide(p Patch, vc *ViewConfig, viewer math.Vec3) bool {
	threshold := float32(p.Size) * 0.5 * vc.Scale * vc.ViewDistance
	for i := 0; i < 4; i++ {
		d := p.worldCorner(i, vc).Distance(viewer)
		if d*vc.SubdivisionBias < threshold {
			return true
		}
	}
	return false
}
