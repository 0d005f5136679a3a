package tessellate

import (
	"github.com/Faultbox/veldt/pkg/math"
)

// DefaultPlaneMask tests every frustum plane except the far plane, which
// distance-driven subdivision already bounds.
const DefaultPlaneMask = 1<<math.PlaneLeft | 1<<math.PlaneRight |
	1<<math.PlaneBottom | 1<<math.PlaneTop | 1<<math.PlaneNear

// CullState carries the per-build view state: the viewer position feeding
// the subdivision test and the frustum planes feeding visibility culling.
type CullState struct {
	Viewer math.Vec3
	Planes [6]math.Plane

	// PlaneMask selects which planes participate in culling.
	PlaneMask uint8
}

// NewCullState extracts frustum planes from a combined view-projection and
// model matrix. The viewer position is given in the same world space the
// tessellator works in.
func NewCullState(viewer math.Vec3, viewProj, model math.Mat4) *CullState {
	return &CullState{
		Viewer:    viewer,
		Planes:    math.ExtractFrustum(viewProj.Mul(model)),
		PlaneMask: DefaultPlaneMask,
	}
}

// NewViewerState builds a CullState that carries only the viewer position.
// No planes are enabled, so Culled never rejects; use it for builds with
// culling disabled.
func NewViewerState(viewer math.Vec3) *CullState {
	return &CullState{Viewer: viewer}
}

// Culled reports whether the box lies entirely outside any enabled plane.
func (cs *CullState) Culled(box math.AABB) bool {
	corners := box.Corners()
	for i := range cs.Planes {
		if cs.PlaneMask>>i&1 == 0 {
			continue
		}
		outside := true
		for _, c := range corners {
			if cs.Planes[i].SignedDistance(c) > 0 {
				outside = false
				break
			}
		}
		if outside {
			return true
		}
	}
	return false
}
