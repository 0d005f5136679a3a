package tessellate

import (
	"github.com/Faultbox/veldt/pkg/math"
)

// adjacentChildren returns the two children of neighbor nb that share an
// edge with the cell nb neighbors in direction dir. For a left neighbor
// those are its +X children, and so on.
func adjacentChildren(nb Patch, dir int) [2]Patch {
	switch dir {
	case DirLeft:
		return [2]Patch{nb.childAt(1), nb.childAt(3)}
	case DirRight:
		return [2]Patch{nb.childAt(0), nb.childAt(2)}
	case DirDown:
		return [2]Patch{nb.childAt(2), nb.childAt(3)}
	default:
		return [2]Patch{nb.childAt(0), nb.childAt(1)}
	}
}

// finishLeaf computes the blend codes for a finished cell and returns the
// completed patch with the density bucket it belongs to.
//
// Each edge is classified by what the renderer will find on the other
// side. A neighbor that subdivides further presents its children along the
// edge; a neighbor that was never refined this deep presents its parent.
// The stitch code then pins the edge resolution to whichever side is
// coarser and the morph code names the density to blend toward, so two
// patches meeting at an edge always derive the same seam.
func (t *Tessellator) finishLeaf(p Patch, viewer math.Vec3) (Patch, uint32) {
	vc := &t.vc
	self := t.density.Density(p, vc)
	selfParent := t.density.Density(p.parent(), vc)

	var stitch, morph [4]uint32
	special := false
	for dir := 0; dir < 4; dir++ {
		nb := p.neighborAt(dir)
		np := nb.parent()
		npDensity := t.density.Density(np, vc)

		switch {
		case !divide(np, vc, viewer):
			// The neighbor's parent never split, so the edge borders a
			// cell one level coarser. Both sides resolve that cell's
			// density, keeping the seam agreed.
			stitch[dir] = npDensity
			morph[dir] = npDensity

		case divide(nb, vc, viewer):
			// The neighbor splits again, so the edge borders two
			// finer cells. Their densities sit one level up in patch
			// units; morphing continues toward the shared parent.
			ac := adjacentChildren(nb, dir)
			childD := min(
				t.density.Density(ac[0], vc),
				t.density.Density(ac[1], vc),
			)
			stitch[dir] = min(self, childD+1)
			morph[dir] = npDensity
			special = true

		default:
			// Same-size neighbor: the coarser of the two densities
			// wins the edge, and both sides morph toward the coarser
			// parent density.
			nbDensity := t.density.Density(nb, vc)
			stitch[dir] = min(self, nbDensity)
			morph[dir] = min(selfParent, npDensity)
		}
	}

	p.Stitch = PackBlend(stitch, self)
	p.Morph = PackBlend(morph, self)
	if special {
		p.SpecialMorph = 1
	} else {
		p.SpecialMorph = 0
	}
	return p, self
}
