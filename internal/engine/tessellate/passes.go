package tessellate

import (
	"fmt"

	"github.com/Faultbox/veldt/pkg/math"
)

// Seed fills the working queue with the root grid, one cell per grid
// position at root size with zero blend codes. No subdivision test runs
// here; the first Refine pass decides the roots' fate. Returns the
// queued cell count.
func (t *Tessellator) Seed() int {
	grid := int(t.vc.RootGrid)
	rootSize := t.vc.RootSize()
	t.disp.run(grid*grid, func(i int) {
		t.cur.push(Patch{
			X:    uint32(i % grid),
			Y:    uint32(i / grid),
			Size: rootSize,
		})
	})
	return t.cur.len()
}

// Refine consumes the working queue once. Cells that pass the
// subdivision test spawn their children into the next queue, skipping
// children whose origin falls outside the world extent; the rest finish
// as patches. Returns the number of cells queued for the next pass.
//
// After a capacity error the queues are inconsistent; Reset before the
// next build.
func (t *Tessellator) Refine(cull *CullState) (int, error) {
	t.disp.run(t.cur.len(), func(i int) {
		p := t.cur.at(i)
		if t.cullEnabled && cull.Culled(p.aabb(&t.vc)) {
			return
		}
		if divide(p, &t.vc, cull.Viewer) {
			for c := 0; c < 4; c++ {
				child := p.childAt(c)
				if child.insideExtent(&t.vc) {
					t.next.push(child)
				}
			}
		} else {
			t.emitLeaf(p, cull.Viewer)
		}
	})

	if t.next.overflow() {
		return 0, fmt.Errorf("%w: working queue full at %d cells", ErrCapacity, len(t.next.buf))
	}
	if t.final.overflow() {
		return 0, fmt.Errorf("%w: patch bucket full at %d entries", ErrCapacity, t.final.stride)
	}

	t.cur, t.next = t.next, t.cur
	t.next.reset()
	return t.cur.len(), nil
}

// Flush finishes every cell still queued after the last Refine pass,
// emitting them at their current size. Returns the total patch count
// across all buckets.
func (t *Tessellator) Flush(cull *CullState) (int, error) {
	t.disp.run(t.cur.len(), func(i int) {
		p := t.cur.at(i)
		if t.cullEnabled && cull.Culled(p.aabb(&t.vc)) {
			return
		}
		t.emitLeaf(p, cull.Viewer)
	})
	t.cur.reset()

	if t.final.overflow() {
		return 0, fmt.Errorf("%w: patch bucket full at %d entries", ErrCapacity, t.final.stride)
	}
	return t.final.total(), nil
}

func (t *Tessellator) emitLeaf(p Patch, viewer math.Vec3) {
	done, lod := t.finishLeaf(p, viewer)
	t.final.emit(lod, done)
}
