package tessellate

import (
	"testing"

	"github.com/Faultbox/veldt/pkg/math"
)

type cellKey struct {
	x, y, size uint32
}

// mapDensity assigns fixed levels to chosen cells and a default to the
// rest, making blend codes fully predictable in tests.
type mapDensity struct {
	levels map[cellKey]uint32
	def    uint32
}

func (m mapDensity) Density(p Patch, _ *ViewConfig) uint32 {
	if lvl, ok := m.levels[cellKey{p.X, p.Y, p.Size}]; ok {
		return lvl
	}
	return m.def
}

func findPatch(t *testing.T, patches []Patch, x, y, size uint32) Patch {
	t.Helper()
	for _, p := range patches {
		if p.X == x && p.Y == y && p.Size == size {
			return p
		}
	}
	t.Fatalf("patch (%d, %d) size %d not in bucket", x, y, size)
	return Patch{}
}

// A 2x2 root grid with the viewer on the world origin: the origin root
// splits once and its neighbors stay whole, producing every edge class.
// Densities are pinned per cell so the expected codes follow by hand.
func TestBlendCodes(t *testing.T) {
	vc := ViewConfig{
		Scale:           1,
		ViewDistance:    1,
		MaxDepth:        1,
		WorldExtent:     4,
		RootGrid:        2,
		SubdivisionBias: 1,
	}
	density := mapDensity{
		def: 3,
		levels: map[cellKey]uint32{
			{1, 0, 2}: 2, // leaf under test
			{0, 0, 4}: 1, // its parent
			{0, 0, 2}: 1, // subdividing neighbor, parent of flush leaves
			{1, 0, 1}: 0, // flush leaf under test
			{1, 1, 1}: 2,
			{1, 0, 0}: 1, // probed children along stitched edges
			{1, 1, 0}: 2,
		},
	}

	ts, err := New(vc, WithDensity(density), WithWorkers(1))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	if err := ts.Build(NewViewerState(math.Vec3{})); err != nil {
		t.Fatalf("Build() = %v", err)
	}

	if got := ts.PatchCount(); got != 7 {
		t.Fatalf("PatchCount() = %d, want 7", got)
	}
	if got, want := ts.Counts(), [NumBuckets]int{1, 0, 2, 4}; got != want {
		t.Fatalf("Counts() = %v, want %v", got, want)
	}

	// The whole root {1,0} stayed a single patch. Its left edge borders
	// the split root's children (stitch pinned one level over theirs and
	// the special morph path), the right and both Y edges border cells
	// that never refined this deep.
	p := findPatch(t, ts.Bucket(2), 1, 0, 2)
	if want := PackBlend([4]uint32{1, 3, 2, 2}, 2); p.Stitch != want {
		t.Errorf("patch (1,0,2) Stitch = %#x, want %#x", p.Stitch, want)
	}
	if want := PackBlend([4]uint32{1, 3, 1, 1}, 2); p.Morph != want {
		t.Errorf("patch (1,0,2) Morph = %#x, want %#x", p.Morph, want)
	}
	if p.SpecialMorph == 0 {
		t.Error("patch (1,0,2) SpecialMorph = 0, want set")
	}

	// A flushed child of the split root. Its left neighbor still passes
	// the subdivision test at size 1, so the left edge takes the
	// finer-neighbor path even at the depth cap.
	p = findPatch(t, ts.Bucket(0), 1, 0, 1)
	if want := PackBlend([4]uint32{0, 2, 0, 0}, 0); p.Stitch != want {
		t.Errorf("patch (1,0,1) Stitch = %#x, want %#x", p.Stitch, want)
	}
	if want := PackBlend([4]uint32{1, 2, 1, 1}, 0); p.Morph != want {
		t.Errorf("patch (1,0,1) Morph = %#x, want %#x", p.Morph, want)
	}
	if p.SpecialMorph == 0 {
		t.Error("patch (1,0,1) SpecialMorph = 0, want set")
	}
}

// With the viewer far away nothing subdivides: every edge borders the
// neighbor's unsplit parent and all fields collapse to one density.
func TestBlendCodesFarViewer(t *testing.T) {
	vc := ViewConfig{
		Scale:           1,
		ViewDistance:    1,
		MaxDepth:        2,
		WorldExtent:     4,
		RootGrid:        1,
		SubdivisionBias: 1,
	}
	ts, err := New(vc, WithDensity(FixedDensity{Level: 2}), WithWorkers(1))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	if err := ts.Build(NewViewerState(math.Vec3{X: 1e6, Z: 1e6})); err != nil {
		t.Fatalf("Build() = %v", err)
	}

	if got := ts.PatchCount(); got != 1 {
		t.Fatalf("PatchCount() = %d, want 1", got)
	}
	p := findPatch(t, ts.Bucket(2), 0, 0, 4)

	want := PackBlend([4]uint32{2, 2, 2, 2}, 2)
	if p.Stitch != want {
		t.Errorf("Stitch = %#x, want %#x", p.Stitch, want)
	}
	if p.Morph != want {
		t.Errorf("Morph = %#x, want %#x", p.Morph, want)
	}
	if p.SpecialMorph != 0 {
		t.Error("SpecialMorph set with no subdividing neighbors")
	}
}

func TestAdjacentChildren(t *testing.T) {
	nb := Patch{X: 2, Y: 3, Size: 2}
	tests := []struct {
		dir  int
		want [2]cellKey
	}{
		{DirLeft, [2]cellKey{{5, 6, 1}, {5, 7, 1}}},  // +X side
		{DirRight, [2]cellKey{{4, 6, 1}, {4, 7, 1}}}, // -X side
		{DirDown, [2]cellKey{{4, 7, 1}, {5, 7, 1}}},  // +Y side
		{DirUp, [2]cellKey{{4, 6, 1}, {5, 6, 1}}},    // -Y side
	}
	for _, tt := range tests {
		got := adjacentChildren(nb, tt.dir)
		for i, want := range tt.want {
			if got[i].X != want.x || got[i].Y != want.y || got[i].Size != want.size {
				t.Errorf("adjacentChildren(dir %d)[%d] = %+v, want %+v", tt.dir, i, got[i], want)
			}
		}
	}
}
