package renderer

import (
	"github.com/Faultbox/veldt/internal/engine/heightfield"
	"github.com/Faultbox/veldt/internal/engine/tessellate"
)

// Vertex is one point of the patch mesh, position plus color.
type Vertex struct {
	X, Y, Z float32
	R, G, B float32
}

// Mesh holds CPU-side geometry for one patch set: filled triangles plus
// outline line segments, both in the interleaved Vertex layout.
type Mesh struct {
	Fill  []Vertex
	Lines []Vertex
}

// bucketColors colors patches by density bucket, coarse to fine.
var bucketColors = [tessellate.NumBuckets][3]float32{
	{0.20, 0.35, 0.62}, // blue, coarsest
	{0.18, 0.56, 0.40}, // green
	{0.78, 0.64, 0.22}, // amber
	{0.76, 0.26, 0.22}, // red, finest
}

var outlineColor = [3]float32{0.06, 0.06, 0.08}

// BuildMesh generates geometry for every patch in the tessellator's
// final lists. Each patch becomes a grid of quads at its bucket's
// density, displaced by the heightfield. Border heights follow the
// patch's per-edge stitch codes, so two patches meeting at different
// densities sample the seam on the same coarse segments and the mesh
// stays closed.
func BuildMesh(ts *tessellate.Tessellator, hf heightfield.Field) *Mesh {
	vc := ts.View()
	m := &Mesh{}
	counts := ts.Counts()
	for b := 0; b < tessellate.NumBuckets; b++ {
		if counts[b] == 0 {
			continue
		}
		for _, p := range ts.Bucket(b) {
			appendPatch(m, p, uint32(b), hf, vc.Scale)
		}
	}
	return m
}

func appendPatch(m *Mesh, p tessellate.Patch, density uint32, hf heightfield.Field, scale float32) {
	n := 1 << density // quads per side
	x0 := float32(p.X*p.Size) * scale
	z0 := float32(p.Y*p.Size) * scale
	step := float32(p.Size) * scale / float32(n)

	// Sample the height grid, then restitch the borders.
	h := make([]float32, (n+1)*(n+1))
	for j := 0; j <= n; j++ {
		for i := 0; i <= n; i++ {
			h[j*(n+1)+i] = hf.At(x0+float32(i)*step, z0+float32(j)*step)
		}
	}
	stitchEdges(h, n, p.Stitch, density)

	// Checker the bucket color so same-density neighbors stay separable.
	base := bucketColors[density]
	shade := float32(1.0)
	if (p.X^p.Y)&1 == 1 {
		shade = 0.86
	}
	cr, cg, cb := base[0]*shade, base[1]*shade, base[2]*shade

	v := func(i, j int) Vertex {
		return Vertex{
			X: x0 + float32(i)*step,
			Y: h[j*(n+1)+i],
			Z: z0 + float32(j)*step,
			R: cr, G: cg, B: cb,
		}
	}

	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			m.Fill = append(m.Fill,
				v(i, j), v(i, j+1), v(i+1, j+1),
				v(i, j), v(i+1, j+1), v(i+1, j),
			)
		}
	}

	// Outline the border, lifted a little so lines win the depth test.
	lift := scale * 0.05
	lv := func(i, j int) Vertex {
		return Vertex{
			X: x0 + float32(i)*step,
			Y: h[j*(n+1)+i] + lift,
			Z: z0 + float32(j)*step,
			R: outlineColor[0], G: outlineColor[1], B: outlineColor[2],
		}
	}
	for i := 0; i < n; i++ {
		m.Lines = append(m.Lines,
			lv(i, 0), lv(i+1, 0),
			lv(i, n), lv(i+1, n),
			lv(0, i), lv(0, i+1),
			lv(n, i), lv(n, i+1),
		)
	}
}

// stitchEdges snaps border heights to the per-edge stitch density, so a
// border vertex that the coarser side does not sample lands on the
// straight segment between the vertices it does.
func stitchEdges(h []float32, n int, code uint32, density uint32) {
	for dir := 0; dir < 4; dir++ {
		s := tessellate.BlendEdge(code, dir)
		if s >= density {
			continue
		}
		span := 1 << (density - s) // fine vertices per coarse segment
		for i := 1; i < n; i++ {
			r := i % span
			if r == 0 {
				continue
			}
			a := h[edgeIndex(dir, i-r, n)]
			b := h[edgeIndex(dir, i-r+span, n)]
			h[edgeIndex(dir, i, n)] = a + (b-a)*float32(r)/float32(span)
		}
	}
}

// edgeIndex maps a position along an edge to a height-grid index.
func edgeIndex(dir, i, n int) int {
	switch dir {
	case tessellate.DirLeft:
		return i * (n + 1)
	case tessellate.DirRight:
		return i*(n+1) + n
	case tessellate.DirDown:
		return i
	default:
		return n*(n+1) + i
	}
}
