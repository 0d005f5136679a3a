package tessellate

import (
	"github.com/aquilax/go-perlin"
)

// A DensityPolicy assigns a mesh density level in 0..MaxDensity to a cell.
// Density must be pure in the cell coordinates: blend-code computation
// probes neighbors and parents that were never queued, including cells
// outside the world.
type DensityPolicy interface {
	Density(p Patch, vc *ViewConfig) uint32
}

// FixedDensity assigns the same density level to every cell.
type FixedDensity struct {
	Level uint32
}

func (f FixedDensity) Density(Patch, *ViewConfig) uint32 {
	return min(f.Level, MaxDensity)
}

const (
	perlinAlpha = 2
	perlinBeta  = 2
	perlinIters = 3

	// defaultDensityFrequency spreads density variation over roughly a
	// root cell's worth of world units.
	defaultDensityFrequency = 1.0 / 96
)

// ProceduralDensity samples a Perlin field at the cell center and maps it
// onto density levels, so mesh resolution follows terrain roughness rather
// than distance alone.
type ProceduralDensity struct {
	noise *perlin.Perlin

	// Frequency converts world units to noise-field coordinates.
	Frequency float64

	// ParentConsistency keeps a cell's density within one level of its
	// parent's, which bounds the resolution step across a stitched edge.
	ParentConsistency bool
}

// NewProceduralDensity seeds a density field. The same seed yields the
// same field on every build.
func NewProceduralDensity(seed int64) *ProceduralDensity {
	return &ProceduralDensity{
		noise:             perlin.NewPerlin(perlinAlpha, perlinBeta, perlinIters, seed),
		Frequency:         defaultDensityFrequency,
		ParentConsistency: true,
	}
}

func (d *ProceduralDensity) Density(p Patch, vc *ViewConfig) uint32 {
	nat := d.sample(p, vc)
	if !d.ParentConsistency || p.Size >= vc.RootSize() {
		return nat
	}
	if parent := d.sample(p.parent(), vc); parent > 0 && nat < parent-1 {
		return parent - 1
	}
	return nat
}

func (d *ProceduralDensity) sample(p Patch, vc *ViewConfig) uint32 {
	c := p.centerWorld(vc)
	n := d.noise.Noise2D(float64(c.X)*d.Frequency, float64(c.Y)*d.Frequency)

	// Noise2D stays within [-1, 1]; spread it over the density levels.
	v := int((n + 1) * 0.5 * (MaxDensity + 1))
	if v < 0 {
		v = 0
	} else if v > MaxDensity {
		v = MaxDensity
	}
	return uint32(v)
}
