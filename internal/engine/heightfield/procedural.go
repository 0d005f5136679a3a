package heightfield

import (
	"github.com/aquilax/go-perlin"
)

const (
	noiseAlpha = 2
	noiseBeta  = 2
	noiseIters = 4

	// defaultFrequency spans a noise feature over roughly 128 world units.
	defaultFrequency = 1.0 / 128
)

// Procedural is a Perlin-noise elevation field. The same seed produces
// the same terrain on every run.
type Procedural struct {
	noise *perlin.Perlin

	// Height is the peak elevation; samples span [0, Height].
	Height float32

	// Frequency converts world units to noise-field coordinates.
	Frequency float64
}

// NewProcedural seeds an elevation field with the given peak height.
func NewProcedural(seed int64, height float32) *Procedural {
	return &Procedural{
		noise:     perlin.NewPerlin(noiseAlpha, noiseBeta, noiseIters, seed),
		Height:    height,
		Frequency: defaultFrequency,
	}
}

func (p *Procedural) At(x, z float32) float32 {
	n := p.noise.Noise2D(float64(x)*p.Frequency, float64(z)*p.Frequency)

	// Noise2D stays within [-1, 1]; lift it onto [0, Height].
	h := (float32(n) + 1) * 0.5 * p.Height
	if h < 0 {
		return 0
	}
	if h > p.Height {
		return p.Height
	}
	return h
}
