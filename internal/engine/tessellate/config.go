package tessellate

import (
	"errors"
	"fmt"
	"math/bits"
)

// DefaultSubdivisionBias scales corner distances in the subdivision test.
// Values below 1 bias cells toward subdividing slightly before the viewer
// crosses the exact threshold, which hides popping at the transition.
const DefaultSubdivisionBias = 0.99

// MaxDensity is the finest mesh density level; densities range 0..MaxDensity
// and double the per-patch resolution per level.
const MaxDensity = 3

// NumBuckets is the number of density buckets finished patches are
// grouped into, one per density level.
const NumBuckets = MaxDensity + 1

// ErrConfig reports an invalid ViewConfig.
var ErrConfig = errors.New("invalid view config")

// ViewConfig holds the per-build view parameters driving LOD selection.
type ViewConfig struct {
	Scale        float32 // world units per grid unit
	ViewerHeight float32 // assumed terrain height under the viewer
	ViewDistance float32 // view-distance multiplier for subdivision thresholds
	MaxDepth     uint32  // number of refinement passes
	WorldExtent  uint32  // world size in grid units
	RootGrid     uint32  // root cells per axis

	// SubdivisionBias is the <1 factor applied to corner distances in the
	// subdivision test. Zero selects DefaultSubdivisionBias.
	SubdivisionBias float32

	// TerrainHeight is the vertical extent used for culling boxes.
	TerrainHeight float32
}

// RootSize returns the side length of a root cell in grid units: the next
// power of two covering WorldExtent/RootGrid.
func (vc *ViewConfig) RootSize() uint32 {
	if vc.RootGrid == 0 {
		return 0
	}
	per := (vc.WorldExtent + vc.RootGrid - 1) / vc.RootGrid
	return nextPow2(per)
}

// withDefaults returns a copy with zero-valued tunables replaced.
func (vc ViewConfig) withDefaults() ViewConfig {
	if vc.SubdivisionBias == 0 {
		vc.SubdivisionBias = DefaultSubdivisionBias
	}
	return vc
}

// Validate rejects configurations that would break the traversal contract.
func (vc *ViewConfig) Validate() error {
	if vc.RootGrid == 0 {
		return fmt.Errorf("%w: root grid dimension must be positive", ErrConfig)
	}
	if vc.WorldExtent == 0 {
		return fmt.Errorf("%w: world extent must be positive", ErrConfig)
	}
	if vc.Scale <= 0 {
		return fmt.Errorf("%w: scale must be positive", ErrConfig)
	}
	if vc.ViewDistance <= 0 {
		return fmt.Errorf("%w: view distance must be positive", ErrConfig)
	}
	if vc.SubdivisionBias < 0 || vc.SubdivisionBias > 1 {
		return fmt.Errorf("%w: subdivision bias must be in (0, 1]", ErrConfig)
	}
	if vc.TerrainHeight < 0 {
		return fmt.Errorf("%w: terrain height must not be negative", ErrConfig)
	}

	// A cell of size 1 cannot split again, so the refinement depth is capped
	// by the root cell's power of two.
	rootSize := vc.RootSize()
	if maxSplits := uint32(bits.Len32(rootSize) - 1); vc.MaxDepth > maxSplits {
		return fmt.Errorf("%w: max depth %d underflows cell size (root size %d allows %d)",
			ErrConfig, vc.MaxDepth, rootSize, maxSplits)
	}

	// The worst-case leaf count must stay addressable, or bucket strides
	// cannot be laid out without overlap.
	worst := uint64(vc.RootGrid) * uint64(vc.RootGrid) << (2 * vc.MaxDepth)
	if worst > 1<<31 {
		return fmt.Errorf("%w: root grid %d at depth %d overflows addressable patches",
			ErrConfig, vc.RootGrid, vc.MaxDepth)
	}

	return nil
}

func nextPow2(v uint32) uint32 {
	if v <= 1 {
		return 1
	}
	return 1 << bits.Len32(v-1)
}
