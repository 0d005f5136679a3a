// Package tessellate builds non-overlapping terrain patch sets at
// per-region level of detail. A root grid of cells is refined breadth
// first toward the viewer over a bounded number of passes; finished
// cells become patches carrying per-edge blend codes, so adjacent
// patches of different mesh density meet without cracks.
package tessellate

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrCapacity reports that a build produced more cells or patches than
// the configured buffers hold. Buffers never grow mid-build; raise the
// capacity options and build again.
var ErrCapacity = errors.New("tessellation capacity exceeded")

const (
	defaultQueueCapacity = 1 << 16
	defaultBucketStride  = 1 << 16
)

// Tessellator refines a root grid into view-dependent patches. Buffers
// are allocated once and reused across builds; a Tessellator must not be
// shared between concurrent builds.
type Tessellator struct {
	vc          ViewConfig
	density     DensityPolicy
	cullEnabled bool
	workers     int
	disp        *dispatcher

	queueCap int
	stride   int

	cur, next *patchQueue
	final     *finalList
}

// Option configures a Tessellator.
type Option func(*Tessellator)

// WithDensity sets the density policy. The default assigns MaxDensity
// everywhere.
func WithDensity(p DensityPolicy) Option {
	return func(t *Tessellator) { t.density = p }
}

// WithCulling enables frustum culling of cells during passes.
func WithCulling(enabled bool) Option {
	return func(t *Tessellator) { t.cullEnabled = enabled }
}

// WithWorkers sets the worker count for pass dispatch. Values below one
// select the CPU count; one runs passes inline.
func WithWorkers(n int) Option {
	return func(t *Tessellator) {
		if n >= 1 {
			t.workers = n
		}
	}
}

// WithQueueCapacity sets the working-queue capacity in cells.
func WithQueueCapacity(n int) Option {
	return func(t *Tessellator) { t.queueCap = n }
}

// WithBucketStride sets the per-bucket patch capacity.
func WithBucketStride(n int) Option {
	return func(t *Tessellator) { t.stride = n }
}

// New validates the view config and allocates a Tessellator.
func New(vc ViewConfig, opts ...Option) (*Tessellator, error) {
	t := &Tessellator{
		vc:       vc.withDefaults(),
		queueCap: defaultQueueCapacity,
		stride:   defaultBucketStride,
		workers:  runtime.NumCPU() - 1,
	}
	if t.workers < 1 {
		t.workers = 1
	}
	for _, opt := range opts {
		opt(t)
	}

	if err := t.vc.Validate(); err != nil {
		return nil, err
	}
	if roots := int(t.vc.RootGrid) * int(t.vc.RootGrid); t.queueCap < roots {
		return nil, fmt.Errorf("%w: queue capacity %d cannot hold the %d root cells",
			ErrConfig, t.queueCap, roots)
	}
	if t.stride < 1 {
		return nil, fmt.Errorf("%w: bucket stride must be positive", ErrConfig)
	}
	if t.density == nil {
		t.density = FixedDensity{Level: MaxDensity}
	}

	t.disp = newDispatcher(t.workers)
	t.cur = newPatchQueue(t.queueCap)
	t.next = newPatchQueue(t.queueCap)
	t.final = newFinalList(t.stride)
	return t, nil
}

// Build runs the full pipeline: Reset, Seed, MaxDepth Refine passes and
// a Flush. The CullState supplies the viewer position for subdivision
// and, when culling is enabled, the frustum planes.
func (t *Tessellator) Build(cull *CullState) error {
	t.Reset()
	t.Seed()
	for pass := uint32(0); pass < t.vc.MaxDepth; pass++ {
		n, err := t.Refine(cull)
		if err != nil {
			return err
		}
		if n == 0 {
			break
		}
	}
	_, err := t.Flush(cull)
	return err
}

// Reset clears the queues and buckets for a new build, keeping buffers.
func (t *Tessellator) Reset() {
	t.cur.reset()
	t.next.reset()
	t.final.reset()
}

// View returns the effective view config with defaults applied.
func (t *Tessellator) View() ViewConfig {
	return t.vc
}

// Queued returns the number of cells waiting in the working queue.
func (t *Tessellator) Queued() int {
	return t.cur.len()
}

// Bucket returns the finished patches at one density level. The slice
// aliases internal storage and stays valid until the next Reset or Build.
func (t *Tessellator) Bucket(lod int) []Patch {
	return t.final.bucket(lod)
}

// Counts returns the patch count per density bucket.
func (t *Tessellator) Counts() [NumBuckets]int {
	var counts [NumBuckets]int
	for lod := range counts {
		counts[lod] = t.final.count(lod)
	}
	return counts
}

// PatchCount returns the total patch count across buckets.
func (t *Tessellator) PatchCount() int {
	return t.final.total()
}
