package tessellate

import (
	"sync/atomic"
)

// patchQueue is a fixed-capacity append-only list filled concurrently by
// pass kernels. Slots are claimed with an atomic counter; a claim past
// capacity sets the overflow flag and the entry is dropped, never written
// over another slot.
type patchQueue struct {
	buf        []Patch
	n          atomic.Uint32
	overflowed atomic.Bool
}

func newPatchQueue(capacity int) *patchQueue {
	return &patchQueue{buf: make([]Patch, capacity)}
}

func (q *patchQueue) push(p Patch) {
	i := q.n.Add(1) - 1
	if int64(i) >= int64(len(q.buf)) {
		q.overflowed.Store(true)
		return
	}
	q.buf[i] = p
}

// len returns the number of stored entries, capped at capacity.
func (q *patchQueue) len() int {
	n := int(q.n.Load())
	if n > len(q.buf) {
		n = len(q.buf)
	}
	return n
}

func (q *patchQueue) at(i int) Patch {
	return q.buf[i]
}

func (q *patchQueue) overflow() bool {
	return q.overflowed.Load()
}

func (q *patchQueue) reset() {
	q.n.Store(0)
	q.overflowed.Store(false)
}

// finalList collects finished patches into one bucket per density level,
// each bucket a fixed stride apart in the backing array so kernels can
// emit concurrently without moving earlier entries.
type finalList struct {
	buf        []Patch
	stride     uint32
	counts     [NumBuckets]atomic.Uint32
	overflowed atomic.Bool
}

func newFinalList(stride int) *finalList {
	return &finalList{
		buf:    make([]Patch, stride*NumBuckets),
		stride: uint32(stride),
	}
}

func (l *finalList) emit(lod uint32, p Patch) {
	i := l.counts[lod].Add(1) - 1
	if i >= l.stride {
		l.overflowed.Store(true)
		return
	}
	l.buf[lod*l.stride+i] = p
}

// bucket returns the stored patches for one density level.
func (l *finalList) bucket(lod int) []Patch {
	n := l.count(lod)
	base := uint32(lod) * l.stride
	return l.buf[base : base+uint32(n)]
}

func (l *finalList) count(lod int) int {
	n := int(l.counts[lod].Load())
	if n > int(l.stride) {
		n = int(l.stride)
	}
	return n
}

func (l *finalList) total() int {
	sum := 0
	for lod := range l.counts {
		sum += l.count(lod)
	}
	return sum
}

func (l *finalList) overflow() bool {
	return l.overflowed.Load()
}

func (l *finalList) reset() {
	for i := range l.counts {
		l.counts[i].Store(0)
	}
	l.overflowed.Store(false)
}
