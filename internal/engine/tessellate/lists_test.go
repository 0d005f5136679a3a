package tessellate

import (
	"sync"
	"testing"
)

func TestPatchQueueOverflowDropsEntry(t *testing.T) {
	q := newPatchQueue(2)
	q.push(Patch{X: 1})
	q.push(Patch{X: 2})
	q.push(Patch{X: 3})

	if !q.overflow() {
		t.Error("overflow() = false after pushing past capacity")
	}
	if got := q.len(); got != 2 {
		t.Errorf("len() = %d, want 2", got)
	}
	// The stored entries survive; the overflowing push lands nowhere.
	if q.at(0).X != 1 || q.at(1).X != 2 {
		t.Errorf("stored entries = %d, %d, want 1, 2", q.at(0).X, q.at(1).X)
	}

	q.reset()
	if q.overflow() {
		t.Error("overflow() = true after reset")
	}
	if got := q.len(); got != 0 {
		t.Errorf("len() after reset = %d, want 0", got)
	}
	q.push(Patch{X: 9})
	if q.len() != 1 || q.at(0).X != 9 {
		t.Errorf("push after reset stored %d entries, first X = %d", q.len(), q.at(0).X)
	}
}

// Concurrent emits into every bucket must land in disjoint slots: no
// entry lost, none written into another bucket's range.
func TestFinalListBucketsStayDisjoint(t *testing.T) {
	const perBucket = 64
	l := newFinalList(perBucket)

	var wg sync.WaitGroup
	for lod := uint32(0); lod < NumBuckets; lod++ {
		wg.Add(1)
		go func(lod uint32) {
			defer wg.Done()
			for i := uint32(0); i < perBucket; i++ {
				l.emit(lod, Patch{X: i, Y: lod})
			}
		}(lod)
	}
	wg.Wait()

	if l.overflow() {
		t.Fatal("overflow() = true within capacity")
	}
	if got := l.total(); got != NumBuckets*perBucket {
		t.Fatalf("total() = %d, want %d", got, NumBuckets*perBucket)
	}

	for lod := 0; lod < NumBuckets; lod++ {
		b := l.bucket(lod)
		if len(b) != perBucket {
			t.Fatalf("bucket(%d) holds %d entries, want %d", lod, len(b), perBucket)
		}
		seen := make(map[uint32]bool, perBucket)
		for _, p := range b {
			if p.Y != uint32(lod) {
				t.Fatalf("bucket %d holds an entry emitted to bucket %d", lod, p.Y)
			}
			if seen[p.X] {
				t.Fatalf("bucket %d stored entry %d twice", lod, p.X)
			}
			seen[p.X] = true
		}
	}
}

func TestFinalListOverflowStaysInBucket(t *testing.T) {
	l := newFinalList(2)
	for i := uint32(0); i < 5; i++ {
		l.emit(1, Patch{X: i})
	}

	if !l.overflow() {
		t.Error("overflow() = false after emitting past the stride")
	}
	if got := l.count(1); got != 2 {
		t.Errorf("count(1) = %d, want stride cap 2", got)
	}
	// Neighboring buckets stay untouched.
	if got := l.count(0); got != 0 {
		t.Errorf("count(0) = %d, want 0", got)
	}
	if got := l.count(2); got != 0 {
		t.Errorf("count(2) = %d, want 0", got)
	}

	l.reset()
	if l.overflow() {
		t.Error("overflow() = true after reset")
	}
	if got := l.total(); got != 0 {
		t.Errorf("total() after reset = %d, want 0", got)
	}
}
