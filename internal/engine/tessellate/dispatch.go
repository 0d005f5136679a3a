package tessellate

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// Items below this count run inline; chunk bookkeeping would cost more
// than the kernel work.
const minParallelItems = 128

// poolQueueSize bounds submitted tasks; chunk counts stay below it.
const poolQueueSize = 256

// dispatcher fans a pass kernel out over a bounded worker pool and
// barriers on completion. Workers persist across passes and idle-exit
// between builds, avoiding per-pass goroutine spawn overhead.
type dispatcher struct {
	pool    worker.DynamicWorkerPool
	workers int
	nextID  int
}

func newDispatcher(workers int) *dispatcher {
	d := &dispatcher{workers: workers}
	if workers > 1 {
		d.pool = worker.NewDynamicWorkerPool(workers, poolQueueSize, 1*time.Second)
	}
	return d
}

// run invokes kernel(i) for every i in [0, n). All invocations complete
// before run returns; within a pass their order is unspecified.
func (d *dispatcher) run(n int, kernel func(i int)) {
	if n <= 0 {
		return
	}
	if d.workers <= 1 || n < minParallelItems {
		for i := 0; i < n; i++ {
			kernel(i)
		}
		return
	}

	// A few chunks per worker smooths uneven kernels without flooding
	// the pool queue.
	chunks := d.workers * 4
	if chunks > n {
		chunks = n
	}
	if chunks > poolQueueSize {
		chunks = poolQueueSize
	}
	chunkSize := (n + chunks - 1) / chunks

	// The pool has no per-submission barrier, so a WaitGroup provides
	// the pass boundary.
	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunkSize {
		hi := lo + chunkSize
		if hi > n {
			hi = n
		}
		wg.Add(1)
		d.nextID++
		d.pool.SubmitTask(worker.Task{
			ID: d.nextID,
			Do: func() (any, error) {
				defer wg.Done()
				for i := lo; i < hi; i++ {
					kernel(i)
				}
				return nil, nil
			},
		})
	}
	wg.Wait()
}
