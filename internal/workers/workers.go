package workers

import "context"

// Workers starts and stops a fixed set of background workers as a unit.
type Workers struct {
	workers []Worker
}

// NewWorkers groups the given workers. Order matters: StartAll starts them
// first to last, StopAll stops them last to first.
func NewWorkers(workers ...Worker) *Workers {
	return &Workers{workers: workers}
}

// StartAll starts every worker in registration order.
func (w *Workers) StartAll(ctx context.Context) {
	for _, worker := range w.workers {
		worker.Start(ctx)
	}
}

// StopAll stops every worker in reverse registration order and blocks until
// all have exited.
func (w *Workers) StopAll() {
	for i := len(w.workers) - 1; i >= 0; i-- {
		w.workers[i].Stop()
	}
}
