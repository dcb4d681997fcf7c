// Package workers manages the client's long-running background goroutines:
// the periodic sync job and the connectivity monitor. It defines the Worker
// lifecycle contract and an aggregate that starts and stops a set of workers
// together.
package workers

import "context"

// Worker is a background component with an explicit lifecycle. Start must
// not block; Stop must block until the worker's goroutines have exited and
// must be safe to call when the worker is not running.
type Worker interface {
	Start(ctx context.Context)
	Stop()
}
