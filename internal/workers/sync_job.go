package workers

import (
	"context"
	"sync"
	"time"

	"github.com/dalistyle/synckit/internal/logger"
	"github.com/dalistyle/synckit/internal/service"
)

// SyncJob runs a reconciliation pass on a fixed interval while the process
// is in the foreground. Passes triggered elsewhere (connectivity recovery,
// explicit user refresh) coalesce with the periodic ones inside the sync
// service, so overlapping triggers are harmless.
type SyncJob struct {
	syncService service.ClientSyncService
	interval    time.Duration
	logger      *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSyncJob creates a periodic sync job. A non-positive interval defaults
// to 5 minutes. The job is idle until Start is called.
func NewSyncJob(syncService service.ClientSyncService, interval time.Duration, logger *logger.Logger) *SyncJob {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &SyncJob{syncService: syncService, interval: interval, logger: logger}
}

// Start implements [Worker]. It stops any previously running job, then
// launches a goroutine triggering a sync pass every interval until ctx is
// cancelled or Stop is called.
func (j *SyncJob) Start(ctx context.Context) {
	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(j.interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				if _, err := j.syncService.TriggerSync(jobCtx); err != nil {
					j.logger.Debug().Err(err).Str("func", "SyncJob.Start").Msg("periodic sync failed")
				}
			}
		}
	}()
}

// Stop implements [Worker]. It cancels the job's goroutine and blocks until
// it has exited. Safe to call when the job is not running.
func (j *SyncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
