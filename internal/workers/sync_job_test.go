package workers

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalistyle/synckit/internal/logger"
	"github.com/dalistyle/synckit/models"
)

type countingSyncService struct {
	calls atomic.Int32
}

func (s *countingSyncService) TriggerSync(_ context.Context) (models.SyncResult, error) {
	s.calls.Add(1)
	return models.SyncResult{}, nil
}

func (s *countingSyncService) InitialSync(_ context.Context) error {
	return nil
}

func TestSyncJob_TriggersOnInterval(t *testing.T) {
	svc := &countingSyncService{}
	job := NewSyncJob(svc, 10*time.Millisecond, logger.Nop())

	job.Start(context.Background())
	defer job.Stop()

	require.Eventually(t, func() bool {
		return svc.calls.Load() >= 3
	}, time.Second, time.Millisecond)
}

func TestSyncJob_StopHaltsTriggers(t *testing.T) {
	svc := &countingSyncService{}
	job := NewSyncJob(svc, 10*time.Millisecond, logger.Nop())

	job.Start(context.Background())
	require.Eventually(t, func() bool {
		return svc.calls.Load() >= 1
	}, time.Second, time.Millisecond)

	job.Stop()
	settled := svc.calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, svc.calls.Load())
}

func TestSyncJob_StopWithoutStartIsSafe(t *testing.T) {
	job := NewSyncJob(&countingSyncService{}, time.Minute, logger.Nop())
	job.Stop()
	job.Stop()
}

func TestSyncJob_ContextCancelStopsJob(t *testing.T) {
	svc := &countingSyncService{}
	job := NewSyncJob(svc, 10*time.Millisecond, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	job.Start(ctx)

	require.Eventually(t, func() bool {
		return svc.calls.Load() >= 1
	}, time.Second, time.Millisecond)

	cancel()
	time.Sleep(30 * time.Millisecond)
	settled := svc.calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, svc.calls.Load())

	job.Stop()
}
