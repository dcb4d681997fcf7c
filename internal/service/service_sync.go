package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/dalistyle/synckit/internal/adapter"
	"github.com/dalistyle/synckit/internal/logger"
	"github.com/dalistyle/synckit/internal/store"
	"github.com/dalistyle/synckit/models"
)

// maxUploadAttempts bounds how many reconciliation passes keep retrying one
// queued action before it is dropped and its record flagged for attention.
const maxUploadAttempts = 3

// syncPass is one in-progress reconciliation. Joiners block on done and read
// the shared result.
type syncPass struct {
	done   chan struct{}
	result models.SyncResult
	err    error
}

type clientSyncService struct {
	outfits store.OutfitRepository
	queue   store.ActionQueueRepository
	prefs   store.PreferencesRepository
	adapter adapter.ServerAdapter
	status  *StatusSurface
	logger  *logger.Logger

	// uploadBackoffBase seeds the per-action retry backoff inside a pass.
	// Tests shrink it.
	uploadBackoffBase time.Duration

	mu           sync.Mutex
	inflight     *syncPass
	lastSyncTime int64
}

// NewClientSyncService wires the reconciliation orchestrator. The pull
// watermark starts at zero, so the first pass after process start requests
// the full changed set; last-write-wins merging makes the wide pull safe.
func NewClientSyncService(
	outfits store.OutfitRepository,
	queue store.ActionQueueRepository,
	prefs store.PreferencesRepository,
	serverAdapter adapter.ServerAdapter,
	status *StatusSurface,
	logger *logger.Logger,
) ClientSyncService {
	return &clientSyncService{
		outfits:           outfits,
		queue:             queue,
		prefs:             prefs,
		adapter:           serverAdapter,
		status:            status,
		logger:            logger,
		uploadBackoffBase: time.Second,
	}
}

// TriggerSync implements [ClientSyncService]. The in-flight pass is shared:
// a caller arriving while one runs blocks until it finishes and receives its
// result, so passes never overlap and never pile up.
func (s *clientSyncService) TriggerSync(ctx context.Context) (models.SyncResult, error) {
	s.mu.Lock()
	if current := s.inflight; current != nil {
		s.mu.Unlock()
		select {
		case <-ctx.Done():
			return models.SyncResult{}, ctx.Err()
		case <-current.done:
			return current.result, current.err
		}
	}

	pass := &syncPass{done: make(chan struct{})}
	s.inflight = pass
	s.mu.Unlock()

	s.status.setSyncing(true)
	pass.result, pass.err = s.runPass(ctx)
	s.status.setSyncing(false)

	s.mu.Lock()
	s.inflight = nil
	s.mu.Unlock()
	close(pass.done)

	return pass.result, pass.err
}

// InitialSync implements [ClientSyncService]. An empty local store is
// backfilled with the user's full record set before the regular pass runs.
func (s *clientSyncService) InitialSync(ctx context.Context) error {
	count, err := s.outfits.Count(ctx, models.OutfitFilter{IncludeDeleted: true})
	if err != nil {
		return fmt.Errorf("count local records: %w", err)
	}

	if count == 0 {
		outfits, err := s.adapter.DownloadAll(ctx)
		if err != nil {
			return fmt.Errorf("download backfill: %w", err)
		}

		for _, outfit := range outfits {
			outfit.SyncStatus = models.SyncStatusSynced
			if err = s.outfits.Upsert(ctx, outfit); err != nil {
				return fmt.Errorf("store backfill record %s: %w", outfit.ID, err)
			}
		}
		s.logger.Info().Str("func", "InitialSync").Int("records", len(outfits)).Msg("backfilled empty store")
	}

	_, err = s.TriggerSync(ctx)
	return err
}

// runPass executes one reconciliation: replay the action queue FIFO, upload
// locally changed records, pull and merge the server's changes. Per-action
// failures accumulate in the result; only a failed pull aborts the pass (and
// leaves the watermark unchanged, so the next pass re-pulls the same span).
func (s *clientSyncService) runPass(ctx context.Context) (models.SyncResult, error) {
	var result models.SyncResult

	actions, err := s.queue.Drain(ctx)
	if err != nil {
		return result, fmt.Errorf("drain action queue: %w", err)
	}

	for _, action := range actions {
		if err = ctx.Err(); err != nil {
			return result, err
		}
		s.replayAction(ctx, action, &result)
	}

	watermark := time.Now().UnixMilli()

	pending, err := s.outfits.ListPending(ctx)
	if err != nil {
		return result, fmt.Errorf("list pending records: %w", err)
	}

	resp, err := s.adapter.Sync(ctx, models.SyncRequest{
		Outfits:      pending,
		LastSyncTime: s.watermark(),
	})
	if err != nil {
		return result, fmt.Errorf("sync exchange: %w", err)
	}

	result.Uploaded += len(pending)

	// Merge before flipping the uploaded records to synced: their pending
	// status is what defers a stale server echo of the same records.
	s.merge(ctx, resp, &result)
	s.markUploaded(ctx, pending)

	s.setWatermark(watermark)
	s.status.setLastSyncTime(watermark)
	s.refreshPendingCount(ctx)

	s.logger.Info().Str("func", "runPass").
		Int("uploaded", result.Uploaded).Int("pulled", result.Pulled).
		Int("conflicts", len(result.Conflicts)).Int("errors", len(result.Errors)).
		Msg("sync pass complete")

	return result, nil
}

// replayAction uploads one queued action with in-pass retry on transient
// failures. A definitive rejection drops the action at once; a transient
// failure that survives the in-pass retries counts against the action's
// attempt budget across passes.
func (s *clientSyncService) replayAction(ctx context.Context, action models.PendingAction, result *models.SyncResult) {
	err := s.uploadWithRetry(ctx, action)
	if err == nil {
		if rmErr := s.queue.Remove(ctx, action.EntityID, action.Type); rmErr != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("remove %s %s: %v", action.Type, action.EntityID, rmErr))
		}
		result.Uploaded++
		return
	}

	if !adapter.IsTransient(err) {
		s.abandonAction(ctx, action, result)
		result.Errors = append(result.Errors, fmt.Sprintf("%s %s rejected: %v", action.Type, action.EntityID, err))
		return
	}

	if incErr := s.queue.IncrementAttempts(ctx, action.ID); incErr != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("count attempt %s %s: %v", action.Type, action.EntityID, incErr))
	}
	if action.Attempts+1 >= maxUploadAttempts {
		s.abandonAction(ctx, action, result)
	}
	result.Errors = append(result.Errors, fmt.Sprintf("%s %s failed: %v", action.Type, action.EntityID, err))
}

// abandonAction removes a queued action that will not be retried and flags
// its record so the UI can surface the lost mutation.
func (s *clientSyncService) abandonAction(ctx context.Context, action models.PendingAction, result *models.SyncResult) {
	if err := s.queue.Remove(ctx, action.EntityID, action.Type); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("drop %s %s: %v", action.Type, action.EntityID, err))
		return
	}

	s.logger.Warn().Str("func", "abandonAction").
		Str("type", string(action.Type)).Str("entityID", action.EntityID).
		Int("attempts", action.Attempts+1).Msg("abandoning queued action")

	if action.Type == models.ActionUpdatePreferences {
		return
	}

	if err := s.outfits.SetSyncStatus(ctx, action.EntityID, models.SyncStatusConflict); err != nil && !errors.Is(err, store.ErrOutfitNotFound) {
		result.Errors = append(result.Errors, fmt.Sprintf("flag conflict %s: %v", action.EntityID, err))
	}
	result.Conflicts = append(result.Conflicts, action.EntityID)
}

// uploadWithRetry dispatches one action to the server, retrying transient
// failures with exponential backoff inside the pass. Definitive rejections
// stop the retry loop immediately.
func (s *clientSyncService) uploadWithRetry(ctx context.Context, action models.PendingAction) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = s.uploadBackoffBase

	operation := func() error {
		err := s.dispatchAction(ctx, action)
		if err != nil && !adapter.IsTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	return backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(bo, 2), ctx))
}

// dispatchAction performs the remote call for one queued action and applies
// the confirmed server state locally on success.
func (s *clientSyncService) dispatchAction(ctx context.Context, action models.PendingAction) error {
	switch action.Type {
	case models.ActionLike:
		return s.dispatchFlagAction(ctx, action.EntityID, s.adapter.Like)
	case models.ActionUnlike:
		return s.dispatchFlagAction(ctx, action.EntityID, s.adapter.Unlike)
	case models.ActionSave:
		return s.dispatchFlagAction(ctx, action.EntityID, s.adapter.Save)
	case models.ActionUnsave:
		return s.dispatchFlagAction(ctx, action.EntityID, s.adapter.Unsave)
	case models.ActionUpdatePreferences:
		return s.dispatchPreferences(ctx)
	default:
		// Written by a newer build; leave it for that build to replay.
		return fmt.Errorf("%w: unknown action type %q", adapter.ErrRemoteRejected, action.Type)
	}
}

func (s *clientSyncService) dispatchFlagAction(ctx context.Context, entityID string, remote func(context.Context, string) (models.Outfit, error)) error {
	serverCopy, err := remote(ctx, entityID)
	if err != nil {
		return err
	}

	if serverCopy.ID == "" {
		if err = s.outfits.SetSyncStatus(ctx, entityID, models.SyncStatusSynced); err != nil && !errors.Is(err, store.ErrOutfitNotFound) {
			return err
		}
		return nil
	}

	serverCopy.SyncStatus = models.SyncStatusSynced
	return s.outfits.Upsert(ctx, serverCopy)
}

func (s *clientSyncService) dispatchPreferences(ctx context.Context) error {
	prefs, err := s.prefs.Get(ctx)
	if err != nil {
		// The row vanished since the action was queued; nothing to upload.
		if errors.Is(err, store.ErrPreferencesNotFound) {
			return nil
		}
		return err
	}

	if err = s.adapter.PutPreferences(ctx, prefs); err != nil {
		return err
	}
	return s.prefs.Put(ctx, prefs, models.SyncStatusSynced)
}

// markUploaded flips records that went out in the batch to synced, unless
// the record moved again while the pass was running.
func (s *clientSyncService) markUploaded(ctx context.Context, uploaded []models.Outfit) {
	for _, sent := range uploaded {
		current, err := s.outfits.Get(ctx, sent.ID)
		if err != nil {
			continue
		}
		if current.UpdatedAt != sent.UpdatedAt || current.SyncStatus != models.SyncStatusPending {
			continue
		}
		if err = s.outfits.SetSyncStatus(ctx, sent.ID, models.SyncStatusSynced); err != nil {
			s.logger.Debug().Err(err).Str("func", "markUploaded").Str("id", sent.ID).Msg("cannot mark record synced")
		}
	}
}

// merge applies the pulled server records under last-write-wins:
//
//   - unknown locally: accept the server copy;
//   - a queued action or a pending local change exists: defer, the local
//     state uploads first and the next pass re-merges;
//   - server strictly newer: accept the server copy;
//   - otherwise (local newer or equal): keep local.
func (s *clientSyncService) merge(ctx context.Context, resp models.SyncResponse, result *models.SyncResult) {
	incoming := make([]models.Outfit, 0, len(resp.ServerOutfits)+len(resp.Conflicts))
	incoming = append(incoming, resp.ServerOutfits...)
	incoming = append(incoming, resp.Conflicts...)

	for _, serverCopy := range incoming {
		local, err := s.outfits.Get(ctx, serverCopy.ID)
		if errors.Is(err, store.ErrOutfitNotFound) {
			s.acceptServerCopy(ctx, serverCopy, result)
			continue
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("read local %s: %v", serverCopy.ID, err))
			continue
		}

		queued, err := s.queue.HasPending(ctx, serverCopy.ID)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("check queue %s: %v", serverCopy.ID, err))
			continue
		}
		if queued || local.SyncStatus == models.SyncStatusPending {
			continue
		}

		if serverCopy.UpdatedAt > local.UpdatedAt {
			s.acceptServerCopy(ctx, serverCopy, result)
		}
	}
}

func (s *clientSyncService) acceptServerCopy(ctx context.Context, serverCopy models.Outfit, result *models.SyncResult) {
	serverCopy.SyncStatus = models.SyncStatusSynced
	if err := s.outfits.Upsert(ctx, serverCopy); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("store server copy %s: %v", serverCopy.ID, err))
		return
	}
	result.Pulled++
}

func (s *clientSyncService) watermark() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSyncTime
}

func (s *clientSyncService) setWatermark(ts int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSyncTime = ts
}

func (s *clientSyncService) refreshPendingCount(ctx context.Context) {
	count, err := s.queue.Count(ctx)
	if err != nil {
		s.logger.Debug().Err(err).Str("func", "refreshPendingCount").Msg("cannot count queue")
		return
	}
	s.status.setPendingCount(count)
}
