package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/dalistyle/synckit/internal/adapter"
	"github.com/dalistyle/synckit/internal/logger"
	"github.com/dalistyle/synckit/internal/store"
	"github.com/dalistyle/synckit/models"
)

// inflightMutation tracks one outstanding flag mutation so duplicates can
// coalesce onto its result instead of racing it.
type inflightMutation struct {
	desired bool
	done    chan struct{}
	err     error
}

type clientOutfitService struct {
	outfits store.OutfitRepository
	queue   store.ActionQueueRepository
	adapter adapter.ServerAdapter
	online  OnlineChecker
	status  *StatusSurface
	logger  *logger.Logger

	mu       sync.Mutex
	inflight map[string]*inflightMutation
}

// NewClientOutfitService wires the optimistic mutation executor over the
// local store, the pending action queue and the server adapter.
func NewClientOutfitService(
	outfits store.OutfitRepository,
	queue store.ActionQueueRepository,
	serverAdapter adapter.ServerAdapter,
	online OnlineChecker,
	status *StatusSurface,
	logger *logger.Logger,
) ClientOutfitService {
	return &clientOutfitService{
		outfits:  outfits,
		queue:    queue,
		adapter:  serverAdapter,
		online:   online,
		status:   status,
		logger:   logger,
		inflight: make(map[string]*inflightMutation),
	}
}

func (s *clientOutfitService) GetOutfit(ctx context.Context, id string) (models.Outfit, error) {
	if id == "" {
		return models.Outfit{}, ErrEmptyOutfitID
	}
	return s.outfits.Get(ctx, id)
}

func (s *clientOutfitService) ListOutfits(ctx context.Context, filter models.OutfitFilter) ([]models.Outfit, error) {
	return s.outfits.Query(ctx, filter)
}

func (s *clientOutfitService) CountOutfits(ctx context.Context, filter models.OutfitFilter) (int, error) {
	return s.outfits.Count(ctx, filter)
}

// StoreOutfit persists a freshly generated outfit. The record is stored
// pending so the next reconciliation pass uploads it.
func (s *clientOutfitService) StoreOutfit(ctx context.Context, outfit models.Outfit) (models.Outfit, error) {
	if outfit.ID == "" {
		outfit.ID = uuid.NewString()
	}
	if outfit.UserID == "" {
		outfit.UserID = s.adapter.UserID()
	}

	now := models.NextTimestamp(outfit.UpdatedAt)
	if outfit.CreatedAt == 0 {
		outfit.CreatedAt = now
	}
	outfit.UpdatedAt = now
	outfit.SyncStatus = models.SyncStatusPending

	if err := s.outfits.Upsert(ctx, outfit); err != nil {
		return models.Outfit{}, fmt.Errorf("store outfit: %w", err)
	}

	s.refreshPendingCount(ctx)
	return outfit, nil
}

func (s *clientOutfitService) LikeOutfit(ctx context.Context, id string) error {
	return s.mutateFlag(ctx, id, models.FlagLiked, true, models.ActionLike, s.adapter.Like)
}

func (s *clientOutfitService) UnlikeOutfit(ctx context.Context, id string) error {
	return s.mutateFlag(ctx, id, models.FlagLiked, false, models.ActionUnlike, s.adapter.Unlike)
}

func (s *clientOutfitService) SaveOutfit(ctx context.Context, id string) error {
	return s.mutateFlag(ctx, id, models.FlagFavorited, true, models.ActionSave, s.adapter.Save)
}

func (s *clientOutfitService) UnsaveOutfit(ctx context.Context, id string) error {
	return s.mutateFlag(ctx, id, models.FlagFavorited, false, models.ActionUnsave, s.adapter.Unsave)
}

// DeleteOutfit sets the tombstone locally. No queue entry is written: the
// pending record itself carries the deletion to the server on the next pass.
func (s *clientOutfitService) DeleteOutfit(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptyOutfitID
	}

	current, err := s.outfits.Get(ctx, id)
	if err != nil {
		return err
	}

	ts := models.NextTimestamp(current.UpdatedAt)
	if err = s.outfits.SetFlag(ctx, id, models.FlagDeleted, true, ts, models.SyncStatusPending); err != nil {
		return fmt.Errorf("delete outfit: %w", err)
	}

	s.refreshPendingCount(ctx)
	return nil
}

// mutateFlag runs the optimistic mutation protocol:
//
//  1. register the mutation in the per-entity in-flight table; a duplicate
//     with the same desired value coalesces onto the outstanding call, a
//     different value waits its turn;
//  2. commit the new value locally (flag + bumped updated_at + pending, one
//     atomic write) after snapshotting the previous state;
//  3. offline, or with actions already queued for the entity, enqueue and
//     succeed — the queue preserves user intent order;
//  4. online, confirm remotely: success marks the record synced, a transient
//     failure enqueues (same as offline), a definitive rejection restores
//     the snapshot and propagates the error.
func (s *clientOutfitService) mutateFlag(
	ctx context.Context,
	id string,
	flag models.OutfitFlag,
	desired bool,
	actionType models.ActionType,
	remote func(context.Context, string) (models.Outfit, error),
) error {
	if id == "" {
		return ErrEmptyOutfitID
	}

	key := string(flag) + ":" + id
	for {
		s.mu.Lock()
		outstanding, ok := s.inflight[key]
		if !ok {
			call := &inflightMutation{desired: desired, done: make(chan struct{})}
			s.inflight[key] = call
			s.mu.Unlock()

			call.err = s.runMutation(ctx, id, flag, desired, actionType, remote)

			s.mu.Lock()
			delete(s.inflight, key)
			s.mu.Unlock()
			close(call.done)
			return call.err
		}
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-outstanding.done:
		}

		// Same target state: the finished call already achieved it.
		if outstanding.desired == desired {
			return outstanding.err
		}
	}
}

func (s *clientOutfitService) runMutation(
	ctx context.Context,
	id string,
	flag models.OutfitFlag,
	desired bool,
	actionType models.ActionType,
	remote func(context.Context, string) (models.Outfit, error),
) error {
	prev, err := s.outfits.Get(ctx, id)
	if err != nil {
		return err
	}

	// Already in the desired confirmed state: nothing to do.
	if prev.Flag(flag) == desired && prev.SyncStatus == models.SyncStatusSynced {
		return nil
	}

	ts := models.NextTimestamp(prev.UpdatedAt)
	if err = s.outfits.SetFlag(ctx, id, flag, desired, ts, models.SyncStatusPending); err != nil {
		return fmt.Errorf("optimistic commit: %w", err)
	}

	queued, err := s.queue.HasPending(ctx, id)
	if err != nil {
		return fmt.Errorf("check queued actions: %w", err)
	}
	if !s.online.Online() || queued {
		return s.enqueue(ctx, actionType, id)
	}

	serverCopy, err := remote(ctx, id)
	switch {
	case err == nil:
		if err = s.confirm(ctx, id, serverCopy); err != nil {
			return err
		}
		s.refreshPendingCount(ctx)
		return nil

	case adapter.IsTransient(err):
		s.logger.Debug().Err(err).Str("func", "runMutation").Str("id", id).
			Msg("remote unreachable, queueing action")
		return s.enqueue(ctx, actionType, id)

	default:
		// Definitive rejection: restore the exact previous state, including
		// updated_at, so the failed attempt cannot shadow server changes in
		// later last-write-wins comparisons.
		if rbErr := s.outfits.SetFlag(ctx, id, flag, prev.Flag(flag), prev.UpdatedAt, prev.SyncStatus); rbErr != nil {
			s.logger.Error().Err(rbErr).Str("func", "runMutation").Str("id", id).
				Msg("rollback after rejection failed")
		}
		return fmt.Errorf("%s %s: %w", actionType, id, err)
	}
}

// confirm marks a remotely acknowledged mutation synced. When the server
// returned its record state, that copy wins locally: it is the authoritative
// post-mutation state.
func (s *clientOutfitService) confirm(ctx context.Context, id string, serverCopy models.Outfit) error {
	if serverCopy.ID == "" {
		if err := s.outfits.SetSyncStatus(ctx, id, models.SyncStatusSynced); err != nil {
			return fmt.Errorf("mark synced: %w", err)
		}
		return nil
	}

	serverCopy.SyncStatus = models.SyncStatusSynced
	if err := s.outfits.Upsert(ctx, serverCopy); err != nil {
		return fmt.Errorf("store confirmed record: %w", err)
	}
	return nil
}

func (s *clientOutfitService) enqueue(ctx context.Context, actionType models.ActionType, entityID string) error {
	if err := s.queue.Enqueue(ctx, actionType, entityID); err != nil {
		return fmt.Errorf("enqueue %s: %w", actionType, err)
	}
	s.refreshPendingCount(ctx)
	return nil
}

func (s *clientOutfitService) refreshPendingCount(ctx context.Context) {
	count, err := s.queue.Count(ctx)
	if err != nil {
		s.logger.Debug().Err(err).Str("func", "refreshPendingCount").Msg("cannot count queue")
		return
	}
	s.status.setPendingCount(count)
}
