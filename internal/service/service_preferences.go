package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalistyle/synckit/internal/adapter"
	"github.com/dalistyle/synckit/internal/logger"
	"github.com/dalistyle/synckit/internal/store"
	"github.com/dalistyle/synckit/models"
)

type clientPreferencesService struct {
	prefs   store.PreferencesRepository
	queue   store.ActionQueueRepository
	adapter adapter.ServerAdapter
	online  OnlineChecker
	status  *StatusSurface
	logger  *logger.Logger
}

// NewClientPreferencesService wires the optimistic executor for the style
// profile singleton.
func NewClientPreferencesService(
	prefs store.PreferencesRepository,
	queue store.ActionQueueRepository,
	serverAdapter adapter.ServerAdapter,
	online OnlineChecker,
	status *StatusSurface,
	logger *logger.Logger,
) ClientPreferencesService {
	return &clientPreferencesService{
		prefs:   prefs,
		queue:   queue,
		adapter: serverAdapter,
		online:  online,
		status:  status,
		logger:  logger,
	}
}

func (s *clientPreferencesService) GetPreferences(ctx context.Context) (models.Preferences, error) {
	return s.prefs.Get(ctx)
}

// UpdatePreferences follows the outfit mutation protocol for the singleton
// row. An earlier queued preferences update is superseded by the new one at
// the queue level; only the latest local state is ever uploaded.
func (s *clientPreferencesService) UpdatePreferences(ctx context.Context, prefs models.Preferences) error {
	if prefs.UserID == "" {
		prefs.UserID = s.adapter.UserID()
	}
	if prefs.UserID == "" {
		return ErrInvalidPreferences
	}

	previous, err := s.prefs.Get(ctx)
	hadPrevious := true
	if errors.Is(err, store.ErrPreferencesNotFound) {
		hadPrevious = false
	} else if err != nil {
		return err
	}

	prefs.UpdatedAt = models.NextTimestamp(previous.UpdatedAt)
	if err = s.prefs.Put(ctx, prefs, models.SyncStatusPending); err != nil {
		return fmt.Errorf("optimistic preferences commit: %w", err)
	}

	if !s.online.Online() {
		return s.enqueue(ctx)
	}

	err = s.adapter.PutPreferences(ctx, prefs)
	switch {
	case err == nil:
		if err = s.prefs.Put(ctx, prefs, models.SyncStatusSynced); err != nil {
			return fmt.Errorf("mark preferences synced: %w", err)
		}
		return nil

	case adapter.IsTransient(err):
		s.logger.Debug().Err(err).Str("func", "UpdatePreferences").
			Msg("remote unreachable, queueing preferences update")
		return s.enqueue(ctx)

	default:
		if rbErr := s.rollback(ctx, previous, hadPrevious); rbErr != nil {
			s.logger.Error().Err(rbErr).Str("func", "UpdatePreferences").Msg("preferences rollback failed")
		}
		return fmt.Errorf("update preferences: %w", err)
	}
}

func (s *clientPreferencesService) rollback(ctx context.Context, previous models.Preferences, hadPrevious bool) error {
	if !hadPrevious {
		return s.prefs.Clear(ctx)
	}
	return s.prefs.Put(ctx, previous, models.SyncStatusSynced)
}

func (s *clientPreferencesService) enqueue(ctx context.Context) error {
	if err := s.queue.Enqueue(ctx, models.ActionUpdatePreferences, models.PreferencesEntityID); err != nil {
		return fmt.Errorf("enqueue preferences update: %w", err)
	}

	if count, err := s.queue.Count(ctx); err == nil {
		s.status.setPendingCount(count)
	}
	return nil
}
