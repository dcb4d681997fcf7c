// Package store implements the client's durable storage layer: the local
// outfit record store, the pending action queue, and the preferences row.
// All three live in one SQLite database so they survive process restarts
// together.
//
// Every method is atomic from the caller's perspective: a single SQL
// statement or a single transaction. Callers never observe a half-applied
// write.
package store

import (
	"context"

	"github.com/dalistyle/synckit/models"
)

// OutfitRepository is the local record store for generated outfits. Records
// are never removed physically; deletion flips the is_deleted tombstone so
// it replicates like any other field.
type OutfitRepository interface {
	// Get loads a single outfit by id. Returns ErrOutfitNotFound if no row
	// exists.
	Get(ctx context.Context, id string) (models.Outfit, error)

	// Upsert inserts the record or replaces its mutable columns. CreatedAt
	// of an existing row is preserved.
	Upsert(ctx context.Context, outfit models.Outfit) error

	// Query returns records matching filter, newest first.
	Query(ctx context.Context, filter models.OutfitFilter) ([]models.Outfit, error)

	// Count returns the number of records matching filter.
	Count(ctx context.Context, filter models.OutfitFilter) (int, error)

	// SetFlag atomically writes one boolean flag together with the record's
	// updated_at and sync_status in a single statement. This is the
	// primitive behind optimistic mutations: either all three columns
	// change or none does. Returns ErrOutfitNotFound if no row exists.
	SetFlag(ctx context.Context, id string, flag models.OutfitFlag, value bool, ts int64, status models.SyncStatus) error

	// SetSyncStatus rewrites only the sync_status column, leaving
	// updated_at untouched so reconciliation bookkeeping does not shift
	// the last-write-wins comparator.
	SetSyncStatus(ctx context.Context, id string, status models.SyncStatus) error

	// ListPending returns all records whose sync_status is pending, oldest
	// update first, for the batch upload step of a sync pass.
	ListPending(ctx context.Context) ([]models.Outfit, error)
}

// ActionQueueRepository is the persisted FIFO queue of user mutations
// awaiting upload. Entries are immutable once enqueued; only the attempts
// counter moves.
type ActionQueueRepository interface {
	// Enqueue appends an action unless an already queued action for the
	// same entity logically cancels with it, in which case both are
	// removed (net-zero collapse). A queued action of the same type for
	// the same entity is superseded by the new one. Never fails on
	// capacity: the queue is unbounded here.
	Enqueue(ctx context.Context, actionType models.ActionType, entityID string) error

	// Drain returns a FIFO snapshot of the queue without removing entries.
	// Removal after confirmed upload is the caller's responsibility, which
	// keeps partial-failure recovery possible.
	Drain(ctx context.Context) ([]models.PendingAction, error)

	// Remove deletes queued actions matching entity and type.
	Remove(ctx context.Context, entityID string, actionType models.ActionType) error

	// IncrementAttempts bumps the upload attempt counter of one action.
	IncrementAttempts(ctx context.Context, actionID string) error

	// Count returns the number of queued actions.
	Count(ctx context.Context) (int, error)

	// HasPending reports whether any action is queued for the entity.
	HasPending(ctx context.Context, entityID string) (bool, error)
}

// PreferencesRepository stores the user's style profile as a local
// singleton row. Put with an explicit sync status doubles as the
// "placeholder" write path: unlike SetFlag, it may create the row.
type PreferencesRepository interface {
	// Get loads the stored preferences. Returns ErrPreferencesNotFound if
	// the user has not completed onboarding yet.
	Get(ctx context.Context) (models.Preferences, error)

	// Put inserts or replaces the preferences row with the given sync
	// status.
	Put(ctx context.Context, prefs models.Preferences, status models.SyncStatus) error

	// Clear removes the preferences row. Used to roll back an optimistic
	// first-time write that the server definitively rejected.
	Clear(ctx context.Context) error
}
