// Package service implements the client's offline-first behaviour on top of
// the storage and transport layers: optimistic mutations with rollback, the
// pending action queue discipline, the reconciliation pass, and the reactive
// status surface consumed by the UI.
package service

import (
	"context"

	"github.com/dalistyle/synckit/models"
)

// ClientOutfitService exposes the local record store to the UI and runs user
// mutations through the optimistic executor: local commit first, then remote
// confirmation, queueing or rollback depending on how the remote call fails.
type ClientOutfitService interface {
	// GetOutfit loads one record from the local store.
	GetOutfit(ctx context.Context, id string) (models.Outfit, error)

	// ListOutfits returns local records matching filter, newest first.
	// Works identically online and offline.
	ListOutfits(ctx context.Context, filter models.OutfitFilter) ([]models.Outfit, error)

	// CountOutfits returns the number of local records matching filter.
	CountOutfits(ctx context.Context, filter models.OutfitFilter) (int, error)

	// StoreOutfit writes a freshly generated outfit into the local store.
	// A missing ID is filled with a new UUID; timestamps are stamped.
	StoreOutfit(ctx context.Context, outfit models.Outfit) (models.Outfit, error)

	// LikeOutfit marks the record liked: local commit immediately, remote
	// confirmation or queueing in the background of the call.
	LikeOutfit(ctx context.Context, id string) error

	// UnlikeOutfit removes the like.
	UnlikeOutfit(ctx context.Context, id string) error

	// SaveOutfit adds the record to the user's collection.
	SaveOutfit(ctx context.Context, id string) error

	// UnsaveOutfit removes the record from the collection.
	UnsaveOutfit(ctx context.Context, id string) error

	// DeleteOutfit sets the record's tombstone. The deletion replicates
	// through the next reconciliation pass rather than a dedicated remote
	// call, so it always succeeds locally.
	DeleteOutfit(ctx context.Context, id string) error
}

// ClientPreferencesService manages the user's style profile with the same
// optimistic discipline as outfit mutations.
type ClientPreferencesService interface {
	GetPreferences(ctx context.Context) (models.Preferences, error)
	UpdatePreferences(ctx context.Context, prefs models.Preferences) error
}

// ClientSyncService runs reconciliation passes against the server.
type ClientSyncService interface {
	// TriggerSync runs one full pass: replay the pending action queue,
	// upload locally changed records, pull and merge server changes.
	// Concurrent calls share the pass already in progress and receive its
	// result; a second pass never starts while one is running.
	TriggerSync(ctx context.Context) (models.SyncResult, error)

	// InitialSync backfills an empty local store from the server before
	// running a regular pass. On a store that already has records it is
	// equivalent to TriggerSync.
	InitialSync(ctx context.Context) error
}

// StatusService is the reactive read surface over the engine's state.
type StatusService interface {
	// Read returns the current snapshot.
	Read() models.OfflineStatus

	// Subscribe returns a channel receiving a snapshot after every state
	// change and a cancel func releasing the subscription. Slow consumers
	// miss intermediate snapshots, never current ones.
	Subscribe() (<-chan models.OfflineStatus, func())

	// SetOnline records a committed connectivity transition.
	SetOnline(online bool)
}

// OnlineChecker answers whether the server is currently considered
// reachable. Implemented by the connectivity monitor.
type OnlineChecker interface {
	Online() bool
}
