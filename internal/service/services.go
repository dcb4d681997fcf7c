package service

import (
	"github.com/dalistyle/synckit/internal/adapter"
	"github.com/dalistyle/synckit/internal/logger"
	"github.com/dalistyle/synckit/internal/store"
)

// ClientServices groups the client-side services behind one value.
type ClientServices struct {
	Status             *StatusSurface
	OutfitService      ClientOutfitService
	PreferencesService ClientPreferencesService
	SyncService        ClientSyncService
}

// NewClientServices wires the service layer over the storage aggregate and
// the server adapter. online is the connectivity monitor's committed state;
// the monitor itself is constructed by the caller because it also needs the
// sync trigger from this layer.
func NewClientServices(
	storages *store.ClientStorages,
	serverAdapter adapter.ServerAdapter,
	online OnlineChecker,
	status *StatusSurface,
	logger *logger.Logger,
) *ClientServices {
	outfitSvc := NewClientOutfitService(storages.Outfits, storages.Actions, serverAdapter, online, status, logger)
	prefsSvc := NewClientPreferencesService(storages.Preferences, storages.Actions, serverAdapter, online, status, logger)
	syncSvc := NewClientSyncService(storages.Outfits, storages.Actions, storages.Preferences, serverAdapter, status, logger)

	return &ClientServices{
		Status:             status,
		OutfitService:      outfitSvc,
		PreferencesService: prefsSvc,
		SyncService:        syncSvc,
	}
}
