package models

import "time"

// SyncStatus describes where a locally stored record stands relative to the
// server copy.
type SyncStatus string

const (
	// SyncStatusSynced means the record matches the last known server state.
	SyncStatusSynced SyncStatus = "synced"

	// SyncStatusPending means the record carries local changes that have not
	// been confirmed by the server yet.
	SyncStatusPending SyncStatus = "pending"

	// SyncStatusConflict means upload of the record was abandoned after the
	// bounded retry budget; the UI may surface it for manual attention.
	SyncStatusConflict SyncStatus = "conflict"
)

// OutfitFlag names a boolean column of an outfit record that can be flipped
// through the store's SetFlag primitive. Values double as column names.
type OutfitFlag string

const (
	FlagLiked     OutfitFlag = "is_liked"
	FlagFavorited OutfitFlag = "is_favorited"
	FlagDeleted   OutfitFlag = "is_deleted"
)

// Outfit is a locally stored generated-outfit record. The sync engine treats
// the payload columns (name, items, theory, style tags) as opaque; only the
// flags, timestamps and sync status participate in reconciliation.
//
// IDs are generated on the client (UUID) so records created offline keep a
// stable identity after upload. Timestamps are unix milliseconds; UpdatedAt is
// the last-write-wins comparator and strictly increases on every local
// mutation of the same record.
type Outfit struct {
	ID              string     `json:"id"`
	UserID          string     `json:"userId"`
	Name            string     `json:"name"`
	Occasion        string     `json:"occasion"`
	GarmentImageURL string     `json:"garmentImageUrl,omitempty"`
	ItemsJSON       string     `json:"items"`
	TheoryJSON      string     `json:"theory"`
	StyleTagsJSON   string     `json:"styleTags"`
	CreatedAt       int64      `json:"createdAt"`
	UpdatedAt       int64      `json:"updatedAt"`
	IsLiked         bool       `json:"isLiked"`
	IsFavorited     bool       `json:"isFavorited"`
	IsDeleted       bool       `json:"isDeleted"`
	SyncStatus      SyncStatus `json:"-"`
}

// Flag returns the current value of the named flag.
func (o Outfit) Flag(flag OutfitFlag) bool {
	switch flag {
	case FlagLiked:
		return o.IsLiked
	case FlagFavorited:
		return o.IsFavorited
	case FlagDeleted:
		return o.IsDeleted
	}
	return false
}

// OutfitFilter narrows Query and Count calls against the local record store.
// Nil pointer fields are not applied. Deleted records are excluded unless
// IncludeDeleted is set.
type OutfitFilter struct {
	UserID         string
	Occasion       string
	IsLiked        *bool
	IsFavorited    *bool
	SyncStatus     SyncStatus
	CreatedAfter   int64
	CreatedBefore  int64
	IncludeDeleted bool
	Limit          int
	Offset         int
}

// NextTimestamp returns a unix-millisecond timestamp strictly greater than
// prev. Wall clock time is used when it is already ahead; otherwise prev is
// bumped by one millisecond so UpdatedAt keeps its strict ordering even when
// two mutations land within the same clock tick.
func NextTimestamp(prev int64) int64 {
	now := time.Now().UnixMilli()
	if now <= prev {
		return prev + 1
	}
	return now
}
