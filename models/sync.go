package models

// SyncRequest is the body of the batch sync call: locally changed records to
// upload plus the watermark of the previous successful pull. LastSyncTime of
// zero asks for the full record set (first sync on a new device).
type SyncRequest struct {
	Outfits      []Outfit `json:"outfits"`
	LastSyncTime int64    `json:"lastSyncTime,omitempty"`
}

// SyncResponse is the server's answer to a batch sync call. Conflicts holds
// the server copies of records whose server-side UpdatedAt moved since the
// client's watermark while the client also changed them; ServerOutfits holds
// all other records updated since the watermark.
type SyncResponse struct {
	Uploaded      int      `json:"uploaded"`
	Conflicts     []Outfit `json:"conflicts"`
	ServerOutfits []Outfit `json:"serverOutfits"`
}

// SyncResult summarises one reconciliation pass. It is ephemeral: produced by
// the orchestrator, handed to the caller, never persisted. Conflicts lists
// entity ids that ended the pass flagged SyncStatusConflict. Errors collects
// per-action failures that did not abort the pass (partial success is
// success).
type SyncResult struct {
	Uploaded  int
	Pulled    int
	Conflicts []string
	Errors    []string
}

// OfflineStatus is a point-in-time snapshot of the process-wide sync state
// surfaced to the UI layer. WasOnline keeps the previous connectivity sample
// so subscribers can edge-detect transitions. LastSyncTime is unix
// milliseconds, zero if no pass has completed.
type OfflineStatus struct {
	IsOnline         bool
	WasOnline        bool
	IsSyncing        bool
	LastSyncTime     int64
	PendingSyncCount int
}
