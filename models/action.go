package models

// ActionType is the closed set of user mutations that can wait in the pending
// action queue. Keeping it a typed constant lets the cancellation rules and
// the upload dispatch switch over every variant explicitly.
type ActionType string

const (
	ActionLike              ActionType = "like"
	ActionUnlike            ActionType = "unlike"
	ActionSave              ActionType = "save"
	ActionUnsave            ActionType = "unsave"
	ActionUpdatePreferences ActionType = "update_preferences"
)

// PreferencesEntityID is the queue entity id used for preference updates,
// which are a per-user singleton rather than a per-record mutation.
const PreferencesEntityID = "preferences"

// Valid reports whether t is one of the known action types. Rows read back
// from a database written by a newer client may carry types this build does
// not know.
func (t ActionType) Valid() bool {
	switch t {
	case ActionLike, ActionUnlike, ActionSave, ActionUnsave, ActionUpdatePreferences:
		return true
	}
	return false
}

// Opposite returns the action that logically cancels t, if one exists.
// A queued like followed by an unlike for the same record nets out to no
// remote call at all; preference updates have no opposite, a later one simply
// supersedes the earlier.
func (t ActionType) Opposite() (ActionType, bool) {
	switch t {
	case ActionLike:
		return ActionUnlike, true
	case ActionUnlike:
		return ActionLike, true
	case ActionSave:
		return ActionUnsave, true
	case ActionUnsave:
		return ActionSave, true
	}
	return "", false
}

// PendingAction is a user mutation recorded while the device was offline (or
// while a remote call failed transiently). Actions are immutable once
// enqueued; the queue removes them after a confirmed upload. Attempts counts
// upload tries across sync passes for the bounded-retry cutoff.
type PendingAction struct {
	ID         string     `json:"id"`
	Type       ActionType `json:"type"`
	EntityID   string     `json:"entityId"`
	EnqueuedAt int64      `json:"enqueuedAt"`
	Attempts   int        `json:"attempts"`
}
