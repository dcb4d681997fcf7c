package models

// Preferences is the user's style profile collected during onboarding and
// editable afterwards. Like outfit records it is replicated last-write-wins,
// but as a per-user singleton: there is at most one row locally and at most
// one update_preferences action in the queue.
type Preferences struct {
	UserID    string   `json:"userId"`
	BodyType  string   `json:"bodyType"`
	Styles    []string `json:"styles"`
	Occasions []string `json:"occasions"`
	UpdatedAt int64    `json:"updatedAt"`
}
