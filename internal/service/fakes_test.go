package service

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/dalistyle/synckit/internal/store"
	"github.com/dalistyle/synckit/models"
)

// In-memory doubles for the storage and transport layers. They reproduce the
// contracts the services rely on (atomic SetFlag, queue collapse, sentinel
// errors) without touching SQLite or the network.

type fakeOutfitRepo struct {
	mu      sync.Mutex
	records map[string]models.Outfit
}

func newFakeOutfitRepo(outfits ...models.Outfit) *fakeOutfitRepo {
	r := &fakeOutfitRepo{records: make(map[string]models.Outfit)}
	for _, o := range outfits {
		r.records[o.ID] = o
	}
	return r
}

func (r *fakeOutfitRepo) Get(_ context.Context, id string) (models.Outfit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	outfit, ok := r.records[id]
	if !ok {
		return models.Outfit{}, store.ErrOutfitNotFound
	}
	return outfit, nil
}

func (r *fakeOutfitRepo) Upsert(_ context.Context, outfit models.Outfit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.records[outfit.ID]; ok {
		outfit.CreatedAt = existing.CreatedAt
	}
	r.records[outfit.ID] = outfit
	return nil
}

func (r *fakeOutfitRepo) Query(_ context.Context, filter models.OutfitFilter) ([]models.Outfit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Outfit
	for _, o := range r.records {
		if !filter.IncludeDeleted && o.IsDeleted {
			continue
		}
		if filter.IsLiked != nil && o.IsLiked != *filter.IsLiked {
			continue
		}
		if filter.Occasion != "" && o.Occasion != filter.Occasion {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

func (r *fakeOutfitRepo) Count(ctx context.Context, filter models.OutfitFilter) (int, error) {
	outfits, err := r.Query(ctx, filter)
	return len(outfits), err
}

func (r *fakeOutfitRepo) SetFlag(_ context.Context, id string, flag models.OutfitFlag, value bool, ts int64, status models.SyncStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	outfit, ok := r.records[id]
	if !ok {
		return store.ErrOutfitNotFound
	}
	switch flag {
	case models.FlagLiked:
		outfit.IsLiked = value
	case models.FlagFavorited:
		outfit.IsFavorited = value
	case models.FlagDeleted:
		outfit.IsDeleted = value
	}
	outfit.UpdatedAt = ts
	outfit.SyncStatus = status
	r.records[id] = outfit
	return nil
}

func (r *fakeOutfitRepo) SetSyncStatus(_ context.Context, id string, status models.SyncStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	outfit, ok := r.records[id]
	if !ok {
		return store.ErrOutfitNotFound
	}
	outfit.SyncStatus = status
	r.records[id] = outfit
	return nil
}

func (r *fakeOutfitRepo) ListPending(_ context.Context) ([]models.Outfit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Outfit
	for _, o := range r.records {
		if o.SyncStatus == models.SyncStatusPending {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt < out[j].UpdatedAt })
	return out, nil
}

func (r *fakeOutfitRepo) get(id string) models.Outfit {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.records[id]
}

type fakeQueue struct {
	mu      sync.Mutex
	actions []models.PendingAction
	nextID  int
	seq     int64
}

func (q *fakeQueue) Enqueue(_ context.Context, actionType models.ActionType, entityID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if opposite, ok := actionType.Opposite(); ok {
		if q.removeLocked(entityID, opposite) {
			return nil
		}
	}
	q.removeLocked(entityID, actionType)

	q.nextID++
	q.seq++
	q.actions = append(q.actions, models.PendingAction{
		ID:         "action-" + strconv.Itoa(q.nextID),
		Type:       actionType,
		EntityID:   entityID,
		EnqueuedAt: q.seq,
	})
	return nil
}

func (q *fakeQueue) removeLocked(entityID string, actionType models.ActionType) bool {
	kept := q.actions[:0]
	removed := false
	for _, a := range q.actions {
		if a.EntityID == entityID && a.Type == actionType {
			removed = true
			continue
		}
		kept = append(kept, a)
	}
	q.actions = kept
	return removed
}

func (q *fakeQueue) Drain(_ context.Context) ([]models.PendingAction, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]models.PendingAction, len(q.actions))
	copy(out, q.actions)
	return out, nil
}

func (q *fakeQueue) Remove(_ context.Context, entityID string, actionType models.ActionType) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.removeLocked(entityID, actionType)
	return nil
}

func (q *fakeQueue) IncrementAttempts(_ context.Context, actionID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i := range q.actions {
		if q.actions[i].ID == actionID {
			q.actions[i].Attempts++
		}
	}
	return nil
}

func (q *fakeQueue) Count(_ context.Context) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.actions), nil
}

func (q *fakeQueue) HasPending(_ context.Context, entityID string) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, a := range q.actions {
		if a.EntityID == entityID {
			return true, nil
		}
	}
	return false, nil
}

func (q *fakeQueue) seed(actions ...models.PendingAction) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.actions = append(q.actions, actions...)
}

type fakePrefsRepo struct {
	mu     sync.Mutex
	prefs  models.Preferences
	status models.SyncStatus
	stored bool
}

func (r *fakePrefsRepo) Get(_ context.Context) (models.Preferences, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.stored {
		return models.Preferences{}, store.ErrPreferencesNotFound
	}
	return r.prefs, nil
}

func (r *fakePrefsRepo) Put(_ context.Context, prefs models.Preferences, status models.SyncStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefs = prefs
	r.status = status
	r.stored = true
	return nil
}

func (r *fakePrefsRepo) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefs = models.Preferences{}
	r.status = ""
	r.stored = false
	return nil
}

// fakeAdapter records calls and answers from per-method stubs. A nil stub
// answers success with a zero record.
type fakeAdapter struct {
	mu    sync.Mutex
	calls []string

	flagFunc     func(method, id string) (models.Outfit, error)
	prefsErr     error
	syncFunc     func(req models.SyncRequest) (models.SyncResponse, error)
	downloadResp []models.Outfit
	downloadErr  error
}

func (a *fakeAdapter) record(call string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, call)
}

func (a *fakeAdapter) callCount(prefix string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, c := range a.calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func (a *fakeAdapter) SetToken(string) {}
func (a *fakeAdapter) Token() string   { return "" }
func (a *fakeAdapter) UserID() string  { return "user-1" }

func (a *fakeAdapter) flagCall(method, id string) (models.Outfit, error) {
	a.record(method + ":" + id)
	if a.flagFunc == nil {
		return models.Outfit{}, nil
	}
	return a.flagFunc(method, id)
}

func (a *fakeAdapter) Like(_ context.Context, id string) (models.Outfit, error) {
	return a.flagCall("like", id)
}

func (a *fakeAdapter) Unlike(_ context.Context, id string) (models.Outfit, error) {
	return a.flagCall("unlike", id)
}

func (a *fakeAdapter) Save(_ context.Context, id string) (models.Outfit, error) {
	return a.flagCall("save", id)
}

func (a *fakeAdapter) Unsave(_ context.Context, id string) (models.Outfit, error) {
	return a.flagCall("unsave", id)
}

func (a *fakeAdapter) PutPreferences(_ context.Context, _ models.Preferences) error {
	a.record("preferences")
	return a.prefsErr
}

func (a *fakeAdapter) Sync(_ context.Context, req models.SyncRequest) (models.SyncResponse, error) {
	a.record("sync")
	if a.syncFunc == nil {
		return models.SyncResponse{}, nil
	}
	return a.syncFunc(req)
}

func (a *fakeAdapter) DownloadAll(_ context.Context) ([]models.Outfit, error) {
	a.record("download")
	return a.downloadResp, a.downloadErr
}

type fakeOnline struct {
	mu sync.Mutex
	v  bool
}

func (o *fakeOnline) Online() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.v
}

func (o *fakeOnline) Set(v bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.v = v
}
