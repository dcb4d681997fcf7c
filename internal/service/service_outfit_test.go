package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalistyle/synckit/internal/adapter"
	"github.com/dalistyle/synckit/internal/logger"
	"github.com/dalistyle/synckit/internal/store"
	"github.com/dalistyle/synckit/models"
)

func syncedOutfit(id string) models.Outfit {
	return models.Outfit{
		ID:         id,
		UserID:     "user-1",
		Name:       "Test Look",
		CreatedAt:  1000,
		UpdatedAt:  1000,
		SyncStatus: models.SyncStatusSynced,
	}
}

type outfitServiceEnv struct {
	repo    *fakeOutfitRepo
	queue   *fakeQueue
	adapter *fakeAdapter
	online  *fakeOnline
	status  *StatusSurface
	svc     ClientOutfitService
}

func newOutfitServiceEnv(online bool, outfits ...models.Outfit) *outfitServiceEnv {
	env := &outfitServiceEnv{
		repo:    newFakeOutfitRepo(outfits...),
		queue:   &fakeQueue{},
		adapter: &fakeAdapter{},
		online:  &fakeOnline{v: online},
		status:  NewStatusSurface(),
	}
	env.svc = NewClientOutfitService(env.repo, env.queue, env.adapter, env.online, env.status, logger.Nop())
	return env
}

func TestLikeOutfit_OnlineSuccess(t *testing.T) {
	env := newOutfitServiceEnv(true, syncedOutfit("outfit-1"))
	ctx := context.Background()

	require.NoError(t, env.svc.LikeOutfit(ctx, "outfit-1"))

	got := env.repo.get("outfit-1")
	assert.True(t, got.IsLiked)
	assert.Equal(t, models.SyncStatusSynced, got.SyncStatus)
	assert.Greater(t, got.UpdatedAt, int64(1000))

	assert.Equal(t, 1, env.adapter.callCount("like:"))

	count, _ := env.queue.Count(ctx)
	assert.Zero(t, count)
}

func TestLikeOutfit_OfflineQueues(t *testing.T) {
	env := newOutfitServiceEnv(false, syncedOutfit("outfit-1"))
	ctx := context.Background()

	require.NoError(t, env.svc.LikeOutfit(ctx, "outfit-1"))

	// Local state flips immediately; remote confirmation waits in the queue.
	got := env.repo.get("outfit-1")
	assert.True(t, got.IsLiked)
	assert.Equal(t, models.SyncStatusPending, got.SyncStatus)
	assert.Zero(t, env.adapter.callCount("like:"))

	actions, _ := env.queue.Drain(ctx)
	require.Len(t, actions, 1)
	assert.Equal(t, models.ActionLike, actions[0].Type)
	assert.Equal(t, "outfit-1", actions[0].EntityID)

	assert.Equal(t, 1, env.status.Read().PendingSyncCount)
}

func TestLikeOutfit_TransientFailureBehavesAsOffline(t *testing.T) {
	env := newOutfitServiceEnv(true, syncedOutfit("outfit-1"))
	env.adapter.flagFunc = func(string, string) (models.Outfit, error) {
		return models.Outfit{}, adapter.ErrNetworkUnavailable
	}
	ctx := context.Background()

	require.NoError(t, env.svc.LikeOutfit(ctx, "outfit-1"))

	got := env.repo.get("outfit-1")
	assert.True(t, got.IsLiked)
	assert.Equal(t, models.SyncStatusPending, got.SyncStatus)

	actions, _ := env.queue.Drain(ctx)
	require.Len(t, actions, 1)
	assert.Equal(t, models.ActionLike, actions[0].Type)
}

func TestLikeOutfit_RejectionRollsBackExactly(t *testing.T) {
	env := newOutfitServiceEnv(true, syncedOutfit("outfit-1"))
	env.adapter.flagFunc = func(string, string) (models.Outfit, error) {
		return models.Outfit{}, adapter.ErrRemoteRejected
	}
	ctx := context.Background()

	err := env.svc.LikeOutfit(ctx, "outfit-1")
	assert.ErrorIs(t, err, adapter.ErrRemoteRejected)

	// Full restoration: flag, timestamp and status all back to the
	// pre-mutation values, so the failed attempt cannot win a later
	// last-write-wins comparison.
	got := env.repo.get("outfit-1")
	assert.False(t, got.IsLiked)
	assert.Equal(t, int64(1000), got.UpdatedAt)
	assert.Equal(t, models.SyncStatusSynced, got.SyncStatus)

	count, _ := env.queue.Count(ctx)
	assert.Zero(t, count)
}

func TestLikeOutfit_AlreadyLikedIsNoOp(t *testing.T) {
	liked := syncedOutfit("outfit-1")
	liked.IsLiked = true
	env := newOutfitServiceEnv(true, liked)

	require.NoError(t, env.svc.LikeOutfit(context.Background(), "outfit-1"))

	assert.Zero(t, env.adapter.callCount("like:"))
	assert.Equal(t, int64(1000), env.repo.get("outfit-1").UpdatedAt)
}

func TestLikeOutfit_UnknownRecord(t *testing.T) {
	env := newOutfitServiceEnv(true)

	err := env.svc.LikeOutfit(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrOutfitNotFound)

	err = env.svc.LikeOutfit(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyOutfitID)
}

func TestLikeThenUnlikeOffline_NetsToNothing(t *testing.T) {
	env := newOutfitServiceEnv(false, syncedOutfit("outfit-1"))
	ctx := context.Background()

	require.NoError(t, env.svc.LikeOutfit(ctx, "outfit-1"))
	require.NoError(t, env.svc.UnlikeOutfit(ctx, "outfit-1"))

	// The two queue entries cancelled; the record keeps the latest local
	// state and uploads through the batch exchange instead.
	count, _ := env.queue.Count(ctx)
	assert.Zero(t, count)

	got := env.repo.get("outfit-1")
	assert.False(t, got.IsLiked)
	assert.Equal(t, models.SyncStatusPending, got.SyncStatus)
}

func TestLikeOutfit_QueuedEntityStaysQueued(t *testing.T) {
	env := newOutfitServiceEnv(true, syncedOutfit("outfit-1"))
	ctx := context.Background()

	// An earlier action for the same record is still waiting: a direct
	// remote call would overtake it, so the new mutation queues behind it.
	require.NoError(t, env.queue.Enqueue(ctx, models.ActionSave, "outfit-1"))

	require.NoError(t, env.svc.LikeOutfit(ctx, "outfit-1"))

	assert.Zero(t, env.adapter.callCount("like:"))
	count, _ := env.queue.Count(ctx)
	assert.Equal(t, 2, count)
}

func TestLikeOutfit_ServerCopyWins(t *testing.T) {
	env := newOutfitServiceEnv(true, syncedOutfit("outfit-1"))
	env.adapter.flagFunc = func(_, id string) (models.Outfit, error) {
		return models.Outfit{ID: id, IsLiked: true, UpdatedAt: 99_999}, nil
	}

	require.NoError(t, env.svc.LikeOutfit(context.Background(), "outfit-1"))

	got := env.repo.get("outfit-1")
	assert.Equal(t, int64(99_999), got.UpdatedAt)
	assert.Equal(t, models.SyncStatusSynced, got.SyncStatus)
}

func TestLikeOutfit_ConcurrentDuplicatesCoalesce(t *testing.T) {
	env := newOutfitServiceEnv(true, syncedOutfit("outfit-1"))

	gate := make(chan struct{})
	started := make(chan struct{}, 2)
	env.adapter.flagFunc = func(string, string) (models.Outfit, error) {
		started <- struct{}{}
		<-gate
		return models.Outfit{}, nil
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	run := func(slot int) {
		defer wg.Done()
		errs[slot] = env.svc.LikeOutfit(context.Background(), "outfit-1")
	}

	wg.Add(1)
	go run(0)
	<-started // first call holds the in-flight slot

	wg.Add(1)
	go run(1)
	time.Sleep(20 * time.Millisecond) // let the duplicate park on the slot

	close(gate)
	wg.Wait()

	assert.NoError(t, errs[0])
	assert.NoError(t, errs[1])
	assert.Equal(t, 1, env.adapter.callCount("like:"))
}

func TestDeleteOutfit_SetsTombstone(t *testing.T) {
	env := newOutfitServiceEnv(true, syncedOutfit("outfit-1"))
	ctx := context.Background()

	require.NoError(t, env.svc.DeleteOutfit(ctx, "outfit-1"))

	got := env.repo.get("outfit-1")
	assert.True(t, got.IsDeleted)
	assert.Equal(t, models.SyncStatusPending, got.SyncStatus)

	// Tombstones replicate through the batch exchange, not the queue.
	count, _ := env.queue.Count(ctx)
	assert.Zero(t, count)

	// The record stays readable when asked for explicitly.
	outfits, err := env.svc.ListOutfits(ctx, models.OutfitFilter{IncludeDeleted: true})
	require.NoError(t, err)
	assert.Len(t, outfits, 1)

	outfits, err = env.svc.ListOutfits(ctx, models.OutfitFilter{})
	require.NoError(t, err)
	assert.Empty(t, outfits)
}

func TestStoreOutfit_FillsIdentityAndMarksPending(t *testing.T) {
	env := newOutfitServiceEnv(true)

	stored, err := env.svc.StoreOutfit(context.Background(), models.Outfit{Name: "Generated Look"})
	require.NoError(t, err)

	assert.NotEmpty(t, stored.ID)
	assert.Equal(t, "user-1", stored.UserID)
	assert.NotZero(t, stored.CreatedAt)
	assert.Equal(t, stored.CreatedAt, stored.UpdatedAt)
	assert.Equal(t, models.SyncStatusPending, stored.SyncStatus)

	got := env.repo.get(stored.ID)
	assert.Equal(t, stored, got)
}
