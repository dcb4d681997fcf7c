package service

import (
	"sync"

	"github.com/dalistyle/synckit/models"
)

// subscriberBuffer bounds each subscription channel. A consumer that falls
// behind misses intermediate snapshots and catches up on the next change.
const subscriberBuffer = 8

// StatusSurface is the single process-wide holder of [models.OfflineStatus].
// Writers are the connectivity monitor and the sync orchestrator; readers
// are the UI layer, via Read or Subscribe.
type StatusSurface struct {
	mu     sync.Mutex
	status models.OfflineStatus
	subs   map[int]chan models.OfflineStatus
	nextID int
}

// NewStatusSurface creates a status surface. Initial state is offline with
// no sync history.
func NewStatusSurface() *StatusSurface {
	return &StatusSurface{subs: make(map[int]chan models.OfflineStatus)}
}

// Read implements [StatusService].
func (s *StatusSurface) Read() models.OfflineStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Subscribe implements [StatusService]. The cancel func is idempotent.
func (s *StatusSurface) Subscribe() (<-chan models.OfflineStatus, func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	ch := make(chan models.OfflineStatus, subscriberBuffer)
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			close(ch)
			s.mu.Unlock()
		})
	}

	return ch, cancel
}

// SetOnline implements [StatusService]. WasOnline keeps the previous sample
// so subscribers can detect the edge.
func (s *StatusSurface) SetOnline(online bool) {
	s.update(func(st *models.OfflineStatus) {
		st.WasOnline = st.IsOnline
		st.IsOnline = online
	})
}

func (s *StatusSurface) setSyncing(syncing bool) {
	s.update(func(st *models.OfflineStatus) { st.IsSyncing = syncing })
}

func (s *StatusSurface) setLastSyncTime(ts int64) {
	s.update(func(st *models.OfflineStatus) { st.LastSyncTime = ts })
}

func (s *StatusSurface) setPendingCount(n int) {
	s.update(func(st *models.OfflineStatus) { st.PendingSyncCount = n })
}

// update applies mutate and notifies subscribers with non-blocking sends, so
// a stalled consumer drops snapshots instead of stalling the writer. Sends
// happen under the lock: cancellation closes channels under the same lock,
// which rules out a send on a closed channel.
func (s *StatusSurface) update(mutate func(*models.OfflineStatus)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mutate(&s.status)
	for _, ch := range s.subs {
		select {
		case ch <- s.status:
		default:
		}
	}
}
