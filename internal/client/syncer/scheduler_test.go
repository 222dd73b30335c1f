package syncer

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/client/client"
	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/client/replica"
	"github.com/dmitrijs2005/gophnotes/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSyncer(t *testing.T, remote Remote, interval time.Duration) (*Syncer, *replica.SQLiteStore) {
	t.Helper()
	store := newStore(t)
	log := logging.NewNopLogger()
	s := NewSyncer(
		NewPusher(store, remote, testBackoff, log),
		NewPuller(store, remote, log),
		store, interval, log,
	)
	return s, store
}

func TestSyncOnce_PushThenPullAndRecordsTimes(t *testing.T) {
	remote := newFakeRemote()
	s, store := newSyncer(t, remote, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.SaveNote(ctx, newNote("a", "mine"), models.MutationCreate))
	remote.put(t, models.KindNote, "b", newNote("b", "theirs"))

	report, err := s.SyncOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Push.Sent)
	assert.Equal(t, 2, report.Pull.Kinds[models.KindNote].Written)
	assert.False(t, report.FinishedAt.Before(report.StartedAt))

	assert.Equal(t, "create NOTE a", remote.calls[0], "push runs before pull")

	pushAt, err := store.SyncTime(ctx, metadata.KeyLastPushAt)
	require.NoError(t, err)
	assert.False(t, pushAt.IsZero())
	pullAt, err := store.SyncTime(ctx, metadata.KeyLastPullAt)
	require.NoError(t, err)
	assert.False(t, pullAt.IsZero())
}

func TestSyncOnce_UnauthorizedSkipsPull(t *testing.T) {
	remote := newFakeRemote()
	s, store := newSyncer(t, remote, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.SaveNote(ctx, newNote("a", "mine"), models.MutationCreate))
	remote.setFail(func(string, models.EntityKind, string) error { return client.ErrUnauthorized })

	_, err := s.SyncOnce(ctx)
	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Equal(t, []string{"create NOTE a"}, remote.calls)
}

// blockingRemote parks the first Create until release is closed.
type blockingRemote struct {
	*fakeRemote
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingRemote) Create(ctx context.Context, kind models.EntityKind, id string, payload json.RawMessage) error {
	b.once.Do(func() {
		close(b.entered)
		<-b.release
	})
	return b.fakeRemote.Create(ctx, kind, id, payload)
}

func TestSyncOnce_IsNotReentrant(t *testing.T) {
	remote := &blockingRemote{fakeRemote: newFakeRemote(), entered: make(chan struct{}), release: make(chan struct{})}
	s, store := newSyncer(t, remote, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.SaveNote(ctx, newNote("a", "x"), models.MutationCreate))

	done := make(chan error, 1)
	go func() {
		_, err := s.SyncOnce(ctx)
		done <- err
	}()

	<-remote.entered
	_, err := s.SyncOnce(ctx)
	require.ErrorIs(t, err, ErrCycleInProgress)

	close(remote.release)
	require.NoError(t, <-done)

	_, err = s.SyncOnce(ctx)
	require.NoError(t, err, "the lock is released after a cycle")
}

// countingRemote counts pulls of notes to observe cycles.
type countingRemote struct {
	*fakeRemote
	mu     sync.Mutex
	cycles int
}

func (c *countingRemote) ListNotes(ctx context.Context) ([]models.Note, error) {
	c.mu.Lock()
	c.cycles++
	c.mu.Unlock()
	return c.fakeRemote.ListNotes(ctx)
}

func (c *countingRemote) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cycles
}

func TestRun_StartTriggerAndTicker(t *testing.T) {
	remote := &countingRemote{fakeRemote: newFakeRemote()}
	s, _ := newSyncer(t, remote, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, true) }()

	require.Eventually(t, func() bool { return remote.count() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
}

func TestRun_NoStartTrigger(t *testing.T) {
	remote := &countingRemote{fakeRemote: newFakeRemote()}
	s, _ := newSyncer(t, remote, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, false) }()

	time.Sleep(30 * time.Millisecond)
	cancel()
	require.NoError(t, <-done)
	assert.Zero(t, remote.count())
}
