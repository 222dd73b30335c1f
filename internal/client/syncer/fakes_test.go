package syncer

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/client/client"
	"github.com/dmitrijs2005/gophnotes/internal/client/migrations"
	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/client/replica"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// fakeRemote is an in-memory server keyed by kind and id. fail, when set,
// is consulted before every call.
type fakeRemote struct {
	mu    sync.Mutex
	data  map[models.EntityKind]map[string]json.RawMessage
	calls []string
	fail  func(op string, kind models.EntityKind, id string) error
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{data: map[models.EntityKind]map[string]json.RawMessage{
		models.KindNote:     {},
		models.KindNotebook: {},
		models.KindTag:      {},
	}}
}

func (f *fakeRemote) check(op string, kind models.EntityKind, id string) error {
	f.calls = append(f.calls, op+" "+string(kind)+" "+id)
	if f.fail != nil {
		return f.fail(op, kind, id)
	}
	return nil
}

func (f *fakeRemote) Create(_ context.Context, kind models.EntityKind, id string, payload json.RawMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("create", kind, id); err != nil {
		return err
	}
	f.data[kind][id] = payload
	return nil
}

func (f *fakeRemote) Update(_ context.Context, kind models.EntityKind, id string, payload json.RawMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("update", kind, id); err != nil {
		return err
	}
	if _, ok := f.data[kind][id]; !ok {
		return client.ErrNotFound
	}
	f.data[kind][id] = payload
	return nil
}

func (f *fakeRemote) Delete(_ context.Context, kind models.EntityKind, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("delete", kind, id); err != nil {
		return err
	}
	if _, ok := f.data[kind][id]; !ok {
		return client.ErrNotFound
	}
	delete(f.data[kind], id)
	return nil
}

func list[T any](f *fakeRemote, kind models.EntityKind) ([]T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("list", kind, ""); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(f.data[kind]))
	for id := range f.data[kind] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		var v T
		if err := json.Unmarshal(f.data[kind][id], &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeRemote) ListNotebooks(context.Context) ([]models.Notebook, error) {
	return list[models.Notebook](f, models.KindNotebook)
}

func (f *fakeRemote) ListTags(context.Context) ([]models.Tag, error) {
	return list[models.Tag](f, models.KindTag)
}

func (f *fakeRemote) ListNotes(context.Context) ([]models.Note, error) {
	return list[models.Note](f, models.KindNote)
}

// put stores v as if another device had pushed it.
func (f *fakeRemote) put(t *testing.T, kind models.EntityKind, id string, v any) {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	f.mu.Lock()
	f.data[kind][id] = b
	f.mu.Unlock()
}

func (f *fakeRemote) get(t *testing.T, kind models.EntityKind, id string, v any) bool {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.data[kind][id]
	if !ok {
		return false
	}
	require.NoError(t, json.Unmarshal(raw, v))
	return true
}

func (f *fakeRemote) setFail(fn func(op string, kind models.EntityKind, id string) error) {
	f.mu.Lock()
	f.fail = fn
	f.mu.Unlock()
}

func newStore(t *testing.T) *replica.SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.Up(context.Background(), db))

	n := replica.NewNotifier()
	t.Cleanup(n.Close)
	return replica.NewSQLiteStore(db, n, logging.NewNopLogger())
}

var t0 = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

func newNote(id, title string) *models.Note {
	return &models.Note{ID: id, Title: title, CreatedAt: t0, UpdatedAt: t0}
}

func newPusher(store replica.Queue, remote Remote, b Backoff, now time.Time) *Pusher {
	p := NewPusher(store, remote, b, logging.NewNopLogger())
	p.now = func() time.Time { return now }
	return p
}

func pending(t *testing.T, s replica.Queue) []models.QueueEntry {
	t.Helper()
	q, err := s.Pending(context.Background())
	require.NoError(t, err)
	return q
}
