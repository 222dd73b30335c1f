package replica

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophnotes/internal/client/repositories/notebooks"
	"github.com/dmitrijs2005/gophnotes/internal/client/repositories/notes"
	"github.com/dmitrijs2005/gophnotes/internal/client/repositories/syncqueue"
	"github.com/dmitrijs2005/gophnotes/internal/client/repositories/tags"
	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/dbx"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
)

// repos binds every replica repository to one handle, either the database or
// an open transaction.
type repos struct {
	notes     notes.Repository
	notebooks notebooks.Repository
	tags      tags.Repository
	queue     syncqueue.Repository
	metadata  metadata.Repository
}

func newRepos(db dbx.DBTX) repos {
	return repos{
		notes:     notes.NewSQLiteRepository(db),
		notebooks: notebooks.NewSQLiteRepository(db),
		tags:      tags.NewSQLiteRepository(db),
		queue:     syncqueue.NewSQLiteRepository(db),
		metadata:  metadata.NewSQLiteRepository(db),
	}
}

// SQLiteStore implements Store over the replica database. The database must
// be opened with a single connection; see client.InitDatabase.
type SQLiteStore struct {
	db       *sql.DB
	ro       repos
	notifier *Notifier
	logger   logging.Logger
	now      func() time.Time
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore wraps db. A nil notifier gets a private one.
func NewSQLiteStore(db *sql.DB, notifier *Notifier, logger logging.Logger) *SQLiteStore {
	if notifier == nil {
		notifier = NewNotifier()
	}
	return &SQLiteStore{
		db:       db,
		ro:       newRepos(db),
		notifier: notifier,
		logger:   logger.With("module", "replica"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *SQLiteStore) withTx(ctx context.Context, fn func(ctx context.Context, r repos) error) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, newRepos(tx))
	})
}

func (s *SQLiteStore) publish(kind models.EntityKind) {
	s.notifier.Publish(kind)
}

func (s *SQLiteStore) Subscribe(kinds ...models.EntityKind) <-chan Event {
	return s.notifier.Subscribe(kinds...)
}

func (s *SQLiteStore) Unsubscribe(ch <-chan Event) {
	s.notifier.Unsubscribe(ch)
}

func (s *SQLiteStore) GetNote(ctx context.Context, id string) (*models.Note, error) {
	return s.ro.notes.Get(ctx, id)
}

func (s *SQLiteStore) ListNotes(ctx context.Context) ([]models.Note, error) {
	return s.ro.notes.List(ctx)
}

func (s *SQLiteStore) GetNotebook(ctx context.Context, id string) (*models.Notebook, error) {
	return s.ro.notebooks.Get(ctx, id)
}

func (s *SQLiteStore) ListNotebooks(ctx context.Context) ([]models.Notebook, error) {
	return s.ro.notebooks.List(ctx)
}

func (s *SQLiteStore) GetTag(ctx context.Context, id string) (*models.Tag, error) {
	return s.ro.tags.Get(ctx, id)
}

func (s *SQLiteStore) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.ro.tags.List(ctx)
}

// nextStatus derives the status of a locally written entity. An entity the
// server has never acknowledged stays "created" through later updates.
func nextStatus(op models.MutationType, current models.SyncStatus) (models.SyncStatus, error) {
	switch op {
	case models.MutationCreate:
		return models.StatusCreated, nil
	case models.MutationUpdate:
		if current == models.StatusCreated {
			return models.StatusCreated, nil
		}
		return models.StatusUpdated, nil
	}
	return "", fmt.Errorf("unsupported mutation %q for save", op)
}

// currentStatus returns the stored status for an UPDATE, or an empty status
// for a CREATE. Updating a missing entity is common.ErrorNotFound.
func currentStatus[T any](ctx context.Context, op models.MutationType, get func(context.Context, string) (*T, error), id string, status func(*T) models.SyncStatus) (models.SyncStatus, error) {
	if op != models.MutationUpdate {
		return "", nil
	}
	cur, err := get(ctx, id)
	if err != nil {
		return "", err
	}
	return status(cur), nil
}

func (s *SQLiteStore) enqueue(ctx context.Context, r repos, op models.MutationType, kind models.EntityKind, id string, snapshot any) error {
	var payload json.RawMessage
	if snapshot != nil {
		b, err := json.Marshal(snapshot)
		if err != nil {
			return fmt.Errorf("failed to encode %s %s: %w", kind, id, err)
		}
		payload = b
	}
	_, err := r.queue.Enqueue(ctx, &models.QueueEntry{
		Type:       op,
		Kind:       kind,
		EntityID:   id,
		Payload:    payload,
		EnqueuedAt: s.now(),
	})
	return err
}

func (s *SQLiteStore) SaveNote(ctx context.Context, n *models.Note, op models.MutationType) error {
	err := s.withTx(ctx, func(ctx context.Context, r repos) error {
		cur, err := currentStatus(ctx, op, r.notes.Get, n.ID, func(n *models.Note) models.SyncStatus { return n.SyncStatus })
		if err != nil {
			return err
		}
		if n.SyncStatus, err = nextStatus(op, cur); err != nil {
			return err
		}
		if err := r.notes.Upsert(ctx, n); err != nil {
			return err
		}
		return s.enqueue(ctx, r, op, models.KindNote, n.ID, n)
	})
	if err != nil {
		return err
	}
	s.publish(models.KindNote)
	return nil
}

func (s *SQLiteStore) SaveNotebook(ctx context.Context, nb *models.Notebook, op models.MutationType) error {
	err := s.withTx(ctx, func(ctx context.Context, r repos) error {
		cur, err := currentStatus(ctx, op, r.notebooks.Get, nb.ID, func(nb *models.Notebook) models.SyncStatus { return nb.SyncStatus })
		if err != nil {
			return err
		}
		if nb.SyncStatus, err = nextStatus(op, cur); err != nil {
			return err
		}
		if err := r.notebooks.Upsert(ctx, nb); err != nil {
			return err
		}
		return s.enqueue(ctx, r, op, models.KindNotebook, nb.ID, nb)
	})
	if err != nil {
		return err
	}
	s.publish(models.KindNotebook)
	return nil
}

func (s *SQLiteStore) SaveTag(ctx context.Context, t *models.Tag, op models.MutationType) error {
	err := s.withTx(ctx, func(ctx context.Context, r repos) error {
		cur, err := currentStatus(ctx, op, r.tags.Get, t.ID, func(t *models.Tag) models.SyncStatus { return t.SyncStatus })
		if err != nil {
			return err
		}
		if t.SyncStatus, err = nextStatus(op, cur); err != nil {
			return err
		}
		if err := r.tags.Upsert(ctx, t); err != nil {
			return err
		}
		return s.enqueue(ctx, r, op, models.KindTag, t.ID, t)
	})
	if err != nil {
		return err
	}
	s.publish(models.KindTag)
	return nil
}

// exists reports whether kind/id has a local row.
func exists(ctx context.Context, r repos, kind models.EntityKind, id string) error {
	var err error
	switch kind {
	case models.KindNote:
		_, err = r.notes.Get(ctx, id)
	case models.KindNotebook:
		_, err = r.notebooks.Get(ctx, id)
	case models.KindTag:
		_, err = r.tags.Get(ctx, id)
	default:
		err = fmt.Errorf("%w: %q", common.ErrorUnknownKind, kind)
	}
	return err
}

func deleteRow(ctx context.Context, r repos, kind models.EntityKind, id string) error {
	switch kind {
	case models.KindNote:
		return r.notes.Delete(ctx, id)
	case models.KindNotebook:
		return r.notebooks.Delete(ctx, id)
	case models.KindTag:
		return r.tags.Delete(ctx, id)
	}
	return fmt.Errorf("%w: %q", common.ErrorUnknownKind, kind)
}

func setSynced(ctx context.Context, r repos, kind models.EntityKind, id string) error {
	var err error
	switch kind {
	case models.KindNote:
		err = r.notes.SetStatus(ctx, id, models.StatusSynced)
	case models.KindNotebook:
		err = r.notebooks.SetStatus(ctx, id, models.StatusSynced)
	case models.KindTag:
		err = r.tags.SetStatus(ctx, id, models.StatusSynced)
	default:
		return fmt.Errorf("%w: %q", common.ErrorUnknownKind, kind)
	}
	// the row may already be gone if the server pushed a delete in between
	if errors.Is(err, common.ErrorNotFound) {
		return nil
	}
	return err
}

func (s *SQLiteStore) Delete(ctx context.Context, kind models.EntityKind, id string) error {
	err := s.withTx(ctx, func(ctx context.Context, r repos) error {
		if err := exists(ctx, r, kind, id); err != nil {
			return err
		}
		if err := deleteRow(ctx, r, kind, id); err != nil {
			return err
		}
		return s.enqueue(ctx, r, models.MutationDelete, kind, id, nil)
	})
	if err != nil {
		return err
	}
	s.publish(kind)
	return nil
}

func (s *SQLiteStore) Pending(ctx context.Context) ([]models.QueueEntry, error) {
	return s.ro.queue.List(ctx)
}

func (s *SQLiteStore) Complete(ctx context.Context, e models.QueueEntry) error {
	err := s.withTx(ctx, func(ctx context.Context, r repos) error {
		if err := r.queue.Remove(ctx, e.Seq); err != nil {
			return err
		}
		if e.Type == models.MutationDelete {
			return deleteRow(ctx, r, e.Kind, e.EntityID)
		}
		left, err := r.queue.CountForEntity(ctx, e.Kind, e.EntityID)
		if err != nil {
			return err
		}
		if left > 0 {
			return nil
		}
		return setSynced(ctx, r, e.Kind, e.EntityID)
	})
	if err != nil {
		return fmt.Errorf("failed to complete queue entry %d: %w", e.Seq, err)
	}
	s.logger.Debug(ctx, "queue entry completed", "seq", e.Seq, "type", e.Type, "kind", e.Kind, "id", e.EntityID)
	s.publish(e.Kind)
	return nil
}

func (s *SQLiteStore) RecordFailure(ctx context.Context, seq int64, lastError string, nextAttemptAt time.Time, quarantine bool) error {
	return s.ro.queue.RecordFailure(ctx, seq, lastError, nextAttemptAt, quarantine)
}

func (s *SQLiteStore) Postpone(ctx context.Context, seq int64, lastError string, nextAttemptAt time.Time) error {
	return s.ro.queue.Postpone(ctx, seq, lastError, nextAttemptAt)
}

func (s *SQLiteStore) Requeue(ctx context.Context, seq int64) error {
	return s.ro.queue.Requeue(ctx, seq)
}

func (s *SQLiteStore) SyncTime(ctx context.Context, key string) (time.Time, error) {
	return s.ro.metadata.GetTime(ctx, key)
}

func (s *SQLiteStore) SetSyncTime(ctx context.Context, key string, t time.Time) error {
	return s.ro.metadata.SetTime(ctx, key, t)
}

func (s *SQLiteStore) Setting(ctx context.Context, key string) ([]byte, error) {
	return s.ro.metadata.Get(ctx, key)
}

func (s *SQLiteStore) SetSetting(ctx context.Context, key string, value []byte) error {
	return s.ro.metadata.Set(ctx, key, value)
}
