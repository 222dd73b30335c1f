// Package replica is the client's local copy of the user's notes, notebooks
// and tags together with the mutation queue that records unsent edits.
//
// Local edits go through the Save*/Delete methods, which change the row and
// append a queue entry in one SQLite transaction. The push reconciler drains
// the queue through Queue; the pull reconciler folds the server's view back
// in through Merger without touching entities that still carry local
// changes. Every committed change to a kind is announced on the Notifier.
package replica

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
)

// Queue is the part of the store used by the push reconciler.
type Queue interface {
	// Pending returns every queue entry in sequence order, including
	// quarantined and backing-off ones.
	Pending(ctx context.Context) ([]models.QueueEntry, error)

	// Complete applies a server acknowledgement of e: the entry is removed
	// and, in the same transaction, the entity is marked synced when no other
	// entries remain for it (CREATE/UPDATE) or its local row is removed (DELETE).
	Complete(ctx context.Context, e models.QueueEntry) error

	RecordFailure(ctx context.Context, seq int64, lastError string, nextAttemptAt time.Time, quarantine bool) error
	Postpone(ctx context.Context, seq int64, lastError string, nextAttemptAt time.Time) error
	Requeue(ctx context.Context, seq int64) error
}

// MergeResult counts what a pull did to one kind.
type MergeResult struct {
	Written   int
	Deleted   int
	Preserved int
}

// Merger is the part of the store used by the pull reconciler. Each call runs
// in one transaction.
type Merger interface {
	MergeNotebooks(ctx context.Context, remote []models.Notebook) (MergeResult, error)
	MergeTags(ctx context.Context, remote []models.Tag) (MergeResult, error)
	MergeNotes(ctx context.Context, remote []models.Note) (MergeResult, error)
}

// Store is the full replica API.
type Store interface {
	Queue
	Merger

	GetNote(ctx context.Context, id string) (*models.Note, error)
	ListNotes(ctx context.Context) ([]models.Note, error)
	GetNotebook(ctx context.Context, id string) (*models.Notebook, error)
	ListNotebooks(ctx context.Context) ([]models.Notebook, error)
	GetTag(ctx context.Context, id string) (*models.Tag, error)
	ListTags(ctx context.Context) ([]models.Tag, error)

	// SaveNote stores n and enqueues op (CREATE or UPDATE) with the full
	// snapshot as payload. The sync status is derived from op and the
	// current row; the caller's value is ignored.
	SaveNote(ctx context.Context, n *models.Note, op models.MutationType) error
	SaveNotebook(ctx context.Context, nb *models.Notebook, op models.MutationType) error
	SaveTag(ctx context.Context, t *models.Tag, op models.MutationType) error

	// Delete removes the local row immediately and enqueues a DELETE.
	Delete(ctx context.Context, kind models.EntityKind, id string) error

	SyncTime(ctx context.Context, key string) (time.Time, error)
	SetSyncTime(ctx context.Context, key string, t time.Time) error

	// Setting returns a local-only value, nil when unset. Settings are never
	// queued or pulled.
	Setting(ctx context.Context, key string) ([]byte, error)
	SetSetting(ctx context.Context, key string, value []byte) error

	Subscribe(kinds ...models.EntityKind) <-chan Event
	Unsubscribe(ch <-chan Event)
}
