package syncqueue

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
)

type Repository interface {
	// Enqueue appends e and returns its sequence number. e.Seq is ignored.
	Enqueue(ctx context.Context, e *models.QueueEntry) (int64, error)

	// List returns all entries in sequence order.
	List(ctx context.Context) ([]models.QueueEntry, error)

	Get(ctx context.Context, seq int64) (*models.QueueEntry, error)
	Remove(ctx context.Context, seq int64) error

	// CountForEntity counts entries still queued for kind/id.
	CountForEntity(ctx context.Context, kind models.EntityKind, id string) (int, error)

	// EntityIDs returns the distinct entity ids of kind with queued entries.
	EntityIDs(ctx context.Context, kind models.EntityKind) ([]string, error)

	// RecordFailure increments attempts and stores the retry schedule.
	RecordFailure(ctx context.Context, seq int64, lastError string, nextAttemptAt time.Time, quarantine bool) error

	// Postpone stores the retry schedule of a send that failed while the
	// server was unreachable. Attempts and quarantine are left alone.
	Postpone(ctx context.Context, seq int64, lastError string, nextAttemptAt time.Time) error

	// Requeue clears quarantine and backoff so the entry is sent on the next drain.
	Requeue(ctx context.Context, seq int64) error

	Len(ctx context.Context) (int, error)
}
