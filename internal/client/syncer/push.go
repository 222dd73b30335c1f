package syncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/client/client"
	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/client/replica"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
)

// PushReport summarizes one drain of the mutation queue.
type PushReport struct {
	Sent        int
	Failed      int
	Skipped     int
	Quarantined int
}

type Pusher struct {
	queue   replica.Queue
	remote  Remote
	backoff Backoff
	logger  logging.Logger
	now     func() time.Time
}

func NewPusher(queue replica.Queue, remote Remote, backoff Backoff, logger logging.Logger) *Pusher {
	return &Pusher{
		queue:   queue,
		remote:  remote,
		backoff: backoff,
		logger:  logger.With("module", "push"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func entityKey(kind models.EntityKind, id string) string {
	return string(kind) + "/" + id
}

// Push sends every ready queue entry in sequence order.
//
// Remote failures never stop the drain; they are recorded on the entry. Only
// rejections count toward quarantine; an unreachable server only postpones. The
// drain stops early only on a local storage error, on ErrUnauthorized (every
// later request would fail the same way and should not count as an attempt)
// or when ctx is done. The report covers the entries handled until then.
func (p *Pusher) Push(ctx context.Context) (PushReport, error) {
	var report PushReport

	entries, err := p.queue.Pending(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to read sync queue: %w", err)
	}

	blocked := make(map[string]struct{})
	now := p.now()

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		key := entityKey(e.Kind, e.EntityID)
		if _, ok := blocked[key]; ok {
			report.Skipped++
			continue
		}
		if !e.Ready(now) {
			blocked[key] = struct{}{}
			report.Skipped++
			continue
		}

		sendErr := p.send(ctx, e)
		if sendErr == nil {
			if err := p.queue.Complete(ctx, e); err != nil {
				return report, err
			}
			report.Sent++
			continue
		}

		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		if errors.Is(sendErr, client.ErrUnauthorized) {
			return report, sendErr
		}

		blocked[key] = struct{}{}
		report.Failed++

		if transient(sendErr) {
			next := now.Add(p.backoff.Delay(e.Attempts + e.Retries + 1))
			if err := p.queue.Postpone(ctx, e.Seq, sendErr.Error(), next); err != nil {
				return report, err
			}
			p.logger.Warn(ctx, "server unreachable, will retry",
				"seq", e.Seq, "type", e.Type, "kind", e.Kind, "id", e.EntityID, "retries", e.Retries+1, "next", next, "error", sendErr)
			continue
		}

		attempts := e.Attempts + 1
		quarantine := p.backoff.Exhausted(attempts)
		next := now.Add(p.backoff.Delay(attempts + e.Retries))

		if err := p.queue.RecordFailure(ctx, e.Seq, sendErr.Error(), next, quarantine); err != nil {
			return report, err
		}

		if quarantine {
			report.Quarantined++
			p.logger.Error(ctx, "queue entry quarantined",
				"seq", e.Seq, "type", e.Type, "kind", e.Kind, "id", e.EntityID, "attempts", attempts, "error", sendErr)
			continue
		}
		p.logger.Warn(ctx, "queue entry failed, will retry",
			"seq", e.Seq, "type", e.Type, "kind", e.Kind, "id", e.EntityID, "attempts", attempts, "next", next, "error", sendErr)
	}

	return report, nil
}

// transient reports whether err means the server could not be reached. Such
// failures back off but never count toward quarantine.
func transient(err error) bool {
	return errors.Is(err, client.ErrUnavailable) || errors.Is(err, context.DeadlineExceeded)
}

// send replays one entry. A missing target on UPDATE or DELETE counts as done:
// the entity is gone on the server and the next pull reconciles the replica.
func (p *Pusher) send(ctx context.Context, e models.QueueEntry) error {
	var err error
	switch e.Type {
	case models.MutationCreate:
		err = p.remote.Create(ctx, e.Kind, e.EntityID, e.Payload)
	case models.MutationUpdate:
		err = p.remote.Update(ctx, e.Kind, e.EntityID, e.Payload)
	case models.MutationDelete:
		err = p.remote.Delete(ctx, e.Kind, e.EntityID)
	default:
		return fmt.Errorf("unknown mutation type %q", e.Type)
	}
	if errors.Is(err, client.ErrNotFound) && e.Type != models.MutationCreate {
		p.logger.Debug(ctx, "target missing on server, treating as applied", "seq", e.Seq, "type", e.Type, "id", e.EntityID)
		return nil
	}
	return err
}
