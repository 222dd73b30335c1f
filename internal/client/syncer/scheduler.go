package syncer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
)

var ErrCycleInProgress = errors.New("sync cycle already in progress")

// Report is the outcome of one push+pull cycle.
type Report struct {
	Push       PushReport
	Pull       PullReport
	StartedAt  time.Time
	FinishedAt time.Time
}

// syncTimes records when push and pull last completed.
type syncTimes interface {
	SetSyncTime(ctx context.Context, key string, t time.Time) error
}

type Syncer struct {
	pusher   *Pusher
	puller   *Puller
	times    syncTimes
	interval time.Duration
	logger   logging.Logger

	running sync.Mutex
	now     func() time.Time
}

func NewSyncer(pusher *Pusher, puller *Puller, times syncTimes, interval time.Duration, logger logging.Logger) *Syncer {
	return &Syncer{
		pusher:   pusher,
		puller:   puller,
		times:    times,
		interval: interval,
		logger:   logger.With("module", "syncer"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SyncOnce runs a cycle unless one is already running.
func (s *Syncer) SyncOnce(ctx context.Context) (Report, error) {
	if !s.running.TryLock() {
		return Report{}, ErrCycleInProgress
	}
	defer s.running.Unlock()

	report := Report{StartedAt: s.now()}

	push, err := s.pusher.Push(ctx)
	report.Push = push
	if err != nil {
		report.FinishedAt = s.now()
		return report, err
	}
	if err := s.times.SetSyncTime(ctx, metadata.KeyLastPushAt, s.now()); err != nil {
		return report, err
	}

	pull, err := s.puller.Pull(ctx)
	report.Pull = pull
	report.FinishedAt = s.now()
	if err != nil {
		return report, err
	}
	if len(pull.Failed) == 0 {
		if err := s.times.SetSyncTime(ctx, metadata.KeyLastPullAt, report.FinishedAt); err != nil {
			return report, err
		}
	}

	s.logger.Info(ctx, "sync cycle finished",
		"sent", push.Sent, "failed", push.Failed, "skipped", push.Skipped, "quarantined", push.Quarantined,
		"pull_failed_kinds", len(pull.Failed), "took", report.FinishedAt.Sub(report.StartedAt))
	return report, nil
}

func (s *Syncer) cycle(ctx context.Context) {
	_, err := s.SyncOnce(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ErrCycleInProgress):
		s.logger.Debug(ctx, "tick skipped, previous cycle still running")
	case ctx.Err() != nil:
	default:
		s.logger.Error(ctx, "sync cycle failed", "error", err)
	}
}

// Run performs a cycle at start when runAtStart is set, then one per
// interval until ctx is done.
func (s *Syncer) Run(ctx context.Context, runAtStart bool) error {
	if runAtStart {
		s.cycle(ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.cycle(ctx)
		}
	}
}
