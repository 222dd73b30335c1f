package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/client/client"
	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/client/replica"
	"github.com/dmitrijs2005/gophnotes/internal/client/repositories/metadata"
)

// Status summarizes the replica's sync state for the REPL.
type Status struct {
	Online      bool
	LastPush    time.Time
	LastPull    time.Time
	Pending     int
	Quarantined int
}

// StatusService answers "is the server reachable" and "what is still
// waiting to be sent", and lets the user retry quarantined entries.
type StatusService interface {
	Ping(ctx context.Context) error
	Status(ctx context.Context) (*Status, error)
	Queue(ctx context.Context) ([]models.QueueEntry, error)
	// Requeue clears the retry state of one entry, or of every quarantined
	// entry when seq is 0. It returns how many entries were reset.
	Requeue(ctx context.Context, seq int64) (int, error)
}

type statusService struct {
	client client.Client
	store  replica.Store
}

func NewStatusService(c client.Client, store replica.Store) StatusService {
	return &statusService{client: c, store: store}
}

func (s *statusService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

func (s *statusService) Status(ctx context.Context) (*Status, error) {
	st := &Status{Online: s.client.Ping(ctx) == nil}

	var err error
	if st.LastPush, err = s.store.SyncTime(ctx, metadata.KeyLastPushAt); err != nil {
		return nil, fmt.Errorf("error: %w", err)
	}
	if st.LastPull, err = s.store.SyncTime(ctx, metadata.KeyLastPullAt); err != nil {
		return nil, fmt.Errorf("error: %w", err)
	}

	entries, err := s.store.Pending(ctx)
	if err != nil {
		return nil, fmt.Errorf("error: %w", err)
	}
	st.Pending = len(entries)
	for _, e := range entries {
		if e.Quarantined {
			st.Quarantined++
		}
	}
	return st, nil
}

func (s *statusService) Queue(ctx context.Context) ([]models.QueueEntry, error) {
	return s.store.Pending(ctx)
}

func (s *statusService) Requeue(ctx context.Context, seq int64) (int, error) {
	if seq != 0 {
		if err := s.store.Requeue(ctx, seq); err != nil {
			return 0, fmt.Errorf("entry %d: %w", seq, err)
		}
		return 1, nil
	}

	entries, err := s.store.Pending(ctx)
	if err != nil {
		return 0, fmt.Errorf("error: %w", err)
	}
	n := 0
	for _, e := range entries {
		if !e.Quarantined {
			continue
		}
		if err := s.store.Requeue(ctx, e.Seq); err != nil {
			return n, fmt.Errorf("entry %d: %w", e.Seq, err)
		}
		n++
	}
	return n, nil
}
