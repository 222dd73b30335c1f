package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/gophnotes/internal/client/migrations"
	"github.com/dmitrijs2005/gophnotes/internal/client/replica"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func newStore(t *testing.T) *replica.SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.Up(context.Background(), db))
	return replica.NewSQLiteStore(db, nil, logging.NewNopLogger())
}

func queueTypes(t *testing.T, s replica.Store) []string {
	t.Helper()
	entries, err := s.Pending(context.Background())
	require.NoError(t, err)
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, string(e.Type)+" "+string(e.Kind))
	}
	return out
}

func ptr[T any](v T) *T { return &v }

// markSynced acknowledges every queued entry as the push reconciler would.
func markSynced(t *testing.T, s replica.Store) {
	t.Helper()
	ctx := context.Background()
	entries, err := s.Pending(ctx)
	require.NoError(t, err)
	for _, e := range entries {
		require.NoError(t, s.Complete(ctx, e))
	}
	left, err := s.Pending(ctx)
	require.NoError(t, err)
	require.Empty(t, left)
}
