package tags

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/gophnotes/internal/client/migrations"
	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.Up(context.Background(), db))
	return db
}

func TestTagLifecycle(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, &models.Tag{ID: "t1", Name: "urgent", SyncStatus: models.StatusCreated}))
	require.NoError(t, r.Upsert(ctx, &models.Tag{ID: "t2", Name: "idea", SyncStatus: models.StatusSynced}))
	require.NoError(t, r.Upsert(ctx, &models.Tag{ID: "t1", Name: "later", SyncStatus: models.StatusUpdated}))

	got, err := r.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, models.Tag{ID: "t1", Name: "later", SyncStatus: models.StatusUpdated}, *got)

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "idea", list[0].Name)

	synced, err := r.IDsByStatus(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"t2"}, synced)

	require.NoError(t, r.Delete(ctx, "t2"))
	_, err = r.Get(ctx, "t2")
	require.ErrorIs(t, err, common.ErrorNotFound)
}
