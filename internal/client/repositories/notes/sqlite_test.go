package notes

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/client/migrations"
	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/google/go-cmp/cmp"
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

func sampleNote(id string) *models.Note {
	ts := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	return &models.Note{
		ID:         id,
		Title:      "Note " + id,
		Content:    "body",
		NotebookID: "nb1",
		TagIDs:     []string{"t1", "t2"},
		Attachments: []models.AttachmentSummary{
			{ID: "a1", Filename: "report.pdf", MimeType: "application/pdf", Size: 10, Version: 2, Hash: "abc"},
		},
		CreatedAt:  ts,
		UpdatedAt:  ts.Add(time.Minute),
		SyncStatus: models.StatusCreated,
	}
}

func TestUpsertGet_RoundTripsEmbeddedFields(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	n := sampleNote("n1")
	require.NoError(t, r.Upsert(ctx, n))

	got, err := r.Get(ctx, "n1")
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(n, got))

	n.Title = "renamed"
	n.Trashed = true
	n.SyncStatus = models.StatusUpdated
	n.TagIDs = nil
	require.NoError(t, r.Upsert(ctx, n))

	got, err = r.Get(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)
	assert.True(t, got.Trashed)
	assert.Equal(t, models.StatusUpdated, got.SyncStatus)
	assert.Empty(t, got.TagIDs)
}

func TestGet_Missing(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	_, err := r.Get(context.Background(), "nope")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestList_NewestFirst(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	older := sampleNote("old")
	newer := sampleNote("new")
	newer.UpdatedAt = older.UpdatedAt.Add(time.Hour)
	require.NoError(t, r.Upsert(ctx, older))
	require.NoError(t, r.Upsert(ctx, newer))

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, "old", list[1].ID)
}

func TestStatusAndIDs(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	a, b := sampleNote("a"), sampleNote("b")
	b.SyncStatus = models.StatusSynced
	require.NoError(t, r.Upsert(ctx, a))
	require.NoError(t, r.Upsert(ctx, b))

	dirty, err := r.IDsByStatus(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, dirty)

	require.NoError(t, r.SetStatus(ctx, "a", models.StatusSynced))
	synced, err := r.IDsByStatus(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, synced)

	require.ErrorIs(t, r.SetStatus(ctx, "zzz", models.StatusSynced), common.ErrorNotFound)
}

func TestDelete_Idempotent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, sampleNote("n1")))
	require.NoError(t, r.Delete(ctx, "n1"))
	require.NoError(t, r.Delete(ctx, "n1"))

	_, err := r.Get(ctx, "n1")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestErrorsAreWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	require.NoError(t, db.Close())

	require.ErrorContains(t, r.Upsert(ctx, sampleNote("x")), "failed to upsert note x")
	_, err := r.Get(ctx, "x")
	require.ErrorContains(t, err, "failed to get note x")
	_, err = r.List(ctx)
	require.ErrorContains(t, err, "failed to list notes")
	require.ErrorContains(t, r.Delete(ctx, "x"), "failed to delete note x")
}
