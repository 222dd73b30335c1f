package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagService_DeleteDetachesFromNotes(t *testing.T) {
	s := newStore(t)
	tags := NewTagService(s)
	notes := NewNoteService(s)
	ctx := context.Background()

	keep, err := tags.Create(ctx, "keep")
	require.NoError(t, err)
	drop, err := tags.Create(ctx, "drop")
	require.NoError(t, err)

	a, err := notes.Create(ctx, "a", "", "")
	require.NoError(t, err)
	b, err := notes.Create(ctx, "b", "", "")
	require.NoError(t, err)
	require.NoError(t, notes.AddTag(ctx, a.ID, keep.ID))
	require.NoError(t, notes.AddTag(ctx, a.ID, drop.ID))
	require.NoError(t, notes.AddTag(ctx, b.ID, keep.ID))
	markSynced(t, s)

	require.NoError(t, tags.Delete(ctx, drop.ID))

	got, err := notes.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{keep.ID}, got.TagIDs)

	list, err := tags.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "keep", list[0].Name)

	// only note a carried the tag
	assert.Equal(t, []string{"UPDATE NOTE", "DELETE TAG"}, queueTypes(t, s))
}

func TestTagService_Rename(t *testing.T) {
	s := newStore(t)
	tags := NewTagService(s)
	ctx := context.Background()

	tag, err := tags.Create(ctx, "wrk")
	require.NoError(t, err)
	got, err := tags.Rename(ctx, tag.ID, "work")
	require.NoError(t, err)
	assert.Equal(t, "work", got.Name)

	_, err = tags.Rename(ctx, tag.ID, "")
	require.Error(t, err)
	require.ErrorIs(t, tags.Delete(ctx, "missing"), common.ErrorNotFound)
}
