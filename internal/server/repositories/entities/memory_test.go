package entities

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_CRUD(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, "u1", "NOTE", "b", json.RawMessage(`{"id":"b"}`)))
	require.NoError(t, r.Upsert(ctx, "u1", "NOTE", "a", json.RawMessage(`{"id":"a"}`)))
	require.NoError(t, r.Upsert(ctx, "u2", "NOTE", "c", json.RawMessage(`{"id":"c"}`)))

	list, err := r.List(ctx, "u1", "NOTE")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)

	require.ErrorIs(t, r.Update(ctx, "u1", "NOTE", "zzz", json.RawMessage(`{}`)), common.ErrorNotFound)
	require.NoError(t, r.Update(ctx, "u1", "NOTE", "a", json.RawMessage(`{"id":"a","title":"x"}`)))

	require.NoError(t, r.Delete(ctx, "u1", "NOTE", "a"))
	require.NoError(t, r.Delete(ctx, "u1", "NOTE", "a"))
	list, err = r.List(ctx, "u1", "NOTE")
	require.NoError(t, err)
	require.Len(t, list, 1)

	empty, err := r.List(ctx, "u1", "TAG")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
