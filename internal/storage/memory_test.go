package storage_test

import (
	"context"
	"testing"
	"time"

	"gnacomplaints/backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keys(snap storage.Snapshot) []string {
	var out []string
	for _, c := range snap.Children {
		out = append(out, c.Key)
	}
	return out
}

func TestMemoryStore_ReadOrderedSortsByKey(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Put("gna-complaints/-Nb", map[string]any{"name": "b"}))
	require.NoError(t, store.Put("gna-complaints/-Na", map[string]any{"name": "a"}))
	require.NoError(t, store.Put("gna-complaints/-Nc", map[string]any{"name": "c"}))

	snap, err := store.ReadOrdered(context.Background(), "gna-complaints")
	require.NoError(t, err)
	assert.True(t, snap.Exists())
	assert.Equal(t, "gna-complaints", snap.Key)
	assert.Equal(t, []string{"-Na", "-Nb", "-Nc"}, keys(snap))
}

func TestMemoryStore_ReadLeafAndFallback(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Put("gna-complaints/-Na", map[string]any{"name": "a"}))
	require.NoError(t, store.Put("gna-counter", 41))

	leaf, err := store.Read(ctx, "/gna-complaints/-Na/")
	require.NoError(t, err)
	fields, ok := leaf.Fields()
	require.True(t, ok)
	assert.Equal(t, "a", fields["name"])

	counter, err := store.Read(ctx, "gna-counter")
	require.NoError(t, err)
	var n int
	require.NoError(t, counter.Decode(&n))
	assert.Equal(t, 41, n)
	_, ok = counter.Fields()
	assert.False(t, ok, "scalars are not objects")

	list, err := store.Read(ctx, "gna-complaints")
	require.NoError(t, err)
	assert.Equal(t, []string{"-Na"}, keys(list))

	missing, err := store.Read(ctx, "gna-complaints/nope")
	require.NoError(t, err)
	assert.False(t, missing.Exists())
}

func TestMemoryStore_UpdateMergesFields(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Put("c/1", map[string]any{"name": "john", "status": "pending"}))

	require.NoError(t, store.Update(ctx, "c/1", map[string]any{"status": "completed", "comment": "done"}))

	snap, err := store.Read(ctx, "c/1")
	require.NoError(t, err)
	fields, _ := snap.Fields()
	assert.Equal(t, map[string]any{"name": "john", "status": "completed", "comment": "done"}, fields)
}

func TestMemoryStore_UpdateErrors(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Put("gna-counter", 3))

	err := store.Update(ctx, "gna-counter", map[string]any{"x": 1})
	assert.ErrorIs(t, err, storage.ErrNotObject)

	for _, p := range []string{"", "/", "a//b"} {
		assert.ErrorIs(t, store.Update(ctx, p, map[string]any{"x": 1}), storage.ErrInvalidPath, p)
	}
}

func TestMemoryStore_SubscribeDeliversSnapshots(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Put("c/1", map[string]any{"status": "pending"}))

	got := make(chan storage.Snapshot, 8)
	sub, err := store.Subscribe(ctx, "c", func(s storage.Snapshot) { got <- s })
	require.NoError(t, err)
	defer sub.Close()

	initial := receive(t, got)
	assert.Equal(t, []string{"1"}, keys(initial))

	require.NoError(t, store.Update(ctx, "c/1", map[string]any{"status": "completed"}))
	next := receive(t, got)
	fields, _ := next.Children[0].Fields()
	assert.Equal(t, "completed", fields["status"])

	require.NoError(t, store.Unsubscribe(sub))
	assert.Equal(t, 0, store.Listeners("c"))
	require.NoError(t, sub.Close(), "closing twice is harmless")
}

func TestMemoryStore_SubscribeIgnoresOtherPaths(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	got := make(chan storage.Snapshot, 8)
	sub, err := store.Subscribe(ctx, "c", func(s storage.Snapshot) { got <- s })
	require.NoError(t, err)
	defer sub.Close()

	first := receive(t, got)
	assert.False(t, first.Exists())

	require.NoError(t, store.Put("other/1", map[string]any{"a": 1}))
	select {
	case s := <-got:
		t.Fatalf("unexpected delivery %+v", s)
	case <-time.After(100 * time.Millisecond):
	}
}

func receive(t *testing.T, ch <-chan storage.Snapshot) storage.Snapshot {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot delivered")
		return storage.Snapshot{}
	}
}
