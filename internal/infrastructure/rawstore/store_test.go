package rawstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir(), 3)
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return store
}

func TestStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	payload := []byte(`{"posting_number":"WB-0001","items":[{"sku":"SKU-1","qty":2}]}`)

	ref, err := store.Put(ctx, "WB", "mp_sale", "WB-0001", payload)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("WB", "mp_sale", "WB-0001.json.zst"), ref)

	got, err := store.Get(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestStore_PutOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ref1, err := store.Put(ctx, "WB", "mp_sale", "WB-0001", []byte(`{"v":1}`))
	require.NoError(t, err)

	ref2, err := store.Put(ctx, "WB", "mp_sale", "WB-0001", []byte(`{"v":2}`))
	require.NoError(t, err)
	assert.Equal(t, ref1, ref2)

	got, err := store.Get(ctx, ref2)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"v":2}`), got)
}

func TestStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "WB/mp_sale/nope.json.zst")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ref, err := store.Put(ctx, "Ozon", "mp_transaction", "TX-1", []byte(`{}`))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, ref))
	_, err = store.Get(ctx, ref)
	assert.Error(t, err)

	// Deleting an already-deleted payload is fine.
	assert.NoError(t, store.Delete(ctx, ref))
}

func TestStore_RejectsTraversal(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "../etc/passwd")
	assert.Error(t, err)

	err = store.Delete(ctx, "/etc/passwd")
	assert.Error(t, err)
}

func TestStore_SanitizesKeys(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ref, err := store.Put(ctx, "WB", "mp_sale", "../../evil key", []byte(`{}`))
	require.NoError(t, err)
	assert.NotContains(t, ref, "..")
	assert.NotContains(t, ref, " ")

	got, err := store.Get(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{}`), got)
}

func TestNew_RequiresDir(t *testing.T) {
	_, err := New("", 3)
	assert.Error(t, err)
}

func TestNew_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "raw")
	store, err := New(dir, 1)
	require.NoError(t, err)
	defer store.Close()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
