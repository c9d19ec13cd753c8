package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// メモリ上のStorage
type memStorage struct {
	data    map[string][]byte
	saves   int
	saveErr error
	loadErr error
}

func newMemStorage() *memStorage {
	return &memStorage{data: map[string][]byte{}}
}

func (m *memStorage) Load(ctx context.Context, key string) ([]byte, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return v, nil
}

func (m *memStorage) Save(ctx context.Context, key string, data []byte) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.data[key] = append([]byte(nil), data...)
	return nil
}

func (m *memStorage) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func TestStorageKey(t *testing.T) {
	assert.Equal(t, "storefront-cart:abc", StorageKey("", "abc"))
	assert.Equal(t, "shop:abc", StorageKey("shop", "abc"))
}

func TestPersistedStore_EveryMutationSaves(t *testing.T) {
	ctx := context.Background()
	storage := newMemStorage()
	key := StorageKey("", "sid-1")

	p, err := Open(ctx, storage, key, nil)
	require.NoError(t, err)

	it, err := p.AddItem(ctx, AddItemInput{ProductID: "P1", UnitPrice: dec("10"), Quantity: 1})
	require.NoError(t, err)
	require.NoError(t, p.Increment(ctx, it.VariantKey))
	require.NoError(t, p.Decrement(ctx, it.VariantKey))
	require.NoError(t, p.SetQuantity(ctx, it.VariantKey, 4))
	assert.Equal(t, 4, storage.saves)

	// 無いキーは保存しない
	require.NoError(t, p.RemoveItem(ctx, "missing"))
	require.NoError(t, p.Increment(ctx, "missing"))
	assert.Equal(t, 4, storage.saves)

	// 読み直すと同じ状態
	reopened, err := Open(ctx, storage, key, nil)
	require.NoError(t, err)
	got, ok := reopened.Get(it.VariantKey)
	require.True(t, ok)
	assert.Equal(t, int64(4), got.Quantity)
}

func TestPersistedStore_ClearRemovesSnapshot(t *testing.T) {
	ctx := context.Background()
	storage := newMemStorage()
	key := StorageKey("", "sid-2")

	p, err := Open(ctx, storage, key, nil)
	require.NoError(t, err)
	_, err = p.AddItem(ctx, AddItemInput{ProductID: "P1", UnitPrice: dec("10"), Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, p.Clear(ctx))
	assert.Equal(t, 0, p.Len())
	_, exists := storage.data[key]
	assert.False(t, exists)
}

func TestPersistedStore_OpenCorruptStartsEmpty(t *testing.T) {
	ctx := context.Background()
	storage := newMemStorage()
	key := StorageKey("", "sid-3")
	storage.data[key] = []byte("{not json")

	p, err := Open(ctx, storage, key, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Len())
	assert.Equal(t, int64(0), p.Totals().ItemCount)
	assert.True(t, p.Totals().Subtotal.IsZero())
}

func TestPersistedStore_OpenLoadError(t *testing.T) {
	storage := newMemStorage()
	storage.loadErr = errors.New("connection refused")

	_, err := Open(context.Background(), storage, "k", nil)
	assert.Error(t, err)
}

func TestPersistedStore_SaveErrorIsReturned(t *testing.T) {
	ctx := context.Background()
	storage := newMemStorage()

	p, err := Open(ctx, storage, "k", nil)
	require.NoError(t, err)

	storage.saveErr = errors.New("quota exceeded")
	_, err = p.AddItem(ctx, AddItemInput{ProductID: "P1", UnitPrice: dec("10"), Quantity: 1})
	assert.Error(t, err)

	// メモリ上の変更は残る
	assert.Equal(t, 1, p.Len())
}
