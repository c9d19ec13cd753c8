package repository

import (
	"context"
	"testing"

	"storefront/internal/cart"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartSnapshotGorm_LoadMissing(t *testing.T) {
	r := NewCartSnapshotGormRepository(newTestDB(t))

	_, err := r.Load(context.Background(), "storefront-cart:nobody")
	assert.ErrorIs(t, err, cart.ErrSnapshotNotFound)
}

func TestCartSnapshotGorm_SaveOverwritesAndDelete(t *testing.T) {
	ctx := context.Background()
	r := NewCartSnapshotGormRepository(newTestDB(t))
	key := cart.StorageKey(cart.DefaultNamespace, "sid-1")

	require.NoError(t, r.Save(ctx, key, []byte(`{"items":{}}`)))
	require.NoError(t, r.Save(ctx, key, []byte(`{"items":{"a":{}}}`)))

	got, err := r.Load(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `{"items":{"a":{}}}`, string(got))

	require.NoError(t, r.Delete(ctx, key))
	_, err = r.Load(ctx, key)
	assert.ErrorIs(t, err, cart.ErrSnapshotNotFound)

	//無いキーの削除はエラーにしない
	assert.NoError(t, r.Delete(ctx, key))
}

func TestCartSnapshotGorm_OpenRoundTrip(t *testing.T) {
	ctx := context.Background()
	r := NewCartSnapshotGormRepository(newTestDB(t))
	key := cart.StorageKey(cart.DefaultNamespace, "sid-2")

	s, err := cart.Open(ctx, r, key, nil)
	require.NoError(t, err)
	size := "M"
	_, err = s.AddItem(ctx, cart.AddItemInput{ProductID: "p1", Name: "Abaya", Quantity: 2, Size: &size})
	require.NoError(t, err)

	reopened, err := cart.Open(ctx, r, key, nil)
	require.NoError(t, err)
	items := reopened.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p1::M::", items[0].VariantKey)
	assert.Equal(t, int64(2), items[0].Quantity)
}
