package cart

import (
	"math"
	"testing"

	"storefront/internal/domain/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestStore_AddItem_SameVariantMerges(t *testing.T) {
	s := NewStore()

	s.AddItem(AddItemInput{ProductID: "P1", UnitPrice: dec("100"), Quantity: 1, Size: strp("m"), Color: strp("black")})
	s.AddItem(AddItemInput{ProductID: "P1", UnitPrice: dec("100"), Quantity: 2, Size: strp("m"), Color: strp("black")})

	require.Equal(t, 1, s.Len())
	it, ok := s.Get(model.VariantKey("P1", strp("m"), strp("black")))
	require.True(t, ok)
	assert.Equal(t, int64(3), it.Quantity)

	totals := s.Totals()
	assert.True(t, totals.Subtotal.Equal(dec("300")), "subtotal=%s", totals.Subtotal)
	assert.Equal(t, int64(3), totals.ItemCount)
}

func TestStore_AddItem_ManyAddsSumQuantities(t *testing.T) {
	s := NewStore()
	quantities := []int64{1, 4, 2, 7, 1}

	var want int64
	for _, q := range quantities {
		s.AddItem(AddItemInput{ProductID: "P9", UnitPrice: dec("10"), Quantity: q, Size: strp("s")})
		want += q
	}

	it, ok := s.Get(model.VariantKey("P9", strp("s"), nil))
	require.True(t, ok)
	assert.Equal(t, want, it.Quantity)
	assert.Equal(t, 1, s.Len())
}

func TestStore_AddItem_DifferentVariantsAreDistinctRows(t *testing.T) {
	s := NewStore()

	s.AddItem(AddItemInput{ProductID: "P1", UnitPrice: dec("50"), Quantity: 1, Size: strp("m"), Color: strp("black")})
	s.AddItem(AddItemInput{ProductID: "P1", UnitPrice: dec("50"), Quantity: 1, Size: strp("l"), Color: strp("black")})
	s.AddItem(AddItemInput{ProductID: "P1", UnitPrice: dec("50"), Quantity: 1, Size: strp("m"), Color: strp("white")})
	s.AddItem(AddItemInput{ProductID: "P2", UnitPrice: dec("50"), Quantity: 1, Size: strp("m"), Color: strp("black")})
	s.AddItem(AddItemInput{ProductID: "P1", UnitPrice: dec("50"), Quantity: 1})

	assert.Equal(t, 5, s.Len())
}

func TestStore_AddItem_NonPositiveQuantityBecomesOne(t *testing.T) {
	s := NewStore()

	it := s.AddItem(AddItemInput{ProductID: "P1", UnitPrice: dec("5"), Quantity: 0})
	assert.Equal(t, int64(1), it.Quantity)
}

func TestStore_Decrement_FloorsAtOne(t *testing.T) {
	s := NewStore()
	it := s.AddItem(AddItemInput{ProductID: "P1", UnitPrice: dec("20"), Quantity: 1})

	assert.True(t, s.Decrement(it.VariantKey))
	assert.True(t, s.Decrement(it.VariantKey))

	got, ok := s.Get(it.VariantKey)
	require.True(t, ok)
	assert.Equal(t, int64(1), got.Quantity)
	assert.Equal(t, 1, s.Len())
}

func TestStore_IncrementDecrement(t *testing.T) {
	s := NewStore()
	it := s.AddItem(AddItemInput{ProductID: "P1", UnitPrice: dec("20"), Quantity: 2})

	s.Increment(it.VariantKey)
	s.Increment(it.VariantKey)
	s.Decrement(it.VariantKey)

	got, _ := s.Get(it.VariantKey)
	assert.Equal(t, int64(3), got.Quantity)
}

func TestStore_MissingKeyIsNoop(t *testing.T) {
	s := NewStore()
	s.AddItem(AddItemInput{ProductID: "P1", UnitPrice: dec("20"), Quantity: 2})
	before := s.State()

	assert.False(t, s.Increment("nope"))
	assert.False(t, s.Decrement("nope"))
	assert.False(t, s.SetQuantity("nope", 5))
	assert.False(t, s.RemoveItem("nope"))

	assert.Equal(t, before, s.State())
}

func TestStore_SetQuantity(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want int64
	}{
		{name: "whole number", in: 4, want: 4},
		{name: "fraction floors", in: 2.9, want: 2},
		{name: "zero clamps", in: 0, want: 1},
		{name: "negative clamps", in: -3, want: 1},
		{name: "below one clamps", in: 0.5, want: 1},
		{name: "nan clamps", in: math.NaN(), want: 1},
		{name: "huge saturates", in: math.Inf(1), want: math.MaxInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			it := s.AddItem(AddItemInput{ProductID: "P1", UnitPrice: dec("1"), Quantity: 3})

			s.SetQuantity(it.VariantKey, tt.in)

			got, _ := s.Get(it.VariantKey)
			assert.Equal(t, tt.want, got.Quantity)
		})
	}
}

func TestStore_RemoveItemIsOnlyWayToDelete(t *testing.T) {
	s := NewStore()
	it := s.AddItem(AddItemInput{ProductID: "P1", UnitPrice: dec("20"), Quantity: 1})

	s.Decrement(it.VariantKey)
	s.SetQuantity(it.VariantKey, 0)
	assert.Equal(t, 1, s.Len())

	assert.True(t, s.RemoveItem(it.VariantKey))
	assert.Equal(t, 0, s.Len())
}

func TestStore_Totals(t *testing.T) {
	s := NewStore()

	empty := s.Totals()
	assert.True(t, empty.Subtotal.IsZero())
	assert.Equal(t, int64(0), empty.ItemCount)

	s.AddItem(AddItemInput{ProductID: "A", UnitPrice: dec("19.99"), Quantity: 2})
	s.AddItem(AddItemInput{ProductID: "B", UnitPrice: dec("5.50"), Quantity: 3, Color: strp("red")})

	totals := s.Totals()
	assert.True(t, totals.Subtotal.Equal(dec("56.48")), "subtotal=%s", totals.Subtotal)
	assert.Equal(t, int64(5), totals.ItemCount)

	// 何度呼んでも同じ
	assert.Equal(t, totals, s.Totals())
}

func TestStore_ClearAndItemsOrder(t *testing.T) {
	s := NewStore()
	s.AddItem(AddItemInput{ProductID: "C", UnitPrice: dec("1"), Quantity: 1})
	s.AddItem(AddItemInput{ProductID: "A", UnitPrice: dec("1"), Quantity: 1})
	s.AddItem(AddItemInput{ProductID: "B", UnitPrice: dec("1"), Quantity: 1})
	s.AddItem(AddItemInput{ProductID: "C", UnitPrice: dec("1"), Quantity: 1})

	items := s.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "C", items[0].ProductID)
	assert.Equal(t, "A", items[1].ProductID)
	assert.Equal(t, "B", items[2].ProductID)

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Items())
}

func TestStore_ReturnedItemsDoNotAliasState(t *testing.T) {
	s := NewStore()
	it := s.AddItem(AddItemInput{ProductID: "P1", UnitPrice: dec("1"), Quantity: 1, Size: strp("m")})

	*it.Size = "xl"

	got, _ := s.Get(it.VariantKey)
	assert.Equal(t, "m", *got.Size)
}

func TestStore_AddItem_MergeSaturatesAtMaxInt64(t *testing.T) {
	s := NewStore()

	s.AddItem(AddItemInput{ProductID: "P1", UnitPrice: dec("1"), Quantity: math.MaxInt64})
	it := s.AddItem(AddItemInput{ProductID: "P1", UnitPrice: dec("1"), Quantity: math.MaxInt64})

	assert.Equal(t, int64(math.MaxInt64), it.Quantity)
	assert.Equal(t, int64(math.MaxInt64), s.Totals().ItemCount)

	// 保存して読み戻しても壊れたスナップショット扱いにならない
	data, err := Marshal(s.State())
	require.NoError(t, err)
	state, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), state.Items[it.VariantKey].Quantity)
}

func TestStore_Totals_ItemCountSaturates(t *testing.T) {
	s := NewStore()
	a := s.AddItem(AddItemInput{ProductID: "P1", UnitPrice: dec("1"), Size: strp("s")})
	b := s.AddItem(AddItemInput{ProductID: "P1", UnitPrice: dec("1"), Size: strp("m")})

	require.True(t, s.SetQuantity(a.VariantKey, math.MaxFloat64))
	require.True(t, s.SetQuantity(b.VariantKey, math.MaxFloat64))

	assert.Equal(t, int64(math.MaxInt64), s.Totals().ItemCount)
}

func TestStore_AddItem_SeparatorInOptionsKeepsRowsApart(t *testing.T) {
	s := NewStore()

	s.AddItem(AddItemInput{ProductID: "a", UnitPrice: dec("1"), Size: strp("b::c")})
	s.AddItem(AddItemInput{ProductID: "a", UnitPrice: dec("1"), Size: strp("b"), Color: strp("c::")})

	assert.Equal(t, 2, s.Len())
}
