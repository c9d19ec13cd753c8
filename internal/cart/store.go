package cart

import (
	"math"
	"sort"

	"storefront/internal/domain/model"

	"github.com/shopspring/decimal"
)

// Store はバリアントキー→明細のマップ。
// 保存などのI/Oは持たない（PersistedStoreが包む）。
type Store struct {
	items map[string]model.CartLineItem
	seq   int64
}

// カートに追加する内容
type AddItemInput struct {
	ProductID string
	Name      string
	NameAR    string
	ImageURL  string
	UnitPrice decimal.Decimal
	Quantity  int64
	Size      *string
	Color     *string
}

func NewStore() *Store {
	return &Store{items: map[string]model.CartLineItem{}}
}

// 保存済みの状態から作り直す
func FromState(state model.CartState) *Store {
	s := NewStore()
	for k, it := range state.Items {
		s.items[k] = copyItem(it)
		if it.Seq > s.seq {
			s.seq = it.Seq
		}
	}
	return s
}

// State は現在のマップのコピーを返す
func (s *Store) State() model.CartState {
	out := make(map[string]model.CartLineItem, len(s.items))
	for k, it := range s.items {
		out[k] = copyItem(it)
	}
	return model.CartState{Items: out}
}

// AddItem は同一バリアントなら数量を加算、無ければ新しい行を作る。
func (s *Store) AddItem(in AddItemInput) model.CartLineItem {
	qty := in.Quantity
	if qty < 1 {
		qty = 1
	}

	key := model.VariantKey(in.ProductID, in.Size, in.Color)
	if it, ok := s.items[key]; ok {
		//上書きではなく加算
		it.Quantity = addQuantity(it.Quantity, qty)
		s.items[key] = it
		return copyItem(it)
	}

	s.seq++
	it := model.CartLineItem{
		VariantKey: key,
		ProductID:  in.ProductID,
		Name:       in.Name,
		NameAR:     in.NameAR,
		ImageURL:   in.ImageURL,
		UnitPrice:  in.UnitPrice,
		Quantity:   qty,
		Size:       copyString(in.Size),
		Color:      copyString(in.Color),
		Seq:        s.seq,
	}
	s.items[key] = it
	return copyItem(it)
}

// 行を削除（無ければ何もしない）
func (s *Store) RemoveItem(key string) bool {
	if _, ok := s.items[key]; !ok {
		return false
	}
	delete(s.items, key)
	return true
}

func (s *Store) Increment(key string) bool {
	it, ok := s.items[key]
	if !ok {
		return false
	}
	if it.Quantity < math.MaxInt64 {
		it.Quantity++
	}
	s.items[key] = it
	return true
}

// Decrement は1未満にしない（行の削除はRemoveItemだけ）
func (s *Store) Decrement(key string) bool {
	it, ok := s.items[key]
	if !ok {
		return false
	}
	if it.Quantity > 1 {
		it.Quantity--
	}
	s.items[key] = it
	return true
}

// SetQuantity は max(1, floor(n)) を設定する
func (s *Store) SetQuantity(key string, n float64) bool {
	it, ok := s.items[key]
	if !ok {
		return false
	}
	it.Quantity = clampQuantity(n)
	s.items[key] = it
	return true
}

func (s *Store) Clear() {
	s.items = map[string]model.CartLineItem{}
}

func (s *Store) Get(key string) (model.CartLineItem, bool) {
	it, ok := s.items[key]
	if !ok {
		return model.CartLineItem{}, false
	}
	return copyItem(it), true
}

func (s *Store) Len() int {
	return len(s.items)
}

// Items は追加順に並べた明細
func (s *Store) Items() []model.CartLineItem {
	out := make([]model.CartLineItem, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, copyItem(it))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Seq != out[j].Seq {
			return out[i].Seq < out[j].Seq
		}
		return out[i].VariantKey < out[j].VariantKey
	})
	return out
}

// Totals は毎回全行から計算する
func (s *Store) Totals() model.CartTotals {
	subtotal := decimal.Zero
	var count int64
	for _, it := range s.items {
		subtotal = subtotal.Add(it.LineTotal())
		count = addQuantity(count, it.Quantity)
	}
	return model.CartTotals{Subtotal: subtotal, ItemCount: count}
}

// 正の数同士の加算。MaxInt64 で頭打ち
func addQuantity(a, b int64) int64 {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

func clampQuantity(n float64) int64 {
	if math.IsNaN(n) || n < 1 {
		return 1
	}
	f := math.Floor(n)
	if f >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(f)
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func copyItem(it model.CartLineItem) model.CartLineItem {
	it.Size = copyString(it.Size)
	it.Color = copyString(it.Color)
	return it
}
