package cart

import (
	"encoding/json"
	"errors"
	"fmt"

	"storefront/internal/domain/model"
)

// 保存データが壊れている
var ErrCorruptSnapshot = errors.New("corrupt cart snapshot")

// 保存形式 {"items": {variantKey: item}}
type snapshot struct {
	Items map[string]model.CartLineItem `json:"items"`
}

// Marshal はカート全体を保存用にシリアライズする
func Marshal(state model.CartState) ([]byte, error) {
	items := state.Items
	if items == nil {
		items = map[string]model.CartLineItem{}
	}
	return json.Marshal(snapshot{Items: items})
}

// Unmarshal は保存データを読み戻す。形が不正ならErrCorruptSnapshot。
func Unmarshal(data []byte) (model.CartState, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return model.CartState{}, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}

	items := make(map[string]model.CartLineItem, len(snap.Items))
	for key, it := range snap.Items {
		if it.ProductID == "" {
			return model.CartState{}, fmt.Errorf("%w: row %q has no product id", ErrCorruptSnapshot, key)
		}
		if model.VariantKey(it.ProductID, it.Size, it.Color) != key || it.VariantKey != key {
			return model.CartState{}, fmt.Errorf("%w: row %q has mismatched variant key", ErrCorruptSnapshot, key)
		}
		if it.Quantity < 1 {
			return model.CartState{}, fmt.Errorf("%w: row %q has quantity %d", ErrCorruptSnapshot, key, it.Quantity)
		}
		if it.UnitPrice.IsNegative() {
			return model.CartState{}, fmt.Errorf("%w: row %q has negative price", ErrCorruptSnapshot, key)
		}
		items[key] = it
	}
	return model.CartState{Items: items}, nil
}
