package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// バリアントキーの区切り
const variantKeySep = "::"

// 各要素の ":" と "%" をエスケープして、区切りと混ざらないようにする
var variantKeyEscaper = strings.NewReplacer("%", "%25", ":", "%3A")

// カートの明細（商品ID＋サイズ＋カラーで1行）
// 表示用の名前・画像は同一判定に使わない。
type CartLineItem struct {
	VariantKey string          `json:"variant_key"`
	ProductID  string          `json:"product_id"`
	Name       string          `json:"name"`
	NameAR     string          `json:"name_ar,omitempty"`
	ImageURL   string          `json:"image_url"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int64           `json:"quantity"`
	Size       *string         `json:"size,omitempty"`
	Color      *string         `json:"color,omitempty"`

	// 追加順（表示順にだけ使う）
	Seq int64 `json:"seq"`
}

// LineTotal は単価×数量
func (i CartLineItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}

// 表示名（arならアラビア語、無ければ英語）
func (i CartLineItem) DisplayName(locale Locale) string {
	if locale == LocaleAR && i.NameAR != "" {
		return i.NameAR
	}
	return i.Name
}

// VariantKey は productID / size / color を連結したカート行のキー。
// size, color が無い場合は空文字として扱う。要素中の ":" は %3A になる。
func VariantKey(productID string, size, color *string) string {
	return variantKeyEscaper.Replace(productID) +
		variantKeySep + variantKeyEscaper.Replace(deref(size)) +
		variantKeySep + variantKeyEscaper.Replace(deref(color))
}

// カート全体（バリアントキー→明細）
type CartState struct {
	Items map[string]CartLineItem `json:"items"`
}

// 合計（毎回計算し直す）
type CartTotals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	ItemCount int64           `json:"item_count"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
