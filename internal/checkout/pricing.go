package checkout

import (
	"storefront/internal/domain/model"

	"github.com/shopspring/decimal"
)

// 料金ポリシー（固定値）
var (
	freeShippingOver = decimal.NewFromInt(200)
	flatShippingFee  = decimal.NewFromInt(25)
	taxRate          = decimal.RequireFromString("0.15")
)

// Quote は小計から送料・税・合計を出す。
// 小計が200を超えたら送料無料、それ以外は25。税は小計の15%。
func Quote(subtotal decimal.Decimal) model.Pricing {
	shipping := flatShippingFee
	if subtotal.GreaterThan(freeShippingOver) {
		shipping = decimal.Zero
	}
	tax := subtotal.Mul(taxRate)

	return model.Pricing{
		Subtotal:    subtotal,
		ShippingFee: shipping,
		Tax:         tax,
		Total:       subtotal.Add(shipping).Add(tax),
	}
}
