package usecase

import (
	"context"
	"time"

	"storefront/internal/domain/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderPlacer は注文を外部（DB / Firestore）に作成して注文IDを返す
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, draft model.OrderDraft) (string, error)
}

// PaymentProcessor は支払いを処理する（今は疑似）
type PaymentProcessor interface {
	Charge(ctx context.Context, method model.PaymentMethod, amount decimal.Decimal) error
}

// チェックアウト入力の検証
type CheckoutValidator interface {
	ValidateShipping(in model.ShippingDetails) (model.ShippingDetails, error)
	ValidatePaymentMethod(method string) (model.PaymentMethod, error)
}

type IDGenerator interface {
	NewID() string
}

type Clock interface {
	Now() time.Time
}

// UUIDGenerator は uuid v4 を払い出す
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.NewString() }

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
