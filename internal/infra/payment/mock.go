package payment

import (
	"context"
	"time"

	"storefront/internal/domain/model"

	"github.com/shopspring/decimal"
)

// MockProcessor は実際の決済をせず、待つだけで成功を返す
type MockProcessor struct {
	delay time.Duration
}

func NewMockProcessor(delay time.Duration) *MockProcessor {
	return &MockProcessor{delay: delay}
}

// Charge は delay だけ待つ。途中でctxが切れたらそのエラーを返す
func (p *MockProcessor) Charge(ctx context.Context, method model.PaymentMethod, amount decimal.Decimal) error {
	if p.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(p.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
