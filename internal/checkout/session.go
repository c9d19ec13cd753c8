package checkout

import (
	"errors"
	"time"

	"storefront/internal/domain/model"
)

// 今のステップからは進めない
var ErrInvalidTransition = errors.New("invalid checkout transition")

// Session はチェックアウト1回分の状態。前にしか進まない。
// shipping -> payment -> confirmation
type Session struct {
	ID            string
	Step          Step
	Shipping      *model.ShippingDetails
	PaymentMethod model.PaymentMethod
	Pricing       *model.Pricing

	// 注文作成の結果（失敗しても確認画面には進む）
	OrderID        string
	OrderPersisted bool

	StartedAt   time.Time
	CompletedAt *time.Time
}

// 確定時に記録する内容
type Confirmation struct {
	PaymentMethod  model.PaymentMethod
	Pricing        model.Pricing
	OrderID        string
	OrderPersisted bool
}

func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		Step:      StepShipping,
		StartedAt: now,
	}
}

// CompleteShipping は配送先を取り込んで payment へ進める
func (s *Session) CompleteShipping(details model.ShippingDetails) error {
	if s.Step != StepShipping {
		return ErrInvalidTransition
	}
	d := details
	s.Shipping = &d
	s.Step = StepPayment
	return nil
}

// CompletePayment は決済結果を記録して confirmation へ進める
func (s *Session) CompletePayment(c Confirmation, now time.Time) error {
	if s.Step != StepPayment {
		return ErrInvalidTransition
	}
	p := c.Pricing
	s.PaymentMethod = c.PaymentMethod
	s.Pricing = &p
	s.OrderID = c.OrderID
	s.OrderPersisted = c.OrderPersisted
	s.CompletedAt = &now
	s.Step = StepConfirmation
	return nil
}
