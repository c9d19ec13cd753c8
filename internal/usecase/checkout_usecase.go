package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"storefront/internal/checkout"
	"storefront/internal/domain/model"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// チェックアウトが使うカートの操作
type CheckoutCart interface {
	Contents(ctx context.Context, sessionID string) ([]model.CartLineItem, model.CartTotals, error)
	Clear(ctx context.Context, sessionID string) error
}

// CheckoutUsecase は shipping -> payment -> confirmation を進める。
// セッションはメモリ上だけに持つ（ゲストセッションIDごとに1つ）。
type CheckoutUsecase struct {
	carts     CheckoutCart
	validator CheckoutValidator
	payments  PaymentProcessor
	orders    OrderPlacer
	ids       IDGenerator
	clock     Clock
	logger    *zap.Logger

	mu       sync.Mutex
	sessions map[string]*checkoutEntry
}

type checkoutEntry struct {
	session *checkout.Session
	// 決済処理中（二重送信防止）
	busy bool
}

func NewCheckoutUsecase(
	carts CheckoutCart,
	validator CheckoutValidator,
	payments PaymentProcessor,
	orders OrderPlacer,
	ids IDGenerator,
	clock Clock,
	logger *zap.Logger,
) *CheckoutUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutUsecase{
		carts:     carts,
		validator: validator,
		payments:  payments,
		orders:    orders,
		ids:       ids,
		clock:     clock,
		logger:    logger,
		sessions:  map[string]*checkoutEntry{},
	}
}

type CheckoutResponse struct {
	ID             string                 `json:"id"`
	Step           string                 `json:"step"`
	Shipping       *model.ShippingDetails `json:"shipping,omitempty"`
	PaymentMethod  string                 `json:"payment_method,omitempty"`
	Pricing        *model.Pricing         `json:"pricing,omitempty"`
	OrderID        string                 `json:"order_id,omitempty"`
	OrderPersisted bool                   `json:"order_persisted"`
	StartedAt      time.Time              `json:"started_at"`
	CompletedAt    *time.Time             `json:"completed_at,omitempty"`
}

type PaymentInput struct {
	Method string
}

// Begin は新しいチェックアウトを始める（前のものは捨てる）
func (u *CheckoutUsecase) Begin(ctx context.Context, sessionID string) (CheckoutResponse, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return CheckoutResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	items, _, err := u.carts.Contents(ctx, sessionID)
	if err != nil {
		return CheckoutResponse{}, err
	}
	if len(items) == 0 {
		return CheckoutResponse{}, NewHTTPError(http.StatusBadRequest, "cart empty")
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if e, ok := u.sessions[sessionID]; ok && e.busy {
		return CheckoutResponse{}, NewHTTPError(http.StatusConflict, "payment in progress")
	}
	s := checkout.NewSession(u.ids.NewID(), u.clock.Now())
	u.sessions[sessionID] = &checkoutEntry{session: s}
	return toCheckoutResponse(s), nil
}

func (u *CheckoutUsecase) Get(ctx context.Context, sessionID string) (CheckoutResponse, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	e, err := u.entry(sessionID)
	if err != nil {
		return CheckoutResponse{}, err
	}
	return toCheckoutResponse(e.session), nil
}

// SubmitShipping は配送先を検証して payment に進める
func (u *CheckoutUsecase) SubmitShipping(ctx context.Context, sessionID string, in model.ShippingDetails) (CheckoutResponse, error) {
	details, err := u.validator.ValidateShipping(in)
	if err != nil {
		return CheckoutResponse{}, err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	e, err := u.entry(sessionID)
	if err != nil {
		return CheckoutResponse{}, err
	}
	if err := e.session.CompleteShipping(details); err != nil {
		return CheckoutResponse{}, transitionError(err)
	}
	return toCheckoutResponse(e.session), nil
}

// SubmitPayment は決済 -> 注文作成 -> カートを空に -> confirmation の順に進める。
// 注文作成に失敗しても確認画面には進み、OrderPersisted=false を残す。
func (u *CheckoutUsecase) SubmitPayment(ctx context.Context, sessionID string, in PaymentInput) (CheckoutResponse, error) {
	method, err := u.validator.ValidatePaymentMethod(in.Method)
	if err != nil {
		return CheckoutResponse{}, err
	}

	u.mu.Lock()
	e, err := u.entry(sessionID)
	if err != nil {
		u.mu.Unlock()
		return CheckoutResponse{}, err
	}
	if e.session.Step != checkout.StepPayment {
		u.mu.Unlock()
		return CheckoutResponse{}, transitionError(checkout.ErrInvalidTransition)
	}
	if e.busy {
		u.mu.Unlock()
		return CheckoutResponse{}, NewHTTPError(http.StatusConflict, "payment in progress")
	}
	e.busy = true
	shipping := *e.session.Shipping
	u.mu.Unlock()

	defer func() {
		u.mu.Lock()
		e.busy = false
		u.mu.Unlock()
	}()

	items, totals, err := u.carts.Contents(ctx, sessionID)
	if err != nil {
		return CheckoutResponse{}, err
	}
	if len(items) == 0 {
		return CheckoutResponse{}, NewHTTPError(http.StatusBadRequest, "cart empty")
	}
	pricing := checkout.Quote(totals.Subtotal)

	if err := u.payments.Charge(ctx, method, pricing.Total); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return CheckoutResponse{}, NewHTTPError(http.StatusRequestTimeout, "payment cancelled")
		}
		u.logger.Warn("payment failed", zap.String("checkout_id", e.session.ID), zap.Error(err))
		return CheckoutResponse{}, NewHTTPError(http.StatusPaymentRequired, "payment failed")
	}

	// 決済済みなので、ここから先はクライアントが切断しても止めない
	ctx = context.WithoutCancel(ctx)

	draft := buildOrderDraft(sessionID, shipping, method, items, pricing)
	orderID, err := u.orders.PlaceOrder(ctx, draft)
	persisted := err == nil
	if err != nil {
		u.logger.Error("failed to place order",
			zap.String("checkout_id", e.session.ID),
			zap.String("email", draft.Customer.Email),
			zap.String("total", draft.Total.StringFixed(2)),
			zap.Error(err),
		)
		orderID = ""
	}

	if err := u.carts.Clear(ctx, sessionID); err != nil {
		u.logger.Error("failed to clear cart after payment", zap.String("checkout_id", e.session.ID), zap.Error(err))
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	if err := e.session.CompletePayment(checkout.Confirmation{
		PaymentMethod:  method,
		Pricing:        pricing,
		OrderID:        orderID,
		OrderPersisted: persisted,
	}, u.clock.Now()); err != nil {
		return CheckoutResponse{}, transitionError(err)
	}
	return toCheckoutResponse(e.session), nil
}

// Abandon はチェックアウトを捨てる（無ければ何もしない）
func (u *CheckoutUsecase) Abandon(ctx context.Context, sessionID string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if e, ok := u.sessions[sessionID]; ok {
		if e.busy {
			return NewHTTPError(http.StatusConflict, "payment in progress")
		}
		delete(u.sessions, sessionID)
	}
	return nil
}

// 呼び出し側で mu を持っていること
func (u *CheckoutUsecase) entry(sessionID string) (*checkoutEntry, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	e, ok := u.sessions[sessionID]
	if !ok {
		return nil, NewHTTPError(http.StatusNotFound, "checkout not started")
	}
	return e, nil
}

func transitionError(err error) error {
	if errors.Is(err, checkout.ErrInvalidTransition) {
		return NewHTTPError(http.StatusConflict, "invalid checkout step")
	}
	return err
}

func buildOrderDraft(
	sessionID string,
	shipping model.ShippingDetails,
	method model.PaymentMethod,
	items []model.CartLineItem,
	pricing model.Pricing,
) model.OrderDraft {
	lines := make([]model.OrderDraftItem, 0, len(items))
	for _, it := range items {
		lines = append(lines, model.OrderDraftItem{
			ID:       it.ProductID,
			Name:     it.Name,
			Price:    it.UnitPrice,
			Quantity: it.Quantity,
			Size:     deref(it.Size),
			Color:    deref(it.Color),
			Image:    it.ImageURL,
		})
	}

	return model.OrderDraft{
		SessionID: sessionID,
		Customer: model.Customer{
			Name:  shipping.FullName,
			Email: shipping.Email,
			Phone: shipping.Phone,
		},
		Items:         lines,
		Subtotal:      pricing.Subtotal,
		ShippingFee:   pricing.ShippingFee,
		Tax:           pricing.Tax,
		Total:         pricing.Total,
		Status:        model.OrderStatusPending,
		PaymentMethod: method,
		ShippingAddress: model.ShippingAddress{
			Name:       shipping.FullName,
			Street:     shipping.Street,
			City:       shipping.City,
			PostalCode: shipping.PostalCode,
			Country:    shipping.Country,
		},
	}
}

// QuoteSubtotal は表示用の料金計算（GET /checkout/quote）
func QuoteSubtotal(subtotal decimal.Decimal) (model.Pricing, error) {
	if subtotal.IsNegative() {
		return model.Pricing{}, NewHTTPError(http.StatusBadRequest, "subtotal must be >= 0")
	}
	return checkout.Quote(subtotal), nil
}

func toCheckoutResponse(s *checkout.Session) CheckoutResponse {
	out := CheckoutResponse{
		ID:             s.ID,
		Step:           s.Step.String(),
		PaymentMethod:  string(s.PaymentMethod),
		OrderID:        s.OrderID,
		OrderPersisted: s.OrderPersisted,
		StartedAt:      s.StartedAt,
		CompletedAt:    s.CompletedAt,
	}
	if s.Shipping != nil {
		d := *s.Shipping
		out.Shipping = &d
	}
	if s.Pricing != nil {
		p := *s.Pricing
		out.Pricing = &p
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
