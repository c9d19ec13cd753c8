package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
)

// OrderUsecase は注文をDBに作成する（OrderPlacer）＋ゲストの注文履歴
type OrderUsecase struct {
	tx    repo.TransactionManager
	ids   IDGenerator
	clock Clock
}

func NewOrderUsecase(tx repo.TransactionManager, ids IDGenerator, clock Clock) *OrderUsecase {
	return &OrderUsecase{tx: tx, ids: ids, clock: clock}
}

type OrderItemOutput struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int64           `json:"quantity"`
	Size      string          `json:"size,omitempty"`
	Color     string          `json:"color,omitempty"`
	ImageURL  string          `json:"image_url,omitempty"`
}

type OrderOutput struct {
	ID              string                `json:"id"`
	Status          string                `json:"status"`
	Customer        model.Customer        `json:"customer"`
	ShippingAddress model.ShippingAddress `json:"shipping_address"`
	PaymentMethod   string                `json:"payment_method"`
	Subtotal        decimal.Decimal       `json:"subtotal"`
	ShippingFee     decimal.Decimal       `json:"shipping_fee"`
	Tax             decimal.Decimal       `json:"tax"`
	Total           decimal.Decimal       `json:"total"`
	CreatedAt       time.Time             `json:"created_at"`
	Items           []OrderItemOutput     `json:"items"`
}

type OrderListOutput struct {
	Items []OrderOutput `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

// PlaceOrder は注文と明細を1トランザクションで作る
func (u *OrderUsecase) PlaceOrder(ctx context.Context, draft model.OrderDraft) (string, error) {
	if len(draft.Items) == 0 {
		return "", errors.New("order has no items")
	}

	status := draft.Status
	if status == "" {
		status = model.OrderStatusPending
	}

	now := u.clock.Now()
	orderID := u.ids.NewID()

	order := model.Order{
		ID:             orderID,
		SessionID:      draft.SessionID,
		Status:         status,
		CustomerName:   draft.Customer.Name,
		CustomerEmail:  strings.TrimSpace(draft.Customer.Email),
		CustomerPhone:  draft.Customer.Phone,
		ShipName:       draft.ShippingAddress.Name,
		ShipStreet:     draft.ShippingAddress.Street,
		ShipCity:       draft.ShippingAddress.City,
		ShipPostalCode: draft.ShippingAddress.PostalCode,
		ShipCountry:    draft.ShippingAddress.Country,
		PaymentMethod:  draft.PaymentMethod,
		Subtotal:       draft.Subtotal,
		ShippingFee:    draft.ShippingFee,
		Tax:            draft.Tax,
		Total:          draft.Total,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	//スナップショット
	items := make([]model.OrderItem, 0, len(draft.Items))
	for _, it := range draft.Items {
		items = append(items, model.OrderItem{
			ProductID: it.ID,
			Name:      it.Name,
			UnitPrice: it.Price,
			Quantity:  it.Quantity,
			Size:      it.Size,
			Color:     it.Color,
			ImageURL:  it.Image,
			CreatedAt: now,
		})
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Orders().Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		if err := r.OrderItems().CreateBulk(ctx, orderID, items); err != nil {
			return fmt.Errorf("create order items: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return orderID, nil
}

// このセッションから出した注文の一覧
func (u *OrderUsecase) ListSessionOrders(ctx context.Context, sessionID string, page int, limit int) (OrderListOutput, error) {
	if strings.TrimSpace(sessionID) == "" {
		return OrderListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if page < 1 {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if limit < 1 || limit > 100 {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	out := OrderListOutput{Page: page, Limit: limit}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().ListBySessionID(ctx, sessionID, page, limit)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out.Total = total
		out.Items = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			out.Items = append(out.Items, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return OrderListOutput{}, err
	}
	return out, nil
}

func (u *OrderUsecase) GetSessionOrder(ctx context.Context, sessionID string, orderID string) (OrderOutput, error) {
	if strings.TrimSpace(sessionID) == "" {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(orderID) == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.SessionID != sessionID {
			//他のセッションの注文は「存在しない扱い」にする
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
			Size:      it.Size,
			Color:     it.Color,
			ImageURL:  it.ImageURL,
		})
	}

	return OrderOutput{
		ID:     o.ID,
		Status: string(o.Status),
		Customer: model.Customer{
			Name:  o.CustomerName,
			Email: o.CustomerEmail,
			Phone: o.CustomerPhone,
		},
		ShippingAddress: model.ShippingAddress{
			Name:       o.ShipName,
			Street:     o.ShipStreet,
			City:       o.ShipCity,
			PostalCode: o.ShipPostalCode,
			Country:    o.ShipCountry,
		},
		PaymentMethod: string(o.PaymentMethod),
		Subtotal:      o.Subtotal,
		ShippingFee:   o.ShippingFee,
		Tax:           o.Tax,
		Total:         o.Total,
		CreatedAt:     o.CreatedAt,
		Items:         outItems,
	}
}
