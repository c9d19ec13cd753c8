package model

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// 終端（これ以上変えられない）
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// 許可する遷移
// pending -> processing -> shipped -> delivered
// pending/processing -> cancelled
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	return slices.Contains(orderTransitions[s], next)
}

// 注文（顧客情報・配送先・料金はスナップショットで持つ）
type Order struct {
	ID        string      `gorm:"type:varchar(36);primaryKey" json:"id"`
	SessionID string      `gorm:"type:varchar(64);not null;index" json:"-"`
	Status    OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	CustomerName  string `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerEmail string `gorm:"type:varchar(255);not null;index" json:"customer_email"`
	CustomerPhone string `gorm:"type:varchar(30);not null" json:"customer_phone"`

	ShipName       string `gorm:"type:varchar(255);not null" json:"ship_name"`
	ShipStreet     string `gorm:"type:varchar(255);not null" json:"ship_street"`
	ShipCity       string `gorm:"type:varchar(255);not null" json:"ship_city"`
	ShipPostalCode string `gorm:"type:varchar(20);not null" json:"ship_postal_code"`
	ShipCountry    string `gorm:"type:varchar(100);not null" json:"ship_country"`

	PaymentMethod PaymentMethod `gorm:"type:varchar(30);not null" json:"payment_method"`

	Subtotal    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	ShippingFee decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"shipping_fee"`
	Tax         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"tax"`
	Total       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// 注文明細（追加時点の名前・価格・バリアント）
type OrderItem struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   string          `gorm:"type:varchar(36);not null;index" json:"order_id"`
	ProductID string          `gorm:"type:varchar(64);not null;index" json:"product_id"`
	Name      string          `gorm:"type:varchar(255);not null" json:"name"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	Quantity  int64           `gorm:"not null" json:"quantity"`
	Size      string          `gorm:"type:varchar(20)" json:"size"`
	Color     string          `gorm:"type:varchar(50)" json:"color"`
	ImageURL  string          `gorm:"type:text" json:"image_url"`
	CreatedAt time.Time       `gorm:"not null" json:"created_at"`
}

// 注文作成の依頼内容（外部の永続化先に渡す形）
type OrderDraft struct {
	SessionID       string           `json:"-"`
	Customer        Customer         `json:"customer"`
	Items           []OrderDraftItem `json:"items"`
	Subtotal        decimal.Decimal  `json:"subtotal"`
	ShippingFee     decimal.Decimal  `json:"shippingFee"`
	Tax             decimal.Decimal  `json:"tax"`
	Total           decimal.Decimal  `json:"total"`
	Status          OrderStatus      `json:"status"`
	PaymentMethod   PaymentMethod    `json:"paymentMethod"`
	ShippingAddress ShippingAddress  `json:"shippingAddress"`
}

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type OrderDraftItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int64           `json:"quantity"`
	Size     string          `json:"size"`
	Color    string          `json:"color"`
	Image    string          `json:"image"`
}

type ShippingAddress struct {
	Name       string `json:"name"`
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}
