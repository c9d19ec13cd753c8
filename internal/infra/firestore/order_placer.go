package firestore

import (
	"context"
	"fmt"

	"storefront/internal/domain/model"

	"cloud.google.com/go/firestore"
)

const defaultOrdersCollection = "orders"

// OrderPlacer は注文をFirestoreのドキュメントとして作成する
type OrderPlacer struct {
	client     *firestore.Client
	collection string
}

func NewOrderPlacer(client *firestore.Client, collection string) *OrderPlacer {
	if collection == "" {
		collection = defaultOrdersCollection
	}
	return &OrderPlacer{client: client, collection: collection}
}

// PlaceOrder は採番されたドキュメントIDを注文IDとして返す
func (p *OrderPlacer) PlaceOrder(ctx context.Context, draft model.OrderDraft) (string, error) {
	ref := p.client.Collection(p.collection).NewDoc()
	if _, err := ref.Create(ctx, toDocument(draft)); err != nil {
		return "", fmt.Errorf("orders.insert: %w", err)
	}
	return ref.ID, nil
}

type customerDocument struct {
	Name  string `firestore:"name"`
	Email string `firestore:"email"`
	Phone string `firestore:"phone"`
}

type itemDocument struct {
	ID       string  `firestore:"id"`
	Name     string  `firestore:"name"`
	Price    float64 `firestore:"price"`
	Quantity int64   `firestore:"quantity"`
	Size     string  `firestore:"size"`
	Color    string  `firestore:"color"`
	Image    string  `firestore:"image"`
}

type addressDocument struct {
	Name       string `firestore:"name"`
	Street     string `firestore:"street"`
	City       string `firestore:"city"`
	PostalCode string `firestore:"postalCode"`
	Country    string `firestore:"country"`
}

type orderDocument struct {
	SessionID       string           `firestore:"sessionId"`
	Customer        customerDocument `firestore:"customer"`
	Items           []itemDocument   `firestore:"items"`
	Subtotal        float64          `firestore:"subtotal"`
	ShippingFee     float64          `firestore:"shippingFee"`
	Tax             float64          `firestore:"tax"`
	Total           float64          `firestore:"total"`
	Status          string           `firestore:"status"`
	PaymentMethod   string           `firestore:"paymentMethod"`
	ShippingAddress addressDocument  `firestore:"shippingAddress"`
	CreatedAt       any              `firestore:"createdAt"`
}

func toDocument(d model.OrderDraft) orderDocument {
	items := make([]itemDocument, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, itemDocument{
			ID:       it.ID,
			Name:     it.Name,
			Price:    it.Price.InexactFloat64(),
			Quantity: it.Quantity,
			Size:     it.Size,
			Color:    it.Color,
			Image:    it.Image,
		})
	}

	status := d.Status
	if status == "" {
		status = model.OrderStatusPending
	}

	return orderDocument{
		SessionID: d.SessionID,
		Customer: customerDocument{
			Name:  d.Customer.Name,
			Email: d.Customer.Email,
			Phone: d.Customer.Phone,
		},
		Items:         items,
		Subtotal:      d.Subtotal.InexactFloat64(),
		ShippingFee:   d.ShippingFee.InexactFloat64(),
		Tax:           d.Tax.InexactFloat64(),
		Total:         d.Total.InexactFloat64(),
		Status:        string(status),
		PaymentMethod: string(d.PaymentMethod),
		ShippingAddress: addressDocument{
			Name:       d.ShippingAddress.Name,
			Street:     d.ShippingAddress.Street,
			City:       d.ShippingAddress.City,
			PostalCode: d.ShippingAddress.PostalCode,
			Country:    d.ShippingAddress.Country,
		},
		CreatedAt: firestore.ServerTimestamp,
	}
}
