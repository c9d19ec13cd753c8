package firestore

import (
	"context"
	"testing"

	"storefront/internal/domain/model"

	"cloud.google.com/go/firestore"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDocument(t *testing.T) {
	draft := model.OrderDraft{
		SessionID: "sid-1",
		Customer:  model.Customer{Name: "Sara", Email: "sara@example.com", Phone: "0500000000"},
		Items: []model.OrderDraftItem{
			{ID: "p1", Name: "Black Abaya", Price: decimal.NewFromInt(150), Quantity: 1, Size: "M", Color: "black", Image: "/a.jpg"},
		},
		Subtotal:        decimal.NewFromInt(150),
		ShippingFee:     decimal.NewFromInt(25),
		Tax:             decimal.RequireFromString("22.5"),
		Total:           decimal.RequireFromString("197.5"),
		PaymentMethod:   model.PaymentMethodCashOnDelivery,
		ShippingAddress: model.ShippingAddress{Name: "Sara", Street: "King Fahd Rd", City: "Riyadh", PostalCode: "12211", Country: "SA"},
	}

	doc := toDocument(draft)

	assert.Equal(t, "pending", doc.Status)
	assert.Equal(t, "cash_on_delivery", doc.PaymentMethod)
	assert.Equal(t, 197.5, doc.Total)
	assert.Equal(t, 22.5, doc.Tax)
	require.Len(t, doc.Items, 1)
	assert.Equal(t, 150.0, doc.Items[0].Price)
	assert.Equal(t, "M", doc.Items[0].Size)
	assert.Equal(t, "12211", doc.ShippingAddress.PostalCode)
	assert.Equal(t, firestore.ServerTimestamp, doc.CreatedAt)
}

func TestNewClient_RequiresProject(t *testing.T) {
	_, err := NewClient(context.Background(), ClientConfig{ProjectID: "  "})
	assert.Error(t, err)
}

func TestNewOrderPlacer_DefaultCollection(t *testing.T) {
	p := NewOrderPlacer(nil, "")
	assert.Equal(t, "orders", p.collection)
}
