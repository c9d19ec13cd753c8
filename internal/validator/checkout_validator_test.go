package validator

import (
	"testing"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"

	playground "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validShipping() model.ShippingDetails {
	return model.ShippingDetails{
		FullName:   " Sara Ali ",
		Email:      "sara@example.com",
		Phone:      "0500000000",
		Street:     "King Fahd Rd",
		City:       "Riyadh",
		PostalCode: "12211",
		Country:    "SA",
	}
}

func TestValidateShipping_OK(t *testing.T) {
	v := NewCheckoutValidator()

	got, err := v.ValidateShipping(validShipping())
	require.NoError(t, err)
	assert.Equal(t, "Sara Ali", got.FullName)
}

func TestValidateShipping_FieldErrors(t *testing.T) {
	v := NewCheckoutValidator()

	in := validShipping()
	in.Email = "not-an-email"
	in.City = "   "
	in.PostalCode = ""

	_, err := v.ValidateShipping(in)
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, 400, he.Status)
	assert.Equal(t, map[string]string{
		"email":       "must be a valid email",
		"city":        "is required",
		"postal_code": "is required",
	}, he.Fields)
}

func TestValidateShipping_EmailPattern(t *testing.T) {
	v := NewCheckoutValidator()

	tests := []struct {
		email string
		ok    bool
	}{
		{"a@b.co", true},
		{"a@b", false},
		{"a b@c.de", false},
		{"@c.de", false},
	}
	for _, tt := range tests {
		in := validShipping()
		in.Email = tt.email
		_, err := v.ValidateShipping(in)
		assert.Equal(t, tt.ok, err == nil, tt.email)
	}
}

func TestValidatePaymentMethod(t *testing.T) {
	v := NewCheckoutValidator()

	m, err := v.ValidatePaymentMethod("cash_on_delivery")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentMethodCashOnDelivery, m)

	_, err = v.ValidatePaymentMethod("bitcoin")
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Contains(t, he.Fields["method"], "one of")

	_, err = v.ValidatePaymentMethod("")
	he, ok = usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, "is required", he.Fields["method"])
}

func TestNewCheckoutValidator_RegistersRules(t *testing.T) {
	assert.NotPanics(t, func() { NewCheckoutValidator() })
	require.NoError(t, registerRules(playground.New(), basicEmailTag))
}

func TestRegisterRules_ErrorIsReturned(t *testing.T) {
	// 空のタグ名は validator 側で拒否される
	err := registerRules(playground.New(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "register")
}
