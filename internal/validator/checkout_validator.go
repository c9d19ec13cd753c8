package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"

	playground "github.com/go-playground/validator/v10"
)

// 簡易メール形式
var emailLike = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type shippingForm struct {
	FullName   string `json:"full_name" validate:"required,max=255"`
	Email      string `json:"email" validate:"required,basic_email,max=255"`
	Phone      string `json:"phone" validate:"required,max=30"`
	Street     string `json:"street" validate:"required,max=255"`
	City       string `json:"city" validate:"required,max=255"`
	PostalCode string `json:"postal_code" validate:"required,max=20"`
	Country    string `json:"country" validate:"required,max=100"`
}

type checkoutValidator struct {
	v *playground.Validate
}

// Usecaseは interface を依存注入
func NewCheckoutValidator() usecase.CheckoutValidator {
	v := playground.New()
	// エラーのフィールド名はjsonタグ
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// 登録できないのは起動時の設定ミスなので止める
	if err := registerRules(v, basicEmailTag); err != nil {
		panic(err)
	}
	return &checkoutValidator{v: v}
}

const basicEmailTag = "basic_email"

func registerRules(v *playground.Validate, emailTag string) error {
	if err := v.RegisterValidation(emailTag, func(fl playground.FieldLevel) bool {
		return emailLike.MatchString(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("register %q: %w", emailTag, err)
	}
	return nil
}

// 配送先を検証（前後の空白は落とす）
func (cv *checkoutValidator) ValidateShipping(in model.ShippingDetails) (model.ShippingDetails, error) {
	form := shippingForm{
		FullName:   strings.TrimSpace(in.FullName),
		Email:      strings.TrimSpace(in.Email),
		Phone:      strings.TrimSpace(in.Phone),
		Street:     strings.TrimSpace(in.Street),
		City:       strings.TrimSpace(in.City),
		PostalCode: strings.TrimSpace(in.PostalCode),
		Country:    strings.TrimSpace(in.Country),
	}

	if err := cv.v.Struct(form); err != nil {
		return model.ShippingDetails{}, usecase.NewValidationError(fieldErrors(err))
	}

	return model.ShippingDetails{
		FullName:   form.FullName,
		Email:      form.Email,
		Phone:      form.Phone,
		Street:     form.Street,
		City:       form.City,
		PostalCode: form.PostalCode,
		Country:    form.Country,
	}, nil
}

func (cv *checkoutValidator) ValidatePaymentMethod(method string) (model.PaymentMethod, error) {
	method = strings.TrimSpace(method)
	if err := cv.v.Var(method, "required,oneof=card cash_on_delivery bank_transfer"); err != nil {
		msg := "is required"
		if method != "" {
			msg = "must be one of: card cash_on_delivery bank_transfer"
		}
		return "", usecase.NewValidationError(map[string]string{"method": msg})
	}
	return model.PaymentMethod(method), nil
}

func fieldErrors(err error) map[string]string {
	out := map[string]string{}

	var ve playground.ValidationErrors
	if !errors.As(err, &ve) {
		out["_"] = "invalid input"
		return out
	}
	for _, fe := range ve {
		out[fe.Field()] = messageForTag(fe.Tag(), fe.Param())
	}
	return out
}

func messageForTag(tag, param string) string {
	switch tag {
	case "required":
		return "is required"
	case "basic_email":
		return "must be a valid email"
	case "max":
		return "must be at most " + param + " characters"
	default:
		return "is invalid"
	}
}
