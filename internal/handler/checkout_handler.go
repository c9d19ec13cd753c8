package handler

import (
	"net/http"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// /checkout のHTTP（shipping -> payment -> confirmation）
type CheckoutHandler struct {
	uc *usecase.CheckoutUsecase
}

func NewCheckoutHandler(uc *usecase.CheckoutUsecase) *CheckoutHandler {
	return &CheckoutHandler{uc: uc}
}

type PaymentRequest struct {
	Method string `json:"method"`
}

func (h *CheckoutHandler) RegisterRoutes(g *echo.Group) {
	cg := g.Group("/checkout")

	cg.POST("", h.begin)
	cg.GET("", h.get)
	cg.DELETE("", h.abandon)
	cg.POST("/shipping", h.shipping)
	cg.POST("/payment", h.payment)
	cg.GET("/quote", h.quote)
}

func (h *CheckoutHandler) begin(c echo.Context) error {
	sid, ok := sessionID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.Begin(c.Request().Context(), sid)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *CheckoutHandler) get(c echo.Context) error {
	sid, ok := sessionID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.Get(c.Request().Context(), sid)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CheckoutHandler) shipping(c echo.Context) error {
	sid, ok := sessionID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req model.ShippingDetails
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.SubmitShipping(c.Request().Context(), sid, req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CheckoutHandler) payment(c echo.Context) error {
	sid, ok := sessionID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req PaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	// クライアントが切断したら決済待ちも止まる
	out, err := h.uc.SubmitPayment(c.Request().Context(), sid, usecase.PaymentInput{Method: req.Method})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CheckoutHandler) abandon(c echo.Context) error {
	sid, ok := sessionID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.uc.Abandon(c.Request().Context(), sid); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "abandoned"})
}

// 小計から送料・税・合計を出す（カート画面用）
func (h *CheckoutHandler) quote(c echo.Context) error {
	v := c.QueryParam("subtotal")
	if v == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "subtotal required"})
	}
	subtotal, err := decimal.NewFromString(v)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid subtotal"})
	}

	out, err := usecase.QuoteSubtotal(subtotal)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
