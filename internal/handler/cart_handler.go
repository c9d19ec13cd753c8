package handler

import (
	"context"
	"net/http"
	"net/url"

	"storefront/internal/domain/model"
	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /cartのHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type AddCartRequest struct {
	ProductID string  `json:"product_id"`
	Quantity  int64   `json:"quantity"`
	Size      *string `json:"size"`
	Color     *string `json:"color"`
}

type UpdateCartItemRequest struct {
	Quantity *float64 `json:"quantity"`
}

// /cart, /cart/items/{key} を登録（ゲストセッション必須）
func (h *CartHandler) RegisterRoutes(g *echo.Group) {
	cg := g.Group("/cart")

	cg.GET("", h.getCart)
	cg.DELETE("", h.clear)
	cg.POST("/items", h.addItem)
	cg.PATCH("/items/:key", h.setQuantity)
	cg.DELETE("/items/:key", h.removeItem)
	cg.POST("/items/:key/increment", h.increment)
	cg.POST("/items/:key/decrement", h.decrement)
}

func (h *CartHandler) getCart(c echo.Context) error {
	sid, ok := sessionID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.GetCart(c.Request().Context(), sid, requestLocale(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) addItem(c echo.Context) error {
	sid, ok := sessionID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req AddCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.AddToCart(c.Request().Context(), sid, requestLocale(c), usecase.AddCartInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Size:      req.Size,
		Color:     req.Color,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) setQuantity(c echo.Context) error {
	sid, ok := sessionID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	key, ok := variantKeyParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid key"})
	}

	var req UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if req.Quantity == nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "quantity required"})
	}

	out, err := h.uc.SetQuantity(c.Request().Context(), sid, requestLocale(c), key, *req.Quantity)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) removeItem(c echo.Context) error {
	return h.keyed(c, h.uc.RemoveItem)
}

func (h *CartHandler) increment(c echo.Context) error {
	return h.keyed(c, h.uc.Increment)
}

func (h *CartHandler) decrement(c echo.Context) error {
	return h.keyed(c, h.uc.Decrement)
}

func (h *CartHandler) clear(c echo.Context) error {
	sid, ok := sessionID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.uc.Clear(c.Request().Context(), sid); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "cleared"})
}

// key指定の操作は同じ形なのでまとめる
func (h *CartHandler) keyed(
	c echo.Context,
	op func(ctx context.Context, sid string, locale model.Locale, key string) (usecase.CartResponse, error),
) error {
	sid, ok := sessionID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	key, ok := variantKeyParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid key"})
	}

	out, err := op(c.Request().Context(), sid, requestLocale(c), key)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// variant key は "id::size::color"。クライアントはエスケープして送ってくる
func variantKeyParam(c echo.Context) (string, bool) {
	raw := c.Param("key")
	key, err := url.PathUnescape(raw)
	if err != nil || key == "" {
		return "", false
	}
	return key, true
}

func sessionID(c echo.Context) (string, bool) {
	sid := middleware.SessionID(c)
	return sid, sid != ""
}
