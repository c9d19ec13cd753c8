package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"storefront/internal/cart"
	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartUsecase は /cart の業務ロジック。
// カートはゲストセッションごとに保存先（DB / Redis）へ丸ごと保存する。
type CartUsecase struct {
	storage   cart.Storage
	namespace string
	products  repo.ProductRepository
	logger    *zap.Logger
}

func NewCartUsecase(
	storage cart.Storage,
	namespace string,
	products repo.ProductRepository,
	logger *zap.Logger,
) *CartUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartUsecase{
		storage:   storage,
		namespace: namespace,
		products:  products,
		logger:    logger,
	}
}

type CartItemResponse struct {
	VariantKey string          `json:"variant_key"`
	ProductID  string          `json:"product_id"`
	Name       string          `json:"name"`
	ImageURL   string          `json:"image_url"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int64           `json:"quantity"`
	Size       *string         `json:"size,omitempty"`
	Color      *string         `json:"color,omitempty"`
	LineTotal  decimal.Decimal `json:"line_total"`
}

type CartResponse struct {
	Items     []CartItemResponse `json:"items"`
	Subtotal  decimal.Decimal    `json:"subtotal"`
	ItemCount int64              `json:"item_count"`
}

type AddCartInput struct {
	ProductID string
	Quantity  int64
	Size      *string
	Color     *string
}

func (u *CartUsecase) GetCart(ctx context.Context, sessionID string, locale model.Locale) (CartResponse, error) {
	s, err := u.open(ctx, sessionID)
	if err != nil {
		return CartResponse{}, err
	}
	return toCartResponse(s, locale), nil
}

// AddToCart は商品の今の名前・価格・画像で行を追加する（同じバリアントは数量加算）。
// 在庫の上限チェックはしない。
func (u *CartUsecase) AddToCart(ctx context.Context, sessionID string, locale model.Locale, in AddCartInput) (CartResponse, error) {
	productID := strings.TrimSpace(in.ProductID)
	if productID == "" {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if in.Quantity < 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}
	size := trimOptional(in.Size)
	color := trimOptional(in.Color)

	s, err := u.open(ctx, sessionID)
	if err != nil {
		return CartResponse{}, err
	}

	p, err := u.products.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if size != nil && !p.HasSize(*size) {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid size")
	}
	if color != nil && !p.HasColor(*color) {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid color")
	}

	if _, err := s.AddItem(ctx, cart.AddItemInput{
		ProductID: p.ID,
		Name:      p.NameEN,
		NameAR:    p.NameAR,
		ImageURL:  p.ImageURL,
		UnitPrice: p.Price,
		Quantity:  in.Quantity,
		Size:      size,
		Color:     color,
	}); err != nil {
		return CartResponse{}, cartNotSaved()
	}
	return toCartResponse(s, locale), nil
}

func (u *CartUsecase) Increment(ctx context.Context, sessionID string, locale model.Locale, key string) (CartResponse, error) {
	return u.mutate(ctx, sessionID, locale, func(s *cart.PersistedStore) error {
		return s.Increment(ctx, key)
	})
}

// Decrement は1で止まる（削除は RemoveItem）
func (u *CartUsecase) Decrement(ctx context.Context, sessionID string, locale model.Locale, key string) (CartResponse, error) {
	return u.mutate(ctx, sessionID, locale, func(s *cart.PersistedStore) error {
		return s.Decrement(ctx, key)
	})
}

func (u *CartUsecase) SetQuantity(ctx context.Context, sessionID string, locale model.Locale, key string, quantity float64) (CartResponse, error) {
	return u.mutate(ctx, sessionID, locale, func(s *cart.PersistedStore) error {
		return s.SetQuantity(ctx, key, quantity)
	})
}

func (u *CartUsecase) RemoveItem(ctx context.Context, sessionID string, locale model.Locale, key string) (CartResponse, error) {
	return u.mutate(ctx, sessionID, locale, func(s *cart.PersistedStore) error {
		return s.RemoveItem(ctx, key)
	})
}

func (u *CartUsecase) Clear(ctx context.Context, sessionID string) error {
	s, err := u.open(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := s.Clear(ctx); err != nil {
		return cartNotSaved()
	}
	return nil
}

// Contents はチェックアウト用にカートの行と合計を返す
func (u *CartUsecase) Contents(ctx context.Context, sessionID string) ([]model.CartLineItem, model.CartTotals, error) {
	s, err := u.open(ctx, sessionID)
	if err != nil {
		return nil, model.CartTotals{}, err
	}
	return s.Items(), s.Totals(), nil
}

func (u *CartUsecase) mutate(ctx context.Context, sessionID string, locale model.Locale, fn func(s *cart.PersistedStore) error) (CartResponse, error) {
	s, err := u.open(ctx, sessionID)
	if err != nil {
		return CartResponse{}, err
	}
	if err := fn(s); err != nil {
		return CartResponse{}, cartNotSaved()
	}
	return toCartResponse(s, locale), nil
}

func (u *CartUsecase) open(ctx context.Context, sessionID string) (*cart.PersistedStore, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	s, err := cart.Open(ctx, u.storage, cart.StorageKey(u.namespace, sessionID), u.logger)
	if err != nil {
		u.logger.Error("failed to load cart", zap.String("session_id", sessionID), zap.Error(err))
		return nil, NewHTTPError(http.StatusServiceUnavailable, "cart storage unavailable")
	}
	return s, nil
}

func cartNotSaved() error {
	return NewHTTPError(http.StatusServiceUnavailable, "cart not saved")
}

func toCartResponse(s *cart.PersistedStore, locale model.Locale) CartResponse {
	items := s.Items()
	totals := s.Totals()

	out := CartResponse{
		Items:     make([]CartItemResponse, 0, len(items)),
		Subtotal:  totals.Subtotal,
		ItemCount: totals.ItemCount,
	}
	for _, it := range items {
		out.Items = append(out.Items, CartItemResponse{
			VariantKey: it.VariantKey,
			ProductID:  it.ProductID,
			Name:       it.DisplayName(locale),
			ImageURL:   it.ImageURL,
			UnitPrice:  it.UnitPrice,
			Quantity:   it.Quantity,
			Size:       it.Size,
			Color:      it.Color,
			LineTotal:  it.LineTotal(),
		})
	}
	return out
}

// 空文字は「指定なし」
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
