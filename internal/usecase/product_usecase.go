package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ProductUsecase struct {
	productRepo repo.ProductRepository
	ids         IDGenerator
	logger      *zap.Logger
}

// DI
func NewProductUsecase(productRepo repo.ProductRepository, ids IDGenerator, logger *zap.Logger) *ProductUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductUsecase{
		productRepo: productRepo,
		ids:         ids,
		logger:      logger,
	}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Page     int
	Limit    int
	Q        string
	Category string
	Size     string
	Color    string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     string
	Locale   model.Locale
}

// 表示言語に合わせた商品
type ProductOutput struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Sizes       []string        `json:"sizes"`
	Colors      []string        `json:"colors"`
	ImageURL    string          `json:"image_url"`
	InStock     bool            `json:"in_stock"`
	CreatedAt   time.Time       `json:"created_at"`
}

type ProductListOutput struct {
	Items []ProductOutput `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

func (u *ProductUsecase) ListPublicProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if len(in.Q) > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "q too long")
	}
	if in.MinPrice != nil && in.MinPrice.IsNegative() {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "min_price must be >= 0")
	}
	if in.MaxPrice != nil && in.MaxPrice.IsNegative() {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "max_price must be >= 0")
	}
	if in.MinPrice != nil && in.MaxPrice != nil && in.MinPrice.GreaterThan(*in.MaxPrice) {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "min_price must be <= max_price")
	}
	switch in.Sort {
	case "", "new", "price_asc", "price_desc":
	default:
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid sort")
	}

	items, total, err := u.productRepo.ListPublic(ctx, repo.ProductListQuery{
		Page:     in.Page,
		Limit:    in.Limit,
		Q:        strings.TrimSpace(in.Q),
		Category: strings.TrimSpace(in.Category),
		Size:     strings.TrimSpace(in.Size),
		Color:    strings.TrimSpace(in.Color),
		MinPrice: in.MinPrice,
		MaxPrice: in.MaxPrice,
		Sort:     in.Sort,
	})
	if err != nil {
		u.logger.Error("list products", zap.Error(err))
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := ProductListOutput{
		Items: make([]ProductOutput, 0, len(items)),
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}
	for _, p := range items {
		out.Items = append(out.Items, toProductOutput(p, in.Locale))
	}
	return out, nil
}

func (u *ProductUsecase) GetProductDetail(ctx context.Context, productID string, locale model.Locale) (ProductOutput, error) {
	if strings.TrimSpace(productID) == "" {
		return ProductOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return ProductOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return ProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if !p.IsActive {
		return ProductOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	return toProductOutput(p, locale), nil
}

type AdminProductInput struct {
	NameEN        string
	NameAR        string
	DescriptionEN string
	DescriptionAR string
	Category      string
	Price         decimal.Decimal
	Sizes         []string
	Colors        []string
	ImageURL      string
	Stock         int64
	IsActive      bool
}

func (in AdminProductInput) validate() error {
	if strings.TrimSpace(in.NameEN) == "" {
		return NewHTTPError(http.StatusBadRequest, "name_en required")
	}
	if strings.TrimSpace(in.NameAR) == "" {
		return NewHTTPError(http.StatusBadRequest, "name_ar required")
	}
	if strings.TrimSpace(in.Category) == "" {
		return NewHTTPError(http.StatusBadRequest, "category required")
	}
	if in.Price.IsNegative() {
		return NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}
	if in.Stock < 0 {
		return NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}
	return nil
}

func (in AdminProductInput) toModel(id string) model.Product {
	return model.Product{
		ID:            id,
		NameEN:        strings.TrimSpace(in.NameEN),
		NameAR:        strings.TrimSpace(in.NameAR),
		DescriptionEN: in.DescriptionEN,
		DescriptionAR: in.DescriptionAR,
		Category:      strings.TrimSpace(in.Category),
		Price:         in.Price,
		Sizes:         cleanOptions(in.Sizes),
		Colors:        cleanOptions(in.Colors),
		ImageURL:      strings.TrimSpace(in.ImageURL),
		Stock:         in.Stock,
		IsActive:      in.IsActive,
	}
}

func (u *ProductUsecase) AdminCreateProduct(ctx context.Context, adminID string, in AdminProductInput) (model.Product, error) {
	if strings.TrimSpace(adminID) == "" {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := in.validate(); err != nil {
		return model.Product{}, err
	}

	p, err := u.productRepo.Create(ctx, in.toModel(u.ids.NewID()))
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	u.logger.Info("product created", zap.String("admin_id", adminID), zap.String("product_id", p.ID))
	return p, nil
}

func (u *ProductUsecase) AdminUpdateProduct(ctx context.Context, adminID string, productID string, in AdminProductInput) error {
	if strings.TrimSpace(adminID) == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(productID) == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if err := in.validate(); err != nil {
		return err
	}

	err := u.productRepo.Update(ctx, in.toModel(productID))
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	u.logger.Info("product updated", zap.String("admin_id", adminID), zap.String("product_id", productID))
	return nil
}

func (u *ProductUsecase) AdminDeleteProduct(ctx context.Context, adminID string, productID string) error {
	if strings.TrimSpace(adminID) == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(productID) == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	err := u.productRepo.SoftDelete(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	u.logger.Info("product deleted", zap.String("admin_id", adminID), zap.String("product_id", productID))
	return nil
}

func toProductOutput(p model.Product, locale model.Locale) ProductOutput {
	return ProductOutput{
		ID:          p.ID,
		Name:        p.LocalizedName(locale),
		Description: p.LocalizedDescription(locale),
		Category:    p.Category,
		Price:       p.Price,
		Sizes:       nonNil(p.Sizes),
		Colors:      nonNil(p.Colors),
		ImageURL:    p.ImageURL,
		InStock:     p.Stock > 0,
		CreatedAt:   p.CreatedAt,
	}
}

// 空白を落として重複を除く
func cleanOptions(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]bool{}
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
