package handler

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// SuccessResponse は { message: string } の形
type SuccessResponse struct {
	Message string `json:"message"`
}

// 商品の作成/更新の入力。英語とアラビア語の両方を持つ
type ProductRequest struct {
	NameEN        string          `json:"name_en"`
	NameAR        string          `json:"name_ar"`
	DescriptionEN string          `json:"description_en"`
	DescriptionAR string          `json:"description_ar"`
	Category      string          `json:"category"`
	Price         decimal.Decimal `json:"price"`
	Sizes         []string        `json:"sizes"`
	Colors        []string        `json:"colors"`
	ImageURL      string          `json:"image_url"`
	Stock         int64           `json:"stock"`
	IsActive      *bool           `json:"is_active"`
}

func (r ProductRequest) toInput() usecase.AdminProductInput {
	// 省略時は公開
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return usecase.AdminProductInput{
		NameEN:        r.NameEN,
		NameAR:        r.NameAR,
		DescriptionEN: r.DescriptionEN,
		DescriptionAR: r.DescriptionAR,
		Category:      r.Category,
		Price:         r.Price,
		Sizes:         r.Sizes,
		Colors:        r.Colors,
		ImageURL:      r.ImageURL,
		Stock:         r.Stock,
		IsActive:      active,
	}
}

// /admin/products
type AdminProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewAdminProductHandler(uc *usecase.ProductUsecase) *AdminProductHandler {
	return &AdminProductHandler{uc: uc}
}

// admin は AdminJWT + AdminRoleGuard 済みの group
func (h *AdminProductHandler) RegisterRoutes(admin *echo.Group) {
	admin.POST("/products", h.createProduct)
	admin.PATCH("/products/:id", h.updateProduct)
	admin.DELETE("/products/:id", h.deleteProduct)
}

func (h *AdminProductHandler) createProduct(c echo.Context) error {
	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	adminID := middleware.AdminID(c)
	if adminID == "" {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	p, err := h.uc.AdminCreateProduct(c.Request().Context(), adminID, req.toInput())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, p)
}

// 全項目を置き換える
func (h *AdminProductHandler) updateProduct(c echo.Context) error {
	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	adminID := middleware.AdminID(c)
	if adminID == "" {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.uc.AdminUpdateProduct(c.Request().Context(), adminID, c.Param("id"), req.toInput()); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "updated"})
}

func (h *AdminProductHandler) deleteProduct(c echo.Context) error {
	adminID := middleware.AdminID(c)
	if adminID == "" {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.uc.AdminDeleteProduct(c.Request().Context(), adminID, c.Param("id")); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}
