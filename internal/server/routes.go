package server

import (
	"storefront/internal/handler"
	"storefront/internal/middleware"

	"github.com/labstack/echo/v4"
)

// Routes は公開側（ゲストセッション）と管理側（管理者JWT）のハンドラ
type Routes struct {
	Session   middleware.SessionConfig
	JWTSecret string

	Products *handler.ProductHandler
	Cart     *handler.CartHandler
	Checkout *handler.CheckoutHandler
	Orders   *handler.OrderHandler

	AdminProducts *handler.AdminProductHandler
	AdminOrders   *handler.AdminOrderHandler
}

func (r Routes) Register(e *echo.Echo) {
	// 公開API。初回アクセスでゲストセッションを発行
	public := e.Group("", middleware.GuestSession(r.Session))
	r.Products.RegisterRoutes(public)
	r.Cart.RegisterRoutes(public)
	r.Checkout.RegisterRoutes(public)
	r.Orders.RegisterRoutes(public)

	admin := e.Group("/admin", middleware.AdminJWT(r.JWTSecret), middleware.AdminRoleGuard())
	r.AdminProducts.RegisterRoutes(admin)
	r.AdminOrders.RegisterRoutes(admin)
}
