package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fdtraverso/mercadito/internal/session"
)

type Deps struct {
	Sessions       *session.Store
	AuthHandler    *AuthHandler
	ProductHandler *ProductHandler
	OrderHandler   *OrderHandler
	SearchHandler  *SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	gate := &SessionMiddleware{Sessions: d.Sessions}

	auth := e.Group("/auth")
	auth.GET("/login", d.AuthHandler.Login)
	auth.GET("/callback", d.AuthHandler.Callback)
	auth.POST("/logout", d.AuthHandler.Logout, gate.RequireLogin)
	auth.GET("/profile", d.AuthHandler.Profile, gate.RequireLogin)
	auth.GET("/purchases", d.AuthHandler.MyPurchases, gate.RequireLogin)
	auth.GET("/sales", d.AuthHandler.MySales, gate.RequireLogin)
	auth.GET("/products", d.ProductHandler.MyProducts, gate.RequireLogin)

	products := e.Group("/products")
	products.GET("", d.ProductHandler.Gallery)
	products.GET("/:id", d.ProductHandler.GetProduct)
	products.POST("", d.ProductHandler.CreateProduct, gate.RequireLogin)
	products.PATCH("/:id", d.ProductHandler.PatchProduct, gate.RequireLogin)
	products.DELETE("/:id", d.ProductHandler.DeleteProduct, gate.RequireLogin)
	products.POST("/:id/purchase", d.OrderHandler.Purchase, gate.RequireLogin)

	e.POST("/orders/:id/dispatch", d.OrderHandler.Dispatch, gate.RequireLogin)

	e.GET("/search", d.SearchHandler.Search)
}
