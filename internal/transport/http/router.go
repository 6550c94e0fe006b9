package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/evanazhr/simple-pos-api/internal/handlers"
	authmw "github.com/evanazhr/simple-pos-api/internal/middleware/auth"
)

type Deps struct {
	Auth           *authmw.Middleware
	CatalogHandler *handlers.CatalogHandler
	CartHandler    *handlers.CartHandler
	OrderHandler   *handlers.OrderHandler
	UploadHandler  *handlers.UploadHandler
	SearchHandler  *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	v1 := e.Group("/api/v1")

	protected := v1.Group("", d.Auth.RequireLogin)

	protected.GET("/products", d.CatalogHandler.GetProducts)
	protected.GET("/products/:id", d.CatalogHandler.GetProduct)
	protected.GET("/categories", d.CatalogHandler.ListCategories)

	protected.GET("/cart", d.CartHandler.GetCart)
	protected.POST("/cart", d.CartHandler.AddToCart)
	protected.DELETE("/cart", d.CartHandler.ClearCart)

	protected.POST("/orders", d.OrderHandler.CreateOrder)
	protected.GET("/orders/:id", d.OrderHandler.GetOrder)
	protected.POST("/orders/:id/payment", d.OrderHandler.RetryPayment)

	if d.SearchHandler != nil && d.SearchHandler.ES != nil {
		protected.GET("/search", d.SearchHandler.Search)
	}

	admin := v1.Group("/admin", d.Auth.RequireAdmin)

	admin.POST("/categories", d.CatalogHandler.CreateCategory)
	admin.PATCH("/categories/:id", d.CatalogHandler.UpdateCategory)
	admin.DELETE("/categories/:id", d.CatalogHandler.DeleteCategory)
	admin.POST("/products", d.CatalogHandler.CreateProduct)
	admin.POST("/uploads", d.UploadHandler.AuthorizeUpload)
}
