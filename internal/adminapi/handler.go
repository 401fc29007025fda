package adminapi

import (
	"github.com/craftline/wardrobe/internal/account"
	"github.com/craftline/wardrobe/internal/catalog"
	"github.com/craftline/wardrobe/internal/order"
	"github.com/craftline/wardrobe/internal/webserver"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	products *catalog.Service
	orders   *order.Service
	accounts account.Repository
	oprlogs  OprLogRepository
}

func New(products *catalog.Service, orders *order.Service, accounts account.Repository, oprlogs OprLogRepository) *Handler {
	return &Handler{products: products, orders: orders, accounts: accounts, oprlogs: oprlogs}
}

func (h *Handler) Register(e *echo.Echo) {
	admin := e.Group("/api/admin", webserver.RequireAdmin)

	admin.GET("/products", h.listProducts)
	admin.GET("/products/:id", h.getProduct)
	admin.POST("/products", h.createProduct)
	admin.PUT("/products/:id", h.updateProduct)
	admin.DELETE("/products/:id", h.deleteProduct)
	admin.POST("/products/:id/restock", h.restockProduct)

	admin.GET("/customers", h.listCustomers)
	admin.GET("/customers/:id", h.getCustomer)

	admin.GET("/orders", h.listOrders)
	admin.GET("/orders/:id", h.getOrder)
	admin.PUT("/orders/:id/status", h.updateOrderStatus)
	admin.GET("/orders/export", h.exportOrders)

	admin.GET("/analytics", h.analytics)
}
