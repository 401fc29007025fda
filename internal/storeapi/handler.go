package storeapi

import (
	"github.com/craftline/wardrobe/internal/account"
	"github.com/craftline/wardrobe/internal/cart"
	"github.com/craftline/wardrobe/internal/catalog"
	"github.com/craftline/wardrobe/internal/order"
	"github.com/craftline/wardrobe/internal/review"
	"github.com/craftline/wardrobe/internal/wishlist"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	accounts  *account.Service
	products  *catalog.Service
	carts     *cart.Service
	orders    *order.Service
	reviews   *review.Service
	wishlists *wishlist.Service
}

func New(accounts *account.Service, products *catalog.Service, carts *cart.Service,
	orders *order.Service, reviews *review.Service, wishlists *wishlist.Service) *Handler {
	return &Handler{
		accounts:  accounts,
		products:  products,
		carts:     carts,
		orders:    orders,
		reviews:   reviews,
		wishlists: wishlists,
	}
}

func (h *Handler) Register(e *echo.Echo) {
	api := e.Group("/api")

	api.POST("/auth/register", h.register)
	api.POST("/auth/login", h.login)
	api.GET("/profile", h.profile)

	api.GET("/products", h.listProducts)
	api.GET("/products/:id", h.getProduct)

	api.GET("/cart", h.getCart)
	api.POST("/cart/add", h.addToCart)
	api.POST("/cart/remove", h.removeFromCart)
	api.PUT("/cart/update", h.updateCartQuantity)
	api.POST("/cart/discount", h.applyDiscount)
	api.POST("/cart/clear", h.clearCart)

	api.POST("/checkout", h.checkout)
	api.POST("/payment/callback", h.paymentCallback)
	api.GET("/orders", h.listOrders)
	api.GET("/orders/:id", h.getOrder)
	api.POST("/orders/:id/cancel", h.cancelOrder)

	api.POST("/reviews", h.submitReview)
	api.GET("/reviews/product/:id", h.listProductReviews)

	api.GET("/wishlist", h.listWishlist)
	api.POST("/wishlist/:id", h.addToWishlist)
	api.DELETE("/wishlist/:id", h.removeFromWishlist)
}
