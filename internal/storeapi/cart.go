package storeapi

import (
	"github.com/craftline/wardrobe/internal/domain"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type cartItemRequest struct {
	ProductID int64 `json:"product_id,string"`
	Quantity  int   `json:"quantity"`
}

func (h *Handler) getCart(c echo.Context) error {
	cart, err := h.carts.GetOrCreate(c.Request().Context(), currentUser(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, cart)
}

func (h *Handler) addToCart(c echo.Context) error {
	var req cartItemRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, domain.Errorf(domain.KindValidation, "invalid request body"))
	}
	cart, err := h.carts.AddItem(c.Request().Context(), currentUser(c), req.ProductID, req.Quantity)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, cart)
}

func (h *Handler) removeFromCart(c echo.Context) error {
	var req cartItemRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, domain.Errorf(domain.KindValidation, "invalid request body"))
	}
	cart, err := h.carts.RemoveItem(c.Request().Context(), currentUser(c), req.ProductID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, cart)
}

func (h *Handler) updateCartQuantity(c echo.Context) error {
	var req cartItemRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, domain.Errorf(domain.KindValidation, "invalid request body"))
	}
	cart, err := h.carts.SetQuantity(c.Request().Context(), currentUser(c), req.ProductID, req.Quantity)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, cart)
}

type discountRequest struct {
	Discount decimal.Decimal `json:"discount"`
}

func (h *Handler) applyDiscount(c echo.Context) error {
	var req discountRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, domain.Errorf(domain.KindValidation, "invalid request body"))
	}
	cart, err := h.carts.ApplyDiscount(c.Request().Context(), currentUser(c), req.Discount)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, cart)
}

func (h *Handler) clearCart(c echo.Context) error {
	cart, err := h.carts.Clear(c.Request().Context(), currentUser(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, cart)
}
