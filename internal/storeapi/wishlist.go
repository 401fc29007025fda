package storeapi

import (
	"github.com/labstack/echo/v4"
)

func (h *Handler) listWishlist(c echo.Context) error {
	products, err := h.wishlists.List(c.Request().Context(), currentUser(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, products)
}

func (h *Handler) addToWishlist(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}
	if err := h.wishlists.Add(c.Request().Context(), currentUser(c), id); err != nil {
		return fail(c, err)
	}
	return ok(c, nil)
}

func (h *Handler) removeFromWishlist(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}
	if err := h.wishlists.Remove(c.Request().Context(), currentUser(c), id); err != nil {
		return fail(c, err)
	}
	return ok(c, nil)
}
