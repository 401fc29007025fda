package storeapi

import (
	"github.com/craftline/wardrobe/internal/catalog"
	"github.com/labstack/echo/v4"
)

func (h *Handler) listProducts(c echo.Context) error {
	page, perPage := parsePagination(c)
	result, err := h.products.List(c.Request().Context(), catalog.ListFilter{
		Keyword:     c.QueryParam("keyword"),
		ProductType: c.QueryParam("type"),
		Category:    c.QueryParam("category"),
		Page:        page,
		PerPage:     perPage,
	})
	if err != nil {
		return fail(c, err)
	}
	return paged(c, result.Products, result.Total, result.Page, result.PerPage)
}

func (h *Handler) getProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}
	p, err := h.products.Get(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, p)
}
