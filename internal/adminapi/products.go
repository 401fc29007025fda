package adminapi

import (
	"fmt"

	"github.com/craftline/wardrobe/internal/catalog"
	"github.com/craftline/wardrobe/internal/domain"
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

func (h *Handler) createProduct(c echo.Context) error {
	var p domain.Product
	if err := c.Bind(&p); err != nil {
		return fail(c, domain.Errorf(domain.KindValidation, "invalid request body"))
	}
	if err := h.products.Create(c.Request().Context(), &p); err != nil {
		return fail(c, err)
	}
	h.logOperation(c, "create-product", fmt.Sprintf("product %d sku %s", p.ID, p.Sku))
	return ok(c, p)
}

func (h *Handler) updateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var p domain.Product
	if err := c.Bind(&p); err != nil {
		return fail(c, domain.Errorf(domain.KindValidation, "invalid request body"))
	}
	p.ID = id
	if err := h.products.Update(c.Request().Context(), &p); err != nil {
		return fail(c, err)
	}
	h.logOperation(c, "update-product", fmt.Sprintf("product %d", id))
	return ok(c, p)
}

func (h *Handler) deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}
	if err := h.products.Delete(c.Request().Context(), id); err != nil {
		return fail(c, err)
	}
	h.logOperation(c, "delete-product", fmt.Sprintf("product %d", id))
	return ok(c, nil)
}

type restockRequest struct {
	Delta int `json:"delta"`
}

func (h *Handler) restockProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req restockRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, domain.Errorf(domain.KindValidation, "invalid request body"))
	}
	p, err := h.products.Restock(c.Request().Context(), id, req.Delta)
	if err != nil {
		return fail(c, err)
	}
	h.logOperation(c, "restock-product", fmt.Sprintf("product %d delta %d", id, req.Delta))
	return ok(c, p)
}
