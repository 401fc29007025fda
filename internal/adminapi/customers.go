package adminapi

import (
	"github.com/labstack/echo/v4"
)

func (h *Handler) listCustomers(c echo.Context) error {
	page, perPage := parsePagination(c)
	users, total, err := h.accounts.List(c.Request().Context(), c.QueryParam("keyword"), page, perPage)
	if err != nil {
		return fail(c, err)
	}
	return paged(c, users, total, page, perPage)
}

func (h *Handler) getCustomer(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}
	u, err := h.accounts.GetByID(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, u)
}
