package storeapi

import (
	"github.com/craftline/wardrobe/internal/domain"
	"github.com/craftline/wardrobe/internal/review"
	"github.com/labstack/echo/v4"
)

func (h *Handler) submitReview(c echo.Context) error {
	var req review.SubmitRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, domain.Errorf(domain.KindValidation, "invalid request body"))
	}
	rv, err := h.reviews.Submit(c.Request().Context(), currentUser(c), req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, rv)
}

func (h *Handler) listProductReviews(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}
	page, perPage := parsePagination(c)
	reviews, total, err := h.reviews.ListByProduct(c.Request().Context(), id, page, perPage)
	if err != nil {
		return fail(c, err)
	}
	return paged(c, reviews, total, page, perPage)
}
