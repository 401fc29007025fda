package storeapi

import (
	"github.com/craftline/wardrobe/internal/domain"
	"github.com/craftline/wardrobe/internal/order"
	"github.com/labstack/echo/v4"
)

func (h *Handler) checkout(c echo.Context) error {
	var req order.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, domain.Errorf(domain.KindValidation, "invalid request body"))
	}
	o, err := h.orders.InitiateCheckout(c.Request().Context(), currentUser(c), req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, o)
}

type paymentCallbackRequest struct {
	GatewayOrderID string `json:"gateway_order_id"`
	PaymentID      string `json:"payment_id"`
	Signature      string `json:"signature"`
	Status         string `json:"status"`
}

// paymentCallback is unauthenticated; the HMAC signature is the trust
// boundary. A "failed" status marks the payment as terminally failed.
func (h *Handler) paymentCallback(c echo.Context) error {
	var req paymentCallbackRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, domain.Errorf(domain.KindValidation, "invalid request body"))
	}
	ctx := c.Request().Context()
	if req.Status == "failed" {
		o, err := h.orders.MarkPaymentFailed(ctx, req.GatewayOrderID)
		if err != nil {
			return fail(c, err)
		}
		return ok(c, o)
	}
	o, err := h.orders.FinalizePayment(ctx, req.GatewayOrderID, req.PaymentID, req.Signature)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, o)
}

func (h *Handler) listOrders(c echo.Context) error {
	page, perPage := parsePagination(c)
	orders, total, err := h.orders.List(c.Request().Context(), order.ListFilter{
		UserID:  currentUser(c),
		Status:  c.QueryParam("status"),
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		return fail(c, err)
	}
	return paged(c, orders, total, page, perPage)
}

func (h *Handler) getOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}
	o, err := h.orders.Get(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	if o.UserID != currentUser(c) {
		return fail(c, domain.Errorf(domain.KindNotFound, "order %d not found", id))
	}
	return ok(c, o)
}

func (h *Handler) cancelOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}
	o, err := h.orders.Get(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	if o.UserID != currentUser(c) {
		return fail(c, domain.Errorf(domain.KindNotFound, "order %d not found", id))
	}
	o, err = h.orders.Cancel(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, o)
}
