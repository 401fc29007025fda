package storeapi

import (
	"github.com/craftline/wardrobe/internal/account"
	"github.com/craftline/wardrobe/internal/domain"
	"github.com/labstack/echo/v4"
)

func (h *Handler) register(c echo.Context) error {
	var req account.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, domain.Errorf(domain.KindValidation, "invalid request body"))
	}
	u, err := h.accounts.Register(c.Request().Context(), req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, u)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, domain.Errorf(domain.KindValidation, "invalid request body"))
	}
	u, token, err := h.accounts.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, map[string]interface{}{"user": u, "token": token})
}

func (h *Handler) profile(c echo.Context) error {
	u, err := h.accounts.GetByID(c.Request().Context(), currentUser(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, u)
}
