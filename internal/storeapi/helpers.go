// Package storeapi exposes the customer-facing HTTP endpoints.
package storeapi

import (
	"net/http"
	"strconv"

	"github.com/craftline/wardrobe/internal/domain"
	"github.com/craftline/wardrobe/internal/webserver"
	"github.com/labstack/echo/v4"
)

func currentUser(c echo.Context) int64 {
	return webserver.UserID(c)
}

type response struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data,omitempty"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, response{Code: 0, Msg: "success", Data: data})
}

func fail(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch domain.KindOf(err) {
	case domain.KindValidation:
		status = http.StatusBadRequest
	case domain.KindNotFound:
		status = http.StatusNotFound
	case domain.KindConflict:
		status = http.StatusConflict
	case domain.KindAuthenticity:
		status = http.StatusUnauthorized
	case domain.KindUpstream:
		status = http.StatusBadGateway
	}
	return c.JSON(status, response{Code: 1, Msg: err.Error()})
}

type pagedData struct {
	Items   interface{} `json:"items"`
	Total   int64       `json:"total"`
	Page    int         `json:"page"`
	PerPage int         `json:"per_page"`
}

func paged(c echo.Context, items interface{}, total int64, page, perPage int) error {
	return ok(c, pagedData{Items: items, Total: total, Page: page, PerPage: perPage})
}

func parsePagination(c echo.Context) (page, perPage int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	perPage, _ = strconv.Atoi(c.QueryParam("per_page"))
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 || perPage > 100 {
		perPage = 20
	}
	return page, perPage
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, domain.Errorf(domain.KindValidation, "invalid %s", name)
	}
	return id, nil
}
