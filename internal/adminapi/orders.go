package adminapi

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/craftline/wardrobe/internal/domain"
	"github.com/craftline/wardrobe/internal/order"
	"github.com/labstack/echo/v4"
)

func (h *Handler) listOrders(c echo.Context) error {
	page, perPage := parsePagination(c)
	orders, total, err := h.orders.List(c.Request().Context(), order.ListFilter{
		Status:        c.QueryParam("status"),
		PaymentStatus: c.QueryParam("payment_status"),
		Page:          page,
		PerPage:       perPage,
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
	return ok(c, o)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateOrderStatus(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, domain.Errorf(domain.KindValidation, "invalid request body"))
	}
	o, err := h.orders.UpdateFulfillment(c.Request().Context(), id, req.Status)
	if err != nil {
		return fail(c, err)
	}
	h.logOperation(c, "update-order-status", fmt.Sprintf("order %d to %s", id, req.Status))
	return ok(c, o)
}

// exportOrders streams the filtered order list as an xlsx workbook.
func (h *Handler) exportOrders(c echo.Context) error {
	orders, _, err := h.orders.List(c.Request().Context(), order.ListFilter{
		Status:        c.QueryParam("status"),
		PaymentStatus: c.QueryParam("payment_status"),
		Page:          1,
		PerPage:       10000,
	})
	if err != nil {
		return fail(c, err)
	}

	f := excelize.NewFile()
	sheet := "Orders"
	f.SetSheetName("Sheet1", sheet)
	headers := []string{"Order ID", "User ID", "Status", "Payment", "Total", "Delivery", "Slot Date", "Slot Range", "Created"}
	for i, hd := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheet, cell, hd)
	}
	for row, o := range orders {
		r := row + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", r), fmt.Sprintf("%d", o.ID))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", r), fmt.Sprintf("%d", o.UserID))
		f.SetCellValue(sheet, fmt.Sprintf("C%d", r), o.Status)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", r), o.PaymentStatus)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", r), o.Total.StringFixed(2))
		f.SetCellValue(sheet, fmt.Sprintf("F%d", r), o.DeliveryType)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", r), o.SlotDate)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", r), o.SlotTimeRange)
		f.SetCellValue(sheet, fmt.Sprintf("I%d", r), o.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return fail(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="orders.xlsx"`)
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
