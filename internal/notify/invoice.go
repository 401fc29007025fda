package notify

import (
	"bytes"
	"fmt"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/craftline/wardrobe/internal/domain"
	"github.com/shopspring/decimal"
)

// BuildInvoice renders an order into an xlsx workbook for mail attachment.
func BuildInvoice(storeName string, o *domain.Order) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	sheet := "Invoice"
	f.SetSheetName("Sheet1", sheet)

	f.SetCellValue(sheet, "A1", storeName)
	f.SetCellValue(sheet, "A2", fmt.Sprintf("Invoice for order %d", o.ID))
	f.SetCellValue(sheet, "A3", fmt.Sprintf("Order date: %s", o.CreatedAt.Format("2006-01-02")))
	f.SetCellValue(sheet, "A4", fmt.Sprintf("Deliver to: %s, %s, %s %s",
		o.ShipName, o.ShipStreet, o.ShipCity, o.ShipPincode))

	headerRow := 6
	f.SetCellValue(sheet, fmt.Sprintf("A%d", headerRow), "Item")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", headerRow), "Unit Price")
	f.SetCellValue(sheet, fmt.Sprintf("C%d", headerRow), "Qty")
	f.SetCellValue(sheet, fmt.Sprintf("D%d", headerRow), "Amount")

	row := headerRow + 1
	for _, it := range o.Items {
		amount := it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), it.Name)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), it.UnitPrice.StringFixed(2))
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), it.Quantity)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), amount.StringFixed(2))
		row++
	}

	row++
	f.SetCellValue(sheet, fmt.Sprintf("C%d", row), "Subtotal")
	f.SetCellValue(sheet, fmt.Sprintf("D%d", row), o.Subtotal.StringFixed(2))
	row++
	f.SetCellValue(sheet, fmt.Sprintf("C%d", row), "Discount")
	f.SetCellValue(sheet, fmt.Sprintf("D%d", row), o.Discount.StringFixed(2))
	row++
	f.SetCellValue(sheet, fmt.Sprintf("C%d", row), "Delivery")
	f.SetCellValue(sheet, fmt.Sprintf("D%d", row), o.DeliveryFee.StringFixed(2))
	row++
	f.SetCellValue(sheet, fmt.Sprintf("C%d", row), "Total")
	f.SetCellValue(sheet, fmt.Sprintf("D%d", row), o.Total.StringFixed(2))

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf, nil
}
