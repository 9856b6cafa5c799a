package order

import (
	"fmt"
	"io"

	"github.com/tealeg/xlsx"
)

var reportHeaders = []string{
	"No Order", "Date", "Customer", "Email", "Shipping", "Status",
	"Items", "Order Total", "Delivery Fee", "Tax", "Total Transaction",
}

// WriteReport renders orders as an xlsx workbook with one "Orders" sheet.
func WriteReport(w io.Writer, orders []Order) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range reportHeaders {
		header.AddCell().SetValue(h)
	}

	for _, o := range orders {
		row := sheet.AddRow()
		row.AddCell().SetValue(o.NoOrder)
		row.AddCell().SetValue(o.DateOrder.Format("2006-01-02 15:04:05"))
		row.AddCell().SetValue(o.FullName)
		row.AddCell().SetValue(o.Email)
		row.AddCell().SetValue(string(o.Shipping))
		row.AddCell().SetValue(string(o.Status))
		row.AddCell().SetInt(o.ItemCount())
		row.AddCell().SetValue(o.OrderTotal.String())
		row.AddCell().SetValue(o.DeliveryFee.String())
		row.AddCell().SetValue(o.Tax.String())
		row.AddCell().SetValue(o.TotalTransaction.String())
	}
	return file.Write(w)
}
