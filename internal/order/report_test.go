package order

import (
	"bytes"
	"testing"
	"time"

	"github.com/tealeg/xlsx"

	"github.com/MikeMC777/cafe-ecom/internal/cart"
)

func TestWriteReport(t *testing.T) {
	now := time.Date(2024, 3, 5, 9, 30, 0, 0, time.UTC)
	lines := []cart.Line{{MenuID: "1", Price: dec(40000), Quantity: 2}}
	orders := []Order{
		Build("u1", lines, form, ShippingDineIn, DefaultPricing().Quote(lines, ShippingDineIn), now, NewNumber(now, 12)),
	}

	var buf bytes.Buffer
	if err := WriteReport(&buf, orders); err != nil {
		t.Fatal(err)
	}

	wb, err := xlsx.OpenBinary(buf.Bytes())
	if err != nil {
		t.Fatalf("OpenBinary: %v", err)
	}
	sheet, ok := wb.Sheet["Orders"]
	if !ok {
		t.Fatal("missing Orders sheet")
	}
	if len(sheet.Rows) != 2 {
		t.Fatalf("rows=%d, want header + 1", len(sheet.Rows))
	}
	if got := sheet.Rows[0].Cells[0].Value; got != "No Order" {
		t.Fatalf("header=%q", got)
	}
	row := sheet.Rows[1]
	if row.Cells[0].Value != "ORD-05032024-0012" || row.Cells[2].Value != "Rina Putri" {
		t.Fatalf("row=%q %q", row.Cells[0].Value, row.Cells[2].Value)
	}
	if row.Cells[6].Value != "2" || row.Cells[10].Value != "88000" {
		t.Fatalf("items=%q total=%q", row.Cells[6].Value, row.Cells[10].Value)
	}
}
