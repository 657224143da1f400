package httpserver

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"strings"

	"farmstore/internal/domain"
	"farmstore/internal/money"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	timeLayout      = "2006-01-02 15:04:05"
)

var orderHeaders = []string{
	"Reference", "Customer", "Email", "Status", "Payment Status", "Payment Method",
	"Currency", "Total NGN", "Total USD", "Items", "Delivery Address", "Phone", "Created At",
}

var productHeaders = []string{
	"ID", "Name", "Category", "Unit", "Price NGN", "Price USD", "Stock", "Available", "Created At",
}

// writeOrdersWorkbook writes orders as a one-sheet xlsx workbook.
func writeOrdersWorkbook(w io.Writer, orders []domain.Order) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return err
	}
	addHeader(sheet, orderHeaders)
	for _, o := range orders {
		row := sheet.AddRow()
		row.AddCell().SetValue(o.Reference)
		row.AddCell().SetValue(o.CustomerName)
		row.AddCell().SetValue(o.CustomerEmail)
		row.AddCell().SetValue(string(o.Status))
		row.AddCell().SetValue(string(o.PaymentStatus))
		row.AddCell().SetValue(string(o.Channel))
		row.AddCell().SetValue(string(o.Currency))
		row.AddCell().SetValue(money.Major(o.TotalNGN).InexactFloat64())
		row.AddCell().SetValue(money.Major(o.TotalUSD).InexactFloat64())
		row.AddCell().SetValue(summarizeLines(o.Lines))
		row.AddCell().SetValue(o.DeliveryAddress)
		row.AddCell().SetValue(o.DeliveryPhone)
		row.AddCell().SetValue(o.CreatedAt.UTC().Format(timeLayout))
	}
	return file.Write(w)
}

// writeProductsWorkbook writes the catalog as a one-sheet xlsx workbook.
func writeProductsWorkbook(w io.Writer, products []domain.Product) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return err
	}
	addHeader(sheet, productHeaders)
	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.Category)
		row.AddCell().SetValue(p.Unit)
		row.AddCell().SetValue(money.Major(p.PriceNGN).InexactFloat64())
		row.AddCell().SetValue(money.Major(p.PriceUSD).InexactFloat64())
		row.AddCell().SetValue(p.StockQuantity)
		row.AddCell().SetValue(p.IsAvailable)
		row.AddCell().SetValue(p.CreatedAt.UTC().Format(timeLayout))
	}
	return file.Write(w)
}

func addHeader(sheet *xlsx.Sheet, headers []string) {
	row := sheet.AddRow()
	for _, h := range headers {
		row.AddCell().SetValue(h)
	}
}

func summarizeLines(lines []domain.OrderLine) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		parts = append(parts, strings.TrimSpace(l.ProductName)+" x"+strconv.Itoa(l.Quantity))
	}
	return strings.Join(parts, "; ")
}

func sendWorkbook(c *gin.Context, filename string, buf *bytes.Buffer) {
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
