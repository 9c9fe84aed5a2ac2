package receipt

import (
	"bytes"
	"html/template"
	"time"

	"github.com/shopspring/decimal"
)

// Data carries everything printed on one receipt
type Data struct {
	StoreName     string
	Footer        string
	OrderNumber   string
	OrderID       int64
	CustomerName  string
	Email         string
	Date          time.Time
	Items         []Item
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal
	PaymentMethod string
}

// Item is one printed receipt line
type Item struct {
	Title     string
	Quantity  int
	UnitPrice decimal.Decimal
}

// LineTotal returns quantity times unit price
func (i Item) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// HasDiscount reports whether a discount row should be printed
func (d Data) HasDiscount() bool {
	return d.Discount.IsPositive()
}

// PaymentDisplay returns the label printed for the payment method
func (d Data) PaymentDisplay() string {
	if d.PaymentMethod == "cash" {
		return "CASH"
	}
	return "POS/CARD"
}

// receiptTemplate is sized for 10x15cm receipt stock
var receiptTemplate = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  @page { size: 100mm 150mm; margin: 5mm; }
  body { font-family: Helvetica, Arial, sans-serif; font-size: 9px; margin: 0; }
  h1 { font-size: 11px; margin: 0 0 4px 0; }
  hr { border: none; border-top: 0.5px solid #000; margin: 4px 0; }
  table { width: 100%; border-collapse: collapse; }
  td { padding: 1px 0; vertical-align: top; }
  td.amount { text-align: right; white-space: nowrap; }
  .total { font-size: 11px; font-weight: bold; }
  .footer { text-align: center; font-style: italic; margin-top: 6px; }
</style>
</head>
<body>
<h1>{{.StoreName}} - POS Receipt</h1>
<hr>
<div>Order No: {{.OrderNumber}}</div>
<div>Order ID: {{.OrderID}}</div>
<div>Date: {{.Date.Format "2006-01-02 15:04"}}</div>
{{if .CustomerName}}<div><b>Customer: {{.CustomerName}}</b></div>{{end}}
{{if .Email}}<div>Email: {{.Email}}</div>{{end}}
<hr>
<b>Items:</b>
<table>
{{range .Items}}
  <tr><td colspan="2">&bull; {{.Title}}</td></tr>
  <tr><td>&nbsp;&nbsp;{{.Quantity}} x {{money .UnitPrice}}</td><td class="amount">{{money .LineTotal}}</td></tr>
{{end}}
</table>
<hr>
<table>
  <tr><td>Subtotal:</td><td class="amount">{{money .Subtotal}}</td></tr>
{{if .HasDiscount}}
  <tr><td>Discount:</td><td class="amount">-{{money .Discount}}</td></tr>
{{end}}
  <tr class="total"><td class="total">TOTAL:</td><td class="amount total">{{money .Total}}</td></tr>
</table>
<div>Payment: {{.PaymentDisplay}}</div>
<hr>
<div class="footer">Thank you for shopping!{{if .Footer}}<br>{{.Footer}}{{end}}</div>
</body>
</html>`))

// RenderHTML renders the receipt template to HTML
func RenderHTML(data Data) (string, error) {
	var buf bytes.Buffer
	if err := receiptTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
