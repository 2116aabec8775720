// Package receipt renders a printable receipt from an order snapshot. The
// receipt is generated from the same record that was persisted, never from
// the live cart, so the two always agree.
package receipt

import (
	"strconv"
	"strings"
	"text/template"
	"unicode/utf8"

	"pos-service/internal/models"
)

const width = 42

var tmpl = template.Must(template.New("receipt").Parse(`{{.StoreName}}
{{.Date}}

Vendedor: {{.VendorName}}
Cliente:  {{.CustomerName}}
{{- if .CustomerAddress}}
Entrega:  {{.CustomerAddress}}
{{- end}}
------------------------------------------
{{- range .Lines}}
{{.}}
{{- end}}
------------------------------------------
{{.SubtotalLine}}
{{- if .DiscountLine}}
{{.DiscountLine}}
{{- end}}
{{.TotalLine}}
{{- if .Notes}}

Notas: {{.Notes}}
{{- end}}
`))

type receiptData struct {
	StoreName       string
	Date            string
	VendorName      string
	CustomerName    string
	CustomerAddress string
	Lines           []string
	SubtotalLine    string
	DiscountLine    string
	TotalLine       string
	Notes           string
}

// Render produces the printable receipt text for an order
func Render(storeName string, order *models.Order) string {
	data := receiptData{
		StoreName:       center(storeName),
		Date:            center(order.Date.Format("02/01/2006 15:04")),
		VendorName:      order.VendorName,
		CustomerName:    order.CustomerName,
		CustomerAddress: order.CustomerAddress,
		SubtotalLine:    totalLine("Subtotal", order.Subtotal),
		TotalLine:       totalLine("TOTAL", order.FinalTotal),
		Notes:           order.Notes,
	}

	for _, item := range order.Items {
		data.Lines = append(data.Lines, itemLine(item))
	}
	if order.Discount > 0 {
		label := "Descuento " + strconv.Itoa(order.Discount) + "%"
		data.DiscountLine = totalLine(label, order.FinalTotal-order.Subtotal)
	}

	var sb strings.Builder
	// template errors can only come from a bad order value; surface the
	// failure in the receipt body rather than dropping the sale
	if err := tmpl.Execute(&sb, data); err != nil {
		return "RECEIPT RENDER ERROR: " + err.Error()
	}
	return sb.String()
}

func itemLine(item models.OrderItem) string {
	qty := padLeft(strconv.Itoa(item.Quantity), 2)
	name := item.ProductName
	// truncate on runes so accented names never get cut mid-character
	if runes := []rune(name); len(runes) > 24 {
		name = string(runes[:21]) + "..."
	}
	amount := FormatAmount(item.Price * int64(item.Quantity))
	return qty + " x " + padRight(name, 24) + padLeft(amount, 11)
}

func totalLine(label string, amount int64) string {
	return padRight(label, 29) + padLeft(FormatAmount(amount), 12)
}

// FormatAmount formats a whole-unit currency amount with es-AR thousand
// separators, e.g. 3600 -> "$3.600"
func FormatAmount(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	var sb strings.Builder
	if neg {
		sb.WriteByte('-')
	}
	sb.WriteByte('$')
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteByte('.')
		}
		sb.WriteRune(d)
	}
	return sb.String()
}

func center(s string) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	pad := (width - n) / 2
	return strings.Repeat(" ", pad) + s
}

func padLeft(s string, n int) string {
	count := utf8.RuneCountInString(s)
	if count >= n {
		return s
	}
	return strings.Repeat(" ", n-count) + s
}

func padRight(s string, n int) string {
	count := utf8.RuneCountInString(s)
	if count >= n {
		return s
	}
	return s + strings.Repeat(" ", n-count)
}
