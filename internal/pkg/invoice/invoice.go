// Package invoice renders the downloadable booking invoice. Output depends only
// on the persisted booking terms, so rendering twice yields identical bytes.
package invoice

import (
	"bytes"
	"strings"
	"text/template"
	"time"

	"rental-service/internal/pkg/money"
)

type Data struct {
	InvoiceNumber  string
	BookingID      string
	IssuedAt       time.Time
	CustomerName   string
	CarName        string
	StartDate      time.Time
	EndDate        time.Time
	BasePrice      money.Cents
	DiscountAmount money.Cents
	BookingFee     money.Cents
	ServiceFee     money.Cents
	TotalAmount    money.Cents
	Payout         money.Cents
	Currency       string
	Status         string
}

const ContentType = "text/plain; charset=utf-8"

const layout = `INVOICE {{ .InvoiceNumber }}
========================================
Issued:        {{ date .IssuedAt }}
Booking:       {{ .BookingID }}
Customer:      {{ .CustomerName }}
Car:           {{ .CarName }}
Rental period: {{ date .StartDate }} - {{ date .EndDate }}
Status:        {{ .Status }}
----------------------------------------
{{ line "Base price" .BasePrice }}
{{- if .DiscountAmount }}
{{ line "Affiliate discount" (neg .DiscountAmount) }}
{{- end }}
{{ line "Booking fee" .BookingFee }}
----------------------------------------
{{ line "Total charged" .TotalAmount }}
{{ line "Service fee" (neg .ServiceFee) }}
{{ line "Host payout" .Payout }}
----------------------------------------
Currency: {{ upper .Currency }}
`

var tmpl = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"date":  func(t time.Time) string { return t.UTC().Format("2006-01-02") },
	"upper": strings.ToUpper,
	"neg":   func(c money.Cents) money.Cents { return -c },
	"line": func(label string, amount money.Cents) string {
		const width = 40
		value := amount.String()
		pad := width - len(label) - len(value)
		if pad < 1 {
			pad = 1
		}
		return label + strings.Repeat(" ", pad) + value
	},
}).Parse(layout))

func Render(d Data) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
