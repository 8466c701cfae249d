package proforma

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Document is the computed quote document for an approved proforma.
type Document struct {
	DocumentData

	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discount_amount"`
	Total          float64 `json:"total"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// BuildDocument computes the money lines from the quoted unit price and
// discount. Amounts are rounded to cents at each line so the printed totals
// add up.
func BuildDocument(data DocumentData) Document {
	doc := Document{DocumentData: data}
	if data.Quote == nil {
		return doc
	}
	doc.Subtotal = round2(data.Quote.UnitPrice * float64(data.Quantity))
	doc.DiscountAmount = round2(doc.Subtotal * data.Quote.DiscountPct / 100)
	doc.Total = round2(doc.Subtotal - doc.DiscountAmount)
	return doc
}

// RenderText writes the document as a plain-text quote suitable for printing
// or attaching to mail.
func RenderText(doc Document) string {
	p := message.NewPrinter(language.English)
	var b strings.Builder

	fmt.Fprintf(&b, "PROFORMA %s\n", doc.Number)
	fmt.Fprintf(&b, "Issued %s\n\n", doc.RequestedAt.Format("2006-01-02"))

	fmt.Fprintf(&b, "From: %s", doc.CompanyName)
	if doc.CompanyTaxID != "" {
		fmt.Fprintf(&b, " (tax id %s)", doc.CompanyTaxID)
	}
	b.WriteString("\n")
	if doc.CompanyAddress != "" {
		fmt.Fprintf(&b, "      %s\n", doc.CompanyAddress)
	}
	fmt.Fprintf(&b, "      %s\n", doc.CompanyEmail)

	fmt.Fprintf(&b, "To:   %s", doc.ClientName)
	if doc.ClientDocument != "" {
		fmt.Fprintf(&b, " (%s)", doc.ClientDocument)
	}
	b.WriteString("\n")
	if doc.ClientRepresentative != "" {
		fmt.Fprintf(&b, "      Attn: %s\n", doc.ClientRepresentative)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "%-40s %8s %12s %14s\n", "Item", "Qty", "Unit", "Amount")
	p.Fprintf(&b, "%-40s %8d %12.2f %14.2f\n", doc.ProductName, doc.Quantity, doc.Quote.UnitPrice, doc.Subtotal)
	b.WriteString("\n")

	p.Fprintf(&b, "%62s %14.2f\n", "Subtotal", doc.Subtotal)
	if doc.Quote.DiscountPct > 0 {
		p.Fprintf(&b, "%62s %14.2f\n", fmt.Sprintf("Discount (%.2f%%)", doc.Quote.DiscountPct), -doc.DiscountAmount)
	}
	p.Fprintf(&b, "%62s %14.2f\n", "TOTAL", doc.Total)
	b.WriteString("\n")

	if doc.Quote.DeliveryDays > 0 {
		fmt.Fprintf(&b, "Delivery: %d days\n", doc.Quote.DeliveryDays)
	}
	if doc.Quote.ValidUntil != "" {
		fmt.Fprintf(&b, "Valid until: %s\n", doc.Quote.ValidUntil)
	}
	if doc.Quote.Terms != "" {
		fmt.Fprintf(&b, "Terms: %s\n", doc.Quote.Terms)
	}
	if doc.Quote.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", doc.Quote.Notes)
	}
	return b.String()
}
