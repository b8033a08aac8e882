// Package pricing derives monetary totals from a cart snapshot. All
// computations are pure and use integer currency units, never floats.
package pricing

import "github.com/Ammark2003/Pizzeria-app/internal/domain"

// Summary is the order summary shown before checkout.
type Summary struct {
	Subtotal   int64 `json:"subtotal"`
	SGST       int64 `json:"sgst"`
	CGST       int64 `json:"cgst"`
	GrandTotal int64 `json:"grand_total"`
}

// Subtotal sums price*quantity over all line items.
func Subtotal(items []domain.CartLineItem) int64 {
	var total int64
	for _, item := range items {
		total += item.Price * int64(item.Quantity)
	}
	return total
}

// TaxComponent is one GST half: round(subtotal * 0.025), half-up.
// SGST and CGST are each rounded from the subtotal independently.
func TaxComponent(subtotal int64) int64 {
	return roundPerMille(subtotal, 25)
}

// GrandTotal is round(subtotal * 1.05), half-up, computed from the subtotal
// directly rather than as subtotal + SGST + CGST. The two can diverge by one
// currency unit; that divergence is part of the pricing contract and must not
// be "corrected" by summing the rounded parts.
func GrandTotal(subtotal int64) int64 {
	return roundPerMille(subtotal, 1050)
}

// Summarize computes the full order summary for a cart snapshot.
func Summarize(items []domain.CartLineItem) Summary {
	subtotal := Subtotal(items)
	return Summary{
		Subtotal:   subtotal,
		SGST:       TaxComponent(subtotal),
		CGST:       TaxComponent(subtotal),
		GrandTotal: GrandTotal(subtotal),
	}
}

// roundPerMille returns round(n * permille / 1000) with half-up rounding.
// Subtotals are non-negative, so the +500 bias is safe.
func roundPerMille(n, permille int64) int64 {
	return (n*permille + 500) / 1000
}
