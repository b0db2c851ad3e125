package checkout

import "math"

// Pricing holds the storefront's charging rules.
type Pricing struct {
	FreeShippingThreshold float64
	FlatShippingFee       float64
	TaxRate               float64
	Currency              string
}

type Totals struct {
	Subtotal   float64 `json:"subtotal"`
	Shipping   float64 `json:"shipping"`
	Tax        float64 `json:"tax"`
	GrandTotal float64 `json:"grand_total"`
	Currency   string  `json:"currency"`
}

// Calculate derives the order totals: shipping is waived strictly above
// the free-shipping threshold, tax is a flat rate on the subtotal.
func (p Pricing) Calculate(subtotal float64) Totals {
	shipping := p.FlatShippingFee
	if subtotal > p.FreeShippingThreshold {
		shipping = 0
	}
	tax := subtotal * p.TaxRate

	return Totals{
		Subtotal:   subtotal,
		Shipping:   shipping,
		Tax:        tax,
		GrandTotal: subtotal + shipping + tax,
		Currency:   p.Currency,
	}
}

// AmountMinor is the charge amount in the smallest currency unit,
// integer-rounded from the grand total.
func (t Totals) AmountMinor() int64 {
	return int64(math.Round(t.GrandTotal * 100))
}
