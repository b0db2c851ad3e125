package domain

// CartLine is a single (product, size) entry in a session cart.
// Lines are unique per (ProductID, Size); the same product in two
// sizes is two separate lines.
type CartLine struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Image     string  `json:"image,omitempty"`
	Size      string  `json:"size"`
	Color     string  `json:"color,omitempty"`
	Quantity  int     `json:"quantity"`
}

func (l CartLine) LineTotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}
