package domain

// CartLine is one product currently in the cart, uniquely keyed by product id.
// Quantity always sits in [1, Stock]; a line whose quantity or stock reaches
// zero is removed from the cart rather than kept around.
type CartLine struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Stock     int     `json:"stock"`
	Quantity  int     `json:"qty"`
}

// Cart holds the cart line items, ordered by insertion.
type Cart struct {
	Items []CartLine `json:"items"`
}
