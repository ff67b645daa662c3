package domain

// Product is a catalog record as reported by the upstream commerce API.
// Price and stock are whatever the upstream last said; the cart clamps
// against them but never validates them further.
type Product struct {
	ID          string  `json:"id"`
	Code        string  `json:"code,omitempty"`
	Name        string  `json:"name"`
	Brand       string  `json:"brand,omitempty"`
	Category    string  `json:"category,omitempty"`
	UnitPrice   float64 `json:"price"`
	Stock       int     `json:"stock"`
	Available   bool    `json:"available"`
	OnSale      bool    `json:"onSale,omitempty"`
	Description string  `json:"description,omitempty"`
}
