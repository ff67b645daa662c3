package cart

import "mayorista-bff/internal/domain"

// TotalItemCount sums the quantities over all lines.
func TotalItemCount(state domain.Cart) int {
	count := 0
	for _, it := range state.Items {
		count += it.Quantity
	}
	return count
}

// TotalAmount sums unit price times quantity over all lines. No currency
// rounding happens here; formatting belongs to the caller.
func TotalAmount(state domain.Cart) float64 {
	total := 0.0
	for _, it := range state.Items {
		total += it.UnitPrice * float64(it.Quantity)
	}
	return total
}
