// Package pricing derives a product's effective price from its base price and
// discount percentage.
package pricing

// FinalPrice computes basePrice discounted by discountPct percent, clamped to
// be non-negative. A zero discount means no discount. Out-of-range discounts
// are sanitized by the clamp rather than rejected.
func FinalPrice(basePrice, discountPct float64) float64 {
	price := basePrice * (1 - discountPct/100)
	if price < 0 {
		return 0
	}
	return price
}
