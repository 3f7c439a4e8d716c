package pricing

// BillableTravelers returns the traveler-equivalent count used for pricing.
// Each child counts as half a traveler, rounded up so a fractional person
// is never under-billed.
func BillableTravelers(adults, children int) int {
	return adults + (children+1)/2
}

// Estimate returns the pre-discount subtotal in XOF for a circuit priced
// per traveler. Inputs are validated by the caller (adults >= 1,
// children >= 0, unitPriceXOF > 0); the function is total over that domain.
func Estimate(unitPriceXOF int64, adults, children int) int64 {
	return unitPriceXOF * int64(BillableTravelers(adults, children))
}
