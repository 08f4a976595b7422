package cart

// Pricing rules. Amounts are euros.
const (
	FreeShippingThreshold    = 1000.0
	ReducedShippingThreshold = 500.0
	ReducedShippingFee       = 50.0
	StandardShippingFee      = 100.0
	TaxRate                  = 0.20
)

// Shipping returns the delivery fee for an order subtotal.
func Shipping(subtotal float64) float64 {
	switch {
	case subtotal >= FreeShippingThreshold:
		return 0
	case subtotal >= ReducedShippingThreshold:
		return ReducedShippingFee
	default:
		return StandardShippingFee
	}
}

// Tax returns the VAT due on subtotal.
func Tax(subtotal float64) float64 {
	return subtotal * TaxRate
}
