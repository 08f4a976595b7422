package cart

import (
	"fmt"
	"strings"

	"github.com/millesime/barrels/pkg/domain"
)

type promo struct {
	rate  float64
	label string
}

// Placeholder codes until promotions are validated server-side.
var promoCodes = map[string]promo{
	"WELCOME10": {rate: 0.10, label: "10% off"},
	"B2B20":     {rate: 0.20, label: "20% B2B discount"},
}

// evalPromo matches code case-insensitively and computes the discount on
// subtotal.
func evalPromo(code string, subtotal float64) domain.PromoResult {
	p, ok := promoCodes[strings.ToUpper(code)]
	if !ok {
		return domain.PromoResult{Message: "Invalid promo code"}
	}
	return domain.PromoResult{
		Success:  true,
		Discount: subtotal * p.rate,
		Message:  fmt.Sprintf("Promo code applied: %s", p.label),
	}
}
