package domain

// CartItem is one line of the shopping cart.
type CartItem struct {
	ID              string  `json:"id"`
	BarrelID        string  `json:"barrel_id"`
	Name            string  `json:"name"`
	OriginCountry   string  `json:"origin_country"`
	VolumeLiters    float64 `json:"volume_liters"`
	Price           float64 `json:"price"`
	Quantity        int     `json:"quantity"`
	ImageURL        string  `json:"image_url,omitempty"`
	WoodType        string  `json:"wood_type,omitempty"`
	PreviousContent string  `json:"previous_content,omitempty"`
}

// LineTotal is price × quantity.
func (i CartItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

// CartItemFromBarrel projects a catalog barrel onto a cart line.
// ID and Quantity are left for the cart to fill in.
func CartItemFromBarrel(b Barrel) CartItem {
	item := CartItem{
		BarrelID:        b.ID.String(),
		Name:            b.Name,
		OriginCountry:   b.OriginCountry,
		VolumeLiters:    float64(b.VolumeLiters),
		Price:           float64(b.Price),
		WoodType:        b.WoodType,
		PreviousContent: b.PreviousContent,
	}
	if len(b.ImageURLs) > 0 {
		item.ImageURL = b.ImageURLs[0]
	}
	return item
}

// CartSummary holds the totals derived from the cart lines.
type CartSummary struct {
	Subtotal  float64 `json:"subtotal"`
	Shipping  float64 `json:"shipping"`
	Tax       float64 `json:"tax"`
	Total     float64 `json:"total"`
	ItemCount int     `json:"item_count"`
}

// PromoResult is the outcome of applying a promo code.
type PromoResult struct {
	Success  bool    `json:"success"`
	Discount float64 `json:"discount"`
	Message  string  `json:"message"`
}
