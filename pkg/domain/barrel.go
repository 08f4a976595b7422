package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Amount is a decimal quantity (price, volume, weight). The API serializes
// decimals as strings ("1500.00"); plain JSON numbers are accepted too.
type Amount float64

// UnmarshalJSON accepts a JSON number, a quoted decimal or null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("amount: %w", err)
		}
		data = []byte(s)
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	*a = Amount(f)
	return nil
}

// Barrel is a catalog entry.
type Barrel struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	OriginCountry   string     `json:"origin_country"`
	PreviousContent string     `json:"previous_content"`
	VolumeLiters    Amount     `json:"volume_liters"`
	WoodType        string     `json:"wood_type"`
	Condition       string     `json:"condition"`
	Price           Amount     `json:"price"`
	StockQuantity   int        `json:"stock_quantity"`
	Description     string     `json:"description,omitempty"`
	Dimensions      string     `json:"dimensions,omitempty"`
	WeightKg        *Amount    `json:"weight_kg,omitempty"`
	ImageURLs       []string   `json:"image_urls,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

// InStock reports whether at least one unit is available.
func (b Barrel) InStock() bool {
	return b.StockQuantity > 0
}

// BarrelPage is one page of the catalog listing.
type BarrelPage struct {
	Items []Barrel `json:"items"`
	Total int      `json:"total"`
	Page  int      `json:"page"`
	Size  int      `json:"size"`
	Pages int      `json:"pages"`
}

// HasNext reports whether a following page exists.
func (p BarrelPage) HasNext() bool {
	return p.Page < p.Pages
}

// BarrelFilter narrows a catalog listing. Zero values are ignored.
type BarrelFilter struct {
	OriginCountry string
	WoodType      string
	MinPrice      float64
	MaxPrice      float64
}
