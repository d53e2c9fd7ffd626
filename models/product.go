package models

import "time"

// UnitType is how a product is measured and sold
type UnitType string

const (
	UnitUnits UnitType = "units"
	UnitKg    UnitType = "kg"
)

// Product represents a product in the database
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Image         string    `json:"image,omitempty"` // data URL or external reference
	SalePrice     float64   `json:"salePrice"`
	PurchasePrice *float64  `json:"purchasePrice,omitempty"`
	Type          UnitType  `json:"type"`
	Quantity      float64   `json:"quantity"` // may go negative after an oversell
	MinQuantity   float64   `json:"minQuantity"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// IsLowStock reports whether the product is at or below its minimum quantity
func (p Product) IsLowStock() bool {
	return p.Quantity <= p.MinQuantity
}

// IsOutOfStock reports whether nothing is left on hand
func (p Product) IsOutOfStock() bool {
	return p.Quantity <= 0
}

// NewProduct represents the fields supplied when adding a product
// Example: {"name": "Basmati Rice", "salePrice": 120, "purchasePrice": 100, "type": "kg", "quantity": 50, "minQuantity": 10}
type NewProduct struct {
	Name          string   `json:"name"`
	Image         string   `json:"image,omitempty"`
	SalePrice     float64  `json:"salePrice"`
	PurchasePrice *float64 `json:"purchasePrice,omitempty"`
	Type          UnitType `json:"type"`
	Quantity      float64  `json:"quantity"`
	MinQuantity   float64  `json:"minQuantity"`
}

// ProductUpdate is a partial patch; nil fields are left untouched
type ProductUpdate struct {
	Name          *string   `json:"name,omitempty"`
	Image         *string   `json:"image,omitempty"`
	SalePrice     *float64  `json:"salePrice,omitempty"`
	PurchasePrice *float64  `json:"purchasePrice,omitempty"`
	Type          *UnitType `json:"type,omitempty"`
	Quantity      *float64  `json:"quantity,omitempty"`
	MinQuantity   *float64  `json:"minQuantity,omitempty"`
}
