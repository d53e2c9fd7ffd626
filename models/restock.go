package models

import "time"

// Priority of a restock entry
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// RestockItem is a worklist entry for replenishing stock. ProductID is empty
// for free-text custom items.
type RestockItem struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"productId,omitempty"`
	ProductName string    `json:"productName"`
	Quantity    float64   `json:"quantity"`
	IsCustom    bool      `json:"isCustom"`
	Priority    Priority  `json:"priority"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewRestockItem represents the fields supplied when adding a restock entry
type NewRestockItem struct {
	ProductID   string   `json:"productId,omitempty"`
	ProductName string   `json:"productName"`
	Quantity    float64  `json:"quantity"`
	IsCustom    bool     `json:"isCustom"`
	Priority    Priority `json:"priority"`
}
