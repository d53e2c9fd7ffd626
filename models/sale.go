package models

import "time"

// PaymentType tells whether a sale was settled on the spot or put on credit
type PaymentType string

const (
	PaymentCash   PaymentType = "cash"
	PaymentCredit PaymentType = "credit"
)

// SaleItem is one line of a sale. ProductName is copied at sale time and never
// re-joined, so renaming a product does not rewrite history.
type SaleItem struct {
	ProductID    string   `json:"productId"`
	ProductName  string   `json:"productName"`
	Quantity     float64  `json:"quantity"`
	PricePerUnit float64  `json:"pricePerUnit"`
	Total        float64  `json:"total"`
	Type         UnitType `json:"type"`
}

// Sale represents a sale in the database
// Example:
// {
//   "id": "0f8c...",
//   "items": [{"productId": "a1", "productName": "Toor Dal", "quantity": 2, "pricePerUnit": 150, "total": 300, "type": "kg"}],
//   "total": 300,
//   "buyerName": "Asha",
//   "paymentType": "credit",
//   "date": "2026-01-04T10:30:00.000Z",
//   "isPaid": false
// }
type Sale struct {
	ID          string      `json:"id"`
	Items       []SaleItem  `json:"items"`
	Total       float64     `json:"total"`
	BuyerName   string      `json:"buyerName,omitempty"`
	PaymentType PaymentType `json:"paymentType"`
	Date        time.Time   `json:"date"`
	IsPaid      bool        `json:"isPaid"`
}

// NewSale is the caller-supplied sale. Total is trusted as given.
type NewSale struct {
	Items       []SaleItem  `json:"items"`
	Total       float64     `json:"total"`
	BuyerName   string      `json:"buyerName,omitempty"`
	PaymentType PaymentType `json:"paymentType"`
	Date        time.Time   `json:"date"`
	IsPaid      bool        `json:"isPaid"`
}

// IsCredit reports whether the sale accrues debt to a named buyer
func (s NewSale) IsCredit() bool {
	return s.PaymentType == PaymentCredit && s.BuyerName != ""
}
