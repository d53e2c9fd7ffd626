package models

import "time"

// PaymentStatus is asserted by the operator; nothing confirms it automatically
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// Payment is a recorded UPI payment request
type Payment struct {
	ID            string        `json:"id"`
	Amount        float64       `json:"amount"`
	Description   string        `json:"description"`
	UPIID         string        `json:"upiId,omitempty"`
	RecipientName string        `json:"recipientName,omitempty"`
	Status        PaymentStatus `json:"status"`
	Date          time.Time     `json:"date"`
}

// NewPayment represents the fields supplied when recording a payment request
type NewPayment struct {
	Amount        float64       `json:"amount"`
	Description   string        `json:"description"`
	UPIID         string        `json:"upiId,omitempty"`
	RecipientName string        `json:"recipientName,omitempty"`
	Status        PaymentStatus `json:"status,omitempty"`
	Date          time.Time     `json:"date"`
}

// PaymentUpdate is a partial patch
type PaymentUpdate struct {
	Amount        *float64       `json:"amount,omitempty"`
	Description   *string        `json:"description,omitempty"`
	UPIID         *string        `json:"upiId,omitempty"`
	RecipientName *string        `json:"recipientName,omitempty"`
	Status        *PaymentStatus `json:"status,omitempty"`
	Date          *time.Time     `json:"date,omitempty"`
}
