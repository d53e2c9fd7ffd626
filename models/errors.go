package models

import "github.com/pkg/errors"

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrSaleNotFound        = errors.New("sale not found")
	ErrCreditorNotFound    = errors.New("creditor not found")
	ErrExpenseNotFound     = errors.New("expense not found")
	ErrRestockItemNotFound = errors.New("restock item not found")
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrInvalidBackup       = errors.New("invalid backup: version and timestamp are required")
	ErrInvalidAmount       = errors.New("amount must be greater than 0")
)
