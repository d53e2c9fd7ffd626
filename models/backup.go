package models

// BackupVersion is written into every exported envelope
const BackupVersion = "1.0.0"

// Backup is the full-snapshot envelope written to backup files
type Backup struct {
	Version      string        `json:"version"`
	Timestamp    string        `json:"timestamp"` // ISO-8601
	Products     []Product     `json:"products"`
	Sales        []Sale        `json:"sales"`
	Creditors    []Creditor    `json:"creditors"`
	Expenses     []Expense     `json:"expenses"`
	RestockItems []RestockItem `json:"restockItems"`
	Payments     []Payment     `json:"payments"`
}
