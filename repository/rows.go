package repository

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"ghuman-groceries/db"
	"ghuman-groceries/models"
)

// Row types mirror the tables column for column. Every read goes through a
// toModel mapper so snapshots and plain reads produce identical records.

type productRow struct {
	ID            string          `db:"id"`
	Name          string          `db:"name"`
	Image         sql.NullString  `db:"image"`
	SalePrice     float64         `db:"sale_price"`
	PurchasePrice sql.NullFloat64 `db:"purchase_price"`
	Type          string          `db:"type"`
	Quantity      float64         `db:"quantity"`
	MinQuantity   float64         `db:"min_quantity"`
	CreatedAt     string          `db:"created_at"`
	UpdatedAt     string          `db:"updated_at"`
}

const productColumns = `id, name, image, sale_price, purchase_price, type, quantity, min_quantity, created_at, updated_at`

func (r productRow) toModel() (models.Product, error) {
	p := models.Product{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image.String,
		SalePrice:   r.SalePrice,
		Type:        models.UnitType(r.Type),
		Quantity:    r.Quantity,
		MinQuantity: r.MinQuantity,
	}
	if r.PurchasePrice.Valid {
		v := r.PurchasePrice.Float64
		p.PurchasePrice = &v
	}
	var err error
	if p.CreatedAt, err = db.ParseTime(r.CreatedAt); err != nil {
		return p, errors.Wrapf(err, "product %s", r.ID)
	}
	if p.UpdatedAt, err = db.ParseTime(r.UpdatedAt); err != nil {
		return p, errors.Wrapf(err, "product %s", r.ID)
	}
	return p, nil
}

type saleRow struct {
	ID          string         `db:"id"`
	Total       float64        `db:"total"`
	BuyerName   sql.NullString `db:"buyer_name"`
	PaymentType string         `db:"payment_type"`
	Date        string         `db:"date"`
	IsPaid      int            `db:"is_paid"`
}

const saleColumns = `id, total, buyer_name, payment_type, date, is_paid`

func (r saleRow) toModel(items []models.SaleItem) (models.Sale, error) {
	s := models.Sale{
		ID:          r.ID,
		Items:       items,
		Total:       r.Total,
		BuyerName:   r.BuyerName.String,
		PaymentType: models.PaymentType(r.PaymentType),
		IsPaid:      r.IsPaid != 0,
	}
	if s.Items == nil {
		s.Items = []models.SaleItem{}
	}
	var err error
	if s.Date, err = db.ParseTime(r.Date); err != nil {
		return s, errors.Wrapf(err, "sale %s", r.ID)
	}
	return s, nil
}

type saleItemRow struct {
	ID           string  `db:"id"`
	SaleID       string  `db:"sale_id"`
	ProductID    string  `db:"product_id"`
	ProductName  string  `db:"product_name"`
	Quantity     float64 `db:"quantity"`
	PricePerUnit float64 `db:"price_per_unit"`
	Total        float64 `db:"total"`
	Type         string  `db:"type"`
}

const saleItemColumns = `id, sale_id, product_id, product_name, quantity, price_per_unit, total, type`

func (r saleItemRow) toModel() models.SaleItem {
	return models.SaleItem{
		ProductID:    r.ProductID,
		ProductName:  r.ProductName,
		Quantity:     r.Quantity,
		PricePerUnit: r.PricePerUnit,
		Total:        r.Total,
		Type:         models.UnitType(r.Type),
	}
}

type creditorRow struct {
	ID        string  `db:"id"`
	Name      string  `db:"name"`
	TotalDebt float64 `db:"total_debt"`
	CreatedAt string  `db:"created_at"`
	UpdatedAt string  `db:"updated_at"`
}

const creditorColumns = `id, name, total_debt, created_at, updated_at`

func (r creditorRow) toModel(purchases []models.Sale) (models.Creditor, error) {
	c := models.Creditor{
		ID:        r.ID,
		Name:      r.Name,
		TotalDebt: r.TotalDebt,
		Purchases: purchases,
	}
	if c.Purchases == nil {
		c.Purchases = []models.Sale{}
	}
	var err error
	if c.CreatedAt, err = db.ParseTime(r.CreatedAt); err != nil {
		return c, errors.Wrapf(err, "creditor %s", r.ID)
	}
	if c.UpdatedAt, err = db.ParseTime(r.UpdatedAt); err != nil {
		return c, errors.Wrapf(err, "creditor %s", r.ID)
	}
	return c, nil
}

type expenseRow struct {
	ID          string         `db:"id"`
	Category    string         `db:"category"`
	Amount      float64        `db:"amount"`
	Description sql.NullString `db:"description"`
	IsPaid      int            `db:"is_paid"`
	PaidAmount  float64        `db:"paid_amount"`
	Date        string         `db:"date"`
	DueDate     sql.NullString `db:"due_date"`
}

const expenseColumns = `id, category, amount, description, is_paid, paid_amount, date, due_date`

func (r expenseRow) toModel() (models.Expense, error) {
	e := models.Expense{
		ID:          r.ID,
		Category:    r.Category,
		Amount:      r.Amount,
		Description: r.Description.String,
		IsPaid:      r.IsPaid != 0,
		PaidAmount:  r.PaidAmount,
	}
	var err error
	if e.Date, err = db.ParseTime(r.Date); err != nil {
		return e, errors.Wrapf(err, "expense %s", r.ID)
	}
	if r.DueDate.Valid && r.DueDate.String != "" {
		due, err := db.ParseTime(r.DueDate.String)
		if err != nil {
			return e, errors.Wrapf(err, "expense %s", r.ID)
		}
		e.DueDate = &due
	}
	return e, nil
}

type restockRow struct {
	ID          string         `db:"id"`
	ProductID   sql.NullString `db:"product_id"`
	ProductName string         `db:"product_name"`
	Quantity    float64        `db:"quantity"`
	IsCustom    int            `db:"is_custom"`
	Priority    string         `db:"priority"`
	CreatedAt   string         `db:"created_at"`
}

const restockColumns = `id, product_id, product_name, quantity, is_custom, priority, created_at`

func (r restockRow) toModel() (models.RestockItem, error) {
	item := models.RestockItem{
		ID:          r.ID,
		ProductID:   r.ProductID.String,
		ProductName: r.ProductName,
		Quantity:    r.Quantity,
		IsCustom:    r.IsCustom != 0,
		Priority:    models.Priority(r.Priority),
	}
	var err error
	if item.CreatedAt, err = db.ParseTime(r.CreatedAt); err != nil {
		return item, errors.Wrapf(err, "restock item %s", r.ID)
	}
	return item, nil
}

type paymentRow struct {
	ID            string         `db:"id"`
	Amount        float64        `db:"amount"`
	Description   sql.NullString `db:"description"`
	UPIID         sql.NullString `db:"upi_id"`
	RecipientName sql.NullString `db:"recipient_name"`
	Status        string         `db:"status"`
	Date          string         `db:"date"`
}

const paymentColumns = `id, amount, description, upi_id, recipient_name, status, date`

func (r paymentRow) toModel() (models.Payment, error) {
	p := models.Payment{
		ID:            r.ID,
		Amount:        r.Amount,
		Description:   r.Description.String,
		UPIID:         r.UPIID.String,
		RecipientName: r.RecipientName.String,
		Status:        models.PaymentStatus(r.Status),
	}
	var err error
	if p.Date, err = db.ParseTime(r.Date); err != nil {
		return p, errors.Wrapf(err, "payment %s", r.ID)
	}
	return p, nil
}

// nullString stores empty strings as NULL
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: db.FormatTime(*t), Valid: true}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// timeOrNow substitutes the current time for a zero timestamp
func timeOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return db.Now()
	}
	return t.UTC().Truncate(time.Millisecond)
}

// execer is satisfied by both *sqlx.DB and *sqlx.Tx
type execer = sqlx.ExtContext
