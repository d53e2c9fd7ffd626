package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"ghuman-groceries/db"
	"ghuman-groceries/models"
)

// SaleRepository handles database operations for sales
type SaleRepository struct {
	db        *db.Database
	committer Committer
}

// NewSaleRepository creates a new SaleRepository
func NewSaleRepository(database *db.Database, committer Committer) *SaleRepository {
	return &SaleRepository{db: database, committer: committer}
}

// Ensure SaleRepository implements SaleRepositoryInterface
var _ SaleRepositoryInterface = (*SaleRepository)(nil)

// List returns every sale, newest first, with its items in line order
func (r *SaleRepository) List(ctx context.Context) ([]models.Sale, error) {
	return querySales(ctx, r.db, `SELECT `+saleColumns+` FROM sales ORDER BY date DESC`)
}

// ListBetween returns sales dated within [from, to], newest first
func (r *SaleRepository) ListBetween(ctx context.Context, from, to time.Time) ([]models.Sale, error) {
	return querySales(ctx, r.db,
		`SELECT `+saleColumns+` FROM sales WHERE date >= ? AND date <= ? ORDER BY date DESC`,
		db.FormatTime(from), db.FormatTime(to))
}

// ListCreditPurchases returns the credit sales recorded against a buyer name.
// Cash sales to the same name are not purchases on account and are left out.
func (r *SaleRepository) ListCreditPurchases(ctx context.Context, buyerName string) ([]models.Sale, error) {
	return listCreditPurchases(ctx, r.db, buyerName)
}

func listCreditPurchases(ctx context.Context, q execer, buyerName string) ([]models.Sale, error) {
	return querySales(ctx, q,
		`SELECT `+saleColumns+` FROM sales WHERE buyer_name = ? AND payment_type = ? ORDER BY date DESC`,
		buyerName, string(models.PaymentCredit))
}

// Get returns a sale by id
func (r *SaleRepository) Get(ctx context.Context, id string) (*models.Sale, error) {
	sales, err := querySales(ctx, r.db, `SELECT `+saleColumns+` FROM sales WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(sales) == 0 {
		return nil, models.ErrSaleNotFound
	}
	return &sales[0], nil
}

func querySales(ctx context.Context, q execer, query string, args ...interface{}) ([]models.Sale, error) {
	var rows []saleRow
	if err := sqlx.SelectContext(ctx, q, &rows, q.Rebind(query), args...); err != nil {
		log.Errorf("❌ Sales: error querying sales: %v", err)
		return nil, errors.Wrap(err, "failed to query sales")
	}
	if len(rows) == 0 {
		return []models.Sale{}, nil
	}

	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	items, err := loadSaleItems(ctx, q, ids)
	if err != nil {
		return nil, err
	}

	sales := make([]models.Sale, 0, len(rows))
	for _, row := range rows {
		s, err := row.toModel(items[row.ID])
		if err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, nil
}

// saleItemsChunk bounds the ids bound into one IN list; SQLite rejects
// statements with more than 32766 variables.
const saleItemsChunk = 500

// loadSaleItems fetches the items of several sales, one query per chunk of ids
func loadSaleItems(ctx context.Context, q execer, saleIDs []string) (map[string][]models.SaleItem, error) {
	var rows []saleItemRow
	for start := 0; start < len(saleIDs); start += saleItemsChunk {
		end := start + saleItemsChunk
		if end > len(saleIDs) {
			end = len(saleIDs)
		}

		query, args, err := sqlx.In(`SELECT `+saleItemColumns+` FROM sale_items WHERE sale_id IN (?)`, saleIDs[start:end])
		if err != nil {
			return nil, errors.Wrap(err, "failed to build sale items query")
		}

		var chunk []saleItemRow
		if err := sqlx.SelectContext(ctx, q, &chunk, q.Rebind(query), args...); err != nil {
			log.Errorf("❌ Sales: error querying sale items: %v", err)
			return nil, errors.Wrap(err, "failed to query sale items")
		}
		rows = append(rows, chunk...)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return lineIndex(rows[i].ID) < lineIndex(rows[j].ID)
	})

	bySale := make(map[string][]models.SaleItem, len(saleIDs))
	for _, row := range rows {
		bySale[row.SaleID] = append(bySale[row.SaleID], row.toModel())
	}
	return bySale, nil
}

func saleItemID(saleID string, index int) string {
	return fmt.Sprintf("%s_%d", saleID, index)
}

// lineIndex recovers the position encoded in a sale item id
func lineIndex(itemID string) int {
	i := strings.LastIndex(itemID, "_")
	if i < 0 {
		return 0
	}
	n, err := strconv.Atoi(itemID[i+1:])
	if err != nil {
		return 0
	}
	return n
}

// insertSale writes the sale header and its item rows
func insertSale(ctx context.Context, ex execer, s models.Sale) error {
	_, err := ex.ExecContext(ctx, ex.Rebind(`
		INSERT INTO sales (`+saleColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
	`), s.ID, s.Total, nullString(s.BuyerName), string(s.PaymentType), db.FormatTime(s.Date), boolInt(s.IsPaid))
	if err != nil {
		return errors.Wrapf(err, "failed to insert sale %s", s.ID)
	}

	itemQuery := ex.Rebind(`
		INSERT INTO sale_items (` + saleItemColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	for i, item := range s.Items {
		_, err := ex.ExecContext(ctx, itemQuery,
			saleItemID(s.ID, i), s.ID, item.ProductID, item.ProductName,
			item.Quantity, item.PricePerUnit, item.Total, string(item.Type))
		if err != nil {
			return errors.Wrapf(err, "failed to insert item %d of sale %s", i, s.ID)
		}
	}
	return nil
}

// Create settles a sale: it records the sale and its items, takes the sold
// quantities out of stock and, for a credit sale to a named buyer, adds the
// total to that buyer's debt. Stock is not checked and may go negative.
func (r *SaleRepository) Create(ctx context.Context, ns models.NewSale) (*models.Sale, error) {
	sale := models.Sale{
		ID:          uuid.NewString(),
		Items:       ns.Items,
		Total:       ns.Total,
		BuyerName:   ns.BuyerName,
		PaymentType: ns.PaymentType,
		Date:        timeOrNow(ns.Date),
		IsPaid:      ns.IsPaid,
	}
	if sale.Items == nil {
		sale.Items = []models.SaleItem{}
	}

	log.WithFields(log.Fields{
		"id":          sale.ID,
		"items":       len(sale.Items),
		"paymentType": sale.PaymentType,
	}).Infof("📦 CreateSale: settling sale total=%.2f", sale.Total)

	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := insertSale(ctx, tx, sale); err != nil {
			return err
		}

		decrement := tx.Rebind(`UPDATE products SET quantity = quantity - ? WHERE id = ?`)
		for _, item := range sale.Items {
			if _, err := tx.ExecContext(ctx, decrement, item.Quantity, item.ProductID); err != nil {
				return errors.Wrapf(err, "failed to decrement stock of product %s", item.ProductID)
			}
		}

		if ns.IsCredit() {
			return accrueDebt(ctx, tx, sale.BuyerName, sale.Total)
		}
		return nil
	})
	if err != nil {
		log.Errorf("❌ CreateSale: error settling sale: %v", err)
		return nil, err
	}

	changed := []models.Entity{models.EntitySales, models.EntityProducts}
	if ns.IsCredit() {
		changed = append(changed, models.EntityCreditors)
	}
	if err := r.committer.Commit(ctx, changed...); err != nil {
		return nil, err
	}

	log.Printf("✅ CreateSale: sale %s recorded", sale.ID)
	return &sale, nil
}

// accrueDebt adds amount to the creditor with exactly this name, creating the
// creditor on first credit sale.
func accrueDebt(ctx context.Context, tx *sqlx.Tx, name string, amount float64) error {
	now := db.FormatTime(db.Now())

	var row creditorRow
	err := tx.GetContext(ctx, &row, tx.Rebind(`SELECT `+creditorColumns+` FROM creditors WHERE name = ?`), name)
	if err == sql.ErrNoRows {
		_, err = tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO creditors (`+creditorColumns+`)
			VALUES (?, ?, ?, ?, ?)
		`), uuid.NewString(), name, amount, now, now)
		if err != nil {
			return errors.Wrapf(err, "failed to create creditor %q", name)
		}
		log.Printf("💳 CreateSale: new creditor %q owes %.2f", name, amount)
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "failed to fetch creditor %q", name)
	}

	debt, _ := decimal.NewFromFloat(row.TotalDebt).Add(decimal.NewFromFloat(amount)).Float64()
	_, err = tx.ExecContext(ctx, tx.Rebind(`UPDATE creditors SET total_debt = ?, updated_at = ? WHERE id = ?`), debt, now, row.ID)
	if err != nil {
		return errors.Wrapf(err, "failed to update creditor %q", name)
	}
	log.Printf("💳 CreateSale: creditor %q now owes %.2f", name, debt)
	return nil
}
