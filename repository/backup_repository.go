package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"ghuman-groceries/db"
	"ghuman-groceries/models"
)

// BackupRepository reads and replaces the whole dataset at once
type BackupRepository struct {
	db        *db.Database
	committer Committer

	products  *ProductRepository
	sales     *SaleRepository
	creditors *CreditorRepository
	expenses  *ExpenseRepository
	restock   *RestockRepository
	payments  *PaymentRepository
}

// NewBackupRepository creates a new BackupRepository
func NewBackupRepository(database *db.Database, committer Committer) *BackupRepository {
	return &BackupRepository{
		db:        database,
		committer: committer,
		products:  NewProductRepository(database, committer),
		sales:     NewSaleRepository(database, committer),
		creditors: NewCreditorRepository(database, committer),
		expenses:  NewExpenseRepository(database, committer),
		restock:   NewRestockRepository(database, committer),
		payments:  NewPaymentRepository(database, committer),
	}
}

// Ensure BackupRepository implements BackupRepositoryInterface
var _ BackupRepositoryInterface = (*BackupRepository)(nil)

// Snapshot reads every collection using the same mapping as the regular reads.
// Version and timestamp are left for the caller to stamp.
func (r *BackupRepository) Snapshot(ctx context.Context) (*models.Backup, error) {
	var (
		b   models.Backup
		err error
	)
	if b.Products, err = r.products.List(ctx); err != nil {
		return nil, err
	}
	if b.Sales, err = r.sales.List(ctx); err != nil {
		return nil, err
	}
	if b.Creditors, err = r.creditors.List(ctx); err != nil {
		return nil, err
	}
	if b.Expenses, err = r.expenses.List(ctx); err != nil {
		return nil, err
	}
	if b.RestockItems, err = r.restock.List(ctx); err != nil {
		return nil, err
	}
	if b.Payments, err = r.payments.List(ctx); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"products":  len(b.Products),
		"sales":     len(b.Sales),
		"creditors": len(b.Creditors),
	}).Info("📦 Snapshot: dataset read")
	return &b, nil
}

// Replace deletes every row and inserts the backup's records in one
// transaction. Any failure leaves the previous data in place.
func (r *BackupRepository) Replace(ctx context.Context, b *models.Backup) error {
	log.Printf("📦 Replace: importing backup version=%s timestamp=%s", b.Version, b.Timestamp)

	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		// sale_items before sales for engines that enforce the foreign key
		for _, table := range []string{"sale_items", "sales", "creditors", "products", "expenses", "restock_items", "payments"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return errors.Wrapf(err, "failed to clear %s", table)
			}
		}

		for _, p := range b.Products {
			if err := insertProduct(ctx, tx, p); err != nil {
				return err
			}
		}
		for _, s := range b.Sales {
			if err := insertSale(ctx, tx, s); err != nil {
				return err
			}
		}
		for _, c := range b.Creditors {
			_, err := tx.ExecContext(ctx, tx.Rebind(`
				INSERT INTO creditors (`+creditorColumns+`)
				VALUES (?, ?, ?, ?, ?)
			`), c.ID, c.Name, c.TotalDebt, db.FormatTime(c.CreatedAt), db.FormatTime(c.UpdatedAt))
			if err != nil {
				return errors.Wrapf(err, "failed to insert creditor %s", c.ID)
			}
		}
		for _, e := range b.Expenses {
			if err := insertExpense(ctx, tx, e); err != nil {
				return err
			}
		}
		for _, item := range b.RestockItems {
			if err := insertRestockItem(ctx, tx, item); err != nil {
				return err
			}
		}
		for _, p := range b.Payments {
			if err := insertPayment(ctx, tx, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Errorf("❌ Replace: import failed, previous data kept: %v", err)
		return err
	}

	log.Printf("✅ Replace: imported %d products, %d sales, %d creditors", len(b.Products), len(b.Sales), len(b.Creditors))
	return r.committer.Commit(ctx, models.AllEntities...)
}
