package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"ghuman-groceries/db"
	"ghuman-groceries/models"
)

// CreditorRepository handles database operations for creditors
type CreditorRepository struct {
	db        *db.Database
	committer Committer
}

// NewCreditorRepository creates a new CreditorRepository
func NewCreditorRepository(database *db.Database, committer Committer) *CreditorRepository {
	return &CreditorRepository{db: database, committer: committer}
}

// Ensure CreditorRepository implements CreditorRepositoryInterface
var _ CreditorRepositoryInterface = (*CreditorRepository)(nil)

// List returns creditors with outstanding debt, largest debt first, each
// with its credit purchases.
func (r *CreditorRepository) List(ctx context.Context) ([]models.Creditor, error) {
	var rows []creditorRow
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(`
		SELECT `+creditorColumns+` FROM creditors
		WHERE total_debt > 0
		ORDER BY total_debt DESC
	`))
	if err != nil {
		log.Errorf("❌ Creditors: error querying creditors: %v", err)
		return nil, errors.Wrap(err, "failed to query creditors")
	}

	creditors := make([]models.Creditor, 0, len(rows))
	for _, row := range rows {
		c, err := r.withPurchases(ctx, row)
		if err != nil {
			return nil, err
		}
		creditors = append(creditors, c)
	}
	return creditors, nil
}

// Get returns a creditor by id
func (r *CreditorRepository) Get(ctx context.Context, id string) (*models.Creditor, error) {
	var row creditorRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT `+creditorColumns+` FROM creditors WHERE id = ?`), id)
	if err == sql.ErrNoRows {
		return nil, models.ErrCreditorNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch creditor")
	}

	c, err := r.withPurchases(ctx, row)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CreditorRepository) withPurchases(ctx context.Context, row creditorRow) (models.Creditor, error) {
	purchases, err := listCreditPurchases(ctx, r.db, row.Name)
	if err != nil {
		return models.Creditor{}, err
	}
	return row.toModel(purchases)
}

// ClearDebt records a repayment and returns what is still owed. A creditor
// whose debt reaches zero is deleted; overpayment is not carried forward.
func (r *CreditorRepository) ClearDebt(ctx context.Context, id string, amount float64) (float64, error) {
	log.Printf("📦 ClearDebt: clearing %.2f for creditor id=%s", amount, id)

	var remaining float64
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		var row creditorRow
		err := tx.GetContext(ctx, &row, tx.Rebind(`SELECT `+creditorColumns+` FROM creditors WHERE id = ?`), id)
		if err == sql.ErrNoRows {
			return models.ErrCreditorNotFound
		}
		if err != nil {
			return errors.Wrap(err, "failed to fetch creditor")
		}

		left := decimal.NewFromFloat(row.TotalDebt).Sub(decimal.NewFromFloat(amount))
		if !left.IsPositive() {
			if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM creditors WHERE id = ?`), id); err != nil {
				return errors.Wrap(err, "failed to delete creditor")
			}
			log.Printf("✅ ClearDebt: creditor %q settled in full", row.Name)
			remaining = 0
			return nil
		}

		remaining, _ = left.Float64()
		_, err = tx.ExecContext(ctx, tx.Rebind(`UPDATE creditors SET total_debt = ?, updated_at = ? WHERE id = ?`),
			remaining, db.FormatTime(db.Now()), id)
		if err != nil {
			return errors.Wrap(err, "failed to update creditor")
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, models.ErrCreditorNotFound) {
			log.Errorf("❌ ClearDebt: error clearing debt: %v", err)
		}
		return 0, err
	}

	if err := r.committer.Commit(ctx, models.EntityCreditors); err != nil {
		return 0, err
	}
	return remaining, nil
}
