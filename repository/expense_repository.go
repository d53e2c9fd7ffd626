package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"ghuman-groceries/db"
	"ghuman-groceries/models"
)

// ExpenseRepository handles database operations for expenses
type ExpenseRepository struct {
	db        *db.Database
	committer Committer
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(database *db.Database, committer Committer) *ExpenseRepository {
	return &ExpenseRepository{db: database, committer: committer}
}

// Ensure ExpenseRepository implements ExpenseRepositoryInterface
var _ ExpenseRepositoryInterface = (*ExpenseRepository)(nil)

// List returns every expense, newest first
func (r *ExpenseRepository) List(ctx context.Context) ([]models.Expense, error) {
	var rows []expenseRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+expenseColumns+` FROM expenses ORDER BY date DESC`); err != nil {
		log.Errorf("❌ Expenses: error querying expenses: %v", err)
		return nil, errors.Wrap(err, "failed to query expenses")
	}

	expenses := make([]models.Expense, 0, len(rows))
	for _, row := range rows {
		e, err := row.toModel()
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, nil
}

// Get returns an expense by id
func (r *ExpenseRepository) Get(ctx context.Context, id string) (*models.Expense, error) {
	var row expenseRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT `+expenseColumns+` FROM expenses WHERE id = ?`), id)
	if err == sql.ErrNoRows {
		return nil, models.ErrExpenseNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch expense")
	}

	e, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts an expense
func (r *ExpenseRepository) Create(ctx context.Context, ne models.NewExpense) (*models.Expense, error) {
	e := models.Expense{
		ID:          uuid.NewString(),
		Category:    ne.Category,
		Amount:      ne.Amount,
		Description: ne.Description,
		IsPaid:      ne.IsPaid,
		PaidAmount:  ne.PaidAmount,
		Date:        timeOrNow(ne.Date),
		DueDate:     ne.DueDate,
	}

	if err := insertExpense(ctx, r.db, e); err != nil {
		log.Errorf("❌ CreateExpense: %v", err)
		return nil, err
	}
	if err := r.committer.Commit(ctx, models.EntityExpenses); err != nil {
		return nil, err
	}

	log.WithField("id", e.ID).Infof("✅ CreateExpense: recorded %s %.2f", e.Category, e.Amount)
	return &e, nil
}

func insertExpense(ctx context.Context, ex execer, e models.Expense) error {
	_, err := ex.ExecContext(ctx, ex.Rebind(`
		INSERT INTO expenses (`+expenseColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`), e.ID, e.Category, e.Amount, e.Description, boolInt(e.IsPaid), e.PaidAmount,
		db.FormatTime(e.Date), nullTime(e.DueDate))
	if err != nil {
		return errors.Wrapf(err, "failed to insert expense %s", e.ID)
	}
	return nil
}

// Update applies a partial patch and returns the stored expense
func (r *ExpenseRepository) Update(ctx context.Context, id string, u models.ExpenseUpdate) (*models.Expense, error) {
	var sets []string
	var args []interface{}

	if u.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *u.Category)
	}
	if u.Amount != nil {
		sets = append(sets, "amount = ?")
		args = append(args, *u.Amount)
	}
	if u.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *u.Description)
	}
	if u.IsPaid != nil {
		sets = append(sets, "is_paid = ?")
		args = append(args, boolInt(*u.IsPaid))
	}
	if u.PaidAmount != nil {
		sets = append(sets, "paid_amount = ?")
		args = append(args, *u.PaidAmount)
	}
	if u.Date != nil {
		sets = append(sets, "date = ?")
		args = append(args, db.FormatTime(*u.Date))
	}
	if u.ClearDueDate {
		sets = append(sets, "due_date = NULL")
	} else if u.DueDate != nil {
		sets = append(sets, "due_date = ?")
		args = append(args, db.FormatTime(*u.DueDate))
	}

	if len(sets) == 0 {
		return r.Get(ctx, id)
	}

	args = append(args, id)
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE expenses SET `+strings.Join(sets, ", ")+` WHERE id = ?`), args...)
	if err != nil {
		log.Errorf("❌ UpdateExpense: error updating expense id=%s: %v", id, err)
		return nil, errors.Wrap(err, "failed to update expense")
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, errors.Wrap(err, "failed to update expense")
	} else if n == 0 {
		return nil, models.ErrExpenseNotFound
	}

	if err := r.committer.Commit(ctx, models.EntityExpenses); err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

// Delete removes an expense
func (r *ExpenseRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM expenses WHERE id = ?`), id)
	if err != nil {
		return false, errors.Wrap(err, "failed to delete expense")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "failed to delete expense")
	}
	if n == 0 {
		return false, nil
	}
	return true, r.committer.Commit(ctx, models.EntityExpenses)
}
