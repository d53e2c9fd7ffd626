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

// PaymentRepository handles database operations for recorded payment requests
type PaymentRepository struct {
	db        *db.Database
	committer Committer
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(database *db.Database, committer Committer) *PaymentRepository {
	return &PaymentRepository{db: database, committer: committer}
}

// Ensure PaymentRepository implements PaymentRepositoryInterface
var _ PaymentRepositoryInterface = (*PaymentRepository)(nil)

// List returns every payment, newest first
func (r *PaymentRepository) List(ctx context.Context) ([]models.Payment, error) {
	var rows []paymentRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+paymentColumns+` FROM payments ORDER BY date DESC`); err != nil {
		log.Errorf("❌ Payments: error querying payments: %v", err)
		return nil, errors.Wrap(err, "failed to query payments")
	}

	payments := make([]models.Payment, 0, len(rows))
	for _, row := range rows {
		p, err := row.toModel()
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, nil
}

// Get returns a payment by id
func (r *PaymentRepository) Get(ctx context.Context, id string) (*models.Payment, error) {
	var row paymentRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT `+paymentColumns+` FROM payments WHERE id = ?`), id)
	if err == sql.ErrNoRows {
		return nil, models.ErrPaymentNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch payment")
	}

	p, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create records a payment; the status defaults to pending
func (r *PaymentRepository) Create(ctx context.Context, np models.NewPayment) (*models.Payment, error) {
	p := models.Payment{
		ID:            uuid.NewString(),
		Amount:        np.Amount,
		Description:   np.Description,
		UPIID:         np.UPIID,
		RecipientName: np.RecipientName,
		Status:        np.Status,
		Date:          timeOrNow(np.Date),
	}
	if p.Status == "" {
		p.Status = models.PaymentPending
	}

	if err := insertPayment(ctx, r.db, p); err != nil {
		log.Errorf("❌ CreatePayment: %v", err)
		return nil, err
	}
	if err := r.committer.Commit(ctx, models.EntityPayments); err != nil {
		return nil, err
	}

	log.WithField("id", p.ID).Infof("✅ CreatePayment: recorded %.2f (%s)", p.Amount, p.Status)
	return &p, nil
}

func insertPayment(ctx context.Context, ex execer, p models.Payment) error {
	_, err := ex.ExecContext(ctx, ex.Rebind(`
		INSERT INTO payments (`+paymentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`), p.ID, p.Amount, p.Description, nullString(p.UPIID), nullString(p.RecipientName),
		string(p.Status), db.FormatTime(p.Date))
	if err != nil {
		return errors.Wrapf(err, "failed to insert payment %s", p.ID)
	}
	return nil
}

// Update applies a partial patch. Status changes are taken as given.
func (r *PaymentRepository) Update(ctx context.Context, id string, u models.PaymentUpdate) (*models.Payment, error) {
	var sets []string
	var args []interface{}

	if u.Amount != nil {
		sets = append(sets, "amount = ?")
		args = append(args, *u.Amount)
	}
	if u.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *u.Description)
	}
	if u.UPIID != nil {
		sets = append(sets, "upi_id = ?")
		args = append(args, nullString(*u.UPIID))
	}
	if u.RecipientName != nil {
		sets = append(sets, "recipient_name = ?")
		args = append(args, nullString(*u.RecipientName))
	}
	if u.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*u.Status))
	}
	if u.Date != nil {
		sets = append(sets, "date = ?")
		args = append(args, db.FormatTime(*u.Date))
	}

	if len(sets) == 0 {
		return r.Get(ctx, id)
	}

	args = append(args, id)
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE payments SET `+strings.Join(sets, ", ")+` WHERE id = ?`), args...)
	if err != nil {
		log.Errorf("❌ UpdatePayment: error updating payment id=%s: %v", id, err)
		return nil, errors.Wrap(err, "failed to update payment")
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, errors.Wrap(err, "failed to update payment")
	} else if n == 0 {
		return nil, models.ErrPaymentNotFound
	}

	if err := r.committer.Commit(ctx, models.EntityPayments); err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}
