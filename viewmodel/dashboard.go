package viewmodel

import (
	"context"
	"time"

	"ghuman-groceries/models"
	"ghuman-groceries/store"
)

// Dashboard holds one live collection per entity. Its List methods serve the
// summary service from the cached copies.
type Dashboard struct {
	Products     *Collection[models.Product]
	Sales        *Collection[models.Sale]
	Creditors    *Collection[models.Creditor]
	Expenses     *Collection[models.Expense]
	RestockItems *Collection[models.RestockItem]
	Payments     *Collection[models.Payment]
}

// NewDashboard loads every collection from s
func NewDashboard(ctx context.Context, s *store.Store) (*Dashboard, error) {
	d := &Dashboard{}
	var err error

	if d.Products, err = NewCollection(ctx, s, models.EntityProducts, s.Products.List); err != nil {
		return nil, err
	}
	if d.Sales, err = NewCollection(ctx, s, models.EntitySales, s.Sales.List); err != nil {
		d.Close()
		return nil, err
	}
	if d.Creditors, err = NewCollection(ctx, s, models.EntityCreditors, s.Creditors.List); err != nil {
		d.Close()
		return nil, err
	}
	if d.Expenses, err = NewCollection(ctx, s, models.EntityExpenses, s.Expenses.List); err != nil {
		d.Close()
		return nil, err
	}
	if d.RestockItems, err = NewCollection(ctx, s, models.EntityRestockItems, s.Restock.List); err != nil {
		d.Close()
		return nil, err
	}
	if d.Payments, err = NewCollection(ctx, s, models.EntityPayments, s.Payments.List); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

// Close unsubscribes every collection
func (d *Dashboard) Close() {
	if d.Products != nil {
		d.Products.Close()
	}
	if d.Sales != nil {
		d.Sales.Close()
	}
	if d.Creditors != nil {
		d.Creditors.Close()
	}
	if d.Expenses != nil {
		d.Expenses.Close()
	}
	if d.RestockItems != nil {
		d.RestockItems.Close()
	}
	if d.Payments != nil {
		d.Payments.Close()
	}
}

func (d *Dashboard) ListProducts(ctx context.Context) ([]models.Product, error) {
	return d.Products.Items(), d.Products.Err()
}

func (d *Dashboard) ListSales(ctx context.Context) ([]models.Sale, error) {
	return d.Sales.Items(), d.Sales.Err()
}

// ListSalesBetween filters the cached sales to [from, to]
func (d *Dashboard) ListSalesBetween(ctx context.Context, from, to time.Time) ([]models.Sale, error) {
	var out []models.Sale
	for _, s := range d.Sales.Items() {
		if !s.Date.Before(from) && !s.Date.After(to) {
			out = append(out, s)
		}
	}
	return out, d.Sales.Err()
}

func (d *Dashboard) ListCreditors(ctx context.Context) ([]models.Creditor, error) {
	return d.Creditors.Items(), d.Creditors.Err()
}

func (d *Dashboard) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	return d.Expenses.Items(), d.Expenses.Err()
}

func (d *Dashboard) ListRestockItems(ctx context.Context) ([]models.RestockItem, error) {
	return d.RestockItems.Items(), d.RestockItems.Err()
}

func (d *Dashboard) ListPayments(ctx context.Context) ([]models.Payment, error) {
	return d.Payments.Items(), d.Payments.Err()
}
