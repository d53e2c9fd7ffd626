package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghuman-groceries/db"
	"ghuman-groceries/localstorage"
	"ghuman-groceries/models"
)

// recordingCommitter persists the image like the store does and remembers
// which entities each commit touched.
type recordingCommitter struct {
	db *db.Database

	mu      sync.Mutex
	commits [][]models.Entity
}

func (c *recordingCommitter) Commit(ctx context.Context, changed ...models.Entity) error {
	c.mu.Lock()
	c.commits = append(c.commits, changed)
	c.mu.Unlock()
	return c.db.Persist(ctx)
}

func (c *recordingCommitter) last() []models.Entity {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.commits) == 0 {
		return nil
	}
	return c.commits[len(c.commits)-1]
}

type fixture struct {
	db        *db.Database
	committer *recordingCommitter
	storage   *localstorage.Memory
	products  *ProductRepository
	sales     *SaleRepository
	creditors *CreditorRepository
	expenses  *ExpenseRepository
	restock   *RestockRepository
	payments  *PaymentRepository
	backup    *BackupRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	storage := localstorage.NewMemory()
	database, err := db.Open(context.Background(), db.Options{WorkDir: t.TempDir()}, storage)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	c := &recordingCommitter{db: database}
	return &fixture{
		db:        database,
		committer: c,
		storage:   storage,
		products:  NewProductRepository(database, c),
		sales:     NewSaleRepository(database, c),
		creditors: NewCreditorRepository(database, c),
		expenses:  NewExpenseRepository(database, c),
		restock:   NewRestockRepository(database, c),
		payments:  NewPaymentRepository(database, c),
		backup:    NewBackupRepository(database, c),
	}
}

func (f *fixture) addProduct(t *testing.T, name string, price, quantity, min float64) *models.Product {
	t.Helper()
	p, err := f.products.Create(context.Background(), models.NewProduct{
		Name:        name,
		SalePrice:   price,
		Type:        models.UnitUnits,
		Quantity:    quantity,
		MinQuantity: min,
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) sell(t *testing.T, p *models.Product, qty float64, payment models.PaymentType, buyer string) *models.Sale {
	t.Helper()
	total := qty * p.SalePrice
	s, err := f.sales.Create(context.Background(), models.NewSale{
		Items: []models.SaleItem{{
			ProductID:    p.ID,
			ProductName:  p.Name,
			Quantity:     qty,
			PricePerUnit: p.SalePrice,
			Total:        total,
			Type:         p.Type,
		}},
		Total:       total,
		BuyerName:   buyer,
		PaymentType: payment,
		IsPaid:      payment == models.PaymentCash,
	})
	require.NoError(t, err)
	return s
}

func TestCashSaleSettlement(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.addProduct(t, "P", 50, 10, 2)

	sale := f.sell(t, p, 2, models.PaymentCash, "")
	assert.Equal(t, 100.0, sale.Total)
	assert.ElementsMatch(t, []models.Entity{models.EntitySales, models.EntityProducts}, f.committer.last())

	got, err := f.products.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 8.0, got.Quantity)

	creditors, err := f.creditors.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, creditors)

	var n int
	require.NoError(t, f.db.Get(&n, "SELECT COUNT(*) FROM creditors"))
	assert.Zero(t, n)

	stored, err := f.sales.Get(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, stored.Total)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, "P", stored.Items[0].ProductName)
}

func TestCreditAccrual(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.addProduct(t, "Rice", 50, 100, 5)

	f.sell(t, p, 2, models.PaymentCredit, "Asha")
	f.sell(t, p, 1, models.PaymentCredit, "Asha")

	creditors, err := f.creditors.List(ctx)
	require.NoError(t, err)
	require.Len(t, creditors, 1)
	assert.Equal(t, "Asha", creditors[0].Name)
	assert.Equal(t, 150.0, creditors[0].TotalDebt)
	assert.Len(t, creditors[0].Purchases, 2)
	// newest purchase first
	assert.False(t, creditors[0].Purchases[0].Date.Before(creditors[0].Purchases[1].Date))
}

func TestCreditorPurchasesExcludeCashSales(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.addProduct(t, "Atta", 45, 100, 5)

	credit := f.sell(t, p, 2, models.PaymentCredit, "Asha")
	f.sell(t, p, 1, models.PaymentCash, "Asha")

	creditors, err := f.creditors.List(ctx)
	require.NoError(t, err)
	require.Len(t, creditors, 1)
	assert.Equal(t, 90.0, creditors[0].TotalDebt)
	require.Len(t, creditors[0].Purchases, 1)
	assert.Equal(t, credit.ID, creditors[0].Purchases[0].ID)

	all, err := f.sales.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCreditSaleWithoutBuyerAccruesNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.addProduct(t, "Sugar", 40, 10, 1)

	f.sell(t, p, 1, models.PaymentCredit, "")

	creditors, err := f.creditors.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, creditors)

	sales, err := f.sales.List(ctx)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.False(t, sales[0].IsPaid)
}

func TestClearDebt(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.addProduct(t, "Oil", 100, 20, 2)

	f.sell(t, p, 1, models.PaymentCredit, "Asha")
	f.sell(t, p, 2, models.PaymentCredit, "Ravi")

	creditors, err := f.creditors.List(ctx)
	require.NoError(t, err)
	require.Len(t, creditors, 2)
	ravi, asha := creditors[0], creditors[1]
	assert.Equal(t, "Ravi", ravi.Name)

	remaining, err := f.creditors.ClearDebt(ctx, ravi.ID, 50)
	require.NoError(t, err)
	assert.Equal(t, 150.0, remaining)

	// exactly the outstanding debt
	remaining, err = f.creditors.ClearDebt(ctx, asha.ID, 100)
	require.NoError(t, err)
	assert.Zero(t, remaining)

	// more than the outstanding debt clamps to zero
	remaining, err = f.creditors.ClearDebt(ctx, ravi.ID, 1000)
	require.NoError(t, err)
	assert.Zero(t, remaining)

	creditors, err = f.creditors.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, creditors)

	_, err = f.creditors.Get(ctx, ravi.ID)
	assert.ErrorIs(t, err, models.ErrCreditorNotFound)
}

func TestClearDebtUnknownCreditor(t *testing.T) {
	f := newFixture(t)
	_, err := f.creditors.ClearDebt(context.Background(), "nobody", 10)
	assert.ErrorIs(t, err, models.ErrCreditorNotFound)
}

func TestOversell(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.addProduct(t, "Tea", 10, 10, 2)

	f.sell(t, p, 15, models.PaymentCash, "")

	got, err := f.products.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, -5.0, got.Quantity)
	assert.True(t, got.IsOutOfStock())
}

func TestSaleItemsKeepLineOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.addProduct(t, "Salt", 20, 500, 1)

	items := make([]models.SaleItem, 12)
	for i := range items {
		items[i] = models.SaleItem{ProductID: p.ID, ProductName: p.Name, Quantity: float64(i + 1), PricePerUnit: 20, Total: float64(i+1) * 20, Type: p.Type}
	}
	sale, err := f.sales.Create(ctx, models.NewSale{Items: items, Total: 1560, PaymentType: models.PaymentCash, IsPaid: true})
	require.NoError(t, err)

	stored, err := f.sales.Get(ctx, sale.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 12)
	for i, item := range stored.Items {
		assert.Equal(t, float64(i+1), item.Quantity)
	}
}

func TestListBetween(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.addProduct(t, "Milk", 30, 100, 5)

	day := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := f.sales.Create(ctx, models.NewSale{
			Items:       []models.SaleItem{{ProductID: p.ID, ProductName: p.Name, Quantity: 1, PricePerUnit: 30, Total: 30, Type: p.Type}},
			Total:       30,
			PaymentType: models.PaymentCash,
			Date:        day.AddDate(0, 0, i),
		})
		require.NoError(t, err)
	}

	sales, err := f.sales.ListBetween(ctx, day.AddDate(0, 0, 1), day.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Len(t, sales, 2)
}

func TestProductUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.addProduct(t, "Atta", 45, 30, 5)

	name := "Whole Wheat Atta"
	qty := 12.5
	updated, err := f.products.Update(ctx, p.ID, models.ProductUpdate{Name: &name, Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, qty, updated.Quantity)
	assert.Equal(t, 45.0, updated.SalePrice)
	assert.False(t, updated.UpdatedAt.Before(p.UpdatedAt))

	_, err = f.products.Update(ctx, "missing", models.ProductUpdate{Name: &name})
	assert.ErrorIs(t, err, models.ErrProductNotFound)

	removed, err := f.products.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = f.products.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestProductListOrderAndLowStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.products.SeedSamples(ctx))
	f.addProduct(t, "Atta", 45, 3, 5)

	products, err := f.products.List(ctx)
	require.NoError(t, err)
	names := make([]string, len(products))
	for i, p := range products {
		names[i] = p.Name
	}
	assert.Equal(t, []string{"Atta", "Basmati Rice", "Maggi Noodles", "Toor Dal"}, names)

	low, err := f.products.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Atta", low[0].Name)
}

func TestRestockGenerationIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	low := f.addProduct(t, "Ghee", 500, 2, 4)
	gone := f.addProduct(t, "Besan", 80, 0, 3)
	f.addProduct(t, "Jaggery", 60, 40, 5)

	first, err := f.restock.GenerateFromLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := f.restock.GenerateFromLowStock(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, first, second)

	byProduct := map[string]models.RestockItem{}
	for _, item := range second {
		byProduct[item.ProductID] = item
	}
	assert.Equal(t, 8.0, byProduct[low.ID].Quantity)
	assert.Equal(t, models.PriorityMedium, byProduct[low.ID].Priority)
	assert.Equal(t, 6.0, byProduct[gone.ID].Quantity)
	assert.Equal(t, models.PriorityHigh, byProduct[gone.ID].Priority)
}

func TestRestockOrdering(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, p := range []models.Priority{models.PriorityLow, models.PriorityHigh, models.PriorityMedium, models.PriorityHigh} {
		_, err := f.restock.Create(ctx, models.NewRestockItem{ProductName: string(p), Quantity: 1, IsCustom: true, Priority: p})
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	items, err := f.restock.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 4)
	assert.Equal(t, models.PriorityHigh, items[0].Priority)
	assert.Equal(t, models.PriorityHigh, items[1].Priority)
	assert.True(t, items[0].CreatedAt.After(items[1].CreatedAt))
	assert.Equal(t, models.PriorityMedium, items[2].Priority)
	assert.Equal(t, models.PriorityLow, items[3].Priority)

	removed, err := f.restock.Remove(ctx, items[3].ID)
	require.NoError(t, err)
	assert.True(t, removed)

	require.NoError(t, f.restock.Clear(ctx))
	items, err = f.restock.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestExpenseCRUD(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	due := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	e, err := f.expenses.Create(ctx, models.NewExpense{Category: "Rent", Amount: 8000, PaidAmount: 2000, DueDate: &due})
	require.NoError(t, err)
	assert.Equal(t, 6000.0, e.Outstanding())

	paid := true
	updated, err := f.expenses.Update(ctx, e.ID, models.ExpenseUpdate{IsPaid: &paid, ClearDueDate: true})
	require.NoError(t, err)
	assert.True(t, updated.IsPaid)
	assert.Nil(t, updated.DueDate)
	assert.Zero(t, updated.Outstanding())

	_, err = f.expenses.Update(ctx, "missing", models.ExpenseUpdate{IsPaid: &paid})
	assert.ErrorIs(t, err, models.ErrExpenseNotFound)

	removed, err := f.expenses.Delete(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, removed)
}

func TestPaymentDefaultsAndUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	p, err := f.payments.Create(ctx, models.NewPayment{Amount: 250, Description: "Tea stall", UPIID: "shop@upi"})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, p.Status)

	status := models.PaymentCompleted
	updated, err := f.payments.Update(ctx, p.ID, models.PaymentUpdate{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, updated.Status)

	_, err = f.payments.Update(ctx, "missing", models.PaymentUpdate{Status: &status})
	assert.ErrorIs(t, err, models.ErrPaymentNotFound)
}

func TestBackupRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.products.SeedSamples(ctx))
	p := f.addProduct(t, "Poha", 60, 3, 5)
	f.sell(t, p, 1, models.PaymentCredit, "Asha")
	f.sell(t, p, 2, models.PaymentCash, "")
	_, err := f.expenses.Create(ctx, models.NewExpense{Category: "Utilities", Amount: 1200, Description: "Power"})
	require.NoError(t, err)
	_, err = f.restock.GenerateFromLowStock(ctx)
	require.NoError(t, err)
	_, err = f.payments.Create(ctx, models.NewPayment{Amount: 99, Description: "Advance"})
	require.NoError(t, err)

	before, err := f.backup.Snapshot(ctx)
	require.NoError(t, err)

	fresh := newFixture(t)
	require.NoError(t, fresh.backup.Replace(ctx, before))
	assert.ElementsMatch(t, models.AllEntities, fresh.committer.last())

	after, err := fresh.backup.Snapshot(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, before.Products, after.Products)
	assert.ElementsMatch(t, before.Sales, after.Sales)
	assert.ElementsMatch(t, before.Creditors, after.Creditors)
	assert.ElementsMatch(t, before.Expenses, after.Expenses)
	assert.ElementsMatch(t, before.RestockItems, after.RestockItems)
	assert.ElementsMatch(t, before.Payments, after.Payments)
}

func TestFailedReplaceKeepsData(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.addProduct(t, "Jeera", 300, 4, 1)

	now := db.Now()
	broken := &models.Backup{
		Version:   models.BackupVersion,
		Timestamp: db.FormatTime(now),
		Products: []models.Product{
			{ID: "dup", Name: "A", Type: models.UnitUnits, CreatedAt: now, UpdatedAt: now},
			{ID: "dup", Name: "B", Type: models.UnitUnits, CreatedAt: now, UpdatedAt: now},
		},
	}
	assert.Error(t, f.backup.Replace(ctx, broken))

	products, err := f.products.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, p.ID, products[0].ID)
}

func TestMutationsPersistImage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	before, _, err := f.storage.GetItem(localstorage.KeyDatabaseImage)
	require.NoError(t, err)

	f.addProduct(t, "Haldi", 25, 10, 2)

	after, ok, err := f.storage.GetItem(localstorage.KeyDatabaseImage)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotEqual(t, before, after)

	reopened, err := db.Open(ctx, db.Options{WorkDir: t.TempDir()}, f.storage)
	require.NoError(t, err)
	defer reopened.Close()
	var n int
	require.NoError(t, reopened.Get(&n, "SELECT COUNT(*) FROM products WHERE name = ?", "Haldi"))
	assert.Equal(t, 1, n)
}

func TestListManySales(t *testing.T) {
	if testing.Short() {
		t.Skip("inserts tens of thousands of rows")
	}
	ctx := context.Background()
	f := newFixture(t)

	// More sales than SQLite accepts bound variables in one statement
	const count = 33000
	start := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	err := f.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		for i := 0; i < count; i++ {
			sale := models.Sale{
				ID:          fmt.Sprintf("s%05d", i),
				Total:       30,
				PaymentType: models.PaymentCash,
				Date:        start.Add(time.Duration(i) * time.Minute),
				IsPaid:      true,
				Items: []models.SaleItem{
					{ProductID: "p1", ProductName: "Tea", Quantity: 1, PricePerUnit: 10, Total: 10, Type: models.UnitUnits},
					{ProductID: "p2", ProductName: "Rusk", Quantity: 2, PricePerUnit: 10, Total: 20, Type: models.UnitUnits},
				},
			}
			if err := insertSale(ctx, tx, sale); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	sales, err := f.sales.List(ctx)
	require.NoError(t, err)
	require.Len(t, sales, count)
	for _, s := range []models.Sale{sales[0], sales[count/2], sales[count-1]} {
		require.Len(t, s.Items, 2, s.ID)
		assert.Equal(t, "Tea", s.Items[0].ProductName)
		assert.Equal(t, "Rusk", s.Items[1].ProductName)
	}
	assert.Equal(t, fmt.Sprintf("s%05d", count-1), sales[0].ID)

	backup, err := f.backup.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, backup.Sales, count)
}
