package viewmodel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghuman-groceries/db"
	"ghuman-groceries/localstorage"
	"ghuman-groceries/models"
	"ghuman-groceries/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(context.Background(), store.Options{DB: db.Options{WorkDir: t.TempDir()}, SeedSampleData: true}, localstorage.NewMemory())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestDashboardRefreshesOnSale(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	d, err := NewDashboard(ctx, s)
	require.NoError(t, err)
	defer d.Close()

	require.Equal(t, 3, d.Products.Len())
	assert.Zero(t, d.Sales.Len())
	assert.Zero(t, d.Creditors.Len())

	p := d.Products.Items()[0]
	_, err = s.Sales.Create(ctx, models.NewSale{
		Items:       []models.SaleItem{{ProductID: p.ID, ProductName: p.Name, Quantity: 1, PricePerUnit: p.SalePrice, Total: p.SalePrice, Type: p.Type}},
		Total:       p.SalePrice,
		BuyerName:   "Asha",
		PaymentType: models.PaymentCredit,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, d.Sales.Len())
	require.Equal(t, 1, d.Creditors.Len())
	assert.Equal(t, p.SalePrice, d.Creditors.Items()[0].TotalDebt)
	assert.Equal(t, p.Quantity-1, d.Products.Items()[0].Quantity)
	assert.NoError(t, d.Sales.Err())
}

func TestItemsReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	products, err := NewCollection(ctx, s, models.EntityProducts, s.Products.List)
	require.NoError(t, err)
	defer products.Close()

	items := products.Items()
	items[0].Name = "changed"
	assert.NotEqual(t, "changed", products.Items()[0].Name)
}

func TestClosedCollectionStopsRefreshing(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	expenses, err := NewCollection(ctx, s, models.EntityExpenses, s.Expenses.List)
	require.NoError(t, err)
	expenses.Close()

	_, err = s.Expenses.Create(ctx, models.NewExpense{Category: "Other", Amount: 10})
	require.NoError(t, err)
	assert.Zero(t, expenses.Len())
}

func TestDashboardListSalesBetween(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	d, err := NewDashboard(ctx, s)
	require.NoError(t, err)
	defer d.Close()

	p := d.Products.Items()[0]
	day := time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
	for _, date := range []time.Time{day.AddDate(0, 0, -3), day, day.Add(time.Hour)} {
		_, err := s.Sales.Create(ctx, models.NewSale{
			Items:       []models.SaleItem{{ProductID: p.ID, ProductName: p.Name, Quantity: 1, PricePerUnit: p.SalePrice, Total: p.SalePrice, Type: p.Type}},
			Total:       p.SalePrice,
			PaymentType: models.PaymentCash,
			Date:        date,
		})
		require.NoError(t, err)
	}

	all, err := d.ListSales(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	today, err := d.ListSalesBetween(ctx, day.Truncate(24*time.Hour), day.Truncate(24*time.Hour).Add(24*time.Hour-time.Millisecond))
	require.NoError(t, err)
	assert.Len(t, today, 2)

	products, err := d.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 3)
}
