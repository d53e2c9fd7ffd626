package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"ghuman-groceries/config"
	"ghuman-groceries/models"
)

type cliHarness struct {
	t   *testing.T
	app *App
	out bytes.Buffer
}

func newHarness(t *testing.T, dataDir string) *cliHarness {
	t.Helper()
	cfg := &config.Config{
		DataDir:        dataDir,
		DBDriver:       "sqlite",
		SeedSampleData: true,
		LogLevel:       "warn",
		LogFormat:      "text",
		BackupDir:      filepath.Join(dataDir, "backups"),
	}
	a, err := Initialize(context.Background(), cfg)
	require.NoError(t, err)

	h := &cliHarness{t: t, app: a}
	a.CLI.Writer = &h.out
	a.CLI.ErrWriter = &bytes.Buffer{}
	return h
}

func (h *cliHarness) run(args ...string) ([]byte, error) {
	h.out.Reset()
	err := h.app.Run(context.Background(), append([]string{"ghuman-groceries"}, args...))
	return h.out.Bytes(), err
}

func (h *cliHarness) mustRun(v interface{}, args ...string) {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, "args: %v", args)
	if v != nil {
		require.NoError(h.t, json.Unmarshal(out, v), "output: %s", out)
	}
}

func findProduct(t *testing.T, products []models.Product, name string) models.Product {
	t.Helper()
	for _, p := range products {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("product %q not found", name)
	return models.Product{}
}

func TestCLISaleOnCreditAndRepayment(t *testing.T) {
	h := newHarness(t, t.TempDir())
	defer h.app.Close()

	var products []models.Product
	h.mustRun(&products, "products", "list")
	require.Len(t, products, 3)
	rice := findProduct(t, products, "Basmati Rice")
	dal := findProduct(t, products, "Toor Dal")

	var sale models.Sale
	h.mustRun(&sale, "sales", "sell",
		"--item", rice.ID+":adhPa",
		"--item", dal.ID+":2",
		"--credit", "--buyer", "Asha")
	assert.Equal(t, 330.0, sale.Total)
	assert.Equal(t, models.PaymentCredit, sale.PaymentType)
	require.Len(t, sale.Items, 2)
	assert.Equal(t, 0.25, sale.Items[0].Quantity)
	assert.Equal(t, 30.0, sale.Items[0].Total)

	var creditors []models.Creditor
	h.mustRun(&creditors, "creditors", "list")
	require.Len(t, creditors, 1)
	assert.Equal(t, "Asha", creditors[0].Name)
	assert.Equal(t, 330.0, creditors[0].TotalDebt)

	var cleared map[string]interface{}
	h.mustRun(&cleared, "creditors", "clear", "--id", creditors[0].ID, "--amount", "400")
	assert.Equal(t, true, cleared["cleared"])

	h.mustRun(&creditors, "creditors", "list")
	assert.Empty(t, creditors)

	var updated models.Product
	h.mustRun(&updated, "products", "update", "--id", rice.ID, "--price", "130")
	assert.Equal(t, 130.0, updated.SalePrice)
	assert.Equal(t, 49.75, updated.Quantity)
}

func TestCLIValidationExitCodes(t *testing.T) {
	h := newHarness(t, t.TempDir())
	defer h.app.Close()

	_, err := h.run("payments", "request", "--amount", "0")
	var exitErr cli.ExitCoder
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.ExitCode())

	_, err = h.run("products", "delete", "--id", "missing")
	require.NoError(t, err)

	_, err = h.run("expenses", "update", "--id", "missing", "--amount", "10")
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.ExitCode())

	_, err = h.run("backup", "push")
	require.ErrorAs(t, err, &exitErr)
}

func TestCLIPaymentRequestUsesPreferences(t *testing.T) {
	h := newHarness(t, t.TempDir())
	defer h.app.Close()

	h.mustRun(nil, "prefs", "set", "--key", "paymentUpiId", "--value", "shop@upi")

	var res struct {
		Payment models.Payment `json:"payment"`
		UPIURL  string         `json:"upiUrl"`
	}
	h.mustRun(&res, "payments", "request", "--amount", "50")
	assert.Equal(t, "upi://pay?pa=shop%40upi&pn=GURINDER+SINGH&am=50&cu=INR", res.UPIURL)
	assert.Equal(t, models.PaymentPending, res.Payment.Status)

	var paid models.Payment
	h.mustRun(&paid, "payments", "status", "--id", res.Payment.ID, "--status", "completed")
	assert.Equal(t, models.PaymentCompleted, paid.Status)
}

func TestCLIBackupExportImportAcrossRestart(t *testing.T) {
	dataDir := t.TempDir()
	h := newHarness(t, dataDir)

	var expense models.Expense
	h.mustRun(&expense, "expenses", "add", "--category", "Rent", "--amount", "8000", "--paid-amount", "2000")
	assert.Equal(t, 6000.0, expense.Outstanding())

	var exported map[string]string
	h.mustRun(&exported, "backup", "export")
	backupPath := filepath.Join(exported["dir"], exported["file"])
	require.FileExists(t, backupPath)

	h.mustRun(nil, "expenses", "delete", "--id", expense.ID)
	require.NoError(t, h.app.Close())

	// Reopen on the same data directory: state comes back from storage
	h = newHarness(t, dataDir)
	defer h.app.Close()

	var expenses []models.Expense
	h.mustRun(&expenses, "expenses", "list")
	assert.Empty(t, expenses)

	h.mustRun(nil, "backup", "import", "--file", backupPath)
	h.mustRun(&expenses, "expenses", "list")
	require.Len(t, expenses, 1)
	assert.Equal(t, "Rent", expenses[0].Category)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"products": []}`), 0o644))
	_, err := h.run("backup", "import", "--file", bad)
	assert.Error(t, err)

	h.mustRun(&expenses, "expenses", "list")
	assert.Len(t, expenses, 1)
}

func TestCLIAnalyticsAndRestock(t *testing.T) {
	h := newHarness(t, t.TempDir())
	defer h.app.Close()

	var products []models.Product
	h.mustRun(&products, "products", "list")
	noodles := findProduct(t, products, "Maggi Noodles")

	h.mustRun(nil, "sales", "sell", "--item", noodles.ID+":85")

	var items []models.RestockItem
	h.mustRun(&items, "restock", "generate")
	require.Len(t, items, 1)
	assert.Equal(t, noodles.ID, items[0].ProductID)
	assert.Equal(t, 40.0, items[0].Quantity)

	var report models.SalesReport
	h.mustRun(&report, "analytics")
	assert.Equal(t, 1, report.Transactions)
	assert.Equal(t, 1275.0, report.TotalSales)
	assert.Equal(t, 255.0, report.TotalProfit)

	var dash models.DashboardSummary
	h.mustRun(&dash, "dashboard")
	assert.Equal(t, "Maggi Noodles", dash.MostSoldProduct)
	assert.Equal(t, 1, dash.LowStockCount)
	assert.Equal(t, 1, dash.RestockCount)
}
