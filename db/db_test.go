package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghuman-groceries/localstorage"
)

func openTestDB(t *testing.T, storage localstorage.Storage) *Database {
	t.Helper()
	d, err := Open(context.Background(), Options{WorkDir: t.TempDir()}, storage)
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func TestOpenCreatesFreshDatabase(t *testing.T) {
	storage := localstorage.NewMemory()
	d := openTestDB(t, storage)

	assert.True(t, d.Created())
	assert.Equal(t, DriverSQLite, d.Driver())

	image, ok, err := storage.GetItem(localstorage.KeyDatabaseImage)
	require.NoError(t, err)
	require.True(t, ok)
	_, err = DecodeImage(image)
	assert.NoError(t, err)

	for _, table := range Tables {
		var n int
		require.NoError(t, d.Get(&n, "SELECT COUNT(*) FROM "+table))
		assert.Zero(t, n, table)
	}
}

func TestPersistAndReopen(t *testing.T) {
	ctx := context.Background()
	storage := localstorage.NewMemory()

	first, err := Open(ctx, Options{WorkDir: t.TempDir()}, storage)
	require.NoError(t, err)
	_, err = first.ExecContext(ctx,
		`INSERT INTO creditors (id, name, total_debt, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		"c1", "Asha", 150.0, FormatTime(Now()), FormatTime(Now()))
	require.NoError(t, err)
	require.NoError(t, first.Persist(ctx))
	require.NoError(t, first.Close())

	second := openTestDB(t, storage)
	assert.False(t, second.Created())

	var name string
	require.NoError(t, second.Get(&name, "SELECT name FROM creditors WHERE id = ?", "c1"))
	assert.Equal(t, "Asha", name)
}

// browserSchema is the DDL the browser build ran before payments and
// schema versioning existed
var browserSchema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		image TEXT,
		sale_price REAL NOT NULL,
		purchase_price REAL,
		type TEXT NOT NULL CHECK (type IN ('units', 'kg')),
		quantity REAL NOT NULL DEFAULT 0,
		min_quantity REAL NOT NULL DEFAULT 5,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sales (
		id TEXT PRIMARY KEY,
		total REAL NOT NULL,
		buyer_name TEXT,
		payment_type TEXT NOT NULL CHECK (payment_type IN ('cash', 'credit')),
		date TEXT NOT NULL,
		is_paid INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS sale_items (
		id TEXT PRIMARY KEY,
		sale_id TEXT NOT NULL,
		product_id TEXT NOT NULL,
		product_name TEXT NOT NULL,
		quantity REAL NOT NULL,
		price_per_unit REAL NOT NULL,
		total REAL NOT NULL,
		type TEXT NOT NULL,
		FOREIGN KEY (sale_id) REFERENCES sales (id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS creditors (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		total_debt REAL NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS expenses (
		id TEXT PRIMARY KEY,
		category TEXT NOT NULL,
		amount REAL NOT NULL,
		description TEXT,
		is_paid INTEGER NOT NULL DEFAULT 0,
		paid_amount REAL NOT NULL DEFAULT 0,
		date TEXT NOT NULL,
		due_date TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS restock_items (
		id TEXT PRIMARY KEY,
		product_id TEXT,
		product_name TEXT NOT NULL,
		quantity REAL NOT NULL,
		is_custom INTEGER NOT NULL DEFAULT 0,
		priority TEXT NOT NULL CHECK (priority IN ('low', 'medium', 'high')),
		created_at TEXT NOT NULL
	)`,
}

// browserImage builds a database file with the browser schema and returns
// it encoded the way the browser stored it
func browserImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "browser.db")
	raw, err := sqlx.Open(DriverSQLite, path)
	require.NoError(t, err)

	for _, stmt := range browserSchema {
		_, err := raw.Exec(stmt)
		require.NoError(t, err)
	}
	now := "2025-03-01T09:30:00.000Z"
	_, err = raw.Exec(`INSERT INTO products (id, name, sale_price, type, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		"1709285400000", "Toor Dal", 150.0, "kg", now, now)
	require.NoError(t, err)
	_, err = raw.Exec(`INSERT INTO expenses (id, category, amount, date) VALUES (?, ?, ?, ?)`,
		"1709285400001", "Rent", 5000.0, now)
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return EncodeImage(data)
}

func TestOpenUpgradesBrowserImage(t *testing.T) {
	ctx := context.Background()
	storage := localstorage.NewMemory()
	require.NoError(t, storage.SetItem(localstorage.KeyDatabaseImage, browserImage(t)))

	d := openTestDB(t, storage)
	assert.False(t, d.Created())

	var n int
	require.NoError(t, d.Get(&n, "SELECT COUNT(*) FROM payments"))
	assert.Zero(t, n)
	require.NoError(t, d.Get(&n, "SELECT COUNT(*) FROM expenses"))
	assert.Equal(t, 1, n)

	// Column defaults from the browser DDL still apply
	var minQuantity, paidAmount float64
	require.NoError(t, d.Get(&minQuantity, "SELECT min_quantity FROM products WHERE id = ?", "1709285400000"))
	assert.Equal(t, 5.0, minQuantity)
	require.NoError(t, d.Get(&paidAmount, "SELECT paid_amount FROM expenses WHERE id = ?", "1709285400001"))
	assert.Zero(t, paidAmount)

	var version int
	require.NoError(t, d.Get(&version, "SELECT version FROM schema_migrations"))
	assert.Equal(t, 4, version)

	_, err := d.ExecContext(ctx,
		`INSERT INTO payments (id, amount, status, date) VALUES (?, ?, ?, ?)`,
		"p1", 20.0, "pending", FormatTime(Now()))
	require.NoError(t, err)
	require.NoError(t, d.Persist(ctx))

	// The upgraded image reopens without running the migrations again
	require.NoError(t, d.Close())
	again := openTestDB(t, storage)
	require.NoError(t, again.Get(&n, "SELECT COUNT(*) FROM payments"))
	assert.Equal(t, 1, n)
	require.NoError(t, again.Get(&n, "SELECT COUNT(*) FROM products"))
	assert.Equal(t, 1, n)
}

func TestOpenRecoversFromCorruptImage(t *testing.T) {
	cases := map[string]string{
		"not json":       "definitely not an image",
		"not a database": EncodeImage([]byte("SQLite format? no, just some bytes that are long enough to matter")),
		"bad byte":       "[1,2,300]",
	}

	for name, image := range cases {
		t.Run(name, func(t *testing.T) {
			storage := localstorage.NewMemory()
			require.NoError(t, storage.SetItem(localstorage.KeyDatabaseImage, image))

			d := openTestDB(t, storage)
			assert.True(t, d.Created())

			var n int
			require.NoError(t, d.Get(&n, "SELECT COUNT(*) FROM products"))
			assert.Zero(t, n)

			stored, _, err := storage.GetItem(localstorage.KeyDatabaseImage)
			require.NoError(t, err)
			assert.NotEqual(t, image, stored)
		})
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	d := openTestDB(t, localstorage.NewMemory())

	err := d.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO payments (id, amount, status, date) VALUES (?, ?, ?, ?)`,
			"p1", 10.0, "pending", FormatTime(Now()))
		require.NoError(t, err)
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	var n int
	require.NoError(t, d.Get(&n, "SELECT COUNT(*) FROM payments"))
	assert.Zero(t, n)
}

func TestUnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: "oracle"}, localstorage.NewMemory())
	assert.Error(t, err)
}

func TestImageEncoding(t *testing.T) {
	image := []byte{0, 1, 127, 255}
	encoded := EncodeImage(image)
	assert.Equal(t, "[0,1,127,255]", encoded)

	decoded, err := DecodeImage(encoded)
	require.NoError(t, err)
	assert.Equal(t, image, decoded)

	_, err = DecodeImage("[]")
	assert.Error(t, err)
}

func TestTimeFormat(t *testing.T) {
	ts := time.Date(2024, 3, 5, 9, 7, 1, 123456789, time.FixedZone("IST", 19800))
	formatted := FormatTime(ts)
	assert.Equal(t, "2024-03-05T03:37:01.123Z", formatted)

	parsed, err := ParseTime(formatted)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(ts.Truncate(time.Millisecond)))

	_, err = ParseTime("yesterday")
	assert.Error(t, err)
}
