package repository

import (
	"context"
	"time"

	"ghuman-groceries/models"
)

// Committer makes a finished mutation durable and announces it. The store
// implements it by persisting the database image and notifying subscribers.
type Committer interface {
	Commit(ctx context.Context, changed ...models.Entity) error
}

// ProductRepositoryInterface defines the contract for product repository operations
type ProductRepositoryInterface interface {
	List(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, p models.NewProduct) (*models.Product, error)
	Update(ctx context.Context, id string, u models.ProductUpdate) (*models.Product, error)
	Delete(ctx context.Context, id string) (bool, error)
	LowStock(ctx context.Context) ([]models.Product, error)
	SeedSamples(ctx context.Context) error
}

// SaleRepositoryInterface defines the contract for sale repository operations
type SaleRepositoryInterface interface {
	List(ctx context.Context) ([]models.Sale, error)
	Get(ctx context.Context, id string) (*models.Sale, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]models.Sale, error)
	ListCreditPurchases(ctx context.Context, buyerName string) ([]models.Sale, error)
	Create(ctx context.Context, s models.NewSale) (*models.Sale, error)
}

// CreditorRepositoryInterface defines the contract for creditor repository operations
type CreditorRepositoryInterface interface {
	List(ctx context.Context) ([]models.Creditor, error)
	Get(ctx context.Context, id string) (*models.Creditor, error)
	ClearDebt(ctx context.Context, id string, amount float64) (float64, error)
}

// ExpenseRepositoryInterface defines the contract for expense repository operations
type ExpenseRepositoryInterface interface {
	List(ctx context.Context) ([]models.Expense, error)
	Get(ctx context.Context, id string) (*models.Expense, error)
	Create(ctx context.Context, e models.NewExpense) (*models.Expense, error)
	Update(ctx context.Context, id string, u models.ExpenseUpdate) (*models.Expense, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// RestockRepositoryInterface defines the contract for restock list operations
type RestockRepositoryInterface interface {
	List(ctx context.Context) ([]models.RestockItem, error)
	Create(ctx context.Context, item models.NewRestockItem) (*models.RestockItem, error)
	Remove(ctx context.Context, id string) (bool, error)
	Clear(ctx context.Context) error
	GenerateFromLowStock(ctx context.Context) ([]models.RestockItem, error)
}

// PaymentRepositoryInterface defines the contract for payment repository operations
type PaymentRepositoryInterface interface {
	List(ctx context.Context) ([]models.Payment, error)
	Get(ctx context.Context, id string) (*models.Payment, error)
	Create(ctx context.Context, p models.NewPayment) (*models.Payment, error)
	Update(ctx context.Context, id string, u models.PaymentUpdate) (*models.Payment, error)
}

// BackupRepositoryInterface reads and replaces the whole dataset
type BackupRepositoryInterface interface {
	Snapshot(ctx context.Context) (*models.Backup, error)
	Replace(ctx context.Context, b *models.Backup) error
}
