package store

import (
	"context"

	log "github.com/sirupsen/logrus"

	"ghuman-groceries/db"
	"ghuman-groceries/localstorage"
	"ghuman-groceries/models"
	"ghuman-groceries/repository"
)

// Options configures Open
type Options struct {
	DB             db.Options
	SeedSampleData bool // insert sample products into a freshly created database
}

// Store owns the database handle and exposes one repository per aggregate.
// Construct it with Open and release it with Close; nothing is global.
type Store struct {
	db      *db.Database
	storage localstorage.Storage
	events  hub

	Products  *repository.ProductRepository
	Sales     *repository.SaleRepository
	Creditors *repository.CreditorRepository
	Expenses  *repository.ExpenseRepository
	Restock   *repository.RestockRepository
	Payments  *repository.PaymentRepository
	Backup    *repository.BackupRepository
}

// Ensure Store implements repository.Committer
var _ repository.Committer = (*Store)(nil)

// Open opens the database and wires the repositories
func Open(ctx context.Context, opts Options, storage localstorage.Storage) (*Store, error) {
	database, err := db.Open(ctx, opts.DB, storage)
	if err != nil {
		log.Errorf("❌ Store: failed to open database: %v", err)
		return nil, err
	}

	s := &Store{db: database, storage: storage}
	s.Products = repository.NewProductRepository(database, s)
	s.Sales = repository.NewSaleRepository(database, s)
	s.Creditors = repository.NewCreditorRepository(database, s)
	s.Expenses = repository.NewExpenseRepository(database, s)
	s.Restock = repository.NewRestockRepository(database, s)
	s.Payments = repository.NewPaymentRepository(database, s)
	s.Backup = repository.NewBackupRepository(database, s)

	if database.Created() && opts.SeedSampleData {
		if err := s.Products.SeedSamples(ctx); err != nil {
			database.Close()
			return nil, err
		}
	}

	log.WithField("driver", database.Driver()).Info("✅ Store: ready")
	return s, nil
}

// Storage returns the key/value storage backing the store
func (s *Store) Storage() localstorage.Storage {
	return s.storage
}

// Commit persists the database image and notifies subscribers
func (s *Store) Commit(ctx context.Context, changed ...models.Entity) error {
	if err := s.db.Persist(ctx); err != nil {
		return err
	}
	s.events.publish(Change{Entities: changed, At: db.Now()})
	return nil
}

// Subscribe registers fn for changes touching any of kinds, or every change
// when no kinds are given. The returned function unsubscribes.
func (s *Store) Subscribe(fn func(Change), kinds ...models.Entity) func() {
	return s.events.subscribe(fn, kinds...)
}

// Close releases the database. The persisted image stays in storage.
func (s *Store) Close() error {
	log.Info("👋 Store: closing")
	return s.db.Close()
}
