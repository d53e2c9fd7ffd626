package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"ghuman-groceries/db"
	"ghuman-groceries/models"
)

// ProductRepository handles database operations for products
type ProductRepository struct {
	db        *db.Database
	committer Committer
}

// NewProductRepository creates a new ProductRepository
func NewProductRepository(database *db.Database, committer Committer) *ProductRepository {
	return &ProductRepository{db: database, committer: committer}
}

// Ensure ProductRepository implements ProductRepositoryInterface
var _ ProductRepositoryInterface = (*ProductRepository)(nil)

// List returns every product ordered by name
func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	return r.query(ctx, `SELECT `+productColumns+` FROM products ORDER BY name`)
}

// LowStock returns products at or below their minimum quantity
func (r *ProductRepository) LowStock(ctx context.Context) ([]models.Product, error) {
	return r.query(ctx, `SELECT `+productColumns+` FROM products WHERE quantity <= min_quantity ORDER BY name`)
}

func (r *ProductRepository) query(ctx context.Context, query string, args ...interface{}) ([]models.Product, error) {
	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		log.Errorf("❌ Products: error querying products: %v", err)
		return nil, errors.Wrap(err, "failed to query products")
	}

	products := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		p, err := row.toModel()
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

// Get returns a product by id
func (r *ProductRepository) Get(ctx context.Context, id string) (*models.Product, error) {
	var row productRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT `+productColumns+` FROM products WHERE id = ?`), id)
	if err == sql.ErrNoRows {
		return nil, models.ErrProductNotFound
	}
	if err != nil {
		log.Errorf("❌ GetProduct: error fetching product id=%s: %v", id, err)
		return nil, errors.Wrap(err, "failed to fetch product")
	}

	p, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a product with a fresh id and timestamps
func (r *ProductRepository) Create(ctx context.Context, np models.NewProduct) (*models.Product, error) {
	now := db.Now()
	p := models.Product{
		ID:            uuid.NewString(),
		Name:          np.Name,
		Image:         np.Image,
		SalePrice:     np.SalePrice,
		PurchasePrice: np.PurchasePrice,
		Type:          np.Type,
		Quantity:      np.Quantity,
		MinQuantity:   np.MinQuantity,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := insertProduct(ctx, r.db, p); err != nil {
		log.Errorf("❌ CreateProduct: error inserting product %q: %v", p.Name, err)
		return nil, err
	}
	if err := r.committer.Commit(ctx, models.EntityProducts); err != nil {
		return nil, err
	}

	log.WithField("id", p.ID).Infof("✅ CreateProduct: created %q", p.Name)
	return &p, nil
}

func insertProduct(ctx context.Context, ex execer, p models.Product) error {
	query := ex.Rebind(`
		INSERT INTO products (` + productColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := ex.ExecContext(ctx, query,
		p.ID, p.Name, nullString(p.Image), p.SalePrice, nullFloat(p.PurchasePrice), string(p.Type),
		p.Quantity, p.MinQuantity, db.FormatTime(p.CreatedAt), db.FormatTime(p.UpdatedAt))
	if err != nil {
		return errors.Wrapf(err, "failed to insert product %s", p.ID)
	}
	return nil
}

// Update applies a partial patch, bumps updated_at and returns the stored product
func (r *ProductRepository) Update(ctx context.Context, id string, u models.ProductUpdate) (*models.Product, error) {
	log.Printf("📦 UpdateProduct: updating product id=%s", id)

	var sets []string
	var args []interface{}

	if u.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *u.Name)
	}
	if u.Image != nil {
		sets = append(sets, "image = ?")
		args = append(args, nullString(*u.Image))
	}
	if u.SalePrice != nil {
		sets = append(sets, "sale_price = ?")
		args = append(args, *u.SalePrice)
	}
	if u.PurchasePrice != nil {
		sets = append(sets, "purchase_price = ?")
		args = append(args, *u.PurchasePrice)
	}
	if u.Type != nil {
		sets = append(sets, "type = ?")
		args = append(args, string(*u.Type))
	}
	if u.Quantity != nil {
		sets = append(sets, "quantity = ?")
		args = append(args, *u.Quantity)
	}
	if u.MinQuantity != nil {
		sets = append(sets, "min_quantity = ?")
		args = append(args, *u.MinQuantity)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, db.FormatTime(db.Now()), id)

	query := r.db.Rebind(`UPDATE products SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Errorf("❌ UpdateProduct: error updating product id=%s: %v", id, err)
		return nil, errors.Wrap(err, "failed to update product")
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, errors.Wrap(err, "failed to update product")
	} else if n == 0 {
		log.Warnf("⚠️  UpdateProduct: product not found id=%s", id)
		return nil, models.ErrProductNotFound
	}

	if err := r.committer.Commit(ctx, models.EntityProducts); err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

// Delete removes a product. Sale history keeps its copied product names.
func (r *ProductRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM products WHERE id = ?`), id)
	if err != nil {
		log.Errorf("❌ DeleteProduct: error deleting product id=%s: %v", id, err)
		return false, errors.Wrap(err, "failed to delete product")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "failed to delete product")
	}
	if n == 0 {
		return false, nil
	}

	if err := r.committer.Commit(ctx, models.EntityProducts); err != nil {
		return false, err
	}
	log.Printf("✅ DeleteProduct: deleted product id=%s", id)
	return true, nil
}

// SampleProducts are inserted into a freshly created database
func SampleProducts() []models.NewProduct {
	price := func(v float64) *float64 { return &v }
	return []models.NewProduct{
		{Name: "Basmati Rice", SalePrice: 120, PurchasePrice: price(100), Type: models.UnitKg, Quantity: 50, MinQuantity: 10},
		{Name: "Maggi Noodles", SalePrice: 15, PurchasePrice: price(12), Type: models.UnitUnits, Quantity: 100, MinQuantity: 20},
		{Name: "Toor Dal", SalePrice: 150, PurchasePrice: price(130), Type: models.UnitKg, Quantity: 25, MinQuantity: 5},
	}
}

// SeedSamples inserts the sample products and commits once
func (r *ProductRepository) SeedSamples(ctx context.Context) error {
	samples := SampleProducts()
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		for _, np := range samples {
			now := db.Now()
			p := models.Product{
				ID:            uuid.NewString(),
				Name:          np.Name,
				SalePrice:     np.SalePrice,
				PurchasePrice: np.PurchasePrice,
				Type:          np.Type,
				Quantity:      np.Quantity,
				MinQuantity:   np.MinQuantity,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if err := insertProduct(ctx, tx, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Errorf("❌ SeedSamples: error seeding products: %v", err)
		return err
	}

	log.Printf("🌱 SeedSamples: inserted %d sample products", len(samples))
	return r.committer.Commit(ctx, models.EntityProducts)
}
