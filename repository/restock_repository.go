package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"ghuman-groceries/db"
	"ghuman-groceries/models"
)

// RestockRepository manages the restock worklist
type RestockRepository struct {
	db        *db.Database
	committer Committer
}

// NewRestockRepository creates a new RestockRepository
func NewRestockRepository(database *db.Database, committer Committer) *RestockRepository {
	return &RestockRepository{db: database, committer: committer}
}

// Ensure RestockRepository implements RestockRepositoryInterface
var _ RestockRepositoryInterface = (*RestockRepository)(nil)

// List returns the worklist, most urgent first and newest first within a priority
func (r *RestockRepository) List(ctx context.Context) ([]models.RestockItem, error) {
	var rows []restockRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+restockColumns+` FROM restock_items
		ORDER BY CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END, created_at DESC
	`)
	if err != nil {
		log.Errorf("❌ Restock: error querying restock items: %v", err)
		return nil, errors.Wrap(err, "failed to query restock items")
	}

	items := make([]models.RestockItem, 0, len(rows))
	for _, row := range rows {
		item, err := row.toModel()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Create adds an entry to the worklist
func (r *RestockRepository) Create(ctx context.Context, ni models.NewRestockItem) (*models.RestockItem, error) {
	item := models.RestockItem{
		ID:          uuid.NewString(),
		ProductID:   ni.ProductID,
		ProductName: ni.ProductName,
		Quantity:    ni.Quantity,
		IsCustom:    ni.IsCustom,
		Priority:    ni.Priority,
		CreatedAt:   db.Now(),
	}
	if item.Priority == "" {
		item.Priority = models.PriorityMedium
	}

	if err := insertRestockItem(ctx, r.db, item); err != nil {
		log.Errorf("❌ CreateRestockItem: %v", err)
		return nil, err
	}
	if err := r.committer.Commit(ctx, models.EntityRestockItems); err != nil {
		return nil, err
	}
	return &item, nil
}

func insertRestockItem(ctx context.Context, ex execer, item models.RestockItem) error {
	_, err := ex.ExecContext(ctx, ex.Rebind(`
		INSERT INTO restock_items (`+restockColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`), item.ID, nullString(item.ProductID), item.ProductName, item.Quantity,
		boolInt(item.IsCustom), string(item.Priority), db.FormatTime(item.CreatedAt))
	if err != nil {
		return errors.Wrapf(err, "failed to insert restock item %s", item.ID)
	}
	return nil
}

// Remove deletes one entry
func (r *RestockRepository) Remove(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM restock_items WHERE id = ?`), id)
	if err != nil {
		return false, errors.Wrap(err, "failed to delete restock item")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "failed to delete restock item")
	}
	if n == 0 {
		return false, nil
	}
	return true, r.committer.Commit(ctx, models.EntityRestockItems)
}

// Clear empties the worklist
func (r *RestockRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM restock_items`); err != nil {
		log.Errorf("❌ ClearRestock: %v", err)
		return errors.Wrap(err, "failed to clear restock items")
	}
	log.Printf("🧹 ClearRestock: restock list cleared")
	return r.committer.Commit(ctx, models.EntityRestockItems)
}

// GenerateFromLowStock adds an entry for every low-stock product that is not
// already on the list, asking for twice its minimum quantity. Out-of-stock
// products get high priority. Returns the full list afterwards.
func (r *RestockRepository) GenerateFromLowStock(ctx context.Context) ([]models.RestockItem, error) {
	var added int
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		var rows []productRow
		err := tx.SelectContext(ctx, &rows, `
			SELECT `+productColumns+` FROM products
			WHERE quantity <= min_quantity
			  AND id NOT IN (SELECT product_id FROM restock_items WHERE product_id IS NOT NULL)
			ORDER BY name
		`)
		if err != nil {
			return errors.Wrap(err, "failed to query low stock products")
		}

		for _, row := range rows {
			priority := models.PriorityMedium
			if row.Quantity <= 0 {
				priority = models.PriorityHigh
			}
			item := models.RestockItem{
				ID:          uuid.NewString(),
				ProductID:   row.ID,
				ProductName: row.Name,
				Quantity:    row.MinQuantity * 2,
				Priority:    priority,
				CreatedAt:   db.Now(),
			}
			if err := insertRestockItem(ctx, tx, item); err != nil {
				return err
			}
			added++
		}
		return nil
	})
	if err != nil {
		log.Errorf("❌ GenerateRestock: %v", err)
		return nil, err
	}

	if added > 0 {
		if err := r.committer.Commit(ctx, models.EntityRestockItems); err != nil {
			return nil, err
		}
	}
	log.Printf("✅ GenerateRestock: added %d entries from low stock", added)
	return r.List(ctx)
}
