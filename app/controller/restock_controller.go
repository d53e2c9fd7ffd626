package controller

import (
	"strings"

	"github.com/urfave/cli/v2"

	"ghuman-groceries/models"
	"ghuman-groceries/repository"
)

// RestockController handles the restock commands
type RestockController struct {
	repository repository.RestockRepositoryInterface
	products   repository.ProductRepositoryInterface
}

// NewRestockController creates a new RestockController
func NewRestockController(repo repository.RestockRepositoryInterface, products repository.ProductRepositoryInterface) *RestockController {
	return &RestockController{
		repository: repo,
		products:   products,
	}
}

// List handles `restock list`
func (rc *RestockController) List(c *cli.Context) error {
	items, err := rc.repository.List(c.Context)
	if err != nil {
		return fail("ListRestock", err)
	}
	return writeJSON(c, items)
}

// Add handles `restock add (--product ID | --name TEXT) --quantity N [--priority high]`.
// An entry with --product copies the product's name; --name adds a custom item.
func (rc *RestockController) Add(c *cli.Context) error {
	item := models.NewRestockItem{
		Quantity: c.Float64("quantity"),
		Priority: models.Priority(strings.ToLower(c.String("priority"))),
	}
	switch item.Priority {
	case "", models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
	default:
		return cli.Exit("--priority must be low, medium or high", 2)
	}

	if id := c.String("product"); id != "" {
		product, err := rc.products.Get(c.Context, id)
		if err != nil {
			return fail("AddRestock", err)
		}
		item.ProductID = product.ID
		item.ProductName = product.Name
	} else {
		name, err := requireString(c, "name")
		if err != nil {
			return err
		}
		item.ProductName = name
		item.IsCustom = true
	}

	created, err := rc.repository.Create(c.Context, item)
	if err != nil {
		return fail("AddRestock", err)
	}
	return writeJSON(c, created)
}

// Remove handles `restock remove --id ...`
func (rc *RestockController) Remove(c *cli.Context) error {
	id, err := requireString(c, "id")
	if err != nil {
		return err
	}
	removed, err := rc.repository.Remove(c.Context, id)
	if err != nil {
		return fail("RemoveRestock", err)
	}
	return writeJSON(c, map[string]interface{}{"id": id, "removed": removed})
}

// Clear handles `restock clear`
func (rc *RestockController) Clear(c *cli.Context) error {
	if err := rc.repository.Clear(c.Context); err != nil {
		return fail("ClearRestock", err)
	}
	return writeJSON(c, []models.RestockItem{})
}

// Generate handles `restock generate`
func (rc *RestockController) Generate(c *cli.Context) error {
	items, err := rc.repository.GenerateFromLowStock(c.Context)
	if err != nil {
		return fail("GenerateRestock", err)
	}
	return writeJSON(c, items)
}
