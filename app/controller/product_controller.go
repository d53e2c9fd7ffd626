package controller

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"ghuman-groceries/models"
	"ghuman-groceries/repository"
)

// ProductImageSetter attaches and removes product photos
type ProductImageSetter interface {
	SetProductImage(ctx context.Context, productID, path string) (*models.Product, error)
	ClearProductImage(ctx context.Context, productID string) (*models.Product, error)
}

// ProductController handles the products commands
type ProductController struct {
	repository repository.ProductRepositoryInterface
	images     ProductImageSetter
}

// NewProductController creates a new ProductController
func NewProductController(repo repository.ProductRepositoryInterface, images ProductImageSetter) *ProductController {
	return &ProductController{
		repository: repo,
		images:     images,
	}
}

// List handles `products list`
func (pc *ProductController) List(c *cli.Context) error {
	products, err := pc.repository.List(c.Context)
	if err != nil {
		return fail("ListProducts", err)
	}
	log.WithField("count", len(products)).Debug("📦 ListProducts")
	return writeJSON(c, products)
}

// LowStock handles `products low-stock`
func (pc *ProductController) LowStock(c *cli.Context) error {
	products, err := pc.repository.LowStock(c.Context)
	if err != nil {
		return fail("LowStock", err)
	}
	return writeJSON(c, products)
}

// Add handles `products add`
// Example:
// products add --name "Basmati Rice" --price 120 --purchase-price 100 --type kg --quantity 50 --min 10
func (pc *ProductController) Add(c *cli.Context) error {
	name, err := requireString(c, "name")
	if err != nil {
		return err
	}
	unit, err := parseUnit(c.String("type"))
	if err != nil {
		return err
	}

	product, err := pc.repository.Create(c.Context, models.NewProduct{
		Name:          name,
		SalePrice:     c.Float64("price"),
		PurchasePrice: floatFlag(c, "purchase-price"),
		Type:          unit,
		Quantity:      c.Float64("quantity"),
		MinQuantity:   c.Float64("min"),
	})
	if err != nil {
		return fail("AddProduct", err)
	}
	return writeJSON(c, product)
}

// Update handles `products update --id ...`. Only flags given are changed.
func (pc *ProductController) Update(c *cli.Context) error {
	id, err := requireString(c, "id")
	if err != nil {
		return err
	}

	patch := models.ProductUpdate{
		Name:          stringFlag(c, "name"),
		SalePrice:     floatFlag(c, "price"),
		PurchasePrice: floatFlag(c, "purchase-price"),
		Quantity:      floatFlag(c, "quantity"),
		MinQuantity:   floatFlag(c, "min"),
	}
	if c.IsSet("type") {
		unit, err := parseUnit(c.String("type"))
		if err != nil {
			return err
		}
		patch.Type = &unit
	}

	product, err := pc.repository.Update(c.Context, id, patch)
	if err != nil {
		return fail("UpdateProduct", err)
	}
	return writeJSON(c, product)
}

// Delete handles `products delete --id ...`
func (pc *ProductController) Delete(c *cli.Context) error {
	id, err := requireString(c, "id")
	if err != nil {
		return err
	}
	deleted, err := pc.repository.Delete(c.Context, id)
	if err != nil {
		return fail("DeleteProduct", err)
	}
	return writeJSON(c, map[string]interface{}{"id": id, "deleted": deleted})
}

// SetImage handles `products set-image --id ... (--file path | --clear)`
func (pc *ProductController) SetImage(c *cli.Context) error {
	id, err := requireString(c, "id")
	if err != nil {
		return err
	}

	var product *models.Product
	if c.Bool("clear") {
		product, err = pc.images.ClearProductImage(c.Context, id)
	} else {
		path, ferr := requireString(c, "file")
		if ferr != nil {
			return ferr
		}
		product, err = pc.images.SetProductImage(c.Context, id, path)
	}
	if err != nil {
		return fail("SetImage", err)
	}
	return writeJSON(c, product)
}
