package controller

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"ghuman-groceries/models"
	"ghuman-groceries/pricing"
	"ghuman-groceries/repository"
)

// SaleController handles the sales commands
type SaleController struct {
	repository repository.SaleRepositoryInterface
	products   repository.ProductRepositoryInterface
}

// NewSaleController creates a new SaleController
func NewSaleController(repo repository.SaleRepositoryInterface, products repository.ProductRepositoryInterface) *SaleController {
	return &SaleController{
		repository: repo,
		products:   products,
	}
}

// List handles `sales list [--from D --to D] [--buyer NAME]`
func (sc *SaleController) List(c *cli.Context) error {
	var (
		sales []models.Sale
		err   error
	)

	switch {
	case c.IsSet("buyer"):
		sales, err = sc.repository.ListCreditPurchases(c.Context, c.String("buyer"))
	case c.IsSet("from") || c.IsSet("to"):
		now := time.Now()
		from, ferr := parseDay(c, "from", now)
		if ferr != nil {
			return ferr
		}
		to, terr := parseDay(c, "to", now)
		if terr != nil {
			return terr
		}
		y, m, d := to.Date()
		end := time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), to.Location())
		sales, err = sc.repository.ListBetween(c.Context, from, end)
	default:
		sales, err = sc.repository.List(c.Context)
	}
	if err != nil {
		return fail("ListSales", err)
	}
	return writeJSON(c, sales)
}

// parseItemQuantity reads the quantity part of an --item value. Kilo
// products also accept grams ("250g"), conversion names ("adhPa") and a
// rupee amount to buy ("@50").
func parseItemQuantity(raw string, product *models.Product) (float64, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if product.Type == models.UnitKg {
		if amount, ok := strings.CutPrefix(v, "@"); ok {
			price, err := strconv.ParseFloat(amount, 64)
			if err != nil {
				return 0, errors.Errorf("invalid amount %q", raw)
			}
			return pricing.QuantityForPrice(product.SalePrice, price), nil
		}
		if conv, ok := pricing.Lookup(v); ok {
			return conv.Grams / 1000, nil
		}
		switch {
		case strings.HasSuffix(v, "kg"):
			v = strings.TrimSuffix(v, "kg")
		case strings.HasSuffix(v, "g"):
			g, err := strconv.ParseFloat(strings.TrimSuffix(v, "g"), 64)
			if err != nil {
				return 0, errors.Errorf("invalid grams %q", raw)
			}
			return g / 1000, nil
		}
	}
	q, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.Errorf("invalid quantity %q", raw)
	}
	return q, nil
}

// Sell handles `sales sell --item ID:QTY [--item ...] [--credit --buyer NAME]`
// Example:
// sales sell --item 3f2a...:2 --item 9b1c...:adhPa --credit --buyer Asha
// Each line is priced at the product's current sale price. --total overrides
// the computed sale total.
func (sc *SaleController) Sell(c *cli.Context) error {
	args := c.StringSlice("item")
	if len(args) == 0 {
		return cli.Exit("at least one --item PRODUCT_ID:QUANTITY is required", 2)
	}

	ns := models.NewSale{
		BuyerName:   strings.TrimSpace(c.String("buyer")),
		PaymentType: models.PaymentCash,
		IsPaid:      true,
	}
	if c.Bool("credit") {
		ns.PaymentType = models.PaymentCredit
		ns.IsPaid = false
		if ns.BuyerName == "" {
			log.Warn("⚠️  Sell: credit sale without a buyer accrues no debt")
		}
	}

	total := decimal.Zero
	for _, arg := range args {
		id, rawQty, ok := strings.Cut(arg, ":")
		if !ok {
			return cli.Exit("invalid --item "+strconv.Quote(arg)+", want PRODUCT_ID:QUANTITY", 2)
		}
		product, err := sc.products.Get(c.Context, id)
		if err != nil {
			return fail("Sell", err)
		}
		qty, err := parseItemQuantity(rawQty, product)
		if err != nil {
			return cli.Exit(err.Error(), 2)
		}

		line := pricing.LineTotal(product.SalePrice, qty)
		total = total.Add(decimal.NewFromFloat(line))
		ns.Items = append(ns.Items, models.SaleItem{
			ProductID:    product.ID,
			ProductName:  product.Name,
			Quantity:     qty,
			PricePerUnit: product.SalePrice,
			Total:        line,
			Type:         product.Type,
		})
	}
	ns.Total, _ = total.Round(2).Float64()
	if c.IsSet("total") {
		ns.Total = c.Float64("total")
	}

	sale, err := sc.repository.Create(c.Context, ns)
	if err != nil {
		return fail("Sell", err)
	}
	return writeJSON(c, sale)
}
