package router

import (
	"github.com/urfave/cli/v2"

	"ghuman-groceries/app/controller"
)

// Controllers groups the command handlers
type Controllers struct {
	Product  *controller.ProductController
	Sale     *controller.SaleController
	Creditor *controller.CreditorController
	Expense  *controller.ExpenseController
	Restock  *controller.RestockController
	Payment  *controller.PaymentController
	Backup   *controller.BackupController
	Report   *controller.ReportController
	Prefs    *controller.PrefsController
}

func idFlag() cli.Flag {
	return &cli.StringFlag{Name: "id", Usage: "entity id", Required: true}
}

func productFlags(required bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "name", Usage: "product name", Required: required},
		&cli.Float64Flag{Name: "price", Usage: "sale price per unit or per kg", Required: required},
		&cli.Float64Flag{Name: "purchase-price", Usage: "purchase price, used for profit"},
		&cli.StringFlag{Name: "type", Usage: "units or kg", Value: "units"},
		&cli.Float64Flag{Name: "quantity", Usage: "stock on hand"},
		&cli.Float64Flag{Name: "min", Usage: "low stock threshold"},
	}
}

func expenseFlags(required bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "category", Usage: "e.g. Rent, Utilities, Inventory Purchase", Required: required},
		&cli.Float64Flag{Name: "amount", Required: required},
		&cli.StringFlag{Name: "description"},
		&cli.BoolFlag{Name: "paid", Usage: "fully paid"},
		&cli.Float64Flag{Name: "paid-amount", Usage: "amount paid so far"},
		&cli.StringFlag{Name: "date", Usage: "YYYY-MM-DD, today when omitted"},
		&cli.StringFlag{Name: "due", Usage: "due date YYYY-MM-DD"},
	}
}

// NewCLI builds the command tree
func NewCLI(controllers *Controllers) *cli.App {
	return &cli.App{
		Name:  "ghuman-groceries",
		Usage: "point-of-sale ledger for a neighbourhood grocery shop",
		// main decides the exit code after the store is closed
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			{
				Name:  "products",
				Usage: "manage the product catalogue",
				Subcommands: []*cli.Command{
					{Name: "list", Usage: "list products by name", Action: controllers.Product.List},
					{Name: "low-stock", Usage: "products at or below their minimum", Action: controllers.Product.LowStock},
					{Name: "add", Usage: "add a product", Flags: productFlags(true), Action: controllers.Product.Add},
					{Name: "update", Usage: "change fields of a product", Flags: append([]cli.Flag{idFlag()}, productFlags(false)...), Action: controllers.Product.Update},
					{Name: "delete", Usage: "delete a product", Flags: []cli.Flag{idFlag()}, Action: controllers.Product.Delete},
					{
						Name:  "set-image",
						Usage: "attach a photo to a product",
						Flags: []cli.Flag{
							idFlag(),
							&cli.StringFlag{Name: "file", Usage: "PNG or JPEG photo"},
							&cli.BoolFlag{Name: "clear", Usage: "remove the photo"},
						},
						Action: controllers.Product.SetImage,
					},
				},
			},
			{
				Name:  "sales",
				Usage: "record and review sales",
				Subcommands: []*cli.Command{
					{
						Name:  "list",
						Usage: "list sales, newest first",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "from", Usage: "YYYY-MM-DD"},
							&cli.StringFlag{Name: "to", Usage: "YYYY-MM-DD"},
							&cli.StringFlag{Name: "buyer", Usage: "only credit purchases of this buyer"},
						},
						Action: controllers.Sale.List,
					},
					{
						Name:  "sell",
						Usage: "record a sale and decrement stock",
						Flags: []cli.Flag{
							&cli.StringSliceFlag{Name: "item", Usage: "PRODUCT_ID:QUANTITY, for kg products also 250g, @50 (rupees) or a measure like adhPa", Required: true},
							&cli.BoolFlag{Name: "credit", Usage: "put the sale on the buyer's credit"},
							&cli.StringFlag{Name: "buyer", Usage: "buyer name"},
							&cli.Float64Flag{Name: "total", Usage: "override the computed total"},
						},
						Action: controllers.Sale.Sell,
					},
				},
			},
			{
				Name:  "creditors",
				Usage: "outstanding customer debt",
				Subcommands: []*cli.Command{
					{Name: "list", Usage: "creditors with debt, largest first", Action: controllers.Creditor.List},
					{
						Name:   "clear",
						Usage:  "record a repayment",
						Flags:  []cli.Flag{idFlag(), &cli.Float64Flag{Name: "amount", Required: true}},
						Action: controllers.Creditor.Clear,
					},
				},
			},
			{
				Name:  "expenses",
				Usage: "shop expenses",
				Subcommands: []*cli.Command{
					{Name: "list", Usage: "list expenses, newest first", Action: controllers.Expense.List},
					{Name: "categories", Usage: "suggested expense categories", Action: controllers.Expense.Categories},
					{Name: "add", Usage: "record an expense", Flags: expenseFlags(true), Action: controllers.Expense.Add},
					{
						Name:   "update",
						Usage:  "change fields of an expense",
						Flags:  append(append([]cli.Flag{idFlag()}, expenseFlags(false)...), &cli.BoolFlag{Name: "clear-due", Usage: "remove the due date"}),
						Action: controllers.Expense.Update,
					},
					{Name: "delete", Usage: "delete an expense", Flags: []cli.Flag{idFlag()}, Action: controllers.Expense.Delete},
				},
			},
			{
				Name:  "restock",
				Usage: "restock worklist",
				Subcommands: []*cli.Command{
					{Name: "list", Usage: "most urgent first", Action: controllers.Restock.List},
					{
						Name:  "add",
						Usage: "add a product or a custom item",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "product", Usage: "product id"},
							&cli.StringFlag{Name: "name", Usage: "custom item name"},
							&cli.Float64Flag{Name: "quantity", Required: true},
							&cli.StringFlag{Name: "priority", Usage: "low, medium or high", Value: "medium"},
						},
						Action: controllers.Restock.Add,
					},
					{Name: "remove", Usage: "remove one entry", Flags: []cli.Flag{idFlag()}, Action: controllers.Restock.Remove},
					{Name: "clear", Usage: "empty the list", Action: controllers.Restock.Clear},
					{Name: "generate", Usage: "add every low-stock product", Action: controllers.Restock.Generate},
				},
			},
			{
				Name:  "payments",
				Usage: "UPI payment requests",
				Subcommands: []*cli.Command{
					{Name: "list", Usage: "newest first", Action: controllers.Payment.List},
					{
						Name:  "request",
						Usage: "build a UPI link and record a pending payment",
						Flags: []cli.Flag{
							&cli.Float64Flag{Name: "amount", Required: true},
							&cli.StringFlag{Name: "description"},
							&cli.StringFlag{Name: "upi-id", Usage: "defaults to the paymentUpiId preference"},
							&cli.StringFlag{Name: "name", Usage: "defaults to the paymentRecipientName preference"},
						},
						Action: controllers.Payment.Request,
					},
					{
						Name:   "status",
						Usage:  "mark a payment pending, completed or failed",
						Flags:  []cli.Flag{idFlag(), &cli.StringFlag{Name: "status", Required: true}},
						Action: controllers.Payment.Status,
					},
				},
			},
			{
				Name:  "backup",
				Usage: "export, import and sync the whole dataset",
				Subcommands: []*cli.Command{
					{
						Name:  "export",
						Usage: "write a JSON backup",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "dir", Usage: "target directory, POS_BACKUP_DIR by default"},
							&cli.BoolFlag{Name: "stdout", Usage: "print the backup instead"},
						},
						Action: controllers.Backup.Export,
					},
					{
						Name:   "import",
						Usage:  "replace all data with a backup file",
						Flags:  []cli.Flag{&cli.StringFlag{Name: "file", Required: true}},
						Action: controllers.Backup.Import,
					},
					{
						Name:  "push",
						Usage: "upload a backup to Google Drive",
						Flags: []cli.Flag{
							&cli.BoolFlag{Name: "local", Usage: "also write it to the backup directory"},
							&cli.StringFlag{Name: "dir"},
						},
						Action: controllers.Backup.Push,
					},
					{Name: "pull", Usage: "restore the newest backup from Google Drive", Action: controllers.Backup.Pull},
				},
			},
			{Name: "dashboard", Usage: "today at a glance", Action: controllers.Report.Dashboard},
			{
				Name:  "analytics",
				Usage: "sales report for a date range",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "from", Usage: "YYYY-MM-DD, six days ago by default"},
					&cli.StringFlag{Name: "to", Usage: "YYYY-MM-DD, today by default"},
				},
				Action: controllers.Report.Analytics,
			},
			{
				Name:  "pricelist",
				Usage: "render the printable price list",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Required: true},
					&cli.StringFlag{Name: "format", Value: "pdf", Usage: "pdf, png or html"},
				},
				Action: controllers.Report.PriceList,
			},
			{
				Name:  "prefs",
				Usage: "shop preferences",
				Subcommands: []*cli.Command{
					{Name: "get", Usage: "show preferences", Action: controllers.Prefs.Get},
					{
						Name:  "set",
						Usage: "set darkMode, paymentRecipientName or paymentUpiId",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "key", Required: true},
							&cli.StringFlag{Name: "value"},
						},
						Action: controllers.Prefs.Set,
					},
				},
			},
		},
	}
}
