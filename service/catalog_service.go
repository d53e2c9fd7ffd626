package service

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"ghuman-groceries/models"
	"ghuman-groceries/pricing"
	"ghuman-groceries/utils"
)

//go:embed templates/pricelist.html
var templateFiles embed.FS

const (
	itemsPerPage = 25
	shopName     = "Ghuman Groceries"
)

// PriceListQuote is one loose-weight price shown next to a kilo product
type PriceListQuote struct {
	DisplayName string
	Price       string
}

// PriceListItem is one row of the printable price list
type PriceListItem struct {
	Name       string
	Image      template.URL
	Price      string
	PerKg      bool
	Stock      string
	LowStock   bool
	OutOfStock bool
	Quotes     []PriceListQuote
}

// ProductLister is the part of the product repository the catalog needs
type ProductLister interface {
	List(ctx context.Context) ([]models.Product, error)
}

// PDFRenderer turns an HTML document into printable output
type PDFRenderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
	RenderPNG(ctx context.Context, html string) ([]byte, error)
}

// CatalogService renders the shop's price list
type CatalogService struct {
	products ProductLister
	renderer PDFRenderer
	tmpl     *template.Template
	now      func() time.Time
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(products ProductLister, renderer PDFRenderer) (*CatalogService, error) {
	tmpl, err := template.New("pricelist.html").
		Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
		ParseFS(templateFiles, "templates/pricelist.html")
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse template")
	}

	return &CatalogService{
		products: products,
		renderer: renderer,
		tmpl:     tmpl,
		now:      time.Now,
	}, nil
}

// toPriceListItem formats a product for display
func toPriceListItem(p models.Product) PriceListItem {
	item := PriceListItem{
		Name:       p.Name,
		Price:      utils.FormatINR(p.SalePrice),
		PerKg:      p.Type == models.UnitKg,
		Stock:      utils.FormatQuantity(p.Quantity, p.Type),
		LowStock:   p.IsLowStock(),
		OutOfStock: p.IsOutOfStock(),
	}
	// Only data URLs produced by the image service are trusted inline
	if len(p.Image) > len(dataURLPrefix) && p.Image[:len(dataURLPrefix)] == dataURLPrefix {
		item.Image = template.URL(p.Image)
	}
	if item.PerKg {
		for _, q := range pricing.Quotes(p.SalePrice) {
			item.Quotes = append(item.Quotes, PriceListQuote{DisplayName: q.DisplayName, Price: utils.FormatINR(q.Price)})
		}
	}
	return item
}

// paginateItems splits items into pages of itemsPerPage rows
func paginateItems(items []PriceListItem) [][]PriceListItem {
	var pages [][]PriceListItem

	for i := 0; i < len(items); i += itemsPerPage {
		end := i + itemsPerPage
		if end > len(items) {
			end = len(items)
		}
		pages = append(pages, items[i:end])
	}

	return pages
}

// RenderPriceListHTML renders every product into the price list template
func (s *CatalogService) RenderPriceListHTML(ctx context.Context) (string, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return "", err
	}

	items := make([]PriceListItem, len(products))
	for i, p := range products {
		items[i] = toPriceListItem(p)
	}
	pages := paginateItems(items)
	if len(pages) == 0 {
		pages = [][]PriceListItem{{}}
	}

	data := struct {
		ShopName    string
		GeneratedAt string
		Pages       [][]PriceListItem
	}{
		ShopName:    shopName,
		GeneratedAt: s.now().Format("02 Jan 2006 15:04"),
		Pages:       pages,
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return "", errors.Wrap(err, "failed to execute template")
	}

	log.Printf("🧾 RenderPriceList: %d products on %d pages", len(products), len(pages))
	return buf.String(), nil
}

// GeneratePDF renders the price list and prints it to PDF
func (s *CatalogService) GeneratePDF(ctx context.Context) ([]byte, error) {
	html, err := s.RenderPriceListHTML(ctx)
	if err != nil {
		return nil, err
	}
	return s.renderer.RenderPDF(ctx, html)
}

// GeneratePNG renders the price list as a single full-page screenshot
func (s *CatalogService) GeneratePNG(ctx context.Context) ([]byte, error) {
	html, err := s.RenderPriceListHTML(ctx)
	if err != nil {
		return nil, err
	}
	return s.renderer.RenderPNG(ctx, html)
}

// ChromeRenderer drives a headless Chrome through chromedp
type ChromeRenderer struct {
	ChromePath string
	Timeout    time.Duration
}

// detectChromePath detects the path to Chrome/Chromium executable
// Checks the configured path first, then common installation paths
func detectChromePath(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
		log.Warnf("⚠️  Chrome not found at %s, searching common paths", configured)
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// run loads html into a blank tab and runs the capture action
func (r ChromeRenderer) run(ctx context.Context, html string, capture chromedp.Action) error {
	timeout := r.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // Required for running in Docker/containers
	)
	if chromePath := detectChromePath(r.ChromePath); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	return chromedp.Run(chromedpCtx,
		chromedp.EmulateViewport(794, 1123), // A4 at 96 DPI
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		capture,
	)
}

// RenderPDF prints html to an A4 PDF
func (r ChromeRenderer) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	var pdfBuf []byte
	err := r.run(ctx, html, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		pdfBuf, _, err = page.PrintToPDF().
			WithPrintBackground(true).
			WithPreferCSSPageSize(true).
			Do(ctx)
		return err
	}))
	if err != nil {
		log.Errorf("❌ RenderPDF: %v", err)
		return nil, errors.Wrap(err, "failed to generate PDF")
	}
	return pdfBuf, nil
}

// RenderPNG captures html as one full-page PNG
func (r ChromeRenderer) RenderPNG(ctx context.Context, html string) ([]byte, error) {
	var buf []byte
	if err := r.run(ctx, html, chromedp.FullScreenshot(&buf, 100)); err != nil {
		log.Errorf("❌ RenderPNG: %v", err)
		return nil, errors.Wrap(err, "failed to generate PNG")
	}
	return buf, nil
}
