package controller

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"ghuman-groceries/models"
)

// Summarizer computes dashboard metrics and analytics
type Summarizer interface {
	Dashboard(ctx context.Context) (*models.DashboardSummary, error)
	SalesReport(ctx context.Context, from, to time.Time) (*models.SalesReport, error)
}

// PriceListRenderer produces the printable price list
type PriceListRenderer interface {
	RenderPriceListHTML(ctx context.Context) (string, error)
	GeneratePDF(ctx context.Context) ([]byte, error)
	GeneratePNG(ctx context.Context) ([]byte, error)
}

// ReportController handles dashboard, analytics and pricelist
type ReportController struct {
	summary Summarizer
	catalog PriceListRenderer
}

// NewReportController creates a new ReportController
func NewReportController(summary Summarizer, catalog PriceListRenderer) *ReportController {
	return &ReportController{
		summary: summary,
		catalog: catalog,
	}
}

// Dashboard handles `dashboard`
func (rc *ReportController) Dashboard(c *cli.Context) error {
	summary, err := rc.summary.Dashboard(c.Context)
	if err != nil {
		return fail("Dashboard", err)
	}
	return writeJSON(c, summary)
}

// Analytics handles `analytics [--from D] [--to D]`, the last seven days by default
func (rc *ReportController) Analytics(c *cli.Context) error {
	now := time.Now()
	from, err := parseDay(c, "from", now.AddDate(0, 0, -6))
	if err != nil {
		return err
	}
	to, err := parseDay(c, "to", now)
	if err != nil {
		return err
	}
	if to.Before(from) {
		return cli.Exit("--to is before --from", 2)
	}

	report, err := rc.summary.SalesReport(c.Context, from, to)
	if err != nil {
		return fail("Analytics", err)
	}
	return writeJSON(c, report)
}

// PriceList handles `pricelist --out FILE [--format pdf|png|html]`
func (rc *ReportController) PriceList(c *cli.Context) error {
	out, err := requireString(c, "out")
	if err != nil {
		return err
	}

	var data []byte
	switch format := c.String("format"); format {
	case "", "pdf":
		data, err = rc.catalog.GeneratePDF(c.Context)
	case "png":
		data, err = rc.catalog.GeneratePNG(c.Context)
	case "html":
		var html string
		html, err = rc.catalog.RenderPriceListHTML(c.Context)
		data = []byte(html)
	default:
		return cli.Exit("--format must be pdf, png or html", 2)
	}
	if err != nil {
		return fail("PriceList", err)
	}

	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fail("PriceList", errors.Wrap(err, "failed to write price list"))
	}
	log.WithField("bytes", len(data)).Infof("✅ PriceList: written to %s", out)
	return writeJSON(c, map[string]interface{}{"file": out, "bytes": len(data)})
}
