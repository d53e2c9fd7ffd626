package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"ghuman-groceries/models"
	"ghuman-groceries/store"
)

// SummaryStore is the read side the summary service aggregates over
type SummaryStore interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListSales(ctx context.Context) ([]models.Sale, error)
	ListSalesBetween(ctx context.Context, from, to time.Time) ([]models.Sale, error)
	ListCreditors(ctx context.Context) ([]models.Creditor, error)
	ListExpenses(ctx context.Context) ([]models.Expense, error)
	ListRestockItems(ctx context.Context) ([]models.RestockItem, error)
	ListPayments(ctx context.Context) ([]models.Payment, error)
}

// SummaryService computes dashboard metrics and sales analytics
type SummaryService struct {
	store SummaryStore
	now   func() time.Time
	loc   *time.Location
}

// NewSummaryService creates a new SummaryService. Day boundaries follow loc.
func NewSummaryService(store SummaryStore, loc *time.Location) *SummaryService {
	if loc == nil {
		loc = time.Local
	}
	return &SummaryService{store: store, now: time.Now, loc: loc}
}

func (s *SummaryService) day(t time.Time) string {
	return t.In(s.loc).Format("2006-01-02")
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func endOfDay(t time.Time, loc *time.Location) time.Time {
	return startOfDay(t, loc).AddDate(0, 0, 1).Add(-time.Millisecond)
}

func sum(values ...float64) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total
}

func money(d decimal.Decimal) float64 {
	v, _ := d.Round(2).Float64()
	return v
}

// Dashboard returns the home screen metrics
func (s *SummaryService) Dashboard(ctx context.Context) (*models.DashboardSummary, error) {
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	sales, err := s.store.ListSales(ctx)
	if err != nil {
		return nil, err
	}
	creditors, err := s.store.ListCreditors(ctx)
	if err != nil {
		return nil, err
	}
	restock, err := s.store.ListRestockItems(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := s.store.ListPayments(ctx)
	if err != nil {
		return nil, err
	}

	today := s.day(s.now())
	summary := &models.DashboardSummary{
		TotalProducts: len(products),
		RestockCount:  len(restock),
	}

	total, todayTotal := decimal.Zero, decimal.Zero
	sold := map[string]decimal.Decimal{}
	for _, sale := range sales {
		total = total.Add(decimal.NewFromFloat(sale.Total))
		if s.day(sale.Date) == today {
			todayTotal = todayTotal.Add(decimal.NewFromFloat(sale.Total))
		}
		for _, item := range sale.Items {
			sold[item.ProductID] = sold[item.ProductID].Add(decimal.NewFromFloat(item.Quantity))
		}
	}
	summary.TotalSales = money(total)
	summary.TodaySales = money(todayTotal)

	debt := decimal.Zero
	for _, c := range creditors {
		debt = debt.Add(decimal.NewFromFloat(c.TotalDebt))
	}
	summary.TotalDebt = money(debt)

	for _, p := range products {
		if p.IsLowStock() {
			summary.LowStockCount++
		}
	}

	paid := decimal.Zero
	for _, p := range payments {
		if s.day(p.Date) == today {
			paid = paid.Add(decimal.NewFromFloat(p.Amount))
		}
	}
	summary.TodayPayments = money(paid)

	// Most sold by quantity, only among products that still exist
	var best decimal.Decimal
	for _, p := range products {
		if q, ok := sold[p.ID]; ok && q.GreaterThan(best) {
			best = q
			summary.MostSoldProduct = p.Name
		}
	}

	return summary, nil
}

// SalesReport returns analytics for sales dated from the start of from's day
// to the end of to's day
func (s *SummaryService) SalesReport(ctx context.Context, from, to time.Time) (*models.SalesReport, error) {
	start, end := startOfDay(from, s.loc), endOfDay(to, s.loc)

	sales, err := s.store.ListSalesBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		return nil, err
	}

	purchase := make(map[string]float64, len(products))
	for _, p := range products {
		if p.PurchasePrice != nil && *p.PurchasePrice != 0 {
			purchase[p.ID] = *p.PurchasePrice
		}
	}

	report := &models.SalesReport{
		From:         s.day(start),
		To:           s.day(end),
		Transactions: len(sales),
	}

	total, cash, credit, profit := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	stats := map[string]*models.ProductSales{}
	var order []string
	byDay := map[string]*models.DailySales{}

	for _, sale := range sales {
		amount := decimal.NewFromFloat(sale.Total)
		total = total.Add(amount)
		switch sale.PaymentType {
		case models.PaymentCash:
			cash = cash.Add(amount)
		case models.PaymentCredit:
			credit = credit.Add(amount)
		}

		d := s.day(sale.Date)
		if byDay[d] == nil {
			byDay[d] = &models.DailySales{Date: d}
		}
		byDay[d].Sales = money(decimal.NewFromFloat(byDay[d].Sales).Add(amount))
		byDay[d].Count++

		for _, item := range sale.Items {
			if cost, ok := purchase[item.ProductID]; ok {
				margin := decimal.NewFromFloat(item.PricePerUnit).Sub(decimal.NewFromFloat(cost))
				profit = profit.Add(margin.Mul(decimal.NewFromFloat(item.Quantity)))
			}

			st, ok := stats[item.ProductID]
			if !ok {
				st = &models.ProductSales{ProductID: item.ProductID, Name: item.ProductName}
				stats[item.ProductID] = st
				order = append(order, item.ProductID)
			}
			st.Quantity, _ = sum(st.Quantity, item.Quantity).Float64()
			st.Revenue = money(sum(st.Revenue, item.Total))
		}
	}

	report.TotalSales = money(total)
	report.CashSales = money(cash)
	report.CreditSales = money(credit)
	report.TotalProfit = money(profit)
	if len(sales) > 0 {
		report.AverageSale = money(total.Div(decimal.NewFromInt(int64(len(sales)))))
	}

	top := make([]models.ProductSales, 0, len(order))
	for _, id := range order {
		top = append(top, *stats[id])
	}
	sort.SliceStable(top, func(i, j int) bool { return top[i].Revenue > top[j].Revenue })
	if len(top) > 5 {
		top = top[:5]
	}
	report.TopProducts = top

	spent := decimal.Zero
	for _, e := range expenses {
		if !e.Date.Before(start) && !e.Date.After(end) {
			spent = spent.Add(decimal.NewFromFloat(e.Amount))
		}
	}
	report.TotalExpenses = money(spent)

	// Last seven days ending today, oldest first, drawn from the range's sales
	now := s.now()
	report.LastSevenDays = make([]models.DailySales, 0, 7)
	for i := 6; i >= 0; i-- {
		d := s.day(now.AddDate(0, 0, -i))
		if ds, ok := byDay[d]; ok {
			report.LastSevenDays = append(report.LastSevenDays, *ds)
		} else {
			report.LastSevenDays = append(report.LastSevenDays, models.DailySales{Date: d})
		}
	}

	return report, nil
}

// storeSource reads summary inputs from the store's repositories
type storeSource struct {
	s *store.Store
}

// StoreSummarySource adapts a store to SummaryStore
func StoreSummarySource(s *store.Store) SummaryStore {
	return storeSource{s: s}
}

func (r storeSource) ListProducts(ctx context.Context) ([]models.Product, error) {
	return r.s.Products.List(ctx)
}

func (r storeSource) ListSales(ctx context.Context) ([]models.Sale, error) {
	return r.s.Sales.List(ctx)
}

func (r storeSource) ListSalesBetween(ctx context.Context, from, to time.Time) ([]models.Sale, error) {
	return r.s.Sales.ListBetween(ctx, from, to)
}

func (r storeSource) ListCreditors(ctx context.Context) ([]models.Creditor, error) {
	return r.s.Creditors.List(ctx)
}

func (r storeSource) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	return r.s.Expenses.List(ctx)
}

func (r storeSource) ListRestockItems(ctx context.Context) ([]models.RestockItem, error) {
	return r.s.Restock.List(ctx)
}

func (r storeSource) ListPayments(ctx context.Context) ([]models.Payment, error) {
	return r.s.Payments.List(ctx)
}
