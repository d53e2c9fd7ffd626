package models

// DashboardSummary holds the home screen metrics
type DashboardSummary struct {
	TotalProducts   int     `json:"totalProducts"`
	TodaySales      float64 `json:"todaySales"`
	TotalSales      float64 `json:"totalSales"`
	TotalDebt       float64 `json:"totalDebt"`
	LowStockCount   int     `json:"lowStockCount"`
	RestockCount    int     `json:"restockCount"`
	TodayPayments   float64 `json:"todayPayments"`
	MostSoldProduct string  `json:"mostSoldProduct,omitempty"`
}

// ProductSales aggregates one product across sale lines
type ProductSales struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	Revenue   float64 `json:"revenue"`
}

// DailySales is one point of the daily sales series
type DailySales struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Sales float64 `json:"sales"`
	Count int     `json:"count"`
}

// SalesReport holds analytics for a date range
type SalesReport struct {
	From          string         `json:"from"`
	To            string         `json:"to"`
	TotalSales    float64        `json:"totalSales"`
	CashSales     float64        `json:"cashSales"`
	CreditSales   float64        `json:"creditSales"`
	AverageSale   float64        `json:"averageSale"`
	TotalProfit   float64        `json:"totalProfit"`
	Transactions  int            `json:"transactions"`
	TotalExpenses float64        `json:"totalExpenses"`
	TopProducts   []ProductSales `json:"topProducts"`
	LastSevenDays []DailySales   `json:"lastSevenDays"`
}
