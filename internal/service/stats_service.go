package service

import (
	"time"

	"go-pos-backend/internal/repository"
)

// PaymentBreakdown accumulates revenue and count for one payment method.
type PaymentBreakdown struct {
	Total int64 `json:"total"`
	Count int   `json:"count"`
}

type StatsSummary struct {
	TotalSales     int                          `json:"totalSales"`
	TotalRevenue   int64                        `json:"totalRevenue"`
	TotalQuantity  int                          `json:"totalQuantity"`
	PaymentMethods map[string]*PaymentBreakdown `json:"paymentMethods"`
}

type ProductSales struct {
	ProductID      uint                         `json:"productId"`
	ProductName    string                       `json:"productName"`
	TotalQuantity  int                          `json:"totalQuantity"`
	TotalRevenue   int64                        `json:"totalRevenue"`
	LastSaleTime   time.Time                    `json:"lastSaleTime"`
	PaymentMethods map[string]*PaymentBreakdown `json:"paymentMethods"`
}

type TimeBucket struct {
	Period         string                       `json:"period"`
	TotalQuantity  int                          `json:"totalQuantity"`
	TotalRevenue   int64                        `json:"totalRevenue"`
	Sales          int                          `json:"sales"`
	PaymentMethods map[string]*PaymentBreakdown `json:"paymentMethods"`
}

type SalesStats struct {
	Period           string          `json:"period"`
	StartDate        time.Time       `json:"startDate"`
	EndDate          time.Time       `json:"endDate"`
	Summary          StatsSummary    `json:"summary"`
	ProductSales     []*ProductSales `json:"productSales"`
	TimeGroupedSales []*TimeBucket   `json:"timeGroupedSales"`
}

type StatsService interface {
	GetStats(period string, start, end *time.Time) (*SalesStats, error)
}

type statsService struct {
	saleRepo repository.SaleRepository
}

func NewStatsService(saleRepo repository.SaleRepository) StatsService {
	return &statsService{saleRepo: saleRepo}
}

// GetStats aggregates sales in [start, end] into an overall summary, a
// per-product grouping and a per-time-bucket grouping. Output arrays keep the
// insertion order of the grouping pass (input is ascending by date).
func (s *statsService) GetStats(period string, start, end *time.Time) (*SalesStats, error) {
	period = normalizePeriod(period)

	now := time.Now()
	endDate := now
	if end != nil {
		endDate = *end
	}
	startDate := defaultWindowStart(period, now)
	if start != nil {
		startDate = *start
	}

	sales, err := s.saleRepo.FindInRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	stats := &SalesStats{
		Period:    period,
		StartDate: startDate,
		EndDate:   endDate,
		Summary: StatsSummary{
			PaymentMethods: make(map[string]*PaymentBreakdown),
		},
		ProductSales:     []*ProductSales{},
		TimeGroupedSales: []*TimeBucket{},
	}

	productIndex := make(map[uint]*ProductSales)
	bucketIndex := make(map[string]*TimeBucket)

	for i := range sales {
		sale := &sales[i]
		method := string(sale.PaymentMethod)

		// Summary
		stats.Summary.TotalSales++
		stats.Summary.TotalRevenue += sale.TotalValue
		stats.Summary.TotalQuantity += sale.Quantity
		addPayment(stats.Summary.PaymentMethods, method, sale.TotalValue)

		// Per-product grouping
		group, ok := productIndex[sale.ProductID]
		if !ok {
			group = &ProductSales{
				ProductID:      sale.ProductID,
				LastSaleTime:   sale.Date,
				PaymentMethods: make(map[string]*PaymentBreakdown),
			}
			if sale.Product != nil {
				group.ProductName = sale.Product.Name
			}
			productIndex[sale.ProductID] = group
			stats.ProductSales = append(stats.ProductSales, group)
		}
		group.TotalQuantity += sale.Quantity
		group.TotalRevenue += sale.TotalValue
		addPayment(group.PaymentMethods, method, sale.TotalValue)
		if sale.Date.After(group.LastSaleTime) {
			group.LastSaleTime = sale.Date
		}

		// Per-time-bucket grouping
		key := bucketKey(period, sale.Date)
		bucket, ok := bucketIndex[key]
		if !ok {
			bucket = &TimeBucket{
				Period:         key,
				PaymentMethods: make(map[string]*PaymentBreakdown),
			}
			bucketIndex[key] = bucket
			stats.TimeGroupedSales = append(stats.TimeGroupedSales, bucket)
		}
		bucket.TotalQuantity += sale.Quantity
		bucket.TotalRevenue += sale.TotalValue
		bucket.Sales++
		addPayment(bucket.PaymentMethods, method, sale.TotalValue)
	}

	return stats, nil
}

func addPayment(m map[string]*PaymentBreakdown, method string, total int64) {
	b, ok := m[method]
	if !ok {
		b = &PaymentBreakdown{}
		m[method] = b
	}
	b.Total += total
	b.Count++
}

func normalizePeriod(period string) string {
	switch period {
	case "daily", "weekly", "monthly", "yearly":
		return period
	default:
		return "daily"
	}
}

// defaultWindowStart derives the window start when no explicit startDate is
// given: daily looks at today, the others look back from now.
func defaultWindowStart(period string, now time.Time) time.Time {
	switch period {
	case "weekly":
		return now.AddDate(0, 0, -7)
	case "monthly":
		return now.AddDate(0, -1, 0)
	case "yearly":
		return now.AddDate(-1, 0, 0)
	default: // daily
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	}
}

// bucketKey picks the grouping granularity: hours for a daily view, days for
// weekly/monthly, months for yearly.
func bucketKey(period string, t time.Time) string {
	switch period {
	case "daily":
		return t.Format("2006-01-02 15:00")
	case "yearly":
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}
