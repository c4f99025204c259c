package service

import (
	"testing"
	"time"

	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newStats(db *gorm.DB) StatsService {
	return NewStatsService(repository.NewSaleRepo(db))
}

func insertSale(t *testing.T, db *gorm.DB, productID uint, quantity int, total int64, method model.PaymentMethod, date time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&model.Sale{
		ProductID:     productID,
		Quantity:      quantity,
		TotalValue:    total,
		PaymentMethod: method,
		Date:          date,
	}).Error)
}

func TestGetStatsEmptyWindow(t *testing.T) {
	db := setupTestDB(t)
	stats := newStats(db)

	start, end := at(t, "2024-01-01T00:00:00Z"), at(t, "2024-01-31T23:59:59Z")
	got, err := stats.GetStats("monthly", &start, &end)
	require.NoError(t, err)

	assert.Equal(t, 0, got.Summary.TotalSales)
	assert.Equal(t, int64(0), got.Summary.TotalRevenue)
	assert.Equal(t, 0, got.Summary.TotalQuantity)
	require.NotNil(t, got.ProductSales)
	assert.Empty(t, got.ProductSales)
	require.NotNil(t, got.TimeGroupedSales)
	assert.Empty(t, got.TimeGroupedSales)
}

func TestGetStatsSummaryAndGroups(t *testing.T) {
	db := setupTestDB(t)
	catalog := newCatalog(db)
	stats := newStats(db)

	coffee := seedProduct(t, catalog, "Coffee", 1000, 50)
	cake := seedProduct(t, catalog, "Cake", 2000, 50)

	insertSale(t, db, coffee.ID, 2, 2000, model.PaymentCash, at(t, "2024-03-10T09:15:00Z"))
	insertSale(t, db, coffee.ID, 1, 1100, model.PaymentCard, at(t, "2024-03-10T11:30:00Z"))
	insertSale(t, db, cake.ID, 3, 6000, model.PaymentPix, at(t, "2024-03-10T09:45:00Z"))

	start, end := at(t, "2024-03-10T00:00:00Z"), at(t, "2024-03-10T23:59:59Z")
	got, err := stats.GetStats("daily", &start, &end)
	require.NoError(t, err)

	// Summary
	assert.Equal(t, 3, got.Summary.TotalSales)
	assert.Equal(t, int64(9100), got.Summary.TotalRevenue)
	assert.Equal(t, 6, got.Summary.TotalQuantity)
	require.Contains(t, got.Summary.PaymentMethods, "CASH")
	assert.Equal(t, int64(2000), got.Summary.PaymentMethods["CASH"].Total)
	assert.Equal(t, 1, got.Summary.PaymentMethods["CASH"].Count)
	require.Contains(t, got.Summary.PaymentMethods, "PIX")
	assert.Equal(t, int64(6000), got.Summary.PaymentMethods["PIX"].Total)

	// Per-product groups keep first-seen order (input ascending by date)
	require.Len(t, got.ProductSales, 2)
	first := got.ProductSales[0]
	assert.Equal(t, coffee.ID, first.ProductID)
	assert.Equal(t, "Coffee", first.ProductName)
	assert.Equal(t, 3, first.TotalQuantity)
	assert.Equal(t, int64(3100), first.TotalRevenue)
	assert.Equal(t, at(t, "2024-03-10T11:30:00Z").Unix(), first.LastSaleTime.Unix())
	require.Contains(t, first.PaymentMethods, "CARD")
	assert.Equal(t, int64(1100), first.PaymentMethods["CARD"].Total)

	second := got.ProductSales[1]
	assert.Equal(t, "Cake", second.ProductName)
	assert.Equal(t, int64(6000), second.TotalRevenue)

	// Daily period buckets by hour
	require.Len(t, got.TimeGroupedSales, 2)
	assert.Equal(t, "2024-03-10 09:00", got.TimeGroupedSales[0].Period)
	assert.Equal(t, 2, got.TimeGroupedSales[0].Sales)
	assert.Equal(t, int64(8000), got.TimeGroupedSales[0].TotalRevenue)
	assert.Equal(t, "2024-03-10 11:00", got.TimeGroupedSales[1].Period)
	assert.Equal(t, 1, got.TimeGroupedSales[1].Sales)
}

func TestGetStatsBucketGranularityPerPeriod(t *testing.T) {
	db := setupTestDB(t)
	catalog := newCatalog(db)
	stats := newStats(db)

	p := seedProduct(t, catalog, "Pie", 1500, 50)
	insertSale(t, db, p.ID, 1, 1500, model.PaymentCash, at(t, "2024-01-05T08:00:00Z"))
	insertSale(t, db, p.ID, 1, 1500, model.PaymentCash, at(t, "2024-01-05T20:00:00Z"))
	insertSale(t, db, p.ID, 1, 1500, model.PaymentCash, at(t, "2024-02-14T12:00:00Z"))

	start, end := at(t, "2024-01-01T00:00:00Z"), at(t, "2024-12-31T23:59:59Z")

	// Weekly/monthly group by day
	monthly, err := stats.GetStats("monthly", &start, &end)
	require.NoError(t, err)
	require.Len(t, monthly.TimeGroupedSales, 2)
	assert.Equal(t, "2024-01-05", monthly.TimeGroupedSales[0].Period)
	assert.Equal(t, 2, monthly.TimeGroupedSales[0].Sales)
	assert.Equal(t, "2024-02-14", monthly.TimeGroupedSales[1].Period)

	// Yearly groups by month
	yearly, err := stats.GetStats("yearly", &start, &end)
	require.NoError(t, err)
	require.Len(t, yearly.TimeGroupedSales, 2)
	assert.Equal(t, "2024-01", yearly.TimeGroupedSales[0].Period)
	assert.Equal(t, "2024-02", yearly.TimeGroupedSales[1].Period)
}

func TestGetStatsUnknownPeriodFallsBackToDaily(t *testing.T) {
	db := setupTestDB(t)
	stats := newStats(db)

	start, end := at(t, "2024-01-01T00:00:00Z"), at(t, "2024-01-02T00:00:00Z")
	got, err := stats.GetStats("fortnightly", &start, &end)
	require.NoError(t, err)
	assert.Equal(t, "daily", got.Period)
}

func TestGetStatsWindowDefaults(t *testing.T) {
	db := setupTestDB(t)
	stats := newStats(db)

	got, err := stats.GetStats("daily", nil, nil)
	require.NoError(t, err)

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	assert.Equal(t, midnight, got.StartDate)
	assert.WithinDuration(t, now, got.EndDate, 5*time.Second)

	weekly, err := stats.GetStats("weekly", nil, nil)
	require.NoError(t, err)
	assert.WithinDuration(t, now.AddDate(0, 0, -7), weekly.StartDate, 5*time.Second)
}
