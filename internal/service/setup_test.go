package service

import (
	"testing"
	"time"

	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

// setupTestDB opens a unique in-memory database per test to avoid cross-test
// collisions.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Product{}, &model.Sale{}))
	return db
}

func newCatalog(db *gorm.DB) CatalogService {
	return NewCatalogService(repository.NewProductRepo(db), repository.NewSaleRepo(db), nil)
}

func newSales(db *gorm.DB) SalesService {
	return NewSalesService(repository.NewProductRepo(db), repository.NewSaleRepo(db), db, nil)
}

func seedProduct(t *testing.T, catalog CatalogService, name string, price int64, quantity int) *model.Product {
	t.Helper()
	p, err := catalog.CreateProduct(&CreateProductRequest{
		Name:     name,
		Price:    &price,
		Quantity: &quantity,
	})
	require.NoError(t, err)
	return p
}

func i64ptr(v int64) *int64   { return &v }
func intptr(v int) *int       { return &v }
func strptr(v string) *string { return &v }

func at(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return ts
}
