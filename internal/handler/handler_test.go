package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-pos-backend/internal/handler"
	"go-pos-backend/internal/middleware"
	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"
	"go-pos-backend/internal/service"
	"go-pos-backend/pkg/token"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

const testCookie = "auth_token"

// buildTestApp wires the full route surface over an in-memory database, the
// way main does against postgres.
func buildTestApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Product{}, &model.Sale{}))

	log := zerolog.Nop()
	tokens := token.NewManager("handler-test-secret", time.Hour)

	productRepo := repository.NewProductRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	userRepo := repository.NewUserRepo(db)

	catalogService := service.NewCatalogService(productRepo, saleRepo, nil)
	salesService := service.NewSalesService(productRepo, saleRepo, db, nil)
	statsService := service.NewStatsService(saleRepo)
	authService := service.NewAuthService(userRepo, tokens)

	productHandler := handler.NewProductHandler(catalogService, log)
	saleHandler := handler.NewSaleHandler(salesService, log)
	statsHandler := handler.NewStatsHandler(statsService, log)
	authHandler := handler.NewAuthHandler(authService, tokens, testCookie, log)

	app := fiber.New()
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", authHandler.Logout)
	auth.Get("/check", authHandler.Check)

	protected := api.Group("", middleware.RequireAuth(tokens, testCookie))
	protected.Get("/products", productHandler.GetProducts)
	protected.Post("/products", productHandler.CreateProduct)
	protected.Get("/products/:id", productHandler.GetProduct)
	protected.Put("/products/:id", productHandler.UpdateProduct)
	protected.Patch("/products/:id", productHandler.RestockForSale)
	protected.Delete("/products/:id", productHandler.DeleteProduct)
	protected.Get("/sales", saleHandler.GetSales)
	protected.Post("/sales", saleHandler.RecordSale)
	protected.Get("/stats", statsHandler.GetStats)

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body, cookie string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: cookie})
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// register creates a user and returns its session cookie value.
func register(t *testing.T, app *fiber.App, username string) string {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/auth/register",
		`{"username":"`+username+`","password":"pw"}`, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	for _, c := range resp.Cookies() {
		if c.Name == testCookie {
			return c.Value
		}
	}
	t.Fatal("session cookie not set")
	return ""
}

func TestAuthFlow(t *testing.T) {
	app := buildTestApp(t)

	cookie := register(t, app, "operator")

	// Check with the cookie
	resp := doJSON(t, app, http.MethodGet, "/api/auth/check", "", cookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var who struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
	}
	decode(t, resp, &who)
	assert.Equal(t, "operator", who.Username)
	assert.NotZero(t, who.ID)

	// Check without
	resp = doJSON(t, app, http.MethodGet, "/api/auth/check", "", "")
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Duplicate registration conflicts
	resp = doJSON(t, app, http.MethodPost, "/api/auth/register",
		`{"username":"operator","password":"other"}`, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Login with wrong password
	resp = doJSON(t, app, http.MethodPost, "/api/auth/login",
		`{"username":"operator","password":"nope"}`, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Logout clears the cookie and always succeeds
	resp = doJSON(t, app, http.MethodPost, "/api/auth/logout", "", cookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var cleared bool
	for _, c := range resp.Cookies() {
		if c.Name == testCookie && c.Value == "" {
			cleared = true
		}
	}
	resp.Body.Close()
	assert.True(t, cleared)
}

func TestProductEndpoints(t *testing.T) {
	app := buildTestApp(t)
	cookie := register(t, app, "operator")

	// Unauthenticated requests are rejected
	resp := doJSON(t, app, http.MethodGet, "/api/products", "", "")
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Create
	resp = doJSON(t, app, http.MethodPost, "/api/products",
		`{"name":"Widget","price":1000,"quantity":5}`, cookie)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var created model.Product
	decode(t, resp, &created)
	assert.Equal(t, 5, created.SaleQuantity)

	// Missing fields
	resp = doJSON(t, app, http.MethodPost, "/api/products", `{"name":"Broken"}`, cookie)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Duplicate name
	resp = doJSON(t, app, http.MethodPost, "/api/products",
		`{"name":"Widget","price":900,"quantity":1}`, cookie)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Non-numeric id
	resp = doJSON(t, app, http.MethodGet, "/api/products/abc", "", cookie)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unknown id
	resp = doJSON(t, app, http.MethodGet, "/api/products/999", "", cookie)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// PUT with amount restocks the back room
	resp = doJSON(t, app, http.MethodPut, "/api/products/1", `{"amount":10}`, cookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var restocked model.Product
	decode(t, resp, &restocked)
	assert.Equal(t, 15, restocked.StockQuantity)
	assert.Equal(t, 5, restocked.SaleQuantity)

	// PATCH moves stock into sale availability
	resp = doJSON(t, app, http.MethodPatch, "/api/products/1", `{"amount":6}`, cookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var moved model.Product
	decode(t, resp, &moved)
	assert.Equal(t, 9, moved.StockQuantity)
	assert.Equal(t, 11, moved.SaleQuantity)

	// PATCH beyond stock on hand
	resp = doJSON(t, app, http.MethodPatch, "/api/products/1", `{"amount":100}`, cookie)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSaleAndStatsEndpoints(t *testing.T) {
	app := buildTestApp(t)
	cookie := register(t, app, "operator")

	resp := doJSON(t, app, http.MethodPost, "/api/products",
		`{"name":"Latte","price":1000,"priceCard":1100,"quantity":5}`, cookie)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Card sale uses the card price
	resp = doJSON(t, app, http.MethodPost, "/api/sales",
		`{"productId":1,"quantity":2,"paymentMethod":"card"}`, cookie)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var sale model.Sale
	decode(t, resp, &sale)
	assert.Equal(t, int64(2200), sale.TotalValue)
	assert.Equal(t, model.PaymentCard, sale.PaymentMethod)
	require.NotNil(t, sale.Product)
	assert.Equal(t, 3, sale.Product.SaleQuantity)

	// Bad payment method
	resp = doJSON(t, app, http.MethodPost, "/api/sales",
		`{"productId":1,"quantity":1,"paymentMethod":"IOU"}`, cookie)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unknown product
	resp = doJSON(t, app, http.MethodPost, "/api/sales",
		`{"productId":42,"quantity":1,"paymentMethod":"PIX"}`, cookie)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Listing joins the product
	resp = doJSON(t, app, http.MethodGet, "/api/sales", "", cookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var sales []model.Sale
	decode(t, resp, &sales)
	require.Len(t, sales, 1)
	assert.Equal(t, "Latte", sales[0].Product.Name)

	// Stats over a wide explicit window
	resp = doJSON(t, app, http.MethodGet,
		"/api/stats?period=monthly&startDate=2000-01-01&endDate=2100-01-01", "", cookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var stats service.SalesStats
	decode(t, resp, &stats)
	assert.Equal(t, 1, stats.Summary.TotalSales)
	assert.Equal(t, int64(2200), stats.Summary.TotalRevenue)
	require.Len(t, stats.ProductSales, 1)
	assert.Equal(t, "Latte", stats.ProductSales[0].ProductName)

	// Malformed date bound
	resp = doJSON(t, app, http.MethodGet, "/api/sales?startDate=yesterday", "", cookie)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
