package main

import (
	"os"
	"os/signal"
	"syscall"

	"go-pos-backend/internal/config"
	"go-pos-backend/internal/handler"
	"go-pos-backend/internal/middleware"
	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"
	"go-pos-backend/internal/service"
	"go-pos-backend/internal/ws"
	"go-pos-backend/pkg/database"
	"go-pos-backend/pkg/logger"
	"go-pos-backend/pkg/token"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env + Config
	_ = godotenv.Load() // .env is optional
	cfg := config.Load()
	log := logger.New(cfg.Env, cfg.LogLevel)

	if cfg.SessionSecret == "" {
		log.Warn().Msg("SESSION_SECRET is not set; all protected requests will be rejected")
	}

	// 2. Setup Database
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := db.AutoMigrate(&model.User{}, &model.Product{}, &model.Sale{}); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	// 3. Seed default admin user
	seedAdmin(db, cfg, log)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	tokens := token.NewManager(cfg.SessionSecret, cfg.SessionTTL)

	productRepo := repository.NewProductRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	userRepo := repository.NewUserRepo(db)

	catalogService := service.NewCatalogService(productRepo, saleRepo, wsHub)
	salesService := service.NewSalesService(productRepo, saleRepo, db, wsHub)
	statsService := service.NewStatsService(saleRepo)
	authService := service.NewAuthService(userRepo, tokens)

	productHandler := handler.NewProductHandler(catalogService, log)
	saleHandler := handler.NewSaleHandler(salesService, log)
	statsHandler := handler.NewStatsHandler(statsService, log)
	authHandler := handler.NewAuthHandler(authService, tokens, cfg.SessionCookie, log)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "POS Backend v1.0",
	})

	// Middleware
	app.Use(fiberlogger.New()) // Logging request
	app.Use(recover.New())     // Panic recovery
	app.Use(cors.New())        // CORS

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// 7. Routes
	api := app.Group("/api")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", authHandler.Logout)
	auth.Get("/check", authHandler.Check)

	// ============ PROTECTED ROUTES ============
	// All routes below require a valid session cookie
	protected := api.Group("", middleware.RequireAuth(tokens, cfg.SessionCookie))

	protected.Get("/products", productHandler.GetProducts)
	protected.Post("/products", productHandler.CreateProduct)
	protected.Get("/products/:id", productHandler.GetProduct)
	protected.Put("/products/:id", productHandler.UpdateProduct)
	protected.Patch("/products/:id", productHandler.RestockForSale)
	protected.Delete("/products/:id", productHandler.DeleteProduct)

	protected.Get("/sales", saleHandler.GetSales)
	protected.Post("/sales", saleHandler.RecordSale)

	protected.Get("/stats", statsHandler.GetStats)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	if err := database.Close(db); err != nil {
		log.Error().Err(err).Msg("closing database")
	}

	log.Info().Msg("server exited")
}

// seedAdmin creates the default operator account if it doesn't exist
func seedAdmin(db *gorm.DB, cfg *config.Config, log zerolog.Logger) {
	userRepo := repository.NewUserRepo(db)

	if _, err := userRepo.FindByUsername("admin"); err == nil {
		return
	}

	admin := &model.User{Username: "admin"}
	if err := admin.SetPassword(cfg.SeedAdminPassword); err != nil {
		log.Warn().Err(err).Msg("failed to hash admin password")
		return
	}

	if err := userRepo.Create(admin); err != nil {
		log.Warn().Err(err).Msg("failed to create admin user")
		return
	}
	log.Info().Msg("admin user created")
}
