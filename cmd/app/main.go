package main

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/johnsonproduce/produce-box-backend/internal/admin"
	"github.com/johnsonproduce/produce-box-backend/internal/catalog"
	"github.com/johnsonproduce/produce-box-backend/internal/config"
	"github.com/johnsonproduce/produce-box-backend/internal/image"
	"github.com/johnsonproduce/produce-box-backend/internal/order"
	"github.com/johnsonproduce/produce-box-backend/internal/payment"
	"github.com/johnsonproduce/produce-box-backend/internal/pricing"
	"github.com/johnsonproduce/produce-box-backend/internal/settings"
	"github.com/johnsonproduce/produce-box-backend/internal/shipping"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	// prices are JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true

	app := fiber.New(fiber.Config{BodyLimit: image.MaxFileSize + 1<<20})
	setupCORS(app)
	app.Use(checkMiddleware)

	// storage backends: postgres when DATABASE_URL is set, otherwise the
	// seeded in-memory catalog so the storefront still works locally
	var db *sql.DB
	var catalogRepo catalog.Repository
	if cfg.DatabaseURL != "" {
		db = mustOpenDB(cfg.DatabaseURL)
		defer db.Close()
		ensureSchema(db)
		pg := catalog.NewPostgresRepository(db)
		seedCatalog(pg)
		catalogRepo = pg
	} else {
		fmt.Println("DATABASE_URL not set, using in-memory catalog")
		catalogRepo = catalog.NewInMemoryRepository(catalog.DefaultProducts())
	}

	settingsStore := settings.NewStore(cfg.SettingsFile)

	catalogService := catalog.NewService(catalogRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	pricingService := pricing.NewService(catalogService)
	pricingHandler := pricing.NewHandler(pricingService)

	shippingHandler := shipping.NewHandler(shipping.NewStaticQuoter())

	paymentHandler := payment.NewHandler(payment.NewClient(cfg.StripeSecretKey))

	orderRepo := pickOrderRepo(cfg, db)
	orderService := order.NewService(orderRepo, pricingService)
	orderHandler := order.NewHandler(orderService)

	imageStore, err := image.NewStore(cfg.ImagesDir)
	if err != nil {
		panic(err)
	}
	imageHandler := image.NewHandler(imageStore)

	settingsHandler := settings.NewHandler(settingsStore)

	adminHandler := admin.NewHandler(admin.NewService(settingsStore, cfg.AdminPassword), cfg.JWTSecret)

	// public surface
	catalogHandler.RegisterPublicRoutes(app)
	pricingHandler.RegisterPublicRoutes(app)
	shippingHandler.RegisterPublicRoutes(app)
	paymentHandler.RegisterPublicRoutes(app)
	orderHandler.RegisterPublicRoutes(app)
	adminHandler.RegisterPublicRoutes(app)
	app.Static("/images", cfg.ImagesDir)

	// everything else under /api/v1/admin requires a valid session token.
	// the login route is registered above, so it is matched first.
	app.Use("/api/v1/admin", jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
	}))

	adminGroup := app.Group("/api/v1/admin")
	catalogHandler.RegisterAdminRoutes(adminGroup)
	orderHandler.RegisterAdminRoutes(adminGroup)
	imageHandler.RegisterAdminRoutes(adminGroup)
	settingsHandler.RegisterAdminRoutes(adminGroup)

	if err := app.Listen(cfg.Addr); err != nil {
		panic(err)
	}
}

// pickOrderRepo selects the order store backend: the spreadsheet database
// when configured, otherwise postgres, otherwise a stub that degrades reads
// and rejects writes.
func pickOrderRepo(cfg config.Config, db *sql.DB) order.Repository {
	if cfg.NotionAPIKey != "" && cfg.NotionDatabaseID != "" {
		return order.NewNotionRepository(cfg.NotionAPIKey, cfg.NotionDatabaseID)
	}
	if db != nil {
		return order.NewPostgresRepository(db)
	}
	fmt.Println("warning: no order store configured, orders will not be saved")
	return order.UnconfiguredRepository{}
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

func mustOpenDB(dbURL string) *sql.DB {
	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		panic(err)
	}
	if err := db.Ping(); err != nil {
		panic(err)
	}
	return db
}

func ensureSchema(db *sql.DB) {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS products (
        id TEXT PRIMARY KEY,
        name TEXT NOT NULL,
        description TEXT NOT NULL DEFAULT '',
        images jsonb NOT NULL DEFAULT '[]',
        primary_image_index INT NOT NULL DEFAULT 0,
        price_per_pound numeric NOT NULL DEFAULT 0,
        availability BOOLEAN NOT NULL DEFAULT true,
        season TEXT NOT NULL DEFAULT '',
        origin TEXT NOT NULL DEFAULT ''
    )`); err != nil {
		panic(err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS orders (
        order_id TEXT PRIMARY KEY,
        email TEXT NOT NULL DEFAULT '',
        first_name TEXT NOT NULL DEFAULT '',
        last_name TEXT NOT NULL DEFAULT '',
        address TEXT NOT NULL DEFAULT '',
        city TEXT NOT NULL DEFAULT '',
        state TEXT NOT NULL DEFAULT '',
        zip TEXT NOT NULL DEFAULT '',
        items jsonb NOT NULL DEFAULT '[]',
        box_size TEXT NOT NULL DEFAULT '',
        subtotal numeric NOT NULL DEFAULT 0,
        box_price numeric NOT NULL DEFAULT 0,
        shipping_cost numeric NOT NULL DEFAULT 0,
        total numeric NOT NULL DEFAULT 0,
        payment_ref TEXT NOT NULL DEFAULT '',
        status TEXT NOT NULL DEFAULT 'pending',
        created_at TEXT NOT NULL DEFAULT ''
    )`); err != nil {
		panic(err)
	}
}

// seedCatalog inserts the default produce list when the table is empty.
func seedCatalog(repo *catalog.PostgresRepository) {
	existing, err := repo.List()
	if err != nil || len(existing) > 0 {
		return
	}
	for _, p := range catalog.DefaultProducts() {
		if _, err := repo.Create(p); err != nil {
			// ignore seed errors
			continue
		}
	}
}

func checkMiddleware(c *fiber.Ctx) error {
	start := time.Now()
	fmt.Printf("URL = %s, Method = %s, Start Time = %v\n", c.OriginalURL(), c.Method(), start)
	return c.Next()
}
