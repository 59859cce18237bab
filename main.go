package main

import (
	"log"
	"time"

	"github.com/Pushparaj13811/cladily-api/cartstore"
	"github.com/Pushparaj13811/cladily-api/catalog"
	"github.com/Pushparaj13811/cladily-api/checkout"
	"github.com/Pushparaj13811/cladily-api/config"
	"github.com/Pushparaj13811/cladily-api/identity"
	"github.com/Pushparaj13811/cladily-api/models"
	"github.com/Pushparaj13811/cladily-api/orders"
	"github.com/Pushparaj13811/cladily-api/payments"
	"github.com/Pushparaj13811/cladily-api/routes"
	"github.com/Pushparaj13811/cladily-api/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	log.Println("✅ Starting application...")

	cfg := config.Load()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ DB connection failed: %v", err)
	}

	// Auto-migrate all tables
	if err := db.AutoMigrate(
		&models.User{},
		&models.GuestUser{},
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
		&models.ProductVariant{},
		&models.ProductTag{},
		&models.Cart{},
		&models.CartLine{},
		&models.CheckoutSession{},
		&models.Order{},
		&models.OrderItem{},
		&models.Banner{},
	); err != nil {
		log.Fatalf("❌ AutoMigrate failed: %v", err)
	}

	// Core wiring
	blobs := storage.NewDiskStore(cfg.UploadDir, cfg.PublicUploadPath)
	carts := cartstore.NewStore(db)
	resolver := identity.NewResolver(db, carts)
	writer := catalog.NewWriter(db, blobs, cfg.UploadTimeout, cfg.CommitTimeout)
	finalizer := orders.NewFinalizer(db, carts, cfg.TaxRate)
	machine := checkout.NewMachine(db, carts, finalizer, payments.AcceptAll{})

	// Gin setup
	r := gin.Default()

	// Allow large file uploads (1 GB)
	r.MaxMultipartMemory = 1 << 30

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Serve uploaded images
	r.Static(cfg.PublicUploadPath, cfg.UploadDir)

	routes.SetupRoutes(r, routes.Deps{
		DB:       db,
		Carts:    carts,
		Resolver: resolver,
		Catalog:  writer,
		Checkout: machine,
		Blobs:    blobs,
		Cfg:      cfg,
	})

	log.Printf("🚀 Server running on port %s...", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
