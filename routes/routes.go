package routes

import (
	"github.com/Pushparaj13811/cladily-api/cartstore"
	"github.com/Pushparaj13811/cladily-api/catalog"
	"github.com/Pushparaj13811/cladily-api/checkout"
	"github.com/Pushparaj13811/cladily-api/config"
	"github.com/Pushparaj13811/cladily-api/identity"
	"github.com/Pushparaj13811/cladily-api/storage"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps carries everything the route groups need. Built once in main.
type Deps struct {
	DB       *gorm.DB
	Carts    *cartstore.Store
	Resolver *identity.Resolver
	Catalog  *catalog.Writer
	Checkout *checkout.Machine
	Blobs    storage.BlobStore
	Cfg      config.Config
}

// SetupRoutes is the single entry-point that wires up all route groups.
func SetupRoutes(r *gin.Engine, deps Deps) {
	// Public auth routes (no middleware)
	SetupAuthRoutes(r, deps)

	// Public catalog browsing
	SetupCatalogRoutes(r, deps)

	// Cart routes (owner resolved from JWT or guest cookie)
	SetupCartRoutes(r, deps)

	// Checkout routes (same owner resolution as cart)
	SetupCheckoutRoutes(r, deps)

	// User routes (JWT-protected)
	SetupUserRoutes(r, deps)

	// Admin routes (API-key-protected)
	SetupAdminRoutes(r, deps)
}
