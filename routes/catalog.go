package routes

import (
	adminController "github.com/Pushparaj13811/cladily-api/controllers/admin"
	productControllers "github.com/Pushparaj13811/cladily-api/controllers/product"
	"github.com/gin-gonic/gin"
)

// SetupCatalogRoutes registers the public browsing endpoints.
func SetupCatalogRoutes(r *gin.Engine, deps Deps) {
	r.GET("/products", productControllers.GetProducts(deps.Catalog))
	r.GET("/products/:id", productControllers.GetProductByID(deps.Catalog))
	r.GET("/categories", productControllers.GetAllCategories(deps.Catalog))
	r.GET("/categories/:id", productControllers.GetCategoryByID(deps.Catalog))
	r.GET("/banners", adminController.GetBanners(deps.DB))
}
