package routes

import (
	adminController "github.com/Pushparaj13811/cladily-api/controllers/admin"
	orderControllers "github.com/Pushparaj13811/cladily-api/controllers/order"
	productControllers "github.com/Pushparaj13811/cladily-api/controllers/product"
	userControllers "github.com/Pushparaj13811/cladily-api/controllers/user"
	"github.com/Pushparaj13811/cladily-api/middleware"
	"github.com/gin-gonic/gin"
)

// SetupAdminRoutes registers all “/admin/*” endpoints. Requires API-Key middleware.
func SetupAdminRoutes(r *gin.Engine, deps Deps) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey(deps.Cfg.AdminAPIKey))
	{
		// ─────────── User Management ───────────
		adminGroup.GET("/users", userControllers.GetAllUsers(deps.DB))

		// ─────────── Product Management ───────────
		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.POST("", productControllers.CreateProduct(deps.Catalog))
			productAdmin.PUT("/:id", productControllers.UpdateProduct(deps.Catalog))
			productAdmin.DELETE("/:id", productControllers.DeleteProduct(deps.Catalog))
			productAdmin.GET("/export-excel", productControllers.ExportProductsToExcel(deps.DB))
		}

		// ─────────── Category Management ───────────
		categoryAdmin := adminGroup.Group("/categories")
		{
			categoryAdmin.POST("", productControllers.CreateCategory(deps.Catalog))
			categoryAdmin.PUT("/:id", productControllers.UpdateCategory(deps.Catalog))
			categoryAdmin.DELETE("/:id", productControllers.DeleteCategory(deps.Catalog))
		}

		// ─────────── Banner Management ───────────
		bannerMgmt := adminGroup.Group("/banners")
		{
			bannerMgmt.POST("", adminController.UploadBanner(deps.DB, deps.Blobs))
			bannerMgmt.DELETE("/:id", adminController.DeleteBanner(deps.DB, deps.Blobs))
		}

		// ─────────── Order Management ───────────
		orderMgmt := adminGroup.Group("/orders")
		{
			orderMgmt.GET("", orderControllers.GetAllOrdersHandler(deps.DB))
			orderMgmt.GET("/ws", orderControllers.OrderWebSocketHandler)
			orderMgmt.PUT("/:orderID/status", orderControllers.UpdateOrderStatusHandler(deps.DB))
			orderMgmt.PUT("/:orderID/payment-status", orderControllers.UpdatePaymentStatusHandler(deps.DB))
		}
	}
}
