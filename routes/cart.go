package routes

import (
	cartControllers "github.com/Pushparaj13811/cladily-api/controllers/cart"
	"github.com/Pushparaj13811/cladily-api/middleware"
	"github.com/gin-gonic/gin"
)

// SetupCartRoutes registers all “/cart/*” endpoints. The owner middleware
// resolves a user from the JWT when present, falls back to the guest
// cookie, and mints a fresh guest otherwise.
func SetupCartRoutes(r *gin.Engine, deps Deps) {
	cartGroup := r.Group("/cart")
	cartGroup.Use(middleware.ResolveOwner(deps.Resolver, deps.Cfg.JWTSecret))
	{
		cartGroup.GET("", cartControllers.GetCart(deps.Carts))
		cartGroup.POST("/add", cartControllers.AddItem(deps.Carts))
		cartGroup.PUT("/update", cartControllers.UpdateItem(deps.Carts))
		cartGroup.DELETE("/remove/:variant_id", cartControllers.RemoveItem(deps.Carts))
		cartGroup.DELETE("/clear", cartControllers.ClearCart(deps.Carts))
	}
}
