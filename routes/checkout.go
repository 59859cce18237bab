package routes

import (
	checkoutControllers "github.com/Pushparaj13811/cladily-api/controllers/checkout"
	"github.com/Pushparaj13811/cladily-api/middleware"
	"github.com/gin-gonic/gin"
)

// SetupCheckoutRoutes registers all “/checkout/*” endpoints.
func SetupCheckoutRoutes(r *gin.Engine, deps Deps) {
	checkoutGroup := r.Group("/checkout")
	checkoutGroup.Use(middleware.ResolveOwner(deps.Resolver, deps.Cfg.JWTSecret))
	{
		checkoutGroup.POST("/start", checkoutControllers.Start(deps.Checkout))
		checkoutGroup.GET("", checkoutControllers.Get(deps.Checkout))
		checkoutGroup.PUT("/shipping", checkoutControllers.SubmitShipping(deps.Checkout))
		checkoutGroup.PUT("/payment", checkoutControllers.SubmitPayment(deps.Checkout))
		checkoutGroup.POST("/continue", checkoutControllers.Continue(deps.Checkout))
		checkoutGroup.POST("/place", checkoutControllers.Place(deps.Checkout))
		checkoutGroup.DELETE("", checkoutControllers.Abandon(deps.Checkout))
	}
}
