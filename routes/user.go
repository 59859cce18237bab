package routes

import (
	orderControllers "github.com/Pushparaj13811/cladily-api/controllers/order"
	userControllers "github.com/Pushparaj13811/cladily-api/controllers/user"
	"github.com/Pushparaj13811/cladily-api/middleware"
	"github.com/gin-gonic/gin"
)

// SetupUserRoutes registers all “/user/*” endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, deps Deps) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken(deps.Cfg.JWTSecret))
	{
		userGroup.GET("", userControllers.GetUser(deps.DB))
		userGroup.PUT("", userControllers.UpdateUser(deps.DB))

		userGroup.GET("/orders", orderControllers.GetUserOrdersHandler(deps.DB))
	}
}
