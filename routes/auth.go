package routes

import (
	"github.com/Pushparaj13811/cladily-api/auth"
	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes registers all “/auth/*” endpoints.
func SetupAuthRoutes(r *gin.Engine, deps Deps) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", auth.Login(deps.DB, deps.Resolver, deps.Cfg.JWTSecret))
		authGroup.POST("/guest", auth.CreateGuest(deps.Resolver))
	}
}
