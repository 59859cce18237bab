package middleware

import (
	"net/http"
	"time"

	"github.com/Pushparaj13811/cladily-api/httpapi"
	"github.com/Pushparaj13811/cladily-api/identity"
	"github.com/Pushparaj13811/cladily-api/models"
	"github.com/gin-gonic/gin"
)

// ResolveOwner turns the request's credentials into the canonical cart
// owner. An authenticated token wins; otherwise the guest cookie is
// used, and when neither is present a guest is minted and the cookie set
// here — before any handler writes a response.
func ResolveOwner(resolver *identity.Resolver, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := ""
		if tokenString := bearerToken(c); tokenString != "" {
			claims, err := parseClaims(tokenString, secret)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token", "data": nil})
				c.Abort()
				return
			}
			if claims["role"] == "user" {
				userID, _ = claims["user_id"].(string)
			}
		}

		guestID, _ := c.Cookie(identity.GuestCookie)

		res, err := resolver.Resolve(c.Request.Context(), userID, guestID)
		if err != nil {
			httpapi.Error(c, err)
			c.Abort()
			return
		}

		if res.MintedGuestID != "" {
			c.SetCookie(identity.GuestCookie, res.MintedGuestID,
				int(identity.GuestTTL/time.Second), "/", "", false, true)
		}

		c.Set("owner", res.Owner)
		c.Next()
	}
}

// OwnerFrom reads the owner ResolveOwner stored on the context.
func OwnerFrom(c *gin.Context) models.CartOwner {
	v, _ := c.Get("owner")
	owner, _ := v.(models.CartOwner)
	return owner
}
