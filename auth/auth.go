package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/Pushparaj13811/cladily-api/httpapi"
	"github.com/Pushparaj13811/cladily-api/identity"
	"github.com/Pushparaj13811/cladily-api/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LoginInput struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
}

// Login upserts the user by email, issues a token and — when a guest
// cookie rides along — merges the guest cart into the user's cart before
// the guest identity is retired.
func Login(db *gorm.DB, resolver *identity.Resolver, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			httpapi.Respond(c, http.StatusBadRequest, "Invalid input: "+err.Error(), nil)
			return
		}

		var user models.User
		err := db.Where("email = ?", input.Email).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			user = models.User{ID: uuid.NewString(), Email: input.Email, Name: input.Name}
			err = db.Create(&user).Error
		}
		if err != nil {
			httpapi.Respond(c, http.StatusInternalServerError, "Failed to resolve user", nil)
			return
		}

		if guestID, cookieErr := c.Cookie(identity.GuestCookie); cookieErr == nil && guestID != "" {
			if err := resolver.MergeOnLogin(c.Request.Context(), guestID, user.ID); err != nil {
				httpapi.Error(c, err)
				return
			}
			// guest identity is spent; drop the cookie
			c.SetCookie(identity.GuestCookie, "", -1, "/", "", false, true)
		}

		token, err := issueToken(user.ID, "user", secret)
		if err != nil {
			httpapi.Respond(c, http.StatusInternalServerError, "Token generation failed", nil)
			return
		}

		httpapi.Respond(c, http.StatusOK, "Logged in", gin.H{
			"token": token,
			"user":  user,
		})
	}
}

// CreateGuest mints a durable guest identity and hands it back both as
// the cookie the storefront reads and in the payload for API clients.
func CreateGuest(resolver *identity.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		guestID, err := resolver.MintGuest(c.Request.Context())
		if err != nil {
			httpapi.Respond(c, http.StatusInternalServerError, "Failed to create guest", nil)
			return
		}

		c.SetCookie(identity.GuestCookie, guestID,
			int(identity.GuestTTL/time.Second), "/", "", false, true)

		httpapi.Respond(c, http.StatusOK, "Guest created", gin.H{
			"guest_id":   guestID,
			"expires_at": time.Now().Add(identity.GuestTTL),
		})
	}
}

func issueToken(id, role, secret string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": id,
		"role":    role,
		"exp":     time.Now().Add(7 * 24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
