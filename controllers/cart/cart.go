package cartControllers

import (
	"net/http"
	"strconv"

	"github.com/Pushparaj13811/cladily-api/cartstore"
	"github.com/Pushparaj13811/cladily-api/httpapi"
	"github.com/Pushparaj13811/cladily-api/middleware"
	"github.com/gin-gonic/gin"
)

type AddItemInput struct {
	VariantID uint `json:"variant_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type UpdateItemInput struct {
	VariantID uint `json:"variant_id" binding:"required"`
	Quantity  *int `json:"quantity" binding:"required"` // pointer: zero means remove
}

// GET /cart
func GetCart(store *cartstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := middleware.OwnerFrom(c)
		detail, err := store.View(c.Request.Context(), owner)
		if err != nil {
			httpapi.Error(c, err)
			return
		}
		httpapi.Respond(c, http.StatusOK, "Cart fetched", detail)
	}
}

// POST /cart/add
func AddItem(store *cartstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := middleware.OwnerFrom(c)

		var input AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			httpapi.Respond(c, http.StatusBadRequest, "Invalid input: "+err.Error(), nil)
			return
		}

		if _, err := store.AddLine(c.Request.Context(), owner, input.VariantID, input.Quantity); err != nil {
			httpapi.Error(c, err)
			return
		}

		detail, err := store.View(c.Request.Context(), owner)
		if err != nil {
			httpapi.Error(c, err)
			return
		}
		httpapi.Respond(c, http.StatusOK, "Item added to cart", detail)
	}
}

// PUT /cart/update
func UpdateItem(store *cartstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := middleware.OwnerFrom(c)

		var input UpdateItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			httpapi.Respond(c, http.StatusBadRequest, "Invalid input: "+err.Error(), nil)
			return
		}

		if _, err := store.SetLineQuantity(c.Request.Context(), owner, input.VariantID, *input.Quantity); err != nil {
			httpapi.Error(c, err)
			return
		}

		detail, err := store.View(c.Request.Context(), owner)
		if err != nil {
			httpapi.Error(c, err)
			return
		}
		httpapi.Respond(c, http.StatusOK, "Cart updated", detail)
	}
}

// DELETE /cart/remove/:variant_id
func RemoveItem(store *cartstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := middleware.OwnerFrom(c)

		variantID, err := strconv.ParseUint(c.Param("variant_id"), 10, 64)
		if err != nil {
			httpapi.Respond(c, http.StatusBadRequest, "Invalid variant_id", nil)
			return
		}

		if _, err := store.RemoveLine(c.Request.Context(), owner, uint(variantID)); err != nil {
			httpapi.Error(c, err)
			return
		}

		detail, err := store.View(c.Request.Context(), owner)
		if err != nil {
			httpapi.Error(c, err)
			return
		}
		httpapi.Respond(c, http.StatusOK, "Item removed", detail)
	}
}

// DELETE /cart/clear
func ClearCart(store *cartstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := middleware.OwnerFrom(c)

		if err := store.Clear(c.Request.Context(), owner); err != nil {
			httpapi.Error(c, err)
			return
		}
		httpapi.Respond(c, http.StatusOK, "Cart cleared", nil)
	}
}
