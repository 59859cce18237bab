// Package httpapi holds the response envelope and the single place where
// domain errors become HTTP statuses.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/Pushparaj13811/cladily-api/cartstore"
	"github.com/Pushparaj13811/cladily-api/catalog"
	"github.com/Pushparaj13811/cladily-api/checkout"
	"github.com/Pushparaj13811/cladily-api/identity"
	"github.com/Pushparaj13811/cladily-api/orders"
	"github.com/gin-gonic/gin"
)

// Respond writes the uniform envelope every endpoint uses.
func Respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, gin.H{"message": message, "data": data})
}

// Error maps a domain error onto an HTTP status and writes the envelope.
// Business-rule violations surface verbatim; unknown errors collapse to a
// plain 500.
func Error(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, cartstore.ErrInvalidQuantity),
		errors.Is(err, catalog.ErrValidation),
		errors.Is(err, checkout.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, identity.ErrIdentity):
		status = http.StatusUnauthorized
	case errors.Is(err, cartstore.ErrVariantNotFound),
		errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, catalog.ErrCategoryNotFound),
		errors.Is(err, checkout.ErrNoSession):
		status = http.StatusNotFound
	case errors.Is(err, cartstore.ErrQuantityLimitExceeded),
		errors.Is(err, checkout.ErrInvalidPaymentMethod),
		errors.Is(err, orders.ErrInsufficientStock):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, orders.ErrEmptyCart),
		errors.Is(err, orders.ErrSessionClosed),
		errors.Is(err, checkout.ErrStepNotReached),
		errors.Is(err, catalog.ErrCategoryInUse):
		status = http.StatusConflict
	case errors.Is(err, checkout.ErrPaymentDeclined):
		status = http.StatusPaymentRequired
	case errors.Is(err, catalog.ErrImageUploadFailed):
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"message": err.Error(), "data": nil})
}
