package checkoutControllers

import (
	"net/http"

	"github.com/Pushparaj13811/cladily-api/checkout"
	orderControllers "github.com/Pushparaj13811/cladily-api/controllers/order"
	"github.com/Pushparaj13811/cladily-api/httpapi"
	"github.com/Pushparaj13811/cladily-api/middleware"
	"github.com/gin-gonic/gin"
)

// POST /checkout/start
func Start(machine *checkout.Machine) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := middleware.OwnerFrom(c)
		session, err := machine.Start(c.Request.Context(), owner)
		if err != nil {
			httpapi.Error(c, err)
			return
		}
		httpapi.Respond(c, http.StatusOK, "Checkout started", session)
	}
}

// GET /checkout
func Get(machine *checkout.Machine) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := middleware.OwnerFrom(c)
		session, err := machine.Get(c.Request.Context(), owner)
		if err != nil {
			httpapi.Error(c, err)
			return
		}
		httpapi.Respond(c, http.StatusOK, "Checkout session", session)
	}
}

// PUT /checkout/shipping
func SubmitShipping(machine *checkout.Machine) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := middleware.OwnerFrom(c)

		var input checkout.ShippingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			httpapi.Respond(c, http.StatusBadRequest, "Invalid input: "+err.Error(), nil)
			return
		}

		session, err := machine.SubmitShipping(c.Request.Context(), owner, input)
		if err != nil {
			httpapi.Error(c, err)
			return
		}
		httpapi.Respond(c, http.StatusOK, "Shipping details saved", session)
	}
}

// PUT /checkout/payment
func SubmitPayment(machine *checkout.Machine) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := middleware.OwnerFrom(c)

		var input checkout.PaymentInput
		if err := c.ShouldBindJSON(&input); err != nil {
			httpapi.Respond(c, http.StatusBadRequest, "Invalid input: "+err.Error(), nil)
			return
		}

		session, err := machine.SubmitPayment(c.Request.Context(), owner, input)
		if err != nil {
			httpapi.Error(c, err)
			return
		}
		httpapi.Respond(c, http.StatusOK, "Payment details saved", session)
	}
}

// POST /checkout/continue
func Continue(machine *checkout.Machine) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := middleware.OwnerFrom(c)
		session, err := machine.Continue(c.Request.Context(), owner)
		if err != nil {
			httpapi.Error(c, err)
			return
		}
		httpapi.Respond(c, http.StatusOK, "Checkout advanced", session)
	}
}

// POST /checkout/place
func Place(machine *checkout.Machine) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := middleware.OwnerFrom(c)
		order, err := machine.Place(c.Request.Context(), owner)
		if err != nil {
			httpapi.Error(c, err)
			return
		}

		orderControllers.BroadcastNewOrder(*order)
		httpapi.Respond(c, http.StatusCreated, "Order placed successfully", order)
	}
}

// DELETE /checkout
func Abandon(machine *checkout.Machine) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := middleware.OwnerFrom(c)
		if err := machine.Abandon(c.Request.Context(), owner); err != nil {
			httpapi.Error(c, err)
			return
		}
		httpapi.Respond(c, http.StatusOK, "Checkout abandoned", nil)
	}
}
