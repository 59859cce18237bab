package orderControllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Pushparaj13811/cladily-api/httpapi"
	"github.com/Pushparaj13811/cladily-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

// Map string to OrderStatus
func mapOrderStatus(status string) (models.OrderStatus, error) {
	switch strings.ToLower(status) {
	case string(models.OrderStatusPending):
		return models.OrderStatusPending, nil
	case string(models.OrderStatusConfirmed):
		return models.OrderStatusConfirmed, nil
	case string(models.OrderStatusReadyToShip):
		return models.OrderStatusReadyToShip, nil
	case string(models.OrderStatusShipped):
		return models.OrderStatusShipped, nil
	case string(models.OrderStatusDelivered):
		return models.OrderStatusDelivered, nil
	case string(models.OrderStatusReturned):
		return models.OrderStatusReturned, nil
	case string(models.OrderStatusCancelled):
		return models.OrderStatusCancelled, nil
	default:
		return "", errors.New("invalid order status")
	}
}

// Map string to PaymentStatus
func mapPaymentStatus(status string) (models.PaymentStatus, error) {
	switch strings.ToLower(status) {
	case string(models.PaymentStatusPending):
		return models.PaymentStatusPending, nil
	case string(models.PaymentStatusPaid):
		return models.PaymentStatusPaid, nil
	case string(models.PaymentStatusFailed):
		return models.PaymentStatusFailed, nil
	case string(models.PaymentStatusRefunded):
		return models.PaymentStatusRefunded, nil
	default:
		return "", errors.New("invalid payment status")
	}
}

// GET /admin/orders
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			httpapi.Respond(c, http.StatusInternalServerError, "Failed to fetch orders", nil)
			return
		}
		httpapi.Respond(c, http.StatusOK, "Orders fetched", orders)
	}
}

// GET /user/orders
func GetUserOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")

		var orders []models.Order
		if err := db.
			Preload("Items").
			Where("user_id = ?", userID).
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			httpapi.Respond(c, http.StatusInternalServerError, "Failed to fetch orders", nil)
			return
		}
		httpapi.Respond(c, http.StatusOK, "Orders fetched", orders)
	}
}

// PUT /admin/orders/:orderID/status
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")

		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpapi.Respond(c, http.StatusBadRequest, "Invalid input: "+err.Error(), nil)
			return
		}
		status, err := mapOrderStatus(req.Status)
		if err != nil {
			httpapi.Respond(c, http.StatusBadRequest, err.Error(), nil)
			return
		}

		res := db.Model(&models.Order{}).Where("id = ?", orderID).Update("status", status)
		if res.Error != nil {
			httpapi.Respond(c, http.StatusInternalServerError, "Failed to update order status", nil)
			return
		}
		if res.RowsAffected == 0 {
			httpapi.Respond(c, http.StatusNotFound, "Order not found", nil)
			return
		}
		httpapi.Respond(c, http.StatusOK, "Order status updated", nil)
	}
}

// PUT /admin/orders/:orderID/payment-status
func UpdatePaymentStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")

		var req UpdatePaymentStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpapi.Respond(c, http.StatusBadRequest, "Invalid input: "+err.Error(), nil)
			return
		}
		status, err := mapPaymentStatus(req.PaymentStatus)
		if err != nil {
			httpapi.Respond(c, http.StatusBadRequest, err.Error(), nil)
			return
		}

		res := db.Model(&models.Order{}).Where("id = ?", orderID).Update("payment_status", status)
		if res.Error != nil {
			httpapi.Respond(c, http.StatusInternalServerError, "Failed to update payment status", nil)
			return
		}
		if res.RowsAffected == 0 {
			httpapi.Respond(c, http.StatusNotFound, "Order not found", nil)
			return
		}
		httpapi.Respond(c, http.StatusOK, "Payment status updated", nil)
	}
}
