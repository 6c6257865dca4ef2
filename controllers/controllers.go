// controllers/controllers.go
package controllers

import (
	"errors"
	"net/http"

	"garagehub-backend/services"
	"garagehub-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	inventoryService *services.InventoryService
	orderService     *services.OrderService
	bookingService   *services.BookingService
	paymentService   *services.PaymentService
)

// Setup wires the business services the controllers delegate to. Call once
// after the database connection is up.
func Setup(db *gorm.DB) {
	inventoryService = services.NewInventoryService()
	orderService = services.NewOrderService(db)
	bookingService = services.NewBookingService(db)
	paymentService = services.NewPaymentService(db, services.NewMpesaClient(), services.NewNotificationService())
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrServiceNotFound),
		errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrBookingNotFound),
		errors.Is(err, services.ErrPaymentNotFound):
		utils.RespondWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrInsufficientStock):
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrSlotTaken),
		errors.Is(err, services.ErrInvalidTransition):
		utils.RespondWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrCancelWindow):
		utils.RespondWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrGateway):
		utils.RespondWithError(c, http.StatusBadGateway, err.Error())
	default:
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
	}
}
