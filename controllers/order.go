// controllers/order.go
package controllers

import (
	"net/http"

	"garagehub-backend/services"
	"garagehub-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrderItemInput defines one line of a new order
type OrderItemInput struct {
	ProductID uuid.UUID `json:"productId" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// CreateOrderInput defines the expected JSON structure for creating an order
type CreateOrderInput struct {
	Items         []OrderItemInput `json:"items" binding:"required,min=1,dive"`
	PaymentMethod string           `json:"paymentMethod" binding:"required,oneof=cash_on_delivery mpesa"`
	FullName      string           `json:"fullName" binding:"required"`
	PhoneNumber   string           `json:"phoneNumber" binding:"required"`
	Estate        string           `json:"estate"`
	StreetAddress string           `json:"streetAddress"`
	AutoPart      string           `json:"autoPart"`
	VehicleMake   string           `json:"vehicleMake"`
	VehicleModel  string           `json:"vehicleModel"`
	VehicleYear   string           `json:"vehicleYear"`
}

// CreateOrder creates a new order from the submitted line items
func CreateOrder(c *gin.Context) {
	var input CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidatePhone(input.PhoneNumber) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number")
		return
	}

	items := make([]services.OrderItemInput, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, services.OrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	order, err := orderService.Create(items, input.PaymentMethod, services.CustomerInfo{
		FullName:      input.FullName,
		PhoneNumber:   input.PhoneNumber,
		Estate:        input.Estate,
		StreetAddress: input.StreetAddress,
		AutoPart:      input.AutoPart,
		VehicleMake:   input.VehicleMake,
		VehicleModel:  input.VehicleModel,
		VehicleYear:   input.VehicleYear,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Order created successfully",
		"order":      order,
		"totalPrice": order.TotalPrice,
	})
}

// GetOrders retrieves all orders
func GetOrders(c *gin.Context) {
	orders, err := orderService.List()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

// GetOrder retrieves a specific order by ID
func GetOrder(c *gin.Context) {
	orderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	order, err := orderService.Get(orderUUID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// CancelOrder cancels an order and restores any deducted stock
func CancelOrder(c *gin.Context) {
	orderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	order, alreadyCancelled, err := orderService.Cancel(orderUUID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if alreadyCancelled {
		c.JSON(http.StatusOK, gin.H{"message": "Order already cancelled"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order cancelled and stock restored",
		"order":   order,
	})
}
