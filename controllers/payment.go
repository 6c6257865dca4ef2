// controllers/payment.go
package controllers

import (
	"errors"
	"log"
	"net/http"

	"garagehub-backend/services"
	"garagehub-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InitiatePaymentInput defines the expected JSON structure for an STK push
type InitiatePaymentInput struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
}

// InitiateMpesaPayment pushes a payment request to the customer's phone for
// the given order and records the pending payment
func InitiateMpesaPayment(c *gin.Context) {
	orderUUID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var input InitiatePaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	msisdn := utils.NormalizeMSISDN(input.PhoneNumber)
	if msisdn == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid M-Pesa phone number")
		return
	}

	payment, err := paymentService.Initiate(orderUUID, msisdn)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "STK push initiated, check your phone",
		"transactionId": payment.TransactionID,
		"amount":        payment.Amount,
	})
}

// MpesaCallback receives Daraja's asynchronous settlement result. Daraja
// retries until it sees a ResultCode 0 acknowledgement, so duplicate
// deliveries land here and are absorbed by the reconciler's idempotency
// guard. Callbacks for transactions we never initiated are answered with a
// non-zero code so the redelivery shows up in gateway logs.
func MpesaCallback(c *gin.Context) {
	var envelope services.STKCallbackEnvelope
	if err := c.ShouldBindJSON(&envelope); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid callback payload: "+err.Error())
		return
	}

	callback := envelope.Body.StkCallback
	if callback.CheckoutRequestID == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Callback missing CheckoutRequestID")
		return
	}

	if err := paymentService.Reconcile(callback); err != nil {
		if errors.Is(err, services.ErrPaymentNotFound) {
			log.Printf("Callback for unknown transaction %s", callback.CheckoutRequestID)
			c.JSON(http.StatusOK, gin.H{"ResultCode": 1, "ResultDesc": "Unknown transaction"})
			return
		}
		log.Printf("Failed to reconcile transaction %s: %v", callback.CheckoutRequestID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"ResultCode": 1, "ResultDesc": "Internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ResultCode": 0, "ResultDesc": "Accepted"})
}

// GetPaymentStatus returns the payment for a gateway transaction ID, used
// by the frontend to poll after an STK push
func GetPaymentStatus(c *gin.Context) {
	payment, err := paymentService.GetByTransactionID(c.Param("transactionId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

// GetOrderPayments lists all payment attempts for an order
func GetOrderPayments(c *gin.Context) {
	orderUUID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	payments, err := paymentService.ListForOrder(orderUUID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, payments)
}
