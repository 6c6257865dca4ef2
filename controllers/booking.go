// controllers/booking.go
package controllers

import (
	"net/http"

	"garagehub-backend/services"
	"garagehub-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreateBookingInput defines the expected JSON structure for creating a booking
type CreateBookingInput struct {
	ServiceID       uuid.UUID `json:"serviceId" binding:"required"`
	BookingDate     string    `json:"bookingDate" binding:"required"`
	BookingTime     string    `json:"bookingTime" binding:"required"`
	FullName        string    `json:"fullName" binding:"required"`
	PhoneNumber     string    `json:"phoneNumber" binding:"required"`
	VehicleModel    string    `json:"vehicleModel"`
	NumberPlate     string    `json:"numberPlate"`
	AdditionalNotes string    `json:"additionalNotes"`
}

// CreateBooking reserves a service time slot
func CreateBooking(c *gin.Context) {
	var input CreateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidatePhone(input.PhoneNumber) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number")
		return
	}

	booking, err := bookingService.Create(input.ServiceID, input.BookingDate, input.BookingTime, services.BookingInfo{
		FullName:        input.FullName,
		PhoneNumber:     input.PhoneNumber,
		VehicleModel:    input.VehicleModel,
		NumberPlate:     input.NumberPlate,
		AdditionalNotes: input.AdditionalNotes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Booking created successfully",
		"booking":    booking,
		"totalPrice": booking.TotalPrice,
	})
}

// GetAvailableSlots lists the free slots for a service on a date
func GetAvailableSlots(c *gin.Context) {
	serviceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	date := c.Query("date")
	if date == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "date query parameter is required")
		return
	}

	slots, err := bookingService.AvailableSlots(serviceUUID, date)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"availableSlots": slots})
}

// GetBookings retrieves all bookings
func GetBookings(c *gin.Context) {
	bookings, err := bookingService.List()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// GetBooking retrieves a specific booking by ID
func GetBooking(c *gin.Context) {
	bookingUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID format")
		return
	}

	booking, err := bookingService.Get(bookingUUID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// ConfirmBooking moves a pending booking to confirmed
func ConfirmBooking(c *gin.Context) {
	bookingUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID format")
		return
	}

	booking, err := bookingService.Confirm(bookingUUID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Booking confirmed", "booking": booking})
}

// CompleteBooking moves a confirmed booking to completed
func CompleteBooking(c *gin.Context) {
	bookingUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID format")
		return
	}

	booking, err := bookingService.Complete(bookingUUID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Booking completed", "booking": booking})
}

// CancelBooking releases a booking's slot, subject to the cancellation window
func CancelBooking(c *gin.Context) {
	bookingUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID format")
		return
	}

	booking, err := bookingService.Cancel(bookingUUID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Booking cancelled successfully",
		"booking": booking,
	})
}
