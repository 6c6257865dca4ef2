package services

import "errors"

// Sentinel errors returned by the business services. Controllers map these
// to HTTP statuses with errors.Is, so wrapped variants keep their kind.
var (
	ErrProductNotFound = errors.New("product not found")
	ErrServiceNotFound = errors.New("service not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrPaymentNotFound = errors.New("payment not found")

	ErrValidation        = errors.New("invalid input")
	ErrInsufficientStock = errors.New("not enough stock available")
	ErrSlotTaken         = errors.New("time slot already booked")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrCancelWindow      = errors.New("cancellation not allowed this close to the booking time")
	ErrGateway           = errors.New("payment gateway error")
)
