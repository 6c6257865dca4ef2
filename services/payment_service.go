package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"garagehub-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentService struct {
	db        *gorm.DB
	gateway   MpesaGateway
	inventory *InventoryService
	notifier  *NotificationService
}

func NewPaymentService(db *gorm.DB, gateway MpesaGateway, notifier *NotificationService) *PaymentService {
	return &PaymentService{
		db:        db,
		gateway:   gateway,
		inventory: NewInventoryService(),
		notifier:  notifier,
	}
}

// Initiate fires an STK push for the order total and records a Pending
// payment keyed by the gateway's CheckoutRequestID. The gateway round trip
// happens between two short transactions so no database lock is ever held
// across the network call. Re-initiating while an earlier push is still
// Pending is allowed; the reconciler's idempotency guard keeps duplicate
// settlements from applying twice.
func (s *PaymentService) Initiate(orderID uuid.UUID, phoneNumber string) (*models.Payment, error) {
	var order models.Order
	err := s.db.First(&order, "id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if order.PaymentMethod != models.PaymentMethodMpesa {
		return nil, fmt.Errorf("%w: order %s is payable on delivery, not via M-Pesa",
			ErrValidation, order.ID)
	}

	accountRef := "ORD" + strings.ToUpper(strings.ReplaceAll(order.ID.String(), "-", ""))

	resp, err := s.gateway.PushPayment(phoneNumber, order.TotalPrice, accountRef, "Garage order payment")
	if err != nil {
		return nil, err
	}
	if resp.ResponseCode != "0" {
		return nil, fmt.Errorf("%w: push rejected (%s): %s",
			ErrGateway, resp.ResponseCode, resp.ResponseDescription)
	}

	payment := models.Payment{
		ID:            uuid.New(),
		OrderID:       order.ID,
		TransactionID: resp.CheckoutRequestID,
		PaymentMethod: "M-Pesa",
		Amount:        order.TotalPrice,
		Status:        models.PaymentPending,
	}
	if err := s.db.Create(&payment).Error; err != nil {
		return nil, err
	}

	log.Printf("STK push accepted for order %s, transaction %s", order.ID, payment.TransactionID)
	return &payment, nil
}

// Reconcile applies one gateway callback. Daraja delivers at least once, so
// the guard-then-act sequence runs in a single transaction against the
// payment row locked FOR UPDATE: a payment already in a terminal state is
// acknowledged without repeating any side effect. On first success the
// owning order's stock is deducted and the order marked paid, exactly once
// across any number of redeliveries.
func (s *PaymentService) Reconcile(callback STKCallback) error {
	var receiptPhone string
	var receiptBody string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&payment, "transaction_id = ?", callback.CheckoutRequestID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: transaction %s", ErrPaymentNotFound, callback.CheckoutRequestID)
		}
		if err != nil {
			return err
		}

		// Idempotency guard: duplicate delivery of a settled result.
		if payment.IsTerminal() {
			log.Printf("Duplicate callback for transaction %s (already %s), ignoring",
				payment.TransactionID, payment.Status)
			return nil
		}

		if callback.ResultCode != 0 {
			payment.Status = models.PaymentFailed
			payment.ResultDescription = callback.ResultDesc
			log.Printf("Payment %s failed (%d): %s",
				payment.TransactionID, callback.ResultCode, callback.ResultDesc)
			return tx.Model(&payment).
				Select("status", "result_description").
				Updates(map[string]interface{}{
					"status":             payment.Status,
					"result_description": payment.ResultDescription,
				}).Error
		}

		payment.Status = models.PaymentCompleted
		payment.MpesaReceiptNumber = callback.CallbackMetadata.ReceiptNumber()
		payment.ResultDescription = callback.ResultDesc
		err = tx.Model(&payment).
			Select("status", "mpesa_receipt_number", "result_description").
			Updates(map[string]interface{}{
				"status":               payment.Status,
				"mpesa_receipt_number": payment.MpesaReceiptNumber,
				"result_description":   payment.ResultDescription,
			}).Error
		if err != nil {
			return err
		}

		var order models.Order
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&order, "id = ?", payment.OrderID).Error
		if err != nil {
			return err
		}

		if order.IsPaid {
			return nil
		}

		if order.Status == models.OrderCancelled {
			// Money settled after the order was cancelled; its stock was
			// never deducted, so leave inventory alone and flag for refund.
			log.Printf("WARNING: payment %s settled for cancelled order %s, refund required",
				payment.TransactionID, order.ID)
		} else {
			// StockDeducted also covers cash orders, whose stock moved at
			// creation; settling one must not take stock a second time.
			if !order.StockDeducted() {
				if err := s.deductOrderStock(tx, &order); err != nil {
					return err
				}
			}
			order.Status = models.OrderPaid
		}
		order.IsPaid = true

		err = tx.Model(&order).
			Select("is_paid", "status").
			Updates(map[string]interface{}{
				"is_paid": order.IsPaid,
				"status":  order.Status,
			}).Error
		if err != nil {
			return err
		}

		receiptPhone = order.PhoneNumber
		receiptBody = fmt.Sprintf(
			"KES %.2f received for order %s. Receipt: %s. Thank you for choosing us!",
			payment.Amount, order.ID, payment.MpesaReceiptNumber)
		return nil
	})
	if err != nil {
		return err
	}

	// Best-effort receipt, outside the transaction so a notification
	// failure can never roll back the settled payment.
	if s.notifier != nil && receiptPhone != "" {
		go s.notifier.SendReceipt(receiptPhone, "Payment received", receiptBody)
	}
	return nil
}

// deductOrderStock takes stock for every item of a freshly paid order.
// Items are walked in product order to keep lock acquisition deterministic.
// A shortfall is logged, not failed: the money has already moved, so the
// remaining items still settle and operators resolve the gap manually.
func (s *PaymentService) deductOrderStock(tx *gorm.DB, order *models.Order) error {
	var items []models.OrderItem
	if err := tx.Order("product_id").Find(&items, "order_id = ?", order.ID).Error; err != nil {
		return err
	}

	for _, item := range items {
		product, err := s.inventory.LockProduct(tx, item.ProductID)
		if err != nil {
			return err
		}
		if !s.inventory.HasStock(product, item.Quantity) {
			log.Printf("WARNING: order %s paid but product %s short on stock (%d < %d), manual follow-up required",
				order.ID, product.Name, product.StockQuantity, item.Quantity)
			continue
		}
		if err := s.inventory.ReduceStock(tx, product, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// GetByTransactionID returns the payment for a gateway transaction, used by
// the frontend's post-push status poll.
func (s *PaymentService) GetByTransactionID(transactionID string) (*models.Payment, error) {
	var payment models.Payment
	err := s.db.First(&payment, "transaction_id = ?", transactionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// ListForOrder returns all payment attempts for an order, newest first.
func (s *PaymentService) ListForOrder(orderID uuid.UUID) ([]models.Payment, error) {
	var payments []models.Payment
	if err := s.db.Order("created_at DESC").Find(&payments, "order_id = ?", orderID).Error; err != nil {
		return nil, err
	}
	return payments, nil
}
