package services

import (
	"errors"
	"testing"

	"garagehub-backend/models"

	"github.com/google/uuid"
)

func TestCreateOrderRejectsEmptyAndBadInput(t *testing.T) {
	svc := NewOrderService(nil)

	if _, err := svc.Create(nil, models.PaymentMethodCash, CustomerInfo{}); !errors.Is(err, ErrValidation) {
		t.Errorf("empty items: got %v, want ErrValidation", err)
	}

	items := []OrderItemInput{{ProductID: uuid.New(), Quantity: 1}}
	if _, err := svc.Create(items, "barter", CustomerInfo{}); !errors.Is(err, ErrValidation) {
		t.Errorf("unknown method: got %v, want ErrValidation", err)
	}

	items = []OrderItemInput{{ProductID: uuid.New(), Quantity: 0}}
	if _, err := svc.Create(items, models.PaymentMethodCash, CustomerInfo{}); !errors.Is(err, ErrValidation) {
		t.Errorf("zero quantity: got %v, want ErrValidation", err)
	}
}

func TestCreateOrderCashDeductsStockImmediately(t *testing.T) {
	db := testDB(t)
	svc := NewOrderService(db)
	product := seedProduct(t, db, "Brake pads", 2500, 5)

	order, err := svc.Create(
		[]OrderItemInput{{ProductID: product.ID, Quantity: 2}},
		models.PaymentMethodCash,
		CustomerInfo{FullName: "John Doe", PhoneNumber: "254700000000"},
	)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if order.TotalPrice != 5000 {
		t.Errorf("TotalPrice = %.2f, want 5000", order.TotalPrice)
	}
	if order.Status != models.OrderPending {
		t.Errorf("Status = %s, want pending", order.Status)
	}
	if got := stockOf(t, db, product.ID); got != 3 {
		t.Errorf("stock after cash order = %d, want 3", got)
	}
}

func TestCreateOrderMpesaDefersStockDeduction(t *testing.T) {
	db := testDB(t)
	svc := NewOrderService(db)
	product := seedProduct(t, db, "Oil filter", 800, 5)

	_, err := svc.Create(
		[]OrderItemInput{{ProductID: product.ID, Quantity: 2}},
		models.PaymentMethodMpesa,
		CustomerInfo{FullName: "John Doe", PhoneNumber: "254700000000"},
	)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if got := stockOf(t, db, product.ID); got != 5 {
		t.Errorf("stock after deferred-settlement order = %d, want 5 (untouched)", got)
	}
}

func TestCreateOrderAbortsWhollyOnShortStock(t *testing.T) {
	db := testDB(t)
	svc := NewOrderService(db)
	plentiful := seedProduct(t, db, "Wiper blades", 500, 10)
	scarce := seedProduct(t, db, "Alternator", 12000, 1)

	_, err := svc.Create(
		[]OrderItemInput{
			{ProductID: plentiful.ID, Quantity: 2},
			{ProductID: scarce.ID, Quantity: 3},
		},
		models.PaymentMethodCash,
		CustomerInfo{FullName: "John Doe", PhoneNumber: "254700000000"},
	)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("got %v, want ErrInsufficientStock", err)
	}

	// Nothing was persisted or deducted.
	var orders int64
	db.Model(&models.Order{}).Count(&orders)
	if orders != 0 {
		t.Errorf("found %d orders, want 0 (no partial orders)", orders)
	}
	if got := stockOf(t, db, plentiful.ID); got != 10 {
		t.Errorf("stock of in-stock product = %d, want 10", got)
	}
}

func TestCreateOrderMergesDuplicateLines(t *testing.T) {
	db := testDB(t)
	svc := NewOrderService(db)
	product := seedProduct(t, db, "Ball joint", 1500, 5)

	// Two lines of 3 demand 6 combined; per-line checks would pass each one
	// against the full stock of 5.
	_, err := svc.Create(
		[]OrderItemInput{
			{ProductID: product.ID, Quantity: 3},
			{ProductID: product.ID, Quantity: 3},
		},
		models.PaymentMethodMpesa,
		CustomerInfo{FullName: "John Doe", PhoneNumber: "254700000000"},
	)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("got %v, want ErrInsufficientStock", err)
	}

	order, err := svc.Create(
		[]OrderItemInput{
			{ProductID: product.ID, Quantity: 2},
			{ProductID: product.ID, Quantity: 2},
		},
		models.PaymentMethodCash,
		CustomerInfo{FullName: "John Doe", PhoneNumber: "254700000000"},
	)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(order.Items) != 1 || order.Items[0].Quantity != 4 {
		t.Errorf("items = %+v, want one merged line of 4", order.Items)
	}
	if order.TotalPrice != 6000 {
		t.Errorf("TotalPrice = %.2f, want 6000", order.TotalPrice)
	}
	if got := stockOf(t, db, product.ID); got != 1 {
		t.Errorf("stock = %d, want 1", got)
	}
}

func TestCreateOrderFreezesPriceSnapshot(t *testing.T) {
	db := testDB(t)
	svc := NewOrderService(db)
	product := seedProduct(t, db, "Spark plug", 300, 10)

	order, err := svc.Create(
		[]OrderItemInput{{ProductID: product.ID, Quantity: 3}},
		models.PaymentMethodMpesa,
		CustomerInfo{FullName: "John Doe", PhoneNumber: "254700000000"},
	)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// A later catalog price change must not affect the order.
	if err := db.Model(&models.Product{}).Where("id = ?", product.ID).Update("price", 999).Error; err != nil {
		t.Fatalf("update price: %v", err)
	}

	reloaded, err := svc.Get(order.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if reloaded.TotalPrice != 900 {
		t.Errorf("TotalPrice = %.2f, want 900", reloaded.TotalPrice)
	}
	if len(reloaded.Items) != 1 || reloaded.Items[0].PriceAtOrder != 300 {
		t.Errorf("PriceAtOrder not frozen: %+v", reloaded.Items)
	}
}

func TestCancelOrderRestoresStockOnce(t *testing.T) {
	db := testDB(t)
	svc := NewOrderService(db)
	product := seedProduct(t, db, "Radiator", 7000, 5)

	order, err := svc.Create(
		[]OrderItemInput{{ProductID: product.ID, Quantity: 2}},
		models.PaymentMethodCash,
		CustomerInfo{FullName: "John Doe", PhoneNumber: "254700000000"},
	)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got := stockOf(t, db, product.ID); got != 3 {
		t.Fatalf("stock after order = %d, want 3", got)
	}

	_, already, err := svc.Cancel(order.ID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if already {
		t.Error("first cancel reported already-cancelled")
	}
	if got := stockOf(t, db, product.ID); got != 5 {
		t.Errorf("stock after cancel = %d, want 5", got)
	}

	// Second cancel is an idempotent no-op with no double restore.
	_, already, err = svc.Cancel(order.ID)
	if err != nil {
		t.Fatalf("second Cancel: %v", err)
	}
	if !already {
		t.Error("second cancel did not report already-cancelled")
	}
	if got := stockOf(t, db, product.ID); got != 5 {
		t.Errorf("stock after double cancel = %d, want 5 (no double credit)", got)
	}
}

func TestCancelUnpaidMpesaOrderLeavesStockAlone(t *testing.T) {
	db := testDB(t)
	svc := NewOrderService(db)
	product := seedProduct(t, db, "Battery", 9500, 4)

	order, err := svc.Create(
		[]OrderItemInput{{ProductID: product.ID, Quantity: 2}},
		models.PaymentMethodMpesa,
		CustomerInfo{FullName: "John Doe", PhoneNumber: "254700000000"},
	)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, _, err := svc.Cancel(order.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	// Stock was never deducted, so nothing to restore.
	if got := stockOf(t, db, product.ID); got != 4 {
		t.Errorf("stock after cancelling unpaid order = %d, want 4", got)
	}
}

func TestCancelCompletedOrderRejected(t *testing.T) {
	db := testDB(t)
	svc := NewOrderService(db)
	product := seedProduct(t, db, "Clutch kit", 15000, 3)

	order, err := svc.Create(
		[]OrderItemInput{{ProductID: product.ID, Quantity: 1}},
		models.PaymentMethodCash,
		CustomerInfo{FullName: "John Doe", PhoneNumber: "254700000000"},
	)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	db.Model(&models.Order{}).Where("id = ?", order.ID).Update("status", models.OrderCompleted)

	_, _, err = svc.Cancel(order.ID)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("got %v, want ErrInvalidTransition", err)
	}
}

func TestCancelMissingOrder(t *testing.T) {
	db := testDB(t)
	svc := NewOrderService(db)

	_, _, err := svc.Cancel(uuid.New())
	if !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("got %v, want ErrOrderNotFound", err)
	}
}
