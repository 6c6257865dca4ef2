package models

import "testing"

func TestOrderCanTransition(t *testing.T) {
	cases := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderPending, OrderPaid, true},
		{OrderPending, OrderCancelled, true},
		{OrderPending, OrderCompleted, false},
		{OrderPaid, OrderCompleted, true},
		{OrderPaid, OrderCancelled, true},
		{OrderPaid, OrderPending, false},
		{OrderCompleted, OrderCancelled, false},
		{OrderCompleted, OrderPaid, false},
		{OrderCancelled, OrderPending, false},
		{OrderCancelled, OrderPaid, false},
		{OrderCancelled, OrderCancelled, false},
	}

	for _, tc := range cases {
		o := Order{Status: tc.from}
		if got := o.CanTransition(tc.to); got != tc.allowed {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestOrderStockDeducted(t *testing.T) {
	cases := []struct {
		name     string
		method   string
		isPaid   bool
		deducted bool
	}{
		{"cash unpaid", PaymentMethodCash, false, true},
		{"cash paid", PaymentMethodCash, true, true},
		{"mpesa unpaid", PaymentMethodMpesa, false, false},
		{"mpesa paid", PaymentMethodMpesa, true, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := Order{PaymentMethod: tc.method, IsPaid: tc.isPaid}
			if got := o.StockDeducted(); got != tc.deducted {
				t.Errorf("StockDeducted() = %v, want %v", got, tc.deducted)
			}
		})
	}
}
