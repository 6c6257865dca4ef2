package models

import (
	"testing"
	"time"
)

func TestBookingCanTransition(t *testing.T) {
	cases := []struct {
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{BookingPending, BookingConfirmed, true},
		{BookingPending, BookingCancelled, true},
		{BookingPending, BookingCompleted, false}, // no skipping confirmed
		{BookingConfirmed, BookingCompleted, true},
		{BookingConfirmed, BookingCancelled, true},
		{BookingConfirmed, BookingPending, false},
		{BookingCompleted, BookingCancelled, false},
		{BookingCancelled, BookingConfirmed, false},
		{BookingCancelled, BookingCancelled, false},
	}

	for _, tc := range cases {
		b := Booking{Status: tc.from}
		if got := b.CanTransition(tc.to); got != tc.allowed {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestBookingIsActive(t *testing.T) {
	active := []BookingStatus{BookingPending, BookingConfirmed}
	inactive := []BookingStatus{BookingCompleted, BookingCancelled}

	for _, st := range active {
		if !(&Booking{Status: st}).IsActive() {
			t.Errorf("%s should be active", st)
		}
	}
	for _, st := range inactive {
		if (&Booking{Status: st}).IsActive() {
			t.Errorf("%s should not be active", st)
		}
	}
}

func TestBookingSlotTime(t *testing.T) {
	b := Booking{
		BookingDate: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		BookingTime: "10:00",
	}

	slot, err := b.SlotTime(time.UTC)
	if err != nil {
		t.Fatalf("SlotTime: %v", err)
	}
	want := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	if !slot.Equal(want) {
		t.Errorf("SlotTime = %v, want %v", slot, want)
	}

	b.BookingTime = "bogus"
	if _, err := b.SlotTime(time.UTC); err == nil {
		t.Error("expected error for malformed booking time")
	}
}

func TestBookingWithinCancelWindow(t *testing.T) {
	limit := 2 * time.Hour
	b := Booking{
		BookingDate: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		BookingTime: "10:00",
	}

	cases := []struct {
		name    string
		now     time.Time
		tooLate bool
	}{
		{"well before", time.Date(2025, 6, 15, 6, 0, 0, 0, time.UTC), false},
		{"exactly at the limit", time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC), false},
		{"one second inside", time.Date(2025, 6, 15, 8, 0, 1, 0, time.UTC), true},
		{"one hour before", time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC), true},
		{"after the slot", time.Date(2025, 6, 15, 11, 0, 0, 0, time.UTC), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := b.WithinCancelWindow(tc.now, limit)
			if err != nil {
				t.Fatalf("WithinCancelWindow: %v", err)
			}
			if got != tc.tooLate {
				t.Errorf("WithinCancelWindow(now=%v) = %v, want %v", tc.now, got, tc.tooLate)
			}
		})
	}
}
