package models

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
}

// BookingSlotIndexSQL backs slot exclusivity at the database level: at
// most one active booking per (service, date, time). Applied after
// AutoMigrate because gorm index tags cannot express the WHERE clause.
const BookingSlotIndexSQL = `CREATE UNIQUE INDEX IF NOT EXISTS idx_booking_active_slot
	ON bookings (service_id, booking_date, booking_time)
	WHERE status IN ('pending', 'confirmed')`

// Booking reserves a single service time slot. At most one booking per
// (service, date, time) may be active (pending or confirmed) at a time;
// the booking service serializes creation and the partial unique index
// above backs it up.
type Booking struct {
	ID        uuid.UUID     `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	ServiceID uuid.UUID     `gorm:"type:uuid;index:idx_booking_slot;not null" json:"serviceId"`
	Status    BookingStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`

	// BookingDate is the calendar day, BookingTime one of the configured
	// slot values in HH:MM form.
	BookingDate time.Time `gorm:"type:date;index:idx_booking_slot;not null" json:"bookingDate"`
	BookingTime string    `gorm:"type:varchar(5);index:idx_booking_slot;not null" json:"bookingTime"`

	TotalPrice float64 `gorm:"type:decimal(10,2);not null" json:"totalPrice"`

	FullName        string `json:"fullName"`
	PhoneNumber     string `json:"phoneNumber"`
	VehicleModel    string `json:"vehicleModel"`
	NumberPlate     string `json:"numberPlate"`
	AdditionalNotes string `json:"additionalNotes"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CanTransition reports whether moving the booking to the given status is a
// legal state machine move. Direct pending -> completed is not.
func (b *Booking) CanTransition(to BookingStatus) bool {
	for _, next := range bookingTransitions[b.Status] {
		if next == to {
			return true
		}
	}
	return false
}

// IsActive reports whether the booking still occupies its slot.
func (b *Booking) IsActive() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}

// SlotTime combines the booking date and slot value into a wall-clock
// instant in the given location.
func (b *Booking) SlotTime(loc *time.Location) (time.Time, error) {
	t, err := time.Parse("15:04", b.BookingTime)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(
		b.BookingDate.Year(), b.BookingDate.Month(), b.BookingDate.Day(),
		t.Hour(), t.Minute(), 0, 0, loc,
	), nil
}

// WithinCancelWindow reports whether now is too close to the slot for a
// cancellation: strictly less than limit before the slot is rejected, at
// exactly the limit or earlier it is allowed.
func (b *Booking) WithinCancelWindow(now time.Time, limit time.Duration) (bool, error) {
	slot, err := b.SlotTime(now.Location())
	if err != nil {
		return false, err
	}
	return slot.Sub(now) < limit, nil
}
