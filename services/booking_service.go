package services

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"garagehub-backend/models"
	"garagehub-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultCancelLimitHours = 2

// defaultSlots is the working-day slot catalog used when BOOKING_SLOTS is
// not configured.
var defaultSlots = []string{
	"08:00", "09:00", "10:00", "11:00", "12:00",
	"13:00", "14:00", "15:00", "16:00", "17:00",
}

// BookingInfo carries the customer and vehicle details captured with a
// booking.
type BookingInfo struct {
	FullName        string
	PhoneNumber     string
	VehicleModel    string
	NumberPlate     string
	AdditionalNotes string
}

type BookingService struct {
	db          *gorm.DB
	slots       []string
	cancelLimit time.Duration
}

// NewBookingService reads the slot catalog and cancellation limit from the
// environment once; both are fixed configuration, not derived at request
// time.
func NewBookingService(db *gorm.DB) *BookingService {
	slots := defaultSlots
	if env := os.Getenv("BOOKING_SLOTS"); env != "" {
		slots = nil
		for _, s := range strings.Split(env, ",") {
			slots = append(slots, strings.TrimSpace(s))
		}
	}

	limit := defaultCancelLimitHours
	if env := os.Getenv("BOOKING_CANCEL_LIMIT_HOURS"); env != "" {
		if h, err := strconv.Atoi(env); err == nil && h > 0 {
			limit = h
		}
	}

	return &BookingService{
		db:          db,
		slots:       slots,
		cancelLimit: time.Duration(limit) * time.Hour,
	}
}

// Create reserves a slot for the service in state pending, snapshotting the
// service price. The check-then-insert runs under an exclusive lock on the
// service row, so two concurrent requests for the same slot cannot both
// pass the active-booking check.
func (s *BookingService) Create(serviceID uuid.UUID, date, slot string, info BookingInfo) (*models.Booking, error) {
	day, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: booking date must be YYYY-MM-DD", ErrValidation)
	}
	if day.Before(utils.BeginningOfDay(time.Now())) {
		return nil, fmt.Errorf("%w: booking date is in the past", ErrValidation)
	}
	if !s.validSlot(slot) {
		return nil, fmt.Errorf("%w: %q is not a bookable time slot", ErrValidation, slot)
	}

	var booking models.Booking

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var service models.Service
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&service, "id = ?", serviceID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrServiceNotFound
		}
		if err != nil {
			return err
		}

		var active int64
		err = tx.Model(&models.Booking{}).
			Where("service_id = ? AND booking_date = ? AND booking_time = ?", serviceID, day, slot).
			Where("status IN ?", []models.BookingStatus{models.BookingPending, models.BookingConfirmed}).
			Count(&active).Error
		if err != nil {
			return err
		}
		if active > 0 {
			return fmt.Errorf("%w: %s %s", ErrSlotTaken, date, slot)
		}

		booking = models.Booking{
			ID:              uuid.New(),
			ServiceID:       service.ID,
			Status:          models.BookingPending,
			BookingDate:     day,
			BookingTime:     slot,
			TotalPrice:      service.Price,
			FullName:        info.FullName,
			PhoneNumber:     info.PhoneNumber,
			VehicleModel:    info.VehicleModel,
			NumberPlate:     info.NumberPlate,
			AdditionalNotes: info.AdditionalNotes,
		}
		return tx.Create(&booking).Error
	})
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

// AvailableSlots returns the slot catalog minus the slots already held by
// an active booking for that service and date. Pure read, no locking.
func (s *BookingService) AvailableSlots(serviceID uuid.UUID, date string) ([]string, error) {
	day, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}

	var taken []string
	err = s.db.Model(&models.Booking{}).
		Where("service_id = ? AND booking_date = ?", serviceID, day).
		Where("status IN ?", []models.BookingStatus{models.BookingPending, models.BookingConfirmed}).
		Pluck("booking_time", &taken).Error
	if err != nil {
		return nil, err
	}

	return subtractSlots(s.slots, taken), nil
}

// Confirm moves a pending booking to confirmed.
func (s *BookingService) Confirm(bookingID uuid.UUID) (*models.Booking, error) {
	return s.transition(bookingID, models.BookingConfirmed)
}

// Complete moves a confirmed booking to completed. Completing straight from
// pending is rejected.
func (s *BookingService) Complete(bookingID uuid.UUID) (*models.Booking, error) {
	return s.transition(bookingID, models.BookingCompleted)
}

// Cancel releases the booking's slot. Terminal bookings are rejected, and
// so is any cancellation requested inside the configured window before the
// slot, measured against the wall clock at request time.
func (s *BookingService) Cancel(bookingID uuid.UUID) (*models.Booking, error) {
	var booking models.Booking

	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&booking, "id = ?", bookingID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookingNotFound
		}
		if err != nil {
			return err
		}

		if !booking.CanTransition(models.BookingCancelled) {
			return fmt.Errorf("%w: cannot cancel a %s booking", ErrInvalidTransition, booking.Status)
		}

		tooLate, err := booking.WithinCancelWindow(time.Now(), s.cancelLimit)
		if err != nil {
			return err
		}
		if tooLate {
			return ErrCancelWindow
		}

		booking.Status = models.BookingCancelled
		return tx.Model(&booking).Update("status", models.BookingCancelled).Error
	})
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

// Get returns a booking by ID.
func (s *BookingService) Get(bookingID uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.First(&booking, "id = ?", bookingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// List returns all bookings, newest first.
func (s *BookingService) List() ([]models.Booking, error) {
	var bookings []models.Booking
	if err := s.db.Order("created_at DESC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (s *BookingService) transition(bookingID uuid.UUID, to models.BookingStatus) (*models.Booking, error) {
	var booking models.Booking

	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&booking, "id = ?", bookingID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookingNotFound
		}
		if err != nil {
			return err
		}

		if !booking.CanTransition(to) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, to)
		}

		booking.Status = to
		return tx.Model(&booking).Update("status", to).Error
	})
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

func (s *BookingService) validSlot(slot string) bool {
	for _, v := range s.slots {
		if v == slot {
			return true
		}
	}
	return false
}

// subtractSlots returns catalog minus taken, preserving catalog order.
func subtractSlots(catalog, taken []string) []string {
	used := make(map[string]bool, len(taken))
	for _, t := range taken {
		used[t] = true
	}

	free := make([]string, 0, len(catalog))
	for _, slot := range catalog {
		if !used[slot] {
			free = append(free, slot)
		}
	}
	return free
}
