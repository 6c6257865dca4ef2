package services

import (
	"log"
	"time"

	"garagehub-backend/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// staleAfter is how long a payment may sit Pending before the daily sweep
// reports it. Pending payments are never timed out automatically, the
// gateway is authoritative on settlement; the sweep only gives operators
// visibility.
const staleAfter = 24 * time.Hour

type PaymentSweeper struct {
	db *gorm.DB
}

func NewPaymentSweeper(db *gorm.DB) *PaymentSweeper {
	return &PaymentSweeper{db: db}
}

// StartScheduler runs the sweep every day at 9 AM.
func (s *PaymentSweeper) StartScheduler() {
	c := cron.New()

	c.AddFunc("0 9 * * *", func() {
		s.SweepStalePayments()
	})

	c.Start()
	log.Println("Payment sweeper started")
}

// SweepStalePayments logs every payment stuck in Pending beyond the stale
// threshold, with its order, for manual follow-up.
func (s *PaymentSweeper) SweepStalePayments() {
	cutoff := time.Now().Add(-staleAfter)

	var payments []models.Payment
	err := s.db.Where("status = ? AND created_at < ?", models.PaymentPending, cutoff).
		Find(&payments).Error
	if err != nil {
		log.Printf("Stale payment sweep failed: %v", err)
		return
	}

	if len(payments) == 0 {
		log.Println("Stale payment sweep: nothing pending")
		return
	}

	for _, p := range payments {
		log.Printf("Stale pending payment %s (order %s, KES %.2f, initiated %s)",
			p.TransactionID, p.OrderID, p.Amount, p.CreatedAt.Format(time.RFC3339))
	}
	log.Printf("Stale payment sweep: %d payment(s) pending longer than %s", len(payments), staleAfter)
}
