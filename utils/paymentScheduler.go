package utils

import (
	"log"
	"time"

	"learnhub/config"
	"learnhub/database"
	"learnhub/models/commerce"

	"github.com/robfig/cron/v3"
)

// InitializePaymentScheduler sets up the stale payment expiry scheduler
func InitializePaymentScheduler() {
	log.Println("[PAYMENT-SCHEDULER] Initializing payment scheduler...")

	c := cron.New()

	// Run daily at 9 AM to fail stale pending payments
	c.AddFunc("0 9 * * *", func() {
		log.Println("[PAYMENT-SCHEDULER] Running daily stale payment check...")
		ExpireStalePayments()
	})

	c.Start()
	log.Println("[PAYMENT-SCHEDULER] Payment scheduler started - runs daily at 9 AM")
}

// ExpireStalePayments fails pending payments older than the configured
// expiry window. PENDING -> FAILED is a legal machine transition; PaidAt is
// never involved.
func ExpireStalePayments() {
	db := database.Database.Db
	cutoff := time.Now().AddDate(0, 0, -config.AppConfig.PaymentExpiryDays)

	result := db.Model(&commerce.Payment{}).
		Where("status = ? AND created_at < ?", commerce.PaymentPending, cutoff).
		Update("status", commerce.PaymentFailed)

	if result.Error != nil {
		log.Printf("[PAYMENT-SCHEDULER] Error expiring payments: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("[PAYMENT-SCHEDULER] Failed %d stale pending payments", result.RowsAffected)
	}
}
