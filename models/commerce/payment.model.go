package commerce

import (
	"time"

	"gorm.io/gorm"
)

// PaymentStatus defines the status of a payment attempt
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:  {PaymentPaid, PaymentFailed},
	PaymentPaid:     {PaymentRefunded},
	PaymentFailed:   {},
	PaymentRefunded: {},
}

// ValidPaymentStatus reports whether s is in the closed status set.
func ValidPaymentStatus(s PaymentStatus) bool {
	_, ok := paymentTransitions[s]
	return ok
}

// CanTransition reports whether a payment may move from one status to another.
func (from PaymentStatus) CanTransition(to PaymentStatus) bool {
	for _, next := range paymentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Payment is one payment attempt against an enrollment. An enrollment may
// accumulate multiple attempts; rows are never deleted. PaidAt is set exactly
// when the payment enters PAID and is immutable thereafter.
type Payment struct {
	gorm.Model
	EnrollmentID uint          `gorm:"not null;index" json:"enrollmentId"`
	Amount       float64       `gorm:"not null" json:"amount"`
	Status       PaymentStatus `gorm:"type:varchar(20);default:'PENDING'" json:"status"`
	PaidAt       *time.Time    `json:"paidAt"`
}
