// Package commerce implements the commerce engine: enrollments and payments
// with their status state machines. At most one non-cancelled enrollment may
// exist per (user, program); a payment row is one attempt and is never
// deleted.
package commerce

import (
	"errors"
	"time"

	"learnhub/apperrors"
	"learnhub/models"
	"learnhub/models/catalog"
	"learnhub/models/commerce"

	"gorm.io/gorm"
)

// CompletionStarter is implemented by the progress engine: when an enrollment
// becomes active a completion record is opened for the pair.
type CompletionStarter interface {
	EnrollmentActivated(userID, programID uint) error
}

// Notifier receives optional transition notifications. Failures are logged by
// the implementation and never fail the operation.
type Notifier interface {
	EnrollmentActivated(userID, programID uint)
}

// Service exposes commerce operations over the underlying store.
type Service struct {
	DB          *gorm.DB
	Completions CompletionStarter // optional, wired at boot
	Notifier    Notifier          // optional
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// Enroll registers a purchase intent for (user, program). It fails with a
// conflict while a non-cancelled enrollment exists for the pair; a cancelled
// enrollment may be superseded by a new one.
func (s *Service) Enroll(userID, programID uint) (*commerce.Enrollment, error) {
	var user models.User
	if err := s.DB.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user", userID)
		}
		return nil, apperrors.FromStore("user", userID, err)
	}
	var program catalog.Program
	if err := s.DB.Where("id = ? AND is_deleted = ?", programID, false).First(&program).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("program", programID)
		}
		return nil, apperrors.FromStore("program", programID, err)
	}

	var enrollment commerce.Enrollment
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var existing commerce.Enrollment
		err := tx.Where("user_id = ? AND program_id = ? AND status <> ?", userID, programID, commerce.EnrollmentCancelled).
			First(&existing).Error
		if err == nil {
			return apperrors.Conflict("enrollment", existing.ID, "user already has a non-cancelled enrollment for this program")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.FromStore("enrollment", 0, err)
		}

		enrollment = commerce.Enrollment{
			UserID:    userID,
			ProgramID: programID,
			Status:    commerce.EnrollmentPending,
		}
		if err := tx.Create(&enrollment).Error; err != nil {
			return apperrors.FromStore("enrollment", 0, err)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return &enrollment, nil
}

// GetEnrollment fetches an enrollment by id.
func (s *Service) GetEnrollment(id uint) (*commerce.Enrollment, error) {
	var enrollment commerce.Enrollment
	if err := s.DB.First(&enrollment, id).Error; err != nil {
		return nil, apperrors.FromStore("enrollment", id, err)
	}
	return &enrollment, nil
}

// ActiveEnrollment fetches the active enrollment for (user, program).
func (s *Service) ActiveEnrollment(userID, programID uint) (*commerce.Enrollment, error) {
	var enrollment commerce.Enrollment
	err := s.DB.Where("user_id = ? AND program_id = ? AND status = ?", userID, programID, commerce.EnrollmentActive).
		First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("enrollment", 0)
		}
		return nil, apperrors.FromStore("enrollment", 0, err)
	}
	return &enrollment, nil
}

// ActivateEnrollment moves a pending enrollment to active. At least one paid
// payment must exist for the enrollment. On success the progress engine is
// told to open a completion record for the pair.
func (s *Service) ActivateEnrollment(enrollmentID uint) error {
	var enrollment commerce.Enrollment
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&enrollment, enrollmentID).Error; err != nil {
			return apperrors.FromStore("enrollment", enrollmentID, err)
		}
		if !enrollment.Status.CanTransition(commerce.EnrollmentActive) {
			return apperrors.Conflict("enrollment", enrollmentID, "cannot activate from status "+string(enrollment.Status))
		}

		var paid int64
		if err := tx.Model(&commerce.Payment{}).
			Where("enrollment_id = ? AND status = ?", enrollmentID, commerce.PaymentPaid).
			Count(&paid).Error; err != nil {
			return apperrors.FromStore("payment", 0, err)
		}
		if paid == 0 {
			return apperrors.Conflict("enrollment", enrollmentID, "no paid payment for this enrollment")
		}

		// Guard against a concurrent transition on the same row.
		result := tx.Model(&commerce.Enrollment{}).
			Where("id = ? AND status = ?", enrollmentID, enrollment.Status).
			Update("status", commerce.EnrollmentActive)
		if result.Error != nil {
			return apperrors.FromStore("enrollment", enrollmentID, result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.Concurrency("enrollment", nil)
		}
		return nil
	})
	if txErr != nil {
		return txErr
	}

	if s.Completions != nil {
		if err := s.Completions.EnrollmentActivated(enrollment.UserID, enrollment.ProgramID); err != nil {
			return err
		}
	}
	if s.Notifier != nil {
		s.Notifier.EnrollmentActivated(enrollment.UserID, enrollment.ProgramID)
	}
	return nil
}

// CancelEnrollment cancels a pending or active enrollment.
func (s *Service) CancelEnrollment(enrollmentID uint) error {
	return s.transitionEnrollment(enrollmentID, commerce.EnrollmentCancelled)
}

// MarkEnrollmentCompleted is called by the progress engine once the pair's
// completion record reaches its completed state. The enrollment must be
// active.
func (s *Service) MarkEnrollmentCompleted(enrollmentID uint) error {
	return s.transitionEnrollment(enrollmentID, commerce.EnrollmentCompleted)
}

func (s *Service) transitionEnrollment(enrollmentID uint, to commerce.EnrollmentStatus) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var enrollment commerce.Enrollment
		if err := tx.First(&enrollment, enrollmentID).Error; err != nil {
			return apperrors.FromStore("enrollment", enrollmentID, err)
		}
		if !enrollment.Status.CanTransition(to) {
			return apperrors.Conflict("enrollment", enrollmentID,
				"illegal transition "+string(enrollment.Status)+" -> "+string(to))
		}

		result := tx.Model(&commerce.Enrollment{}).
			Where("id = ? AND status = ?", enrollmentID, enrollment.Status).
			Update("status", to)
		if result.Error != nil {
			return apperrors.FromStore("enrollment", enrollmentID, result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.Concurrency("enrollment", nil)
		}
		return nil
	})
}

// RecordPayment creates a payment attempt against an enrollment. The amount
// must be positive and the enrollment must not be in a terminal state.
func (s *Service) RecordPayment(enrollmentID uint, amount float64) (*commerce.Payment, error) {
	if amount <= 0 {
		return nil, apperrors.Validation("payment", "Amount", "amount must be positive")
	}

	var enrollment commerce.Enrollment
	if err := s.DB.First(&enrollment, enrollmentID).Error; err != nil {
		return nil, apperrors.FromStore("enrollment", enrollmentID, err)
	}
	if enrollment.Status == commerce.EnrollmentCancelled || enrollment.Status == commerce.EnrollmentCompleted {
		return nil, apperrors.Conflict("payment", 0, "enrollment is "+string(enrollment.Status))
	}

	payment := commerce.Payment{
		EnrollmentID: enrollmentID,
		Amount:       amount,
		Status:       commerce.PaymentPending,
	}
	if err := s.DB.Create(&payment).Error; err != nil {
		return nil, apperrors.FromStore("payment", 0, err)
	}
	return &payment, nil
}

// ConfirmPayment moves a pending payment to paid and stamps PaidAt. PaidAt is
// immutable after this.
func (s *Service) ConfirmPayment(paymentID uint) error {
	return s.transitionPayment(paymentID, commerce.PaymentPaid)
}

// FailPayment moves a pending payment to failed.
func (s *Service) FailPayment(paymentID uint) error {
	return s.transitionPayment(paymentID, commerce.PaymentFailed)
}

// RefundPayment moves a paid payment to refunded. The owning enrollment is
// left untouched; cancelling it is a separate administrative action.
func (s *Service) RefundPayment(paymentID uint) error {
	return s.transitionPayment(paymentID, commerce.PaymentRefunded)
}

func (s *Service) transitionPayment(paymentID uint, to commerce.PaymentStatus) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var payment commerce.Payment
		if err := tx.First(&payment, paymentID).Error; err != nil {
			return apperrors.FromStore("payment", paymentID, err)
		}
		if !payment.Status.CanTransition(to) {
			return apperrors.Conflict("payment", paymentID,
				"illegal transition "+string(payment.Status)+" -> "+string(to))
		}

		updates := map[string]interface{}{"status": to}
		if to == commerce.PaymentPaid {
			now := time.Now()
			updates["paid_at"] = &now
		}

		result := tx.Model(&commerce.Payment{}).
			Where("id = ? AND status = ?", paymentID, payment.Status).
			Updates(updates)
		if result.Error != nil {
			return apperrors.FromStore("payment", paymentID, result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.Concurrency("payment", nil)
		}
		return nil
	})
}

// GetPayment fetches a payment by id.
func (s *Service) GetPayment(id uint) (*commerce.Payment, error) {
	var payment commerce.Payment
	if err := s.DB.First(&payment, id).Error; err != nil {
		return nil, apperrors.FromStore("payment", id, err)
	}
	return &payment, nil
}

// ListPayments lists an enrollment's payment attempts, newest first.
func (s *Service) ListPayments(enrollmentID uint) ([]commerce.Payment, error) {
	var payments []commerce.Payment
	if err := s.DB.Where("enrollment_id = ?", enrollmentID).Order("created_at desc, id desc").Find(&payments).Error; err != nil {
		return nil, apperrors.FromStore("payment", 0, err)
	}
	return payments, nil
}

// ListEnrollments lists a user's enrollments, newest first.
func (s *Service) ListEnrollments(userID uint) ([]commerce.Enrollment, error) {
	var enrollments []commerce.Enrollment
	if err := s.DB.Where("user_id = ?", userID).Order("created_at desc, id desc").Find(&enrollments).Error; err != nil {
		return nil, apperrors.FromStore("enrollment", 0, err)
	}
	return enrollments, nil
}
