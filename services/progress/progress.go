// Package progress implements the progress engine: program completion
// records and one-time certificate issuance. Completion state feeds back
// into the commerce engine when a pair finishes a program.
package progress

import (
	"errors"
	"time"

	"learnhub/apperrors"
	"learnhub/models/progress"
	"learnhub/services/commerce"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CertificateGenerator is the outbound collaborator that renders and stores
// the certificate file, returning its URL.
type CertificateGenerator interface {
	Generate(userID, programID uint, serial string) (string, error)
}

// Notifier receives optional transition notifications.
type Notifier interface {
	CertificateIssued(userID, programID uint, url string)
}

// Service exposes progress operations over the underlying store.
type Service struct {
	DB        *gorm.DB
	Commerce  *commerce.Service
	Generator CertificateGenerator // optional; certificates get an empty URL without it
	Notifier  Notifier             // optional
}

func NewService(db *gorm.DB, commerceSvc *commerce.Service) *Service {
	return &Service{DB: db, Commerce: commerceSvc}
}

// EnrollmentActivated opens a pending completion record for (user, program).
// Called by the commerce engine when an enrollment becomes active. A pair
// that already has a completion record keeps it unchanged.
func (s *Service) EnrollmentActivated(userID, programID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var existing progress.ProgramCompletion
		err := tx.Where("user_id = ? AND program_id = ?", userID, programID).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.FromStore("program_completion", 0, err)
		}

		completion := progress.ProgramCompletion{
			UserID:    userID,
			ProgramID: programID,
			Status:    progress.CompletionPending,
		}
		if err := tx.Create(&completion).Error; err != nil {
			translated := apperrors.FromStore("program_completion", 0, err)
			if apperrors.IsConflict(translated) {
				return nil // raced with another activation for the pair
			}
			return translated
		}
		return nil
	})
}

// GetCompletion fetches the completion record for (user, program).
func (s *Service) GetCompletion(userID, programID uint) (*progress.ProgramCompletion, error) {
	var completion progress.ProgramCompletion
	err := s.DB.Where("user_id = ? AND program_id = ?", userID, programID).First(&completion).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("program_completion", 0)
		}
		return nil, apperrors.FromStore("program_completion", 0, err)
	}
	return &completion, nil
}

// AdvanceCompletion moves the pair's completion record to newStatus.
// StartedAt is stamped on entering ACTIVE, FinishedAt on entering COMPLETED;
// FinishedAt never precedes StartedAt. Entering COMPLETED issues the
// certificate and completes the pair's enrollment.
func (s *Service) AdvanceCompletion(userID, programID uint, newStatus progress.CompletionStatus) (*progress.ProgramCompletion, error) {
	if !progress.ValidCompletionStatus(newStatus) {
		return nil, apperrors.Validation("program_completion", "Status", "unknown status "+string(newStatus))
	}

	var completion progress.ProgramCompletion
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND program_id = ?", userID, programID).First(&completion).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.Conflict("program_completion", 0, "no completion record for this user and program")
		}
		if err != nil {
			return apperrors.FromStore("program_completion", 0, err)
		}
		if !completion.Status.CanTransition(newStatus) {
			return apperrors.Conflict("program_completion", completion.ID,
				"illegal transition "+string(completion.Status)+" -> "+string(newStatus))
		}

		now := time.Now()
		updates := map[string]interface{}{"status": newStatus}
		switch newStatus {
		case progress.CompletionActive:
			if completion.StartedAt == nil {
				updates["started_at"] = &now
			}
		case progress.CompletionCompleted:
			if completion.StartedAt != nil && now.Before(*completion.StartedAt) {
				return apperrors.Validation("program_completion", "FinishedAt", "finished_at precedes started_at")
			}
			updates["finished_at"] = &now
		}

		result := tx.Model(&progress.ProgramCompletion{}).
			Where("id = ? AND status = ?", completion.ID, completion.Status).
			Updates(updates)
		if result.Error != nil {
			return apperrors.FromStore("program_completion", completion.ID, result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.Concurrency("program_completion", nil)
		}

		if err := tx.Where("id = ?", completion.ID).First(&completion).Error; err != nil {
			return apperrors.FromStore("program_completion", completion.ID, err)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if completion.Status == progress.CompletionCompleted {
		if err := s.onCompleted(userID, programID); err != nil {
			return &completion, err
		}
	}
	return &completion, nil
}

// onCompleted runs the side effects of a finished program: certificate
// issuance and enrollment completion. The completion record is already
// committed; a failure here leaves it in place and the caller may retry the
// certificate path.
func (s *Service) onCompleted(userID, programID uint) error {
	url := ""
	serial := uuid.NewString()
	if s.Generator != nil {
		generated, err := s.Generator.Generate(userID, programID, serial)
		if err != nil {
			return apperrors.FromStore("certificate", 0, err)
		}
		url = generated
	}

	cert, err := s.issueCertificate(userID, programID, url, serial)
	if err != nil {
		// a certificate already issued for the pair is a no-op, not a failure
		if !apperrors.IsConflict(err) {
			return err
		}
	} else if s.Notifier != nil {
		s.Notifier.CertificateIssued(userID, programID, cert.CertificateURL)
	}

	if s.Commerce != nil {
		enrollment, err := s.Commerce.ActiveEnrollment(userID, programID)
		if err == nil {
			err = s.Commerce.MarkEnrollmentCompleted(enrollment.ID)
		}
		if err != nil && !apperrors.IsNotFound(err) && !apperrors.IsConflict(err) {
			return err
		}
	}
	return nil
}

// IssueCertificate records a certificate for (user, program) with the given
// URL. The pair's completion must have reached COMPLETED; a second call for
// the same pair fails with a conflict and creates no row.
func (s *Service) IssueCertificate(userID, programID uint, url string) (*progress.Certificate, error) {
	return s.issueCertificate(userID, programID, url, uuid.NewString())
}

func (s *Service) issueCertificate(userID, programID uint, url, serial string) (*progress.Certificate, error) {
	var cert progress.Certificate
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var completion progress.ProgramCompletion
		err := tx.Where("user_id = ? AND program_id = ?", userID, programID).First(&completion).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.Conflict("certificate", 0, "no completion record for this user and program")
		}
		if err != nil {
			return apperrors.FromStore("program_completion", 0, err)
		}
		if completion.Status != progress.CompletionCompleted {
			return apperrors.Conflict("certificate", 0, "completion has not reached COMPLETED")
		}

		var existing progress.Certificate
		if err := tx.Where("user_id = ? AND program_id = ?", userID, programID).First(&existing).Error; err == nil {
			return apperrors.Conflict("certificate", existing.ID, "certificate already issued for this user and program")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.FromStore("certificate", 0, err)
		}

		cert = progress.Certificate{
			UserID:            userID,
			ProgramID:         programID,
			CertificateURL:    url,
			CertificateNumber: serial,
			IssuedAt:          time.Now(),
		}
		if err := tx.Create(&cert).Error; err != nil {
			return apperrors.FromStore("certificate", 0, err)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return &cert, nil
}

// GetCertificate fetches the certificate for (user, program).
func (s *Service) GetCertificate(userID, programID uint) (*progress.Certificate, error) {
	var cert progress.Certificate
	err := s.DB.Where("user_id = ? AND program_id = ?", userID, programID).First(&cert).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("certificate", 0)
		}
		return nil, apperrors.FromStore("certificate", 0, err)
	}
	return &cert, nil
}

// ListCertificates lists a user's certificates, newest first.
func (s *Service) ListCertificates(userID uint) ([]progress.Certificate, error) {
	var certs []progress.Certificate
	if err := s.DB.Where("user_id = ?", userID).Order("issued_at desc").Find(&certs).Error; err != nil {
		return nil, apperrors.FromStore("certificate", 0, err)
	}
	return certs, nil
}
