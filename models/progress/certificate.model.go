package progress

import (
	"time"

	"gorm.io/gorm"
)

// Certificate is the terminal artifact issued once a ProgramCompletion reaches
// COMPLETED. Unique per (user, program); issued at most once.
type Certificate struct {
	gorm.Model
	UserID            uint      `gorm:"not null;uniqueIndex:idx_certificate_user_program" json:"userId"`
	ProgramID         uint      `gorm:"not null;uniqueIndex:idx_certificate_user_program" json:"programId"`
	CertificateURL    string    `json:"certificateUrl"`
	CertificateNumber string    `gorm:"unique" json:"certificateNumber"`
	IssuedAt          time.Time `json:"issuedAt"`
}
