package commerce

import "gorm.io/gorm"

// EnrollmentStatus defines the status of an enrollment
type EnrollmentStatus string

const (
	EnrollmentPending   EnrollmentStatus = "PENDING"
	EnrollmentActive    EnrollmentStatus = "ACTIVE"
	EnrollmentCancelled EnrollmentStatus = "CANCELLED"
	EnrollmentCompleted EnrollmentStatus = "COMPLETED"
)

// enrollmentTransitions maps each state to the states it may move to.
// COMPLETED and CANCELLED are terminal.
var enrollmentTransitions = map[EnrollmentStatus][]EnrollmentStatus{
	EnrollmentPending:   {EnrollmentActive, EnrollmentCancelled},
	EnrollmentActive:    {EnrollmentCompleted, EnrollmentCancelled},
	EnrollmentCancelled: {},
	EnrollmentCompleted: {},
}

// ValidEnrollmentStatus reports whether s is in the closed status set.
func ValidEnrollmentStatus(s EnrollmentStatus) bool {
	_, ok := enrollmentTransitions[s]
	return ok
}

// CanTransition reports whether an enrollment may move from one status to another.
func (from EnrollmentStatus) CanTransition(to EnrollmentStatus) bool {
	for _, next := range enrollmentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Enrollment tracks a user's purchase relationship to a program.
// At most one non-cancelled enrollment may exist per (user, program).
type Enrollment struct {
	gorm.Model
	UserID    uint             `gorm:"not null;index:idx_enrollment_user_program" json:"userId"`
	ProgramID uint             `gorm:"not null;index:idx_enrollment_user_program" json:"programId"`
	Status    EnrollmentStatus `gorm:"type:varchar(20);default:'PENDING'" json:"status"`
}
