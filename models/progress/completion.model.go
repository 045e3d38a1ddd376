package progress

import (
	"time"

	"gorm.io/gorm"
)

// CompletionStatus defines the status of a program completion record
type CompletionStatus string

const (
	CompletionPending   CompletionStatus = "PENDING"
	CompletionActive    CompletionStatus = "ACTIVE"
	CompletionCompleted CompletionStatus = "COMPLETED"
	CompletionCancelled CompletionStatus = "CANCELLED"
)

var completionTransitions = map[CompletionStatus][]CompletionStatus{
	CompletionPending:   {CompletionActive, CompletionCancelled},
	CompletionActive:    {CompletionCompleted, CompletionCancelled},
	CompletionCompleted: {},
	CompletionCancelled: {},
}

// ValidCompletionStatus reports whether s is in the closed status set.
func ValidCompletionStatus(s CompletionStatus) bool {
	_, ok := completionTransitions[s]
	return ok
}

// CanTransition reports whether a completion may move from one status to another.
func (from CompletionStatus) CanTransition(to CompletionStatus) bool {
	for _, next := range completionTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ProgramCompletion tracks a student's advancement through a program,
// distinct from the commercial enrollment. Unique per (user, program).
// FinishedAt, when set, must not precede StartedAt.
type ProgramCompletion struct {
	gorm.Model
	UserID     uint             `gorm:"not null;uniqueIndex:idx_completion_user_program" json:"userId"`
	ProgramID  uint             `gorm:"not null;uniqueIndex:idx_completion_user_program" json:"programId"`
	Status     CompletionStatus `gorm:"type:varchar(20);default:'PENDING'" json:"status"`
	StartedAt  *time.Time       `json:"startedAt"`
	FinishedAt *time.Time       `json:"finishedAt"`
}
