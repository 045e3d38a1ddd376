package catalog

import "time"

// Association records for the two many-to-many relations. Links carry no
// history; unlinking removes the row outright, so re-linking never trips the
// composite uniqueness.

// ProgramModule links a program to a module (many-to-many)
type ProgramModule struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	ProgramID uint      `gorm:"not null;uniqueIndex:idx_program_module" json:"programId"`
	ModuleID  uint      `gorm:"not null;uniqueIndex:idx_program_module" json:"moduleId"`
}

// ModuleCourse links a module to a course (many-to-many)
type ModuleCourse struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	ModuleID  uint      `gorm:"not null;uniqueIndex:idx_module_course" json:"moduleId"`
	CourseID  uint      `gorm:"not null;uniqueIndex:idx_module_course" json:"courseId"`
}
