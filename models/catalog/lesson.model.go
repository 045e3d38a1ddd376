package catalog

import "gorm.io/gorm"

// Lesson is a unit of content within a course. Position is unique within the
// owning course; gaps are permitted.
type Lesson struct {
	gorm.Model
	CourseID  uint   `gorm:"not null;uniqueIndex:idx_course_position" json:"courseId"`
	Name      string `gorm:"not null" json:"name"`
	Content   string `gorm:"type:text" json:"content"`
	VideoURL  string `json:"videoUrl"`
	Position  int    `gorm:"not null;uniqueIndex:idx_course_position" json:"position"`
	IsDeleted bool   `gorm:"default:false" json:"isDeleted"`
}
