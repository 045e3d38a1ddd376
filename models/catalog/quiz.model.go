package catalog

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Quiz is a structured question payload attached to a lesson
type Quiz struct {
	gorm.Model
	LessonID uint           `gorm:"not null;index" json:"lessonId"`
	Title    string         `gorm:"not null" json:"title"`
	Content  datatypes.JSON `json:"content"`
}

// Exercise is an external practice task attached to a lesson
type Exercise struct {
	gorm.Model
	LessonID uint   `gorm:"not null;index" json:"lessonId"`
	Title    string `gorm:"not null" json:"title"`
	URL      string `json:"url"`
}
