package community

import (
	"errors"

	"gorm.io/gorm"
)

// Discussion is one node in a lesson's comment forest. ParentID is nil for
// root nodes; when set it must reference a node in the same lesson.
type Discussion struct {
	gorm.Model
	LessonID uint   `gorm:"not null;index" json:"lessonId"`
	ParentID *uint  `gorm:"index" json:"parentId"`
	Body     string `gorm:"type:text;not null" json:"body"`
}

// BeforeSave rejects self-parenting. The append-only creation flow cannot
// produce it, but nothing stops a raw update from trying.
func (d *Discussion) BeforeSave(tx *gorm.DB) error {
	if d.ParentID != nil && *d.ParentID == d.ID {
		return errors.New("discussion cannot be its own parent")
	}
	return nil
}
