package catalog

import (
	"errors"

	"learnhub/apperrors"
	"learnhub/models/catalog"

	"gorm.io/gorm"
)

// LessonInput carries the writable attributes of a lesson.
type LessonInput struct {
	Name     string `validate:"required"`
	Content  string
	VideoURL string
	Position int `validate:"gt=0"`
}

// AddLesson creates a lesson at the given position within a course. The
// position must be free; gaps are permitted, duplicates are not.
func (s *Service) AddLesson(courseID uint, input LessonInput) (*catalog.Lesson, error) {
	if err := validateInput("lesson", input); err != nil {
		return nil, err
	}

	var lesson catalog.Lesson
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := activeCourse(tx, courseID); err != nil {
			return err
		}

		var existing catalog.Lesson
		if err := tx.Where("course_id = ? AND position = ?", courseID, input.Position).First(&existing).Error; err == nil {
			return apperrors.Conflict("lesson", existing.ID, "position already used in this course")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.FromStore("lesson", 0, err)
		}

		lesson = catalog.Lesson{
			CourseID: courseID,
			Name:     input.Name,
			Content:  input.Content,
			VideoURL: input.VideoURL,
			Position: input.Position,
		}
		if err := tx.Create(&lesson).Error; err != nil {
			return apperrors.FromStore("lesson", 0, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

// GetLesson fetches a lesson by id, soft-deleted rows included.
func (s *Service) GetLesson(id uint) (*catalog.Lesson, error) {
	var lesson catalog.Lesson
	if err := s.DB.First(&lesson, id).Error; err != nil {
		return nil, apperrors.FromStore("lesson", id, err)
	}
	return &lesson, nil
}

// UpdateLesson updates a lesson's content attributes. Position changes go
// through ReorderLesson so the per-course uniqueness stays enforced.
func (s *Service) UpdateLesson(id uint, name, content, videoURL string) (*catalog.Lesson, error) {
	if name == "" {
		return nil, apperrors.Validation("lesson", "Name", "value out of allowed domain")
	}

	var lesson catalog.Lesson
	if err := s.DB.First(&lesson, id).Error; err != nil {
		return nil, apperrors.FromStore("lesson", id, err)
	}

	lesson.Name = name
	lesson.Content = content
	lesson.VideoURL = videoURL
	if err := s.DB.Save(&lesson).Error; err != nil {
		return nil, apperrors.FromStore("lesson", id, err)
	}
	return &lesson, nil
}

// ReorderLesson swaps the positions of two lessons in the same course. Both
// updates commit together or not at all. The unique index on
// (course_id, position) is checked per statement, so the first lesson is
// parked on a negative position for the duration of the swap.
func (s *Service) ReorderLesson(lessonID, otherID uint) error {
	if lessonID == otherID {
		return apperrors.Validation("lesson", "ID", "cannot swap a lesson with itself")
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		var first, second catalog.Lesson
		if err := tx.First(&first, lessonID).Error; err != nil {
			return apperrors.FromStore("lesson", lessonID, err)
		}
		if err := tx.First(&second, otherID).Error; err != nil {
			return apperrors.FromStore("lesson", otherID, err)
		}
		if first.CourseID != second.CourseID {
			return apperrors.Validation("lesson", "CourseID", "lessons belong to different courses")
		}

		if err := tx.Model(&catalog.Lesson{}).Where("id = ?", first.ID).Update("position", -first.Position).Error; err != nil {
			return apperrors.FromStore("lesson", first.ID, err)
		}
		if err := tx.Model(&catalog.Lesson{}).Where("id = ?", second.ID).Update("position", first.Position).Error; err != nil {
			return apperrors.FromStore("lesson", second.ID, err)
		}
		if err := tx.Model(&catalog.Lesson{}).Where("id = ?", first.ID).Update("position", second.Position).Error; err != nil {
			return apperrors.FromStore("lesson", first.ID, err)
		}
		return nil
	})
}

// DeleteLesson soft-deletes a lesson.
func (s *Service) DeleteLesson(id uint) error {
	return s.setLessonDeleted(id, true)
}

// RestoreLesson reverses a soft delete, preserving position and content.
func (s *Service) RestoreLesson(id uint) error {
	return s.setLessonDeleted(id, false)
}

func (s *Service) setLessonDeleted(id uint, deleted bool) error {
	result := s.DB.Model(&catalog.Lesson{}).Where("id = ?", id).Update("is_deleted", deleted)
	if result.Error != nil {
		return apperrors.FromStore("lesson", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("lesson", id)
	}
	return nil
}

// ListLessons lists a course's lessons in position order, excluding
// soft-deleted rows by default.
func (s *Service) ListLessons(courseID uint, opts ListOptions) ([]catalog.Lesson, error) {
	var lessons []catalog.Lesson
	db := opts.apply(s.DB.Model(&catalog.Lesson{}).Where("course_id = ?", courseID))
	if err := db.Order("position asc").Find(&lessons).Error; err != nil {
		return nil, apperrors.FromStore("lesson", 0, err)
	}
	return lessons, nil
}
