package catalog

import (
	"errors"

	"learnhub/apperrors"
	"learnhub/models/catalog"

	"gorm.io/gorm"
)

// CourseInput carries the writable attributes of a course.
type CourseInput struct {
	Name        string `validate:"required"`
	Description string
}

// CreateCourse creates a reusable course.
func (s *Service) CreateCourse(input CourseInput) (*catalog.Course, error) {
	if err := validateInput("course", input); err != nil {
		return nil, err
	}

	course := catalog.Course{
		Name:        input.Name,
		Description: input.Description,
	}
	if err := s.DB.Create(&course).Error; err != nil {
		return nil, apperrors.FromStore("course", 0, err)
	}
	return &course, nil
}

// GetCourse fetches a course by id, soft-deleted rows included.
func (s *Service) GetCourse(id uint) (*catalog.Course, error) {
	var course catalog.Course
	if err := s.DB.First(&course, id).Error; err != nil {
		return nil, apperrors.FromStore("course", id, err)
	}
	return &course, nil
}

// UpdateCourse updates a course's attributes.
func (s *Service) UpdateCourse(id uint, input CourseInput) (*catalog.Course, error) {
	if err := validateInput("course", input); err != nil {
		return nil, err
	}

	var course catalog.Course
	if err := s.DB.First(&course, id).Error; err != nil {
		return nil, apperrors.FromStore("course", id, err)
	}

	course.Name = input.Name
	course.Description = input.Description
	if err := s.DB.Save(&course).Error; err != nil {
		return nil, apperrors.FromStore("course", id, err)
	}
	return &course, nil
}

// DeleteCourse soft-deletes a course.
func (s *Service) DeleteCourse(id uint) error {
	return s.setCourseDeleted(id, true)
}

// RestoreCourse reverses a soft delete, preserving all attributes.
func (s *Service) RestoreCourse(id uint) error {
	return s.setCourseDeleted(id, false)
}

func (s *Service) setCourseDeleted(id uint, deleted bool) error {
	result := s.DB.Model(&catalog.Course{}).Where("id = ?", id).Update("is_deleted", deleted)
	if result.Error != nil {
		return apperrors.FromStore("course", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("course", id)
	}
	return nil
}

// ListCourses lists courses, excluding soft-deleted rows by default.
func (s *Service) ListCourses(opts ListOptions) ([]catalog.Course, error) {
	var courses []catalog.Course
	if err := opts.apply(s.DB.Model(&catalog.Course{})).Order("created_at desc").Find(&courses).Error; err != nil {
		return nil, apperrors.FromStore("course", 0, err)
	}
	return courses, nil
}

func activeCourse(db *gorm.DB, id uint) (*catalog.Course, error) {
	var course catalog.Course
	if err := db.Where("id = ? AND is_deleted = ?", id, false).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("course", id)
		}
		return nil, apperrors.FromStore("course", id, err)
	}
	return &course, nil
}
