package catalog

import (
	"errors"

	"learnhub/apperrors"
	"learnhub/models/catalog"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuizInput carries the writable attributes of a quiz.
type QuizInput struct {
	Title   string `validate:"required"`
	Content datatypes.JSON
}

// ExerciseInput carries the writable attributes of an exercise.
type ExerciseInput struct {
	Title string `validate:"required"`
	URL   string
}

// AddQuiz attaches a quiz to a lesson.
func (s *Service) AddQuiz(lessonID uint, input QuizInput) (*catalog.Quiz, error) {
	if err := validateInput("quiz", input); err != nil {
		return nil, err
	}
	if err := s.lessonExists(lessonID); err != nil {
		return nil, err
	}

	quiz := catalog.Quiz{LessonID: lessonID, Title: input.Title, Content: input.Content}
	if err := s.DB.Create(&quiz).Error; err != nil {
		return nil, apperrors.FromStore("quiz", 0, err)
	}
	return &quiz, nil
}

// AddExercise attaches an exercise to a lesson.
func (s *Service) AddExercise(lessonID uint, input ExerciseInput) (*catalog.Exercise, error) {
	if err := validateInput("exercise", input); err != nil {
		return nil, err
	}
	if err := s.lessonExists(lessonID); err != nil {
		return nil, err
	}

	exercise := catalog.Exercise{LessonID: lessonID, Title: input.Title, URL: input.URL}
	if err := s.DB.Create(&exercise).Error; err != nil {
		return nil, apperrors.FromStore("exercise", 0, err)
	}
	return &exercise, nil
}

// ListQuizzes lists a lesson's quizzes.
func (s *Service) ListQuizzes(lessonID uint) ([]catalog.Quiz, error) {
	var quizzes []catalog.Quiz
	if err := s.DB.Where("lesson_id = ?", lessonID).Order("id asc").Find(&quizzes).Error; err != nil {
		return nil, apperrors.FromStore("quiz", 0, err)
	}
	return quizzes, nil
}

// ListExercises lists a lesson's exercises.
func (s *Service) ListExercises(lessonID uint) ([]catalog.Exercise, error) {
	var exercises []catalog.Exercise
	if err := s.DB.Where("lesson_id = ?", lessonID).Order("id asc").Find(&exercises).Error; err != nil {
		return nil, apperrors.FromStore("exercise", 0, err)
	}
	return exercises, nil
}

func (s *Service) lessonExists(lessonID uint) error {
	var lesson catalog.Lesson
	if err := s.DB.Where("id = ? AND is_deleted = ?", lessonID, false).First(&lesson).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("lesson", lessonID)
		}
		return apperrors.FromStore("lesson", lessonID, err)
	}
	return nil
}
