// Package catalog implements the catalog store: programs, modules, courses,
// lessons, quizzes, exercises and the many-to-many links between them.
// Catalog rows are never hard-deleted; deletion flips the IsDeleted flag so
// historical enrollments and completions keep resolving.
package catalog

import (
	"learnhub/apperrors"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Service exposes catalog operations over the underlying store.
type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

var validate = validator.New()

// ListOptions controls listing behaviour. Soft-deleted rows are excluded
// unless IncludeDeleted is set (historical views).
type ListOptions struct {
	IncludeDeleted bool
	Page           int
	Limit          int
}

func (o ListOptions) apply(db *gorm.DB) *gorm.DB {
	if !o.IncludeDeleted {
		db = db.Where("is_deleted = ?", false)
	}
	if o.Page > 0 && o.Limit > 0 {
		db = db.Offset((o.Page - 1) * o.Limit).Limit(o.Limit)
	}
	return db
}

func validateInput(entity string, input interface{}) error {
	if err := validate.Struct(input); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return apperrors.Validation(entity, errs[0].Field(), "value out of allowed domain")
		}
		return apperrors.Validation(entity, "", err.Error())
	}
	return nil
}
