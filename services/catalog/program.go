package catalog

import (
	"errors"

	"learnhub/apperrors"
	"learnhub/models/catalog"

	"gorm.io/gorm"
)

// ProgramInput carries the writable attributes of a program.
type ProgramInput struct {
	Name        string  `validate:"required"`
	Price       float64 `validate:"gte=0"`
	ProgramType string
}

// CreateProgram creates a new sellable program.
func (s *Service) CreateProgram(input ProgramInput) (*catalog.Program, error) {
	if err := validateInput("program", input); err != nil {
		return nil, err
	}

	program := catalog.Program{
		Name:        input.Name,
		Price:       input.Price,
		ProgramType: input.ProgramType,
	}
	if err := s.DB.Create(&program).Error; err != nil {
		return nil, apperrors.FromStore("program", 0, err)
	}
	return &program, nil
}

// GetProgram fetches a program by id, soft-deleted rows included. Historical
// commerce records must keep resolving their program reference.
func (s *Service) GetProgram(id uint) (*catalog.Program, error) {
	var program catalog.Program
	if err := s.DB.First(&program, id).Error; err != nil {
		return nil, apperrors.FromStore("program", id, err)
	}
	return &program, nil
}

// UpdateProgram updates a program's attributes.
func (s *Service) UpdateProgram(id uint, input ProgramInput) (*catalog.Program, error) {
	if err := validateInput("program", input); err != nil {
		return nil, err
	}

	var program catalog.Program
	if err := s.DB.First(&program, id).Error; err != nil {
		return nil, apperrors.FromStore("program", id, err)
	}

	program.Name = input.Name
	program.Price = input.Price
	program.ProgramType = input.ProgramType
	if err := s.DB.Save(&program).Error; err != nil {
		return nil, apperrors.FromStore("program", id, err)
	}
	return &program, nil
}

// DeleteProgram soft-deletes a program. The row remains referenceable.
func (s *Service) DeleteProgram(id uint) error {
	return s.setProgramDeleted(id, true)
}

// RestoreProgram reverses a soft delete.
func (s *Service) RestoreProgram(id uint) error {
	return s.setProgramDeleted(id, false)
}

func (s *Service) setProgramDeleted(id uint, deleted bool) error {
	result := s.DB.Model(&catalog.Program{}).Where("id = ?", id).Update("is_deleted", deleted)
	if result.Error != nil {
		return apperrors.FromStore("program", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("program", id)
	}
	return nil
}

// ListPrograms lists programs, excluding soft-deleted rows by default.
func (s *Service) ListPrograms(opts ListOptions) ([]catalog.Program, error) {
	var programs []catalog.Program
	if err := opts.apply(s.DB.Model(&catalog.Program{})).Order("created_at desc").Find(&programs).Error; err != nil {
		return nil, apperrors.FromStore("program", 0, err)
	}
	return programs, nil
}

// activeProgram loads a program that is not soft-deleted.
func activeProgram(db *gorm.DB, id uint) (*catalog.Program, error) {
	var program catalog.Program
	if err := db.Where("id = ? AND is_deleted = ?", id, false).First(&program).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("program", id)
		}
		return nil, apperrors.FromStore("program", id, err)
	}
	return &program, nil
}
