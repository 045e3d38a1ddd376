package catalog

import (
	"errors"

	"learnhub/apperrors"
	"learnhub/models/catalog"

	"gorm.io/gorm"
)

// ModuleInput carries the writable attributes of a module.
type ModuleInput struct {
	Name        string `validate:"required"`
	Description string
}

// CreateModule creates a reusable module.
func (s *Service) CreateModule(input ModuleInput) (*catalog.Module, error) {
	if err := validateInput("module", input); err != nil {
		return nil, err
	}

	module := catalog.Module{
		Name:        input.Name,
		Description: input.Description,
	}
	if err := s.DB.Create(&module).Error; err != nil {
		return nil, apperrors.FromStore("module", 0, err)
	}
	return &module, nil
}

// GetModule fetches a module by id, soft-deleted rows included.
func (s *Service) GetModule(id uint) (*catalog.Module, error) {
	var module catalog.Module
	if err := s.DB.First(&module, id).Error; err != nil {
		return nil, apperrors.FromStore("module", id, err)
	}
	return &module, nil
}

// UpdateModule updates a module's attributes.
func (s *Service) UpdateModule(id uint, input ModuleInput) (*catalog.Module, error) {
	if err := validateInput("module", input); err != nil {
		return nil, err
	}

	var module catalog.Module
	if err := s.DB.First(&module, id).Error; err != nil {
		return nil, apperrors.FromStore("module", id, err)
	}

	module.Name = input.Name
	module.Description = input.Description
	if err := s.DB.Save(&module).Error; err != nil {
		return nil, apperrors.FromStore("module", id, err)
	}
	return &module, nil
}

// DeleteModule soft-deletes a module; existing program links and historical
// records keep resolving.
func (s *Service) DeleteModule(id uint) error {
	return s.setModuleDeleted(id, true)
}

// RestoreModule reverses a soft delete, preserving all attributes.
func (s *Service) RestoreModule(id uint) error {
	return s.setModuleDeleted(id, false)
}

func (s *Service) setModuleDeleted(id uint, deleted bool) error {
	result := s.DB.Model(&catalog.Module{}).Where("id = ?", id).Update("is_deleted", deleted)
	if result.Error != nil {
		return apperrors.FromStore("module", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("module", id)
	}
	return nil
}

// ListModules lists modules, excluding soft-deleted rows by default.
func (s *Service) ListModules(opts ListOptions) ([]catalog.Module, error) {
	var modules []catalog.Module
	if err := opts.apply(s.DB.Model(&catalog.Module{})).Order("created_at desc").Find(&modules).Error; err != nil {
		return nil, apperrors.FromStore("module", 0, err)
	}
	return modules, nil
}

func activeModule(db *gorm.DB, id uint) (*catalog.Module, error) {
	var module catalog.Module
	if err := db.Where("id = ? AND is_deleted = ?", id, false).First(&module).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("module", id)
		}
		return nil, apperrors.FromStore("module", id, err)
	}
	return &module, nil
}
