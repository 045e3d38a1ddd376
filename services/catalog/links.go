package catalog

import (
	"errors"

	"learnhub/apperrors"
	"learnhub/models/catalog"

	"gorm.io/gorm"
)

// LinkModuleToProgram attaches a module to a program. Linking an already
// linked pair is a no-op.
func (s *Service) LinkModuleToProgram(programID, moduleID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := activeProgram(tx, programID); err != nil {
			return err
		}
		if _, err := activeModule(tx, moduleID); err != nil {
			return err
		}

		var link catalog.ProgramModule
		err := tx.Where("program_id = ? AND module_id = ?", programID, moduleID).First(&link).Error
		if err == nil {
			return nil // already linked
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.FromStore("program_module", 0, err)
		}

		link = catalog.ProgramModule{ProgramID: programID, ModuleID: moduleID}
		if err := tx.Create(&link).Error; err != nil {
			// a concurrent call may have inserted the pair first
			translated := apperrors.FromStore("program_module", 0, err)
			if apperrors.IsConflict(translated) {
				return nil
			}
			return translated
		}
		return nil
	})
}

// UnlinkModuleFromProgram removes a program-module link. Unlinking a pair
// that is not linked is a no-op.
func (s *Service) UnlinkModuleFromProgram(programID, moduleID uint) error {
	if err := s.DB.Where("program_id = ? AND module_id = ?", programID, moduleID).Delete(&catalog.ProgramModule{}).Error; err != nil {
		return apperrors.FromStore("program_module", 0, err)
	}
	return nil
}

// ListProgramModules lists the modules linked to a program, excluding
// soft-deleted modules by default.
func (s *Service) ListProgramModules(programID uint, opts ListOptions) ([]catalog.Module, error) {
	var modules []catalog.Module
	db := s.DB.Model(&catalog.Module{}).
		Joins("JOIN program_modules ON program_modules.module_id = modules.id").
		Where("program_modules.program_id = ?", programID)
	if !opts.IncludeDeleted {
		db = db.Where("modules.is_deleted = ?", false)
	}
	if err := db.Order("modules.id asc").Find(&modules).Error; err != nil {
		return nil, apperrors.FromStore("module", 0, err)
	}
	return modules, nil
}

// LinkCourseToModule attaches a course to a module. Linking an already
// linked pair is a no-op.
func (s *Service) LinkCourseToModule(moduleID, courseID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := activeModule(tx, moduleID); err != nil {
			return err
		}
		if _, err := activeCourse(tx, courseID); err != nil {
			return err
		}

		var link catalog.ModuleCourse
		err := tx.Where("module_id = ? AND course_id = ?", moduleID, courseID).First(&link).Error
		if err == nil {
			return nil // already linked
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.FromStore("module_course", 0, err)
		}

		link = catalog.ModuleCourse{ModuleID: moduleID, CourseID: courseID}
		if err := tx.Create(&link).Error; err != nil {
			translated := apperrors.FromStore("module_course", 0, err)
			if apperrors.IsConflict(translated) {
				return nil
			}
			return translated
		}
		return nil
	})
}

// UnlinkCourseFromModule removes a module-course link. Unlinking a pair that
// is not linked is a no-op.
func (s *Service) UnlinkCourseFromModule(moduleID, courseID uint) error {
	if err := s.DB.Where("module_id = ? AND course_id = ?", moduleID, courseID).Delete(&catalog.ModuleCourse{}).Error; err != nil {
		return apperrors.FromStore("module_course", 0, err)
	}
	return nil
}

// ListModuleCourses lists the courses linked to a module, excluding
// soft-deleted courses by default.
func (s *Service) ListModuleCourses(moduleID uint, opts ListOptions) ([]catalog.Course, error) {
	var courses []catalog.Course
	db := s.DB.Model(&catalog.Course{}).
		Joins("JOIN module_courses ON module_courses.course_id = courses.id").
		Where("module_courses.module_id = ?", moduleID)
	if !opts.IncludeDeleted {
		db = db.Where("courses.is_deleted = ?", false)
	}
	if err := db.Order("courses.id asc").Find(&courses).Error; err != nil {
		return nil, apperrors.FromStore("course", 0, err)
	}
	return courses, nil
}
