// Package identity implements the identity store: users and teaching groups.
package identity

import (
	"errors"

	"learnhub/apperrors"
	"learnhub/config"
	"learnhub/models"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service exposes identity operations over the underlying store.
type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

var validate = validator.New()

// CreateUserInput carries the attributes of a new user.
type CreateUserInput struct {
	Name            string
	Email           string `validate:"required,email"`
	Password        string `validate:"required,min=6"`
	Role            models.Role
	TeachingGroupID *uint
}

// CreateUser registers a user with a bcrypt-hashed password. Email is unique
// across the platform; the role defaults to STUDENT.
func (s *Service) CreateUser(input CreateUserInput) (*models.User, error) {
	if err := validate.Struct(input); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return nil, apperrors.Validation("user", errs[0].Field(), "value out of allowed domain")
		}
		return nil, apperrors.Validation("user", "", err.Error())
	}

	role := input.Role
	if role == "" {
		role = models.RoleStudent
	}
	if !models.ValidRole(role) {
		return nil, apperrors.Validation("user", "Role", "unknown role")
	}

	if input.TeachingGroupID != nil {
		var group models.TeachingGroup
		if err := s.DB.First(&group, *input.TeachingGroupID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.NotFound("teaching_group", *input.TeachingGroupID)
			}
			return nil, apperrors.FromStore("teaching_group", *input.TeachingGroupID, err)
		}
	}

	cost := bcrypt.DefaultCost
	if config.AppConfig != nil {
		cost = config.AppConfig.SaltRound
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), cost)
	if err != nil {
		return nil, apperrors.Validation("user", "Password", "could not hash password")
	}

	var user models.User
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.User
		if err := tx.Where("email = ?", input.Email).First(&existing).Error; err == nil {
			return apperrors.Conflict("user", existing.ID, "email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.FromStore("user", 0, err)
		}

		user = models.User{
			Name:            input.Name,
			Email:           input.Email,
			Password:        string(hashed),
			Role:            role,
			TeachingGroupID: input.TeachingGroupID,
		}
		if err := tx.Create(&user).Error; err != nil {
			return apperrors.FromStore("user", 0, err)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return &user, nil
}

// GetUser fetches a user by id.
func (s *Service) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("id = ? AND is_deleted = ?", id, false).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user", id)
		}
		return nil, apperrors.FromStore("user", id, err)
	}
	return &user, nil
}

// CheckPassword compares a candidate password against the stored hash.
func (s *Service) CheckPassword(id uint, password string) error {
	user, err := s.GetUser(id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return apperrors.Validation("user", "Password", "password mismatch")
	}
	return nil
}

// CreateTeachingGroup creates a group with a unique slug.
func (s *Service) CreateTeachingGroup(slug string) (*models.TeachingGroup, error) {
	if slug == "" {
		return nil, apperrors.Validation("teaching_group", "Slug", "slug is required")
	}

	var group models.TeachingGroup
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.TeachingGroup
		if err := tx.Where("slug = ?", slug).First(&existing).Error; err == nil {
			return apperrors.Conflict("teaching_group", existing.ID, "slug already taken")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.FromStore("teaching_group", 0, err)
		}

		group = models.TeachingGroup{Slug: slug}
		if err := tx.Create(&group).Error; err != nil {
			return apperrors.FromStore("teaching_group", 0, err)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return &group, nil
}

// ListGroupUsers lists the users of a teaching group.
func (s *Service) ListGroupUsers(groupID uint) ([]models.User, error) {
	var users []models.User
	if err := s.DB.Where("teaching_group_id = ? AND is_deleted = ?", groupID, false).Order("id asc").Find(&users).Error; err != nil {
		return nil, apperrors.FromStore("user", 0, err)
	}
	return users, nil
}
