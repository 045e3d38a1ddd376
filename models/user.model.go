package models

import (
	"gorm.io/gorm"
)

// Role defines the role of a platform user
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleTeacher Role = "TEACHER"
	RoleAdmin   Role = "ADMIN"
)

// ValidRole reports whether r is one of the closed set of roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	gorm.Model
	Name            string `gorm:"default:''" json:"name"`
	Email           string `gorm:"unique;not null" json:"email"`
	Password        string `gorm:"not null" json:"-"` // bcrypt hash
	Role            Role   `gorm:"type:varchar(20);default:'STUDENT'" json:"role"`
	TeachingGroupID *uint  `gorm:"index" json:"teachingGroupId"`
	IsDeleted       bool   `gorm:"default:false" json:"isDeleted"`
}
