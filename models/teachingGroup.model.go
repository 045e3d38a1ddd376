package models

import "gorm.io/gorm"

// TeachingGroup groups users under a shared slug (e.g. a cohort or school)
type TeachingGroup struct {
	gorm.Model
	Slug      string `gorm:"unique;not null" json:"slug"`
	IsDeleted bool   `gorm:"default:false" json:"isDeleted"`
}
