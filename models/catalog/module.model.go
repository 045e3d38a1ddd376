package catalog

import "gorm.io/gorm"

// Module is a reusable grouping of courses within programs
type Module struct {
	gorm.Model
	Name        string `gorm:"not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	IsDeleted   bool   `gorm:"default:false" json:"isDeleted"`
}

