package catalog

import "gorm.io/gorm"

// Course is a reusable grouping of lessons within modules
type Course struct {
	gorm.Model
	Name        string `gorm:"not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	IsDeleted   bool   `gorm:"default:false" json:"isDeleted"`
}
