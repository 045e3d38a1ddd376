package catalog

import "gorm.io/gorm"

// Program is the root sellable unit, composed of modules
type Program struct {
	gorm.Model
	Name        string  `gorm:"not null" json:"name"`
	Price       float64 `gorm:"not null;default:0" json:"price"`
	ProgramType string  `gorm:"type:varchar(50)" json:"programType"`
	IsDeleted   bool    `gorm:"default:false" json:"isDeleted"`
}
