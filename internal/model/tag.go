package model

import "gorm.io/gorm"

// Tag is shared by videos and tutorials.
type Tag struct {
	gorm.Model
	Name        string  `gorm:"type:text;unique;not null"`
	Description *string `gorm:"type:text"`
}

func (Tag) TableName() string {
	return "tags"
}
