package model

import "gorm.io/gorm"

type Tutorial struct {
	gorm.Model
	Title       string `gorm:"type:text;not null"`
	Slug        string `gorm:"type:text;unique;not null"`
	AuthorID    uint
	IsPublished bool `gorm:"not null;default:true"`
}

func (Tutorial) TableName() string {
	return "tutorials"
}
