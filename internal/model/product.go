package model

import "gorm.io/gorm"

// Product is the owning side of product_categories.
type Product struct {
	gorm.Model
	Name string `gorm:"type:text;not null"`
}

func (Product) TableName() string {
	return "products"
}

// Category is the target side of product_categories.
type Category struct {
	gorm.Model
	Name        string  `gorm:"type:text;unique;not null"`
	Description *string `gorm:"type:text"`
}

func (Category) TableName() string {
	return "categories"
}
