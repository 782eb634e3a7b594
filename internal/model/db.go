package model

import "gorm.io/gorm"

// Migrate creates the entity tables before the junction tables that reference them.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Product{}, &Category{}, &Video{}, &Tag{}, &Tutorial{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&ProductCategory{}, &VideoTag{}, &TutorialTag{}); err != nil {
		return err
	}

	return nil
}
