package repository

import "gorm.io/gorm"

// AutoMigrate creates or updates the tables backing every repository in
// this package. The row models are private, so schema setup lives here
// rather than in the callers.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel{},
		&roomModel{},
		&bookingModel{},
	)
}
