package repository

import "gorm.io/gorm"

// Migrate creates or updates the schema for every table this package owns.
// Production deployments run real migrations; this is for local development,
// seeding and tests.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel{},
		&listingModel{},
		&bookingModel{},
		&paymentModel{},
		&reviewModel{},
		&emailLogModel{},
	)
}
