package database

import (
	"fmt"

	"github.com/TeguiHD/Portafolio-sub005/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Permission{},
		&models.UserPermission{},
		&models.Currency{},
		&models.Account{},
		&models.Transaction{},
		&models.Category{},
		&models.CategoryRule{},
		&models.Budget{},
		&models.Goal{},
		&models.Quotation{},
		&models.CVSection{},
		&models.AuditLog{},
		&models.SecurityEvent{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
