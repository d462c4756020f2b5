package migration

import (
	"github.com/thomaslittle/usrp-backend/internal/domain"
	"gorm.io/gorm"
)

// Run applies schema migrations for all models
func Run(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Department{},
		&domain.User{},
		&domain.ContentItem{},
		&domain.ContentVersion{},
		&domain.ActivityLog{},
		&domain.Notification{},
	)
}
