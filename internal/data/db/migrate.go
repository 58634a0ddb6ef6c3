package db

import (
	"fmt"

	types "github.com/yungbote/vamshavali-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(types.Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func (s *Service) AutoMigrate() error {
	s.log.Info("running auto migrate")
	return AutoMigrateAll(s.db)
}
