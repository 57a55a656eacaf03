package db

import (
	"fmt"

	"gorm.io/gorm"

	paymentrepo "github.com/yungbote/payments-example/internal/data/repos/payments"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&paymentrepo.PaymentRow{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

func (s *Service) AutoMigrateAll() error {
	s.log.Info("Running auto migrations...")
	return AutoMigrateAll(s.db)
}
