package postgres

import (
	"log"

	"github.com/craftlane/settlement-service/internal/config"
	"github.com/craftlane/settlement-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.SettlementConfig) *gorm.DB {
	dsn := cfg.OrderDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(&models.OrderModel{}, &models.OrderItemModel{}, &models.ProcessedEventModel{})

	return db
}
