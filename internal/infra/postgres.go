package infra

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"telecore/internal/models/db_models"
)

func InitPostgresql(dsn string, log *zap.Logger) (*gorm.DB, error) {
	connectionPool, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Error("Error connecting to database", zap.Error(err))
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	log.Info("PostgreSQL connection established")
	return connectionPool, nil
}

func ClosePostgresql(db *gorm.DB, log *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Error("Error getting database instance", zap.Error(err))
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Error("Error closing database connection", zap.Error(err))
	} else {
		log.Info("PostgreSQL database connection closed successfully")
	}
}

// Migrate creates the tables and the partial unique index that allows at
// most one ACTIVE subscription per customer and plan.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&db_models.Plan{},
		&db_models.Account{},
		&db_models.Subscription{},
		&db_models.Transaction{},
		&db_models.UsageRecord{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	stmt := fmt.Sprintf(
		`CREATE UNIQUE INDEX IF NOT EXISTS %s ON subscriptions (customer_id, plan_id) WHERE status = '%s'`,
		db_models.ActiveSubscriptionIndex, db_models.SubStatusActive,
	)
	if err := db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("create active subscription index: %w", err)
	}
	return nil
}
