package db

import (
	"fmt"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/logger"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Connect はDBに接続して *gorm.DB を返す。SQLのログは zap に流す。
func Connect(cfg config.Config, zl *zap.Logger) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		Logger: logger.NewGormLogger(zl, logger.GormLevel(cfg.LogLevel, cfg.IsProduction())),
	}

	if cfg.DBDriver == "sqlite" {
		return gorm.Open(sqlite.Open(cfg.SQLitePath), gcfg)
	}

	// DATABASE_URL があれば最優先で使う
	if cfg.DatabaseURL != "" {
		return gorm.Open(postgres.Open(cfg.DatabaseURL), gcfg)
	}

	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDB, cfg.PostgresSSLMode,
	)

	return gorm.Open(postgres.Open(dsn), gcfg)
}

// Migrate はテーブルを作る
func Migrate(db *gorm.DB, zl *zap.Logger) error {
	if err := db.AutoMigrate(
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.CartSnapshot{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	zl.Info("database migrated")
	return nil
}
