package database

import (
	"fmt"

	"github.com/blues/mintpad/internal/config"
	"github.com/blues/mintpad/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Init 按配置连接数据库并执行迁移
func Init(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := Open(cfg, logger.Default.LogMode(logger.Warn))
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Open 只建立连接，不做迁移
func Open(cfg config.DatabaseConfig, gormLogger logger.Interface) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.Path)
	case "", "postgres":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Migrate 自动迁移
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.CollectionModel{},
		&model.PhaseModel{},
		&model.WhitelistModel{},
		&model.WhitelistEntryModel{},
		&model.LaunchTransitionModel{},
		&model.MintRecordModel{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
