package dao

import (
	"dialog-faq-backend/config"
	"fmt"
	"log/slog"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	// SourceDB 原始对话记录所在的源库（只读）
	SourceDB *gorm.DB

	// DB 业务库
	DB *gorm.DB
)

func Init() error {
	var err error
	SourceDB, err = open(config.Cfg.Database.SourceDSN)
	if err != nil {
		return fmt.Errorf("failed to connect to source database: %v", err)
	}

	DB, err = open(config.Cfg.Database.TargetDSN)
	if err != nil {
		return fmt.Errorf("failed to connect to target database: %v", err)
	}

	slog.Info("Database connections established")
	return nil
}

func open(dsn string) (*gorm.DB, error) {
	return gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),

		// 将驱动的唯一约束冲突翻译为 gorm.ErrDuplicatedKey
		TranslateError: true,
	})
}
