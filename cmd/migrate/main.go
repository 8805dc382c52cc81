package main

import (
	"dialog-faq-backend/config"
	"dialog-faq-backend/dao"
	"dialog-faq-backend/model"
	"log/slog"
	"os"
)

// 初始化业务库表结构。源库（原始对话记录）为只读，不在迁移范围内。
func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	if err := config.Init(configPath); err != nil {
		slog.Error("Failed to load config", "path", configPath, "err", err)
		os.Exit(1)
	}

	if err := dao.Init(); err != nil {
		slog.Error("Failed to init database", "err", err)
		os.Exit(1)
	}

	err := dao.DB.AutoMigrate(
		&model.PreparedConversation{},
		&model.PendingFAQ{},
		&model.KnowledgeItem{},
		&model.Scenario{},
		&model.User{},
	)
	if err != nil {
		slog.Error("Migration failed", "err", err)
		os.Exit(1)
	}

	slog.Info("Migration complete")
}
