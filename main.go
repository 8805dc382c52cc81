package main

import (
	"dialog-faq-backend/config"
	"dialog-faq-backend/dao"
	"dialog-faq-backend/router"
	"dialog-faq-backend/service/scheduler"
	"log/slog"
	"os"
)

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

	s := scheduler.New()
	if err := s.Start(); err != nil {
		slog.Error("Failed to start scheduler", "err", err)
		os.Exit(1)
	}
	defer s.Shutdown()

	r := router.Register()
	if err := r.Run(":" + config.Cfg.Server.Port); err != nil {
		slog.Error("Server exited", "err", err)
		os.Exit(1)
	}
}
