package main

import (
	"crypto/rand"
	"encoding/base64"
	"log/slog"
)

func generateJWTSecret() (string, error) {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(key), nil
}

func main() {
	secret, err := generateJWTSecret()
	if err != nil {
		slog.Error("Failed to generate JWT secret", "err", err)
		return
	}

	// 通过JWT_SECRET_KEY环境变量注入服务，避免把密钥写进配置文件
	slog.Info("Set JWT_SECRET_KEY to the generated secret", "secret", secret)
}
