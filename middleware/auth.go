package middleware

import (
	"dialog-faq-backend/config"
	"dialog-faq-backend/model"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	Username   string `json:"username"`
	ScenarioID int64  `json:"scenario_id"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

func GenerateToken(username string, scenarioID int64, role string) (string, error) {
	expire := time.Duration(config.Cfg.JWT.ExpireMinutes) * time.Minute
	claims := Claims{
		Username:   username,
		ScenarioID: scenarioID,
		Role:       role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expire)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	secretKey := []byte(config.Cfg.JWT.SecretKey)
	return token.SignedString(secretKey)
}

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			slog.Info("Authorization header required")
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			slog.Info("Invalid authorization format")
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		tokenString := parts[1]
		claims := &Claims{}

		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(config.Cfg.JWT.SecretKey), nil
		})

		if err != nil || !token.Valid {
			slog.Info("Invalid token", "err", err, "username", claims.Username)
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		c.Set("username", claims.Username)
		c.Set("scenario_id", claims.ScenarioID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// AdminOnly 仅允许admin角色访问
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != model.RoleAdmin {
			slog.Info("Admin role required", "username", c.GetString("username"))
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}
