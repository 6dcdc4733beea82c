package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"aurastore_back_end/internal/database"
)

const (
	// Limites par endpoint
	LoginMaxAttempts    = 5
	RegisterMaxAttempts = 3

	// Durées de cooldown
	LoginCooldown    = 15 * time.Minute
	RegisterCooldown = 30 * time.Minute
)

// LoginRateLimit limite les tentatives de connexion par email
func LoginRateLimit() gin.HandlerFunc {
	return emailRateLimit("login", LoginMaxAttempts, LoginCooldown)
}

// RegisterRateLimit limite les créations de compte par email
func RegisterRateLimit() gin.HandlerFunc {
	return emailRateLimit("register", RegisterMaxAttempts, RegisterCooldown)
}

func emailRateLimit(action string, maxAttempts int, cooldown time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Lire le body sans le consommer
		bodyBytes, _ := io.ReadAll(c.Request.Body)

		var input struct {
			Email string `json:"email"`
		}
		if err := json.Unmarshal(bodyBytes, &input); err != nil || input.Email == "" {
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
			c.Next()
			return
		}

		// Remettre le body pour les handlers suivants
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		ctx := context.Background()
		cooldownKey := fmt.Sprintf("%s_cooldown:%s", action, input.Email)

		if database.Redis.Exists(ctx, cooldownKey).Val() > 0 {
			ttl := database.Redis.TTL(ctx, cooldownKey).Val()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       fmt.Sprintf("Trop de tentatives. Réessayez dans %d minutes", int(ttl.Minutes())+1),
				"retry_after": int(ttl.Seconds()),
			})
			c.Abort()
			return
		}

		attemptsKey := fmt.Sprintf("%s_attempts:%s", action, input.Email)
		attempts, _ := database.Redis.Incr(ctx, attemptsKey).Result()
		if attempts == 1 {
			database.Redis.Expire(ctx, attemptsKey, cooldown)
		}

		if attempts > int64(maxAttempts) {
			database.Redis.Set(ctx, cooldownKey, "1", cooldown)
			database.Redis.Del(ctx, attemptsKey)
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Trop de tentatives, compte temporairement bloqué",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
