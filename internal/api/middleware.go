package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/besufkad2328-dev/SEED/pkg/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const stateKeyCtx = "stateKey"

// AuthMiddleware проверяет Bearer токен. Для websocket токен можно
// передать параметром ?token=, браузер не умеет слать заголовки.
func AuthMiddleware(tokens *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Query("token")
		if header := c.GetHeader("Authorization"); header != "" {
			if !strings.HasPrefix(header, "Bearer ") {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
				return
			}
			raw = strings.TrimPrefix(header, "Bearer ")
		}
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		key, err := tokens.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(stateKeyCtx, key)
		c.Next()
	}
}

// RequestLogger пишет каждый запрос в zap
func RequestLogger(log *utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func stateKey(c *gin.Context) string {
	return c.GetString(stateKeyCtx)
}
