package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/dukaanly/dukaanly-api/internal/config"
)

// defaults used when the deployment config leaves CORS unset, matching the
// local shop-app dev setup
var (
	devOrigins     = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	defaultMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	defaultHeaders = []string{"Accept", "Authorization", "Content-Type", "Origin", "X-Request-ID", "Idempotency-Key"}
)

// CORSMiddleware creates a CORS middleware from the app configuration
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     cfg.AllowedMethods,
		AllowHeaders:     cfg.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowOrigins = devOrigins
	}
	if len(corsConfig.AllowMethods) == 0 {
		corsConfig.AllowMethods = defaultMethods
	}
	if len(corsConfig.AllowHeaders) == 0 {
		corsConfig.AllowHeaders = defaultHeaders
	}

	// The billing endpoints refuse writes without Idempotency-Key, so the
	// browser must always be allowed to send it
	corsConfig.AllowHeaders = ensureHeader(corsConfig.AllowHeaders, "Idempotency-Key")

	return cors.New(corsConfig)
}

func ensureHeader(headers []string, name string) []string {
	for _, h := range headers {
		if h == name {
			return headers
		}
	}
	return append(headers, name)
}
