package main

import (
	"context"
	"fmt"
	"time"

	apperrors "catalog-service/common/errors"
	"catalog-service/common/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// newEngine builds the gin engine with the catalog middleware chain. The rate
// limiter's eviction loop stops when ctx is done.
func newEngine(ctx context.Context, cfg *Config, log *zap.Logger) (*gin.Engine, error) {
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// Client IPs come from X-Forwarded-For only when the peer is a listed proxy.
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}

	r.Use(apperrors.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	if cfg.RateLimitPerMinute > 0 {
		limiter := middleware.NewRateLimiter(middleware.PerMinute(cfg.RateLimitPerMinute), cfg.RateLimitBurst, 5*time.Minute)
		go limiter.Run(ctx)
		r.Use(middleware.RateLimit(limiter))
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(apperrors.ErrorMiddleware())

	return r, nil
}
