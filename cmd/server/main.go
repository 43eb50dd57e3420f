package main

import (
	"context"
	"log"

	"blogicum/internal/cache"
	"blogicum/internal/config"
	"blogicum/internal/db"
	"blogicum/internal/router"
	"blogicum/internal/services"
	"blogicum/internal/utils"
	"blogicum/web"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const lruSize = 512

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.Mode)

	logger, err := cfg.NewLogger()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	if cfg.EnvFileMissing() {
		logger.Info("No .env file found, finding env vars from system")
	}

	// Initialize Database
	conn, err := db.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("open database", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	if cfg.Seed {
		if err := db.Seed(conn, logger); err != nil {
			logger.Fatal("seed database", zap.Error(err))
		}
	}

	listings := newCache(cfg, logger)

	media := services.NewMediaStore(cfg.MediaRoot)
	posts := services.NewPostService(conn, listings, cfg.CacheTTL, media)
	comments := services.NewCommentService(conn, posts, listings)
	users := services.NewUserService(conn, listings)

	mail, err := services.NewMailService(web.EmailFS(), logger)
	if err != nil {
		logger.Fatal("init mail service", zap.Error(err))
	}

	r, err := router.New(router.Deps{
		Posts:         posts,
		Comments:      comments,
		Users:         users,
		Tokens:        utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL),
		Captcha:       services.NewCaptchaService(),
		Mail:          mail,
		Log:           logger,
		SessionSecret: cfg.SessionSecret,
		MediaRoot:     media.Root(),
		SiteURL:       cfg.SiteURL,
	})
	if err != nil {
		logger.Fatal("build router", zap.Error(err))
	}

	logger.Info("Blogicum server starting", zap.String("port", cfg.Port), zap.String("db", cfg.DBDriver))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// newCache picks the listing cache backend: Redis when configured, none when
// CACHE_TTL is zero, an in-process LRU otherwise.
func newCache(cfg *config.Config, logger *zap.Logger) cache.Cache {
	if cfg.CacheTTL <= 0 {
		return cache.Nop{}
	}
	if cfg.RedisAddr != "" {
		c, err := cache.NewRedis(context.Background(), &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, logger)
		if err == nil {
			logger.Info("listing cache: redis", zap.String("addr", cfg.RedisAddr))
			return c
		}
		logger.Warn("redis unavailable, falling back to in-process cache", zap.Error(err))
	}
	c, err := cache.NewLRU(lruSize)
	if err != nil {
		logger.Fatal("init cache", zap.Error(err))
	}
	return c
}
