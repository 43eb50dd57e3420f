package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	Port          string
	Mode          string // gin mode: debug, release, test
	DBDriver      string // postgres, mysql, sqlite
	DatabaseURL   string
	SessionSecret string
	JWTSecret     string
	JWTTTL        time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration
	MediaRoot     string
	Seed          bool
	LogLevel      string
	SiteURL       string

	envMissing bool
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	envLoaded := godotenv.Load() == nil

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		Mode:          getEnv("GIN_MODE", "debug"),
		DBDriver:      getEnv("DB_DRIVER", "sqlite"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		SessionSecret: getEnv("SESSION_SECRET", "secret_key_change_me"),
		JWTSecret:     getEnv("JWT_SECRET", "jwt_secret_change_me"),
		JWTTTL:        getDuration("JWT_TTL", 24*time.Hour),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getInt("REDIS_DB", 0),
		CacheTTL:      getDuration("CACHE_TTL", time.Minute),
		MediaRoot:     getEnv("MEDIA_ROOT", "./media"),
		Seed:          getBool("SEED", true),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
	cfg.SiteURL = getEnv("SITE_URL", "http://localhost:"+cfg.Port)
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = defaultDSN(cfg.DBDriver)
	}
	cfg.envMissing = !envLoaded
	return cfg
}

// EnvFileMissing reports whether no .env file was found at start-up.
func (c *Config) EnvFileMissing() bool {
	return c.envMissing
}

func defaultDSN(driver string) string {
	switch driver {
	case "postgres":
		return "host=localhost user=postgres password=postgres dbname=blogicum port=5432 sslmode=disable TimeZone=UTC"
	case "mysql":
		return "root:root@tcp(127.0.0.1:3306)/blogicum?charset=utf8mb4&parseTime=True&loc=UTC"
	}
	return "blogicum.db?_pragma=foreign_keys(1)"
}

// NewLogger builds a production logger in release mode and a development
// logger otherwise.
func (c *Config) NewLogger() (*zap.Logger, error) {
	var zc zap.Config
	if c.Mode == "release" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zap.ParseAtomicLevel(c.LogLevel)
	if err == nil {
		zc.Level = level
	}
	return zc.Build()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
