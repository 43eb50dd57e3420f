package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("CACHE_TTL", "")
	t.Setenv("PORT", "")

	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Expected port 8080, got %s", cfg.Port)
	}
	if cfg.DBDriver != "sqlite" {
		t.Errorf("Expected sqlite driver, got %s", cfg.DBDriver)
	}
	if cfg.DatabaseURL != defaultDSN("sqlite") {
		t.Errorf("Unexpected default DSN %s", cfg.DatabaseURL)
	}
	if cfg.CacheTTL != time.Minute {
		t.Errorf("Expected 1m cache TTL, got %s", cfg.CacheTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "host=db")
	t.Setenv("CACHE_TTL", "5s")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("SEED", "false")

	cfg := Load()
	if cfg.DBDriver != "postgres" || cfg.DatabaseURL != "host=db" {
		t.Errorf("Unexpected database settings: %s %s", cfg.DBDriver, cfg.DatabaseURL)
	}
	if cfg.CacheTTL != 5*time.Second {
		t.Errorf("Expected 5s cache TTL, got %s", cfg.CacheTTL)
	}
	if cfg.RedisDB != 3 {
		t.Errorf("Expected redis db 3, got %d", cfg.RedisDB)
	}
	if cfg.Seed {
		t.Error("Expected seeding to be disabled")
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("CACHE_TTL", "soon")
	t.Setenv("REDIS_DB", "x")

	cfg := Load()
	if cfg.CacheTTL != time.Minute {
		t.Errorf("Expected fallback TTL, got %s", cfg.CacheTTL)
	}
	if cfg.RedisDB != 0 {
		t.Errorf("Expected fallback redis db, got %d", cfg.RedisDB)
	}
}
