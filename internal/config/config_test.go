package config

import (
	"log/slog"
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"MONGO_DB", "PORT", "SESSION_TTL", "CLOSENESS_THRESHOLD", "CORS_ALLOWED_ORIGINS", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.MongoDB != "dronediag" {
		t.Errorf("expected default db dronediag, got %q", cfg.MongoDB)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("expected 30m session ttl, got %v", cfg.SessionTTL)
	}
	if cfg.ClosenessThreshold != 2 {
		t.Errorf("expected threshold 2, got %v", cfg.ClosenessThreshold)
	}
	if cfg.SlogLevel() != slog.LevelInfo {
		t.Errorf("expected info level, got %v", cfg.SlogLevel())
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SESSION_TTL", "5m")
	t.Setenv("CLOSENESS_THRESHOLD", "0")
	t.Setenv("RATE_LIMIT_BURST", "7")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("REDIS_URI", "redis://cache:6379")
	t.Setenv("TRUST_PROXY", "true")

	cfg := Load()
	if cfg.SessionTTL != 5*time.Minute {
		t.Errorf("expected 5m, got %v", cfg.SessionTTL)
	}
	if cfg.ClosenessThreshold != 0 {
		t.Errorf("expected threshold 0, got %v", cfg.ClosenessThreshold)
	}
	if cfg.RateLimitBurst != 7 {
		t.Errorf("expected burst 7, got %d", cfg.RateLimitBurst)
	}
	if want := []string{"https://a.example", "https://b.example"}; !reflect.DeepEqual(cfg.CORSAllowedOrigins, want) {
		t.Errorf("expected %v, got %v", want, cfg.CORSAllowedOrigins)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", cfg.SlogLevel())
	}
	if !cfg.TrustProxy {
		t.Error("expected TRUST_PROXY to be honoured")
	}
	if cfg.RedisAddr() != "cache:6379" {
		t.Errorf("expected scheme stripped, got %q", cfg.RedisAddr())
	}
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("SESSION_TTL", "soon")
	t.Setenv("RATE_LIMIT_RPS", "fast")

	cfg := Load()
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("expected default ttl, got %v", cfg.SessionTTL)
	}
	if cfg.RateLimitRPS != 20 {
		t.Errorf("expected default rps, got %v", cfg.RateLimitRPS)
	}
}
