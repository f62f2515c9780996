package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.App.Port != "8080" {
		t.Errorf("default port = %q", cfg.App.Port)
	}
	if cfg.Auth.AccessTokenTTL() != 43200*time.Minute {
		t.Errorf("access token TTL = %v, want 30 days", cfg.Auth.AccessTokenTTL())
	}
	if cfg.Auth.BcryptCost != 12 {
		t.Errorf("bcrypt cost = %d", cfg.Auth.BcryptCost)
	}
	if cfg.RateLimit.LoginLimit != 5 || cfg.RateLimit.Window() != time.Minute {
		t.Errorf("rate limit = %d/%v", cfg.RateLimit.LoginLimit, cfg.RateLimit.Window())
	}
	if cfg.RateLimit.FailOpen {
		t.Error("rate limiter should fail closed by default")
	}
	if cfg.Cache.TTL() != time.Hour {
		t.Errorf("cache TTL = %v", cfg.Cache.TTL())
	}
	if cfg.Metrics.Enabled {
		t.Error("metrics should be off by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9999")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "15")
	t.Setenv("RATE_LIMIT_LOGIN_ATTEMPTS", "3")
	t.Setenv("RATE_LIMIT_WINDOW_SECONDS", "120")
	t.Setenv("RATE_LIMIT_FAIL_OPEN", "true")
	t.Setenv("CACHE_TTL_SECONDS", "60")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.App.Port != "9999" {
		t.Errorf("port = %q", cfg.App.Port)
	}
	if cfg.Auth.AccessTokenTTL() != 15*time.Minute {
		t.Errorf("access token TTL = %v", cfg.Auth.AccessTokenTTL())
	}
	if cfg.RateLimit.LoginLimit != 3 {
		t.Errorf("login limit = %d", cfg.RateLimit.LoginLimit)
	}
	if cfg.RateLimit.Window() != 2*time.Minute {
		t.Errorf("window = %v", cfg.RateLimit.Window())
	}
	if !cfg.RateLimit.FailOpen {
		t.Error("fail open override ignored")
	}
	if cfg.Cache.TTL() != time.Minute {
		t.Errorf("cache TTL = %v", cfg.Cache.TTL())
	}
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed REDIS_DB")
	}
}

func TestAddr(t *testing.T) {
	app := AppConfig{Host: "127.0.0.1", Port: "8080"}
	if app.Addr() != "127.0.0.1:8080" {
		t.Errorf("Addr = %q", app.Addr())
	}
}

func TestTTLFallbacks(t *testing.T) {
	var auth AuthConfig
	if auth.AccessTokenTTL() != 43200*time.Minute {
		t.Errorf("zero access TTL fallback = %v", auth.AccessTokenTTL())
	}
	if auth.RefreshTokenTTL() != 60*24*time.Hour {
		t.Errorf("zero refresh TTL fallback = %v", auth.RefreshTokenTTL())
	}

	var rate RateLimitConfig
	if rate.Window() != time.Minute {
		t.Errorf("zero window fallback = %v", rate.Window())
	}
}
