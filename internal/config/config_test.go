package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "local")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "lawbridge")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("REDIS_PORT", "6379")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("EXOTEL_ACCOUNT_SID", "acct1")
	t.Setenv("EXOTEL_EXOPHONE", "+914035166598")
}

func TestLoad_AppliesDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DB.SSLMode != "disable" {
		t.Fatalf("expected sslmode default disable, got %q", cfg.DB.SSLMode)
	}
	if cfg.Auth.AccessTokenTTL != 15*time.Minute {
		t.Fatalf("expected access ttl default, got %v", cfg.Auth.AccessTokenTTL)
	}
	if cfg.Exotel.BaseURL != "https://api.exotel.com" {
		t.Fatalf("expected exotel base url default, got %q", cfg.Exotel.BaseURL)
	}
	if cfg.Exotel.Timeout != 10*time.Second {
		t.Fatalf("expected exotel timeout default, got %v", cfg.Exotel.Timeout)
	}
	if cfg.Billing.MinTalkMinutes != 5 {
		t.Fatalf("expected min talk minutes default 5, got %d", cfg.Billing.MinTalkMinutes)
	}
	if cfg.Billing.AdvocateSharePercent != 80 {
		t.Fatalf("expected advocate share default 80, got %d", cfg.Billing.AdvocateSharePercent)
	}
}

func TestLoad_RejectsBadEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "prod")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_RejectsExcessiveShare(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BILLING_ADVOCATE_SHARE_PERCENT", "130")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for share > 100")
	}
}

func TestConfig_Addrs(t *testing.T) {
	c := Config{}
	c.App.Port = 9000
	c.Redis.Host = "cache"
	c.Redis.Port = 6380

	if got := c.HTTPAddr(); got != ":9000" {
		t.Fatalf("HTTPAddr: got %q", got)
	}
	if got := c.RedisAddr(); got != "cache:6380" {
		t.Fatalf("RedisAddr: got %q", got)
	}
}
