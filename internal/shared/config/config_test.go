package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"PORT", "ENV", "GROQ_API_KEY", "LLM_MODEL", "LLM_TIMEOUT_SECONDS", "PROMPTS_FILE", "MAX_UPLOAD_MB", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "CORS_ALLOW_ORIGINS", "TRUSTED_PROXIES"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8080" || cfg.Env != "dev" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.LLMModel != "gemma2-9b-it" {
		t.Fatalf("LLMModel = %q", cfg.LLMModel)
	}
	if cfg.LLMTimeout != 0 {
		t.Fatalf("expected no timeout by default, got %v", cfg.LLMTimeout)
	}
	if cfg.MaxUploadBytes() != 10<<20 {
		t.Fatalf("MaxUploadBytes = %d", cfg.MaxUploadBytes())
	}
	if len(cfg.CORSAllowOrigin) != 0 {
		t.Fatalf("expected no cross-origin callers by default, got %v", cfg.CORSAllowOrigin)
	}
	if len(cfg.TrustedProxies) != 0 {
		t.Fatalf("expected no trusted proxies by default, got %v", cfg.TrustedProxies)
	}
	if err := cfg.Validate(); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig without key, got %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GROQ_API_KEY", " gsk_test ")
	t.Setenv("ENV", "prod")
	t.Setenv("LLM_TIMEOUT_SECONDS", "30")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("RATE_LIMIT_RPS", "not-a-number")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 127.0.0.1")

	cfg := Load()
	if cfg.GroqAPIKey != "gsk_test" {
		t.Fatalf("GroqAPIKey = %q", cfg.GroqAPIKey)
	}
	if cfg.Env != "production" {
		t.Fatalf("Env = %q", cfg.Env)
	}
	if cfg.LLMTimeout != 30*time.Second {
		t.Fatalf("LLMTimeout = %v", cfg.LLMTimeout)
	}
	if len(cfg.CORSAllowOrigin) != 2 {
		t.Fatalf("CORSAllowOrigin = %v", cfg.CORSAllowOrigin)
	}
	if len(cfg.TrustedProxies) != 2 || cfg.TrustedProxies[0] != "10.0.0.0/8" {
		t.Fatalf("TrustedProxies = %v", cfg.TrustedProxies)
	}
	if cfg.RateLimitRPS != 0.5 {
		t.Fatalf("invalid float should fall back, got %v", cfg.RateLimitRPS)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestLoadReadsDotEnvWithoutOverriding(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("GROQ_API_KEY=from-file\nLLM_MODEL=llama-3.1-8b-instant\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("LLM_MODEL", "mixtral-8x7b-32768")
	os.Unsetenv("GROQ_API_KEY")

	cfg := Load()
	if cfg.GroqAPIKey != "from-file" {
		t.Fatalf("expected key from .env, got %q", cfg.GroqAPIKey)
	}
	if cfg.LLMModel != "mixtral-8x7b-32768" {
		t.Fatalf("environment should win over .env, got %q", cfg.LLMModel)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Config{GroqAPIKey: "k", MaxUploadMB: 0}
	if err := cfg.Validate(); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
	cfg = Config{GroqAPIKey: "k", MaxUploadMB: 1, LLMTimeout: -time.Second}
	if err := cfg.Validate(); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
}
