package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"resume-analyzer/internal/shared/telemetry"
)

// ErrConfig reports a missing or invalid setting.
var ErrConfig = errors.New("config error")

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string
	TrustedProxies  []string

	GroqAPIKey  string
	GroqBaseURL string
	LLMModel    string
	LLMTimeout  time.Duration

	PromptsFile  string
	UploadTmpDir string
	MaxUploadMB  int

	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	loadEnvFiles(".env", "cmd/.env")

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             normalizeEnv(getEnv("ENV", "dev")),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "")),
		TrustedProxies:  splitAndTrim(getEnv("TRUSTED_PROXIES", "")),

		GroqAPIKey:  strings.TrimSpace(os.Getenv("GROQ_API_KEY")),
		GroqBaseURL: getEnv("GROQ_BASE_URL", ""),
		LLMModel:    getEnv("LLM_MODEL", "gemma2-9b-it"),
		LLMTimeout:  time.Duration(getInt("LLM_TIMEOUT_SECONDS", 0)) * time.Second,

		PromptsFile:  getEnv("PROMPTS_FILE", ""),
		UploadTmpDir: getEnv("UPLOAD_TMP_DIR", os.TempDir()),
		MaxUploadMB:  getInt("MAX_UPLOAD_MB", 10),

		RateLimitRPS:   getFloat("RATE_LIMIT_RPS", 0.5),
		RateLimitBurst: getInt("RATE_LIMIT_BURST", 5),
	}
}

// Validate reports settings the server cannot start without.
func (c Config) Validate() error {
	if c.GroqAPIKey == "" {
		return fmt.Errorf("%w: GROQ_API_KEY is required", ErrConfig)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("%w: MAX_UPLOAD_MB must be positive", ErrConfig)
	}
	if c.LLMTimeout < 0 {
		return fmt.Errorf("%w: LLM_TIMEOUT_SECONDS must not be negative", ErrConfig)
	}
	return nil
}

// MaxUploadBytes is the request body cap for uploads.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

func getEnv(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return def
}

func getInt(key string, def int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		telemetry.Warn("config.invalid_int", map[string]any{"key": key, "value": raw, "default": def})
		return def
	}
	return n
}

func getFloat(key string, def float64) float64 {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		telemetry.Warn("config.invalid_float", map[string]any{"key": key, "value": raw, "default": def})
		return def
	}
	return f
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	default:
		return "dev"
	}
}
