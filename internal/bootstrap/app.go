package bootstrap

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-analyzer/internal/analyzer"
	"resume-analyzer/internal/llm"
	"resume-analyzer/internal/llm/groq"
	"resume-analyzer/internal/prompts"
	"resume-analyzer/internal/services/health"
	"resume-analyzer/internal/shared/config"
	"resume-analyzer/internal/shared/server"
	"resume-analyzer/internal/shared/server/middleware"
	"resume-analyzer/internal/shared/telemetry"
	"resume-analyzer/internal/web"
)

// App holds the wired dependencies.
type App struct {
	Config    config.Config
	Router    *gin.Engine
	Prompts   *prompts.Set
	Completer llm.Completer
	Analyzer  *analyzer.Analyzer
	Pipeline  *web.Pipeline
	Handler   *web.Handler
	Health    *health.Service
}

// Option overrides a dependency, mostly for tests.
type Option func(*buildOptions)

type buildOptions struct {
	completer llm.Completer
	limiter   *middleware.RateLimiter
}

// WithCompleter replaces the Groq client.
func WithCompleter(c llm.Completer) Option {
	return func(o *buildOptions) {
		o.completer = c
	}
}

// WithRateLimiter injects the limiter, e.g. one with a fixed clock.
func WithRateLimiter(l *middleware.RateLimiter) Option {
	return func(o *buildOptions) {
		o.limiter = l
	}
}

// Build prepares all dependencies and the router. It fails fast on a
// missing credential or a prompt file that does not fit the analyzer.
func Build(cfg config.Config, opts ...Option) (*App, error) {
	var bo buildOptions
	for _, opt := range opts {
		opt(&bo)
	}

	set, err := LoadPrompts(cfg.PromptsFile)
	if err != nil {
		return nil, err
	}

	completer := bo.completer
	if completer == nil {
		completer, err = NewCompleter(cfg)
		if err != nil {
			return nil, err
		}
	}

	a, err := analyzer.New(set, completer, analyzer.WithModel(cfg.LLMModel))
	if err != nil {
		return nil, fmt.Errorf("analyzer: %w", err)
	}

	pipeline := web.NewPipeline(a, cfg.UploadTmpDir)
	handler := web.NewHandler(pipeline, cfg.MaxUploadBytes())
	healthSvc := health.NewService(
		map[string]string{"model": cfg.LLMModel, "prompts": set.Source(), "env": cfg.Env},
		health.Check{Name: "upload_tmp_dir", Run: func(context.Context) error {
			return checkWritable(cfg.UploadTmpDir)
		}},
	)
	router, err := server.NewRouter(server.RouterDeps{
		Config:  cfg,
		Handler: handler,
		Health:  healthSvc,
		Limiter: bo.limiter,
	})
	if err != nil {
		return nil, err
	}

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":          cfg.Env,
		"model":        cfg.LLMModel,
		"prompts":      set.Source(),
		"upload_tmp":   cfg.UploadTmpDir,
		"max_upload":   cfg.MaxUploadBytes(),
		"llm_timeout":  cfg.LLMTimeout.String(),
		"rate_limit":   cfg.RateLimitRPS,
		"rate_burst":   cfg.RateLimitBurst,
		"cors_origins": cfg.CORSAllowOrigin,
		"proxies":      cfg.TrustedProxies,
	})

	return &App{
		Config:    cfg,
		Router:    router,
		Prompts:   set,
		Completer: completer,
		Analyzer:  a,
		Pipeline:  pipeline,
		Handler:   handler,
		Health:    healthSvc,
	}, nil
}

// LoadPrompts reads the configured prompt file or falls back to the
// embedded defaults.
func LoadPrompts(path string) (*prompts.Set, error) {
	if strings.TrimSpace(path) == "" {
		return prompts.Default()
	}
	return prompts.Load(path)
}

// NewCompleter builds the Groq client from configuration.
func NewCompleter(cfg config.Config) (*groq.Client, error) {
	return groq.NewClient(cfg.GroqAPIKey,
		groq.WithBaseURL(cfg.GroqBaseURL),
		groq.WithDefaultModel(cfg.LLMModel),
		groq.WithTimeout(cfg.LLMTimeout),
	)
}

// checkWritable creates and removes a probe file in dir.
func checkWritable(dir string) error {
	f, err := os.CreateTemp(dir, "health-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}
