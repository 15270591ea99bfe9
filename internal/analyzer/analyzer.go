// Package analyzer turns extracted resume text into model feedback for a
// chosen designation, experience level and domain.
package analyzer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"resume-analyzer/internal/llm"
	"resume-analyzer/internal/prompts"
	"resume-analyzer/internal/shared/metrics"
	"resume-analyzer/internal/shared/telemetry"
)

// MaxTokens is the completion budget for a resume analysis.
const MaxTokens = 1500

// Placeholder names the resume_analysis template must declare, exactly.
var requiredPlaceholders = []string{"designation", "experience", "domain"}

// Analyzer composes the prompt set with a completer.
type Analyzer struct {
	prompts   *prompts.Set
	completer llm.Completer
	model     string
}

// Option customizes an Analyzer.
type Option func(*Analyzer)

// WithModel sets the model sent with each request. Empty leaves the
// completer's default.
func WithModel(model string) Option {
	return func(a *Analyzer) {
		a.model = model
	}
}

// New fails when the prompt set has no resume_analysis template or its
// placeholders differ from designation, experience and domain.
func New(set *prompts.Set, completer llm.Completer, opts ...Option) (*Analyzer, error) {
	if set == nil {
		return nil, fmt.Errorf("%w: prompt set is nil", prompts.ErrConfig)
	}
	if completer == nil {
		return nil, fmt.Errorf("%w: completer is nil", llm.ErrConfig)
	}
	if err := set.Require(prompts.ResumeAnalysis, requiredPlaceholders...); err != nil {
		return nil, err
	}
	a := &Analyzer{prompts: set, completer: completer}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// AnalyzeResume fills the resume_analysis prompt and returns the model's
// answer. Prompt and inference errors are returned wrapped, unchanged in kind.
func (a *Analyzer) AnalyzeResume(ctx context.Context, text, designation, experience, domain string) (string, error) {
	prompt, err := a.prompts.Get(prompts.ResumeAnalysis, map[string]string{
		"designation": designation,
		"experience":  experience,
		"domain":      domain,
	})
	if err != nil {
		telemetry.Error("analysis.failed", map[string]any{"stage": "prompt", "err": telemetry.ErrField(err)})
		return "", fmt.Errorf("build prompt: %w", err)
	}

	fields := map[string]any{
		"designation": designation,
		"experience":  experience,
		"domain":      domain,
		"text_chars":  len(text),
		"model":       a.model,
	}
	telemetry.Info("analysis.start", fields)

	start := time.Now()
	out, err := a.completer.Complete(ctx, llm.Request{
		Prompt:    prompt,
		Text:      text,
		Model:     a.model,
		MaxTokens: MaxTokens,
	})
	elapsed := time.Since(start)
	metrics.ObserveInferenceDurationMs(float64(elapsed.Microseconds()) / 1000.0)
	fields["duration_ms"] = float64(elapsed.Microseconds()) / 1000.0
	if err != nil {
		fields["stage"] = "inference"
		fields["err"] = telemetry.ErrField(err)
		telemetry.Error("analysis.failed", fields)
		return "", fmt.Errorf("analyze resume: %w", err)
	}

	out = strings.TrimSpace(out)
	fields["result_chars"] = len(out)
	telemetry.Info("analysis.complete", fields)
	return out, nil
}
