package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"resume-analyzer/internal/analyzer"
	"resume-analyzer/internal/bootstrap"
	"resume-analyzer/internal/extract"
	"resume-analyzer/internal/shared/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	ext := extract.ExtensionOf(filePath)
	if !extract.Supported(ext) {
		return fmt.Errorf("unsupported file type %q: use .pdf or .docx", ext)
	}

	text, err := extract.Extract(ctx, filePath, ext)
	if err != nil {
		return fmt.Errorf("extract %s: %w", filePath, err)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("no text found in %s", filePath)
	}
	if extractOnly {
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	}

	if !anySelect {
		if err := analyzer.ValidateSelection(designation, experience, domain); err != nil {
			return fmt.Errorf("%w (pass --any to skip this check)", err)
		}
	}

	cfg := config.Load()
	if promptsFile != "" {
		cfg.PromptsFile = promptsFile
	}
	if model != "" {
		cfg.LLMModel = model
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	set, err := bootstrap.LoadPrompts(cfg.PromptsFile)
	if err != nil {
		return err
	}
	client, err := bootstrap.NewCompleter(cfg)
	if err != nil {
		return err
	}
	a, err := analyzer.New(set, client, analyzer.WithModel(cfg.LLMModel))
	if err != nil {
		return err
	}

	result, err := a.AnalyzeResume(ctx, text, designation, experience, domain)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), result)
	return nil
}
