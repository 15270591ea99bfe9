package main

import (
	"github.com/spf13/cobra"

	"resume-analyzer/internal/shared/telemetry"
)

var (
	filePath    string
	designation string
	experience  string
	domain      string
	extractOnly bool
	promptsFile string
	model       string
	anySelect   bool
)

var rootCmd = &cobra.Command{
	Use:   "prompttest",
	Short: "Run a resume through extraction and analysis from the terminal",
	Long: "prompttest extracts text from a local PDF or DOCX resume and, unless --extract-only is set,\n" +
		"sends it to the configured model with the resume_analysis prompt. Configuration comes from\n" +
		"the same environment variables and .env file as the API server.",
	SilenceUsage: true,
	// Results go to stdout; log lines go to stderr so output can be redirected cleanly.
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		telemetry.SetOutput(cmd.ErrOrStderr())
	},
	RunE: runAnalyze,
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&filePath, "file", "f", "", "path to a .pdf or .docx resume (required)")
	f.StringVar(&designation, "designation", "Data Scientist", "target designation")
	f.StringVar(&experience, "experience", "Fresher", "experience level")
	f.StringVar(&domain, "domain", "Finance", "industry domain")
	f.BoolVar(&extractOnly, "extract-only", false, "print the extracted text and skip the model call")
	f.BoolVar(&anySelect, "any", false, "accept values outside the offered option lists")
	rootCmd.PersistentFlags().StringVar(&promptsFile, "prompts", "", "prompt file (default: PROMPTS_FILE or the embedded prompts)")
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "model id (default: LLM_MODEL)")
	_ = rootCmd.MarkFlagRequired("file")
}
