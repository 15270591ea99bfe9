package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"resume-analyzer/internal/extract/extracttest"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := executeStreams(t, args...)
	return out, err
}

func executeStreams(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		filePath, promptsFile, model = "", "", ""
		extractOnly, anySelect = false, false
		designation, experience, domain = "Data Scientist", "Fresher", "Finance"
	})
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestExtractOnlyPrintsText(t *testing.T) {
	path := extracttest.WriteFile(t, "resume.docx", extracttest.DOCX(t, "Jane Doe", "Go, SQL"))

	out, err := execute(t, "--file", path, "--extract-only")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "Jane Doe\nGo, SQL") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRejectsUnsupportedFile(t *testing.T) {
	path := extracttest.WriteFile(t, "resume.txt", []byte("hello"))
	if _, err := execute(t, "--file", path, "--extract-only"); err == nil {
		t.Fatalf("expected error for .txt")
	}
}

func TestRejectsSelectionOutsideCatalog(t *testing.T) {
	path := extracttest.WriteFile(t, "resume.pdf", extracttest.PDF(t, "Page1"))
	_, err := execute(t, "--file", path, "--designation", "Astronaut")
	if err == nil || !strings.Contains(err.Error(), "--any") {
		t.Fatalf("expected selection error, got %v", err)
	}
}

func TestPromptsListsPlaceholders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	doc := "resume_analysis:\n  description: main prompt\n  template: \"{designation} {experience} {domain}\"\nplain:\n  template: no vars\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	out, err := execute(t, "prompts", "--prompts", path)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "resume_analysis\t{designation} {experience} {domain}\tmain prompt") {
		t.Fatalf("unexpected output %q", out)
	}
	if !strings.Contains(out, "plain\t-") {
		t.Fatalf("expected placeholder-less prompt, got %q", out)
	}
}

func TestLogLinesGoToStderr(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("PROMPTS_FILE", "")
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("PROMPTS_FILE=ignored.yaml\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	out, errOut, err := executeStreams(t, "prompts")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.HasPrefix(out, "source: embedded\n") {
		t.Fatalf("unexpected stdout %q", out)
	}
	if strings.Contains(out, "config.env_file_loaded") {
		t.Fatalf("log line leaked into stdout: %q", out)
	}
	if !strings.Contains(errOut, "config.env_file_loaded") {
		t.Fatalf("expected log line on stderr, got %q", errOut)
	}
}
