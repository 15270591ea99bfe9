package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-analyzer/internal/analyzer"
	"resume-analyzer/internal/extract"
	"resume-analyzer/internal/shared/metrics"
	"resume-analyzer/internal/shared/telemetry"
	"resume-analyzer/internal/shared/util"
)

// ResumeAnalyzer is the analysis step of the pipeline.
type ResumeAnalyzer interface {
	AnalyzeResume(ctx context.Context, text, designation, experience, domain string) (string, error)
}

// ExtractFunc pulls text from a file on disk.
type ExtractFunc func(ctx context.Context, path, ext string) (string, error)

// Selection is the designation, experience level and domain a user picked.
type Selection struct {
	Designation string `form:"designation" json:"designation"`
	Experience  string `form:"experience" json:"experience"`
	Domain      string `form:"domain" json:"domain"`
}

func (s Selection) trimmed() Selection {
	return Selection{
		Designation: strings.TrimSpace(s.Designation),
		Experience:  strings.TrimSpace(s.Experience),
		Domain:      strings.TrimSpace(s.Domain),
	}
}

// Pipeline runs upload -> extract -> analyze for one request. It holds no
// per-request state.
type Pipeline struct {
	Analyzer ResumeAnalyzer
	Extract  ExtractFunc
	TmpDir   string
}

// NewPipeline wires the default extractor.
func NewPipeline(a ResumeAnalyzer, tmpDir string) *Pipeline {
	return &Pipeline{Analyzer: a, Extract: extract.Extract, TmpDir: tmpDir}
}

// Analyze extracts the upload's text and returns the model's feedback.
func (p *Pipeline) Analyze(ctx context.Context, fh *multipart.FileHeader, sel Selection) (string, error) {
	sel = sel.trimmed()
	if err := analyzer.ValidateSelection(sel.Designation, sel.Experience, sel.Domain); err != nil {
		return "", err
	}
	text, _, err := p.ExtractText(ctx, fh)
	if err != nil {
		return "", err
	}
	return p.Analyzer.AnalyzeResume(ctx, text, sel.Designation, sel.Experience, sel.Domain)
}

// ExtractText stores the upload in a unique temp file, extracts its text and
// removes the file before returning.
func (p *Pipeline) ExtractText(ctx context.Context, fh *multipart.FileHeader) (string, string, error) {
	if fh == nil {
		return "", "", ErrMissingFile
	}
	ext := extract.ExtensionOf(fh.Filename)
	if !extract.Supported(ext) {
		return "", ext, fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}

	path, digest, cleanup, err := p.saveUpload(fh, ext)
	if err != nil {
		return "", ext, err
	}
	defer cleanup()

	start := time.Now()
	text, err := p.Extract(ctx, path, ext)
	fields := map[string]any{
		"ext":         ext,
		"size_bytes":  fh.Size,
		"sha256":      digest,
		"duration_ms": float64(time.Since(start).Microseconds()) / 1000.0,
	}
	if err != nil {
		metrics.IncExtraction(ext, "error")
		fields["err"] = telemetry.ErrField(err)
		telemetry.Error("extract.failed", fields)
		return "", ext, err
	}
	if strings.TrimSpace(text) == "" {
		metrics.IncExtraction(ext, "empty")
		telemetry.Warn("extract.empty", fields)
		return "", ext, ErrEmptyDocument
	}
	metrics.IncExtraction(ext, "ok")
	fields["text_chars"] = len(text)
	telemetry.Info("extract.complete", fields)
	return text, ext, nil
}

// saveUpload copies the upload to a temp file named resume-<uuid>-*.<ext>
// and returns its path, a short content digest and the remover.
func (p *Pipeline) saveUpload(fh *multipart.FileHeader, ext string) (string, string, func(), error) {
	src, err := fh.Open()
	if err != nil {
		return "", "", nil, fmt.Errorf("%w: open upload: %v", extract.ErrFileAccess, err)
	}
	defer src.Close()

	dst, err := os.CreateTemp(p.TmpDir, "resume-"+uuid.NewString()+"-*."+ext)
	if err != nil {
		return "", "", nil, fmt.Errorf("create temp file: %w", err)
	}
	path := dst.Name()
	cleanup := func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			telemetry.Warn("upload.cleanup_failed", map[string]any{"path": path, "err": telemetry.ErrField(err)})
		}
	}

	digest := util.NewDigest()
	if _, err := io.Copy(io.MultiWriter(dst, digest), src); err != nil {
		_ = dst.Close()
		cleanup()
		return "", "", nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := dst.Close(); err != nil {
		cleanup()
		return "", "", nil, fmt.Errorf("close temp file: %w", err)
	}
	return path, util.ShortDigest(digest), cleanup, nil
}

// multipartMemory is how much of a form is buffered in memory before
// spilling to disk.
const multipartMemory = 8 << 20

// formFile parses the multipart body and returns the "file" part. The caller
// must call release once the request is done.
func formFile(r *http.Request) (fh *multipart.FileHeader, release func(), err error) {
	release = func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			return nil, release, ErrUploadTooLarge
		}
		return nil, release, fmt.Errorf("%w: %v", ErrMissingFile, err)
	}
	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		return nil, release, ErrMissingFile
	}
	return files[0], release, nil
}
