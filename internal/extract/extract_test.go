package extract

import (
	"context"
	"errors"
	"os"
	"runtime"
	"strings"
	"testing"

	"resume-analyzer/internal/extract/extracttest"
)

func TestExtractPDFJoinsPagesInOrder(t *testing.T) {
	path := extracttest.WriteFile(t, "resume.pdf", extracttest.PDF(t, "Page1", "Page2"))

	got, err := Extract(context.Background(), path, "pdf")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	// Every text object starts on a fresh line, so each page carries a leading newline.
	if want := "Page1\n\nPage2"; strings.TrimSpace(got) != want {
		t.Fatalf("Extract = %q, want %q after trimming", got, want)
	}
}

func TestExtractDOCXJoinsParagraphs(t *testing.T) {
	path := extracttest.WriteFile(t, "resume.docx", extracttest.DOCX(t, "Jane Doe", "Data Analyst", "", "SQL, Python"))

	got, err := Extract(context.Background(), path, "docx")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if want := "Jane Doe\nData Analyst\n\nSQL, Python"; got != want {
		t.Fatalf("Extract = %q, want %q", got, want)
	}
}

func TestExtractExtensionIsCaseInsensitive(t *testing.T) {
	path := extracttest.WriteFile(t, "resume.docx", extracttest.DOCX(t, "hello"))

	got, err := Extract(context.Background(), path, ".DOCX")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != "hello" {
		t.Fatalf("Extract = %q, want hello", got)
	}
}

func TestExtractUnsupportedExtensionReturnsEmpty(t *testing.T) {
	path := extracttest.WriteFile(t, "notes.txt", []byte("plain text"))

	for _, ext := range []string{"txt", "doc", "", "pdfx"} {
		got, err := Extract(context.Background(), path, ext)
		if err != nil {
			t.Fatalf("Extract(%q): unexpected error %v", ext, err)
		}
		if got != "" {
			t.Fatalf("Extract(%q) = %q, want empty", ext, got)
		}
	}
}

func TestExtractMissingFile(t *testing.T) {
	for _, ext := range []string{"pdf", "docx"} {
		_, err := Extract(context.Background(), "/nonexistent/resume."+ext, ext)
		if !errors.Is(err, ErrFileAccess) {
			t.Fatalf("Extract(%s) error = %v, want ErrFileAccess", ext, err)
		}
	}
}

func TestExtractCorruptContent(t *testing.T) {
	tests := []struct {
		name string
		ext  string
		data []byte
	}{
		{name: "pdf garbage", ext: "pdf", data: []byte(strings.Repeat("not a pdf ", 32))},
		{name: "pdf empty", ext: "pdf", data: nil},
		{name: "docx not zip", ext: "docx", data: []byte("definitely not a zip archive")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := extracttest.WriteFile(t, "broken."+tt.ext, tt.data)
			_, err := Extract(context.Background(), path, tt.ext)
			if !errors.Is(err, ErrParse) {
				t.Fatalf("Extract error = %v, want ErrParse", err)
			}
		})
	}
}

func TestExtractCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Extract(ctx, "ignored.pdf", "pdf"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestExtractReleasesFileHandles(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("fd accounting relies on /proc/self/fd")
	}
	pdfPath := extracttest.WriteFile(t, "resume.pdf", extracttest.PDF(t, "Page1"))
	docxPath := extracttest.WriteFile(t, "resume.docx", extracttest.DOCX(t, "Para"))
	brokenPath := extracttest.WriteFile(t, "broken.docx", []byte("broken"))

	// Keep one handle open to show extraction does not depend on exclusive access.
	held, err := os.Open(pdfPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer held.Close()

	before := openFDs(t)
	for i := 0; i < 50; i++ {
		if _, err := Extract(context.Background(), pdfPath, "pdf"); err != nil {
			t.Fatalf("pdf extract: %v", err)
		}
		if _, err := Extract(context.Background(), docxPath, "docx"); err != nil {
			t.Fatalf("docx extract: %v", err)
		}
		if _, err := Extract(context.Background(), brokenPath, "docx"); err == nil {
			t.Fatal("expected parse error for broken docx")
		}
	}
	after := openFDs(t)
	if after > before {
		t.Fatalf("file descriptors leaked: before=%d after=%d", before, after)
	}
}

func openFDs(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir("/proc/self/fd")
	if err != nil {
		t.Skipf("read /proc/self/fd: %v", err)
	}
	return len(entries)
}

func TestSupportedAndExtensionOf(t *testing.T) {
	tests := []struct {
		fileName string
		ext      string
		ok       bool
	}{
		{fileName: "cv.pdf", ext: "pdf", ok: true},
		{fileName: "CV.DOCX", ext: "docx", ok: true},
		{fileName: "cv.doc", ext: "doc", ok: false},
		{fileName: "cv", ext: "", ok: false},
		{fileName: "archive.tar.pdf", ext: "pdf", ok: true},
	}
	for _, tt := range tests {
		if got := ExtensionOf(tt.fileName); got != tt.ext {
			t.Fatalf("ExtensionOf(%q) = %q, want %q", tt.fileName, got, tt.ext)
		}
		if got := Supported(tt.ext); got != tt.ok {
			t.Fatalf("Supported(%q) = %v, want %v", tt.ext, got, tt.ok)
		}
	}
}

func TestDocxParagraphsHandlesRunsTabsAndBreaks(t *testing.T) {
	raw := `<w:document xmlns:w="w"><w:body>` +
		`<w:p><w:r><w:t>Skills:</w:t></w:r><w:r><w:tab/><w:t>Go</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Line one</w:t><w:br/><w:t>Line two</w:t></w:r></w:p>` +
		`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>Cell</w:t></w:r></w:p></w:tc></w:tr></w:tbl>` +
		`</w:body></w:document>`

	got, err := docxParagraphs(raw)
	if err != nil {
		t.Fatalf("docxParagraphs: %v", err)
	}
	want := []string{"Skills:\tGo", "Line one\nLine two", "Cell"}
	if len(got) != len(want) {
		t.Fatalf("got %d paragraphs (%q), want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("paragraph %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDocxParagraphsTextBoxReadOnce(t *testing.T) {
	raw := `<w:document xmlns:w="w" xmlns:mc="mc" xmlns:wps="wps" xmlns:v="v"><w:body>` +
		`<w:p><w:r><mc:AlternateContent>` +
		`<mc:Choice Requires="wps"><w:drawing><wps:txbx><w:txbxContent>` +
		`<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>` +
		`</w:txbxContent></wps:txbx></w:drawing></mc:Choice>` +
		`<mc:Fallback><w:pict><v:textbox><w:txbxContent>` +
		`<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>` +
		`</w:txbxContent></v:textbox></w:pict></mc:Fallback>` +
		`</mc:AlternateContent></w:r><w:r><w:t>Summary</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Experience</w:t></w:r></w:p>` +
		`</w:body></w:document>`

	got, err := docxParagraphs(raw)
	if err != nil {
		t.Fatalf("docxParagraphs: %v", err)
	}
	want := []string{"Jane Doe", "Summary", "Experience"}
	if len(got) != len(want) {
		t.Fatalf("got %d paragraphs (%q), want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("paragraph %d = %q, want %q", i, got[i], want[i])
		}
	}
}
