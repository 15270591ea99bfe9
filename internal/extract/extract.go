package extract

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	ExtPDF  = "pdf"
	ExtDOCX = "docx"
)

// Extract returns the plain text of the document at path.
// PDF pages and DOCX paragraphs are joined with "\n" in document order.
// Unsupported extensions yield an empty string and a nil error.
// Libraries used: github.com/ledongthuc/pdf (PDF) and github.com/nguyenthenguyen/docx (DOCX).
func Extract(ctx context.Context, path string, ext string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	switch normalizeExt(ext) {
	case ExtPDF:
		return extractPDF(path)
	case ExtDOCX:
		return extractDOCX(path)
	default:
		return "", nil
	}
}

// Supported reports whether ext names a format Extract understands.
func Supported(ext string) bool {
	switch normalizeExt(ext) {
	case ExtPDF, ExtDOCX:
		return true
	default:
		return false
	}
}

// ExtensionOf returns the lower-cased extension of fileName without the dot.
func ExtensionOf(fileName string) string {
	return normalizeExt(filepath.Ext(fileName))
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// openFile opens path and reports its size. The caller owns the returned file.
func openFile(path string) (*os.File, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrFileAccess, err)
	}
	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, fmt.Errorf("%w: stat: %v", ErrFileAccess, err)
	}
	return f, fi.Size(), nil
}

func extractPDF(path string) (text string, err error) {
	f, size, err := openFile(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	// The pdf package panics on malformed object graphs.
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("%w: pdf: %v", ErrParse, rec)
		}
	}()

	reader, err := pdf.NewReader(f, size)
	if err != nil {
		return "", fmt.Errorf("%w: pdf: %v", ErrParse, err)
	}

	numPages := reader.NumPage()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		// Font names are scoped to the page resources, so each page resolves its own.
		plain, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("%w: pdf page %d: %v", ErrParse, i, err)
		}
		pages = append(pages, plain)
	}
	return strings.Join(pages, "\n"), nil
}

func extractDOCX(path string) (string, error) {
	f, size, err := openFile(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	doc, err := docx.ReadDocxFromMemory(f, size)
	if err != nil {
		return "", fmt.Errorf("%w: docx: %v", ErrParse, err)
	}
	defer doc.Close()

	paragraphs, err := docxParagraphs(doc.Editable().GetContent())
	if err != nil {
		return "", fmt.Errorf("%w: docx: %v", ErrParse, err)
	}
	return strings.Join(paragraphs, "\n"), nil
}

// docxParagraphs walks word/document.xml and returns the text of every w:p
// element. Paragraphs nested in a text box are emitted on their own, ahead of
// the paragraph that anchors them. mc:Fallback subtrees repeat the mc:Choice
// content and are skipped.
func docxParagraphs(raw string) ([]string, error) {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var (
		paragraphs []string
		open       []*strings.Builder
		skip       int
		inText     bool
	)
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if skip > 0 {
			switch t := tok.(type) {
			case xml.StartElement:
				if t.Name.Local == "Fallback" {
					skip++
				}
			case xml.EndElement:
				if t.Name.Local == "Fallback" {
					skip--
				}
			}
			continue
		}
		var cur *strings.Builder
		if n := len(open); n > 0 {
			cur = open[n-1]
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "Fallback":
				skip = 1
				inText = false
			case "p":
				open = append(open, &strings.Builder{})
				inText = false
			case "t":
				inText = cur != nil
			case "tab":
				if cur != nil {
					cur.WriteString("\t")
				}
			case "br", "cr":
				if cur != nil {
					cur.WriteString("\n")
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if cur == nil {
					continue
				}
				open = open[:len(open)-1]
				paragraphs = append(paragraphs, cur.String())
				inText = false
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText && cur != nil {
				cur.Write(t)
			}
		}
	}
	return paragraphs, nil
}
