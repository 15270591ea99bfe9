package web

import (
	"errors"
	"net/http"

	"resume-analyzer/internal/analyzer"
	"resume-analyzer/internal/extract"
	"resume-analyzer/internal/llm"
	"resume-analyzer/internal/prompts"
)

var (
	// ErrMissingFile is returned when the form has no file part.
	ErrMissingFile = errors.New("file is required")
	// ErrUnsupportedType is returned for extensions other than pdf and docx.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrEmptyDocument is returned when extraction yields only whitespace.
	ErrEmptyDocument = errors.New("no text found in document")
	// ErrUploadTooLarge is returned when the body exceeds the upload cap.
	ErrUploadTooLarge = errors.New("upload too large")
)

type failure struct {
	status  int
	code    string
	message string
}

// classify maps pipeline errors onto a status, an error code and a message
// safe to show the user.
func classify(err error) failure {
	switch {
	case errors.Is(err, ErrMissingFile):
		return failure{http.StatusBadRequest, "validation_error", "Please choose a resume file to upload."}
	case errors.Is(err, ErrUploadTooLarge):
		return failure{http.StatusRequestEntityTooLarge, "file_too_large", "The uploaded file is too large."}
	case errors.Is(err, ErrUnsupportedType):
		return failure{http.StatusBadRequest, "unsupported_file_type", "Only PDF and DOCX files are supported."}
	case errors.Is(err, analyzer.ErrInvalidSelection):
		return failure{http.StatusBadRequest, "validation_error", "Please pick a designation, experience level and domain from the lists."}
	case errors.Is(err, ErrEmptyDocument):
		return failure{http.StatusUnprocessableEntity, "empty_document", "No text could be extracted from the document."}
	case errors.Is(err, extract.ErrFileAccess), errors.Is(err, extract.ErrParse):
		return failure{http.StatusUnprocessableEntity, "extraction_failed", "The document could not be read. Is it a valid PDF or DOCX file?"}
	case errors.Is(err, prompts.ErrTemplateNotFound), errors.Is(err, prompts.ErrSubstitution):
		return failure{http.StatusInternalServerError, "prompt_misconfigured", "The analysis prompt is misconfigured."}
	case errors.Is(err, llm.ErrInference):
		return failure{http.StatusBadGateway, "inference_failed", "The analysis service is unavailable. Please try again."}
	default:
		return failure{http.StatusInternalServerError, "internal", "Unexpected server error"}
	}
}
