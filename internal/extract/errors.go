package extract

import "errors"

var (
	// ErrFileAccess is returned when the document cannot be opened or read.
	ErrFileAccess = errors.New("file access error")
	// ErrParse is returned when the document content is not a valid PDF or DOCX.
	ErrParse = errors.New("document parse error")
)
