package prompts

import "errors"

var (
	// ErrConfig is returned when the prompt definitions cannot be loaded.
	ErrConfig = errors.New("prompt config error")
	// ErrTemplateNotFound is returned for an unknown prompt name.
	ErrTemplateNotFound = errors.New("prompt template not found")
	// ErrSubstitution is returned when placeholders and values do not line up.
	ErrSubstitution = errors.New("prompt substitution error")
)
