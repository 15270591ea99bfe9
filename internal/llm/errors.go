package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig is returned when a client is constructed without a usable credential.
	ErrConfig = errors.New("llm config error")
	// ErrInference wraps every failure of a completion call.
	ErrInference = errors.New("inference error")
)

// StatusError records a non-2xx response from the inference API.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("http status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("http status %d", e.StatusCode)
}

// Is lets errors.Is(err, ErrInference) match a bare StatusError.
func (e *StatusError) Is(target error) bool {
	return target == ErrInference
}

// IsAuth reports whether the API rejected the credential.
func (e *StatusError) IsAuth() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}
